package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"tripquote/internal/app/dto"
	agentapp "tripquote/internal/app/handlers/agents"
)

type AgentHandler struct {
	GetTier *agentapp.GetTierHandler
}

// Tier reports an agent's discount bracket and promotion progress.
func (h AgentHandler) Tier(c *gin.Context) {
	result, err := h.GetTier.Handle(c.Request.Context(), agentapp.TierQuery{AgentID: c.Param("id")})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAgentTierDTO(result.Agent, result.Progress))
}
