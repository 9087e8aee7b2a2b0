package agents

import (
	"context"

	"tripquote/internal/app/handlers/support"
	"tripquote/internal/app/uow"
	domainagent "tripquote/internal/domain/agent"
)

type TierQuery struct {
	AgentID string
}

type TierResult struct {
	Agent    *domainagent.Agent
	Progress domainagent.TierProgress
}

// GetTierHandler reports an agent's current tier and promotion progress.
type GetTierHandler struct {
	UoWFactory uow.Factory
}

func (h *GetTierHandler) Handle(ctx context.Context, qry TierQuery) (*TierResult, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	ag, err := unit.Agents().ByID(ctx, domainagent.AgentID(qry.AgentID))
	if err != nil {
		return nil, err
	}
	return &TierResult{Agent: ag, Progress: ag.Progress()}, nil
}
