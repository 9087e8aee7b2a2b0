package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"tripquote/internal/app/dto"
	catalogapp "tripquote/internal/app/handlers/catalogq"
)

type CatalogHandler struct {
	ListItems *catalogapp.ListItemsHandler
}

// Catalog lists sellable items, optionally filtered by kind.
func (h CatalogHandler) Catalog(c *gin.Context) {
	items, err := h.ListItems.Handle(c.Request.Context(), catalogapp.ListItemsQuery{Kind: c.Query("kind")})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCatalogItemCollection(items))
}
