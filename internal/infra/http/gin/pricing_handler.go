package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"tripquote/internal/app/dto"
	catalogapp "tripquote/internal/app/handlers/catalogq"
	quoteapp "tripquote/internal/app/handlers/quotes"
)

// PricingHandler exposes the pricing engine without quote persistence:
// dry-run calculations and point pricing for single items.
type PricingHandler struct {
	Calculate *quoteapp.CalculateQuoteHandler
	PriceItem *catalogapp.PriceItemHandler
}

type calculateRequest struct {
	AgentID   string             `json:"agent_id"`
	StartDate string             `json:"start_date"`
	EndDate   string             `json:"end_date"`
	Pax       paxRequest         `json:"pax"`
	Items     []quoteItemRequest `json:"items"`
	Markup    *markupRequest     `json:"markup"`
}

func (h PricingHandler) CalculateQuote(c *gin.Context) {
	var req calculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, end, ok := parseDatePair(c, req.StartDate, req.EndDate)
	if !ok {
		return
	}
	markup, ok := parseMarkup(c, req.Markup)
	if !ok {
		return
	}
	result, err := h.Calculate.Handle(c.Request.Context(), quoteapp.CalculateQuoteCommand{
		AgentID:   req.AgentID,
		StartDate: start,
		EndDate:   end,
		Pax: quoteapp.PaxInput{
			Adults:          req.Pax.Adults,
			ChildWithBed:    req.Pax.ChildWithBed,
			ChildWithoutBed: req.Pax.ChildWithoutBed,
		},
		Items:  mapItemInputs(req.Items),
		Markup: markup,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCalculationDTO(result.Lines, result.Pricing))
}

// ItemPrice resolves the seasonal price of one catalog item on a date.
func (h PricingHandler) ItemPrice(c *gin.Context) {
	date, ok := parseFlexibleTime(c.Query("date"))
	if !ok {
		date = time.Now().UTC()
	}
	result, err := h.PriceItem.Handle(c.Request.Context(), catalogapp.PriceItemQuery{
		ItemID: c.Param("id"),
		Date:   date,
		Pax:    parseIntWithDefault(c.Query("pax"), 1),
		Nights: parseInt(c.Query("nights")),
		Tier:   c.Query("tier"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewItemPricingDTO(*result))
}
