package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"tripquote/internal/app/dto"
	quoteapp "tripquote/internal/app/handlers/quotes"
)

// QuoteHandler wires quote building and lifecycle commands to HTTP.
type QuoteHandler struct {
	BuildItemized *quoteapp.BuildItemizedQuoteHandler
	BuildPackage  *quoteapp.BuildPackageQuoteHandler
	Reprice       *quoteapp.RepriceQuoteHandler
	Transition    *quoteapp.TransitionQuoteHandler
	Duplicate     *quoteapp.DuplicateQuoteHandler
	Delete        *quoteapp.DeleteQuoteHandler
	List          *quoteapp.ListQuotesHandler
	Get           *quoteapp.GetQuoteHandler
	Document      *quoteapp.ExportDocumentHandler
}

type paxRequest struct {
	Adults          int `json:"adults"`
	ChildWithBed    int `json:"child_with_bed"`
	ChildWithoutBed int `json:"child_without_bed"`
}

type markupRequest struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type quoteItemRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
	Nights   int    `json:"nights"`
	Pax      int    `json:"pax"`
}

type createQuoteRequest struct {
	AgentID     string             `json:"agent_id"`
	PackageID   string             `json:"package_id"`
	ClientName  string             `json:"client_name"`
	ClientEmail string             `json:"client_email"`
	ClientPhone string             `json:"client_phone"`
	StartDate   string             `json:"start_date"`
	EndDate     string             `json:"end_date"`
	Pax         paxRequest         `json:"pax"`
	Items       []quoteItemRequest `json:"items"`
	Markup      *markupRequest     `json:"markup"`
	Notes       string             `json:"notes"`
}

// Create builds either an itemized or a package quote depending on whether
// the request names a package.
func (h QuoteHandler) Create(c *gin.Context) {
	var req createQuoteRequest
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
	pax := quoteapp.PaxInput{
		Adults:          req.Pax.Adults,
		ChildWithBed:    req.Pax.ChildWithBed,
		ChildWithoutBed: req.Pax.ChildWithoutBed,
	}

	if req.PackageID != "" {
		result, err := h.BuildPackage.Handle(c.Request.Context(), quoteapp.BuildPackageQuoteCommand{
			AgentID:     req.AgentID,
			PackageID:   req.PackageID,
			ClientName:  req.ClientName,
			ClientEmail: req.ClientEmail,
			ClientPhone: req.ClientPhone,
			StartDate:   start,
			EndDate:     end,
			Pax:         pax,
			Markup:      markup,
			Notes:       req.Notes,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, dto.NewQuoteDTO(result.Quote))
		return
	}

	result, err := h.BuildItemized.Handle(c.Request.Context(), quoteapp.BuildItemizedQuoteCommand{
		AgentID:     req.AgentID,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		ClientPhone: req.ClientPhone,
		StartDate:   start,
		EndDate:     end,
		Pax:         pax,
		Items:       mapItemInputs(req.Items),
		Markup:      markup,
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewQuoteDTO(result.Quote))
}

func (h QuoteHandler) GetByID(c *gin.Context) {
	q, err := h.Get.Handle(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewQuoteDTO(q))
}

func (h QuoteHandler) ListQuotes(c *gin.Context) {
	result, err := h.List.Handle(c.Request.Context(), quoteapp.ListQuotesQuery{
		AgentID: c.Query("agent_id"),
		Status:  c.Query("status"),
		Search:  c.Query("search"),
		Page:    parseInt(c.Query("page")),
		Size:    parseInt(c.Query("size")),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewQuoteCollection(result.Quotes, result.Total, result.Page, result.Size))
}

type repriceRequest struct {
	Items  []quoteItemRequest `json:"items"`
	Pax    *paxRequest        `json:"pax"`
	Markup *markupRequest     `json:"markup"`
}

// Update replaces a quote's line items wholesale and reprices it.
func (h QuoteHandler) Update(c *gin.Context) {
	var req repriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := quoteapp.RepriceQuoteCommand{
		QuoteID: c.Param("id"),
		Items:   mapItemInputs(req.Items),
	}
	if req.Pax != nil {
		cmd.Pax = quoteapp.PaxInput{
			Adults:          req.Pax.Adults,
			ChildWithBed:    req.Pax.ChildWithBed,
			ChildWithoutBed: req.Pax.ChildWithoutBed,
		}
	}
	if req.Markup != nil {
		markup, ok := parseMarkup(c, req.Markup)
		if !ok {
			return
		}
		cmd.Markup = &markup
	}
	result, err := h.Reprice.Handle(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewQuoteDTO(result.Quote))
}

type transitionRequest struct {
	Reason string `json:"reason"`
}

// ApplyTransition applies one lifecycle action named in the URL.
func (h QuoteHandler) ApplyTransition(c *gin.Context) {
	var req transitionRequest
	_ = c.ShouldBindJSON(&req)
	q, err := h.Transition.Handle(c.Request.Context(), quoteapp.TransitionQuoteCommand{
		QuoteID: c.Param("id"),
		Action:  quoteapp.Action(c.Param("action")),
		Reason:  req.Reason,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewQuoteDTO(q))
}

func (h QuoteHandler) DuplicateQuote(c *gin.Context) {
	q, err := h.Duplicate.Handle(c.Request.Context(), quoteapp.DuplicateQuoteCommand{QuoteID: c.Param("id")})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewQuoteDTO(q))
}

// ExportDocument renders a shareable client document and returns its URL.
func (h QuoteHandler) ExportDocument(c *gin.Context) {
	result, err := h.Document.Handle(c.Request.Context(), quoteapp.ExportDocumentCommand{QuoteID: c.Param("id")})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": result.URL})
}

func (h QuoteHandler) DeleteQuote(c *gin.Context) {
	if err := h.Delete.Handle(c.Request.Context(), quoteapp.DeleteQuoteCommand{QuoteID: c.Param("id")}); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func mapItemInputs(items []quoteItemRequest) []quoteapp.ItemInput {
	out := make([]quoteapp.ItemInput, 0, len(items))
	for _, it := range items {
		out = append(out, quoteapp.ItemInput{
			ItemID:   it.ItemID,
			Quantity: it.Quantity,
			Nights:   it.Nights,
			Pax:      it.Pax,
		})
	}
	return out
}

func parseMarkup(c *gin.Context, req *markupRequest) (quoteapp.MarkupInput, bool) {
	if req == nil {
		return quoteapp.MarkupInput{}, true
	}
	value := decimal.Zero
	if req.Value != "" {
		parsed, err := decimal.NewFromString(req.Value)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "markup value must be a decimal number"})
			return quoteapp.MarkupInput{}, false
		}
		value = parsed
	}
	return quoteapp.MarkupInput{Type: req.Type, Value: value}, true
}

func parseDatePair(c *gin.Context, startRaw, endRaw string) (time.Time, time.Time, bool) {
	start, ok := parseFlexibleTime(startRaw)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be YYYY-MM-DD or RFC3339"})
		return time.Time{}, time.Time{}, false
	}
	end, ok := parseFlexibleTime(endRaw)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be YYYY-MM-DD or RFC3339"})
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
