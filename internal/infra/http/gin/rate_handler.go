package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"tripquote/internal/app/dto"
	rateapp "tripquote/internal/app/handlers/rates"
)

// RateHandler manages seasonal rates on catalog items and packages.
type RateHandler struct {
	Create     *rateapp.CreateRateHandler
	List       *rateapp.ListRatesHandler
	Deactivate *rateapp.DeactivateRateHandler
}

type createRateRequest struct {
	ItemID     string `json:"item_id"`
	PackageID  string `json:"package_id"`
	SeasonName string `json:"season_name"`
	Season     string `json:"season"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Multiplier string `json:"multiplier"`
	FixedPrice string `json:"fixed_price"`
	MinStay    int    `json:"min_stay"`
}

func (h RateHandler) CreateRate(c *gin.Context) {
	var req createRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, end, ok := parseDatePair(c, req.StartDate, req.EndDate)
	if !ok {
		return
	}
	cmd := rateapp.CreateRateCommand{
		ItemID:     req.ItemID,
		PackageID:  req.PackageID,
		SeasonName: req.SeasonName,
		Season:     req.Season,
		StartDate:  start,
		EndDate:    end,
		MinStay:    req.MinStay,
	}
	if req.Multiplier != "" {
		mult, err := decimal.NewFromString(req.Multiplier)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "multiplier must be a decimal number"})
			return
		}
		cmd.Multiplier = mult
	}
	if req.FixedPrice != "" {
		fixed, err := decimal.NewFromString(req.FixedPrice)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "fixed_price must be a decimal number"})
			return
		}
		cmd.FixedPrice = &fixed
	}
	rate, err := h.Create.Handle(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewRateDTO(*rate))
}

func (h RateHandler) ListRates(c *gin.Context) {
	qry := rateapp.ListRatesQuery{
		ItemID:     c.Query("item_id"),
		PackageID:  c.Query("package_id"),
		ActiveOnly: c.Query("active_only") == "true",
	}
	if on, ok := parseFlexibleTime(c.Query("on_date")); ok {
		qry.OnDate = &on
	}
	rates, err := h.List.Handle(c.Request.Context(), qry)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewRateCollection(rates))
}

// DeactivateRate soft-deletes a rate; the record stays for audit.
func (h RateHandler) DeactivateRate(c *gin.Context) {
	err := h.Deactivate.Handle(c.Request.Context(), rateapp.DeactivateRateCommand{
		ItemID:    c.Query("item_id"),
		PackageID: c.Query("package_id"),
		RateID:    c.Param("id"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
