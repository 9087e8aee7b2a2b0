package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"tripquote/internal/infra/config"
	"tripquote/internal/infra/obs"
)

type QuoteHTTP interface {
	Create(c *gin.Context)
	GetByID(c *gin.Context)
	ListQuotes(c *gin.Context)
	Update(c *gin.Context)
	ApplyTransition(c *gin.Context)
	DuplicateQuote(c *gin.Context)
	ExportDocument(c *gin.Context)
	DeleteQuote(c *gin.Context)
}

type PricingHTTP interface {
	CalculateQuote(c *gin.Context)
	ItemPrice(c *gin.Context)
}

type RateHTTP interface {
	CreateRate(c *gin.Context)
	ListRates(c *gin.Context)
	DeactivateRate(c *gin.Context)
}

type CatalogHTTP interface {
	Catalog(c *gin.Context)
}

type AgentHTTP interface {
	Tier(c *gin.Context)
}

type Handlers struct {
	Quote   QuoteHTTP
	Pricing PricingHTTP
	Rate    RateHTTP
	Catalog CatalogHTTP
	Agent   AgentHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	registerSwaggerRoutes(router)

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Quote != nil {
		api.POST("/quotes", h.Quote.Create)
		api.GET("/quotes", h.Quote.ListQuotes)
		api.GET("/quotes/:id", h.Quote.GetByID)
		api.PUT("/quotes/:id", h.Quote.Update)
		api.POST("/quotes/:id/actions/:action", h.Quote.ApplyTransition)
		api.POST("/quotes/:id/duplicate", h.Quote.DuplicateQuote)
		api.POST("/quotes/:id/document", h.Quote.ExportDocument)
		api.DELETE("/quotes/:id", h.Quote.DeleteQuote)
	}
	if h.Pricing != nil {
		api.POST("/pricing/calculate", h.Pricing.CalculateQuote)
		api.GET("/pricing/items/:id", h.Pricing.ItemPrice)
	}
	if h.Rate != nil {
		api.POST("/rates", h.Rate.CreateRate)
		api.GET("/rates", h.Rate.ListRates)
		api.POST("/rates/:id/deactivate", h.Rate.DeactivateRate)
	}
	if h.Catalog != nil {
		api.GET("/items", h.Catalog.Catalog)
	}
	if h.Agent != nil {
		api.GET("/agents/:id/tier", h.Agent.Tier)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}

var (
	_ QuoteHTTP   = QuoteHandler{}
	_ PricingHTTP = PricingHandler{}
	_ RateHTTP    = RateHandler{}
	_ CatalogHTTP = CatalogHandler{}
	_ AgentHTTP   = AgentHandler{}
)
