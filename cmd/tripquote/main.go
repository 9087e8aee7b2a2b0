package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	agentapp "tripquote/internal/app/handlers/agents"
	catalogapp "tripquote/internal/app/handlers/catalogq"
	quoteapp "tripquote/internal/app/handlers/quotes"
	rateapp "tripquote/internal/app/handlers/rates"
	appoutbox "tripquote/internal/app/outbox"
	"tripquote/internal/app/schedule"
	"tripquote/internal/app/uow"
	domainagent "tripquote/internal/domain/agent"
	domaincatalog "tripquote/internal/domain/catalog"
	"tripquote/internal/domain/season"
	"tripquote/internal/infra/broker/kafka"
	"tripquote/internal/infra/config"
	mongodb "tripquote/internal/infra/db/mongo"
	ginserver "tripquote/internal/infra/http/gin"
	"tripquote/internal/infra/obs"
	infraoutbox "tripquote/internal/infra/outbox"
	"tripquote/internal/infra/storage/memory"
	"tripquote/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}
	defer app.close(logger)

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	if err := app.loadCatalogFixtures(ctx, cfg.CatalogFixtures, logger); err != nil {
		logger.Warn("catalog fixtures load failed", "error", err, "path", cfg.CatalogFixtures)
	}

	app.startBackground(ctx, cfg, logger)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers

	uowFactory uow.Factory
	outboxSink appoutbox.Outbox
	relayStore infraoutbox.Store
	recordPax  *agentapp.RecordBookedPaxHandler

	mongoClient *mongodb.Client
	producer    *kafka.Producer
	consumer    *kafka.Consumer

	catalog domaincatalog.Repository
	agents  domainagent.Repository
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (*application, error) {
	app := &application{}

	switch cfg.StorageMode {
	case "mongo":
		client, err := mongodb.New(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("mongo connect: %w", err)
		}
		app.mongoClient = client
		catalogRepo := mongodb.NewCatalogRepository(client.DB)
		agentRepo := mongodb.NewAgentRepository(client.DB)
		quoteRepo := mongodb.NewQuoteRepository(client.DB)
		store := infraoutbox.NewMongoStore(client.DB)
		app.catalog = catalogRepo
		app.agents = agentRepo
		app.outboxSink = store
		app.relayStore = store
		app.uowFactory = mongodb.Factory{
			DB:          client.DB,
			CatalogRepo: catalogRepo,
			AgentRepo:   agentRepo,
			QuoteRepo:   quoteRepo,
		}
	default:
		catalogRepo := memory.NewCatalogRepository()
		agentRepo := memory.NewAgentRepository()
		quoteRepo := memory.NewQuoteRepository()
		app.catalog = catalogRepo
		app.agents = agentRepo
		app.outboxSink = memory.NewOutbox()
		app.uowFactory = memory.Factory{
			CatalogRepo: catalogRepo,
			AgentRepo:   agentRepo,
			QuoteRepo:   quoteRepo,
		}
	}

	encoder := appoutbox.JSONEventEncoder{}
	app.recordPax = &agentapp.RecordBookedPaxHandler{UoWFactory: app.uowFactory}

	var docs quoteapp.DocumentStore = s3.NoopUploader{}
	if cfg.S3Endpoint != "" {
		uploader, err := s3.NewClient(s3.Config{
			Endpoint:      cfg.S3Endpoint,
			UseSSL:        cfg.S3UseSSL,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			Bucket:        cfg.S3Bucket,
			PublicBaseURL: cfg.S3PublicBaseURL,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("s3 uploader: %w", err)
		}
		docs = uploader
	}

	app.handlers = ginserver.Handlers{
		Quote: ginserver.QuoteHandler{
			BuildItemized: &quoteapp.BuildItemizedQuoteHandler{UoWFactory: app.uowFactory, Outbox: app.outboxSink, Encoder: encoder},
			BuildPackage:  &quoteapp.BuildPackageQuoteHandler{UoWFactory: app.uowFactory, Outbox: app.outboxSink, Encoder: encoder},
			Reprice:       &quoteapp.RepriceQuoteHandler{UoWFactory: app.uowFactory, Outbox: app.outboxSink, Encoder: encoder},
			Transition:    &quoteapp.TransitionQuoteHandler{UoWFactory: app.uowFactory, Outbox: app.outboxSink, Encoder: encoder},
			Duplicate:     &quoteapp.DuplicateQuoteHandler{UoWFactory: app.uowFactory, Outbox: app.outboxSink, Encoder: encoder},
			Delete:        &quoteapp.DeleteQuoteHandler{UoWFactory: app.uowFactory},
			List:          &quoteapp.ListQuotesHandler{UoWFactory: app.uowFactory},
			Get:           &quoteapp.GetQuoteHandler{UoWFactory: app.uowFactory},
			Document:      &quoteapp.ExportDocumentHandler{UoWFactory: app.uowFactory, Store: docs},
		},
		Pricing: ginserver.PricingHandler{
			Calculate: &quoteapp.CalculateQuoteHandler{UoWFactory: app.uowFactory},
			PriceItem: &catalogapp.PriceItemHandler{UoWFactory: app.uowFactory},
		},
		Rate: ginserver.RateHandler{
			Create:     &rateapp.CreateRateHandler{UoWFactory: app.uowFactory},
			List:       &rateapp.ListRatesHandler{UoWFactory: app.uowFactory},
			Deactivate: &rateapp.DeactivateRateHandler{UoWFactory: app.uowFactory},
		},
		Catalog: ginserver.CatalogHandler{
			ListItems: &catalogapp.ListItemsHandler{UoWFactory: app.uowFactory},
		},
		Agent: ginserver.AgentHandler{
			GetTier: &agentapp.GetTierHandler{UoWFactory: app.uowFactory},
		},
	}
	return app, nil
}

// startBackground launches the expiry sweeper, plus the outbox relay and the
// tier projection when a broker is configured. Memory mode keeps events in the
// in-process buffer.
func (a *application) startBackground(ctx context.Context, cfg config.Config, logger *slog.Logger) {
	expirer := &schedule.Expirer{
		UoWFactory: a.uowFactory,
		Outbox:     a.outboxSink,
		Encoder:    appoutbox.JSONEventEncoder{},
		Interval:   cfg.ExpirySweepInterval,
		Logger:     logger,
	}
	go func() {
		if err := expirer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("expiry sweeper stopped", "error", err)
		}
	}()

	if len(cfg.KafkaBrokers) == 0 || a.relayStore == nil {
		logger.Info("event relay disabled", "brokers", len(cfg.KafkaBrokers))
		return
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
	if err != nil {
		logger.Error("kafka producer init failed", "error", err)
		return
	}
	a.producer = producer

	worker := &infraoutbox.Worker{
		Store:       a.relayStore,
		Producer:    producer,
		Interval:    cfg.OutboxPollInterval,
		TopicPrefix: cfg.KafkaTopicPrefix,
		Source:      "app://tripquote",
		Backoff:     cfg.RetryBackoff,
	}
	go func() {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("outbox relay stopped", "error", err)
		}
	}()

	projector := &kafka.TierProjector{Handler: a.recordPax, Logger: logger}
	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, "tripquote-tier-projection", nil, projector)
	if err != nil {
		logger.Error("kafka consumer init failed", "error", err)
		return
	}
	a.consumer = consumer
	topic := cfg.KafkaTopicPrefix + "quote.events.v1"
	go func() {
		if err := consumer.Run(ctx, []string{topic}); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("tier projection stopped", "error", err)
		}
	}()
	logger.Info("event relay started", "topic", topic)
}

func (a *application) ready() error {
	if a.mongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return a.mongoClient.Ping(ctx)
	}
	return nil
}

func (a *application) close(logger *slog.Logger) {
	if a.consumer != nil {
		if err := a.consumer.Close(); err != nil {
			logger.Warn("kafka consumer close failed", "error", err)
		}
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			logger.Warn("kafka producer close failed", "error", err)
		}
	}
	if a.mongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := a.mongoClient.Close(ctx); err != nil {
			logger.Warn("mongo disconnect failed", "error", err)
		}
	}
}

func (a *application) loadCatalogFixtures(ctx context.Context, path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("catalog fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}

	var fixtures catalogFixtures
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	for _, fx := range fixtures.Items {
		base, err := decimal.NewFromString(fx.BasePrice)
		if err != nil {
			logger.Error("fixture item has invalid base price", "item_id", fx.ID, "error", err)
			continue
		}
		item := &domaincatalog.SellableItem{
			ID:        domaincatalog.ItemID(fx.ID),
			Name:      fx.Name,
			Kind:      domaincatalog.ItemKind(fx.Kind),
			BasePrice: base,
			Rates:     fixtureRates(fx.Rates, logger),
			Active:    true,
		}
		if !item.Kind.Valid() {
			logger.Error("fixture item has unknown kind", "item_id", fx.ID, "kind", fx.Kind)
			continue
		}
		if err := a.catalog.SaveItem(ctx, item); err != nil {
			logger.Error("cannot store fixture item", "item_id", fx.ID, "error", err)
			continue
		}
	}
	for _, fx := range fixtures.Packages {
		base, err := decimal.NewFromString(fx.BasePrice)
		if err != nil {
			logger.Error("fixture package has invalid base price", "package_id", fx.ID, "error", err)
			continue
		}
		pkg := &domaincatalog.TourPackage{
			ID:        domaincatalog.PackageID(fx.ID),
			Name:      fx.Name,
			Duration:  fx.Duration,
			Nights:    append([]int(nil), fx.Nights...),
			BasePrice: base,
			Rates:     fixtureRates(fx.Rates, logger),
			Active:    true,
		}
		if err := a.catalog.SavePackage(ctx, pkg); err != nil {
			logger.Error("cannot store fixture package", "package_id", fx.ID, "error", err)
			continue
		}
	}
	for _, fx := range fixtures.Agents {
		tier := domainagent.Tier(fx.Tier)
		if !tier.Valid() {
			tier = domainagent.TierForPax(fx.TotalPax)
		}
		ag := &domainagent.Agent{
			ID:          domainagent.AgentID(fx.ID),
			CompanyName: fx.CompanyName,
			Contact:     fx.Contact,
			Tier:        tier,
			TotalPax:    fx.TotalPax,
		}
		if err := a.agents.Save(ctx, ag); err != nil {
			logger.Error("cannot store fixture agent", "agent_id", fx.ID, "error", err)
			continue
		}
	}
	logger.Info("catalog fixtures imported",
		"items", len(fixtures.Items), "packages", len(fixtures.Packages), "agents", len(fixtures.Agents))
	return nil
}

func fixtureRates(rates []rateFixture, logger *slog.Logger) []domaincatalog.SeasonalRate {
	out := make([]domaincatalog.SeasonalRate, 0, len(rates))
	for _, fx := range rates {
		start, err1 := time.Parse("2006-01-02", fx.StartDate)
		end, err2 := time.Parse("2006-01-02", fx.EndDate)
		if err1 != nil || err2 != nil {
			logger.Error("fixture rate has invalid dates", "rate_id", fx.ID)
			continue
		}
		mult := decimal.NewFromInt(1)
		if fx.Multiplier != "" {
			parsed, err := decimal.NewFromString(fx.Multiplier)
			if err != nil {
				logger.Error("fixture rate has invalid multiplier", "rate_id", fx.ID, "error", err)
				continue
			}
			mult = parsed
		}
		rate := domaincatalog.SeasonalRate{
			ID:         fx.ID,
			SeasonName: fx.SeasonName,
			Season:     season.Type(fx.Season),
			StartDate:  start,
			EndDate:    end,
			Multiplier: mult,
			MinStay:    fx.MinStay,
			Active:     true,
			CreatedAt:  time.Now().UTC(),
		}
		if fx.FixedPrice != "" {
			fixed, err := decimal.NewFromString(fx.FixedPrice)
			if err != nil {
				logger.Error("fixture rate has invalid fixed price", "rate_id", fx.ID, "error", err)
				continue
			}
			rate.FixedPrice = &fixed
		}
		if err := rate.Validate(); err != nil {
			logger.Error("fixture rate invalid", "rate_id", fx.ID, "error", err)
			continue
		}
		out = append(out, rate)
	}
	return out
}

type catalogFixtures struct {
	Items    []itemFixture    `json:"items"`
	Packages []packageFixture `json:"packages"`
	Agents   []agentFixture   `json:"agents"`
}

type itemFixture struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Kind      string        `json:"kind"`
	BasePrice string        `json:"base_price"`
	Rates     []rateFixture `json:"rates"`
}

type packageFixture struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Duration  int           `json:"duration"`
	Nights    []int         `json:"nights"`
	BasePrice string        `json:"base_price"`
	Rates     []rateFixture `json:"rates"`
}

type agentFixture struct {
	ID          string `json:"id"`
	CompanyName string `json:"company_name"`
	Contact     string `json:"contact"`
	Tier        string `json:"tier"`
	TotalPax    int    `json:"total_pax"`
}

type rateFixture struct {
	ID         string `json:"id"`
	SeasonName string `json:"season_name"`
	Season     string `json:"season"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Multiplier string `json:"multiplier"`
	FixedPrice string `json:"fixed_price"`
	MinStay    int    `json:"min_stay"`
}
