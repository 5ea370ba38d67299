package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"jobmate-backend/internal/agents"
	openaiagents "jobmate-backend/internal/agents/openai"
	"jobmate-backend/internal/analyses"
	"jobmate-backend/internal/batch"
	"jobmate-backend/internal/docintel"
	azuredocintel "jobmate-backend/internal/docintel/azure"
	"jobmate-backend/internal/orchestrate"
	"jobmate-backend/internal/queue"
	"jobmate-backend/internal/reports"
	"jobmate-backend/internal/shared/config"
	"jobmate-backend/internal/shared/server"
	"jobmate-backend/internal/shared/storage/db"
	"jobmate-backend/internal/shared/storage/object"
	localstore "jobmate-backend/internal/shared/storage/object/local"
	s3store "jobmate-backend/internal/shared/storage/object/s3"
)

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Store           object.ObjectStore
	Queue           queue.Client
	AnalysesRepo    analyses.Repo
	ReportsRepo     reports.Repo
	AnalysesService *analyses.Service
	ReportsService  *reports.Service
	AnalysisHandler *analyses.Handler
	ReportsHandler  *reports.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
	}
	if err := buildServices(ctx, app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		AnalysisHandler: app.AnalysisHandler,
		ReportsHandler:  app.ReportsHandler,
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		if cfg.ReportStoreType == "mongo" {
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context) (queue.Client, error) {
	if strings.TrimSpace(os.Getenv("JM_SQS_QUEUE_URL")) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx)
}

func buildReportsRepo(ctx context.Context, app *App) (reports.Repo, error) {
	switch app.Config.ReportStoreType {
	case "mongo":
		return reports.NewMongoRepo(ctx, reports.MongoConfig{
			URI:        app.Config.MongoURI,
			Database:   app.Config.MongoDatabase,
			Collection: app.Config.MongoCollection,
		})
	case "postgres":
		if app.DB == nil {
			return nil, fmt.Errorf("REPORT_STORE=postgres requires a database connection")
		}
		return &reports.PGRepo{DB: app.DB}, nil
	default:
		if app.DB != nil {
			return &reports.PGRepo{DB: app.DB}, nil
		}
		return reports.NewMemoryRepo(), nil
	}
}

func buildExtractor(cfg config.Config) (docintel.Extractor, error) {
	switch cfg.ExtractorType {
	case "azure":
		return azuredocintel.NewClient(cfg.DocIntelEndpoint, cfg.DocIntelKey, cfg.DocIntelModelID)
	default:
		return docintel.LocalExtractor{}, nil
	}
}

func buildTasks(cfg config.Config) ([]agents.Task, error) {
	switch cfg.AgentProvider {
	case "openai":
		client, err := openaiagents.NewClient(cfg.OpenAIAPIKey, cfg.AgentModel)
		if err != nil {
			return nil, err
		}
		return client.Tasks(), nil
	default:
		return nil, fmt.Errorf("unsupported agent provider %q", cfg.AgentProvider)
	}
}

func buildServices(ctx context.Context, app *App) error {
	var analysisRepo analyses.Repo
	if app.DB != nil {
		analysisRepo = &analyses.PGRepo{DB: app.DB}
	} else {
		analysisRepo = analyses.NewMemoryRepo()
	}

	reportsRepo, err := buildReportsRepo(ctx, app)
	if err != nil {
		return err
	}

	extractor, err := buildExtractor(app.Config)
	if err != nil {
		return err
	}

	tasks, err := buildTasks(app.Config)
	if err != nil {
		return err
	}
	orch, err := orchestrate.New(tasks...)
	if err != nil {
		return err
	}

	reportsSvc := reports.NewService(reportsRepo)
	analysesSvc := &analyses.Service{
		Repo:         analysisRepo,
		Reports:      reportsSvc,
		Orchestrator: orch,
		Aggregator:   batch.New(extractor),
		Store:        app.Store,
		Queue:        app.Queue,
	}

	app.AnalysesRepo = analysisRepo
	app.ReportsRepo = reportsRepo
	app.AnalysesService = analysesSvc
	app.ReportsService = reportsSvc
	app.AnalysisHandler = analyses.NewHandler(analysesSvc)
	app.ReportsHandler = reports.NewHandler(reportsSvc)
	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
