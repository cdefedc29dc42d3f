package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"

	"access-log-backend/config"
	"access-log-backend/database"
	_ "access-log-backend/docs"
	"access-log-backend/internal/controller"
	"access-log-backend/internal/elasticsearch"
	"access-log-backend/internal/filestate"
	"access-log-backend/internal/geo"
	"access-log-backend/internal/kafka"
	"access-log-backend/internal/metrics"
	"access-log-backend/internal/parser"
	"access-log-backend/internal/scheduler"
	"access-log-backend/internal/service"
	"access-log-backend/internal/timescaledb"
)

// @title           Access Log API
// @version         1.0
// @description     Search, metrics and ad-hoc analysis over parsed web server access logs, with XSS flagging and IP geolocation.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support Team
// @contact.url    http://www.example.com/support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @schemes   http https

// @tag.name         logs
// @tag.description  Search shipped access log records

// @tag.name         metrics
// @tag.description  Request and XSS event aggregates

// @tag.name         analyze
// @tag.description  Parse lines and check values on demand

// @tag.name         incidents
// @tag.description  Requests flagged as possible XSS

func main() {
	var wg sync.WaitGroup

	app := fx.New(
		// Core Dependencies
		fx.Provide(
			NewConfig,
		),
		// Infrastructure Dependencies
		fx.Provide(
			database.NewDB,
			NewGinEngine,
			NewGeoEnricher,
			NewFileStateManager,
			NewParser,
			database.NewIncidentRepository,
			elasticsearch.NewElasticsearchLogRepository,
			elasticsearch.NewElasticRecordStore,
			timescaledb.ProvideTimescaleDBPool,
			timescaledb.NewTimescaleMetricRepository,
			kafka.NewKafkaRecordProducer,
			kafka.NewKafkaRecordConsumer,
			metrics.NewAccessLogExtractor,
		),
		// Services and Controllers
		fx.Provide(
			NewAnalyzeService,
			service.NewLogQueryService,
			service.NewMetricQueryService,
			service.NewIncidentService,
			service.NewRecordEnricher,
			service.NewLogProducerService,
			service.NewLogConsumerService,
			controller.NewLogController,
			controller.NewMetricController,
			controller.NewAnalyzeController,
			controller.NewIncidentController,
		),
		fx.Invoke(RegisterAPIRoutes,
			RegisterScheduler,
			func(lc fx.Lifecycle, consumerService service.LogConsumerService) {
				startLogConsumer(lc, &wg, consumerService)
			},
		),
	)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute) // ES connect retries for up to 90s
	defer cancelStart()
	if err := app.Start(startCtx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}
	<-app.Done()

	stopCtx, cancelStop := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStop()
	log.Info().Msg("Shutting down application...")
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown due to error or timeout")
	}

	log.Info().Msg("Waiting for background goroutines to finish...")
	wg.Wait()
	log.Info().Msg("All background processes finished. Exiting.")
}

func NewConfig() (*config.Config, error) {
	return config.NewConfig()
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func RegisterAPIRoutes(
	lifecycle fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	logController *controller.LogController,
	metricController *controller.MetricController,
	analyzeController *controller.AnalyzeController,
	incidentController *controller.IncidentController,
) {
	controller.RegisterLogRoutes(router, logController)
	controller.RegisterMetricRoutes(router, metricController)
	controller.RegisterAnalyzeRoutes(router, analyzeController)
	controller.RegisterIncidentRoutes(router, incidentController)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Starting HTTP server on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error().Err(err).Msg("HTTP server ListenAndServe error")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Shutting down HTTP server...")
			return server.Shutdown(ctx)
		},
	})
}

// --- Factory Functions ---

func NewFileStateManager(cfg *config.Config) filestate.Manager {
	return filestate.NewManager(cfg.FileState.FilePath)
}

func NewParser(cfg *config.Config) parser.Parser {
	return parser.New(cfg.Parser.Mode)
}

// NewGeoEnricher yields a nil enricher when GEO_ENABLED is false; consumers and the
// analyze service treat that as "no geolocation".
func NewGeoEnricher(cfg *config.Config) (geo.Enricher, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return geo.NewFromConfig(ctx, cfg.Geo, &http.Client{})
}

func NewAnalyzeService(cfg *config.Config, enricher geo.Enricher) service.AnalyzeService {
	return service.NewAnalyzeService(cfg.Parser.Mode, enricher, cfg.Geo.Fields)
}

// --- Invoker Functions ---

func RegisterScheduler(lc fx.Lifecycle, cfg *config.Config, logProducerSvc service.LogProducerService) error {
	_, err := scheduler.NewScheduler(lc, cfg, logProducerSvc)
	return err
}

// startLogConsumer starts the LogConsumerService in a goroutine managed by fx lifecycle
func startLogConsumer(lc fx.Lifecycle, wg *sync.WaitGroup, consumerService service.LogConsumerService) {
	wg.Add(1)
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info().Msg("Starting Log Consumer goroutine")
			go consumerService.Run(ctx, wg)
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			log.Info().Msg("Signaling Log Consumer goroutine to stop...")
			cancel()
			return nil
		},
	})
}
