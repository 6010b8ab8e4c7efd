package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/IntelliHire/config"
	"github.com/lshigami/IntelliHire/database"
	_ "github.com/lshigami/IntelliHire/docs" // Swagger docs - auto-generated
	"github.com/lshigami/IntelliHire/internal/controller"
	"github.com/lshigami/IntelliHire/internal/logger"
	"github.com/lshigami/IntelliHire/internal/repository"
	"github.com/lshigami/IntelliHire/internal/repository/firebase"
	"github.com/lshigami/IntelliHire/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
)

// @title IntelliHire Mock Interview API
// @version 1.0
// @description Generates interview question sets, scores interview transcripts and serves the stored feedback.
// @contact.name API Support
// @contact.email support@example.com
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			NewRepositories,
			NewGinEngine,
		),

		fx.Provide(
			service.NewGeminiLLMService,
			service.NewScoreNormalizerService,
			service.NewInterviewService,
			service.NewFeedbackService,
			service.NewUserService,
		),

		fx.Provide(
			controller.NewInterviewController,
			controller.NewFeedbackController,
			controller.NewUserController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

// NewRepositories opens the store selected by STORE_BACKEND and ties its lifetime to the app.
func NewRepositories(lc fx.Lifecycle, cfg *config.Config) (*repository.Repositories, error) {
	if cfg.Store.Backend == config.StoreBackendFirestore {
		provider := firebase.NewClientProvider(cfg)
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return provider.Close()
			},
		})
		log.Info().Str("projectID", cfg.Firebase.ProjectID).Msg("Using Firestore document store")
		return firebase.NewRepositories(provider), nil
	}

	db, err := database.NewDatabase(cfg)
	if err != nil {
		return nil, err
	}
	log.Info().Msg("Running database migrations...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return sqlDB.Close()
		},
	})
	return repository.NewGormRepositories(db), nil
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}

	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	// Browsers and the voice platform's tool webhooks both call the API cross-origin.
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:           true,
		AllowMethods:              []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:              []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:             []string{"Content-Length"},
		MaxAge:                    12 * time.Hour,
		OptionsResponseStatusCode: http.StatusOK,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutes mounts every API route under /api.
func RegisterRoutes(
	router *gin.Engine,
	interviewCtrl *controller.InterviewController,
	feedbackCtrl *controller.FeedbackController,
	userCtrl *controller.UserController,
) {
	api := router.Group("/api")
	{
		api.GET("/health", controller.Health)
		interviewCtrl.RegisterRoutes(api)
		feedbackCtrl.RegisterRoutes(api)
		userCtrl.RegisterRoutes(api)
		// Preflights without an Origin header skip the CORS middleware.
		api.OPTIONS("/*path", func(ctx *gin.Context) {
			ctx.Status(http.StatusOK)
		})
	}
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	interviewCtrl *controller.InterviewController,
	feedbackCtrl *controller.FeedbackController,
	userCtrl *controller.UserController,
) {
	RegisterRoutes(router, interviewCtrl, feedbackCtrl, userCtrl)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("IntelliHire API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}
