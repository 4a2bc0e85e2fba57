package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nhatminh-le/prepquest/config"
	"github.com/nhatminh-le/prepquest/database"
	_ "github.com/nhatminh-le/prepquest/docs" // Swagger docs
	adminctrl "github.com/nhatminh-le/prepquest/internal/controller/admin"
	userctrl "github.com/nhatminh-le/prepquest/internal/controller/user"
	"github.com/nhatminh-le/prepquest/internal/logger"
	"github.com/nhatminh-le/prepquest/internal/model"
	"github.com/nhatminh-le/prepquest/internal/repository"
	"github.com/nhatminh-le/prepquest/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title PrepQuest Practice Test API
// @version 1.0
// @description REST API for question-bank practice test attempts: session creation, incremental answer/note/mark saves, scoring and merge-completion.
// @contact.name API Support
// @contact.email support@prepquest.dev
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewTestAttemptRepository,
			repository.NewQuestionRepository,
			repository.NewDemoQuestionRepository,
		),

		fx.Provide(
			func(
				attemptRepo repository.TestAttemptRepository,
				questionRepo repository.QuestionRepository,
				demoRepo repository.DemoQuestionRepository,
				cfg *config.Config,
			) service.TestAttemptService {
				return service.NewTestAttemptService(attemptRepo, questionRepo, demoRepo, cfg.Attempt.AllowRecomplete)
			},
			service.NewQuestionService,
		),

		fx.Provide(
			userctrl.NewTestAttemptController,
			adminctrl.NewQuestionController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	// Funnel gin request logs through zerolog.
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages the server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	attemptCtrl *userctrl.TestAttemptController,
	questionCtrl *adminctrl.QuestionController,
) {
	adminAPIGroup := router.Group("/api/v1/admin")
	{
		adminAPIGroup.POST("/questions", questionCtrl.CreateQuestion)
		adminAPIGroup.GET("/questions", questionCtrl.ListQuestions)
		adminAPIGroup.POST("/demo-questions", questionCtrl.CreateDemoQuestion)
	}

	attemptAPIGroup := router.Group("/api/v1/test-attempts")
	{
		attemptAPIGroup.POST("/create", attemptCtrl.CreateAttempt)
		attemptAPIGroup.GET("/list", attemptCtrl.ListAttempts)
		attemptAPIGroup.GET("/getDetail/:id", attemptCtrl.GetAttemptDetail)
		attemptAPIGroup.PATCH("/complete/:attemptId", attemptCtrl.CompleteAttempt)
		attemptAPIGroup.PATCH("/questions/answer/:attemptId", attemptCtrl.SaveAnswer)
		attemptAPIGroup.PATCH("/questions/bulk/:attemptId", attemptCtrl.BulkSaveAnswers)
		attemptAPIGroup.PATCH("/questions/note/:attemptId/:questionId", attemptCtrl.SaveNote)
		attemptAPIGroup.PATCH("/questions/mark/:attemptId/:questionId", attemptCtrl.SaveMark)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("PrepQuest API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Question{},
		&model.DemoQuestion{},
		&model.TestAttempt{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully")
	return nil
}
