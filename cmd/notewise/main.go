package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/notewise/notewise/internal/config"
	"github.com/notewise/notewise/internal/filestore"
	"github.com/notewise/notewise/internal/handler"
	"github.com/notewise/notewise/internal/job"
	"github.com/notewise/notewise/internal/middleware"
	"github.com/notewise/notewise/internal/repo"
	"github.com/notewise/notewise/internal/schedule"
	"github.com/notewise/notewise/internal/service"
	"github.com/notewise/notewise/internal/summarizer"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "notewise",
		Short: "notewise backend server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run notewise server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			db, err := repo.Open(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := repo.ApplyMigrations(db); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, db)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, db *repo.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("db_driver", cfg.DB.Driver),
		zap.String("file_store", cfg.FileStore.Type),
	)

	userRepo := repo.NewUserRepo(db)
	noteRepo := repo.NewNoteRepo(db)
	summaryRepo := repo.NewSummaryRepo(db)

	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, time.Hour*time.Duration(cfg.JWTTTLHours))
	noteService := service.NewNoteService(noteRepo, summaryRepo, store, cfg.MaxTextChars, int64(cfg.MaxPDFSizeMB)<<20)
	summaryService := service.NewSummaryService(summaryRepo, aiConfig(cfg.AI), time.Duration(cfg.AI.TimeoutSeconds)*time.Second)
	jobManager := service.NewJobManager(summaryService)

	deps := handler.RouterDeps{
		Auth:      handler.NewAuthHandler(authService),
		Notes:     handler.NewNoteHandler(noteService),
		Summaries: handler.NewSummaryHandler(noteService, summaryService, jobManager),
		Health:    handler.NewHealthHandler(db),
		JWTSecret: []byte(cfg.JWTSecret),
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.CORS(cfg.CORSOrigins),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	cleanup := job.NewJobCleanupJob(jobManager, time.Duration(cfg.Jobs.MaxAgeSeconds)*time.Second)
	if err := scheduler.AddJob(cleanup, cfg.Jobs.CleanupSpec); err != nil {
		return fmt.Errorf("schedule cleanup job: %w", err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}

func aiConfig(cfg config.AIConfig) summarizer.Config {
	return summarizer.Config{
		Provider:  cfg.Provider,
		ChunkSize: cfg.ChunkSize,
		OpenAI: summarizer.ChatProfileConfig{
			APIKey:  cfg.OpenAI.APIKey,
			BaseURL: cfg.OpenAI.BaseURL,
			Model:   cfg.OpenAI.Model,
		},
		Groq: summarizer.ChatProfileConfig{
			APIKey:  cfg.Groq.APIKey,
			BaseURL: cfg.Groq.BaseURL,
			Model:   cfg.Groq.Model,
		},
		Gemini: summarizer.ChatProfileConfig{
			APIKey:  cfg.Gemini.APIKey,
			BaseURL: cfg.Gemini.BaseURL,
			Model:   cfg.Gemini.Model,
		},
		Local: summarizer.LocalModelConfig{
			Endpoint: cfg.Local.Endpoint,
			Model:    cfg.Local.Model,
		},
	}
}
