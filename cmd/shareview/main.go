package main

import (
	"context"
	"database/sql"
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

	"github.com/shareview/shareview/internal/config"
	"github.com/shareview/shareview/internal/db"
	"github.com/shareview/shareview/internal/handler"
	"github.com/shareview/shareview/internal/job"
	"github.com/shareview/shareview/internal/middleware"
	"github.com/shareview/shareview/internal/repo"
	"github.com/shareview/shareview/internal/schedule"
	"github.com/shareview/shareview/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "shareview",
		Short: "scoped share-link server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run shareview server",
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

			conn, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(conn); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, conn)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, conn *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("public_base_url", cfg.PublicBaseURL),
	)

	linkRepo := repo.NewShareLinkRepo(conn)
	challengeRepo := repo.NewOTPChallengeRepo(conn)
	recordRepo := repo.NewRecordRepo(conn)

	mailSender := service.NewEmailSender(cfg.Mail)
	linkService := service.NewLinkService(linkRepo, cfg.PublicBaseURL)
	challengeService := service.NewChallengeService(linkRepo, challengeRepo, mailSender, service.ChallengeOptions{
		AccessSecret:    []byte(cfg.AccessTokenSecret),
		SessionTTL:      time.Duration(cfg.Share.SessionTTLMinutes) * time.Minute,
		OTPTTL:          time.Duration(cfg.Share.OTPTTLMinutes) * time.Minute,
		Attempts:        cfg.Share.OTPAttempts,
		RateLimitWindow: time.Duration(cfg.Share.RateLimitWindowSeconds) * time.Second,
		RateLimitBurst:  cfg.Share.RateLimitBurst,
	})
	accessService := service.NewAccessService(linkRepo, recordRepo, []byte(cfg.AccessTokenSecret), uint(cfg.Share.MaxPageSize))

	deps := handler.RouterDeps{
		Shares:      handler.NewShareHandler(linkService),
		Access:      handler.NewAccessHandler(challengeService, accessService),
		JWTSecret:   []byte(cfg.JWTSecret),
		OTPCooldown: time.Second,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSAllowlist),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	if err := scheduler.AddJob(job.NewChallengeCleanupJob(challengeRepo), cfg.Share.CleanupCron); err != nil {
		return fmt.Errorf("schedule cleanup: %w", err)
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
