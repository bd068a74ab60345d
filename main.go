package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"smartclinic-server/internal/cache"
	"smartclinic-server/internal/chat"
	"smartclinic-server/internal/config"
	"smartclinic-server/internal/logger"
	"smartclinic-server/internal/middleware"
	"smartclinic-server/internal/models"
	"smartclinic-server/internal/repository"
	"smartclinic-server/internal/routes"
	"smartclinic-server/internal/services"
	"smartclinic-server/internal/utils"
)

const serviceName = "smartclinic-server"

func main() {
	rootCmd := &cobra.Command{
		Use:   serviceName,
		Short: "SmartClinic API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer closeDatabase(db)

			if err := models.Migrate(db); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			log.Info("schema migrated", zap.String("driver", cfg.Database.Driver))
			return nil
		},
	}
}

// bootstrap loads .env when present, then configuration and the logger.
func bootstrap() (*config.Config, *zap.Logger, error) {
	envErr := godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("error loading config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, serviceName)
	if err != nil {
		return nil, nil, fmt.Errorf("error building logger: %w", err)
	}
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		log.Warn("could not read .env file", zap.Error(envErr))
	}
	return cfg, log, nil
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := models.InitDB(models.DatabaseConfig{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	return db, nil
}

func closeDatabase(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

func runServer() error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := openDatabase(cfg)
	if err != nil {
		log.Error("database unavailable", zap.Error(err))
		return err
	}
	defer closeDatabase(db)

	if err := models.Migrate(db); err != nil {
		log.Error("migration failed", zap.Error(err))
		return err
	}
	log.Info("connected to database", zap.String("driver", cfg.Database.Driver))

	var denylist services.Denylist
	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(context.Background(), cfg.Redis)
		if err != nil {
			log.Error("redis unavailable", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			return err
		}
		defer client.Close()
		denylist = cache.NewRedisDenylist(client)
		log.Info("token denylist enabled", zap.String("addr", cfg.Redis.Addr))
	}

	tokens, err := utils.NewTokenService(cfg.JWT)
	if err != nil {
		return err
	}
	if cfg.Chat.APIKey == "" {
		log.Warn("no chat API key configured; chat requests will fail")
	}

	svc := routes.Services{
		Auth:         services.NewAuthService(repository.NewUserRepository(db), tokens, denylist, log),
		Patients:     services.NewPatientService(repository.NewPatientRepository(db), log),
		Appointments: services.NewAppointmentService(repository.NewAppointmentRepository(db), log),
		Chat:         services.NewChatService(repository.NewChatRepository(db), chat.NewOpenAIClient(cfg.Chat, log), log),
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(routes.CORS(cfg.Origins))
	routes.SetupRoutes(router, svc, log)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Chat replies can take up to the gateway timeout.
		WriteTimeout: cfg.Chat.Timeout() + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", server.Addr), zap.String("environment", cfg.Environment))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err, ok := <-serverErr:
		if ok {
			log.Error("server failed", zap.Error(err))
			return err
		}
		return nil
	case <-quit:
	}

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
		return err
	}
	log.Info("server stopped")
	return nil
}
