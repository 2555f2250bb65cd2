package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/agentsynergy/agentsynergy/pkg/cache"
	"github.com/agentsynergy/agentsynergy/pkg/config"
	"github.com/agentsynergy/agentsynergy/pkg/db"
	"github.com/agentsynergy/agentsynergy/pkg/observability"
	"github.com/agentsynergy/agentsynergy/pkg/utils"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "agentsynergy",
	Short: "Agent Synergy API server",
	// Serve when no subcommand is given.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		gdb, err := openDatabase(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeDatabase(gdb)
		utils.GetLogger().Info("Database schema is up to date", "driver", cfg.DatabaseDriver())
		return nil
	},
}

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write a default config file if none exists",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.EnsureDefaultConfig()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (default ~/.agentsynergy/config.yaml)")
	rootCmd.AddCommand(serveCmd, migrateCmd, initConfigCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.AppConfig, error) {
	cfg, path, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	utils.InitLogger(utils.LogOptions{Level: cfg.LogLevel(), Format: cfg.LogFormat()})
	utils.GetLogger().Info("Configuration loaded", "path", path, "environment", cfg.EnvironmentName())
	return cfg, nil
}

func openDatabase(ctx context.Context, cfg *config.AppConfig) (*gorm.DB, error) {
	gdb, err := db.Open(ctx, db.Options{Driver: cfg.DatabaseDriver(), URL: cfg.DatabaseURL()})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(gdb); err != nil {
		closeDatabase(gdb)
		return nil, err
	}
	return gdb, nil
}

func closeDatabase(gdb *gorm.DB) {
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// openTokenStore uses Redis when configured and an in-process store
// otherwise.
func openTokenStore(ctx context.Context, cfg *config.AppConfig) (cache.Store, error) {
	if url := cfg.RedisURL(); url != "" {
		store, err := cache.NewRedisStore(ctx, url, "agentsynergy:")
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	utils.GetLogger().Warn("No redis.url configured; reset tokens are tracked in memory")
	return cache.NewMemoryStore(), nil
}

func runServe(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := utils.GetLogger()

	shutdownTracing, err := observability.InitTracing(observability.TracingOptions{
		Enabled:     cfg.TracingEnabled(),
		ServiceName: cfg.ServiceName(),
	})
	if err != nil {
		return errors.Wrap(err, "init tracing")
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("Tracing shutdown failed", "error", err)
		}
	}()

	gdb, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDatabase(gdb)

	tokens, err := openTokenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer tokens.Close()

	server, err := NewServer(cfg, gdb, tokens, observability.NewMetrics(nil))
	if err != nil {
		return err
	}
	if err := server.Start(ctx); err != nil {
		logger.Error("Server stopped with error", "error", err)
		return err
	}
	return nil
}
