package main

import (
	"fmt"
	"os"

	"github.com/erp/catalog/internal/application/catalog"
	"github.com/erp/catalog/internal/infrastructure/cache"
	"github.com/erp/catalog/internal/infrastructure/config"
	"github.com/erp/catalog/internal/infrastructure/logger"
	"github.com/erp/catalog/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "catalogctl",
	Short: "Operate on the catalog category tree",
	Long: "catalogctl moves categories inside a tenant's catalog tree directly against the database, " +
		"using the same validation and transaction rules as the HTTP API.",
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("tenant", "", "tenant ID owning the categories")
	rootCmd.PersistentFlags().String("user", "catalogctl", "user recorded on move events")
	rootCmd.PersistentFlags().StringP("output", "o", "text", "output format: text or json")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error")

	rootCmd.AddCommand(moveCmd, batchCmd, treeCmd)
}

// session is the wiring shared by every subcommand.
type session struct {
	log     *zap.Logger
	db      *persistence.Database
	cache   cache.TreeCache
	service *catalog.ReparentService
}

func openSession(cmd *cobra.Command) (*session, error) {
	level, _ := cmd.Flags().GetString("log-level")
	log, err := logger.New(&logger.Config{
		Level:      level,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	db, err := persistence.Connect(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// Invalidate the server's shared tree cache after moves. A local
	// in-memory cache is harmless when Redis is not configured.
	treeCache, err := cache.NewTreeCacheFactory(
		cache.RedisConfig{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		cache.WithLogger(log),
	).CreateCache(cmd.Context())
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize tree cache: %w", err)
	}

	service := persistence.NewReparentService(db.DB, persistence.TreeSettings(cfg.Catalog), log.Named("reparent"))
	service.SetTreeCache(treeCache, cfg.Catalog.TreeCacheTTL)

	return &session{
		log:     log,
		db:      db,
		cache:   treeCache,
		service: service,
	}, nil
}

func (s *session) Close() {
	_ = s.cache.Close()
	if err := s.db.Close(); err != nil {
		s.log.Warn("Error closing database", zap.Error(err))
	}
	_ = logger.Sync(s.log)
}
