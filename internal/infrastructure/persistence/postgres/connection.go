// Package postgres opens the PostgreSQL database behind the gorm repositories
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/multivarka/kitchen/internal/infrastructure/config"
)

// Open connects to the configured primary and registers the read replicas
func Open(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := OpenDSN(cfg.GetDSN(), cfg.Database, log)
	if err != nil {
		return nil, err
	}

	if len(cfg.Database.ReadReplicas) > 0 {
		replicas := make([]gorm.Dialector, len(cfg.Database.ReadReplicas))
		for i, host := range cfg.Database.ReadReplicas {
			replicas[i] = postgres.Open(cfg.Database.DSNForHost(host))
		}

		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		}).
			SetMaxOpenConns(cfg.Database.MaxOpenConns).
			SetMaxIdleConns(cfg.Database.MaxIdleConns).
			SetConnMaxLifetime(cfg.Database.ConnMaxLifetime))
		if err != nil {
			return nil, fmt.Errorf("failed to register read replicas: %w", err)
		}

		log.Info("Read replicas configured", zap.Int("replica_count", len(replicas)))
	}

	return db, nil
}

// OpenDSN connects to one postgres server with the pool settings of cfg
func OpenDSN(dsn string, cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:      newLogger(log.Named("gorm"), cfg),
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("Connected to postgres",
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThreshold),
	)
	return db, nil
}

func newLogger(log *zap.Logger, cfg config.DatabaseConfig) logger.Interface {
	level := logger.Silent
	switch cfg.LogLevel {
	case "debug":
		level = logger.Info
	case "info", "warn":
		level = logger.Warn
	case "error":
		level = logger.Error
	}

	return logger.New(logWriter{logger: log}, logger.Config{
		SlowThreshold:             cfg.SlowQueryThreshold,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// logWriter forwards gorm's printf output to zap
type logWriter struct {
	logger *zap.Logger
}

func (w logWriter) Printf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)

	switch {
	case strings.Contains(msg, "SLOW SQL"):
		w.logger.Warn("Slow query", zap.String("message", msg))
	case strings.Contains(msg, "error"), strings.Contains(msg, "ERROR"):
		w.logger.Error("Query failed", zap.String("message", msg))
	default:
		w.logger.Debug("Query", zap.String("message", msg))
	}
}
