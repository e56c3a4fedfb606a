package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Tomlord1122/todo-graph/internal/config"
	"github.com/Tomlord1122/todo-graph/internal/logging"
)

// Service exposes the Postgres connection pool to the store and the health
// endpoint.
type Service interface {
	Health() map[string]string
	Close() error
	GetDB() *gorm.DB
}

type service struct {
	db     *gorm.DB
	name   string
	logger *logrus.Logger
}

// New opens a pgx-backed pool and hands it to GORM.
func New(cfg config.Postgres, logger *logrus.Logger) (Service, error) {
	return Open(cfg.DSN(), cfg.Database, logger)
}

// Open is New for an already rendered DSN.
func Open(dsn, name string, logger *logrus.Logger) (Service, error) {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	// Set connection pool settings (important for production)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logging.Gorm(logger),
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("open gorm: %w", err)
	}

	return &service{db: db, name: name, logger: logger}, nil
}

func (s *service) GetDB() *gorm.DB {
	return s.db
}

// Health check needs to use the underlying sql.DB from GORM
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)
	stats["driver"] = config.DriverPostgres

	sqlDB, err := s.db.DB()
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("failed to get underlying DB for health check: %v", err)
		s.logger.WithError(err).Error("health check: get underlying DB")
		return stats
	}

	err = sqlDB.PingContext(ctx)
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		s.logger.WithError(err).Error("db down")
		return stats
	}

	stats["status"] = "up"

	dbStats := sqlDB.Stats()
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	stats["wait_count"] = strconv.FormatInt(dbStats.WaitCount, 10)
	stats["wait_duration"] = dbStats.WaitDuration.String()
	stats["max_idle_closed"] = strconv.FormatInt(dbStats.MaxIdleClosed, 10)
	stats["max_lifetime_closed"] = strconv.FormatInt(dbStats.MaxLifetimeClosed, 10)

	stats["message"] = loadMessage(dbStats)
	return stats
}

// loadMessage picks the most pressing pool warning. Thresholds assume
// MaxOpenConns=100.
func loadMessage(st sql.DBStats) string {
	msg := "It's healthy"
	if st.OpenConnections > 80 {
		msg = "The database is experiencing heavy load."
	}
	if st.WaitCount > 1000 {
		msg = "The database has a high number of wait events, indicating potential bottlenecks."
	}
	if st.MaxIdleClosed > int64(st.OpenConnections)/2 && st.OpenConnections > st.Idle {
		msg = "Many idle connections are being closed, consider revising the connection pool settings (MaxIdleConns, ConnMaxIdleTime)."
	}
	if st.MaxLifetimeClosed > int64(st.OpenConnections)/2 {
		msg = "Many connections are being closed due to max lifetime, consider increasing ConnMaxLifetime or revising the connection usage pattern."
	}
	return msg
}

func (s *service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	s.logger.WithField("database", s.name).Info("closing connection pool")
	return sqlDB.Close()
}
