package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/Tomlord1122/todo-graph/internal/config"
	"github.com/Tomlord1122/todo-graph/internal/database"
	"github.com/Tomlord1122/todo-graph/internal/logging"
	"github.com/Tomlord1122/todo-graph/internal/metrics"
	"github.com/Tomlord1122/todo-graph/internal/repository"
	"github.com/Tomlord1122/todo-graph/internal/server"
	"github.com/Tomlord1122/todo-graph/internal/service"
	"github.com/Tomlord1122/todo-graph/internal/store"
	"github.com/Tomlord1122/todo-graph/internal/store/gormstore"
	"github.com/Tomlord1122/todo-graph/internal/store/memstore"
	"github.com/Tomlord1122/todo-graph/internal/store/mongostore"
)

// backend is the active store plus what the server needs around it.
type backend struct {
	todos  store.Collection
	health server.HealthChecker
	close  func(ctx context.Context) error
}

func openBackend(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*backend, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		client, err := mongostore.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		return &backend{
			todos:  client.Collection(cfg.Collection),
			health: client,
			close:  client.Close,
		}, nil

	case config.DriverMemory:
		coll := memstore.New()
		return &backend{
			todos:  coll,
			health: coll,
			close:  func(context.Context) error { return nil },
		}, nil

	default:
		dbService, err := database.New(cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		coll := gormstore.New(dbService.GetDB(), cfg.Collection)
		if cfg.Postgres.AutoMigrate {
			logger.Info("running database auto-migration (dev only!)")
			if err := coll.Migrate(ctx); err != nil {
				_ = dbService.Close()
				return nil, err
			}
		}
		return &backend{
			todos:  coll,
			health: dbService,
			close:  func(context.Context) error { return dbService.Close() },
		}, nil
	}
}

func gracefulShutdown(apiServer *http.Server, be *backend, logger *logrus.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The server has 5 seconds to finish the requests it is currently handling
	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
	}

	if err := be.close(ctxTimeout); err != nil {
		logger.WithError(err).Error("closing store")
	} else {
		logger.Info("store closed")
	}

	done <- true
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("todo-graph", "info").WithError(err).Fatal("failed to load config")
	}
	logger := logging.New("todo-graph", cfg.LogLevel)

	// 1. Store backend
	be, err := openBackend(context.Background(), cfg, logger)
	if err != nil {
		logger.WithError(err).WithField("driver", cfg.Driver).Fatal("failed to open store")
	}
	logger.WithFields(logrus.Fields{"driver": cfg.Driver, "collection": cfg.Collection}).Info("store ready")

	// 2. Repository and service, constructed explicitly
	todoRepo := repository.NewTodoRepository(be.todos)
	todoService := service.NewTodoService(todoRepo)

	// 3. Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.NewHTTP(reg)

	// 4. Server
	apiServer, err := server.NewServer(cfg.Server, todoService, be.health, httpMetrics, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to build server")
	}

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, be, logger, done)

	logger.WithField("addr", apiServer.Addr).Info("starting server")
	err = apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Fatal("http server error")
	}

	<-done
	logger.Info("graceful shutdown complete")
}
