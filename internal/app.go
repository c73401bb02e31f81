package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"presetd/internal/controllers"
	"presetd/internal/kvstore"
	"presetd/internal/models"
	"presetd/internal/providers"
	"presetd/internal/scheduler"
	"presetd/internal/services"
	"presetd/internal/structures"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	loadTimeout     = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

type App struct {
	WebServer *http.Server

	sched  scheduler.SchedulerInterface
	kv     kvstore.Store
	logger providers.Logger
}

// Prepare brings the store to its startup state: persisted records first, then
// the backup file when the store is still empty, then the built-in catalog.
// A failed Load stops here: restore and seed would both write over records
// that exist but could not be read.
func Prepare(conf *structures.Config, logger providers.Logger, store services.PresetStoreInterface, sched scheduler.SchedulerInterface) error {
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	if err := store.Load(ctx); err != nil {
		logger.Errorf(providers.TypeApp, "Load error: %s", err)
		return fmt.Errorf("failed to load presets: %w", err)
	}
	if err := sched.Restore(); err != nil {
		logger.Errorf(providers.TypeApp, "Restore error: %s", err)
	}
	if conf.SeedCatalog {
		store.Seed(models.BuiltInPresets())
	}
	return nil
}

// NewHandler mounts /health and, when enabled, /metrics next to the routed API.
// Only the API routes are instrumented.
func NewHandler(conf *structures.Config, router providers.RouterProviderInterface, healthController *controllers.HealthController, metrics providers.MetricsProviderInterface) http.Handler {
	api := http.NewServeMux()
	var paths []string
	for _, route := range router.GetRoutes() {
		api.Handle(route.Url, route.Handler)
		paths = append(paths, route.Url)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", providers.MetricsMiddleware(metrics, paths, api))
	return mux
}

func NewApp(apiController *controllers.ApiController, healthController *controllers.HealthController, sched scheduler.SchedulerInterface, store services.PresetStoreInterface, kv kvstore.Store, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) (*App, error) {
	logger.Infof(providers.TypeApp, "Starting %s", conf.AppName)

	addr := conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port)
	app := &App{
		WebServer: &http.Server{
			Addr:         addr,
			Handler:      NewHandler(conf, router, healthController, metrics),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		sched:  sched,
		kv:     kv,
		logger: logger,
	}

	if err := Prepare(conf, logger, store, sched); err != nil {
		app.closeBackend()
		return nil, err
	}
	sched.Init()

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof(providers.TypeApp, "Listening HTTP clients on %s", addr)
		if err := app.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case <-stop:
		logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		sched.Stop()
		app.closeBackend()
		return nil, fmt.Errorf("server error: %w", err)
	}

	if err := app.shutdown(); err != nil {
		return nil, err
	}
	logger.Infof(providers.TypeApp, "gracefully stopped")
	return app, nil
}

// shutdown stops the backup schedule, drains HTTP clients, writes the final
// backup and closes the backend, in that order.
func (a *App) shutdown() error {
	a.sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.WebServer.Shutdown(ctx); err != nil {
		return err
	}
	if err := a.sched.Persist(); err != nil {
		return err
	}
	a.closeBackend()
	return nil
}

func (a *App) closeBackend() {
	if err := a.kv.Close(); err != nil {
		a.logger.Warnf(providers.TypeApp, "Closing store backend: %s", err)
	}
}
