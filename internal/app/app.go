package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/goal-archive/external/goalarchive"
	"github.com/riskibarqy/goal-archive/internal/config"
	"github.com/riskibarqy/goal-archive/internal/interfaces/httpapi"
	"github.com/riskibarqy/goal-archive/internal/platform/id"
	"github.com/riskibarqy/goal-archive/internal/platform/logging"
	"github.com/riskibarqy/goal-archive/internal/platform/resilience"
	"github.com/riskibarqy/goal-archive/internal/usecase"
	"github.com/sourcegraph/conc"
)

const (
	shutdownTimeout    = 10 * time.Second
	poolReleaseTimeout = 5 * time.Second
)

// App wires the rankings client, the view service and the HTTP surface.
type App struct {
	cfg          config.Config
	logger       *logging.Logger
	server       *http.Server
	fetchPool    *usecase.FetchPool
	rankingViews *usecase.RankingViewService
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	rankingsClient := goalarchive.NewClient(goalarchive.ClientConfig{
		BaseURL:    cfg.RankingsBaseURL,
		Timeout:    cfg.RankingsTimeout,
		MaxRetries: cfg.RankingsMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.RankingsCircuitEnabled,
			FailureThreshold: cfg.RankingsCircuitFailureCount,
			OpenTimeout:      cfg.RankingsCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.RankingsCircuitHalfOpenMaxReq,
		},
	})

	fetchPool, err := usecase.NewFetchPool(cfg.RankingsFetchWorkers, logger)
	if err != nil {
		return nil, fmt.Errorf("build fetch pool: %w", err)
	}

	rankingViews := usecase.NewRankingViewService(
		rankingsClient,
		fetchPool,
		id.NewRandomGenerator("vw"),
		usecase.RankingViewConfig{
			DefaultYear:   cfg.RankingsDefaultYear,
			IdleTTL:       cfg.ViewIdleTTL,
			SweepInterval: cfg.ViewSweepInterval,
		},
		logger,
	)

	handler := httpapi.NewHandler(rankingViews, logger)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins)

	return &App{
		cfg:    cfg,
		logger: logger,
		server: &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           router,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
		},
		fetchPool:    fetchPool,
		rankingViews: rankingViews,
	}, nil
}

func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run serves HTTP and sweeps idle views until ctx is done, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()

	var wg conc.WaitGroup
	wg.Go(func() {
		a.rankingViews.Run(sweepCtx)
	})

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", "addr", a.cfg.HTTPAddr, "rankings_base_url", a.cfg.RankingsBaseURL)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			runErr = fmt.Errorf("http server failed: %w", err)
		}
	}

	stopSweep()
	wg.Wait()

	if err := a.shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
	}

	openViews := a.rankingViews.OpenViews()
	a.rankingViews.Shutdown()
	if err := a.fetchPool.Release(poolReleaseTimeout); err != nil {
		errs = append(errs, err)
	}

	a.logger.Info("http server stopped", "closed_views", openViews)
	return errors.Join(errs...)
}
