package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/goal-archive/internal/domain/ranking"
	"github.com/riskibarqy/goal-archive/internal/platform/cache"
	"github.com/riskibarqy/goal-archive/internal/platform/id"
	"github.com/riskibarqy/goal-archive/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultViewIdleTTL       = 30 * time.Minute
	defaultViewSweepInterval = time.Minute
)

type RankingViewConfig struct {
	DefaultYear   int
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

// RankingViewService keeps the ranking views opened by browsers. A view that
// is not touched for IdleTTL is closed and forgotten.
type RankingViewService struct {
	repo          ranking.Repository
	pool          *FetchPool
	ids           id.Generator
	logger        *logging.Logger
	views         *cache.Store[*RankingView]
	defaultYear   int
	sweepInterval time.Duration
}

func NewRankingViewService(
	repo ranking.Repository,
	pool *FetchPool,
	ids id.Generator,
	cfg RankingViewConfig,
	logger *logging.Logger,
) *RankingViewService {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewRandomGenerator("vw")
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = defaultViewIdleTTL
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultViewSweepInterval
	}

	s := &RankingViewService{
		repo:          repo,
		pool:          pool,
		ids:           ids,
		logger:        logger.Named("rankingview"),
		defaultYear:   cfg.DefaultYear,
		sweepInterval: cfg.SweepInterval,
	}
	s.views = cache.NewStore[*RankingView](cfg.IdleTTL, cache.WithEvictHook(func(viewID string, view *RankingView) {
		view.Close()
		s.logger.Debug("ranking view evicted", "view_id", viewID)
	}))
	return s
}

func (s *RankingViewService) DefaultYear() int {
	return s.defaultYear
}

// Open mounts a new view at the given year, or at the default year when rawYear is blank.
func (s *RankingViewService) Open(ctx context.Context, rawYear string) (RankingSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingViewService.Open")
	defer span.End()

	year, err := s.parseYear(rawYear)
	if err != nil {
		return RankingSnapshot{}, err
	}

	viewID, err := s.ids.NewID()
	if err != nil {
		return RankingSnapshot{}, fmt.Errorf("generate view id: %w", err)
	}
	span.SetAttributes(attribute.String("view.id", viewID))

	view := NewRankingView(viewID, year, s.repo, s.pool, s.logger)
	s.views.Set(ctx, viewID, view)

	snapshot, err := view.Start(ctx)
	if err != nil {
		return RankingSnapshot{}, fmt.Errorf("start view: %w", err)
	}

	s.logger.InfoContext(ctx, "ranking view opened", "view_id", viewID, "year", year)
	return snapshot, nil
}

func (s *RankingViewService) Get(ctx context.Context, viewID string) (RankingSnapshot, error) {
	view, err := s.lookup(ctx, viewID)
	if err != nil {
		return RankingSnapshot{}, err
	}
	return view.Snapshot(), nil
}

func (s *RankingViewService) Previous(ctx context.Context, viewID string) (RankingSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingViewService.Previous")
	defer span.End()

	view, err := s.lookup(ctx, viewID)
	if err != nil {
		return RankingSnapshot{}, err
	}
	snapshot, err := view.Previous(ctx)
	if err != nil {
		return RankingSnapshot{}, fmt.Errorf("previous year: %w", err)
	}
	return snapshot, nil
}

func (s *RankingViewService) Next(ctx context.Context, viewID string) (RankingSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingViewService.Next")
	defer span.End()

	view, err := s.lookup(ctx, viewID)
	if err != nil {
		return RankingSnapshot{}, err
	}
	snapshot, err := view.Next(ctx)
	if err != nil {
		return RankingSnapshot{}, fmt.Errorf("next year: %w", err)
	}
	return snapshot, nil
}

// Close unmounts a view ahead of its idle deadline.
func (s *RankingViewService) Close(ctx context.Context, viewID string) error {
	viewID = strings.TrimSpace(viewID)
	if viewID == "" {
		return fmt.Errorf("%w: view id is required", ErrInvalidInput)
	}
	if !s.views.Delete(ctx, viewID) {
		return fmt.Errorf("%w: view=%s", ErrNotFound, viewID)
	}
	return nil
}

func (s *RankingViewService) OpenViews() int {
	return s.views.Len()
}

// Run sweeps idle views until ctx is done.
func (s *RankingViewService) Run(ctx context.Context) {
	s.views.RunJanitor(ctx, s.sweepInterval)
}

// Shutdown closes every open view.
func (s *RankingViewService) Shutdown() {
	s.views.Close()
}

func (s *RankingViewService) lookup(ctx context.Context, viewID string) (*RankingView, error) {
	viewID = strings.TrimSpace(viewID)
	if viewID == "" {
		return nil, fmt.Errorf("%w: view id is required", ErrInvalidInput)
	}
	view, ok := s.views.Get(ctx, viewID)
	if !ok {
		return nil, fmt.Errorf("%w: view=%s", ErrNotFound, viewID)
	}
	return view, nil
}

func (s *RankingViewService) parseYear(rawYear string) (int, error) {
	rawYear = strings.TrimSpace(rawYear)
	if rawYear == "" {
		return s.defaultYear, nil
	}
	year, err := strconv.Atoi(rawYear)
	if err != nil {
		return 0, fmt.Errorf("%w: year must be an integer, got %q", ErrInvalidInput, rawYear)
	}
	return year, nil
}
