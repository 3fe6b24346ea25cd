package usecase

import (
	"context"
	"fmt"
	"sync"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/goal-archive/internal/domain/ranking"
	"github.com/riskibarqy/goal-archive/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// RankingSnapshot is a read-only copy of a view's state.
// A nil Rankings means no list is available yet; a non-nil empty one means the year has no rankings.
type RankingSnapshot struct {
	ViewID       string
	Year         int
	IsLoading    bool
	ErrorMessage *string
	Rankings     ranking.List
}

// RankingView holds the state of one opened ranking table. Every year change
// starts a new fetch and only the most recently requested one may update state.
type RankingView struct {
	id     string
	repo   ranking.Repository
	pool   *FetchPool
	logger *logging.Logger

	mu       sync.Mutex
	year     int
	loading  bool
	errMsg   *string
	rankings ranking.List
	seq      uint64
	cancel   context.CancelFunc
	closed   bool
}

func NewRankingView(id string, year int, repo ranking.Repository, pool *FetchPool, logger *logging.Logger) *RankingView {
	if logger == nil {
		logger = logging.Default()
	}
	return &RankingView{
		id:     id,
		repo:   repo,
		pool:   pool,
		logger: logger.With("view_id", id),
		year:   year,
	}
}

func (v *RankingView) ID() string {
	return v.id
}

// Start mounts the view and fetches the initial year.
func (v *RankingView) Start(ctx context.Context) (RankingSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingView.Start")
	defer span.End()

	snapshot, err := v.changeYear(ctx, 0)
	span.SetAttributes(snapshotAttributes(snapshot)...)
	return snapshot, err
}

func (v *RankingView) Previous(ctx context.Context) (RankingSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingView.Previous")
	defer span.End()

	snapshot, err := v.changeYear(ctx, -1)
	span.SetAttributes(snapshotAttributes(snapshot)...)
	return snapshot, err
}

func (v *RankingView) Next(ctx context.Context) (RankingSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingView.Next")
	defer span.End()

	snapshot, err := v.changeYear(ctx, 1)
	span.SetAttributes(snapshotAttributes(snapshot)...)
	return snapshot, err
}

func (v *RankingView) Snapshot() RankingSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

// Close unmounts the view. The in-flight fetch is cancelled and any later completion is dropped.
func (v *RankingView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}
	v.closed = true
	v.seq++
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.logger.Debug("ranking view closed", "year", v.year)
}

func (v *RankingView) changeYear(ctx context.Context, delta int) (RankingSnapshot, error) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return RankingSnapshot{}, fmt.Errorf("%w: view=%s is closed", ErrNotFound, v.id)
	}

	v.year += delta
	year := v.year

	if v.cancel != nil {
		v.cancel()
	}
	v.seq++
	seq := v.seq

	// The fetch outlives the request that triggered it but keeps its trace.
	fetchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	v.cancel = cancel
	v.loading = true
	v.errMsg = nil
	v.rankings = nil
	snapshot := v.snapshotLocked()
	v.mu.Unlock()

	v.logger.DebugContext(ctx, "fetching rankings", "year", year, "seq", seq)

	var list ranking.List
	err := v.pool.Submit(func() error {
		var fetchErr error
		list, fetchErr = v.repo.ListByYear(fetchCtx, year)
		return fetchErr
	}, func(fetchErr error) {
		v.complete(seq, year, list, fetchErr)
	})
	if err != nil {
		v.complete(seq, year, nil, err)
		return v.Snapshot(), nil
	}

	return snapshot, nil
}

func (v *RankingView) complete(seq uint64, year int, list ranking.List, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed || seq != v.seq {
		v.logger.Debug("discarding stale ranking result", "year", year, "seq", seq, "current_seq", v.seq)
		return
	}

	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.loading = false

	if err != nil {
		message := failureMessage(err)
		v.errMsg = &message
		v.rankings = nil
		v.logger.Warn("ranking fetch failed", "year", year, "error", err)
		return
	}

	if list == nil {
		list = ranking.List{}
	}
	v.errMsg = nil
	v.rankings = list
}

func (v *RankingView) snapshotLocked() RankingSnapshot {
	snapshot := RankingSnapshot{
		ViewID:    v.id,
		Year:      v.year,
		IsLoading: v.loading,
		Rankings:  v.rankings.Clone(),
	}
	if v.errMsg != nil {
		message := *v.errMsg
		snapshot.ErrorMessage = &message
	}
	return snapshot
}

func failureMessage(err error) string {
	for _, hint := range crerr.GetAllHints(err) {
		if hint != "" {
			return hint
		}
	}
	return MessageFetchFailed
}

func snapshotAttributes(snapshot RankingSnapshot) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("view.id", snapshot.ViewID),
		attribute.Int("ranking.year", snapshot.Year),
		attribute.Bool("view.loading", snapshot.IsLoading),
	}
}
