package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/goal-archive/internal/domain/ranking"
	rankingmock "github.com/riskibarqy/goal-archive/internal/mocks/domain/ranking"
	"github.com/riskibarqy/goal-archive/internal/platform/id"
	"github.com/riskibarqy/goal-archive/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestViewService(t *testing.T, repo ranking.Repository, cfg RankingViewConfig) *RankingViewService {
	t.Helper()

	if cfg.DefaultYear == 0 {
		cfg.DefaultYear = 2024
	}
	service := NewRankingViewService(repo, newTestPool(t, 4), &id.SequenceGenerator{Prefix: "view-"}, cfg, logging.NewNop())
	t.Cleanup(service.Shutdown)
	return service
}

func TestRankingViewService_OpenUsesDefaultYear(t *testing.T) {
	t.Parallel()

	repo := rankingmock.NewRepository(t)
	repo.On("ListByYear", mock.Anything, 2024).Return(sampleRankings(2024), nil).Once()

	service := newTestViewService(t, repo, RankingViewConfig{})
	opened, err := service.Open(context.Background(), "  ")
	require.NoError(t, err)
	assert.Equal(t, "view-1", opened.ViewID)
	assert.Equal(t, 2024, opened.Year)
	assert.True(t, opened.IsLoading)

	require.Eventually(t, func() bool {
		got, err := service.Get(context.Background(), opened.ViewID)
		return err == nil && !got.IsLoading
	}, 2*time.Second, 5*time.Millisecond)

	got, err := service.Get(context.Background(), opened.ViewID)
	require.NoError(t, err)
	require.Len(t, got.Rankings, 3)
}

func TestRankingViewService_OpenRejectsNonNumericYear(t *testing.T) {
	t.Parallel()

	service := newTestViewService(t, rankingmock.NewRepository(t), RankingViewConfig{})

	_, err := service.Open(context.Background(), "twenty")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if service.OpenViews() != 0 {
		t.Fatalf("rejected open must not register a view")
	}
}

func TestRankingViewService_OpenAcceptsNegativeYear(t *testing.T) {
	t.Parallel()

	repo := rankingmock.NewRepository(t)
	repo.On("ListByYear", mock.Anything, -12).Return(ranking.List{}, nil).Once()

	service := newTestViewService(t, repo, RankingViewConfig{})
	opened, err := service.Open(context.Background(), "-12")
	require.NoError(t, err)
	assert.Equal(t, -12, opened.Year)

	require.Eventually(t, func() bool {
		got, _ := service.Get(context.Background(), opened.ViewID)
		return !got.IsLoading
	}, 2*time.Second, 5*time.Millisecond)
}

func TestRankingViewService_NextAndPrevious(t *testing.T) {
	t.Parallel()

	repo := newScriptedRepository()
	service := newTestViewService(t, repo, RankingViewConfig{DefaultYear: 2024})
	ctx := context.Background()

	opened, err := service.Open(ctx, "")
	require.NoError(t, err)
	repo.respond(2024, sampleRankings(2024), nil)
	require.Eventually(t, func() bool {
		got, _ := service.Get(ctx, opened.ViewID)
		return !got.IsLoading
	}, 2*time.Second, 5*time.Millisecond)

	next, err := service.Next(ctx, opened.ViewID)
	require.NoError(t, err)
	assert.Equal(t, 2025, next.Year)
	repo.respond(2025, ranking.List{}, nil)

	require.Eventually(t, func() bool {
		got, _ := service.Get(ctx, opened.ViewID)
		return !got.IsLoading && got.Year == 2025
	}, 2*time.Second, 5*time.Millisecond)

	prev, err := service.Previous(ctx, opened.ViewID)
	require.NoError(t, err)
	assert.Equal(t, 2024, prev.Year)
	repo.respond(2024, sampleRankings(2024), nil)

	require.Eventually(t, func() bool {
		got, _ := service.Get(ctx, opened.ViewID)
		return !got.IsLoading && len(got.Rankings) == 3
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []int{2024, 2025, 2024}, repo.Calls())
}

func TestRankingViewService_UnknownViewIsNotFound(t *testing.T) {
	t.Parallel()

	service := newTestViewService(t, rankingmock.NewRepository(t), RankingViewConfig{})
	ctx := context.Background()

	_, err := service.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = service.Next(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = service.Previous(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, service.Close(ctx, "missing"), ErrNotFound)

	_, err = service.Get(ctx, "")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestRankingViewService_CloseUnmountsView(t *testing.T) {
	t.Parallel()

	repo := newScriptedRepository()
	repo.ignoreCancel = true
	service := newTestViewService(t, repo, RankingViewConfig{})
	ctx := context.Background()

	opened, err := service.Open(ctx, "2024")
	require.NoError(t, err)
	require.NoError(t, service.Close(ctx, opened.ViewID))

	_, err = service.Get(ctx, opened.ViewID)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, service.OpenViews())

	repo.respond(2024, sampleRankings(2024), nil)
}

func TestRankingViewService_RunEvictsIdleViews(t *testing.T) {
	t.Parallel()

	repo := rankingmock.NewRepository(t)
	repo.On("ListByYear", mock.Anything, 2024).Return(ranking.List{}, nil).Maybe()

	service := newTestViewService(t, repo, RankingViewConfig{
		IdleTTL:       20 * time.Millisecond,
		SweepInterval: 5 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go service.Run(ctx)

	opened, err := service.Open(context.Background(), "")
	require.NoError(t, err)

	require.Eventually(t, func() bool { return service.OpenViews() == 0 }, 2*time.Second, 5*time.Millisecond)

	_, err = service.Next(context.Background(), opened.ViewID)
	require.ErrorIs(t, err, ErrNotFound)
}
