package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/goal-archive/internal/platform/logging"
	"github.com/riskibarqy/goal-archive/internal/usecase"
	"github.com/unrolled/render"
)

type Handler struct {
	rankingViews *usecase.RankingViewService
	render       *render.Render
	logger       *logging.Logger
	validator    *validator.Validate
}

func NewHandler(rankingViews *usecase.RankingViewService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		rankingViews: rankingViews,
		render:       newRender(),
		logger:       logger.Named("httpapi"),
		validator:    validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	_, span := startSpan(ctx, "httpapi.validateRequest")
	defer span.End()

	if err := h.validator.Struct(payload); err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"status":     "ok",
		"open_views": h.rankingViews.OpenViews(),
	})
}
