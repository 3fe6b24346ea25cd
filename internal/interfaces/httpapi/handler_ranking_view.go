package httpapi

import (
	"net/http"
)

type openRankingViewQuery struct {
	Year string `validate:"omitempty,numeric,max=11"`
}

// OpenRankingView mounts a fresh view and sends the browser to it.
func (h *Handler) OpenRankingView(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.OpenRankingView")
	defer span.End()

	query := openRankingViewQuery{Year: r.URL.Query().Get("year")}
	if err := h.validateRequest(ctx, query); err != nil {
		h.renderErrorPage(ctx, w, err)
		return
	}

	snapshot, err := h.rankingViews.Open(ctx, query.Year)
	if err != nil {
		h.logger.WarnContext(ctx, "open ranking view failed", "year", query.Year, "error", err)
		h.renderErrorPage(ctx, w, err)
		return
	}

	http.Redirect(w, r, rankingViewPath(snapshot.ViewID), http.StatusSeeOther)
}

func (h *Handler) ShowRankingView(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ShowRankingView")
	defer span.End()

	viewID := r.PathValue("viewID")
	snapshot, err := h.rankingViews.Get(ctx, viewID)
	if err != nil {
		h.renderErrorPage(ctx, w, err)
		return
	}

	data := layoutData{
		Title: "Ballon d'Or",
		Nav:   navigation(navRanking),
		Page:  rankingViewToPage(snapshot),
	}
	if snapshot.IsLoading {
		data.RefreshSeconds = 1
	}
	w.Header().Set("Cache-Control", "no-store")
	h.renderPage(ctx, w, http.StatusOK, "bdor", data)
}

func (h *Handler) PreviousRankingYear(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PreviousRankingYear")
	defer span.End()

	viewID := r.PathValue("viewID")
	if _, err := h.rankingViews.Previous(ctx, viewID); err != nil {
		h.logger.WarnContext(ctx, "previous ranking year failed", "view_id", viewID, "error", err)
		h.renderErrorPage(ctx, w, err)
		return
	}

	http.Redirect(w, r, rankingViewPath(viewID), http.StatusSeeOther)
}

func (h *Handler) NextRankingYear(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.NextRankingYear")
	defer span.End()

	viewID := r.PathValue("viewID")
	if _, err := h.rankingViews.Next(ctx, viewID); err != nil {
		h.logger.WarnContext(ctx, "next ranking year failed", "view_id", viewID, "error", err)
		h.renderErrorPage(ctx, w, err)
		return
	}

	http.Redirect(w, r, rankingViewPath(viewID), http.StatusSeeOther)
}

func (h *Handler) CreateRankingViewAPI(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateRankingViewAPI")
	defer span.End()

	query := openRankingViewQuery{Year: r.URL.Query().Get("year")}
	if err := h.validateRequest(ctx, query); err != nil {
		writeError(ctx, w, err)
		return
	}

	snapshot, err := h.rankingViews.Open(ctx, query.Year)
	if err != nil {
		h.logger.WarnContext(ctx, "open ranking view failed", "year", query.Year, "error", err)
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Location", rankingViewAPIPath(snapshot.ViewID))
	writeSuccess(ctx, w, http.StatusCreated, rankingViewToDTO(snapshot))
}

func (h *Handler) GetRankingViewAPI(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRankingViewAPI")
	defer span.End()

	snapshot, err := h.rankingViews.Get(ctx, r.PathValue("viewID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rankingViewToDTO(snapshot))
}

func (h *Handler) PreviousRankingYearAPI(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PreviousRankingYearAPI")
	defer span.End()

	snapshot, err := h.rankingViews.Previous(ctx, r.PathValue("viewID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rankingViewToDTO(snapshot))
}

func (h *Handler) NextRankingYearAPI(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.NextRankingYearAPI")
	defer span.End()

	snapshot, err := h.rankingViews.Next(ctx, r.PathValue("viewID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rankingViewToDTO(snapshot))
}

func (h *Handler) CloseRankingViewAPI(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CloseRankingViewAPI")
	defer span.End()

	viewID := r.PathValue("viewID")
	if err := h.rankingViews.Close(ctx, viewID); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeNoContent(ctx, w)
}
