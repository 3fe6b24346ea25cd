package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPageRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /{$}", handler.Home)
	mux.HandleFunc("GET /teams", handler.Teams)
	mux.HandleFunc("GET /bdor", handler.OpenRankingView)
	mux.HandleFunc("GET /bdor/views/{viewID}", handler.ShowRankingView)
	mux.HandleFunc("POST /bdor/views/{viewID}/previous", handler.PreviousRankingYear)
	mux.HandleFunc("POST /bdor/views/{viewID}/next", handler.NextRankingYear)
	// Linked from the navigation bar, no page behind it yet.
	mux.HandleFunc("GET /contact", handler.NotFound)
	mux.HandleFunc("/", handler.NotFound)
}

func registerRankingViewAPIRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/bdor/views", handler.CreateRankingViewAPI)
	mux.HandleFunc("GET /v1/bdor/views/{viewID}", handler.GetRankingViewAPI)
	mux.HandleFunc("POST /v1/bdor/views/{viewID}/previous", handler.PreviousRankingYearAPI)
	mux.HandleFunc("POST /v1/bdor/views/{viewID}/next", handler.NextRankingYearAPI)
	mux.HandleFunc("DELETE /v1/bdor/views/{viewID}", handler.CloseRankingViewAPI)
}
