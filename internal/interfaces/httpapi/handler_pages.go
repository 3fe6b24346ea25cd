package httpapi

import (
	"net/http"
)

const loremIpsum = "Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor incididunt ut labore et dolore magna aliqua."

type teamsPage struct {
	Heading    string
	Subheading string
	Sections   []teamsSection
}

type teamsSection struct {
	Title string
	Body  string
}

func placeholderTeamsPage() teamsPage {
	return teamsPage{
		Heading:    "Teams Page",
		Subheading: "Coming soon",
		Sections: []teamsSection{
			{Title: "First accordion", Body: loremIpsum},
			{Title: "Second accordion", Body: loremIpsum},
			{Title: "Third accordion", Body: loremIpsum},
		},
	}
}

type homePage struct {
	DefaultYear int
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Home")
	defer span.End()

	h.renderPage(ctx, w, http.StatusOK, "home", layoutData{
		Title: "Home",
		Nav:   navigation(navHome),
		Page:  homePage{DefaultYear: h.rankingViews.DefaultYear()},
	})
}

func (h *Handler) Teams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Teams")
	defer span.End()

	h.renderPage(ctx, w, http.StatusOK, "teams", layoutData{
		Title: "Teams",
		Nav:   navigation(navTeams),
		Page:  placeholderTeamsPage(),
	})
}

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.NotFound")
	defer span.End()

	if isAPIRequest(r) {
		writeJSON(ctx, w, http.StatusNotFound, googleResponseEnvelope{
			APIVersion: googleAPIVersion,
			Error: &googleErrorBody{
				Code:    http.StatusNotFound,
				Message: "route not found",
				Status:  "NOT_FOUND",
			},
		})
		return
	}
	h.renderStatusPage(ctx, w, http.StatusNotFound, "Page not found.")
}
