package httpapi

import (
	"context"
	"embed"
	"net/http"

	"github.com/unrolled/render"
)

//go:embed templates
var templates embed.FS

const (
	navHome    = "/"
	navTeams   = "/teams"
	navRanking = "/bdor"
	navContact = "/contact"
)

type navLink struct {
	Label  string
	Href   string
	Active bool
}

// layoutData is the binding of every HTML page; Page carries the page-specific data.
type layoutData struct {
	Title          string
	Nav            []navLink
	RefreshSeconds int
	Page           any
}

type statusPage struct {
	Code    int
	Title   string
	Message string
}

func newRender() *render.Render {
	return render.New(render.Options{
		Directory: "templates",
		Layout:    "layout",
		FileSystem: &render.EmbedFileSystem{
			FS: templates,
		},
	})
}

func navigation(active string) []navLink {
	links := []navLink{
		{Label: "Home", Href: navHome},
		{Label: "Teams", Href: navTeams},
		{Label: "BDor", Href: navRanking},
		{Label: "Contact", Href: navContact},
	}
	for i := range links {
		links[i].Active = links[i].Href == active
	}
	return links
}

func (h *Handler) renderPage(ctx context.Context, w http.ResponseWriter, status int, name string, data layoutData) {
	ctx, span := startSpan(ctx, "httpapi.renderPage")
	defer span.End()

	if err := h.render.HTML(w, status, name, data); err != nil {
		h.logger.ErrorContext(ctx, "render page failed", "template", name, "error", err)
	}
}

func (h *Handler) renderStatusPage(ctx context.Context, w http.ResponseWriter, status int, message string) {
	h.renderPage(ctx, w, status, "status", layoutData{
		Title: http.StatusText(status),
		Nav:   navigation(""),
		Page: statusPage{
			Code:    status,
			Title:   http.StatusText(status),
			Message: message,
		},
	})
}

// renderErrorPage is the HTML counterpart of writeError.
func (h *Handler) renderErrorPage(ctx context.Context, w http.ResponseWriter, err error) {
	mapped := mapError(ctx, err)
	message := "Something went wrong."
	switch mapped.HTTPStatus {
	case http.StatusBadRequest:
		message = "The request is invalid: " + err.Error()
	case http.StatusNotFound:
		message = "This ranking view does not exist or has expired. Open a new one from the BDor page."
	case http.StatusServiceUnavailable:
		message = "The service is busy, try again in a moment."
	}
	h.renderStatusPage(ctx, w, mapped.HTTPStatus, message)
}
