package server

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"catalog-browser/utils"
	"catalog-browser/web"
)

// NewRouter constructs the chi.Router serving h.
func NewRouter(opts Options, h *Handler, logger *utils.Logger) http.Handler {
	r := chi.NewRouter()
	for _, mw := range MiddlewareStack(opts, logger) {
		r.Use(mw)
	}

	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Get("/", h.handleIndex)
	r.Get("/healthz", h.handleHealth)
	r.Get("/export.csv", h.handleExport)
	r.Post("/reload", h.handleReload)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.handleProducts)
		r.Get("/facets", h.handleFacets)
		r.Get("/summary", h.handleSummary)
	})

	return r
}
