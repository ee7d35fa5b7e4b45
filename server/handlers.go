package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"catalog-browser/models"
	"catalog-browser/services"
	"catalog-browser/storage"
	"catalog-browser/utils"
)

// Catalog supplies the current Dataset. *catalog.Cache satisfies it.
type Catalog interface {
	Get(ctx context.Context) (*models.Dataset, error)
	Invalidate(ctx context.Context) error
}

// Handler serves the catalog page, the JSON API and the CSV export.
type Handler struct {
	catalog  Catalog
	insights *services.InsightService
	views    *Engine
	forms    *formDecoder
	logger   *utils.Logger
}

// NewHandler builds a Handler.
func NewHandler(catalog Catalog, insights *services.InsightService, views *Engine, logger *utils.Logger) *Handler {
	return &Handler{
		catalog:  catalog,
		insights: insights,
		views:    views,
		forms:    newFormDecoder(),
		logger:   logger,
	}
}

type catalogPage struct {
	Title    string
	Year     int
	Facets   models.Facets
	Form     FilterForm
	Errors   map[string]string
	Applied  bool
	Products []models.Product
	Total    int
}

type productsResponse struct {
	Total    int              `json:"total"`
	Count    int              `json:"count"`
	Products []models.Product `json:"products"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Products int    `json:"products"`
	Dropped  int    `json:"dropped"`
	Source   string `json:"source"`
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	ds, err := h.catalog.Get(r.Context())
	if err != nil {
		h.logger.Error("[http] Load catalog: %v", err)
		http.Error(w, "catalog unavailable", http.StatusInternalServerError)
		return
	}

	form, err := h.forms.Decode(r)
	page := catalogPage{
		Title:   "Product Store",
		Year:    time.Now().Year(),
		Facets:  h.insights.Facets(ds),
		Form:    form,
		Applied: form.Apply,
		Total:   ds.Len(),
	}

	status := http.StatusOK
	if err == nil && form.Apply {
		var c models.FilterCriteria
		if c, err = form.Criteria(ds); err == nil {
			page.Products = services.ApplyDataset(ds, c)
		}
	}
	if err != nil {
		var verr *ValidationError
		if !errors.As(err, &verr) {
			h.logger.Error("[http] Decode filters: %v", err)
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		page.Errors = verr.Fields
		status = http.StatusBadRequest
	}

	if err := h.views.Render(w, status, "pages/catalog.html", page); err != nil {
		h.logger.Error("[http] Render catalog: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// filtered loads the dataset and applies the request's criteria. It writes a
// problem response and returns ok=false on failure.
func (h *Handler) filtered(w http.ResponseWriter, r *http.Request) (*models.Dataset, []models.Product, bool) {
	ds, err := h.catalog.Get(r.Context())
	if err != nil {
		h.problemForLoad(w, err)
		return nil, nil, false
	}
	form, err := h.forms.Decode(r)
	var c models.FilterCriteria
	if err == nil {
		c, err = form.Criteria(ds)
	}
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			writeProblem(w, ProblemDetail{Status: http.StatusBadRequest, Title: "Invalid filter parameters", Fields: verr.Fields})
		} else {
			writeProblem(w, ProblemDetail{Status: http.StatusBadRequest, Detail: err.Error()})
		}
		return nil, nil, false
	}
	return ds, services.ApplyDataset(ds, c), true
}

func (h *Handler) handleProducts(w http.ResponseWriter, r *http.Request) {
	ds, products, ok := h.filtered(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, productsResponse{Total: ds.Len(), Count: len(products), Products: products})
}

func (h *Handler) handleFacets(w http.ResponseWriter, r *http.Request) {
	ds, err := h.catalog.Get(r.Context())
	if err != nil {
		h.problemForLoad(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.insights.Facets(ds))
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	ds, err := h.catalog.Get(r.Context())
	if err != nil {
		h.problemForLoad(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.insights.Generate(ds))
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	_, products, ok := h.filtered(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="products.csv"`)
	cw, err := storage.NewCSVWriter(w)
	if err == nil {
		err = storage.WriteAll(cw, products)
	}
	if err != nil {
		h.logger.Error("[http] CSV export: %v", err)
	}
}

func (h *Handler) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Invalidate(r.Context()); err != nil {
		h.logger.Warn("[http] Invalidate: %v", err)
	}
	ds, err := h.catalog.Get(r.Context())
	if err != nil {
		h.problemForLoad(w, err)
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "reloaded",
		Products: ds.Len(),
		Dropped:  ds.Dropped(),
		Source:   ds.Meta().Source.URI,
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ds, err := h.catalog.Get(r.Context())
	if err != nil {
		h.logger.Warn("[http] Health check: %v", err)
		writeProblem(w, ProblemDetail{Status: http.StatusServiceUnavailable, Detail: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Products: ds.Len(),
		Dropped:  ds.Dropped(),
		Source:   ds.Meta().Source.URI,
	})
}

func (h *Handler) problemForLoad(w http.ResponseWriter, err error) {
	h.logger.Error("[http] Load catalog: %v", err)
	if errors.Is(err, services.ErrMissingColumn) {
		writeProblem(w, ProblemDetail{
			Status: http.StatusUnprocessableEntity,
			Title:  "Catalog source is missing a required column",
			Detail: err.Error(),
		})
		return
	}
	writeProblem(w, ProblemDetail{Status: http.StatusInternalServerError, Detail: "catalog unavailable"})
}
