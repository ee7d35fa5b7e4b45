package server

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/shopspring/decimal"

	"catalog-browser/models"
	"catalog-browser/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// NewEngine parses the embedded templates.
func NewEngine() (*Engine, error) {
	funcMap := template.FuncMap{
		"money":         money,
		"originalPrice": originalPrice,
		"orDash": func(s string) string {
			if s == "" {
				return "-"
			}
			return s
		},
		"contains": func(list []string, v string) bool {
			for _, item := range list {
				if item == v {
					return true
				}
			}
			return false
		},
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates,
		"templates/layouts/*.html", "templates/partials/*.html", "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("server: parse templates: %w", err)
	}
	return &Engine{templates: tpl}, nil
}

// Render executes a named template into a buffer first so a failure never
// leaves a half-written page behind.
func (e *Engine) Render(w http.ResponseWriter, status int, name string, data any) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func originalPrice(p models.Product) string {
	if v, ok := p.OriginalPriceValue(); ok {
		return money(v)
	}
	if p.OriginalPrice != "" {
		return p.OriginalPrice
	}
	return "N/A"
}
