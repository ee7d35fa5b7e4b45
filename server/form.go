package server

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"catalog-browser/models"
	"catalog-browser/services"
	"catalog-browser/utils"
)

// ErrValidation marks a request whose filter parameters are malformed.
var ErrValidation = errors.New("invalid filter parameters")

// ValidationError maps form fields to messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "invalid filter parameters: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// FilterForm is the sidebar form as submitted.
type FilterForm struct {
	MinPrice     string   `form:"min_price" validate:"omitempty,number"`
	MaxPrice     string   `form:"max_price" validate:"omitempty,number"`
	Availability []string `form:"availability" validate:"max=100,dive,max=200"`
	Condition    []string `form:"condition" validate:"max=100,dive,max=200"`
	Category     []string `form:"category" validate:"max=5,dive,category"`
	Apply        bool     `form:"apply"`
}

// defaultDecoder backs FilterForm.Validate.
var defaultDecoder = sync.OnceValue(newFormDecoder)

type formDecoder struct {
	validate *validator.Validate
}

func newFormDecoder() *formDecoder {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseCategory(fl.Field().String())
		return ok
	})
	return &formDecoder{validate: v}
}

// Decode reads the filter parameters from the query string. The form is
// returned even when invalid so the page can echo it back.
func (d *formDecoder) Decode(r *http.Request) (FilterForm, error) {
	q := r.URL.Query()
	form := FilterForm{
		MinPrice:     strings.TrimSpace(q.Get("min_price")),
		MaxPrice:     strings.TrimSpace(q.Get("max_price")),
		Availability: nonBlank(q["availability"]),
		Condition:    nonBlank(q["condition"]),
		Category:     nonBlank(q["category"]),
		Apply:        q.Get("apply") == "1",
	}

	return form, d.check(form)
}

func (d *formDecoder) check(form FilterForm) error {
	err := d.validate.Struct(form)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	verr := &ValidationError{Fields: make(map[string]string)}
	for _, fe := range fieldErrs {
		name, _, _ := strings.Cut(fe.Field(), "[")
		verr.Fields[name] = fieldMessage(name, fe)
	}
	return verr
}

// Validate applies the same rules as the page form, for callers that build a
// FilterForm themselves.
func (f FilterForm) Validate() error {
	return defaultDecoder().check(f)
}

func fieldMessage(name string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "number":
		return fmt.Sprintf("%s must be a number", strings.ReplaceAll(name, "_", " "))
	case "category":
		return fmt.Sprintf("unknown category %q", fe.Value())
	case "max":
		return fmt.Sprintf("%s has too many values", name)
	default:
		return fmt.Sprintf("%s is invalid", name)
	}
}

// Criteria converts the form into filter criteria over ds. Missing bounds
// default to the dataset's price range.
func (f FilterForm) Criteria(ds *models.Dataset) (models.FilterCriteria, error) {
	c := services.FullRange(ds)

	if f.MinPrice != "" {
		v, err := decimal.NewFromString(f.MinPrice)
		if err != nil {
			return c, &ValidationError{Fields: map[string]string{"min_price": "min price must be a number"}}
		}
		c.Price.Min = v
	}
	if f.MaxPrice != "" {
		v, err := decimal.NewFromString(f.MaxPrice)
		if err != nil {
			return c, &ValidationError{Fields: map[string]string{"max_price": "max price must be a number"}}
		}
		c.Price.Max = v
	}
	if c.Price.Min.GreaterThan(c.Price.Max) {
		return c, &ValidationError{Fields: map[string]string{
			"max_price": "max price must be greater than or equal to min price",
		}}
	}

	c.Availability = utils.NewStringSet(f.Availability...)
	c.Condition = utils.NewStringSet(f.Condition...)
	c.Category = utils.NewStringSet()
	for _, label := range f.Category {
		if cat, ok := models.ParseCategory(label); ok {
			c.Category.Add(string(cat))
		}
	}
	return c, nil
}

func nonBlank(values []string) []string {
	var out []string
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
