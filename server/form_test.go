package server

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-browser/models"
)

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine()
	assert.NoError(t, err, "Templates should parse without error")
	assert.NotNil(t, engine)
}

func TestDecodeForm(t *testing.T) {
	r := httptest.NewRequest("GET", "/?apply=1&min_price=+10+&availability=In+Stock&availability=&category=TV+%26+Entertainment", nil)
	form, err := newFormDecoder().Decode(r)
	require.NoError(t, err)

	assert.True(t, form.Apply)
	assert.Equal(t, "10", form.MinPrice)
	assert.Empty(t, form.MaxPrice)
	assert.Equal(t, []string{"In Stock"}, form.Availability, "blank selections are ignored")
	assert.Equal(t, []string{"TV & Entertainment"}, form.Category)
}

func TestDecodeFormErrors(t *testing.T) {
	r := httptest.NewRequest("GET", "/?min_price=1e3&max_price=x&category=Other&category=Toys", nil)
	_, err := newFormDecoder().Decode(r)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{
		"min_price": "min price must be a number",
		"max_price": "max price must be a number",
		"category":  `unknown category "Toys"`,
	}, verr.Fields)
}

func TestFilterFormValidate(t *testing.T) {
	assert.NoError(t, FilterForm{MinPrice: "10", MaxPrice: "99.5", Category: []string{"Cookware"}}.Validate())

	err := FilterForm{MinPrice: "1e2"}.Validate()
	require.ErrorIs(t, err, ErrValidation)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "min price must be a number", verr.Fields["min_price"])

	err = FilterForm{Category: []string{"Gadgets"}}.Validate()
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCriteriaDefaultsToDatasetBounds(t *testing.T) {
	ds := fixtureDataset(t)
	c, err := FilterForm{}.Criteria(ds)
	require.NoError(t, err)

	assert.Equal(t, "20", c.Price.Min.String())
	assert.Equal(t, "300", c.Price.Max.String())
	assert.Equal(t, 0, c.Availability.Size())
	assert.Equal(t, 0, c.Category.Size())
}

func TestCriteriaBounds(t *testing.T) {
	ds := fixtureDataset(t)

	c, err := FilterForm{MinPrice: "45", MaxPrice: "45"}.Criteria(ds)
	require.NoError(t, err, "equal bounds are a valid single-price range")
	assert.True(t, c.Price.Min.Equal(c.Price.Max))

	_, err = FilterForm{MinPrice: "50", MaxPrice: "49.99"}.Criteria(ds)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCriteriaCanonicalisesCategories(t *testing.T) {
	c, err := FilterForm{Category: []string{" Clothing ", "Cookware"}}.Criteria(fixtureDataset(t))
	require.NoError(t, err)
	assert.Equal(t, []string{string(models.CategoryClothing), string(models.CategoryCookware)}, c.Category.Values())
}
