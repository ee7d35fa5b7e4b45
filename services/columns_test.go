package services

import (
	"testing"

	"catalog-browser/models"
)

func TestResolveColumn(t *testing.T) {
	columns := []string{"Product Name", "Availibilty Status", "Selling Price ($)", "selling price (old)", "Image URL"}

	tests := []struct {
		term   string
		want   string
		wantOK bool
	}{
		{"Product Name", "Product Name", true},
		{"product name", "Product Name", true},
		{"Availibilty", "Availibilty Status", true},
		{"Availability", "", false},
		{"Selling Price", "Selling Price ($)", true},
		{"IMAGE url", "Image URL", true},
		{"Condition", "", false},
	}

	for _, tt := range tests {
		got, ok := ResolveColumn(columns, tt.term)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ResolveColumn(%q) = (%q, %v); want (%q, %v)", tt.term, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestResolveColumnPositionalTieBreak(t *testing.T) {
	columns := []string{"Original Price", "Selling Price", "Price"}
	got, ok := ResolveColumn(columns, "price")
	if !ok || got != "Original Price" {
		t.Errorf("expected first positional match, got (%q, %v)", got, ok)
	}

	all := MatchingColumns(columns, "price")
	if len(all) != 3 || all[0] != "Original Price" || all[2] != "Price" {
		t.Errorf("MatchingColumns order: got %q", all)
	}
}

func TestResolveColumnDoesNotMutateInput(t *testing.T) {
	columns := []string{"  Product Name  ", "SELLING PRICE"}
	_, _ = ResolveColumn(columns, "selling price")
	if columns[0] != "  Product Name  " || columns[1] != "SELLING PRICE" {
		t.Errorf("input mutated: %q", columns)
	}
}

func TestResolveColumnFoldsUnicode(t *testing.T) {
	// Full-width letters normalize to ASCII under NFKC.
	got, ok := ResolveColumn([]string{"Ｐｒｏｄｕｃｔ Ｎａｍｅ"}, "product name")
	if !ok || got != "Ｐｒｏｄｕｃｔ Ｎａｍｅ" {
		t.Errorf("expected full-width header to match, got (%q, %v)", got, ok)
	}
}

func TestFieldTermsWithOverrides(t *testing.T) {
	terms := DefaultFieldTerms().WithOverrides(map[models.Field]string{
		models.FieldAvailability: "Availability",
		models.FieldCondition:    "  ",
	})
	if terms[models.FieldAvailability] != "Availability" {
		t.Errorf("override not applied: %q", terms[models.FieldAvailability])
	}
	if terms[models.FieldCondition] != "Condition" {
		t.Errorf("blank override should keep default, got %q", terms[models.FieldCondition])
	}
	if DefaultFieldTerms()[models.FieldAvailability] != "Availibilty" {
		t.Error("defaults must not be modified by WithOverrides")
	}
}
