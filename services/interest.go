package services

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/Sairajgoud-kodipaka/CRM-FINAL-sub001/models"
)

// rawInterest mirrors every shape an interest record has ever been stored
// in: the current products list, the legacy single-product fields, and
// whatever preference keys were present. Unknown fields are dropped, absent
// fields default to their zero value.
type rawInterest struct {
	Category    string                     `json:"category"`
	Products    []models.InterestProduct   `json:"products"`
	Product     string                     `json:"product"` // legacy single-product shape
	Revenue     string                     `json:"revenue"` // legacy, belongs to Product
	Preferences models.InterestPreferences `json:"preferences"`
}

// NormalizeInterest repairs a raw interest value of unknown shape into the
// canonical ProductInterest. It never fails: a string that does not parse as
// JSON becomes an opaque legacy note carried in preferences.other, so the
// record stays consolidable. The operation is idempotent.
func NormalizeInterest(raw json.RawMessage) models.ProductInterest {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return emptyInterest()
	}

	// A JSON string value is an encoded record or a legacy free-text note.
	if trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return legacyNote(string(raw))
		}
		var nested rawInterest
		if err := json.Unmarshal([]byte(inner), &nested); err != nil {
			return legacyNote(inner)
		}
		return canonicalize(nested)
	}

	var r rawInterest
	if err := json.Unmarshal(raw, &r); err != nil {
		return legacyNote(trimmed)
	}
	return canonicalize(r)
}

// NormalizeInterests normalizes a JSONB array of raw interest records.
// A value that is not an array at all degrades to a single legacy note.
func NormalizeInterests(raw json.RawMessage) []models.ProductInterest {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" || trimmed == "[]" {
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []models.ProductInterest{NormalizeInterest(raw)}
	}

	interests := make([]models.ProductInterest, 0, len(items))
	for _, item := range items {
		interests = append(interests, NormalizeInterest(item))
	}
	return interests
}

func canonicalize(r rawInterest) models.ProductInterest {
	products := r.Products
	if len(products) == 0 && r.Product != "" {
		// Lift the legacy single-product shape into a one-element list
		products = []models.InterestProduct{{Product: r.Product, Revenue: r.Revenue}}
	}
	if products == nil {
		products = []models.InterestProduct{}
	}
	return models.ProductInterest{
		Category:    r.Category,
		Products:    products,
		Preferences: r.Preferences,
	}
}

func legacyNote(note string) models.ProductInterest {
	interest := emptyInterest()
	interest.Preferences.Other = note
	return interest
}

func emptyInterest() models.ProductInterest {
	return models.ProductInterest{Products: []models.InterestProduct{}}
}

// ParseRevenue parses a decimal revenue string. Non-numeric or negative
// values contribute 0 rather than poisoning the sum.
func ParseRevenue(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 || isDegenerate(v) {
		return 0
	}
	return v
}
