// Package domain defines the core types and interfaces for the recipe manager.
// All other packages depend on domain; domain depends on nothing.
package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Recipe is a stored recipe. Ingredients and instructions are free text,
// one entry per line, exactly as the author typed them.
type Recipe struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	Servings     int       `json:"servings"`
	Ingredients  []string  `json:"ingredients"`
	Instructions []string  `json:"instructions"`
	Tips         string    `json:"tips,omitempty"`
	Image        string    `json:"image,omitempty"`
	DateCreated  time.Time `json:"dateCreated"`
	DateModified time.Time `json:"dateModified"`
	Version      int       `json:"version"`
}

// Clone returns a deep copy so callers can't mutate stored state.
func (r *Recipe) Clone() *Recipe {
	if r == nil {
		return nil
	}
	c := *r
	c.Ingredients = append([]string(nil), r.Ingredients...)
	c.Instructions = append([]string(nil), r.Instructions...)
	return &c
}

// Validate checks the fields a recipe cannot be stored without.
func (r *Recipe) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if r.Servings < 0 {
		return fmt.Errorf("%w: servings must not be negative", ErrValidation)
	}
	return nil
}

// UnmarshalJSON accepts servings as either a number or a numeric string.
// Older exports stored form values verbatim.
func (r *Recipe) UnmarshalJSON(data []byte) error {
	type alias Recipe
	aux := struct {
		*alias
		Servings json.RawMessage `json:"servings"`
	}{alias: (*alias)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.Servings = 0
	raw := strings.TrimSpace(string(aux.Servings))
	if raw == "" || raw == "null" {
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(aux.Servings, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("%w: servings %q is not a number", ErrValidation, s)
		}
		r.Servings = n
		return nil
	}
	var f float64
	if err := json.Unmarshal(aux.Servings, &f); err != nil {
		return err
	}
	r.Servings = int(f)
	return nil
}

// RecipeStats summarises the contents of a store.
type RecipeStats struct {
	Total            int            `json:"total"`
	Categories       map[string]int `json:"categories"`
	RecentlyAdded    []*Recipe      `json:"recentlyAdded"`
	RecentlyModified []*Recipe      `json:"recentlyModified"`
}
