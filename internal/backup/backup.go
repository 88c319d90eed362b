// Package backup exports and imports whole recipe collections as JSON
// bundles and seeds the built-in recipes.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/hammamikhairi/recipro/internal/domain"
	"github.com/hammamikhairi/recipro/internal/logger"
	"github.com/hammamikhairi/recipro/internal/recipe"
)

// FormatVersion is written into every exported bundle.
const FormatVersion = 1

// Bundle is the interchange document.
type Bundle struct {
	ExportDate   time.Time        `json:"exportDate"`
	Version      int              `json:"version"`
	TotalRecipes int              `json:"totalRecipes"`
	Recipes      []*domain.Recipe `json:"recipes"`
}

// Result tallies an import or seed run.
type Result struct {
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
	Total      int `json:"total"`
}

// Export snapshots every recipe in the store.
func Export(ctx context.Context, store domain.RecipeStore, now time.Time) (*Bundle, error) {
	all, err := store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("exporting recipes: %w", err)
	}
	if all == nil {
		all = []*domain.Recipe{}
	}
	return &Bundle{
		ExportDate:   now.UTC(),
		Version:      FormatVersion,
		TotalRecipes: len(all),
		Recipes:      all,
	}, nil
}

// Write encodes the bundle as indented JSON.
func (b *Bundle) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("encoding bundle: %w", err)
	}
	return nil
}

// Import reads a bundle and stores each recipe, adding it or updating
// it when the add fails. Individual failures are tallied, not returned.
// A document without a recipes array fails with ErrValidation.
func Import(ctx context.Context, store domain.RecipeStore, r io.Reader, log *logger.Logger) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("reading import: %w", err)
	}

	var doc struct {
		Recipes json.RawMessage `json:"recipes"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return Result{}, fmt.Errorf("%w: invalid import file: %v", domain.ErrValidation, err)
	}
	raw := bytes.TrimSpace(doc.Recipes)
	if len(raw) == 0 || raw[0] != '[' {
		return Result{}, fmt.Errorf("%w: invalid import file format: recipes array missing", domain.ErrValidation)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return Result{}, fmt.Errorf("%w: invalid recipes array: %v", domain.ErrValidation, err)
	}

	res := Result{Total: len(items)}
	now := time.Now()
	generated := make(map[string]bool)
	for i, item := range items {
		var rec domain.Recipe
		if err := json.Unmarshal(item, &rec); err != nil {
			log.Warn("import: skipping recipe %d: %v", i, err)
			res.Failed++
			continue
		}
		if rec.ID == "" {
			rec.ID = uniqueID(recipe.NewID(rec.Title, now), generated)
		}
		if err := addOrUpdate(ctx, store, &rec, func(error) bool { return true }); err != nil {
			log.Warn("import: recipe %q failed: %v", rec.Title, err)
			res.Failed++
			continue
		}
		res.Successful++
	}

	log.Info("import completed: %d successful, %d failed", res.Successful, res.Failed)
	return res, nil
}

// uniqueID suffixes id until it has not been handed out in this import,
// so ID-less recipes sharing a title never overwrite each other.
func uniqueID(id string, taken map[string]bool) string {
	candidate := id
	for n := 2; taken[candidate]; n++ {
		candidate = id + "-" + strconv.Itoa(n)
	}
	taken[candidate] = true
	return candidate
}

// SeedDefaults stores the built-in recipes, updating any that already exist.
func SeedDefaults(ctx context.Context, store domain.RecipeStore, log *logger.Logger) (Result, error) {
	defaults := recipe.Defaults()
	res := Result{Total: len(defaults)}
	for _, rec := range defaults {
		err := addOrUpdate(ctx, store, rec, func(err error) bool {
			return errors.Is(err, domain.ErrAlreadyExists)
		})
		if err != nil {
			log.Warn("seed: %s failed: %v", rec.ID, err)
			res.Failed++
			continue
		}
		res.Successful++
	}
	log.Debug("seeded %d/%d default recipes", res.Successful, res.Total)
	return res, nil
}

// addOrUpdate adds rec and falls back to Update when retry accepts the
// add error.
func addOrUpdate(ctx context.Context, store domain.RecipeStore, rec *domain.Recipe, retry func(error) bool) error {
	_, err := store.Add(ctx, rec)
	if err == nil {
		return nil
	}
	if !retry(err) {
		return err
	}
	if _, uerr := store.Update(ctx, rec); uerr != nil {
		return fmt.Errorf("add: %v; update: %w", err, uerr)
	}
	return nil
}
