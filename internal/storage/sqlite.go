package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hammamikhairi/recipro/internal/domain"
	"github.com/hammamikhairi/recipro/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.RecipeStore    = (*SQLiteStore)(nil)
	_ domain.RecipeSearcher = (*SQLiteStore)(nil)
	_ domain.StatsProvider  = (*SQLiteStore)(nil)
)

const timeLayout = time.RFC3339Nano

// SQLiteStore persists recipes in a SQLite database. Ingredient and
// instruction lines live in child tables keyed by position.
type SQLiteStore struct {
	db  *sql.DB
	log *logger.Logger
	now func() time.Time
}

// NewSQLiteStore opens (or creates) the database at path. Use ":memory:"
// for a throwaway store.
func NewSQLiteStore(path string, log *logger.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, log: log, now: time.Now}
	if err := s.initSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	log.Debug("sqlite store ready at %s", path)
	return s, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
    CREATE TABLE IF NOT EXISTS recipes (
        id TEXT PRIMARY KEY,
        title TEXT NOT NULL,
        category TEXT NOT NULL DEFAULT '',
        servings INTEGER NOT NULL DEFAULT 0,
        tips TEXT NOT NULL DEFAULT '',
        image TEXT NOT NULL DEFAULT '',
        date_created TEXT NOT NULL,
        date_modified TEXT NOT NULL,
        version INTEGER NOT NULL DEFAULT 1
    );

    CREATE TABLE IF NOT EXISTS recipe_ingredients (
        recipe_id TEXT NOT NULL,
        position INTEGER NOT NULL,
        line TEXT NOT NULL,
        PRIMARY KEY (recipe_id, position)
    );

    CREATE TABLE IF NOT EXISTS recipe_instructions (
        recipe_id TEXT NOT NULL,
        position INTEGER NOT NULL,
        line TEXT NOT NULL,
        PRIMARY KEY (recipe_id, position)
    );

    CREATE INDEX IF NOT EXISTS idx_recipes_category ON recipes(category);
    CREATE INDEX IF NOT EXISTS idx_recipes_title ON recipes(title);
    `

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Get returns a recipe by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	rows, err := s.db.QueryContext(ctx, selectRecipes+` WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("querying recipe: %w", err)
	}
	recipes, err := s.scanRecipes(ctx, rows)
	if err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		s.log.Debug("recipe not found: %s", id)
		return nil, fmt.Errorf("recipe %s: %w", id, domain.ErrNotFound)
	}
	return recipes[0], nil
}

// GetAll returns every recipe ordered by title.
func (s *SQLiteStore) GetAll(ctx context.Context) ([]*domain.Recipe, error) {
	rows, err := s.db.QueryContext(ctx, selectRecipes+` ORDER BY title, id`)
	if err != nil {
		return nil, fmt.Errorf("querying recipes: %w", err)
	}
	return s.scanRecipes(ctx, rows)
}

// Add inserts a new recipe. It fails with ErrAlreadyExists when the ID
// is taken.
func (s *SQLiteStore) Add(ctx context.Context, recipe *domain.Recipe) (*domain.Recipe, error) {
	if err := recipe.Validate(); err != nil {
		return nil, err
	}
	if recipe.ID == "" {
		return nil, fmt.Errorf("%w: id is required", domain.ErrValidation)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	exists, err := recipeExists(ctx, tx, recipe.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("recipe %s: %w", recipe.ID, domain.ErrAlreadyExists)
	}

	stored := recipe.Clone()
	now := s.now().UTC()
	stored.DateCreated = now
	stored.DateModified = now
	stored.Version = 1

	if err := writeRecipe(ctx, tx, stored); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing recipe: %w", err)
	}
	s.log.Info("recipe added: %s (%s)", stored.Title, stored.ID)
	return stored, nil
}

// Update upserts a recipe, bumping its version and modification time.
func (s *SQLiteStore) Update(ctx context.Context, recipe *domain.Recipe) (*domain.Recipe, error) {
	if err := recipe.Validate(); err != nil {
		return nil, err
	}
	if recipe.ID == "" {
		return nil, fmt.Errorf("%w: id is required", domain.ErrValidation)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	stored := recipe.Clone()
	now := s.now().UTC()

	var createdStr string
	var version int
	err = tx.QueryRowContext(ctx, `SELECT date_created, version FROM recipes WHERE id = ?`, recipe.ID).
		Scan(&createdStr, &version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if stored.DateCreated.IsZero() {
			stored.DateCreated = now
		}
		stored.Version = recipe.Version + 1
	case err != nil:
		return nil, fmt.Errorf("loading current version: %w", err)
	default:
		if stored.DateCreated, err = time.Parse(timeLayout, createdStr); err != nil {
			return nil, fmt.Errorf("parsing date_created: %w", err)
		}
		stored.Version = version + 1
	}
	stored.DateModified = now

	if err := writeRecipe(ctx, tx, stored); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing recipe: %w", err)
	}
	s.log.Info("recipe updated: %s (v%d)", stored.Title, stored.Version)
	return stored, nil
}

// Delete removes a recipe and its lines, reporting whether it existed.
func (s *SQLiteStore) Delete(ctx context.Context, id string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting recipe: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("counting deleted rows: %w", err)
	}
	if err := deleteLines(ctx, tx, id); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing delete: %w", err)
	}
	if n > 0 {
		s.log.Debug("deleted recipe %s", id)
	}
	return n > 0, nil
}

// Clear removes every recipe.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"recipe_ingredients", "recipe_instructions", "recipes"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing clear: %w", err)
	}
	s.log.Info("cleared all recipes")
	return nil
}

// SearchByTitle returns recipes whose title contains query, ignoring case.
func (s *SQLiteStore) SearchByTitle(ctx context.Context, query string) ([]*domain.Recipe, error) {
	rows, err := s.db.QueryContext(ctx,
		selectRecipes+` WHERE instr(lower(title), lower(?)) > 0 ORDER BY title, id`, query)
	if err != nil {
		return nil, fmt.Errorf("searching recipes: %w", err)
	}
	return s.scanRecipes(ctx, rows)
}

// ByCategory returns recipes in the given category, ignoring case.
func (s *SQLiteStore) ByCategory(ctx context.Context, category string) ([]*domain.Recipe, error) {
	rows, err := s.db.QueryContext(ctx,
		selectRecipes+` WHERE lower(category) = lower(?) ORDER BY title, id`, category)
	if err != nil {
		return nil, fmt.Errorf("querying category: %w", err)
	}
	return s.scanRecipes(ctx, rows)
}

// Stats summarises the store.
func (s *SQLiteStore) Stats(ctx context.Context) (*domain.RecipeStats, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return BuildStats(all), nil
}

const selectRecipes = `
    SELECT id, title, category, servings, tips, image, date_created, date_modified, version
    FROM recipes`

// scanRecipes reads recipe rows, closes them, then loads each recipe's lines.
func (s *SQLiteStore) scanRecipes(ctx context.Context, rows *sql.Rows) ([]*domain.Recipe, error) {
	var out []*domain.Recipe
	for rows.Next() {
		r := &domain.Recipe{}
		var createdStr, modifiedStr string
		if err := rows.Scan(&r.ID, &r.Title, &r.Category, &r.Servings, &r.Tips, &r.Image,
			&createdStr, &modifiedStr, &r.Version); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning recipe: %w", err)
		}
		var err error
		if r.DateCreated, err = time.Parse(timeLayout, createdStr); err != nil {
			rows.Close()
			return nil, fmt.Errorf("parsing date_created: %w", err)
		}
		if r.DateModified, err = time.Parse(timeLayout, modifiedStr); err != nil {
			rows.Close()
			return nil, fmt.Errorf("parsing date_modified: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating recipes: %w", err)
	}
	rows.Close()

	// The single connection is free again; load child lines.
	for _, r := range out {
		var err error
		if r.Ingredients, err = s.loadLines(ctx, "recipe_ingredients", r.ID); err != nil {
			return nil, err
		}
		if r.Instructions, err = s.loadLines(ctx, "recipe_instructions", r.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *SQLiteStore) loadLines(ctx context.Context, table, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT line FROM `+table+` WHERE recipe_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close()

	lines := []string{}
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", table, err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func recipeExists(ctx context.Context, tx *sql.Tx, id string) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM recipes WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking recipe %s: %w", id, err)
	}
	return true, nil
}

// writeRecipe upserts the recipe row and replaces its lines.
func writeRecipe(ctx context.Context, tx *sql.Tx, r *domain.Recipe) error {
	recipeQuery := `
        INSERT INTO recipes (id, title, category, servings, tips, image, date_created, date_modified, version)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            title = excluded.title,
            category = excluded.category,
            servings = excluded.servings,
            tips = excluded.tips,
            image = excluded.image,
            date_created = excluded.date_created,
            date_modified = excluded.date_modified,
            version = excluded.version
    `
	_, err := tx.ExecContext(ctx, recipeQuery,
		r.ID, r.Title, r.Category, r.Servings, r.Tips, r.Image,
		r.DateCreated.UTC().Format(timeLayout), r.DateModified.UTC().Format(timeLayout), r.Version)
	if err != nil {
		return fmt.Errorf("writing recipe: %w", err)
	}

	if err := deleteLines(ctx, tx, r.ID); err != nil {
		return err
	}
	if err := insertLines(ctx, tx, "recipe_ingredients", r.ID, r.Ingredients); err != nil {
		return err
	}
	return insertLines(ctx, tx, "recipe_instructions", r.ID, r.Instructions)
}

func insertLines(ctx context.Context, tx *sql.Tx, table, id string, lines []string) error {
	query := `INSERT INTO ` + table + ` (recipe_id, position, line) VALUES (?, ?, ?)`
	for i, line := range lines {
		if _, err := tx.ExecContext(ctx, query, id, i, line); err != nil {
			return fmt.Errorf("inserting into %s: %w", table, err)
		}
	}
	return nil
}

func deleteLines(ctx context.Context, tx *sql.Tx, id string) error {
	for _, table := range []string{"recipe_ingredients", "recipe_instructions"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE recipe_id = ?`, id); err != nil {
			return fmt.Errorf("deleting from %s: %w", table, err)
		}
	}
	return nil
}
