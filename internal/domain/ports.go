package domain

import "context"

// RecipeStore persists recipes. Implementations can be in-memory or
// SQLite-backed.
//
// Add fails with ErrAlreadyExists when the ID is taken. Update upserts,
// bumps Version and refreshes DateModified. Delete reports whether a
// record was removed.
type RecipeStore interface {
	Get(ctx context.Context, id string) (*Recipe, error)
	GetAll(ctx context.Context) ([]*Recipe, error)
	Add(ctx context.Context, recipe *Recipe) (*Recipe, error)
	Update(ctx context.Context, recipe *Recipe) (*Recipe, error)
	Delete(ctx context.Context, id string) (bool, error)
	Clear(ctx context.Context) error
}

// RecipeSearcher is an optional interface stores can satisfy to answer
// lookups without a full scan by the caller.
type RecipeSearcher interface {
	SearchByTitle(ctx context.Context, query string) ([]*Recipe, error)
	ByCategory(ctx context.Context, category string) ([]*Recipe, error)
}

// StatsProvider is an optional interface for stores that can summarise
// their contents.
type StatsProvider interface {
	Stats(ctx context.Context) (*RecipeStats, error)
}

// UserProvider reports who is operating the tool.
type UserProvider interface {
	CurrentUser(ctx context.Context) (User, error)
}

// IntentParser converts raw user input into structured intents.
type IntentParser interface {
	Parse(ctx context.Context, input string) (*Intent, error)
}

// Notifier delivers messages to the user.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}
