// Package auth decides who is operating the tool and whether they may run
// admin operations. There are no credentials: admin status comes from an
// explicit flag or from the display name.
package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/hammamikhairi/recipro/internal/domain"
)

// AdminKeywords grant admin status when found in a display name.
var AdminKeywords = []string{"admin", "administrator", "chef", "instructor", "teacher"}

// IsAdminName reports whether name is, or contains, an admin keyword.
// Case-insensitive.
func IsAdminName(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return false
	}
	for _, kw := range AdminKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// NewUser builds a user whose admin flag is derived from the name.
func NewUser(name string) domain.User {
	return domain.User{Name: name, Admin: IsAdminName(name)}
}

// Compile-time interface checks.
var (
	_ domain.UserProvider = (*StaticProvider)(nil)
	_ domain.UserProvider = (*ContextProvider)(nil)
)

// StaticProvider always reports the same user. Used by the terminal app.
type StaticProvider struct {
	user domain.User
}

// NewStaticProvider creates a provider for the named user.
func NewStaticProvider(name string) *StaticProvider {
	return &StaticProvider{user: NewUser(name)}
}

// CurrentUser returns the configured user.
func (p *StaticProvider) CurrentUser(ctx context.Context) (domain.User, error) {
	return p.user, nil
}

type ctxKey struct{}

// WithUser attaches a user to ctx.
func WithUser(ctx context.Context, u domain.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// FromContext returns the user attached by WithUser.
func FromContext(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(domain.User)
	return u, ok
}

// ContextProvider reports the user attached to the request context,
// falling back to another provider when there is none.
type ContextProvider struct {
	fallback domain.UserProvider
}

// NewContextProvider wraps fallback.
func NewContextProvider(fallback domain.UserProvider) *ContextProvider {
	return &ContextProvider{fallback: fallback}
}

// CurrentUser returns the request user or the fallback's user.
func (p *ContextProvider) CurrentUser(ctx context.Context) (domain.User, error) {
	if u, ok := FromContext(ctx); ok {
		return u, nil
	}
	return p.fallback.CurrentUser(ctx)
}

// RequireAdmin fails with ErrForbidden unless the current user is an admin.
func RequireAdmin(ctx context.Context, users domain.UserProvider) error {
	u, err := users.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("resolving user: %w", err)
	}
	if !u.Admin {
		return fmt.Errorf("%w: %q is not an administrator", domain.ErrForbidden, u.Name)
	}
	return nil
}
