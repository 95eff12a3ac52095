package api

import (
	"context"
	"sync"
	"time"

	"timesheet/internal/domain"
	"timesheet/internal/services"
)

// Option configures a BusinessAPI
type Option func(*businessAPIImpl)

// WithClock replaces time.Now, which decides what "today" is for the
// current-week and last-N-days shortcuts.
func WithClock(now func() time.Time) Option {
	return func(b *businessAPIImpl) {
		b.now = now
	}
}

// userResolver caches the acting user once it has been resolved, making
// sure the user has a default category to fall back on.
// Failures are not cached so a later call can retry.
type userResolver struct {
	users      services.UserService
	categories services.CategoryService

	mu   sync.Mutex
	user *domain.User
}

func (r *userResolver) resolve(ctx context.Context) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.user != nil {
		return r.user, nil
	}
	user, err := r.users.EnsureLocalAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := r.categories.EnsureDefaultCategory(ctx, user.ID); err != nil {
		return nil, err
	}
	r.user = user
	return user, nil
}
