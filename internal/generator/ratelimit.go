package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/verygoodplugins/llm-url-solution/internal/store"
)

// ErrRateLimited means the hourly or daily generation budget is spent.
var ErrRateLimited = errors.New("generation rate limit reached")

// RateLimiter enforces the hourly and daily generation budgets. Counts are
// read fresh from the store on every check; nothing is cached, so a limit
// raised in configuration takes effect immediately.
type RateLimiter struct {
	store  store.Store
	hourly int
	daily  int
}

func NewRateLimiter(st store.Store, hourly, daily int) *RateLimiter {
	return &RateLimiter{store: st, hourly: hourly, daily: daily}
}

// Check returns ErrRateLimited when either budget is already spent. A limit
// of zero or below disables that budget.
func (l *RateLimiter) Check(ctx context.Context) error {
	hourly, daily, err := l.store.GenerationCounts(ctx)
	if err != nil {
		return fmt.Errorf("reading generation counts: %w", err)
	}
	if l.hourly > 0 && hourly >= l.hourly {
		return fmt.Errorf("%w: %d of %d hourly generations used", ErrRateLimited, hourly, l.hourly)
	}
	if l.daily > 0 && daily >= l.daily {
		return fmt.Errorf("%w: %d of %d daily generations used", ErrRateLimited, daily, l.daily)
	}
	return nil
}
