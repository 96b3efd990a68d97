package generator

import (
	"context"
	"log/slog"
	"time"

	"github.com/verygoodplugins/llm-url-solution/internal/store"
)

// Janitor deletes detection events older than the retention window. A
// retention of zero or below disables cleanup entirely.
type Janitor struct {
	store     store.Store
	retention time.Duration
	interval  time.Duration
	logger    *slog.Logger
}

func NewJanitor(st store.Store, retentionDays int, logger *slog.Logger) *Janitor {
	return &Janitor{
		store:     st,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		interval:  24 * time.Hour,
		logger:    logger,
	}
}

// Run cleans up once immediately, then on every interval tick until ctx is
// canceled.
func (j *Janitor) Run(ctx context.Context) {
	if j.retention <= 0 {
		return
	}

	j.sweep(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *Janitor) sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-j.retention)
	deleted, err := j.store.DeleteEventsBefore(ctx, cutoff)
	if err != nil {
		j.logger.Error("event cleanup failed", "error", err)
		return
	}
	if deleted > 0 {
		j.logger.Info("old detection events removed", "deleted", deleted, "cutoff", cutoff)
	}
}
