package services

import (
	"context"
	"log/slog"

	"github.com/SAP-F-2025/academy-service/internal/cache"
	"github.com/SAP-F-2025/academy-service/internal/events"
)

// afterCommit runs the side effects of a committed mutation: cached views
// are dropped and domain events published. Failures are logged only.
type afterCommit struct {
	cache     *cache.CacheManager
	publisher events.EventPublisher
	logger    *slog.Logger
}

func newAfterCommit(cm *cache.CacheManager, publisher events.EventPublisher, logger *slog.Logger) afterCommit {
	if cm == nil {
		cm = cache.NewCacheManager(nil)
	}
	return afterCommit{cache: cm, publisher: publisher, logger: logger}
}

func (a afterCommit) revalidate(ctx context.Context, userID string, paths ...string) {
	a.cache.InvalidatePaths(ctx, paths...)
	if userID != "" {
		a.cache.InvalidateUser(ctx, userID)
	}
}

func (a afterCommit) publish(ctx context.Context, evs ...events.Event) {
	if a.publisher == nil {
		return
	}
	for _, ev := range evs {
		if err := a.publisher.Publish(ctx, ev); err != nil {
			a.logger.Error("Failed to publish event",
				"event_type", ev.Type,
				"event_id", ev.ID,
				"error", err)
		}
	}
}

// compactPaths drops empty and repeated paths, keeping first occurrence order
func compactPaths(paths ...string) []string {
	out := make([]string, 0, len(paths))
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
