package cache

import (
	"context"
	"log/slog"
	"strings"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// ViewKey is the per-user cache key of a rendered view path
func ViewKey(userID, path string) string {
	return userID + ":" + path
}

// InvalidatePaths drops every user's cached rendering of the given view paths.
// Community and catalog paths also flush their aggregate caches.
func (cm *CacheManager) InvalidatePaths(ctx context.Context, paths ...string) {
	if !cm.Enabled() {
		return
	}

	seen := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}

		SafeInvalidatePattern(ctx, cm.View, "*:"+escapeGlob(path))

		switch {
		case path == communityPath:
			SafeInvalidatePattern(ctx, cm.Feed, "*")
		case path == catalogPath, strings.HasPrefix(path, coursesPrefix) && !strings.Contains(strings.TrimPrefix(path, coursesPrefix), "/"):
			SafeInvalidatePattern(ctx, cm.Catalog, "*")
		}
	}
}

// InvalidateUser drops the per-user aggregates (profile and catalog)
func (cm *CacheManager) InvalidateUser(ctx context.Context, userID string) {
	if !cm.Enabled() || userID == "" {
		return
	}
	SafeDelete(ctx, cm.Profile, userID)
	SafeDelete(ctx, cm.Catalog, userID)
}

const (
	communityPath = "/app/comunidade"
	catalogPath   = "/app/meus-cursos"
	coursesPrefix = "/app/cursos/"
)

// escapeGlob quotes redis MATCH metacharacters
func escapeGlob(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
