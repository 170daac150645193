package github

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "github:repo:"

type Describer interface {
	Describe(ctx context.Context, repoURL string) (string, bool)
}

// CachedDescriber keeps repository summaries in Redis. Only successful
// lookups are cached; Redis errors fall through to the wrapped describer.
type CachedDescriber struct {
	next   Describer
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedDescriber(next Describer, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedDescriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedDescriber{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func (d *CachedDescriber) Describe(ctx context.Context, repoURL string) (string, bool) {
	owner, repo, ok := ParseRepoURL(repoURL)
	if !ok {
		return d.next.Describe(ctx, repoURL)
	}
	key := cacheKey(owner, repo)

	text, err := d.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		d.logger.DebugContext(ctx, "repository summary cache hit", "key", key)
		return text, true
	case !errors.Is(err, redis.Nil):
		d.logger.WarnContext(ctx, "repository summary cache read failed", "key", key, "error", err)
	}

	text, ok = d.next.Describe(ctx, repoURL)
	if !ok {
		return "", false
	}
	if err := d.rdb.Set(ctx, key, text, d.ttl).Err(); err != nil {
		d.logger.WarnContext(ctx, "repository summary cache write failed", "key", key, "error", err)
	}
	return text, true
}

// GitHub owner and repository names are case-insensitive.
func cacheKey(owner, repo string) string {
	return cacheKeyPrefix + strings.ToLower(owner+"/"+repo)
}
