// Package cache holds the redis-backed downline size cache.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "khpl:downline:"
	genPrefix = "khpl:downline-gen:"
)

// DownlineCache stores per-user downline counts in redis.
type DownlineCache struct {
	rdb *redis.Client
}

// NewDownlineCache connects to the redis at url and verifies it answers.
func NewDownlineCache(url string) (*DownlineCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &DownlineCache{rdb: rdb}, nil
}

func key(userID string) string    { return keyPrefix + userID }
func genKey(userID string) string { return genPrefix + userID }

// Downline returns the cached count for userID and its current generation.
// Entries are stored as "<gen>:<count>"; one written under an older
// generation, or a missing key, is a miss and not an error.
func (c *DownlineCache) Downline(ctx context.Context, userID string) (int, int64, bool, error) {
	vals, err := c.rdb.MGet(ctx, key(userID), genKey(userID)).Result()
	if err != nil {
		return 0, 0, false, err
	}

	var gen int64
	if raw, ok := vals[1].(string); ok {
		if gen, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return 0, 0, false, fmt.Errorf("bad downline generation %q: %w", raw, err)
		}
	}

	raw, ok := vals[0].(string)
	if !ok {
		return 0, gen, false, nil
	}
	entryGen, n, err := parseEntry(raw)
	if err != nil {
		return 0, gen, false, err
	}
	if entryGen != gen {
		return 0, gen, false, nil
	}
	return n, gen, true, nil
}

func parseEntry(raw string) (int64, int, error) {
	g, c, found := strings.Cut(raw, ":")
	if !found {
		return 0, 0, fmt.Errorf("bad downline entry %q", raw)
	}
	gen, err := strconv.ParseInt(g, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad downline entry %q: %w", raw, err)
	}
	n, err := strconv.Atoi(c)
	if err != nil {
		return 0, 0, fmt.Errorf("bad downline entry %q: %w", raw, err)
	}
	return gen, n, nil
}

// SetDownline stores n for userID under gen, as read by Downline.
func (c *DownlineCache) SetDownline(ctx context.Context, userID string, gen int64, n int, ttl time.Duration) error {
	return c.rdb.Set(ctx, key(userID), strconv.FormatInt(gen, 10)+":"+strconv.Itoa(n), ttl).Err()
}

// Forget advances the generation of every userID and drops their entries in
// one transaction.
func (c *DownlineCache) Forget(ctx context.Context, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range userIDs {
			pipe.Incr(ctx, genKey(id))
			pipe.Del(ctx, key(id))
		}
		return nil
	})
	return err
}

// Ping checks connectivity
func (c *DownlineCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *DownlineCache) Close() error {
	return c.rdb.Close()
}
