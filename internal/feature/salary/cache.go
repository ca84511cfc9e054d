package salary

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"salary-portal/internal/core/cache"
)

const (
	listCacheKey = "salary:list"
	listGenKey   = "salary:list:gen"
)

// ListCache fronts the admin list. Writes call Invalidate.
type ListCache interface {
	GetOrLoad(ctx context.Context, load func(context.Context) ([]SalaryResponse, error)) ([]SalaryResponse, error)
	Invalidate(ctx context.Context) error
}

// redisListCache stores the list under salary:list:<gen>. Invalidate bumps
// the generation, so a load that started before a write can only fill a key
// nobody reads any more.
type redisListCache struct {
	c   *cache.Cache
	ttl time.Duration
}

func NewRedisListCache(c *cache.Cache, ttl time.Duration) ListCache {
	return &redisListCache{c: c, ttl: ttl}
}

func (r *redisListCache) GetOrLoad(ctx context.Context, load func(context.Context) ([]SalaryResponse, error)) ([]SalaryResponse, error) {
	gen, err := r.c.Generation(ctx, listGenKey)
	if err != nil {
		return load(ctx)
	}
	out, err := cache.GetOrLoadJSON(r.c, ctx, listKey(gen), r.ttl, func(ctx context.Context) (*[]SalaryResponse, error) {
		rows, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return &rows, nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return []SalaryResponse{}, nil
	}
	return *out, nil
}

// Invalidate bumps the generation. When that fails the current generation's
// entry is dropped instead, so readers reload on their next request.
func (r *redisListCache) Invalidate(ctx context.Context) error {
	err := r.c.Bump(ctx, listGenKey)
	if err == nil {
		return nil
	}
	gen, gerr := r.c.Generation(ctx, listGenKey)
	if gerr != nil {
		return fmt.Errorf("bump list generation: %w", err)
	}
	if derr := r.c.Delete(ctx, listKey(gen)); derr != nil {
		return fmt.Errorf("bump list generation: %w", errors.Join(err, derr))
	}
	return nil
}

func listKey(gen int64) string { return listCacheKey + ":" + strconv.FormatInt(gen, 10) }
