package crossref

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// cachedResult is what the cache stores per query; a nil work records a
// search that matched nothing.
type cachedResult struct {
	work *Work
}

// Cache memoizes lookups in memory for the lifetime of the process.
// Matches and empty results are cached; errors are not. Concurrent misses
// for the same query share a single inner lookup.
type Cache struct {
	next   Lookuper
	cache  *gocache.Cache
	flight singleflight.Group
}

// NewCache wraps next with an in-memory cache whose entries expire after ttl.
func NewCache(next Lookuper, ttl time.Duration) *Cache {
	return &Cache{
		next:  next,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// cacheKey normalizes the query so reflowed copies of the same reference
// share an entry.
func cacheKey(query, contact string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " ")) + "\x00" + strings.TrimSpace(contact)
}

// Lookup returns a cached result when present, otherwise delegates.
func (c *Cache) Lookup(ctx context.Context, query, contact string) (*Work, error) {
	key := cacheKey(query, contact)
	if v, found := c.cache.Get(key); found {
		return copyWork(v.(cachedResult).work), nil
	}

	v, err, _ := c.flight.Do(key, func() (interface{}, error) {
		// A lookup for key may have finished since the miss above
		if v, found := c.cache.Get(key); found {
			return v.(cachedResult), nil
		}
		work, err := c.next.Lookup(ctx, query, contact)
		if err != nil {
			return nil, err
		}
		result := cachedResult{work: copyWork(work)}
		c.cache.SetDefault(key, result)
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return copyWork(v.(cachedResult).work), nil
}

// Len returns the number of cached queries.
func (c *Cache) Len() int {
	return c.cache.ItemCount()
}

// copyWork keeps callers from mutating cached slices.
func copyWork(w *Work) *Work {
	if w == nil {
		return nil
	}
	cp := *w
	cp.Title = append([]string(nil), w.Title...)
	cp.ContainerTitle = append([]string(nil), w.ContainerTitle...)
	cp.Authors = append([]Author(nil), w.Authors...)
	if w.Published != nil {
		parts := make([][]int, len(w.Published.DateParts))
		for i, p := range w.Published.DateParts {
			parts[i] = append([]int(nil), p...)
		}
		cp.Published = &DateParts{DateParts: parts}
	}
	return &cp
}
