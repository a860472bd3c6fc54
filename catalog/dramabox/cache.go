// Package dramabox implements the source.Catalog interface against the
// Dramabox HTTP API.
package dramabox

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/dramasan-cli/dramasan/filesystem"
	"github.com/dramasan-cli/dramasan/source"
	"github.com/dramasan-cli/dramasan/where"
	"github.com/metafates/gache"
	"github.com/samber/mo"
)

// cacheData is the on-disk shape of a keyed catalog cache.
type cacheData[T any] struct {
	Records map[string]T `json:"records"`
}

// cacher wraps a gache file with keyed get/set on top of it.
type cacher[T any] struct {
	internal *gache.Cache[*cacheData[T]]
	mu       sync.RWMutex
}

func newCacher[T any](filename string, lifetime time.Duration) *cacher[T] {
	return &cacher[T]{
		internal: gache.New[*cacheData[T]](
			&gache.Options{
				Path:       filepath.Join(where.Cache(), filename),
				Lifetime:   lifetime,
				FileSystem: &filesystem.GacheFs{},
			},
		),
	}
}

func (c *cacher[T]) Get(key string) mo.Option[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, expired, err := c.internal.Get()
	if err != nil || expired || data == nil {
		return mo.None[T]()
	}

	if value, ok := data.Records[key]; ok {
		return mo.Some(value)
	}
	return mo.None[T]()
}

func (c *cacher[T]) Set(key string, value T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, expired, err := c.internal.Get()
	if err != nil || expired || data == nil {
		data = &cacheData[T]{Records: make(map[string]T)}
	}

	data.Records[key] = value
	return c.internal.Set(data)
}

// detailCacher persists resolved drama metadata. Detail resolution walks
// several listing endpoints, so hits here save real round trips.
var detailCacher = newCacher[*source.Drama]("dramabox_detail_cache.json", time.Hour*24)

// episodeCacher persists episode lists per drama. Stream URLs expire, keep
// the lifetime short.
var episodeCacher = newCacher[[]*source.Episode]("dramabox_episode_cache.json", time.Minute*30)
