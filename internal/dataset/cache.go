package dataset

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"monitor-insights-go/internal/logger"
	"monitor-insights-go/internal/types"
)

// ParseFunc turns the bytes of an upload into a processed dataset.
type ParseFunc func(data []byte) (*types.Dataset, error)

// Cache memoizes the processed dataset of the current upload, keyed by the
// sha256 of its bytes. Uploading the same bytes again returns the same
// *types.Dataset; a successful upload of different bytes replaces it. A failed
// upload leaves the previous dataset in place.
type Cache struct {
	parse ParseFunc
	log   *logger.Logger

	mu      sync.RWMutex
	key     string
	current *types.Dataset

	group singleflight.Group
}

func NewCache(parse ParseFunc, log *logger.Logger) *Cache {
	if parse == nil {
		panic("parse must not be nil")
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Cache{parse: parse, log: log.Component("dataset.cache")}
}

// Load returns the dataset for data, parsing only on a cache miss.
func (c *Cache) Load(data []byte) (*types.Dataset, error) {
	key := Fingerprint(data)

	c.mu.RLock()
	if c.current != nil && c.key == key {
		ds := c.current
		c.mu.RUnlock()
		c.log.WithField("fingerprint", key[:12]).Debug("cache hit")
		return ds, nil
	}
	c.mu.RUnlock()

	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		ds, err := c.parse(data)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.key = key
		c.current = ds
		c.mu.Unlock()
		return ds, nil
	})
	if err != nil {
		c.log.WithError(err).WithField("fingerprint", key[:12]).Warn("upload rejected, keeping previous dataset")
		return nil, err
	}
	c.log.WithField("fingerprint", key[:12]).WithField("shared", shared).Info("dataset cached")
	return v.(*types.Dataset), nil
}

// Current returns the dataset of the last successful upload.
func (c *Cache) Current() (*types.Dataset, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return nil, ErrNoDataset
	}
	return c.current, nil
}

// Invalidate drops the cached dataset.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.key = ""
	c.current = nil
	c.mu.Unlock()
}
