package memory

import (
	"time"

	"ncip-portal/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const activePurposesKey = "purposes:active"

// PurposeCache keeps the purpose catalog in process. Entries are read-only
// snapshots; any catalog write flushes the whole cache.
type PurposeCache struct {
	cache *cache.Cache
}

func NewPurposeCache(ttl time.Duration) *PurposeCache {
	return &PurposeCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (c *PurposeCache) Get(id uuid.UUID) (*entity.Purpose, bool) {
	if x, found := c.cache.Get(id.String()); found {
		return x.(*entity.Purpose), true
	}
	return nil, false
}

func (c *PurposeCache) Set(purpose *entity.Purpose) {
	c.cache.Set(purpose.Id.String(), purpose, cache.DefaultExpiration)
}

func (c *PurposeCache) GetActive() ([]*entity.Purpose, bool) {
	if x, found := c.cache.Get(activePurposesKey); found {
		return x.([]*entity.Purpose), true
	}
	return nil, false
}

func (c *PurposeCache) SetActive(purposes []*entity.Purpose) {
	c.cache.Set(activePurposesKey, purposes, cache.DefaultExpiration)
}

func (c *PurposeCache) Flush() {
	c.cache.Flush()
}
