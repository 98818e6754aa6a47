package cache

import (
	"github.com/Konsultn-Engineering/neodb/query"
	"github.com/Konsultn-Engineering/neodb/utils"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultTemplateCacheSize is used when a non-positive size is requested.
const DefaultTemplateCacheSize = 256

// TemplateCache keeps recently parsed query templates, keyed by the FNV
// fingerprint of their text.
type TemplateCache struct {
	cache *lru.Cache[uint64, *query.Template]
}

func NewTemplateCache(size int) *TemplateCache {
	if size <= 0 {
		size = DefaultTemplateCacheSize
	}
	// lru.New only fails for a non-positive size.
	cache, _ := lru.New[uint64, *query.Template](size)
	return &TemplateCache{cache: cache}
}

// Get parses template on a miss. A fingerprint collision is treated as a miss
// and the newer template replaces the cached one.
func (c *TemplateCache) Get(template string) *query.Template {
	key := utils.FingerprintString(template)
	if t, ok := c.cache.Get(key); ok && t.Source() == template {
		return t
	}
	t := query.Parse(template)
	c.cache.Add(key, t)
	return t
}

// Len returns the number of cached templates.
func (c *TemplateCache) Len() int {
	return c.cache.Len()
}

// Purge drops every cached template.
func (c *TemplateCache) Purge() {
	c.cache.Purge()
}
