/*
Copyright © 2018 the geomkernel authors.
This file is part of geomkernel.

geomkernel is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

geomkernel is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with geomkernel.  If not, see <http://www.gnu.org/licenses/>.
*/

package geomutil

import (
	"sync"

	"github.com/Esri/geometry-api-java-sub003/internal/hash"
	"github.com/golang/groupcache/lru"
)

// resultCache holds the results of recent geometry operations so that
// repeated features are only processed once.
type resultCache struct {
	mu    sync.Mutex
	cache *lru.Cache
	hits  int
}

// newResultCache returns a cache holding up to maxEntries results.
// A cache with maxEntries <= 0 stores nothing.
func newResultCache(maxEntries int) *resultCache {
	if maxEntries <= 0 {
		return &resultCache{}
	}
	return &resultCache{cache: lru.New(maxEntries)}
}

type cachedResult struct {
	value interface{}
	err   error
}

// do returns the cached result of the operation identified by keyParts,
// calling f and storing its result if there is none.
func (c *resultCache) do(f func() (interface{}, error), keyParts ...interface{}) (interface{}, error) {
	if c.cache == nil {
		return f()
	}
	key := hash.Key(keyParts...)
	c.mu.Lock()
	if r, ok := c.cache.Get(key); ok {
		c.hits++
		c.mu.Unlock()
		res := r.(cachedResult)
		return res.value, res.err
	}
	c.mu.Unlock()

	v, err := f()
	c.mu.Lock()
	c.cache.Add(key, cachedResult{value: v, err: err})
	c.mu.Unlock()
	return v, err
}

// Hits returns the number of lookups answered from the cache.
func (c *resultCache) Hits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}
