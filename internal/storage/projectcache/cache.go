// Package projectcache holds the in-memory ordered collection of project
// records. It is the single source of truth for rendering: views read
// snapshots, the action layer reconciles results in.
package projectcache

import (
	"sort"
	"sync"

	"folio/internal/domain/models"
)

// Cache is only ever replaced wholesale or via an id-keyed replace, never
// mutated field by field, so readers always observe a consistent snapshot.
//
// Every mutator takes the epoch the caller captured before its network
// call and refuses to apply a result whose epoch has passed. Reset bumps
// the epoch, which is how a view change or logout invalidates responses
// still in flight.
type Cache struct {
	mu       sync.RWMutex
	epoch    uint64
	projects []models.Project
}

func New() *Cache {
	return &Cache{}
}

// Epoch returns the current generation. Capture it before issuing a
// request and hand it back to the mutator with the result.
func (c *Cache) Epoch() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.epoch
}

// Reset clears the cache and invalidates every in-flight request.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.projects = nil
}

// Replace swaps the whole collection. Reports false when the epoch is
// stale and nothing was applied.
func (c *Cache) Replace(epoch uint64, projects []models.Project) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		return false
	}
	c.projects = append([]models.Project(nil), projects...)
	return true
}

// Append adds a freshly created record at the end.
func (c *Cache) Append(epoch uint64, p models.Project) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		return false
	}
	c.projects = append(c.projects, p)
	return true
}

// ReplaceByID swaps the entry matching p's id, appending when the entry
// vanished in between (the server record still wins).
func (c *Cache) ReplaceByID(epoch uint64, p models.Project) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		return false
	}
	for i := range c.projects {
		if c.projects[i].ID == p.ID {
			c.projects[i] = p
			return true
		}
	}
	c.projects = append(c.projects, p)
	return true
}

// RemoveByID drops the entry with the given id. Other entries are never
// touched.
func (c *Cache) RemoveByID(epoch uint64, id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		return false
	}
	for i := range c.projects {
		if c.projects[i].ID == id {
			c.projects = append(c.projects[:i:i], c.projects[i+1:]...)
			return true
		}
	}
	return true
}

// Snapshot returns a copy in cache order.
func (c *Cache) Snapshot() []models.Project {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Project(nil), c.projects...)
}

// SortedByNewest returns a copy ordered by created_at descending. The
// backend's ordering is not assumed; callers that need recency order use
// this instead of Snapshot.
func (c *Cache) SortedByNewest() []models.Project {
	out := c.Snapshot()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (c *Cache) Get(id int64) (models.Project, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.projects {
		if c.projects[i].ID == id {
			return c.projects[i], true
		}
	}
	return models.Project{}, false
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.projects)
}
