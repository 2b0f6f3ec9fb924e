package filter

import (
	"container/list"
	"sync"
)

// lruCache keeps the most recently used values up to capacity. Safe for
// concurrent use; matchers share one compiler across goroutines.
type lruCache[V any] struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front is most recent
	index    map[string]*list.Element
}

type cached[V any] struct {
	key   string
	value V
}

func newLRUCache[V any](capacity int) *lruCache[V] {
	return &lruCache[V]{
		capacity: capacity,
		order:    list.New(),
		index:    make(map[string]*list.Element, capacity),
	}
}

// Get returns the value for key and marks it as recently used
func (c *lruCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cached[V]).value, true
}

// Put stores value under key, evicting the least recently used entry when full
func (c *lruCache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.index[key]; ok {
		el.Value.(*cached[V]).value = value
		c.order.MoveToFront(el)
		return
	}

	c.index[key] = c.order.PushFront(&cached[V]{key: key, value: value})
	for c.order.Len() > c.capacity {
		c.evict(c.order.Back())
	}
}

func (c *lruCache[V]) evict(el *list.Element) {
	c.order.Remove(el)
	delete(c.index, el.Value.(*cached[V]).key)
}

// Clear drops every entry
func (c *lruCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order.Init()
	clear(c.index)
}

// Size returns the number of entries
func (c *lruCache[V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.index)
}
