// Package cache holds compiled patterns so repeated patterns are built once.
package cache

import (
	"container/list"
	"sync"

	"github.com/cespare/xxhash/v2"

	"kmputil-core/kmp"
	"kmputil-core/seq"
)

// LRU is a size-bounded map with O(1) get/put and least-recently-used
// eviction. It is safe for concurrent use.
type LRU[K comparable, V any] struct {
	mu  sync.Mutex
	cap int
	ll  *list.List
	m   map[K]*list.Element
}

type lruNode[K comparable, V any] struct {
	k K
	v V
}

func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity <= 0 {
		capacity = 1024
	}
	return &LRU[K, V]{cap: capacity, ll: list.New(), m: make(map[K]*list.Element, capacity)}
}

// Get returns the value for k and marks it recently used.
func (c *LRU[K, V]) Get(k K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.m[k]; ok {
		c.ll.MoveToFront(e)
		return e.Value.(*lruNode[K, V]).v, true
	}
	var zero V
	return zero, false
}

// Put inserts or replaces k, evicting the oldest entry when full.
func (c *LRU[K, V]) Put(k K, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.m[k]; ok {
		e.Value.(*lruNode[K, V]).v = v
		c.ll.MoveToFront(e)
		return
	}
	c.m[k] = c.ll.PushFront(&lruNode[K, V]{k: k, v: v})
	if c.ll.Len() > c.cap {
		tail := c.ll.Back()
		c.ll.Remove(tail)
		delete(c.m, tail.Value.(*lruNode[K, V]).k)
	}
}

func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// Patterns caches compiled patterns keyed by a hash of (kind, pattern).
type Patterns struct {
	lru *LRU[uint64, patternEntry]
}

type patternEntry struct {
	raw string
	p   *kmp.Pattern
}

func NewPatterns(capacity int) *Patterns {
	return &Patterns{lru: NewLRU[uint64, patternEntry](capacity)}
}

// Get returns the compiled form of raw at the given element kind, compiling
// on a miss. Textual kinds require raw to be valid UTF-8.
func (c *Patterns) Get(kind seq.Kind, raw string) (*kmp.Pattern, error) {
	key := patternKey(kind, raw)
	// the raw text is compared too, a hash hit alone is not trusted
	if e, ok := c.lru.Get(key); ok && e.raw == raw {
		return e.p, nil
	}

	var p *kmp.Pattern
	if kind == seq.Bytes {
		p = kmp.CompileBytes([]byte(raw))
	} else {
		var err error
		if p, err = kmp.CompileString(raw); err != nil {
			return nil, err
		}
	}
	c.lru.Put(key, patternEntry{raw: raw, p: p})
	return p, nil
}

func (c *Patterns) Len() int { return c.lru.Len() }

func patternKey(kind seq.Kind, raw string) uint64 {
	d := xxhash.New()
	_, _ = d.Write([]byte{byte(kind)})
	_, _ = d.WriteString(raw)
	return d.Sum64()
}
