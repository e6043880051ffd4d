package core

import "sync"

// Kind is the tag distinguishing which engine owns a key's value.
type Kind string

const (
	KindNone   Kind = "none"
	KindString Kind = "string"
	KindTrie   Kind = "trie"
	KindHeap   Kind = "heap"
	KindFTS    Kind = "fts"
)

// container is the tagged union a key maps to. Only the field matching
// kind is ever populated; this mirrors the "tagged sum over a discriminated
// union" re-architecture called for in place of dynamic typing.
type container struct {
	kind  Kind
	str   string
	trie  *Trie
	heap  *Heap
	index *Index
}

// Keyspace is the process-wide map from key to tagged value. A single
// RWMutex guards it and every container reachable from it: each
// command holds the lock for its duration, giving per-command
// atomicity without per-key locking.
type Keyspace struct {
	mu sync.RWMutex
	m  map[string]*container
}

// NewKeyspace returns an empty keyspace.
func NewKeyspace() *Keyspace {
	return &Keyspace{m: make(map[string]*container)}
}

// Len returns the number of top-level keys currently present.
func (ks *Keyspace) Len() int {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	return len(ks.m)
}

// Del removes each of keys if present and returns the count removed.
func (ks *Keyspace) Del(keys ...string) int {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	n := 0
	for _, k := range keys {
		if _, ok := ks.m[k]; ok {
			delete(ks.m, k)
			n++
		}
	}
	return n
}

// Exists reports whether key is present.
func (ks *Keyspace) Exists(key string) bool {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	_, ok := ks.m[key]
	return ok
}

// Type returns the tag of key, or KindNone if it is absent.
func (ks *Keyspace) Type(key string) Kind {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	c, ok := ks.m[key]
	if !ok {
		return KindNone
	}
	return c.kind
}

// Set stores val as a string value, overwriting any prior string at key.
func (ks *Keyspace) Set(key, val string) error {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	if c, ok := ks.m[key]; ok && c.kind != KindString {
		return ErrWrongType
	}
	ks.m[key] = &container{kind: KindString, str: val}
	return nil
}

// Get returns the string value at key. found is false if key is absent.
func (ks *Keyspace) Get(key string) (val string, found bool, err error) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	c, ok := ks.m[key]
	if !ok {
		return "", false, nil
	}
	if c.kind != KindString {
		return "", false, ErrWrongType
	}
	return c.str, true, nil
}

// trieFor returns the trie at key. When create is true and key is
// absent, a new empty trie is lazily created and tagged. Callers must
// hold ks.mu (write lock if create is true).
func (ks *Keyspace) trieFor(key string, create bool) (*Trie, error) {
	c, ok := ks.m[key]
	if !ok {
		if !create {
			return nil, nil
		}
		t := NewTrie()
		ks.m[key] = &container{kind: KindTrie, trie: t}
		return t, nil
	}
	if c.kind != KindTrie {
		return nil, ErrWrongType
	}
	return c.trie, nil
}

func (ks *Keyspace) heapFor(key string, create bool) (*Heap, error) {
	c, ok := ks.m[key]
	if !ok {
		if !create {
			return nil, nil
		}
		h := NewHeap()
		ks.m[key] = &container{kind: KindHeap, heap: h}
		return h, nil
	}
	if c.kind != KindHeap {
		return nil, ErrWrongType
	}
	return c.heap, nil
}

func (ks *Keyspace) indexFor(key string, create bool) (*Index, error) {
	c, ok := ks.m[key]
	if !ok {
		if !create {
			return nil, nil
		}
		idx := NewIndex()
		ks.m[key] = &container{kind: KindFTS, index: idx}
		return idx, nil
	}
	if c.kind != KindFTS {
		return nil, ErrWrongType
	}
	return c.index, nil
}
