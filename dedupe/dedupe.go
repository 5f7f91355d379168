// Package dedupe drops values already seen, by structural hash.
package dedupe

import (
	"github.com/golang/groupcache/lru"
	"github.com/mitchellh/hashstructure/v2"
)

// NewPassLRUFunc returns a function reporting true the first time it sees
// a value, and false for a structurally equal value while it remains among
// the size most recently seen. Fields tagged `hash:"ignore"` do not count.
// Values that cannot be hashed always pass.
// The returned function is not safe for concurrent use.
func NewPassLRUFunc(size int) func(v any) bool {
	cache := lru.New(size)
	return func(v any) bool {
		hash, err := hashstructure.Hash(v, hashstructure.FormatV2, nil)
		if err != nil {
			return true
		}
		if _, ok := cache.Get(hash); ok {
			return false
		}
		cache.Add(hash, struct{}{})
		return true
	}
}

// Filter keeps the elements of items for which pass is true, in order.
func Filter[T any](items []T, pass func(v any) bool) []T {
	out := items[:0:0]
	for _, it := range items {
		if pass(it) {
			out = append(out, it)
		}
	}
	return out
}
