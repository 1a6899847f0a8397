// Package patricia implements the persistent Patricia tree of spec.md C3: a
// binary trie keyed directly by unsigned integer bit patterns in big-endian
// order, so in-order traversal of the tree yields keys in ascending numeric
// order. It is structurally adapted from the teacher's utils/tree package
// (an Okasaki-style hash trie keyed by immutable.Hasher-produced hashes),
// generalized here to use the key itself as the trie index — there is no
// hashing step and therefore no leaf collision list — since spec.md's
// offset map needs sorted range queries, which a hash-ordered trie cannot
// give.
package patricia

import (
	i "github.com/k-vikingsson/soct/utils/indenter"
)

type key = uint

// Tree is a persistent map from unsigned integer keys to values of type V.
type Tree[V any] struct {
	root node[V]
}

// Empty returns the empty tree.
func Empty[V any]() Tree[V] { return Tree[V]{} }

func (t Tree[V]) Lookup(k uint) (V, bool) { return lookup[V](t.root, key(k)) }

// Insert returns a new tree with k mapped to v, replacing any previous value.
func (t Tree[V]) Insert(k uint, v V) Tree[V] {
	return t.InsertOrMerge(k, v, nil)
}

// MergeFunc combines a newly inserted value with the one already present.
type MergeFunc[V any] func(newVal, oldVal V) V

// InsertOrMerge inserts v at k, or f(v, prev) if a value was already present.
func (t Tree[V]) InsertOrMerge(k uint, v V, f MergeFunc[V]) Tree[V] {
	t.root = insert(t.root, key(k), v, f)
	return t
}

// Remove deletes the mapping for k, if any.
func (t Tree[V]) Remove(k uint) Tree[V] {
	t.root = remove(t.root, key(k))
	return t
}

// ForEach calls f once per key-value pair, in ascending key order.
func (t Tree[V]) ForEach(f func(k uint, v V)) {
	if t.root != nil {
		t.root.each(func(k key, v V) { f(uint(k), v) })
	}
}

// Size returns the number of entries.
func (t Tree[V]) Size() int {
	n := 0
	t.ForEach(func(uint, V) { n++ })
	return n
}

// Combiner merges values present in both trees at a shared key.
// DefaultIsAbsorbing controls how a key present in only one tree is
// handled: true drops it (the missing side behaves as an absorbing
// bottom element, so Merge computes an intersection-like combination);
// false keeps the one-sided value unchanged (the missing side behaves as
// an identity/top element, so Merge computes a union-like combination).
// This is spec.md C3's merge_with operation.
type Combiner[V any] struct {
	Combine            func(a, b V) V
	DefaultIsAbsorbing bool
}

// Merge combines t and other with c.
func (t Tree[V]) Merge(other Tree[V], c Combiner[V]) Tree[V] {
	return Tree[V]{merge(t.root, other.root, c)}
}

// Leq reports whether t is pointwise less-or-equal to other under po: every
// key present in t must be present in other with a po-related value, and
// (when DefaultIsAbsorbing behavior at the type's bottom applies) a key
// missing from t is trivially fine. This mirrors spec.md C3's leq(other, po).
func (t Tree[V]) Leq(other Tree[V], po func(a, b V) bool) bool {
	ok := true
	t.ForEach(func(k uint, v V) {
		if !ok {
			return
		}
		ov, found := other.Lookup(k)
		if !found || !po(v, ov) {
			ok = false
		}
	})
	return ok
}

func (t Tree[V]) String() string {
	buf := []func() string{}
	t.ForEach(func(k uint, v V) {
		buf = append(buf, func() string { return keyValString(k, v) })
	})
	return i.New("{").NestThunked(buf...).End("}")
}
