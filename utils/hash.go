// Package utils holds the small pieces of generic glue code shared by
// more than one domain package, rather than a grab-bag of unrelated
// helpers: today that is only the hashable-key support needed to back a
// persistent map with benbjohnson/immutable (see numdom.Session.scalar).
package utils

import "github.com/benbjohnson/immutable"

// Hashable is implemented by types that can key a persistent map.
type Hashable interface {
	Hash() uint32
}

// HashableEq is a Hashable that can also be compared for equality, the
// pair of methods immutable.Hasher needs.
type HashableEq[T any] interface {
	Hashable
	Equal(T) bool
}

// eqHasher adapts any HashableEq key into an immutable.Hasher by
// forwarding straight to the key's own methods.
type eqHasher[T HashableEq[T]] struct{}

func (eqHasher[T]) Hash(a T) uint32   { return a.Hash() }
func (eqHasher[T]) Equal(a, b T) bool { return a.Equal(b) }

// NewImmMap creates an empty persistent map keyed by a HashableEq type.
func NewImmMap[K HashableEq[K], V any]() *immutable.Map[K, V] {
	return immutable.NewMap[K, V](eqHasher[K]{})
}

// HashCombine folds several hashes into one (the boost::hash_combine
// mixing step), used by a key's own Hash method when it has more than
// one field.
func HashCombine(hs ...uint32) (seed uint32) {
	for _, v := range hs {
		seed = v + 0x9e3779b9 + (seed << 6) + (seed >> 2)
	}

	return
}
