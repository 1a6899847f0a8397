package arrayexpand

import (
	"sort"
	"strings"

	"github.com/k-vikingsson/soct/patricia"
)

// OffsetMap is spec.md §3's per-array Patricia tree: offset -> set of cells
// sharing that offset (same start, different sizes). Keys are the cell
// offset itself; big-endian bit-pattern traversal of the tree keeps
// ForEach/overlap queries in ascending offset order (package patricia's
// whole reason for existing over a hash map, per spec.md §4.4).
type OffsetMap struct {
	tree patricia.Tree[[]Cell]
}

// EmptyOffsetMap returns the offset map with no cells.
func EmptyOffsetMap() OffsetMap { return OffsetMap{patricia.Empty[[]Cell]()} }

// Insert adds c to the bucket at c.Offset, alongside any other cell already
// sharing that offset with a different size.
func (m OffsetMap) Insert(c Cell) OffsetMap {
	bucket, _ := m.tree.Lookup(uint(c.Offset))
	for _, other := range bucket {
		if other.Size == c.Size {
			return m // already present with this exact size
		}
	}
	m.tree = m.tree.Insert(uint(c.Offset), append(append([]Cell(nil), bucket...), c))
	return m
}

// Remove deletes c from its bucket.
func (m OffsetMap) Remove(c Cell) OffsetMap {
	bucket, ok := m.tree.Lookup(uint(c.Offset))
	if !ok {
		return m
	}
	kept := make([]Cell, 0, len(bucket))
	for _, other := range bucket {
		if other.Size != c.Size {
			kept = append(kept, other)
		}
	}
	if len(kept) == 0 {
		m.tree = m.tree.Remove(uint(c.Offset))
	} else {
		m.tree = m.tree.Insert(uint(c.Offset), kept)
	}
	return m
}

// At returns every cell at exactly offset (any size).
func (m OffsetMap) At(offset int) []Cell {
	bucket, _ := m.tree.Lookup(uint(offset))
	return bucket
}

// sortedBuckets returns every (offset, cells) pair in ascending offset
// order, relying on patricia.Tree.ForEach's documented traversal order.
func (m OffsetMap) sortedBuckets() []struct {
	offset int
	cells  []Cell
} {
	var out []struct {
		offset int
		cells  []Cell
	}
	m.tree.ForEach(func(k uint, cells []Cell) {
		out = append(out, struct {
			offset int
			cells  []Cell
		}{int(k), cells})
	})
	return out
}

// Overlapping implements spec.md §4.7's overlap query: every cell whose
// byte range intersects [offset, offset+size), deduplicated. The walk
// starts at the sorted position closest to offset and proceeds outward in
// both directions, stopping once a bucket contributes no overlapping cell
// — offsets strictly past [offset, offset+size) in either direction can
// only move further away, so once one bucket misses, every subsequent one
// in that direction does too.
func (m OffsetMap) Overlapping(offset, size int) []Cell {
	buckets := m.sortedBuckets()
	pos := sort.Search(len(buckets), func(i int) bool { return buckets[i].offset >= offset })

	var out []Cell
	seen := map[Cell]bool{}
	add := func(cells []Cell) bool {
		hit := false
		for _, c := range cells {
			if c.overlaps(offset, size) {
				if !seen[c] {
					seen[c] = true
					out = append(out, c)
				}
				hit = true
			}
		}
		return hit
	}

	// Exact-offset bucket, any size.
	if pos < len(buckets) && buckets[pos].offset == offset {
		add(buckets[pos].cells)
	}

	for i := pos - 1; i >= 0; i-- {
		if !add(buckets[i].cells) {
			break
		}
	}
	for i := pos; i < len(buckets); i++ {
		if buckets[i].offset == offset {
			continue // already handled above
		}
		if !add(buckets[i].cells) {
			break
		}
	}
	return out
}

func (m OffsetMap) String() string {
	var parts []string
	for _, b := range m.sortedBuckets() {
		for _, c := range b.cells {
			parts = append(parts, c.String())
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
