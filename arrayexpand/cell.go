// Package arrayexpand implements the array expansion domain (spec.md C6):
// each array is represented as a set of disjoint cells <offset, size,
// scalar>, one inner-domain scalar variable per materialized byte range,
// indexed by a Patricia tree (package patricia) for sorted overlap queries.
// Grounded on original_source/crab/include/crab/domains/array_expansion.hpp.
package arrayexpand

import (
	"fmt"

	"github.com/k-vikingsson/soct/numdom"
)

// Cell is spec.md §3's <offset, size, scalar-variable> tuple: the scalar
// abstracts bytes [Offset, Offset+Size).
type Cell struct {
	Offset int
	Size   int
	Scalar numdom.Variable
}

func (c Cell) end() int { return c.Offset + c.Size }

// overlaps reports whether c's byte range intersects [offset, offset+size).
func (c Cell) overlaps(offset, size int) bool {
	return c.Offset < offset+size && offset < c.end()
}

// exact reports whether c is precisely the cell (offset, size).
func (c Cell) exact(offset, size int) bool {
	return c.Offset == offset && c.Size == size
}

func (c Cell) String() string {
	return fmt.Sprintf("[%d,%d)=%s", c.Offset, c.end(), c.Scalar)
}
