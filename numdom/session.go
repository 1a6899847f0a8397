package numdom

import (
	"sync"

	"github.com/benbjohnson/immutable"

	"github.com/k-vikingsson/soct/utils"
)

// CellKey identifies a cell by the array it belongs to and its byte range.
type CellKey struct {
	Array  int // Variable.Index of the array
	Offset int
	Size   int
}

// Hash implements utils.HashableEq so CellKey can key an immutable.Map.
func (k CellKey) Hash() uint32 {
	return utils.HashCombine(uint32(k.Array), uint32(k.Offset), uint32(k.Size))
}

// Equal implements utils.HashableEq.
func (k CellKey) Equal(o CellKey) bool {
	return k.Array == o.Array && k.Offset == o.Offset && k.Size == o.Size
}

// Session owns the process-wide state that must outlive any single domain
// value: the variable factory, and the (array, offset, size) -> scalar
// memoization table required by array expansion (spec.md §3, §5, §9) so
// that identical cells across different domain values share scalar
// identity. It is the "lazily-initialized table owned by the analysis
// session" spec.md §9 asks for, rather than a package-level global.
//
// scalar is a persistent map rather than a plain Go map so a caller can
// snapshot the table by copying the pointer: earlier snapshots are
// unaffected by scalars minted afterward, matching the immutable.Map usage
// the rest of the analysis stack relies on for its own lattice-element
// storage.
type Session struct {
	Factory VariableFactory

	mu     sync.Mutex
	scalar *immutable.Map[CellKey, Variable]
}

// NewSession creates a session with a fresh counter-based variable factory.
func NewSession() *Session {
	return &Session{Factory: NewVariableFactory(), scalar: utils.NewImmMap[CellKey, Variable]()}
}

// ScalarFor returns the stable scalar Variable representing the cell
// (array, offset, size) of the given element type, minting one via the
// factory on first use and memoizing it for every subsequent call with the
// same key, guarded for concurrent analyses (spec.md §5).
func (s *Session) ScalarFor(array Variable, offset, size int, elemType VarType, width int) Variable {
	key := CellKey{Array: array.Index, Offset: offset, Size: size}

	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.scalar.Get(key); ok {
		return v
	}
	v := s.Factory.Fresh(cellScalarName(array, offset, size), elemType, width)
	s.scalar = s.scalar.Set(key, v)
	return v
}

func cellScalarName(array Variable, offset, size int) string {
	return array.String() + ".cell[" + itoa(offset) + ":" + itoa(size) + "]"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
