// Package indenter renders nested values as an indented, multi-line
// string, used by the domains' String() methods for debug output (see
// octagon.Domain.String, patricia.Tree.String).
package indenter

import (
	"fmt"
	"strings"
)

// Builder accumulates an indented rendering. State travels in the value
// itself rather than through package globals, so two independent Builder
// chains (e.g. two Domain.String calls racing on different goroutines)
// never share a buffer.
type Builder struct {
	buf   string
	level int
}

// New starts a Builder whose buffer opens with str.
func New(str string) Builder {
	return Builder{buf: str}
}

func (b Builder) indent() string {
	return strings.Repeat("  ", b.level)
}

// asString adapts a plain string to fmt.Stringer so NestStringsSep can
// reuse NestSep's nesting logic.
type asString string

func (s asString) String() string { return string(s) }

// NestStringsSep nests strs one per line under the current buffer,
// joining all but the last with sep.
func (b Builder) NestStringsSep(sep string, strs ...string) Builder {
	stringers := make([]fmt.Stringer, len(strs))
	for i, v := range strs {
		stringers[i] = asString(v)
	}
	return b.NestSep(sep, stringers...)
}

// NestSep nests strs (rendered via String) one per line under the current
// buffer, joining all but the last with sep. A single element is appended
// inline rather than on its own indented line.
func (b Builder) NestSep(sep string, strs ...fmt.Stringer) Builder {
	if len(strs) == 1 {
		b.buf += strs[0].String()
		return b
	}

	b.level++
	for i, str := range strs {
		b.buf += "\n" + b.indent() + str.String()
		if i < len(strs)-1 {
			b.buf += sep
		}
	}
	b.level--
	b.buf += "\n"
	return b
}

// NestThunked nests the result of each thunk one per line under the
// current buffer. Deferred through a thunk so a caller can skip rendering
// an expensive child until the nesting level (and thus its indent) is
// settled.
func (b Builder) NestThunked(thunks ...func() string) Builder {
	return b.NestThunkedSep("", thunks...)
}

// NestThunkedSep is NestThunked with an explicit separator between lines.
func (b Builder) NestThunkedSep(sep string, thunks ...func() string) Builder {
	if len(thunks) == 1 {
		b.buf += thunks[0]()
		return b
	}

	b.level++
	for i, thunk := range thunks {
		b.buf += "\n" + b.indent() + thunk()
		if i < len(thunks)-1 {
			b.buf += sep
		}
	}
	b.level--
	b.buf += "\n"
	return b
}

// End closes the Builder, appending str (on its own indented line if the
// buffer currently ends in a newline) and returning the final string.
func (b Builder) End(str string) string {
	if b.buf[len(b.buf)-1] == '\n' {
		return b.buf + b.indent() + str
	}
	return b.buf + str
}
