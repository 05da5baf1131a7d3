package lossy

import (
	"strconv"
	"strings"

	eng "github.com/reoring/lossy/internal/engine"
)

// PathSegment is one step into the decoded tree: a named field or an
// integer index.
type PathSegment struct {
	name    string
	index   int
	isIndex bool
}

// Named returns a segment addressing an object member.
func Named(key string) PathSegment { return PathSegment{name: key} }

// Indexed returns a segment addressing a sequence element.
func Indexed(i int) PathSegment { return PathSegment{index: i, isIndex: true} }

// IsIndex reports whether the segment addresses a sequence element.
func (s PathSegment) IsIndex() bool { return s.isIndex }

// Name returns the member name; empty for index segments.
func (s PathSegment) Name() string { return s.name }

// Index returns the element index; zero for named segments.
func (s PathSegment) Index() int { return s.index }

func (s PathSegment) String() string {
	if s.isIndex {
		return strconv.Itoa(s.index)
	}
	return s.name
}

// Path is an ordered location inside the decoded tree. Paths are never
// mutated in place; Append returns a copy.
type Path []PathSegment

// Append returns a new path with segs added.
func (p Path) Append(segs ...PathSegment) Path {
	out := make(Path, len(p), len(p)+len(segs))
	copy(out, p)
	return append(out, segs...)
}

// String renders the path dot-joined, e.g. "field.3.name".
func (p Path) String() string {
	if len(p) == 0 {
		return ""
	}
	b := &strings.Builder{}
	for i, s := range p {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.String())
	}
	return b.String()
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// Pointer renders the path as an RFC 6901 JSON Pointer; the root is "/".
func (p Path) Pointer() string {
	if len(p) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, s := range p {
		b.WriteByte('/')
		b.WriteString(pointerEscaper.Replace(s.String()))
	}
	return b.String()
}

// Equal reports whether two paths address the same location.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

func pathFromEngine(segs []eng.Segment) Path {
	if len(segs) == 0 {
		return nil
	}
	out := make(Path, len(segs))
	for i, s := range segs {
		if s.IsIndex {
			out[i] = Indexed(s.Index)
		} else {
			out[i] = Named(s.Name)
		}
	}
	return out
}
