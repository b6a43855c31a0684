package dcql

import "errors"

var errInvalidPointer = errors.New("dcql: invalid JSON pointer")

// segmentKind distinguishes the three shapes a ClaimsQuery path element
// can take on the wire: a string names a key, an integer names an array
// index, and null is a wildcard that matches any key or index at that
// depth. Keeping this as a closed kind plus per-kind fields (rather than
// three separate optional pointers) keeps PatternSegment a true sum type:
// exactly one interpretation is ever valid for a given segment.
type segmentKind int

const (
	segmentKey segmentKind = iota
	segmentIndex
	segmentWildcard
)

// PatternSegment is one element of a ClaimPattern as it appears on the
// DCQL wire: a key, an array index, or a wildcard (null).
type PatternSegment struct {
	kind  segmentKind
	key   string
	index int
}

// KeySegment constructs a key-matching pattern segment.
func KeySegment(name string) PatternSegment { return PatternSegment{kind: segmentKey, key: name} }

// IndexSegment constructs an index-matching pattern segment. index must be >= 0.
func IndexSegment(index int) PatternSegment {
	return PatternSegment{kind: segmentIndex, index: index}
}

// WildcardSegment constructs a segment that matches any key or index at
// its depth.
func WildcardSegment() PatternSegment { return PatternSegment{kind: segmentWildcard} }

// IsWildcard reports whether the segment is a wildcard.
func (s PatternSegment) IsWildcard() bool { return s.kind == segmentWildcard }

// IsIndex reports whether the segment names an array index.
func (s PatternSegment) IsIndex() bool { return s.kind == segmentIndex }

// matchesPathSegment reports whether s accepts the concrete path segment p.
// A wildcard accepts anything; a key or index segment requires an exact
// match of both kind and value.
func (s PatternSegment) matchesPathSegment(p PathSegment) bool {
	switch s.kind {
	case segmentWildcard:
		return true
	case segmentIndex:
		return p.isIndex && p.index == s.index
	default:
		return !p.isIndex && p.key == s.key
	}
}

// ClaimPattern is a DCQL claims-query path: a sequence of key, index, or
// wildcard segments. It is the wire-facing counterpart of ClaimPath;
// ResolveAll expands wildcard patterns against known concrete paths,
// and TryResolve converts a wildcard-free pattern directly.
type ClaimPattern []PatternSegment

// HasWildcards reports whether any segment of p is a wildcard.
func (p ClaimPattern) HasWildcards() bool {
	for _, seg := range p {
		if seg.IsWildcard() {
			return true
		}
	}
	return false
}

// TryResolve converts p to a concrete ClaimPath when p has no wildcard
// segments. It returns false when p contains at least one wildcard.
func (p ClaimPattern) TryResolve() (ClaimPath, bool) {
	if p.HasWildcards() {
		return nil, false
	}
	path := make(ClaimPath, len(p))
	for i, seg := range p {
		if seg.kind == segmentIndex {
			path[i] = Index(seg.index)
		} else {
			path[i] = Key(seg.key)
		}
	}
	return path, true
}

// Matches reports whether path has the same depth as p and every
// non-wildcard segment of p equals the corresponding segment of path.
func (p ClaimPattern) Matches(path ClaimPath) bool {
	if len(p) != len(path) {
		return false
	}
	for i, seg := range p {
		if !seg.matchesPathSegment(path[i]) {
			return false
		}
	}
	return true
}

// Equal reports whether p and other are the same segment sequence.
func (p ClaimPattern) Equal(other ClaimPattern) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// key renders p as a string usable as a map key, for equality/hash
// purposes and as the default effective id of a ClaimsQuery that omits
// an explicit id.
func (p ClaimPattern) key() string {
	path, ok := p.TryResolve()
	if ok {
		return "=" + path.String()
	}
	var b []byte
	for _, seg := range p {
		b = append(b, '/')
		switch seg.kind {
		case segmentWildcard:
			b = append(b, '*')
		case segmentIndex:
			b = append(b, []byte(itoaSegment(seg.index))...)
		default:
			b = append(b, []byte(escapePointerToken(seg.key))...)
		}
	}
	return "~" + string(b)
}

func itoaSegment(n int) string {
	path := ClaimPath{Index(n)}
	return path.String()[1:]
}
