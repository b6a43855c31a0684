package dcql

import (
	"strconv"
	"strings"
)

// ClaimPath is a fully resolved, concrete path into a credential's claim
// tree: a sequence of key or array-index segments with no wildcards. Two
// credential families disclose paths differently on the wire (an SD-JWT
// claim uses JSON Pointer-shaped key/index segments; an ISO mdoc claim
// uses a namespace followed by an element identifier) but both erase to
// this one comparable identity, so the evaluator never needs to know
// which wire shape produced a given path.
type ClaimPath []PathSegment

// PathSegment is one key or index step of a resolved ClaimPath. Unlike
// PatternSegment it never carries a wildcard.
type PathSegment struct {
	key      string
	index    int
	isIndex  bool
}

// Key constructs a key-named path segment.
func Key(name string) PathSegment { return PathSegment{key: name} }

// Index constructs an array-index path segment. index must be >= 0.
func Index(index int) PathSegment { return PathSegment{index: index, isIndex: true} }

// IsIndex reports whether the segment is an array index rather than a key.
func (s PathSegment) IsIndex() bool { return s.isIndex }

// Key returns the segment's key name; valid only when !IsIndex().
func (s PathSegment) Key() string { return s.key }

// IndexValue returns the segment's array index; valid only when IsIndex().
func (s PathSegment) IndexValue() int { return s.index }

// MdocPath builds the ClaimPath ISO mdoc claims resolve to: a two-segment
// path of namespace followed by element identifier, both key segments.
func MdocPath(namespace, element string) ClaimPath {
	return ClaimPath{Key(namespace), Key(element)}
}

// String renders path as JSON Pointer text (RFC 6901): each segment
// prefixed with "/", "~" escaped to "~0" and "/" to "~1" within key
// segments, index segments rendered as decimal.
func (p ClaimPath) String() string {
	var b strings.Builder
	for _, seg := range p {
		b.WriteByte('/')
		if seg.isIndex {
			b.WriteString(strconv.Itoa(seg.index))
			continue
		}
		b.WriteString(escapePointerToken(seg.key))
	}
	return b.String()
}

// Equal reports whether p and other name the same sequence of segments.
func (p ClaimPath) Equal(other ClaimPath) bool {
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

func escapePointerToken(s string) string {
	if !strings.ContainsAny(s, "~/") {
		return s
	}
	s = strings.ReplaceAll(s, "~", "~0")
	s = strings.ReplaceAll(s, "/", "~1")
	return s
}

func unescapePointerToken(s string) string {
	if !strings.Contains(s, "~") {
		return s
	}
	s = strings.ReplaceAll(s, "~1", "/")
	s = strings.ReplaceAll(s, "~0", "~")
	return s
}

// ParseClaimPath parses JSON Pointer text into a ClaimPath. A token that
// parses as a non-negative decimal integer becomes an Index segment;
// every other token becomes a Key segment. The empty pointer "" parses
// to an empty ClaimPath (the document root).
func ParseClaimPath(s string) (ClaimPath, error) {
	if s == "" {
		return ClaimPath{}, nil
	}
	if s[0] != '/' {
		return nil, errInvalidPointer
	}
	tokens := strings.Split(s[1:], "/")
	path := make(ClaimPath, 0, len(tokens))
	for _, tok := range tokens {
		raw := unescapePointerToken(tok)
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 && strconv.Itoa(n) == raw {
			path = append(path, Index(n))
			continue
		}
		path = append(path, Key(raw))
	}
	return path, nil
}
