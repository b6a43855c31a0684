package dcql

import (
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/fxamacker/cbor/v2"
)

// jsonPathExpr renders pattern as a PaesslerAG/jsonpath expression: a key
// segment becomes a dotted or bracketed member access, an index segment
// becomes "[n]", and a wildcard segment becomes "[*]" — jsonpath's own
// existential "every element at this depth" reading, the same one
// pattern.go's PatternSegment documents for DCQL's null path element.
func jsonPathExpr(pattern ClaimPattern) string {
	var b strings.Builder
	b.WriteByte('$')
	for _, seg := range pattern {
		switch {
		case seg.IsWildcard():
			b.WriteString("[*]")
		case seg.IsIndex():
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.index))
			b.WriteByte(']')
		case isPlainIdentifier(seg.key):
			b.WriteByte('.')
			b.WriteString(seg.key)
		default:
			b.WriteString("['")
			b.WriteString(strings.ReplaceAll(seg.key, "'", "\\'"))
			b.WriteString("']")
		}
	}
	return b.String()
}

func isPlainIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// WalkJSONClaims resolves pattern against document, a tree of
// map[string]any/[]any/primitive as produced by encoding/json's default
// decode (or an SD-JWT disclosure tree built the same way). It is an
// ExtractFunc body for any credential format whose disclosed claims are
// JSON-shaped, including dc+sd-jwt. Traversal goes through
// github.com/PaesslerAG/jsonpath, the same library the teacher's
// sdjwtvc.ExtractClaimsByJSONPath uses for this identical concern, rather
// than a hand-rolled tree walk.
func WalkJSONClaims(document any, pattern ClaimPattern) (value any, exists bool) {
	result, err := jsonpath.Get(jsonPathExpr(pattern), document)
	if err != nil {
		return nil, false
	}
	if !pattern.HasWildcards() {
		return result, true
	}
	// jsonpath aggregates every existing match at a wildcard depth into a
	// slice; DCQL's wildcard is existential ("matches any array element
	// at that depth"), so the first of the genuinely present matches is
	// the resolved value.
	matches, ok := result.([]interface{})
	if !ok {
		return result, true
	}
	if len(matches) == 0 {
		return nil, false
	}
	return matches[0], true
}

// MdocClaims holds an mso_mdoc credential's disclosed namespaces as a
// decoded nameSpace -> elementIdentifier -> value map. ISO/IEC 18013-5
// claim paths resolve as exactly two key segments: the namespace, then
// the element identifier (see MdocPath).
type MdocClaims map[string]map[string]any

// DecodeMdocClaims decodes the CBOR-encoded map of disclosed namespaces
// produced by selective disclosure of an mso_mdoc credential's
// IssuerSignedItem list.
func DecodeMdocClaims(data []byte) (MdocClaims, error) {
	var claims MdocClaims
	if err := cbor.Unmarshal(data, &claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// Extract resolves pattern against m. Only concrete two-segment patterns
// (namespace, element) resolve; a pattern of any other shape, or one
// containing a wildcard, returns exists=false since ISO mdoc claim paths
// have no nested structure below the element value.
func (m MdocClaims) Extract(pattern ClaimPattern) (value any, exists bool) {
	if len(pattern) != 2 || pattern[0].IsWildcard() || pattern[1].IsWildcard() {
		return nil, false
	}
	if pattern[0].IsIndex() || pattern[1].IsIndex() {
		return nil, false
	}
	elements, ok := m[pattern[0].key]
	if !ok {
		return nil, false
	}
	v, ok := elements[pattern[1].key]
	return v, ok
}

// AvailablePaths lists every concrete ClaimPath m can disclose, for use
// as the availablePaths argument to ResolveAll when a query's claim
// pattern contains a wildcard.
func (m MdocClaims) AvailablePaths() []ClaimPath {
	var paths []ClaimPath
	for namespace, elements := range m {
		for element := range elements {
			paths = append(paths, MdocPath(namespace, element))
		}
	}
	return paths
}
