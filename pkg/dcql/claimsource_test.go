package dcql

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
)

func TestWalkJSONClaimsResolvesNestedWildcard(t *testing.T) {
	// Only the second element carries "country"; the first deliberately
	// doesn't, so a correct existential match has exactly one possible
	// answer and a naive "always take element 0" bug would miss it.
	document := map[string]any{
		"citizenship": []any{
			map[string]any{"region": "Åland"},
			map[string]any{"country": "SE"},
		},
	}

	value, ok := WalkJSONClaims(document, ClaimPattern{KeySegment("citizenship"), IndexSegment(1), KeySegment("country")})
	if !ok || value != "SE" {
		t.Fatalf("expected SE, got %v (ok=%v)", value, ok)
	}

	value, ok = WalkJSONClaims(document, ClaimPattern{KeySegment("citizenship"), WildcardSegment(), KeySegment("country")})
	if !ok || value != "SE" {
		t.Fatalf("expected existential wildcard match to find SE, got %v (ok=%v)", value, ok)
	}

	_, ok = WalkJSONClaims(document, ClaimPattern{KeySegment("citizenship"), WildcardSegment(), KeySegment("missing")})
	if ok {
		t.Fatalf("expected no element to satisfy a claim no element has")
	}
}

func TestMdocClaimsExtract(t *testing.T) {
	claims := MdocClaims{
		"org.iso.18013.5.1": {
			"family_name": "Andersson",
			"birth_date":  "1990-01-01",
		},
	}
	encoded, err := cbor.Marshal(claims)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	decoded, err := DecodeMdocClaims(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	value, ok := decoded.Extract(ClaimPattern{KeySegment("org.iso.18013.5.1"), KeySegment("family_name")})
	if !ok || value != "Andersson" {
		t.Fatalf("expected Andersson, got %v (ok=%v)", value, ok)
	}

	paths := decoded.AvailablePaths()
	if len(paths) != 2 {
		t.Fatalf("expected 2 available paths, got %d", len(paths))
	}
}
