package dcql

import "testing"

func TestClaimPatternTryResolve(t *testing.T) {
	concrete := ClaimPattern{KeySegment("given_name")}
	path, ok := concrete.TryResolve()
	if !ok {
		t.Fatalf("expected concrete pattern to resolve")
	}
	if path.String() != "/given_name" {
		t.Fatalf("unexpected path: %s", path.String())
	}

	wildcard := ClaimPattern{KeySegment("citizenship"), WildcardSegment(), KeySegment("country")}
	if _, ok := wildcard.TryResolve(); ok {
		t.Fatalf("expected wildcard pattern to not resolve")
	}
	if !wildcard.HasWildcards() {
		t.Fatalf("expected HasWildcards to be true")
	}
}

func TestClaimPatternMatches(t *testing.T) {
	pattern := ClaimPattern{KeySegment("citizenship"), WildcardSegment(), KeySegment("country")}

	matching := ClaimPath{Key("citizenship"), Index(0), Key("country")}
	if !pattern.Matches(matching) {
		t.Fatalf("expected pattern to match %v", matching)
	}

	wrongDepth := ClaimPath{Key("citizenship"), Index(0)}
	if pattern.Matches(wrongDepth) {
		t.Fatalf("expected depth mismatch to reject")
	}

	wrongKey := ClaimPath{Key("residency"), Index(0), Key("country")}
	if pattern.Matches(wrongKey) {
		t.Fatalf("expected key mismatch to reject")
	}

	wrongLeaf := ClaimPath{Key("citizenship"), Index(0), Key("region")}
	if pattern.Matches(wrongLeaf) {
		t.Fatalf("expected trailing key mismatch to reject")
	}
}

func TestResolveAllWildcardExpansion(t *testing.T) {
	pattern := ClaimPattern{KeySegment("citizenship"), WildcardSegment(), KeySegment("country")}
	available := []ClaimPath{
		{Key("citizenship"), Index(0), Key("country")},
		{Key("citizenship"), Index(1), Key("country")},
		{Key("given_name")},
	}

	resolved := ResolveAll([]ClaimPattern{pattern}, available)
	if len(resolved) != 2 {
		t.Fatalf("expected 2 resolved paths, got %d", len(resolved))
	}
}

func TestResolveAllSkipsWildcardWithoutAvailablePaths(t *testing.T) {
	pattern := ClaimPattern{KeySegment("citizenship"), WildcardSegment()}
	resolved := ResolveAll([]ClaimPattern{pattern}, nil)
	if len(resolved) != 0 {
		t.Fatalf("expected wildcard pattern to be skipped, got %d", len(resolved))
	}
}

func TestParseClaimPathRoundTripEscapedKeys(t *testing.T) {
	path := ClaimPath{Key("a/b"), Key("c~d"), Index(3)}
	s := path.String()
	parsed, err := ParseClaimPath(s)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !path.Equal(parsed) {
		t.Fatalf("round trip mismatch: %v != %v", path, parsed)
	}
}
