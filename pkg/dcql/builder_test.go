package dcql

import (
	"testing"

	"github.com/google/uuid"
)

func TestQueryBuilderAssemblesQuery(t *testing.T) {
	b := NewQueryBuilder().
		Add(WithCredential(CredentialQuery{
			ID:     "pid",
			Format: FormatSDJWTVC,
			Claims: []ClaimsQuery{NewClaimsQuery("given_name", ClaimPattern{KeySegment("given_name")})},
			TrustedAuthorities: []TrustedAuthoritiesQuery{
				NewTrustedAuthority("aki", "abc123"),
			},
		})).
		Add(WithCredentialSet(CredentialSetQuery{Options: [][]string{{"pid"}}}))

	query, errs := b.Build()
	if len(errs) != 0 {
		t.Fatalf("unexpected build errors: %v", errs)
	}
	if len(query.Credentials) != 1 || query.Credentials[0].ID != "pid" {
		t.Fatalf("unexpected query: %+v", query)
	}
}

func TestQueryBuilderRejectsDuplicateID(t *testing.T) {
	cq := CredentialQuery{ID: "pid", Format: FormatSDJWTVC}
	_, errs := NewQueryBuilder().
		Add(WithCredential(cq)).
		Add(WithCredential(cq)).
		Build()
	if len(errs) != 1 {
		t.Fatalf("expected 1 build error, got %v", errs)
	}
}

// Each fixture credential gets a fresh random ID, the way a test suite
// assembling many unrelated CredentialQuery fixtures would, to rule out
// false negatives on duplicate-ID rejection caused by a fixed test ID.
func TestQueryBuilderAcceptsDistinctRandomIDs(t *testing.T) {
	b := NewQueryBuilder()
	ids := make([]string, 5)
	for i := range ids {
		ids[i] = uuid.NewString()
		b = b.Add(WithCredential(CredentialQuery{ID: ids[i], Format: FormatSDJWTVC}))
	}

	query, errs := b.Build()
	if len(errs) != 0 {
		t.Fatalf("unexpected build errors: %v", errs)
	}
	if len(query.Credentials) != len(ids) {
		t.Fatalf("expected %d credentials, got %d", len(ids), len(query.Credentials))
	}
	for i, cq := range query.Credentials {
		if cq.ID != ids[i] {
			t.Fatalf("credential %d: expected ID %s, got %s", i, ids[i], cq.ID)
		}
	}
}
