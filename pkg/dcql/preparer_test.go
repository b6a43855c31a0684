package dcql

import "testing"

func samplePreparerQuery() Query {
	return Query{
		Credentials: []CredentialQuery{
			{
				ID:     "pid",
				Format: FormatSDJWTVC,
				Meta:   &MetaQuery{VCTValues: []string{"urn:eudi:pid:1"}},
				Claims: []ClaimsQuery{
					{Path: ClaimPattern{KeySegment("given_name")}},
					{Path: ClaimPattern{KeySegment("family_name")}},
				},
				TrustedAuthorities: []TrustedAuthoritiesQuery{
					{Type: "aki", Values: []string{"abc123"}},
				},
			},
		},
		CredentialSets: []CredentialSetQuery{{Options: [][]string{{"pid"}}}},
	}
}

func TestPrepareExtractsCoarsePredicates(t *testing.T) {
	prepared := Prepare(samplePreparerQuery())
	if len(prepared.ValidationIssues) != 0 {
		t.Fatalf("expected no validation issues, got %v", prepared.ValidationIssues)
	}
	if len(prepared.CoarsePredicates) != 1 {
		t.Fatalf("expected 1 coarse predicate set")
	}
	cp := prepared.CoarsePredicates[0]
	if cp.MustMatchFormat != FormatSDJWTVC {
		t.Fatalf("unexpected format predicate: %s", cp.MustMatchFormat)
	}
	if _, ok := cp.MustMatchAnyType["urn:eudi:pid:1"]; !ok {
		t.Fatalf("expected type predicate to include urn:eudi:pid:1")
	}
	if len(cp.MustHavePatterns) != 2 {
		t.Fatalf("expected 2 required claim patterns, got %d", len(cp.MustHavePatterns))
	}
	if _, ok := cp.MustMatchAnyIssuer["abc123"]; !ok {
		t.Fatalf("expected issuer predicate to include abc123")
	}
	if len(prepared.RequestedFormats) != 1 {
		t.Fatalf("expected 1 requested format")
	}
	if len(prepared.AllRequestedPatterns) != 2 {
		t.Fatalf("expected 2 requested patterns")
	}
}

func TestPrepareIdempotence(t *testing.T) {
	query := samplePreparerQuery()
	first := Prepare(query)
	second := Prepare(first.Query)

	if len(first.CoarsePredicates) != len(second.CoarsePredicates) {
		t.Fatalf("coarse predicate count changed across re-prepare")
	}
	if len(first.ValidationIssues) != len(second.ValidationIssues) {
		t.Fatalf("validation issues changed across re-prepare")
	}
	if len(first.AllRequestedPatterns) != len(second.AllRequestedPatterns) {
		t.Fatalf("requested patterns changed across re-prepare")
	}
}

func TestPrepareFlagsDuplicateIDAndUndefinedReference(t *testing.T) {
	query := samplePreparerQuery()
	query.Credentials = append(query.Credentials, query.Credentials[0])
	query.CredentialSets = append(query.CredentialSets, CredentialSetQuery{Options: [][]string{{"missing"}}})

	prepared := Prepare(query)
	if len(prepared.ValidationIssues) < 2 {
		t.Fatalf("expected at least 2 validation issues, got %v", prepared.ValidationIssues)
	}
}

func TestClaimSetsSuppressMustHavePatterns(t *testing.T) {
	required := true
	query := Query{Credentials: []CredentialQuery{{
		ID:     "cred1",
		Format: FormatSDJWTVC,
		Claims: []ClaimsQuery{
			{ID: "a", Path: ClaimPattern{KeySegment("a")}},
		},
		ClaimSets: []ClaimSetQuery{{Options: [][]string{{"a"}}, Required: &required}},
	}}}
	prepared := Prepare(query)
	if len(prepared.CoarsePredicates[0].MustHavePatterns) != 0 {
		t.Fatalf("expected MustHavePatterns to be empty when ClaimSets present")
	}
}
