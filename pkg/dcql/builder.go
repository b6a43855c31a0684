package dcql

import "vccore/pkg/builder"

// QueryBuilder assembles a Query one CredentialQuery at a time. Build
// returns a validation-issues slice rather than a single error, mirroring
// PreparedDcqlQuery.ValidationIssues, since a malformed query is still
// usable for inspection, only not safe to evaluate against.
type QueryBuilder = builder.Builder[Query]

// NewQueryBuilder constructs an empty QueryBuilder.
func NewQueryBuilder() *QueryBuilder {
	return builder.New[Query]()
}

// WithCredential appends cq to the query under construction.
func WithCredential(cq CredentialQuery) builder.Step[Query] {
	return func(q *Query) error {
		if cq.ID == "" {
			return wireErrf("credential query missing required id")
		}
		for _, existing := range q.Credentials {
			if existing.ID == cq.ID {
				return wireErrf("duplicate credential query id: %s", cq.ID)
			}
		}
		q.Credentials = append(q.Credentials, cq)
		return nil
	}
}

// WithCredentialSet appends cs to the query under construction.
func WithCredentialSet(cs CredentialSetQuery) builder.Step[Query] {
	return func(q *Query) error {
		if len(cs.Options) == 0 {
			return wireErrf("credential set missing required non-empty options")
		}
		q.CredentialSets = append(q.CredentialSets, cs)
		return nil
	}
}

// NewTrustedAuthority constructs a TrustedAuthoritiesQuery for the given
// authority type and accepted values.
func NewTrustedAuthority(authorityType string, values ...string) TrustedAuthoritiesQuery {
	return TrustedAuthoritiesQuery{Type: authorityType, Values: values}
}

// NewClaimsQuery constructs a required ClaimsQuery over pattern with no
// value constraint.
func NewClaimsQuery(id string, pattern ClaimPattern) ClaimsQuery {
	return ClaimsQuery{ID: id, Path: pattern}
}
