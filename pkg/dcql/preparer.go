package dcql

// CoarsePredicates are the storage-level filters a credential store can
// apply before the full Evaluator ever runs, computed once per
// CredentialQuery so a request against a large credential store need
// not run the fine-grained match algorithm against every record.
type CoarsePredicates struct {
	CredentialQueryID string

	// MustMatchFormat is the query's required format.
	MustMatchFormat string

	// MustMatchAnyType, when non-nil, is the set of acceptable
	// credential types; a credential whose type is known and absent
	// from this set can be rejected without running the evaluator.
	MustMatchAnyType map[string]struct{}

	// MustHavePatterns are the paths of claims this query requires
	// unconditionally (Required==true, no ClaimSets override). A
	// credential lacking all of these paths can be rejected outright.
	MustHavePatterns []ClaimPattern

	// MustMatchAnyIssuer, when non-nil, is the union of every trusted
	// authority's accepted values; a credential whose issuer is known
	// and absent from this set can be rejected without running the
	// evaluator.
	MustMatchAnyIssuer map[string]struct{}
}

// PreparedDcqlQuery is a Query that has been validated and had its
// coarse predicates extracted. It is built once per verifier request and
// shared read-only for the request's duration.
type PreparedDcqlQuery struct {
	Query Query

	CoarsePredicates []CoarsePredicates

	// AllRequestedPatterns is the union of every ClaimsQuery.Path across
	// every credential query, for use by callers that need to know the
	// full set of wildcard patterns a credential store might need to
	// resolve against its own available paths.
	AllRequestedPatterns []ClaimPattern

	// RequestedFormats is the set of distinct format strings named by
	// the query's credential queries.
	RequestedFormats map[string]struct{}

	// ValidationIssues are structural problems that do not abort
	// preparation (DcqlValidation in the error taxonomy): they are
	// recorded on the prepared query rather than returned as an error.
	ValidationIssues []string
}

// Prepare validates query and extracts its coarse predicates. It never
// fails: structural problems are appended to ValidationIssues instead.
func Prepare(query Query) PreparedDcqlQuery {
	prepared := PreparedDcqlQuery{
		Query:            query,
		RequestedFormats: make(map[string]struct{}),
	}

	if len(query.Credentials) == 0 {
		prepared.ValidationIssues = append(prepared.ValidationIssues, "query has no credential queries")
	}

	seenIDs := make(map[string]struct{})
	patternSeen := make(map[string]struct{})

	for _, cq := range query.Credentials {
		if cq.ID == "" {
			prepared.ValidationIssues = append(prepared.ValidationIssues, "a credential query is missing an id")
		} else if _, dup := seenIDs[cq.ID]; dup {
			prepared.ValidationIssues = append(prepared.ValidationIssues, "duplicate credential query id: "+cq.ID)
		} else {
			seenIDs[cq.ID] = struct{}{}
		}
		if cq.Format == "" {
			prepared.ValidationIssues = append(prepared.ValidationIssues, "credential query "+cq.ID+" is missing a format")
		}
		prepared.RequestedFormats[cq.Format] = struct{}{}

		prepared.CoarsePredicates = append(prepared.CoarsePredicates, coarsePredicatesFor(cq))

		for _, claim := range cq.Claims {
			k := claim.Path.key()
			if _, ok := patternSeen[k]; ok {
				continue
			}
			patternSeen[k] = struct{}{}
			prepared.AllRequestedPatterns = append(prepared.AllRequestedPatterns, claim.Path)
		}
	}

	for _, cs := range query.CredentialSets {
		for _, option := range cs.Options {
			for _, id := range option {
				if _, ok := seenIDs[id]; !ok {
					prepared.ValidationIssues = append(prepared.ValidationIssues, "credential set references undefined credential query id: "+id)
				}
			}
		}
	}

	return prepared
}

func coarsePredicatesFor(cq CredentialQuery) CoarsePredicates {
	cp := CoarsePredicates{
		CredentialQueryID: cq.ID,
		MustMatchFormat:   cq.Format,
	}

	if cq.Meta != nil {
		switch cq.Format {
		case FormatMsoMdoc:
			if cq.Meta.DoctypeValue != "" {
				cp.MustMatchAnyType = map[string]struct{}{cq.Meta.DoctypeValue: {}}
			}
		default:
			if len(cq.Meta.VCTValues) > 0 {
				cp.MustMatchAnyType = make(map[string]struct{}, len(cq.Meta.VCTValues))
				for _, v := range cq.Meta.VCTValues {
					cp.MustMatchAnyType[v] = struct{}{}
				}
			} else if cq.Meta.DoctypeValue != "" {
				cp.MustMatchAnyType = map[string]struct{}{cq.Meta.DoctypeValue: {}}
			}
		}
	}

	hasClaimSets := len(cq.ClaimSets) > 0
	if !hasClaimSets {
		for _, claim := range cq.Claims {
			if claim.IsRequired() {
				cp.MustHavePatterns = append(cp.MustHavePatterns, claim.Path)
			}
		}
	}

	for _, ta := range cq.TrustedAuthorities {
		if cp.MustMatchAnyIssuer == nil {
			cp.MustMatchAnyIssuer = make(map[string]struct{})
		}
		for _, v := range ta.Values {
			cp.MustMatchAnyIssuer[v] = struct{}{}
		}
	}

	return cp
}
