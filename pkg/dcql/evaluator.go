package dcql

import (
	"iter"

	"vccore/pkg/logger"
)

// CredentialMetadata is what an Evaluator needs from a candidate
// credential before running the claims gate: its wire format, its
// credential type (vct or doctype) if known, and its issuer if known.
// HasType/HasIssuer distinguish "known and absent" from "unknown";
// per the type and issuer gates, an unknown value passes rather than
// rejecting, while a known-but-non-matching value rejects.
type CredentialMetadata struct {
	Format         string
	CredentialType string
	HasType        bool
	Issuer         string
	HasIssuer      bool
}

// MetadataFunc extracts CredentialMetadata from a candidate credential of
// type T.
type MetadataFunc[T any] func(credential T) CredentialMetadata

// ExtractFunc resolves one claim pattern against a candidate credential
// of type T, reporting whether a matching claim is present and, if so,
// its value. Implementations that support wildcard patterns walk the
// credential's own claim tree; implementations backed by a flat claim
// set may require patterns to already be concrete (see ResolveAll).
type ExtractFunc[T any] func(credential T, pattern ClaimPattern) (value any, exists bool)

// RejectionReason names why a credential was rejected against one
// CredentialQuery, per the DcqlEvaluation error kind.
type RejectionReason int

const (
	RejectionNone RejectionReason = iota
	RejectionFormatMismatch
	RejectionTypeMismatch
	RejectionIssuerNotTrusted
	RejectionMissingRequired
	RejectionFailedValueConstraint
	RejectionClaimSetUnsatisfied
)

func (r RejectionReason) String() string {
	switch r {
	case RejectionFormatMismatch:
		return "format mismatch"
	case RejectionTypeMismatch:
		return "type mismatch"
	case RejectionIssuerNotTrusted:
		return "issuer not trusted"
	case RejectionMissingRequired:
		return "missing required"
	case RejectionFailedValueConstraint:
		return "failed value constraint"
	case RejectionClaimSetUnsatisfied:
		return "required claim set unsatisfied"
	default:
		return "none"
	}
}

// DcqlMatch is the outcome of successfully matching one credential
// against one CredentialQuery.
type DcqlMatch[T any] struct {
	Credential        T
	CredentialQueryID string

	// MatchedPatterns are the claim patterns this credential satisfied,
	// keyed by ClaimsQuery.EffectiveID to de-duplicate claims that share
	// a pattern.
	MatchedPatterns map[string]ClaimPattern

	// RequiredDisclosurePatterns is the union of every required
	// ClaimsQuery.Path on the matched CredentialQuery, regardless of
	// whether that particular claim's presence decided acceptance (e.g.
	// when ClaimSets decided it instead).
	RequiredDisclosurePatterns []ClaimPattern
}

// Evaluator runs the full per-credential DCQL matching algorithm for one
// PreparedDcqlQuery against a stream of candidate credentials.
type Evaluator[T any] struct {
	Prepared PreparedDcqlQuery
	Metadata MetadataFunc[T]
	Extract  ExtractFunc[T]
	log      *logger.Log
}

// NewEvaluator constructs an Evaluator bound to prepared, metadata and
// extract, which the caller supplies per credential storage backend.
func NewEvaluator[T any](prepared PreparedDcqlQuery, metadata MetadataFunc[T], extract ExtractFunc[T]) *Evaluator[T] {
	return &Evaluator[T]{Prepared: prepared, Metadata: metadata, Extract: extract, log: logger.NewSimple("dcql")}
}

// MatchCredential evaluates one credential against one CredentialQuery,
// returning the match on acceptance or the reason for rejection. The
// eight steps below follow the algorithm verbatim; reordering them
// changes which rejection reason a caller observes for a credential that
// fails more than one gate.
func (e *Evaluator[T]) MatchCredential(credential T, cq CredentialQuery) (DcqlMatch[T], RejectionReason) {
	meta := e.Metadata(credential)

	// Step 1: format gate, byte-exact ordinal compare.
	if meta.Format != cq.Format {
		e.log.Trace("credential rejected", "credentialQueryID", cq.ID, "reason", RejectionFormatMismatch.String())
		return DcqlMatch[T]{}, RejectionFormatMismatch
	}

	// Step 2: type gate. Type constraints absent, or credential type
	// unknown, both pass without rejecting.
	if types := acceptedTypes(cq); types != nil && meta.HasType {
		if _, ok := types[meta.CredentialType]; !ok {
			e.log.Trace("credential rejected", "credentialQueryID", cq.ID, "reason", RejectionTypeMismatch.String())
			return DcqlMatch[T]{}, RejectionTypeMismatch
		}
	}

	// Step 3: issuer gate. Same unknown-passes rule as step 2.
	if len(cq.TrustedAuthorities) > 0 && meta.HasIssuer {
		trusted := false
		for _, ta := range cq.TrustedAuthorities {
			for _, v := range ta.Values {
				if v == meta.Issuer {
					trusted = true
					break
				}
			}
			if trusted {
				break
			}
		}
		if !trusted {
			e.log.Trace("credential rejected", "credentialQueryID", cq.ID, "reason", RejectionIssuerNotTrusted.String())
			return DcqlMatch[T]{}, RejectionIssuerNotTrusted
		}
	}

	// Step 4: no claims requested, accept with an empty matched set.
	if len(cq.Claims) == 0 {
		return DcqlMatch[T]{CredentialQueryID: cq.ID, Credential: credential}, RejectionNone
	}

	hasClaimSets := len(cq.ClaimSets) > 0
	matched := make(map[string]ClaimPattern)
	missingRequired := false
	failedValueConstraint := false

	// Step 5: per-claim extraction. Claim-sets, when present, override
	// each ClaimsQuery's own Required flag for missing/failed accounting.
	for _, claim := range cq.Claims {
		value, exists := e.Extract(credential, claim.Path)

		if !exists {
			if claim.IsRequired() && !hasClaimSets {
				missingRequired = true
			}
			continue
		}

		if len(claim.Values) > 0 && !valueAccepted(value, claim.Values) {
			if claim.IsRequired() && !hasClaimSets {
				failedValueConstraint = true
			}
			continue
		}

		matched[claim.EffectiveID()] = claim.Path
	}

	// Step 6.
	if missingRequired {
		e.log.Trace("credential rejected", "credentialQueryID", cq.ID, "reason", RejectionMissingRequired.String())
		return DcqlMatch[T]{}, RejectionMissingRequired
	}
	if failedValueConstraint {
		e.log.Trace("credential rejected", "credentialQueryID", cq.ID, "reason", RejectionFailedValueConstraint.String())
		return DcqlMatch[T]{}, RejectionFailedValueConstraint
	}

	// Step 7: claim-set satisfaction.
	if hasClaimSets {
		effective := make(map[string]struct{}, len(matched))
		for id := range matched {
			effective[id] = struct{}{}
		}
		for _, cs := range cq.ClaimSets {
			if !cs.IsRequired() {
				continue
			}
			if !anyOptionSatisfied(cs.Options, effective) {
				e.log.Trace("credential rejected", "credentialQueryID", cq.ID, "reason", RejectionClaimSetUnsatisfied.String())
				return DcqlMatch[T]{}, RejectionClaimSetUnsatisfied
			}
		}
	}

	// Step 8: accept.
	var required []ClaimPattern
	for _, claim := range cq.Claims {
		if claim.IsRequired() {
			required = append(required, claim.Path)
		}
	}

	return DcqlMatch[T]{
		Credential:                 credential,
		CredentialQueryID:          cq.ID,
		MatchedPatterns:            matched,
		RequiredDisclosurePatterns: required,
	}, RejectionNone
}

// Evaluate runs MatchCredential for every credential in candidates
// against every CredentialQuery in the prepared query, returning every
// acceptance. Rejections are dropped silently here; callers that need
// per-credential rejection reasons should call MatchCredential directly.
func (e *Evaluator[T]) Evaluate(candidates iter.Seq[T]) []DcqlMatch[T] {
	var matches []DcqlMatch[T]
	for credential := range candidates {
		for _, cq := range e.Prepared.Query.Credentials {
			if m, reason := e.MatchCredential(credential, cq); reason == RejectionNone {
				matches = append(matches, m)
			}
		}
	}
	return matches
}

func acceptedTypes(cq CredentialQuery) map[string]struct{} {
	if cq.Meta == nil {
		return nil
	}
	switch cq.Format {
	case FormatMsoMdoc:
		if cq.Meta.DoctypeValue == "" {
			return nil
		}
		return map[string]struct{}{cq.Meta.DoctypeValue: {}}
	default:
		if len(cq.Meta.VCTValues) == 0 {
			if cq.Meta.DoctypeValue != "" {
				return map[string]struct{}{cq.Meta.DoctypeValue: {}}
			}
			return nil
		}
		set := make(map[string]struct{}, len(cq.Meta.VCTValues))
		for _, v := range cq.Meta.VCTValues {
			set[v] = struct{}{}
		}
		return set
	}
}

func anyOptionSatisfied(options [][]string, effective map[string]struct{}) bool {
	for _, option := range options {
		satisfied := true
		for _, id := range option {
			if _, ok := effective[id]; !ok {
				satisfied = false
				break
			}
		}
		if satisfied {
			return true
		}
	}
	return false
}

// valueAccepted reports whether value equals at least one element of
// acceptable, per the evaluator's value-equality rule: ordinal equality
// for strings, == for booleans, and double-precision round-trip
// comparison for any two numeric types (since the wire does not
// distinguish JSON integers from JSON numbers). This rule must not be
// tightened; a wire integer and a wire float naming the same quantity
// are required to compare equal.
func valueAccepted(value any, acceptable []any) bool {
	for _, want := range acceptable {
		if valuesEqual(value, want) {
			return true
		}
	}
	return false
}

func valuesEqual(a, b any) bool {
	if af, aok := asFloat64(a); aok {
		if bf, bok := asFloat64(b); bok {
			return af == bf
		}
	}
	if as, aok := a.(string); aok {
		bs, bok := b.(string)
		return bok && as == bs
	}
	if ab, aok := a.(bool); aok {
		bb, bok := b.(bool)
		return bok && ab == bb
	}
	return a == b
}

func asFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}
