// Package dcql implements the Digital Credentials Query Language's
// two-phase evaluation model: a Preparer that validates a query and
// extracts coarse, storage-level predicates once, and an Evaluator that
// runs the full per-credential matching algorithm against a lazy
// credential stream. ClaimPath/ClaimPattern bridge the wire's
// heterogeneous path arrays to one comparable path identity shared by
// every credential format.
package dcql

// Query is a decoded DCQL request: the set of Credential Queries the
// Verifier is asking for, plus optional constraints across them.
type Query struct {
	// Credentials REQUIRED. Must be non-empty; every element's ID must
	// be unique within the query.
	Credentials []CredentialQuery `json:"credentials" validate:"required,min=1,dive,required"`

	// CredentialSets OPTIONAL. Additional combinations of credentials
	// that together satisfy the request.
	CredentialSets []CredentialSetQuery `json:"credential_sets,omitempty" validate:"omitempty,min=1,dive"`
}

// CredentialQuery requests a presentation of one or more matching
// credentials of a single format.
type CredentialQuery struct {
	// ID REQUIRED. Referenced by CredentialSetQuery.Options and by the
	// evaluator's per-credential match results.
	ID string `json:"id" validate:"required"`

	// Format REQUIRED. One of the identifiers in FormatJwtVCJson,
	// FormatSDJWTVC, FormatSDCWT, FormatMsoMdoc, FormatLdpVC, or an
	// opaque value passed through unmodified.
	Format string `json:"format" validate:"required"`

	// Meta OPTIONAL. Format-specific type constraints.
	Meta *MetaQuery `json:"meta,omitempty"`

	// Claims OPTIONAL. The claims the Verifier wants disclosed.
	Claims []ClaimsQuery `json:"claims,omitempty" validate:"omitempty,dive"`

	// ClaimSets OPTIONAL. Alternative combinations of the Claims above,
	// identified by ClaimsQuery.EffectiveID.
	ClaimSets []ClaimSetQuery `json:"claim_sets,omitempty" validate:"omitempty,dive"`

	// TrustedAuthorities OPTIONAL. The credential's issuer must be
	// certified by at least one of these authorities, when known.
	TrustedAuthorities []TrustedAuthoritiesQuery `json:"trusted_authorities,omitempty" validate:"omitempty,dive"`
}

// MetaQuery carries format-specific type constraints: VCTValues for
// dc+sd-jwt/dc+sd-cwt, DoctypeValue for mso_mdoc.
type MetaQuery struct {
	VCTValues    []string `json:"vct_values,omitempty"`
	DoctypeValue string   `json:"doctype_value,omitempty"`
}

// ClaimsQuery requests disclosure of one claim, located by Path.
type ClaimsQuery struct {
	// ID OPTIONAL. When absent, EffectiveID derives a stand-in from Path.
	ID string `json:"id,omitempty"`

	// Path REQUIRED. May contain wildcard segments.
	Path ClaimPattern `json:"path" validate:"required"`

	// Required OPTIONAL, defaults to true. Ignored when the owning
	// CredentialQuery has ClaimSets: acceptance is then decided purely
	// by which claim sets are satisfiable.
	Required *bool `json:"-"`

	// Values OPTIONAL. When present, the disclosed value must equal at
	// least one element, per the evaluator's value-equality rule.
	Values []any `json:"values,omitempty"`

	// IntentToRetain OPTIONAL, mso_mdoc only.
	IntentToRetain *bool `json:"intent_to_retain,omitempty"`
}

// EffectiveID returns ID if set, otherwise a stable string derived from
// Path, matching the wire rule that an unlabeled ClaimsQuery is referenced
// by the string form of its path.
func (c ClaimsQuery) EffectiveID() string {
	if c.ID != "" {
		return c.ID
	}
	return c.Path.key()
}

// IsRequired reports whether the claim is required, defaulting to true
// when Required is unset.
func (c ClaimsQuery) IsRequired() bool {
	return c.Required == nil || *c.Required
}

// ClaimSetQuery names alternative sets of claims, any one of which
// satisfies the owning CredentialQuery's claims gate.
type ClaimSetQuery struct {
	// Options is a list of alternatives; each alternative is a list of
	// ClaimsQuery.EffectiveID values that must all be present.
	Options [][]string `json:"-" validate:"required,min=1,dive,min=1,dive,required"`

	// Required OPTIONAL, defaults to true.
	Required *bool `json:"-"`
}

// IsRequired reports whether the claim set is required, defaulting to
// true when Required is unset.
func (c ClaimSetQuery) IsRequired() bool {
	return c.Required == nil || *c.Required
}

// TrustedAuthoritiesQuery names an authority type and the accepted
// values for it (e.g. type "aki" with base64url-encoded key identifiers).
type TrustedAuthoritiesQuery struct {
	Type   string   `json:"type" validate:"required"`
	Values []string `json:"values" validate:"required,min=1"`
}

// CredentialSetQuery constrains which combination of the query's
// credentials together satisfies the request.
type CredentialSetQuery struct {
	// Options is a list of alternatives; each alternative is a list of
	// CredentialQuery.ID values, all of which must be satisfied together.
	Options [][]string `json:"options" validate:"required,min=1,dive,min=1,dive,required"`

	// Required OPTIONAL, defaults to true.
	Required *bool `json:"required,omitempty"`

	// Purpose OPTIONAL, passed through for display to the holder.
	Purpose string `json:"purpose,omitempty"`
}

// IsRequired reports whether the credential set is required, defaulting
// to true when Required is unset.
func (c CredentialSetQuery) IsRequired() bool {
	return c.Required == nil || *c.Required
}

// Format identifiers accepted by the core; additional values pass through.
const (
	FormatSDJWTVC   = "dc+sd-jwt"
	FormatSDCWT     = "dc+sd-cwt"
	FormatMsoMdoc   = "mso_mdoc"
	FormatLdpVC     = "ldp_vc"
	FormatJwtVCJson = "jwt_vc_json"
)
