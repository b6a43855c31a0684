package dcql

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ErrJsonWire is returned for malformed or missing-required DCQL JSON;
// it is fatal to the decode, unlike per-credential evaluator rejections.
type ErrJsonWire struct {
	msg string
}

func (e *ErrJsonWire) Error() string { return "dcql: " + e.msg }

func wireErrf(format string, args ...any) error {
	return &ErrJsonWire{msg: fmt.Sprintf(format, args...)}
}

// DecodeQuery decodes a DCQL request from its bit-exact wire form.
func DecodeQuery(data []byte) (Query, error) {
	var q Query
	if err := json.Unmarshal(data, &q); err != nil {
		return Query{}, wireErrf("%v", err)
	}
	if len(q.Credentials) == 0 {
		return Query{}, wireErrf("query missing required non-empty \"credentials\"")
	}
	for _, cs := range q.CredentialSets {
		if len(cs.Options) == 0 {
			return Query{}, wireErrf("credential set missing required non-empty \"options\"")
		}
	}
	return q, nil
}

// Encode re-serializes q to its wire form.
func (q Query) Encode() ([]byte, error) {
	return json.Marshal(q)
}

// credentialQueryWire is the on-the-wire shape of CredentialQuery: claim
// sets are a flat array of string arrays rather than a list of objects,
// and claims carry heterogeneous path/values arrays that ClaimsQuery's
// own codec methods decode.
type credentialQueryWire struct {
	ID                 string                    `json:"id"`
	Format             string                    `json:"format"`
	Meta               *MetaQuery                `json:"meta,omitempty"`
	Claims             []ClaimsQuery             `json:"claims,omitempty"`
	ClaimSets          [][]string                `json:"claim_sets,omitempty"`
	TrustedAuthorities []TrustedAuthoritiesQuery `json:"trusted_authorities,omitempty"`
}

// UnmarshalJSON decodes a CredentialQuery, converting the wire's flat
// claim_sets array into a single ClaimSetQuery.
func (c *CredentialQuery) UnmarshalJSON(data []byte) error {
	var w credentialQueryWire
	if err := strictUnmarshal(data, &w); err != nil {
		return err
	}
	if w.ID == "" {
		return wireErrf("credential query missing required \"id\"")
	}
	if w.Format == "" {
		return wireErrf("credential query %q missing required \"format\"", w.ID)
	}
	for _, ta := range w.TrustedAuthorities {
		if ta.Type == "" {
			return wireErrf("credential query %q has a trusted authority missing required \"type\"", w.ID)
		}
		if len(ta.Values) == 0 {
			return wireErrf("credential query %q has a trusted authority missing required \"values\"", w.ID)
		}
	}
	c.ID = w.ID
	c.Format = w.Format
	c.Meta = w.Meta
	c.Claims = w.Claims
	c.TrustedAuthorities = w.TrustedAuthorities
	c.ClaimSets = nil
	if len(w.ClaimSets) > 0 {
		c.ClaimSets = []ClaimSetQuery{{Options: w.ClaimSets}}
	}
	return nil
}

// MarshalJSON encodes a CredentialQuery, flattening every ClaimSetQuery's
// Options into one claim_sets array-of-arrays, preserving order.
func (c CredentialQuery) MarshalJSON() ([]byte, error) {
	w := credentialQueryWire{
		ID:                 c.ID,
		Format:             c.Format,
		Meta:               c.Meta,
		Claims:             c.Claims,
		TrustedAuthorities: c.TrustedAuthorities,
	}
	for _, cs := range c.ClaimSets {
		w.ClaimSets = append(w.ClaimSets, cs.Options...)
	}
	return json.Marshal(w)
}

type claimsQueryWire struct {
	ID             string            `json:"id,omitempty"`
	Path           []json.RawMessage `json:"path"`
	Values         []json.RawMessage `json:"values,omitempty"`
	IntentToRetain *bool             `json:"intent_to_retain,omitempty"`
}

// UnmarshalJSON decodes a ClaimsQuery, dispatching each path element by
// its JSON token shape (string -> key, non-negative integer -> index,
// null -> wildcard) and unboxing each values element to string, int64
// (integral numbers), float64 (other numbers), or bool.
func (c *ClaimsQuery) UnmarshalJSON(data []byte) error {
	var w claimsQueryWire
	if err := strictUnmarshal(data, &w); err != nil {
		return err
	}
	if len(w.Path) == 0 {
		return wireErrf("claims query missing required \"path\"")
	}
	pattern := make(ClaimPattern, len(w.Path))
	for i, raw := range w.Path {
		seg, err := decodePatternSegment(raw)
		if err != nil {
			return err
		}
		pattern[i] = seg
	}
	var values []any
	for _, raw := range w.Values {
		v, err := decodeWireValue(raw)
		if err != nil {
			return err
		}
		values = append(values, v)
	}
	c.ID = w.ID
	c.Path = pattern
	c.Values = values
	c.IntentToRetain = w.IntentToRetain
	c.Required = nil
	return nil
}

// MarshalJSON encodes a ClaimsQuery, rendering each path segment back to
// its wire token (string, integer, or null).
func (c ClaimsQuery) MarshalJSON() ([]byte, error) {
	path := make([]json.RawMessage, len(c.Path))
	for i, seg := range c.Path {
		raw, err := encodePatternSegment(seg)
		if err != nil {
			return nil, err
		}
		path[i] = raw
	}
	var values []json.RawMessage
	for _, v := range c.Values {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		values = append(values, raw)
	}
	w := claimsQueryWire{
		ID:             c.ID,
		Path:           path,
		Values:         values,
		IntentToRetain: c.IntentToRetain,
	}
	return json.Marshal(w)
}

func decodePatternSegment(raw json.RawMessage) (PatternSegment, error) {
	trimmed := bytes.TrimSpace(raw)
	if string(trimmed) == "null" {
		return WildcardSegment(), nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return PatternSegment{}, wireErrf("invalid path segment: %v", err)
		}
		return KeySegment(s), nil
	}
	var n int
	if err := json.Unmarshal(trimmed, &n); err != nil || n < 0 {
		return PatternSegment{}, wireErrf("path segment must be a string, non-negative integer, or null; got %s", trimmed)
	}
	return IndexSegment(n), nil
}

func encodePatternSegment(seg PatternSegment) (json.RawMessage, error) {
	switch {
	case seg.IsWildcard():
		return json.RawMessage("null"), nil
	case seg.IsIndex():
		return json.Marshal(seg.index)
	default:
		return json.Marshal(seg.key)
	}
}

func decodeWireValue(raw json.RawMessage) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	switch {
	case string(trimmed) == "true":
		return true, nil
	case string(trimmed) == "false":
		return false, nil
	case len(trimmed) > 0 && trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, wireErrf("invalid values entry: %v", err)
		}
		return s, nil
	default:
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		var num json.Number
		if err := dec.Decode(&num); err != nil {
			return nil, wireErrf("values entry must be a string, number, or boolean: %v", err)
		}
		if i, err := num.Int64(); err == nil {
			return i, nil
		}
		f, err := num.Float64()
		if err != nil {
			return nil, wireErrf("invalid numeric values entry: %v", err)
		}
		return f, nil
	}
}

// strictUnmarshal decodes data into v, rejecting unknown fields so a
// malformed DCQL request surfaces as an ErrJsonWire rather than being
// silently accepted with dropped fields.
func strictUnmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return wireErrf("%v", err)
	}
	return nil
}
