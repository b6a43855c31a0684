package dcql

import (
	"encoding/json"
	"testing"
)

func TestDecodeQueryHeterogeneousPath(t *testing.T) {
	wire := `{
		"credentials": [{
			"id": "cred1",
			"format": "dc+sd-jwt",
			"meta": {"vct_values": ["urn:eudi:pid:1"]},
			"claims": [
				{"id": "a", "path": ["citizenship", null, "country"]},
				{"path": ["given_name"], "values": ["Alice", "Bob"]},
				{"path": [1, 0]}
			],
			"claim_sets": [["a"]]
		}],
		"credential_sets": [{"options": [["cred1"]]}]
	}`

	q, err := DecodeQuery([]byte(wire))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(q.Credentials) != 1 {
		t.Fatalf("expected 1 credential query")
	}
	cq := q.Credentials[0]
	if cq.ID != "cred1" || cq.Format != "dc+sd-jwt" {
		t.Fatalf("unexpected credential query: %+v", cq)
	}
	if len(cq.Claims) != 3 {
		t.Fatalf("expected 3 claims, got %d", len(cq.Claims))
	}
	wildcardPattern := cq.Claims[0].Path
	if !wildcardPattern[1].IsWildcard() {
		t.Fatalf("expected second segment to be a wildcard")
	}
	indexPattern := cq.Claims[2].Path
	if !indexPattern[0].IsIndex() || !indexPattern[1].IsIndex() {
		t.Fatalf("expected integer path segments to decode as indices")
	}
	if len(cq.Claims[1].Values) != 2 {
		t.Fatalf("expected 2 acceptable values")
	}
	if len(cq.ClaimSets) != 1 || len(cq.ClaimSets[0].Options) != 1 {
		t.Fatalf("expected claim_sets to decode to one ClaimSetQuery with one option")
	}
}

func TestQueryJSONRoundTrip(t *testing.T) {
	wire := `{"credentials":[{"id":"cred1","format":"mso_mdoc","meta":{"doctype_value":"org.iso.18013.5.1.mDL"},"claims":[{"id":"dob","path":["org.iso.18013.5.1","birth_date"]}]}]}`

	q, err := DecodeQuery([]byte(wire))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	encoded, err := q.Encode()
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	var want, got any
	if err := json.Unmarshal([]byte(wire), &want); err != nil {
		t.Fatalf("unmarshal want: %v", err)
	}
	if err := json.Unmarshal(encoded, &got); err != nil {
		t.Fatalf("unmarshal got: %v", err)
	}
	wantJSON, _ := json.Marshal(want)
	gotJSON, _ := json.Marshal(got)
	if string(wantJSON) != string(gotJSON) {
		t.Fatalf("round trip mismatch:\nwant %s\ngot  %s", wantJSON, gotJSON)
	}
}

func TestDecodeQueryRejectsMissingID(t *testing.T) {
	_, err := DecodeQuery([]byte(`{"credentials":[{"format":"dc+sd-jwt"}]}`))
	if err == nil {
		t.Fatalf("expected decode error for missing id")
	}
}

func TestDecodeQueryRejectsEmptyCredentials(t *testing.T) {
	_, err := DecodeQuery([]byte(`{"credentials":[]}`))
	if err == nil {
		t.Fatalf("expected decode error for empty credentials")
	}
}
