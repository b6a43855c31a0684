package configuration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

const mockTemplateYAML = `
id: pid_given_name
name: PID given name
description: Requests the given name claim from a PID
oidc_scopes:
  - pid
dcql:
  credentials:
    - id: cred1
      format: dc+sd-jwt
      meta:
        vct_values: ["urn:eudi:pid:1"]
      claims:
        - id: given_name
          path: ["given_name"]
claim_mappings:
  given_name: given_name
enabled: true
`

func TestLoadTemplateFileDecodesDCQLThroughCodec(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "pid.yaml")
	if err := os.WriteFile(path, []byte(mockTemplateYAML), 0o600); err != nil {
		t.Fatalf("write template: %v", err)
	}

	template, err := loadTemplateFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "pid_given_name", template.GetID())
	assert.Equal(t, []string{"pid"}, template.GetOIDCScopes())

	query := template.GetDCQLQuery()
	assert.NotNil(t, query)
	assert.Len(t, query.Credentials, 1)
	assert.Equal(t, "cred1", query.Credentials[0].ID)
	assert.Equal(t, "dc+sd-jwt", query.Credentials[0].Format)
	assert.Len(t, query.Credentials[0].Claims, 1)
	assert.Equal(t, "given_name", query.Credentials[0].Claims[0].EffectiveID())
}

func TestLoadPresentationRequestsRejectsDuplicateIDs(t *testing.T) {
	tempDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tempDir, "a.yaml"), []byte(mockTemplateYAML), 0o600); err != nil {
		t.Fatalf("write template a: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tempDir, "b.yaml"), []byte(mockTemplateYAML), 0o600); err != nil {
		t.Fatalf("write template b: %v", err)
	}

	_, err := LoadPresentationRequests(t.Context(), tempDir)
	assert.Error(t, err)
}

func TestGetTemplateByScopesFallsBackToDefault(t *testing.T) {
	config := &PresentationRequestConfig{
		Templates: []*PresentationRequestTemplate{
			{ID: "pid_given_name", OIDCScopes: []string{"pid"}, Enabled: true},
		},
		DefaultTemplate: "pid_given_name",
	}

	template, err := config.GetTemplateByScopes([]string{"unrelated_scope"})
	assert.NoError(t, err)
	assert.Equal(t, "pid_given_name", template.GetID())
}
