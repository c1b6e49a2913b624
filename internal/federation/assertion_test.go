package federation

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildAssertion(t *testing.T, claims map[string]any) string {
	t.Helper()
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`))
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".signature"
}

func TestDecodeAssertion(t *testing.T) {
	assertion := buildAssertion(t, map[string]any{
		"email":       "b@x.com",
		"given_name":  "Bo",
		"family_name": "Brown",
	})

	profile, err := DecodeAssertion(assertion)
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", profile.Email)
	assert.Equal(t, "Bo", profile.GivenName)
	assert.Equal(t, "Brown", profile.FamilyName)
	assert.Equal(t, "b", profile.DisplayName(), "name falls back to the local part of the email")
}

func TestDecodeAssertionTooFewSegments(t *testing.T) {
	_, err := DecodeAssertion("onlyonesegment")
	assert.ErrorIs(t, err, ErrMalformedAssertion)
}

func TestDecodeAssertionBadBase64(t *testing.T) {
	_, err := DecodeAssertion("header.!!!not-base64!!!.sig")
	assert.ErrorIs(t, err, ErrMalformedAssertion)
}

func TestDecodeAssertionBadJSON(t *testing.T) {
	payload := base64.RawURLEncoding.EncodeToString([]byte("not json"))
	_, err := DecodeAssertion("header." + payload + ".sig")
	assert.ErrorIs(t, err, ErrMalformedAssertion)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Bo Brown", Profile{Name: "Bo Brown", Email: "b@x.com"}.DisplayName())
	assert.Equal(t, "b", Profile{Email: "b@x.com"}.DisplayName())
	assert.Equal(t, "@x.com", Profile{Email: "@x.com"}.DisplayName())
}
