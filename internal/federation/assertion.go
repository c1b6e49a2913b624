package federation

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

// ErrMalformedAssertion indicates an ID token that could not be split
// or decoded.
var ErrMalformedAssertion = errors.New("malformed identity assertion")

// DecodeAssertion extracts the claims from a provider ID token WITHOUT
// verifying its signature, issuer, audience, or expiry. Any well-formed
// payload is accepted as true. This matches the legacy client contract;
// deployments that need real verification enable the OIDC Verifier
// instead.
func DecodeAssertion(assertion string) (Profile, error) {
	segments := strings.Split(assertion, ".")
	if len(segments) < 2 {
		return Profile{}, ErrMalformedAssertion
	}

	payload := segments[1]
	if m := len(payload) % 4; m != 0 {
		payload += strings.Repeat("=", 4-m)
	}
	raw, err := base64.URLEncoding.DecodeString(payload)
	if err != nil {
		return Profile{}, ErrMalformedAssertion
	}

	var profile Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return Profile{}, ErrMalformedAssertion
	}
	return profile, nil
}

// UnverifiedDecoder adapts DecodeAssertion to the AssertionDecoder
// interface used by the Resolver.
type UnverifiedDecoder struct{}

// DecodeProfile decodes the assertion payload without verification.
func (UnverifiedDecoder) DecodeProfile(_ context.Context, assertion string) (Profile, error) {
	return DecodeAssertion(assertion)
}
