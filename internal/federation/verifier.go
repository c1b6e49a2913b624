package federation

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
)

// Verifier checks provider ID tokens against the issuer's published
// keys and audience before trusting their claims. It is the
// production-intended replacement for UnverifiedDecoder.
type Verifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewVerifier discovers the issuer's OIDC configuration and builds a
// token verifier bound to the configured client ID.
func NewVerifier(ctx context.Context, issuer, clientID string) (*Verifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("federation: discover issuer: %w", err)
	}
	return &Verifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

// DecodeProfile verifies the assertion and extracts its claims.
func (v *Verifier) DecodeProfile(ctx context.Context, assertion string) (Profile, error) {
	idToken, err := v.verifier.Verify(ctx, assertion)
	if err != nil {
		return Profile{}, fmt.Errorf("federation: verify assertion: %w", err)
	}
	var profile Profile
	if err := idToken.Claims(&profile); err != nil {
		return Profile{}, fmt.Errorf("federation: decode claims: %w", err)
	}
	return profile, nil
}
