// Package federation maps external identity-provider assertions onto
// local accounts and issues local bearer tokens for them.
package federation

import "strings"

// Profile holds the identity claims extracted from the provider, either
// from the userinfo endpoint or from a decoded ID token.
type Profile struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

// DisplayName returns the profile name, falling back to the local part
// of the email address when the provider supplies none.
func (p Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	if at := strings.Index(p.Email, "@"); at > 0 {
		return p.Email[:at]
	}
	return p.Email
}
