package federation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ProviderConfig carries the OAuth2 client credentials and endpoints of
// the external identity provider. Endpoints default to Google's in the
// application config.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
	Issuer       string
}

// Client performs the server-to-server half of the authorization-code
// flow. Calls are single-attempt with a bounded timeout; a failure at
// any step aborts the whole flow.
type Client struct {
	cfg  ProviderConfig
	http *http.Client
}

// NewClient constructs a provider client.
func NewClient(cfg ProviderConfig) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// AuthCodeURL builds the provider's authorization redirect URL. The
// state parameter is included when non-empty.
func (c *Client) AuthCodeURL(state string) string {
	v := url.Values{}
	v.Set("client_id", c.cfg.ClientID)
	v.Set("response_type", "code")
	v.Set("scope", "openid email profile")
	v.Set("redirect_uri", c.cfg.RedirectURI)
	if state != "" {
		v.Set("state", state)
	}
	return c.cfg.AuthURL + "?" + v.Encode()
}

// Exchange trades an authorization code for a provider access token.
func (c *Client) Exchange(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("code", code)
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", c.cfg.RedirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("federation: build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("federation: token endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("federation: token endpoint returned %s", resp.Status)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("federation: decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("federation: token response missing access_token")
	}
	return payload.AccessToken, nil
}

// UserInfo fetches the provider's profile for the given access token.
func (c *Client) UserInfo(ctx context.Context, accessToken string) (Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.UserInfoURL, nil)
	if err != nil {
		return Profile{}, fmt.Errorf("federation: build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("federation: userinfo endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Profile{}, fmt.Errorf("federation: userinfo endpoint returned %s", resp.Status)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return Profile{}, fmt.Errorf("federation: decode userinfo response: %w", err)
	}
	if profile.Email == "" {
		return Profile{}, fmt.Errorf("federation: userinfo response missing email")
	}
	return profile, nil
}
