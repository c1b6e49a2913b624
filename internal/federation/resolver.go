package federation

import (
	"context"
	"errors"
	"log/slog"

	"github.com/signet-id/signet/internal/auth"
	"github.com/signet-id/signet/internal/users"
)

// ErrProviderFailure indicates that federated resolution failed at some
// step. The cause is logged server-side and never leaked to the caller.
var ErrProviderFailure = errors.New("federated authentication failed")

// Provider abstracts the outbound calls of the authorization-code flow.
type Provider interface {
	Exchange(ctx context.Context, code string) (string, error)
	UserInfo(ctx context.Context, accessToken string) (Profile, error)
}

// AssertionDecoder abstracts the two ID-token paths: the unverified
// compatibility decode and the OIDC-verifying variant.
type AssertionDecoder interface {
	DecodeProfile(ctx context.Context, assertion string) (Profile, error)
}

// Result is a successful federated login: a local bearer token plus the
// reconciled account.
type Result struct {
	AccessToken string
	User        *users.User
}

// Resolver converges both federated entry protocols onto the same
// find-or-create reconciliation and local token issuance.
type Resolver struct {
	logger   *slog.Logger
	provider Provider
	decoder  AssertionDecoder
	repo     users.Repository
	tokens   *auth.TokenIssuer
}

// NewResolver constructs a Resolver.
func NewResolver(logger *slog.Logger, provider Provider, decoder AssertionDecoder, repo users.Repository, tokens *auth.TokenIssuer) *Resolver {
	return &Resolver{
		logger:   logger,
		provider: provider,
		decoder:  decoder,
		repo:     repo,
		tokens:   tokens,
	}
}

// ResolveCode runs the authorization-code flow: exchange the code,
// fetch the profile, reconcile, issue a local token.
func (r *Resolver) ResolveCode(ctx context.Context, code string) (*Result, error) {
	if code == "" {
		return nil, ErrProviderFailure
	}
	accessToken, err := r.provider.Exchange(ctx, code)
	if err != nil {
		r.logger.Warn("code exchange failed", slog.Any("error", err))
		return nil, ErrProviderFailure
	}
	profile, err := r.provider.UserInfo(ctx, accessToken)
	if err != nil {
		r.logger.Warn("userinfo fetch failed", slog.Any("error", err))
		return nil, ErrProviderFailure
	}
	return r.reconcile(ctx, profile)
}

// ResolveAssertion runs the direct ID-token flow: decode (or verify)
// the assertion, reconcile, issue a local token.
func (r *Resolver) ResolveAssertion(ctx context.Context, assertion string) (*Result, error) {
	if assertion == "" {
		return nil, ErrProviderFailure
	}
	profile, err := r.decoder.DecodeProfile(ctx, assertion)
	if err != nil {
		r.logger.Warn("assertion decode failed", slog.Any("error", err))
		return nil, ErrProviderFailure
	}
	return r.reconcile(ctx, profile)
}

// reconcile is the single convergence point for both flows:
// create-or-update the account by email, then mint a local token.
// Repeated calls with the same profile are idempotent.
func (r *Resolver) reconcile(ctx context.Context, profile Profile) (*Result, error) {
	if profile.Email == "" {
		r.logger.Warn("provider profile missing email")
		return nil, ErrProviderFailure
	}

	var first, last *string
	if profile.GivenName != "" {
		first = &profile.GivenName
	}
	if profile.FamilyName != "" {
		last = &profile.FamilyName
	}

	user, err := r.repo.UpsertFederated(ctx, profile.Email, profile.DisplayName(), first, last)
	if err != nil {
		r.logger.Error("reconcile federated user", slog.String("email", profile.Email), slog.Any("error", err))
		return nil, ErrProviderFailure
	}

	token, err := r.tokens.Issue(user.ID)
	if err != nil {
		r.logger.Error("issue token", slog.Int64("user_id", user.ID), slog.Any("error", err))
		return nil, ErrProviderFailure
	}
	return &Result{AccessToken: token, User: user}, nil
}
