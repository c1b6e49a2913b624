package federation

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/signet-id/signet/internal/platform/httpx"
	"github.com/signet-id/signet/internal/users"
)

// Handler wires HTTP endpoints for federated login.
type Handler struct {
	logger   *slog.Logger
	resolver *Resolver
	client   *Client
	states   *StateStore
}

// NewHandler constructs a Handler instance. The state store is optional
// hardening; when nil the login redirect carries no state parameter.
func NewHandler(logger *slog.Logger, resolver *Resolver, client *Client, states *StateStore) *Handler {
	return &Handler{
		logger:   logger,
		resolver: resolver,
		client:   client,
		states:   states,
	}
}

// MountRoutes registers federated login routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/login", h.handleLogin)
	r.Get("/callback", h.handleCallback)
	r.Post("/auth", h.handleAuth)
}

type authRequest struct {
	Code       string `json:"code"`
	Credential string `json:"credential"`
}

type userPayload struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	FirstName    *string   `json:"first_name,omitempty"`
	LastName     *string   `json:"last_name,omitempty"`
	CreationDate time.Time `json:"creation_date"`
}

type callbackResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        userPayload `json:"user"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func newUserPayload(user *users.User) userPayload {
	return userPayload{
		ID:           user.ID,
		Email:        user.Email,
		Name:         user.Name,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		CreationDate: user.CreationDate,
	}
}

// handleLogin redirects the browser to the provider's authorization
// page.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	state := ""
	if h.states != nil {
		issued, err := h.states.Issue(r.Context())
		if err != nil {
			// State is replay hardening, not a login dependency.
			h.logger.Warn("issue oauth state", slog.Any("error", err))
		} else {
			state = issued
		}
	}
	http.Redirect(w, r, h.client.AuthCodeURL(state), http.StatusSeeOther)
}

// handleCallback finishes the authorization-code flow started by
// handleLogin.
func (h *Handler) handleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "missing authorization code")
		return
	}

	if state := r.URL.Query().Get("state"); state != "" && h.states != nil {
		ok, err := h.states.Consume(r.Context(), state)
		if err != nil {
			h.logger.Warn("consume oauth state", slog.Any("error", err))
		} else if !ok {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "unknown or reused state")
			return
		}
	}

	result, err := h.resolver.ResolveCode(r.Context(), code)
	if err != nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "federated authentication failed")
		return
	}
	httpx.JSON(w, http.StatusOK, callbackResponse{
		AccessToken: result.AccessToken,
		TokenType:   "bearer",
		User:        newUserPayload(result.User),
	})
}

// handleAuth accepts either an authorization code or a raw provider
// credential (ID token) from an API client. The credential path wins
// when both are present.
func (h *Handler) handleAuth(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "request body must be valid JSON")
		return
	}
	if req.Code == "" && req.Credential == "" {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "either code or credential is required")
		return
	}

	var (
		result *Result
		err    error
	)
	if req.Credential != "" {
		result, err = h.resolver.ResolveAssertion(r.Context(), req.Credential)
	} else {
		result, err = h.resolver.ResolveCode(r.Context(), req.Code)
	}
	if err != nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "federated authentication failed")
		return
	}
	httpx.JSON(w, http.StatusOK, tokenResponse{AccessToken: result.AccessToken, TokenType: "bearer"})
}
