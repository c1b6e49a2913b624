package auth

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*chi.Mux, *memRepo) {
	t.Helper()
	repo := newMemRepo()
	service, _ := newTestService(repo)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(logger, service)

	r := chi.NewRouter()
	r.Route("/api/v1/auth", handler.MountRoutes)
	return r, repo
}

func doJSON(t *testing.T, router http.Handler, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func TestRegisterEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	res := doJSON(t, router, http.MethodPost, "/api/v1/auth/register",
		`{"email":"a@x.com","name":"alice","password":"pw1secret","first_name":"Alice"}`, nil)
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, "a@x.com", body["email"])
	assert.Equal(t, "alice", body["name"])
	assert.Equal(t, "Alice", body["first_name"])
	assert.NotContains(t, body, "hashed_password")
}

func TestRegisterEndpointConflicts(t *testing.T) {
	router, _ := newTestRouter(t)

	res := doJSON(t, router, http.MethodPost, "/api/v1/auth/register",
		`{"email":"a@x.com","name":"alice","password":"pw1secret"}`, nil)
	require.Equal(t, http.StatusCreated, res.Code)

	res = doJSON(t, router, http.MethodPost, "/api/v1/auth/register",
		`{"email":"a@x.com","name":"someone","password":"pw1secret"}`, nil)
	assert.Equal(t, http.StatusConflict, res.Code)
	assert.Contains(t, res.Body.String(), "email")

	res = doJSON(t, router, http.MethodPost, "/api/v1/auth/register",
		`{"email":"b@x.com","name":"alice","password":"pw1secret"}`, nil)
	assert.Equal(t, http.StatusConflict, res.Code)
	assert.Contains(t, res.Body.String(), "name")
}

func TestRegisterEndpointValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	res := doJSON(t, router, http.MethodPost, "/api/v1/auth/register",
		`{"email":"not-an-email","name":"alice","password":"pw1secret"}`, nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = doJSON(t, router, http.MethodPost, "/api/v1/auth/register", `{not json`, nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestLoginEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	res := doJSON(t, router, http.MethodPost, "/api/v1/auth/register",
		`{"email":"a@x.com","name":"alice","password":"pw1secret"}`, nil)
	require.Equal(t, http.StatusCreated, res.Code)

	res = doJSON(t, router, http.MethodPost, "/api/v1/auth/login",
		`{"email":"a@x.com","password":"pw1secret"}`, nil)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	var body map[string]string
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.Equal(t, "bearer", body["token_type"])
	assert.NotEmpty(t, body["access_token"])

	res = doJSON(t, router, http.MethodPost, "/api/v1/auth/login",
		`{"email":"a@x.com","password":"wrongpass"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "Bearer", res.Header().Get("WWW-Authenticate"))
}

func TestMeEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	res := doJSON(t, router, http.MethodPost, "/api/v1/auth/register",
		`{"email":"a@x.com","name":"alice","password":"pw1secret"}`, nil)
	require.Equal(t, http.StatusCreated, res.Code)

	res = doJSON(t, router, http.MethodPost, "/api/v1/auth/login",
		`{"email":"a@x.com","password":"pw1secret"}`, nil)
	require.Equal(t, http.StatusOK, res.Code)

	var login map[string]string
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &login))

	header := http.Header{}
	header.Set("Authorization", "Bearer "+login["access_token"])
	res = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", "", header)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	assert.Contains(t, res.Body.String(), "a@x.com")

	res = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	header.Set("Authorization", "Bearer garbage")
	res = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", "", header)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}
