package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"authgate.org/internal/auth"
	"authgate.org/internal/users"
)

type apiClient struct {
	baseURL string
	client  *http.Client
	t       *testing.T
}

func newTestAPI(t *testing.T) *apiClient {
	t.Helper()

	store := auth.NewMemoryStore()
	digest, err := auth.HashPassword("Admin123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := store.Insert(context.Background(), &auth.Credential{
		Username:       "admin",
		PasswordDigest: digest,
		Email:          "admin@example.com",
		Role:           auth.RoleAdmin,
	}); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	tokens, err := auth.NewTokens("test-secret", "authgate", "authgate-clients")
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}

	api := New(ReadyProbe{}, "test", tokens, auth.NewService(store, tokens), users.NewService(users.NewMemoryStore()))
	api.rateBurst = 1000
	api.ratePerSec = 1000

	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)

	return &apiClient{
		baseURL: srv.URL,
		client:  srv.Client(),
		t:       t,
	}
}

func (c *apiClient) do(method, path string, body any, headers map[string]string) *http.Response {
	c.t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
	}
	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.t.Fatalf("do request: %v", err)
	}
	return resp
}

func (c *apiClient) decode(resp *http.Response, dst any) {
	c.t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		c.t.Fatalf("decode response: %v", err)
	}
}

func (c *apiClient) login(username, password string) sessionResponse {
	c.t.Helper()
	resp := c.do(http.MethodPost, "/auth/login", credentialsRequest{Username: username, Password: password}, nil)
	if resp.StatusCode != http.StatusOK {
		c.t.Fatalf("login %s: status %d", username, resp.StatusCode)
	}
	var session sessionResponse
	c.decode(resp, &session)
	return session
}

func bearerHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestRegisterLoginScenario(t *testing.T) {
	c := newTestAPI(t)

	resp := c.do(http.MethodPost, "/auth/register", credentialsRequest{Username: "alice", Password: "Passw0rd"}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("register: status %d", resp.StatusCode)
	}
	var reg map[string]string
	c.decode(resp, &reg)
	if reg["message"] == "" {
		t.Fatal("expected confirmation message")
	}

	session := c.login("alice", "Passw0rd")
	if session.Token == "" {
		t.Fatal("expected non-empty token")
	}
	if session.Role != auth.RoleUser {
		t.Fatalf("role = %q, want %q", session.Role, auth.RoleUser)
	}
	if session.Username != "alice" {
		t.Fatalf("username = %q", session.Username)
	}

	resp = c.do(http.MethodPost, "/auth/login", credentialsRequest{Username: "alice", Password: "Wrong1pass"}, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong password: status %d, want 401", resp.StatusCode)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	c := newTestAPI(t)

	resp := c.do(http.MethodPost, "/auth/register", credentialsRequest{Username: "alice", Password: "Passw0rd"}, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first register: status %d", resp.StatusCode)
	}

	resp = c.do(http.MethodPost, "/auth/register", credentialsRequest{Username: "alice", Password: "Other1pass"}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate register: status %d, want 400", resp.StatusCode)
	}
	var body map[string]any
	c.decode(resp, &body)
	if body["error"] != "Username already exists" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestRegisterValidationErrors(t *testing.T) {
	c := newTestAPI(t)

	resp := c.do(http.MethodPost, "/auth/register", credentialsRequest{Username: "ab", Password: "short"}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", resp.StatusCode)
	}
	var body struct {
		Errors []string `json:"errors"`
	}
	c.decode(resp, &body)
	if len(body.Errors) == 0 {
		t.Fatal("expected validation messages")
	}
}

func TestLoginFailuresLookAlike(t *testing.T) {
	c := newTestAPI(t)

	resp := c.do(http.MethodPost, "/auth/register", credentialsRequest{Username: "alice", Password: "Passw0rd"}, nil)
	resp.Body.Close()

	wrongPassword := c.do(http.MethodPost, "/auth/login", credentialsRequest{Username: "alice", Password: "Wrong1pass"}, nil)
	unknownUser := c.do(http.MethodPost, "/auth/login", credentialsRequest{Username: "mallory", Password: "Wrong1pass"}, nil)

	if wrongPassword.StatusCode != http.StatusUnauthorized || unknownUser.StatusCode != http.StatusUnauthorized {
		t.Fatalf("statuses %d/%d, want 401/401", wrongPassword.StatusCode, unknownUser.StatusCode)
	}
	var a, b map[string]any
	c.decode(wrongPassword, &a)
	c.decode(unknownUser, &b)
	if a["error"] != b["error"] {
		t.Fatalf("outcomes must not differ: %v vs %v", a["error"], b["error"])
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	c := newTestAPI(t)

	resp := c.do(http.MethodGet, "/api/users", nil, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no token: status %d, want 401", resp.StatusCode)
	}

	resp = c.do(http.MethodGet, "/api/users", nil, bearerHeader("not-a-token"))
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("garbage token: status %d, want 401", resp.StatusCode)
	}
}

func TestDirectoryCRUD(t *testing.T) {
	c := newTestAPI(t)

	admin := c.login("admin", "Admin123")
	if admin.Role != auth.RoleAdmin {
		t.Fatalf("seeded admin role = %q", admin.Role)
	}

	resp := c.do(http.MethodPost, "/api/users", profileRequest{Name: "Alice Smith", Email: "alice@example.com"}, bearerHeader(admin.Token))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status %d, want 201", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc == "" {
		t.Fatal("expected Location header")
	}
	var created users.Profile
	c.decode(resp, &created)

	resp = c.do(http.MethodGet, "/api/users/"+created.ID, nil, bearerHeader(admin.Token))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: status %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = c.do(http.MethodPut, "/api/users/"+created.ID, profileRequest{Name: "Alice Jones", Email: "jones@example.com"}, bearerHeader(admin.Token))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: status %d", resp.StatusCode)
	}
	var updated users.Profile
	c.decode(resp, &updated)
	if updated.Name != "Alice Jones" {
		t.Fatalf("updated name = %q", updated.Name)
	}

	resp = c.do(http.MethodDelete, "/api/users/"+created.ID, nil, bearerHeader(admin.Token))
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: status %d, want 204", resp.StatusCode)
	}

	resp = c.do(http.MethodGet, "/api/users/"+created.ID, nil, bearerHeader(admin.Token))
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete: status %d, want 404", resp.StatusCode)
	}
}

func TestDirectoryMutationsNeedAdminRole(t *testing.T) {
	c := newTestAPI(t)

	resp := c.do(http.MethodPost, "/auth/register", credentialsRequest{Username: "alice", Password: "Passw0rd"}, nil)
	resp.Body.Close()
	session := c.login("alice", "Passw0rd")

	// Reads are open to any authenticated user.
	resp = c.do(http.MethodGet, "/api/users", nil, bearerHeader(session.Token))
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list as user: status %d, want 200", resp.StatusCode)
	}

	resp = c.do(http.MethodPost, "/api/users", profileRequest{Name: "Bob Stone", Email: "bob@example.com"}, bearerHeader(session.Token))
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("create as user: status %d, want 403", resp.StatusCode)
	}
}

func TestPublicEndpoints(t *testing.T) {
	c := newTestAPI(t)

	for _, path := range []string{"/", "/healthz", "/readyz", "/hello/world", "/metrics"} {
		resp := c.do(http.MethodGet, path, nil, nil)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s: status %d, want 200", path, resp.StatusCode)
		}
	}
}
