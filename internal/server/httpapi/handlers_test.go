package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asmolyar/webpen/internal/logging"
	"github.com/asmolyar/webpen/internal/server/config"
	"github.com/asmolyar/webpen/internal/server/profiles"
	"github.com/asmolyar/webpen/internal/server/projects"
	"github.com/asmolyar/webpen/internal/server/store"
	"github.com/asmolyar/webpen/internal/server/users"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	st := store.NewFileStore(filepath.Join(t.TempDir(), "users_data.json"), logger)

	cfg := &config.Config{
		SecretKey:               "test-secret",
		SessionValidityDuration: time.Hour,
	}

	us := users.NewService(st, cfg, logger)
	ps := projects.NewService(st, logger)
	prs := profiles.NewService(st, nil, logger)

	srv := NewServer(":0", logger, us, ps, prs, cfg.SecretKey)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

// doJSON issues a request with an optional bearer token and decodes the JSON
// response into a generic map.
func doJSON(t *testing.T, ts *httptest.Server, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}

	// array responses (project listings) are checked by status only
	obj, _ := decoded.(map[string]any)
	return resp.StatusCode, obj
}

func registerAndLogin(t *testing.T, ts *httptest.Server, username, password string) string {
	t.Helper()

	status, _ := doJSON(t, ts, http.MethodPost, "/api/register", "", map[string]string{
		"username": username, "password": password,
	})
	require.Equal(t, http.StatusCreated, status)

	status, body := doJSON(t, ts, http.MethodPost, "/api/login", "", map[string]string{
		"username": username, "password": password,
	})
	require.Equal(t, http.StatusOK, status)

	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	status, body := doJSON(t, ts, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestRegisterDuplicateConflict(t *testing.T) {
	ts := newTestServer(t)

	status, _ := doJSON(t, ts, http.MethodPost, "/api/register", "", map[string]string{
		"username": "alice", "password": "pw1",
	})
	require.Equal(t, http.StatusCreated, status)

	status, body := doJSON(t, ts, http.MethodPost, "/api/register", "", map[string]string{
		"username": "alice", "password": "pw2",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "already exists", body["error"])
}

func TestLoginFailuresIndistinguishable(t *testing.T) {
	ts := newTestServer(t)
	registerAndLogin(t, ts, "alice", "pw1")

	wrongStatus, wrongBody := doJSON(t, ts, http.MethodPost, "/api/login", "", map[string]string{
		"username": "alice", "password": "nope",
	})
	unknownStatus, unknownBody := doJSON(t, ts, http.MethodPost, "/api/login", "", map[string]string{
		"username": "nobody", "password": "pw1",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongStatus)
	assert.Equal(t, unknownStatus, wrongStatus)
	assert.Equal(t, unknownBody, wrongBody)
}

func TestAuthenticatedEndpointsRejectMissingToken(t *testing.T) {
	ts := newTestServer(t)

	status, body := doJSON(t, ts, http.MethodGet, "/api/projects", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "unauthenticated", body["error"])

	status, _ = doJSON(t, ts, http.MethodGet, "/api/projects", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestSessionCookieAuth(t *testing.T) {
	ts := newTestServer(t)
	registerAndLogin(t, ts, "alice", "pw1")

	// log in again to capture the cookie
	raw, err := json.Marshal(map[string]string{"username": "alice", "password": "pw1"})
	require.NoError(t, err)
	resp, err := ts.Client().Post(ts.URL+"/api/login", "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	resp.Body.Close()

	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookieName {
			session = c
		}
	}
	require.NotNil(t, session)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/projects", nil)
	require.NoError(t, err)
	req.AddCookie(session)

	listResp, err := ts.Client().Do(req)
	require.NoError(t, err)
	listResp.Body.Close()
	assert.Equal(t, http.StatusOK, listResp.StatusCode)
}

func TestCreateProjectValidation(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndLogin(t, ts, "alice", "pw1")

	status, _ := doJSON(t, ts, http.MethodPost, "/api/projects", token, map[string]any{
		"html": "<p>no name</p>",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, ts, http.MethodGet, "/api/projects", token, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestProjectOwnershipMergedIntoNotFound(t *testing.T) {
	ts := newTestServer(t)
	aliceToken := registerAndLogin(t, ts, "alice", "pw1")
	bobToken := registerAndLogin(t, ts, "bob", "pw2")

	status, body := doJSON(t, ts, http.MethodPost, "/api/projects", aliceToken, map[string]any{
		"name": "secret",
	})
	require.Equal(t, http.StatusCreated, status)
	id := body["id"].(string)

	// bob probing alice's ID gets the same answer as probing a random ID
	status, ownedBody := doJSON(t, ts, http.MethodGet, "/api/projects/"+id, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
	randomStatus, randomBody := doJSON(t, ts, http.MethodGet, "/api/projects/does-not-exist", bobToken, nil)
	assert.Equal(t, randomStatus, status)
	assert.Equal(t, randomBody, ownedBody)

	status, _ = doJSON(t, ts, http.MethodPut, "/api/projects/"+id, bobToken, map[string]any{"public": true})
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = doJSON(t, ts, http.MethodDelete, "/api/projects/"+id, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// the unauthenticated view link still works even though the project is private
	status, viewBody := doJSON(t, ts, http.MethodGet, "/view/"+id, "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "secret", viewBody["name"])
}

func TestEndToEndScenario(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndLogin(t, ts, "alice", "pw1")

	// create {name:"Hello"}
	status, body := doJSON(t, ts, http.MethodPost, "/api/projects", token, map[string]any{
		"name": "Hello",
	})
	require.Equal(t, http.StatusCreated, status)
	id := body["id"].(string)

	// publish; omitted blobs must survive the partial update
	status, _ = doJSON(t, ts, http.MethodPut, "/api/projects/"+id, token, map[string]any{
		"public": true,
	})
	require.Equal(t, http.StatusOK, status)

	status, project := doJSON(t, ts, http.MethodGet, "/api/projects/"+id, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Hello", project["name"])
	assert.Equal(t, "", project["html"])
	assert.Equal(t, "", project["css"])
	assert.Equal(t, "", project["js"])
	assert.Equal(t, true, project["public"])

	// the public profile lists the published project
	status, profile := doJSON(t, ts, http.MethodGet, "/api/profiles/alice", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice", profile["display_name"])
	assert.Equal(t, float64(1), profile["project_count"])

	listed := profile["projects"].([]any)
	require.Len(t, listed, 1)
	entry := listed[0].(map[string]any)
	assert.Equal(t, id, entry["id"])
	assert.Equal(t, "Hello", entry["name"])
}

func TestEditProfileAndPublicView(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndLogin(t, ts, "alice", "pw1")

	status, _ := doJSON(t, ts, http.MethodPut, "/api/profile", token, map[string]any{
		"bio":          "I make pens",
		"display_name": "Alice A.",
	})
	require.Equal(t, http.StatusOK, status)

	// second partial edit leaves previous fields alone
	status, _ = doJSON(t, ts, http.MethodPut, "/api/profile", token, map[string]any{
		"about_me": "hello",
	})
	require.Equal(t, http.StatusOK, status)

	status, profile := doJSON(t, ts, http.MethodGet, "/api/profiles/alice", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Alice A.", profile["display_name"])
	assert.Equal(t, "I make pens", profile["bio"])
	assert.Equal(t, "hello", profile["about_me"])

	status, _ = doJSON(t, ts, http.MethodGet, "/api/profiles/nobody", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestConcurrentCreatesByDifferentUsers(t *testing.T) {
	ts := newTestServer(t)
	aliceToken := registerAndLogin(t, ts, "alice", "pw1")
	bobToken := registerAndLogin(t, ts, "bob", "pw2")

	done := make(chan struct{}, 2)
	for _, tc := range []struct{ token, name string }{
		{aliceToken, "alice-project"},
		{bobToken, "bob-project"},
	} {
		go func(token, name string) {
			defer func() { done <- struct{}{} }()
			status, _ := doJSON(t, ts, http.MethodPost, "/api/projects", token, map[string]any{"name": name})
			assert.Equal(t, http.StatusCreated, status)
		}(tc.token, tc.name)
	}
	<-done
	<-done

	// no lost update: each owner sees their own project
	status, _ := doJSON(t, ts, http.MethodGet, "/api/projects", aliceToken, nil)
	require.Equal(t, http.StatusOK, status)

	for token, want := range map[string]string{aliceToken: "alice-project", bobToken: "bob-project"} {
		req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/projects", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := ts.Client().Do(req)
		require.NoError(t, err)
		var list []map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
		resp.Body.Close()
		require.Len(t, list, 1)
		assert.Equal(t, want, list[0]["name"])
	}
}
