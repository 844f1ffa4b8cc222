package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/TheJazzDev/orits-fashion/internal/config"
	"github.com/TheJazzDev/orits-fashion/internal/http/handlers"
	"github.com/TheJazzDev/orits-fashion/internal/repos"
	"github.com/TheJazzDev/orits-fashion/internal/services"
)

const (
	adminEmail    = "owner@oritsfashion.test"
	adminPassword = "Passw0rd!"
)

type testEnv struct {
	app *fiber.App
	db  *sqlx.DB
	cfg config.Config
}

func testConfig() config.Config {
	return config.Config{
		TemplatesDir:      "../../web/templates",
		StaticDir:         "../../web/static",
		SiteURL:           "https://oritsfashion.test",
		SessionTTL:        time.Hour,
		DegradeListErrors: true,
	}
}

// newEnv builds the real app over an in-memory database.
func newEnv(t *testing.T, tweak ...func(*config.Config)) *testEnv {
	t.Helper()
	return newEnvWithStore(t, nil, tweak...)
}

// newEnvWithStore is newEnv with an image host behind /api/upload.
func newEnvWithStore(t *testing.T, images services.ImageStore, tweak ...func(*config.Config)) *testEnv {
	t.Helper()
	cfg := testConfig()
	for _, f := range tweak {
		f(&cfg)
	}
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	deps := handlers.NewDeps(db, cfg, images, nil)
	return &testEnv{app: handlers.NewApp(cfg, deps), db: db, cfg: cfg}
}

// do runs a request without the default one second test timeout; bcrypt at
// cost 12 can exceed it.
func (e *testEnv) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) get(t *testing.T, path string, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return e.do(t, req)
}

func (e *testEnv) jsonReq(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return e.do(t, req)
}

// postForm sends a urlencoded form with the CSRF token in both the cookie
// and the form field.
func (e *testEnv) postForm(t *testing.T, path, csrfTok string, form url.Values, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	if csrfTok != "" {
		form.Set("csrf", csrfTok)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if csrfTok != "" {
		req.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return e.do(t, req)
}

func (e *testEnv) csrf(t *testing.T) string {
	t.Helper()
	tok := cookieValue(e.get(t, "/admin/login"), "csrf_")
	require.NotEmpty(t, tok, "csrf cookie missing")
	return tok
}

func (e *testEnv) seedAdmin(t *testing.T) {
	t.Helper()
	resp := e.jsonReq(t, http.MethodPost, "/api/seed", map[string]string{
		"name": "Orit", "email": adminEmail, "password": adminPassword,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

// login seeds the admin and returns the session cookie plus a CSRF token.
func (e *testEnv) login(t *testing.T) (*http.Cookie, string) {
	t.Helper()
	e.seedAdmin(t)
	tok := e.csrf(t)
	resp := e.postForm(t, "/admin/login", tok, url.Values{"email": {adminEmail}, "password": {adminPassword}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	sid := cookieValue(resp, "sid")
	require.NotEmpty(t, sid)
	return &http.Cookie{Name: "sid", Value: sid}, tok
}

func (e *testEnv) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}

func cookieValue(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	UserID string         `json:"user_id"`
	Status int            `json:"status"`
	Err    string         `json:"err"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

// captureLogs collects the JSON log lines written while fn runs.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf lockedBuf
	oldW, oldFlags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.b.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &e); err == nil && e.Action != "" {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
