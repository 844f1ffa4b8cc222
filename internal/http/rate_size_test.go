package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalRateLimit(t *testing.T) {
	e := newEnv(t)
	limited := false
	for i := 0; i < 130; i++ {
		resp := e.get(t, "/api/categories")
		if resp.StatusCode == http.StatusTooManyRequests {
			require.GreaterOrEqual(t, i, 120, "rate limit hit too early")
			limited = true
			break
		}
	}
	assert.True(t, limited, "expected 429 after the per-minute budget")

	// health checks are exempt
	assert.Equal(t, http.StatusOK, e.get(t, "/healthz").StatusCode)
}

func TestBodySizeLimit(t *testing.T) {
	e := newEnv(t)

	oversize := bytes.Repeat([]byte("A"), (12<<20)+10)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", bytes.NewReader(oversize))
	req.Header.Set("Content-Type", "application/json")
	resp, err := e.app.Test(req, -1)
	// fasthttp may refuse the body before a response is produced
	if err != nil {
		if strings.Contains(err.Error(), "body size exceeds") || strings.Contains(err.Error(), "too large") {
			return
		}
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Equal(t, 0, e.count(t, "gallery_images"))
}

func TestImageSizedBodyAccepted(t *testing.T) {
	e := newEnv(t)
	sid, _ := e.login(t)

	// a few MiB of data URI must reach the handler, which then reports the
	// missing image host rather than a size error
	payload := `{"image":"data:image/png;base64,` + strings.Repeat("A", 4<<20) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(sid)
	resp := e.do(t, req)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
