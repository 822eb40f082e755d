package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nytinsight/internal/bootstrap"
	"nytinsight/internal/config"
	"nytinsight/internal/model"
)

type countingLimiter struct {
	limit int
	seen  map[string]int
}

func newCountingLimiter(limit int) *countingLimiter {
	return &countingLimiter{limit: limit, seen: map[string]int{}}
}

func (l *countingLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.seen[key]++
	return l.seen[key] <= l.limit, nil
}

func newTestApp(t *testing.T) *bootstrap.App {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"article1.txt": "Negotiators in Qatar said ceasefire talks on the hostages release continue.\n",
		"article2.txt": "Qatar negotiators described hostages release terms as ceasefire talks resumed.\n",
		"notes.csv":    "ceasefire,talks,hostages,release,negotiators,qatar,ignored,by,extension",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}

	app, err := bootstrap.NewWithConfig(context.Background(), &config.Config{
		App:      config.AppConfig{Name: "nytinsight", Env: "test", GinMode: "test", Version: "0.1.0"},
		Corpus:   config.CorpusConfig{Dir: dir},
		Composer: config.ComposerConfig{Provider: "static"},
	})
	require.NoError(t, err)
	return app
}

func newTestRouter(t *testing.T, app *bootstrap.App) http.Handler {
	t.Helper()
	router, err := NewRouter(app)
	require.NoError(t, err)
	return router
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_Ask(t *testing.T) {
	router := newTestRouter(t, newTestApp(t))

	w := doRequest(router, http.MethodPost, "/api/ask", `{"question":"ceasefire talks hostages release negotiators qatar"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var env struct {
		Code int             `json:"code"`
		Data model.AskResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, 0, env.Code)
	assert.Equal(t, model.ConfidenceHigh, env.Data.Confidence)
	assert.Len(t, env.Data.Citations, 2)
	assert.Equal(t, "article1", env.Data.Citations[0].Title)
	assert.NotEmpty(t, env.Data.Answer)
}

func TestRouter_AskBadRequest(t *testing.T) {
	router := newTestRouter(t, newTestApp(t))

	w := doRequest(router, http.MethodPost, "/api/ask", `{"question":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":40000`)
}

func TestRouter_StatusAndHealth(t *testing.T) {
	router := newTestRouter(t, newTestApp(t))

	status := doRequest(router, http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, status.Code)
	assert.Contains(t, status.Body.String(), `"status":"online"`)
	assert.Contains(t, status.Body.String(), `"version":"0.1.0"`)

	health := doRequest(router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, health.Code)
}

func TestRouter_RateLimited(t *testing.T) {
	app := newTestApp(t)
	app.Limiter = newCountingLimiter(1)
	router := newTestRouter(t, app)

	first := doRequest(router, http.MethodPost, "/api/ask", `{"question":"ceasefire"}`)
	assert.Equal(t, http.StatusOK, first.Code)

	second := doRequest(router, http.MethodPost, "/api/ask", `{"question":"ceasefire"}`)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	status := doRequest(router, http.MethodGet, "/api/status", "")
	assert.Equal(t, http.StatusOK, status.Code, "only ask is limited")
}

func TestRouter_RateLimitIgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	app := newTestApp(t)
	limiter := newCountingLimiter(1)
	app.Limiter = limiter
	router := newTestRouter(t, app)

	var codes []int
	for _, forwarded := range []string{"203.0.113.1", "203.0.113.2", "203.0.113.3"} {
		req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(`{"question":"ceasefire"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", forwarded)
		req.RemoteAddr = "10.0.0.1:5555"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
	assert.Equal(t, map[string]int{"10.0.0.1": 3}, limiter.seen)
}

func TestRouter_RateLimitUsesForwardedForFromTrustedProxy(t *testing.T) {
	app := newTestApp(t)
	app.Config.App.TrustedProxies = []string{"10.0.0.0/8"}
	limiter := newCountingLimiter(1)
	app.Limiter = limiter
	router := newTestRouter(t, app)

	for _, forwarded := range []string{"203.0.113.1", "203.0.113.2"} {
		req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(`{"question":"ceasefire"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", forwarded)
		req.RemoteAddr = "10.0.0.1:5555"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, map[string]int{"203.0.113.1": 1, "203.0.113.2": 1}, limiter.seen)
}

func TestNewRouter_InvalidTrustedProxy(t *testing.T) {
	app := newTestApp(t)
	app.Config.App.TrustedProxies = []string{"not-an-ip"}

	_, err := NewRouter(app)
	assert.ErrorContains(t, err, "set trusted proxies failed")
}
