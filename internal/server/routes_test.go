package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpanvictor/voxrelay/internal/config"
	"github.com/xpanvictor/voxrelay/internal/domains/pipeline"
	"github.com/xpanvictor/voxrelay/internal/domains/session"
	"github.com/xpanvictor/voxrelay/internal/domains/user"
	cacherepo "github.com/xpanvictor/voxrelay/internal/repository/cache"
	sessionrepo "github.com/xpanvictor/voxrelay/internal/repository/session"
	userrepo "github.com/xpanvictor/voxrelay/internal/repository/user"
	"github.com/xpanvictor/voxrelay/pkg/Logger"
)

func testDeps(t *testing.T) Dependencies {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Debug = true

	logger := Logger.NewNop()
	orch := pipeline.New(pipeline.Deps{}, pipeline.DefaultOptions(), logger)
	return Dependencies{
		Config:    cfg,
		Logger:    logger,
		Processor: orch,
		Pipeline:  orch,
		Sessions:  session.NewService(sessionrepo.NewMemoryStore(), cacherepo.NewMemoryCache(), logger),
		Users:     user.NewUserService(userrepo.NewMemoryUserRepo(), logger),
	}
}

func TestRoutesRegistered(t *testing.T) {
	r, ws := NewRouter(testDeps(t))
	defer ws.Close()

	want := map[string]bool{
		"GET /":                             false,
		"GET /health":                       false,
		"GET /swagger/*any":                 false,
		"POST /process":                     false,
		"POST /process/:sessionKey":         false,
		"DELETE /sessions/:sessionKey":      false,
		"GET /sessions/:sessionKey/history": false,
		"GET /stats/sessions":               false,
		"GET /stats/pipeline":               false,
		"POST /users":                       false,
		"GET /users/:id":                    false,
		"PUT /users/:id/ai-alias":           false,
		"PUT /users/:id/custom-prompt":      false,
		"POST /devices":                     false,
		"GET /devices/:deviceId":            false,
		"GET /ws/process/:sessionKey":       false,
		"GET /ws/stats":                     false,
	}
	for _, route := range r.Routes() {
		key := route.Method + " " + route.Path
		if _, ok := want[key]; ok {
			want[key] = true
		}
	}
	for route, found := range want {
		assert.True(t, found, "missing route %s", route)
	}
}

func TestHealthAndInfo(t *testing.T) {
	r, ws := NewRouter(testDeps(t))
	defer ws.Close()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"service":"voxrelay"`)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/process/dev-1", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "X-Pipeline-Outcome")
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, ln, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}), time.Second, Logger.NewNop())
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String())
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusTeapot
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
