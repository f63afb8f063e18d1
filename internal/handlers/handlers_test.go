package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpanvictor/voxrelay/internal/domains/cache"
	"github.com/xpanvictor/voxrelay/internal/domains/pipeline"
	"github.com/xpanvictor/voxrelay/internal/domains/session"
	"github.com/xpanvictor/voxrelay/internal/domains/user"
	"github.com/xpanvictor/voxrelay/internal/types"
	cacherepo "github.com/xpanvictor/voxrelay/internal/repository/cache"
	sessionrepo "github.com/xpanvictor/voxrelay/internal/repository/session"
	userrepo "github.com/xpanvictor/voxrelay/internal/repository/user"
	"github.com/xpanvictor/voxrelay/pkg/Logger"
	"github.com/xpanvictor/voxrelay/pkg/io/audio"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type stubProcessor struct {
	key     string
	payload []byte
	res     *pipeline.Result
	err     error
}

func (p *stubProcessor) Process(_ context.Context, sessionKey string, payload []byte) (*pipeline.Result, error) {
	p.key, p.payload = sessionKey, payload
	return p.res, p.err
}

type fixture struct {
	router *gin.Engine
	proc   *stubProcessor
	cache  *cacherepo.MemoryCache
	sess   session.SessionService
	users  user.UserService
	logs   *observer.ObservedLogs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.WarnLevel)
	logger := &Logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	f := &fixture{
		logs: logs,
		proc: &stubProcessor{res: &pipeline.Result{
			RequestID:   "req-1",
			Audio:       []byte("mp3"),
			ContentType: "audio/mpeg",
			Outcome:     pipeline.OutcomeComputed,
		}},
		cache: cacherepo.NewMemoryCache(),
	}
	f.sess = session.NewService(sessionrepo.NewMemoryStore(), f.cache, logger)
	f.users = user.NewUserService(userrepo.NewMemoryUserRepo(), logger)

	ph := NewProcessHandler(f.proc, f.users, ProcessConfig{MaxAudioBytes: 32, LegacySessionKey: "legacy"}, logger)
	sh := NewSessionHandler(f.sess, logger)
	uh := NewUserHandler(f.users, logger)
	dh := NewDeviceHandler(f.users, logger)

	r := gin.New()
	r.POST("/process", ph.ProcessLegacy)
	r.POST("/process/:sessionKey", ph.Process)
	r.DELETE("/sessions/:sessionKey", sh.Purge)
	r.GET("/sessions/:sessionKey/history", sh.History)
	r.POST("/users", uh.Create)
	r.GET("/users/:id", uh.Get)
	r.PUT("/users/:id/ai-alias", uh.UpdateAIAlias)
	r.PUT("/users/:id/custom-prompt", uh.UpdateCustomPrompt)
	r.POST("/devices", dh.Register)
	r.GET("/devices/:deviceId", dh.Get)
	f.router = r
	return f
}

func (f *fixture) do(method, path, contentType string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) doJSON(method, path string, v any) *httptest.ResponseRecorder {
	raw, _ := sonic.Marshal(v)
	return f.do(method, path, "application/json", raw)
}

func TestProcessReturnsAudio(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/process/dev-1", "audio/basic", []byte{0xff, 0x7f})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "audio/mpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, "req-1", w.Header().Get(HeaderRequestID))
	assert.Equal(t, "computed", w.Header().Get(HeaderOutcome))
	assert.Empty(t, w.Header().Get(HeaderFailure))
	assert.Equal(t, "mp3", w.Body.String())

	assert.Equal(t, "dev-1", f.proc.key)
	assert.True(t, audio.IsWAV(f.proc.payload), "µ-law body is wrapped as WAV")
}

func TestProcessFallbackHeaders(t *testing.T) {
	f := newFixture(t)
	f.proc.res = &pipeline.Result{
		RequestID:   "req-2",
		Audio:       []byte("sorry"),
		ContentType: "audio/wav",
		Outcome:     pipeline.OutcomeFallback,
		FailureKind: pipeline.KindModelTimeout,
	}

	w := f.do(http.MethodPost, "/process/dev-1", "application/octet-stream", []byte("abc"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fallback", w.Header().Get(HeaderOutcome))
	assert.Equal(t, "model_timeout", w.Header().Get(HeaderFailure))
	assert.Equal(t, "sorry", w.Body.String())
}

func TestProcessWarnsOnUnparsableContentType(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/process/dev-1", "audio/L16; rate", []byte{0x03, 0xe8})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []byte{0x03, 0xe8}, f.proc.payload, "body is passed through undecoded")

	warned := f.logs.FilterMessageSnippet("content type").All()
	require.Len(t, warned, 1)
	assert.Equal(t, "audio/L16; rate", warned[0].ContextMap()["content_type"])

	f.do(http.MethodPost, "/process/dev-1", "audio/L16; rate=16000", []byte{0x03, 0xe8})
	assert.Len(t, f.logs.FilterMessageSnippet("content type").All(), 1)
}

func TestProcessLegacyUsesSharedKey(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/process", "", []byte("abc"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "legacy", f.proc.key)
}

func TestProcessRejectsBadBodies(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/process/dev-1", "audio/wav", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPost, "/process/dev-1", "audio/wav", bytes.Repeat([]byte{1}, 64))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = f.do(http.MethodPost, "/process/%20", "audio/wav", []byte("abc"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, f.proc.key)
}

func TestProcessWithoutFallbackIs503(t *testing.T) {
	f := newFixture(t)
	f.proc.res = &pipeline.Result{RequestID: "req-3", Outcome: pipeline.OutcomeFallback, FailureKind: pipeline.KindSynthesisFailure}
	f.proc.err = pipeline.ErrFallbackUnavailable

	w := f.do(http.MethodPost, "/process/dev-1", "audio/wav", []byte("abc"))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body ProcessErrorResponse
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "req-3", body.RequestID)
	assert.Equal(t, "synthesis_failure", body.FailureKind)
}

func TestProcessTouchesRegisteredDevice(t *testing.T) {
	f := newFixture(t)
	_, err := f.users.RegisterDevice(context.Background(), user.CreateDeviceRequest{DeviceID: "dev-9", DeviceName: "Cocina"})
	require.NoError(t, err)

	w := f.do(http.MethodPost, "/process/dev-9", "audio/wav", []byte("abc"))
	require.Equal(t, http.StatusOK, w.Code)

	d, err := f.users.GetDevice(context.Background(), "dev-9")
	require.NoError(t, err)
	assert.NotNil(t, d.LastSeen)
}

func TestPurgeAndHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.sess.SaveHistory(ctx, "dev-1", []types.Message{
		types.SystemMessage("sys"),
		types.UserMessage("hola"),
		types.AssistantMessage("buenas"),
	}))
	require.NoError(t, f.cache.Put(ctx, cache.NewKey("dev-1", "hola", 0), []byte("a")))

	w := f.do(http.MethodGet, "/sessions/dev-1/history", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var hist HistoryResponse
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &hist))
	assert.Equal(t, 3, hist.Count)
	assert.Equal(t, "hola", hist.Messages[1].Content)

	w = f.do(http.MethodDelete, "/sessions/dev-1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var purge PurgeResponse
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &purge))
	assert.Equal(t, int64(1), purge.Result.HistoryDeleted)
	assert.Equal(t, int64(1), purge.Result.CacheDeleted)

	w = f.do(http.MethodGet, "/sessions/dev-1/history", "", nil)
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &hist))
	assert.Zero(t, hist.Count)
}

func TestUserAndDeviceEndpoints(t *testing.T) {
	f := newFixture(t)

	w := f.doJSON(http.MethodPost, "/users", user.CreateUserRequest{Name: "Ana", AIAlias: "Nova"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created UserResponse
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &created))
	id := created.User.ID
	require.NotEmpty(t, id)

	w = f.doJSON(http.MethodPut, "/users/"+id+"/ai-alias", user.UpdateAIAliasRequest{AIAlias: "Luz"})
	require.Equal(t, http.StatusOK, w.Code)

	tmpl := "Eres {ai_alias} en {location}."
	w = f.doJSON(http.MethodPut, "/users/"+id+"/custom-prompt", user.UpdateCustomPromptRequest{CustomPromptTemplate: &tmpl})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodGet, "/users/"+id, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got UserResponse
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Luz", got.User.AIAlias)
	assert.Equal(t, tmpl, got.User.CustomPromptTemplate)

	w = f.doJSON(http.MethodPost, "/devices", user.CreateDeviceRequest{DeviceID: "dev-1", UserID: id, DeviceName: "Cocina"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = f.doJSON(http.MethodPost, "/devices", user.CreateDeviceRequest{DeviceID: "dev-1", DeviceName: "Otra"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(http.MethodGet, "/devices/dev-1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var dev DeviceResponse
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &dev))
	assert.Equal(t, user.DefaultDeviceType, dev.Device.DeviceType)
}

func TestUserErrors(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/users/missing", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/devices/missing", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/users", "application/json", []byte(`{}`)).Code)
	assert.Equal(t, http.StatusNotFound,
		f.doJSON(http.MethodPost, "/devices", user.CreateDeviceRequest{DeviceID: "d", UserID: "nobody", DeviceName: "x"}).Code)

	w := f.doJSON(http.MethodPost, "/users", user.CreateUserRequest{Name: "Ana"})
	var created UserResponse
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &created))
	w = f.do(http.MethodPut, "/users/"+created.User.ID+"/custom-prompt", "application/json", []byte(`{}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "Nothing to update"))
}

type erroringSessions struct {
	session.SessionService
}

func (erroringSessions) Stats(context.Context) (*session.Stats, error) {
	return nil, errors.New("db down")
}

func TestStatsHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := Logger.NewNop()
	sess := session.NewService(sessionrepo.NewMemoryStore(), cacherepo.NewMemoryCache(), logger)
	require.NoError(t, sess.SaveHistory(context.Background(), "dev-1", []types.Message{types.SystemMessage("s")}))

	orch := pipeline.New(pipeline.Deps{}, pipeline.DefaultOptions(), logger)
	h := NewStatsHandler(sess, orch, logger)
	broken := NewStatsHandler(erroringSessions{sess}, orch, logger)

	r := gin.New()
	r.GET("/stats/sessions", h.Sessions)
	r.GET("/stats/pipeline", h.Pipeline)
	r.GET("/broken", broken.Sessions)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats/sessions", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var st SessionStatsResponse
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &st))
	assert.Equal(t, int64(1), st.Stats.TotalSessions)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats/pipeline", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"turns":0`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/broken", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
