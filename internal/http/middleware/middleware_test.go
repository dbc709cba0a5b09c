package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"orderdesk.io/app/internal/http/flash"
	"orderdesk.io/app/internal/http/session"
	"orderdesk.io/app/internal/shared/apperr"
	"orderdesk.io/app/pkg/logger"
	"orderdesk.io/app/pkg/view"
	"orderdesk.io/app/templates"
)

func init() { gin.SetMode(gin.TestMode) }

func newEngine(t *testing.T) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.FromZap(zap.New(core))

	tmpl, err := templates.Load()
	require.NoError(t, err)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(RequestID(), Logger(log), ErrorHandler(log), Recovery(log))
	return r, logs
}

func TestRequestID(t *testing.T) {
	r, _ := newEngine(t)
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	rid := rec.Header().Get(HeaderRequestID)
	assert.NotEmpty(t, rid)
	assert.Equal(t, rid, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "abc")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Body.String())
}

func TestErrorHandler_JSON(t *testing.T) {
	r, logs := newEngine(t)
	r.GET("/api/x", func(c *gin.Context) {
		Fail(c, apperr.InvalidErr("Bad input.", map[string]string{"status": "unknown"}))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/x", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Bad input.", body["error"])
	assert.Equal(t, map[string]any{"status": "unknown"}, body["fields"])
	assert.NotEmpty(t, body["request_id"])

	assert.Equal(t, 1, logs.FilterMessage("request_failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("http_request").Len())
}

func TestErrorHandler_HTML(t *testing.T) {
	r, _ := newEngine(t)
	r.GET("/page", func(c *gin.Context) { Fail(c, apperr.NotFoundErr("Order not found.")) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/page", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Order not found.")
}

func TestErrorHandler_LeavesWrittenResponses(t *testing.T) {
	r, _ := newEngine(t)
	r.GET("/api/x", func(c *gin.Context) {
		_ = c.Error(errors.New("logged elsewhere"))
		c.JSON(http.StatusAccepted, gin.H{"ok": true})
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/x", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestRecovery(t *testing.T) {
	r, logs := newEngine(t)
	r.GET("/api/boom", func(c *gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 1, logs.FilterMessage("panic_recovered").Len())
}

func TestFlashMiddleware_ReadsOnce(t *testing.T) {
	codec := flash.NewCodec([]byte("secret"), "f", false)
	r, _ := newEngine(t)
	r.Use(FlashMiddleware(codec))
	r.GET("/show", func(c *gin.Context) {
		if f := GetFlash(c); f != nil {
			c.String(http.StatusOK, f.Message)
			return
		}
		c.String(http.StatusOK, "none")
	})

	v, err := codec.Encode(view.Flash{Kind: view.FlashInfo, Message: "hello"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/show", nil)
	req.AddCookie(&http.Cookie{Name: "f", Value: v})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "hello", rec.Body.String())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "f", cookies[0].Name)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestRequireAdmin(t *testing.T) {
	codec := flash.NewCodec([]byte("secret"), "f", false)
	store := session.NewMemoryStore()

	r, _ := newEngine(t)
	tokens := activeTokens{"tok": true}
	r.Use(RequireAdmin(store, tokens, codec))
	r.GET("/admin/dashboard", func(c *gin.Context) { c.String(http.StatusOK, AdminToken(c)) })
	r.GET("/api/admin/orders", func(c *gin.Context) { c.String(http.StatusOK, AdminToken(c)) })

	t.Run("html without marker redirects to login", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/admin", rec.Header().Get("Location"))

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		f, err := codec.Decode(cookies[0].Value)
		require.NoError(t, err)
		assert.Equal(t, view.FlashWarning, f.Kind)
	})

	t.Run("json without marker is 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("half a marker is not enough", func(t *testing.T) {
		require.NoError(t, store.Save(nil, nil, session.Marker{IsAdmin: true}))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("revoked token is rejected", func(t *testing.T) {
		require.NoError(t, store.Save(nil, nil, session.Marker{IsAdmin: true, AdminToken: "signed-out"}))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/admin", rec.Header().Get("Location"))
	})

	t.Run("valid marker passes with its token", func(t *testing.T) {
		require.NoError(t, store.Save(nil, nil, session.Marker{IsAdmin: true, AdminToken: "tok"}))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "tok", rec.Body.String())
	})
}

type activeTokens map[string]bool

func (a activeTokens) Active(token string) bool { return a[token] }
