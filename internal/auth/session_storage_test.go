package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStorage_RoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(sessions.Sessions("palay_session", cookie.NewStore([]byte("test-session-secret"))))
	router.GET("/set", func(c *gin.Context) {
		storage := NewSessionStorage(sessions.Default(c))
		storage.SetItem("idToken", "abc123")
		storage.SetItem("refreshToken", "")
		c.Status(http.StatusNoContent)
	})
	router.GET("/get", func(c *gin.Context) {
		storage := NewSessionStorage(sessions.Default(c))
		c.String(http.StatusOK, storage.GetItem("idToken")+"|"+storage.GetItem("refreshToken"))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/set", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/get", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "abc123|", w.Body.String())
}

func TestSessionStorage_MissingKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(sessions.Sessions("palay_session", cookie.NewStore([]byte("test-session-secret"))))
	router.GET("/get", func(c *gin.Context) {
		c.String(http.StatusOK, NewSessionStorage(sessions.Default(c)).GetItem("idToken"))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/get", nil))
	assert.Equal(t, "", w.Body.String())
}
