package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/notewise/notewise/internal/pkg/jwt"
)

func newAuthRouter(secret []byte) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(JWTAuth(secret))
	router.GET("/me", func(c *gin.Context) {
		value, _ := c.Get(ContextUserIDKey)
		c.String(http.StatusOK, "%v", value)
	})
	return router
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
	router := newAuthRouter([]byte("secret"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
	require.NotContains(t, rec.Body.String(), "user-1")
}

func TestJWTAuthRejectsBadToken(t *testing.T) {
	router := newAuthRouter([]byte("secret"))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	router.ServeHTTP(rec, req)
	require.NotContains(t, rec.Body.String(), "user-1")
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
	router := newAuthRouter([]byte("secret"))
	token, err := jwt.GenerateToken("user-1", "", []byte("other-secret"), time.Hour)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(rec, req)
	require.NotContains(t, rec.Body.String(), "user-1")
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	router := newAuthRouter([]byte("secret"))
	token, err := jwt.GenerateToken("user-1", "a@b.com", []byte("secret"), time.Hour)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "user-1", rec.Body.String())
}
