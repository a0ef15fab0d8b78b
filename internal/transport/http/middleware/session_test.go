package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/pkg/sessioncookie"
)

const (
	testCookieName = "seerai_session"
	testSecret     = "test-secret"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", RequireSession(testCookieName, testSecret), func(c *gin.Context) {
		ident, ok := IdentityFrom(c)
		if !ok {
			c.String(http.StatusInternalServerError, "identity missing")
			return
		}
		c.String(http.StatusOK, ident.Token)
	})
	return router
}

func TestRequireSessionRejectsMissing(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireSessionRejectsTampered(t *testing.T) {
	router := newTestRouter()

	signed, err := sessioncookie.Sign("other-secret", time.Minute, "0123abcd", "Alice")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: signed})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireSessionAcceptsCookie(t *testing.T) {
	router := newTestRouter()

	signed, err := sessioncookie.Sign(testSecret, time.Minute, "0123abcd", "Alice")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: signed})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "0123abcd", rr.Body.String())
}

func TestRequireSessionAcceptsBearer(t *testing.T) {
	router := newTestRouter()

	signed, err := sessioncookie.Sign(testSecret, time.Minute, "0123abcd", "Alice")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestIdentityFromWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := IdentityFrom(c)
	assert.False(t, ok)
}
