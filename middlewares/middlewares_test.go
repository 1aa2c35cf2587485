package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, isAdmin bool) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  1,
		"username": "jane",
		"isAdmin":  isAdmin,
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Authenticate())
	router.GET("/open", func(ctx *gin.Context) {
		_, authed := ctx.Get("user")
		ctx.JSON(http.StatusOK, gin.H{"authed": authed})
	})
	router.GET("/admin", RequireAdmin(), func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})
	return router
}

func TestAuthenticateAllowsGuests(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	router := testRouter()

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/open", nil)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"authed":false`)
}

func TestAuthenticateParsesValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	router := testRouter()

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/open", nil)
	request.Header.Set("Authorization", "Bearer "+signToken(t, "secret", false))
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"authed":true`)
}

func TestAuthenticateIgnoresForgedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	router := testRouter()

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/open", nil)
	request.Header.Set("Authorization", "Bearer "+signToken(t, "wrong-secret", true))
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"authed":false`)
}

func TestRequireAdmin(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	router := testRouter()

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"customer token", signToken(t, "secret", false), http.StatusForbidden},
		{"admin token", signToken(t, "secret", true), http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tc.token != "" {
				request.Header.Set("Authorization", "Bearer "+tc.token)
			}
			router.ServeHTTP(recorder, request)
			assert.Equal(t, tc.status, recorder.Code)
		})
	}
}
