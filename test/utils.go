package test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Yulian302/lfusys-services-connections/auth/types"
	"github.com/Yulian302/lfusys-services-connections/responses"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func CreateTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.GET("/test", func(ctx *gin.Context) { responses.JSONSuccess(ctx, "ok") })

	return r
}

// PerformRequest sends one request through r. Headers are "Name: value"
// pairs; a non-empty session is sent as the session cookie.
func PerformRequest(r http.Handler, t *testing.T, method, url string, body io.Reader, headers []string, session string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	for _, h := range headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok {
			t.Fatalf("malformed header %q", h)
		}
		req.Header.Set(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	if session != "" {
		req.AddCookie(&http.Cookie{Name: types.SessionCookie, Value: session})
	}

	r.ServeHTTP(w, req)
	return w
}

// SessionToken mints a session cookie value the way the login service does.
func SessionToken(t *testing.T, secret, userID string) string {
	t.Helper()

	claims := types.SessionClaims{
		Type: types.AccessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "lfusys",
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("could not sign session token: %v", err)
	}
	return signed
}
