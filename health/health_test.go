package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type staticCheck struct {
	name string
	err  error
}

func (s staticCheck) IsReady(context.Context) error { return s.err }
func (s staticCheck) Name() string                  { return s.name }

func serve(h *HealthHandler, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterHealthRoutes(h, r)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestLive(t *testing.T) {
	w := serve(NewHealthHandler(), "/health/live")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReady_AllHealthy(t *testing.T) {
	w := serve(NewHealthHandler(staticCheck{name: "a"}, staticCheck{name: "b"}), "/health/ready")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"a":"ok"`)
}

func TestReady_OneFailing(t *testing.T) {
	w := serve(NewHealthHandler(staticCheck{name: "a"}, staticCheck{name: "redis", err: errors.New("connection refused")}), "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}
