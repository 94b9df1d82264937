package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/Yulian302/lfusys-services-connections/auth/types"
	"github.com/Yulian302/lfusys-services-connections/config"
	"github.com/Yulian302/lfusys-services-connections/store"
	"github.com/Yulian302/lfusys-services-connections/test"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jwtSecret = "session-secret"

func fakeLinkedIn(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v2/accessToken", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get("code") != "good-code" || r.PostForm.Get("client_secret") != "client-secret" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_request","error_description":"Unable to retrieve access token"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"T","expires_in":3600}`))
	})
	mux.HandleFunc("/v2/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer T" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sub":"ext-123","name":"Ada Lovelace"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// newTestApp wires the app on a file-backed sqlite store, the way SetupApp
// does for STORE_DRIVER=sqlite.
func newTestApp(t *testing.T, seedUsers ...string) (*App, store.ProfileStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	linkedin := fakeLinkedIn(t)

	cfg := config.Config{
		Env:         "TEST",
		FrontendURL: "https://app.example.com/settings",
		StoreDriver: config.StoreSQLite,
		SQLiteConfig: config.SQLiteConfig{
			Path:      filepath.Join(t.TempDir(), "connections.db"),
			SeedUsers: seedUsers,
		},
		LinkedInConfig: config.LinkedInConfig{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			RedirectURI:  "https://api.example.com/connections/linkedin/callback",
			AuthURL:      linkedin.URL + "/oauth/v2/authorization",
			TokenURL:     linkedin.URL + "/oauth/v2/accessToken",
			UserInfoURL:  linkedin.URL + "/v2/userinfo",
			Scopes:       []string{"openid", "profile"},
			Timeout:      2 * time.Second,
		},
		StateConfig: config.StateConfig{Secret: "state-secret", TTL: 10 * time.Minute},
		JWTConfig:   config.JWTConfig{SecretKey: jwtSecret},
		CorsConfig:  config.CorsConfig{Origins: "https://app.example.com"},
	}

	profiles, err := initProfileStore(cfg)
	require.NoError(t, err)

	app := &App{
		Profiles: profiles,
		Redis:    redis.NewClient(&redis.Options{Addr: mr.Addr()}),
		Config:   cfg,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	app.Services = BuildServices(app)
	t.Cleanup(func() { app.Shutdown(context.Background()) })

	return app, profiles
}

func redirectQuery(t *testing.T, w *httptest.ResponseRecorder) url.Values {
	t.Helper()
	require.Equal(t, http.StatusFound, w.Code)
	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	return loc.Query()
}

func TestPingRoute(t *testing.T) {
	app, _ := newTestApp(t)
	r := BuildRouter(app)

	w := test.PerformRequest(r, t, "GET", "/test", nil, nil, "")

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestHealthReady(t *testing.T) {
	app, _ := newTestApp(t)
	r := BuildRouter(app)

	w := test.PerformRequest(r, t, "GET", "/health/ready", nil, nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "NonceStore[redis]")
}

func TestLinkedInConnectionFlow(t *testing.T) {
	app, profiles := newTestApp(t, "U")
	r := BuildRouter(app)
	session := test.SessionToken(t, jwtSecret, "U")

	w := test.PerformRequest(r, t, "GET", "/connections/linkedin/authorize", nil, nil, session)
	authQuery := redirectQuery(t, w)
	assert.Equal(t, "code", authQuery.Get("response_type"))
	assert.Equal(t, "client-id", authQuery.Get("client_id"))
	assert.Equal(t, "https://api.example.com/connections/linkedin/callback", authQuery.Get("redirect_uri"))
	assert.Equal(t, "openid profile", authQuery.Get("scope"))

	cb := url.Values{"code": {"good-code"}, "state": {authQuery.Get("state")}}
	w = test.PerformRequest(r, t, "GET", "/connections/linkedin/callback?"+cb.Encode(), nil, nil, "")
	assert.Equal(t, "true", redirectQuery(t, w).Get("success"))

	rec, err := profiles.GetConnection(context.Background(), "U")
	require.NoError(t, err)
	assert.True(t, rec.Connected)
	assert.Equal(t, "T", rec.ExternalToken)
	assert.Equal(t, "ext-123", rec.ExternalProfileID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), rec.TokenExpiresAt, 2*time.Second)

	w = test.PerformRequest(r, t, "GET", "/connections/linkedin", nil, nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	var status types.ConnectionStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.True(t, status.Connected)

	// replaying the same callback is rejected
	w = test.PerformRequest(r, t, "GET", "/connections/linkedin/callback?"+cb.Encode(), nil, nil, "")
	assert.Equal(t, "invalid_state", redirectQuery(t, w).Get("error"))

	w = test.PerformRequest(r, t, "DELETE", "/connections/linkedin", nil, nil, session)
	assert.Equal(t, http.StatusNoContent, w.Code)

	rec, err = profiles.GetConnection(context.Background(), "U")
	require.NoError(t, err)
	assert.False(t, rec.Connected)
}

func TestLinkedInConnectionFlow_BadCode(t *testing.T) {
	app, profiles := newTestApp(t, "U")
	r := BuildRouter(app)

	w := test.PerformRequest(r, t, "GET", "/connections/linkedin/authorize", nil, nil, test.SessionToken(t, jwtSecret, "U"))
	state := redirectQuery(t, w).Get("state")

	cb := url.Values{"code": {"stale-code"}, "state": {state}}
	w = test.PerformRequest(r, t, "GET", "/connections/linkedin/callback?"+cb.Encode(), nil, nil, "")
	q := redirectQuery(t, w)
	assert.Equal(t, "exchange_failed", q.Get("error"))
	assert.Equal(t, "Unable to retrieve access token", q.Get("msg"))

	_, err := profiles.GetConnection(context.Background(), "U")
	assert.Error(t, err)
}

func TestLinkedInConnectionFlow_UnknownUser(t *testing.T) {
	app, profiles := newTestApp(t)
	r := BuildRouter(app)

	w := test.PerformRequest(r, t, "GET", "/connections/linkedin/authorize", nil, nil, test.SessionToken(t, jwtSecret, "ghost"))
	state := redirectQuery(t, w).Get("state")

	cb := url.Values{"code": {"good-code"}, "state": {state}}
	w = test.PerformRequest(r, t, "GET", "/connections/linkedin/callback?"+cb.Encode(), nil, nil, "")
	q := redirectQuery(t, w)
	assert.Equal(t, "true", q.Get("success"))
	assert.Equal(t, "false", q.Get("linked"))

	ok, err := profiles.UserExists(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLinkedInConnectionFlow_SeededProfiles(t *testing.T) {
	app, profiles := newTestApp(t, "alice", " bob ", "")
	r := BuildRouter(app)

	w := test.PerformRequest(r, t, "GET", "/connections/linkedin/authorize", nil, nil, test.SessionToken(t, jwtSecret, "bob"))
	state := redirectQuery(t, w).Get("state")

	cb := url.Values{"code": {"good-code"}, "state": {state}}
	w = test.PerformRequest(r, t, "GET", "/connections/linkedin/callback?"+cb.Encode(), nil, nil, "")
	q := redirectQuery(t, w)
	assert.Equal(t, "true", q.Get("success"))
	assert.Empty(t, q.Get("linked"))

	rec, err := profiles.GetConnection(context.Background(), "bob")
	require.NoError(t, err)
	assert.True(t, rec.Connected)
	assert.Equal(t, "ext-123", rec.ExternalProfileID)

	ok, err := profiles.UserExists(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, ok)
}
