package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoshichaam/pasal_storefront_go/internal/config"
	"github.com/hoshichaam/pasal_storefront_go/internal/session"
)

// identityStub mimics the identity backend: one password, one account that
// is already signed in elsewhere unless re_login is set.
func identityStub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Email    string `json:"email"`
			Password string `json:"password"`
			ReLogin  bool   `json:"re_login"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		w.Header().Set("Content-Type", "application/json")
		switch {
		case in.Password != "Secret1!":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Invalid email or password"}`)
		case in.Email == "busy@example.com" && !in.ReLogin:
			w.WriteHeader(http.StatusConflict)
			_, _ = io.WriteString(w, `{"message":{"message":"user have active session"}}`)
		default:
			_, _ = io.WriteString(w, `{"token":"bearer-xyz","role":"customer","email":"`+in.Email+`"}`)
		}
	})
	mux.HandleFunc("/reset-password", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"msg":"Password has been reset"}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := config.Config{
		Port:           "0",
		BackendBaseURL: identityStub(t).URL,
		SessionSecret:  "integration-secret",
		SessionTTL:     time.Hour,
		BackendTimeout: 5 * time.Second,
		CORSOrigins:    "http://localhost:3000",
		AppEnv:         "development",
	}
	require.NoError(t, cfg.Validate())

	app, err := buildApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string, cookie *http.Cookie) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, ck := range resp.Cookies() {
		if ck.Name == session.CookieName {
			return ck
		}
	}
	return nil
}

func TestHealthz(t *testing.T) {
	resp := do(t, testApp(t), http.MethodGet, "/healthz", "", nil)
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "ok", string(b))
}

func TestLoginSessionLogoutFlow(t *testing.T) {
	app := testApp(t)

	resp := do(t, app, http.MethodGet, "/api/account", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = do(t, app, http.MethodPost, "/api/auth/login", `{"email":"ram@example.com","password":"Secret1!"}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ck := sessionCookie(resp)
	require.NotNil(t, ck)
	assert.False(t, ck.Secure)

	resp = do(t, app, http.MethodGet, "/api/account", "", &http.Cookie{Name: ck.Name, Value: ck.Value})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var env struct {
		Data session.View `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.True(t, env.Data.Authenticated)
	assert.Equal(t, "bearer-xyz", env.Data.AccessToken)
	assert.Equal(t, "customer", env.Data.Role())
	assert.Equal(t, "ram@example.com", env.Data.User["email"])

	resp = do(t, app, http.MethodPost, "/api/auth/logout", "", &http.Cookie{Name: ck.Name, Value: ck.Value})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	cleared := sessionCookie(resp)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
}

func TestLoginConflictThenRelogin(t *testing.T) {
	app := testApp(t)

	resp := do(t, app, http.MethodPost, "/api/auth/login", `{"email":"busy@example.com","password":"Secret1!","re_login":"false"}`, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Nil(t, sessionCookie(resp))

	resp = do(t, app, http.MethodPost, "/api/auth/login", `{"email":"busy@example.com","password":"Secret1!","re_login":"true"}`, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotNil(t, sessionCookie(resp))
}

func TestLoginWrongPassword(t *testing.T) {
	resp := do(t, testApp(t), http.MethodPost, "/api/auth/login", `{"email":"ram@example.com","password":"nope"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Nil(t, sessionCookie(resp))
}

func TestChangePasswordFlow(t *testing.T) {
	app := testApp(t)

	resp := do(t, app, http.MethodPost, "/auth/change-password?email=ram@example.com&token=tok",
		`{"new_password":"Abcdef1!","re_enter_password":"Abcdef1!"}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var env struct {
		Data struct {
			Status   string `json:"status"`
			Redirect string `json:"redirect"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, "succeeded", env.Data.Status)
	assert.Equal(t, "/auth/change-password?s=1", env.Data.Redirect)
}

func TestBuildApp_RejectsEmptySecret(t *testing.T) {
	_, err := buildApp(config.Config{BackendBaseURL: "http://x", SessionTTL: time.Hour}, slog.Default())
	assert.Error(t, err)
}
