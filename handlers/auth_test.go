// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/memojo/auth"
	"github.com/danielhkuo/memojo/middleware"
	"github.com/danielhkuo/memojo/models"
	"github.com/danielhkuo/memojo/testutil"
)

func TestLogin(t *testing.T) {
	cfg := testutil.GetTestConfig()
	gate := testutil.NewTestGate(t, cfg)
	handler := NewAuthHandler(gate)

	t.Run("valid credentials", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/api/auth/login", models.LoginRequest{
			Username: testutil.TestAdminUsername,
			Password: testutil.TestAdminPassword,
		}, nil)
		w := httptest.NewRecorder()

		handler.Login(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		cookies := w.Result().Cookies()
		var resp models.LoginResponse
		testutil.AssertJSON(t, w, &resp)

		if resp.Message != "Authentication successful" {
			t.Errorf("Expected message 'Authentication successful', got '%s'", resp.Message)
		}
		if resp.Token == "" {
			t.Fatal("Expected token in response")
		}

		id, err := gate.ParseToken(resp.Token)
		if err != nil {
			t.Fatalf("Returned token does not verify: %v", err)
		}
		if id.Username != testutil.TestAdminUsername {
			t.Errorf("Expected username '%s', got '%s'", testutil.TestAdminUsername, id.Username)
		}

		names := map[string]bool{}
		for _, c := range cookies {
			names[c.Name] = true
			if !c.HttpOnly {
				t.Errorf("Expected cookie %s to be HttpOnly", c.Name)
			}
			value, err := auth.UnsignCookieValue(c.Value, cfg.CookieSecret)
			if err != nil || value != resp.Token {
				t.Errorf("Expected cookie %s to carry the signed token", c.Name)
			}
		}
		if !names[auth.CookieToken] || !names[auth.CookieAdminToken] {
			t.Errorf("Expected both session cookies, got %v", names)
		}
	})

	failures := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", testutil.TestAdminUsername, "wrong"},
		{"wrong username", "root", testutil.TestAdminPassword},
		{"empty credentials", "", ""},
	}

	for _, tc := range failures {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/auth/login", models.LoginRequest{
				Username: tc.username,
				Password: tc.password,
			}, nil)
			w := httptest.NewRecorder()

			handler.Login(w, req)

			testutil.AssertStatus(t, w, http.StatusUnauthorized)

			if len(w.Result().Cookies()) != 0 {
				t.Error("Expected no cookies on failed login")
			}

			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Message != "Invalid credentials" {
				t.Errorf("Expected message 'Invalid credentials', got '%s'", resp.Message)
			}
		})
	}

	t.Run("invalid JSON", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader("username=admin"))
		w := httptest.NewRecorder()

		handler.Login(w, req)

		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}

func TestLogout(t *testing.T) {
	cfg := testutil.GetTestConfig()
	handler := NewAuthHandler(testutil.NewTestGate(t, cfg))

	req := testutil.MakeRequest("POST", "/api/auth/logout", nil, nil)
	w := httptest.NewRecorder()

	handler.Logout(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	cleared := 0
	for _, c := range w.Result().Cookies() {
		if (c.Name == auth.CookieToken || c.Name == auth.CookieAdminToken) && c.MaxAge < 0 {
			cleared++
		}
	}
	if cleared != 2 {
		t.Errorf("Expected 2 cleared cookies, got %d", cleared)
	}

	var resp models.MessageResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Message != "Logout successful" {
		t.Errorf("Expected message 'Logout successful', got '%s'", resp.Message)
	}
}

func TestAuthStatus(t *testing.T) {
	cfg := testutil.GetTestConfig()
	gate := testutil.NewTestGate(t, cfg)
	handler := middleware.RequireAuth(gate, NewAuthHandler(gate).Status)
	token := testutil.NewTestToken(t, gate)

	testCases := []struct {
		name           string
		setup          func(r *http.Request)
		expectedStatus int
	}{
		{"no token", func(r *http.Request) {}, http.StatusUnauthorized},
		{"bearer token", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+token)
		}, http.StatusOK},
		{"signed cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: auth.CookieAdminToken, Value: auth.SignCookieValue(token, cfg.CookieSecret)})
		}, http.StatusOK},
		{"tampered cookie signature", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: auth.CookieToken, Value: auth.SignCookieValue(token, "another-secret")})
		}, http.StatusForbidden},
		{"garbage token", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer abc.def.ghi")
		}, http.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/api/auth/status", nil, nil)
			tc.setup(req)
			w := httptest.NewRecorder()

			handler(w, req)

			testutil.AssertStatus(t, w, tc.expectedStatus)
			if tc.expectedStatus != http.StatusOK {
				return
			}

			var resp models.AuthStatusResponse
			testutil.AssertJSON(t, w, &resp)
			if !resp.Authenticated || resp.Username != testutil.TestAdminUsername {
				t.Errorf("Unexpected status response: %+v", resp)
			}
		})
	}
}

func TestAuthStatus_WithoutMiddleware(t *testing.T) {
	cfg := testutil.GetTestConfig()
	handler := NewAuthHandler(testutil.NewTestGate(t, cfg))

	w := httptest.NewRecorder()
	handler.Status(w, testutil.MakeRequest("GET", "/api/auth/status", nil, nil))

	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}
