// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/memojo/auth"
	"github.com/danielhkuo/memojo/cliparse"
	"github.com/danielhkuo/memojo/models"
	"github.com/danielhkuo/memojo/store"
)

// Admin credentials accepted by the gate built from GetTestConfig
const (
	TestAdminUsername = "admin"
	TestAdminPassword = "test-admin-password"
)

var (
	hashOnce     sync.Once
	passwordHash string
)

// testPasswordHash hashes TestAdminPassword once, at the lowest bcrypt cost
func testPasswordHash() string {
	hashOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte(TestAdminPassword), bcrypt.MinCost)
		if err != nil {
			panic(err)
		}
		passwordHash = string(hash)
	})
	return passwordHash
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:              3318,
		Mode:              cliparse.ModeFull,
		StaticDir:         ".",
		StoreType:         cliparse.StoreMemory,
		AdminUsername:     TestAdminUsername,
		AdminPasswordHash: testPasswordHash(),
		JWTSecret:         "test-jwt-secret",
		CookieSecret:      "test-cookie-secret",
		AllowedOrigins:    []string{"http://localhost:8000", "http://127.0.0.1:8000"},
		LogLevel:          "info",
		LogFormat:         "text",
	}
}

// NewTestStore returns an in-memory store holding a copy of initial
func NewTestStore(t *testing.T, initial models.Database) store.Store {
	t.Helper()
	s := store.NewMemoryStore(initial)
	t.Cleanup(func() { s.Close() })
	return s
}

// NewTestGate builds the auth gate for cfg
func NewTestGate(t *testing.T, cfg cliparse.Config) *auth.Gate {
	t.Helper()
	gate, err := auth.NewGate(cfg)
	if err != nil {
		t.Fatalf("Failed to create auth gate: %v", err)
	}
	return gate
}

// NewTestToken issues a valid session token for the test admin
func NewTestToken(t *testing.T, gate *auth.Gate) string {
	t.Helper()
	token, err := gate.Login(TestAdminUsername, TestAdminPassword)
	if err != nil {
		t.Fatalf("Failed to log in test admin: %v", err)
	}
	return token
}

// NewStaticSite writes a minimal landing page tree into a temp dir and
// returns its path
func NewStaticSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"index.html":           "<h1>Memojo</h1>",
		"css/style.css":        "body{}",
		"admin/index.html":     "<h1>Admin login</h1>",
		"admin/dashboard.html": "<h1>Dashboard</h1>",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return dir
}

// MakeRequest creates an HTTP request with optional JSON body
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
