// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/memojo/cliparse"
	"github.com/danielhkuo/memojo/models"
	"github.com/danielhkuo/memojo/testutil"
)

func TestStatus(t *testing.T) {
	testCases := []struct {
		mode     string
		expected string
	}{
		{cliparse.ModeFull, "Backend server is running!"},
		{cliparse.ModeDemo, "Test server is running!"},
	}

	for _, tc := range testCases {
		t.Run(tc.mode, func(t *testing.T) {
			cfg := testutil.GetTestConfig()
			cfg.Mode = tc.mode
			handler := NewStatusHandler(cfg)

			w := httptest.NewRecorder()
			handler.Status(w, testutil.MakeRequest("GET", "/api/status", nil, nil))

			testutil.AssertStatus(t, w, http.StatusOK)

			var resp models.MessageResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Message != tc.expected {
				t.Errorf("Expected message '%s', got '%s'", tc.expected, resp.Message)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	handler := NewStatusHandler(testutil.GetTestConfig())

	w := httptest.NewRecorder()
	handler.Health(w, testutil.MakeRequest("GET", "/health", nil, nil))

	testutil.AssertStatus(t, w, http.StatusOK)
	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}
