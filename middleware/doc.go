// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("POST /api/vote", middleware.WithLogging(handler))

Logs request start (method, path, remote, request_id) and completion
(status, duration_ms). The request id is taken from X-Request-ID or
generated, and echoed back in the response.

# CORS and Security Headers

	handler := middleware.SecurityHeaders(middleware.CORS(cfg.AllowedOrigins)(mux))

CORS reflects only the configured origins, with credentials allowed.
Preflight OPTIONS requests are answered with 200 directly.

# Admin Routes

	mux.HandleFunc("GET /api/db", middleware.RequireAuth(gate, handler))

Missing token: 401 "Authentication required".
Bad or expired token: 403 "Invalid or expired token".
The verified identity is available via auth.IdentityFromContext.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
