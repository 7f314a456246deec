// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Memojo server.

# Route Registration

NewRouter returns the complete handler, wrapped with CORS and security
headers:

	handler := router.NewRouter(store, gate, cfg)

# Endpoints

Health (every mode):

	GET /health

API (full and demo modes):

	POST /api/vote          - Record a vote
	POST /api/subscribe     - Record an email subscription
	GET  /api/status        - Liveness message
	POST /api/auth/login    - Admin login
	POST /api/auth/logout   - Clear session cookies
	GET  /api/auth/status   - Session check (token required)
	GET  /api/db            - Full store dump (token required)

Static site (every mode), served from cfg.StaticDir:

	GET /                       - Landing page assets
	GET /privacy                - index.html
	GET /admin                  - admin/index.html
	GET /admin/dashboard        - admin/dashboard.html
	GET /admin/dashboard.html   - admin/dashboard.html

In static mode no /api route is mounted.
*/
package router
