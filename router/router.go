// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/danielhkuo/memojo/auth"
	"github.com/danielhkuo/memojo/cliparse"
	"github.com/danielhkuo/memojo/handlers"
	"github.com/danielhkuo/memojo/middleware"
	"github.com/danielhkuo/memojo/store"
)

// NewRouter builds the handler for cfg.Mode. In static mode s and gate are
// not used and may be nil.
func NewRouter(s store.Store, gate *auth.Gate, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	statusHandler := handlers.NewStatusHandler(cfg)

	// Health check
	mux.HandleFunc("GET /health", statusHandler.Health)

	if cfg.ServesAPI() {
		voteHandler := handlers.NewVoteHandler(s)
		authHandler := handlers.NewAuthHandler(gate)
		adminHandler := handlers.NewAdminHandler(s)

		// Public landing page API
		mux.HandleFunc("POST /api/vote", middleware.WithLogging(voteHandler.RecordVote))
		mux.HandleFunc("POST /api/subscribe", middleware.WithLogging(voteHandler.RecordSubscription))
		mux.HandleFunc("GET /api/status", middleware.WithLogging(statusHandler.Status))

		// Admin session
		mux.HandleFunc("POST /api/auth/login", middleware.WithLogging(authHandler.Login))
		mux.HandleFunc("POST /api/auth/logout", middleware.WithLogging(authHandler.Logout))
		mux.HandleFunc("GET /api/auth/status", middleware.WithLogging(middleware.RequireAuth(gate, authHandler.Status)))

		// Admin dashboard data
		mux.HandleFunc("GET /api/db", middleware.WithLogging(middleware.RequireAuth(gate, adminHandler.DumpStore)))
	}

	registerStatic(mux, cfg)

	return middleware.SecurityHeaders(middleware.CORS(cfg.AllowedOrigins)(mux))
}

// registerStatic serves the landing page and the admin pages from
// cfg.StaticDir. Dot-files and the store and env files are never served.
func registerStatic(mux *http.ServeMux, cfg cliparse.Config) {
	dir := cfg.StaticDir
	serveFile := func(name string) http.HandlerFunc {
		file := filepath.Join(dir, name)
		return func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, file)
		}
	}

	mux.Handle("GET /", hideFiles(http.FileServer(http.Dir(dir)), hiddenPaths(cfg)))
	mux.HandleFunc("GET /privacy", serveFile("index.html"))
	mux.HandleFunc("GET /admin", serveFile(filepath.Join("admin", "index.html")))
	mux.HandleFunc("GET /admin/dashboard", serveFile(filepath.Join("admin", "dashboard.html")))
	mux.HandleFunc("GET /admin/dashboard.html", serveFile(filepath.Join("admin", "dashboard.html")))
}

// hiddenPaths returns the URL paths of the store and env file when they lie
// inside the static directory
func hiddenPaths(cfg cliparse.Config) []string {
	var hidden []string
	for _, p := range []string{cfg.StorePath, cfg.EnvFile} {
		if p == "" || !cliparse.PathWithin(cfg.StaticDir, p) {
			continue
		}
		absDir, err1 := filepath.Abs(cfg.StaticDir)
		absPath, err2 := filepath.Abs(p)
		if err1 != nil || err2 != nil {
			continue
		}
		rel, err := filepath.Rel(absDir, absPath)
		if err != nil {
			continue
		}
		hidden = append(hidden, strings.ToLower(path.Join("/", filepath.ToSlash(rel))))
	}
	return hidden
}

// hideFiles answers 404 for dot-files and for anything at or below a
// hidden path
func hideFiles(next http.Handler, hidden []string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clean := path.Clean("/" + r.URL.Path)

		for _, segment := range strings.Split(clean, "/") {
			if strings.HasPrefix(segment, ".") {
				http.NotFound(w, r)
				return
			}
		}

		lower := strings.ToLower(clean)
		for _, h := range hidden {
			if h == "/" || lower == h || strings.HasPrefix(lower, h+"/") {
				http.NotFound(w, r)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}
