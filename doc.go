// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Memojo landing page server.

Memojo's landing page collects low/medium/high interest votes per feature
and email sign-ups per feature or platform. A small admin dashboard, behind
a password login, reads the whole store.

# Starting the Server

	ADMIN_PASSWORD=... JWT_SECRET=... COOKIE_SECRET=... go run .

Or with flags:

	go run . -p 3000 --store badger --store-path data

Try it without any configuration:

	go run . --mode demo

# Modes

  - full (default): API plus the static site
  - static: static site only
  - demo: API over an in-memory store with mock data, development secrets

# Configuration

Settings come from flags, then environment variables (optionally loaded
from .env), then defaults. Required outside demo and static modes:

  - ADMIN_PASSWORD or ADMIN_PASSWORD_HASH
  - JWT_SECRET (--jwt-secret)
  - COOKIE_SECRET (--cookie-secret)
  - DATABASE_URL (-d) for the sqlite and postgres stores

Optional settings:

  - PORT (-p): Server port (default: 3000)
  - STORE_TYPE (-s): json, memory, sqlite, postgres or badger (default: json)
  - STORE_PATH: JSON file or badger directory
  - STATIC_DIR: landing page assets (default: public); must not contain the store or the env file
  - CORS_ORIGINS: comma separated allowed origins
  - LOG_LEVEL, LOG_FORMAT: slog level and text/json output

# Architecture

  - handlers: HTTP request handlers (votes, subscriptions, auth, admin)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, security headers, auth guard, logging, JSON helpers
  - store: Store interface and its backends
  - auth: Admin login gate, tokens and signed cookies
  - models: Request/response and document types
  - db: SQL schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
