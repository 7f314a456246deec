// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

The Config value is passed explicitly to the store, the auth gate, the
handlers and the router. Nothing reads the environment after startup.

# CLI Flags

	-p, --port                Server port (default 3000)
	-m, --mode                full, static or demo (default full)
	    --static-dir          Landing page assets (default public)
	-s, --store               json, memory, sqlite, postgres or badger
	    --store-path          JSON file or badger directory
	-d, --database-url        Database URL for sqlite/postgres
	    --admin-username      Admin username (default admin)
	    --admin-password      Admin password
	    --admin-password-hash Bcrypt hash of the admin password
	    --jwt-secret          Token signing secret
	    --cookie-secret       Cookie signing secret
	    --allowed-origins     Comma separated CORS origins
	    --production          Mark cookies Secure
	    --log-level           debug, info, warn or error
	    --log-format          text or json
	    --env-file            dotenv file (default .env)

# Environment Variables

Flags fall back to environment variables:

	PORT                → -p
	MODE                → -m
	STATIC_DIR          → --static-dir
	STORE_TYPE          → -s
	STORE_PATH          → --store-path
	DATABASE_URL        → -d
	ADMIN_USERNAME      → --admin-username
	ADMIN_PASSWORD      → --admin-password
	ADMIN_PASSWORD_HASH → --admin-password-hash
	JWT_SECRET          → --jwt-secret
	COOKIE_SECRET       → --cookie-secret
	CORS_ORIGINS        → --allowed-origins
	APP_ENV=production  → --production
	LOG_LEVEL           → --log-level
	LOG_FORMAT          → --log-format

Variables may also come from the dotenv file; it never overrides variables
already present in the process environment. CLI flags take precedence over
both.

# Validation

Outside static mode ParseFlags returns an error if:

  - neither ADMIN_PASSWORD nor ADMIN_PASSWORD_HASH is provided
  - JWT_SECRET or COOKIE_SECRET is missing
  - the sqlite/postgres store has no DATABASE_URL
  - the store path or env file lies inside the static directory

Demo mode forces the memory store and fills development secrets.
*/
package cliparse
