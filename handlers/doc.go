// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Memojo API.

# Handler Types

Each handler is a struct with its dependencies injected:

  - VoteHandler: feature votes and email subscriptions
  - AuthHandler: admin login, logout and session status
  - AdminHandler: full store dump for the dashboard
  - StatusHandler: health and status checks

Handlers are created via constructor functions:

	voteHandler := handlers.NewVoteHandler(store)
	authHandler := handlers.NewAuthHandler(gate)

# Public Endpoints

	POST /api/vote       → RecordVote ({featureId, voteType})
	POST /api/subscribe  → RecordSubscription ({email, featureId | platform})
	GET  /api/status     → Status

Votes are validated before the store is touched, so a rejected vote never
creates a tally. Subscriptions go under featureId when given, otherwise
under "platform-" plus the lower-cased platform. A repeated email answers
200 with "Email already subscribed for this feature/platform.".

# Admin Endpoints

	POST /api/auth/login   → Login (sets token and adminToken cookies)
	POST /api/auth/logout  → Logout (clears the cookies)
	GET  /api/auth/status  → Status (RequireAuth)
	GET  /api/db           → DumpStore (RequireAuth)

Store failures answer 500 "Database error".
*/
package handlers
