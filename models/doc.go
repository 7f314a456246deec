// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - VoteRequest: featureId, voteType
  - SubscribeRequest: email, featureId, platform
  - LoginRequest: username, password

# Response Types

  - MessageResponse: message
  - VoteResponse: message, votes
  - LoginResponse: message, token
  - AuthStatusResponse: authenticated, username
  - ErrorResponse: error, message

# Domain Types

  - VoteTally: low/medium/high counters for one feature
  - Database: the persisted document, {"votes": ..., "subscriptions": ...}

Database carries the mutation rules shared by the in-process store backends:

	tally, err := db.ApplyVote("feature-find", models.VoteHigh)
	added := db.AddSubscription("platform-android", "a@example.com")

# Subscription Keys

Emails are grouped by feature id, or by platform:

	models.SubscriptionKey("feature-find", "")  // "feature-find"
	models.SubscriptionKey("", "Android")       // "platform-android"

# Seed Data

DefaultDatabase is written on first start; DemoDatabase backs demo mode.
*/
package models
