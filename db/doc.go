// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation for the SQL store backends.

# Schema Creation

CreateSchema initializes all required tables for a dialect:

	if err := db.CreateSchema(conn, db.DialectPostgres); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - vote_tally: low/medium/high counters per feature id
  - subscription_list: subscription keys, including keys with no emails yet
  - subscription: one row per (key, email), ordered by id

# Relationships

	subscription_list 1──* subscription

The (subscription_key, email) pair is UNIQUE, which gives subscriptions
their set semantics.
*/
package db
