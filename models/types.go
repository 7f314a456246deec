package models

import (
	"errors"
	"strings"
)

// Vote levels
const (
	VoteLow    = "low"
	VoteMedium = "medium"
	VoteHigh   = "high"
)

// Subscription keys for platform beta sign-ups are "platform-<name>"
const PlatformKeyPrefix = "platform-"

var ErrInvalidVoteType = errors.New("invalid vote type")

// Request types

type VoteRequest struct {
	FeatureID string `json:"featureId"`
	VoteType  string `json:"voteType"`
}

type SubscribeRequest struct {
	Email     string `json:"email"`
	FeatureID string `json:"featureId,omitempty"`
	Platform  string `json:"platform,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Response types

type MessageResponse struct {
	Message string `json:"message"`
}

type VoteResponse struct {
	Message string    `json:"message"`
	Votes   VoteTally `json:"votes"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type AuthStatusResponse struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username"`
}

// Domain types

type VoteTally struct {
	Low    int64 `json:"low"`
	Medium int64 `json:"medium"`
	High   int64 `json:"high"`
}

// Increment bumps the counter for level by one
func (t *VoteTally) Increment(level string) error {
	switch level {
	case VoteLow:
		t.Low++
	case VoteMedium:
		t.Medium++
	case VoteHigh:
		t.High++
	default:
		return ErrInvalidVoteType
	}
	return nil
}

// Database is the whole persisted document: {"votes": ..., "subscriptions": ...}
type Database struct {
	Votes         map[string]VoteTally `json:"votes"`
	Subscriptions map[string][]string  `json:"subscriptions"`
}

// NewDatabase returns an empty document with both mappings allocated
func NewDatabase() Database {
	return Database{
		Votes:         map[string]VoteTally{},
		Subscriptions: map[string][]string{},
	}
}

// Normalize allocates nil mappings so the document always serializes with
// both keys present
func (d *Database) Normalize() {
	if d.Votes == nil {
		d.Votes = map[string]VoteTally{}
	}
	if d.Subscriptions == nil {
		d.Subscriptions = map[string][]string{}
	}
	for key, emails := range d.Subscriptions {
		if emails == nil {
			d.Subscriptions[key] = []string{}
		}
	}
}

// IsEmpty reports whether the document holds no tallies and no subscription keys
func (d Database) IsEmpty() bool {
	return len(d.Votes) == 0 && len(d.Subscriptions) == 0
}

// ApplyVote creates the tally for featureID if needed and increments level.
// The document is left untouched when level is not a known vote level.
func (d *Database) ApplyVote(featureID, level string) (VoteTally, error) {
	if !IsValidVoteType(level) {
		return VoteTally{}, ErrInvalidVoteType
	}
	d.Normalize()
	tally := d.Votes[featureID]
	_ = tally.Increment(level)
	d.Votes[featureID] = tally
	return tally, nil
}

// AddSubscription appends email under key unless it is already there.
// Returns false when the email was already subscribed.
func (d *Database) AddSubscription(key, email string) bool {
	d.Normalize()
	emails, ok := d.Subscriptions[key]
	if !ok {
		emails = []string{}
	}
	for _, existing := range emails {
		if existing == email {
			d.Subscriptions[key] = emails
			return false
		}
	}
	d.Subscriptions[key] = append(emails, email)
	return true
}

// Clone returns a deep copy
func (d Database) Clone() Database {
	c := NewDatabase()
	for k, v := range d.Votes {
		c.Votes[k] = v
	}
	for k, v := range d.Subscriptions {
		c.Subscriptions[k] = append([]string{}, v...)
	}
	return c
}

func IsValidVoteType(voteType string) bool {
	switch voteType {
	case VoteLow, VoteMedium, VoteHigh:
		return true
	}
	return false
}

// SubscriptionKey resolves the key emails are grouped under. featureID wins
// over platform; platform names are lower-cased. Returns "" when neither is set.
func SubscriptionKey(featureID, platform string) string {
	if featureID != "" {
		return featureID
	}
	if platform != "" {
		return PlatformKeyPrefix + strings.ToLower(platform)
	}
	return ""
}

// DefaultDatabase is written on first start when the store is empty
func DefaultDatabase() Database {
	return Database{
		Votes: map[string]VoteTally{
			"feature-find":  {},
			"feature-share": {},
			"feature-diary": {},
		},
		Subscriptions: map[string][]string{
			"feature-find":     {},
			"feature-share":    {},
			"feature-diary":    {},
			"platform-android": {},
			"platform-ios":     {},
		},
	}
}

// DemoDatabase is the mock dataset served in demo mode
func DemoDatabase() Database {
	return Database{
		Votes: map[string]VoteTally{
			"feature-find":  {Low: 5, Medium: 12, High: 25},
			"feature-share": {Low: 3, Medium: 18, High: 14},
			"feature-diary": {Low: 7, Medium: 9, High: 11},
		},
		Subscriptions: map[string][]string{
			"feature-find":     {"user1@example.com", "user2@example.com"},
			"feature-share":    {"user3@example.com", "user4@example.com"},
			"feature-diary":    {"user5@example.com"},
			"platform-android": {"android1@example.com", "android2@example.com"},
			"platform-ios":     {"ios1@example.com", "ios2@example.com", "ios3@example.com"},
		},
	}
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
