// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/danielhkuo/memojo/mocks"
	"github.com/danielhkuo/memojo/models"
	"github.com/danielhkuo/memojo/testutil"
)

func TestRecordVote(t *testing.T) {
	testCases := []struct {
		name            string
		body            interface{}
		expectedStatus  int
		expectedMessage string
		expectedVotes   models.VoteTally
	}{
		{
			name:            "high vote on demo data",
			body:            models.VoteRequest{FeatureID: "feature-find", VoteType: "high"},
			expectedStatus:  http.StatusOK,
			expectedMessage: "Vote recorded",
			expectedVotes:   models.VoteTally{Low: 5, Medium: 12, High: 26},
		},
		{
			name:            "new feature gets a fresh tally",
			body:            models.VoteRequest{FeatureID: "feature-new", VoteType: "low"},
			expectedStatus:  http.StatusOK,
			expectedMessage: "Vote recorded",
			expectedVotes:   models.VoteTally{Low: 1},
		},
		{
			name:            "missing featureId",
			body:            models.VoteRequest{VoteType: "high"},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Missing featureId or voteType",
		},
		{
			name:            "missing voteType",
			body:            models.VoteRequest{FeatureID: "feature-find"},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Missing featureId or voteType",
		},
		{
			name:            "blank featureId",
			body:            models.VoteRequest{FeatureID: "   ", VoteType: "high"},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Missing featureId or voteType",
		},
		{
			name:            "unknown voteType",
			body:            models.VoteRequest{FeatureID: "feature-find", VoteType: "extreme"},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Invalid voteType",
		},
		{
			name:            "voteType is case sensitive",
			body:            models.VoteRequest{FeatureID: "feature-find", VoteType: "HIGH"},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Invalid voteType",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := testutil.NewTestStore(t, models.DemoDatabase())
			handler := NewVoteHandler(s)

			req := testutil.MakeRequest("POST", "/api/vote", tc.body, nil)
			w := httptest.NewRecorder()

			handler.RecordVote(w, req)

			testutil.AssertStatus(t, w, tc.expectedStatus)

			var resp models.VoteResponse
			testutil.AssertJSON(t, w, &resp)

			if resp.Message != tc.expectedMessage {
				t.Errorf("Expected message '%s', got '%s'", tc.expectedMessage, resp.Message)
			}
			if tc.expectedStatus == http.StatusOK && resp.Votes != tc.expectedVotes {
				t.Errorf("Expected votes %+v, got %+v", tc.expectedVotes, resp.Votes)
			}
		})
	}
}

func TestRecordVote_RejectedVoteLeavesStoreUntouched(t *testing.T) {
	s := testutil.NewTestStore(t, models.NewDatabase())
	handler := NewVoteHandler(s)

	req := testutil.MakeRequest("POST", "/api/vote",
		models.VoteRequest{FeatureID: "feature-x", VoteType: "extreme"}, nil)
	w := httptest.NewRecorder()

	handler.RecordVote(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)

	snap, _ := s.Snapshot(context.Background())
	if _, exists := snap.Votes["feature-x"]; exists {
		t.Error("Expected no tally to be created for a rejected vote")
	}
}

func TestRecordVote_InvalidJSON(t *testing.T) {
	handler := NewVoteHandler(testutil.NewTestStore(t, models.NewDatabase()))

	req := httptest.NewRequest("POST", "/api/vote", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	handler.RecordVote(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)

	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Message != "Invalid JSON" {
		t.Errorf("Expected message 'Invalid JSON', got '%s'", resp.Message)
	}
}

func TestRecordVote_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := mocks.NewMockStore(ctrl)
	s.EXPECT().
		RecordVote(gomock.Any(), "feature-find", "high").
		Return(models.VoteTally{}, errors.New("disk full"))

	handler := NewVoteHandler(s)

	req := testutil.MakeRequest("POST", "/api/vote",
		models.VoteRequest{FeatureID: "feature-find", VoteType: "high"}, nil)
	w := httptest.NewRecorder()

	handler.RecordVote(w, req)

	testutil.AssertStatus(t, w, http.StatusInternalServerError)

	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Message != "Database error" {
		t.Errorf("Expected message 'Database error', got '%s'", resp.Message)
	}
}

func TestRecordVote_ValidationSkipsStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	// No expectations: any store call fails the test
	s := mocks.NewMockStore(ctrl)
	handler := NewVoteHandler(s)

	bodies := []models.VoteRequest{
		{},
		{FeatureID: "feature-find"},
		{FeatureID: "feature-find", VoteType: "none"},
	}
	for _, body := range bodies {
		w := httptest.NewRecorder()
		handler.RecordVote(w, testutil.MakeRequest("POST", "/api/vote", body, nil))
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	}
}

func TestRecordSubscription(t *testing.T) {
	testCases := []struct {
		name            string
		body            interface{}
		expectedStatus  int
		expectedMessage string
		expectedKey     string
	}{
		{
			name:            "feature subscription",
			body:            models.SubscribeRequest{Email: "new@example.com", FeatureID: "feature-share"},
			expectedStatus:  http.StatusOK,
			expectedMessage: "Subscription successful",
			expectedKey:     "feature-share",
		},
		{
			name:            "platform subscription is lowercased",
			body:            models.SubscribeRequest{Email: "new@example.com", Platform: "Android"},
			expectedStatus:  http.StatusOK,
			expectedMessage: "Subscription successful",
			expectedKey:     "platform-android",
		},
		{
			name:            "featureId wins over platform",
			body:            models.SubscribeRequest{Email: "new@example.com", FeatureID: "feature-diary", Platform: "ios"},
			expectedStatus:  http.StatusOK,
			expectedMessage: "Subscription successful",
			expectedKey:     "feature-diary",
		},
		{
			name:            "unknown key is created",
			body:            models.SubscribeRequest{Email: "new@example.com", Platform: "web"},
			expectedStatus:  http.StatusOK,
			expectedMessage: "Subscription successful",
			expectedKey:     "platform-web",
		},
		{
			name:            "already subscribed",
			body:            models.SubscribeRequest{Email: "ios1@example.com", Platform: "iOS"},
			expectedStatus:  http.StatusOK,
			expectedMessage: "Email already subscribed for this feature/platform.",
			expectedKey:     "platform-ios",
		},
		{
			name:            "missing email",
			body:            models.SubscribeRequest{FeatureID: "feature-find"},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Email is required",
		},
		{
			name:            "blank email",
			body:            models.SubscribeRequest{Email: "  ", FeatureID: "feature-find"},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Email is required",
		},
		{
			name:            "missing featureId and platform",
			body:            models.SubscribeRequest{Email: "new@example.com"},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Either featureId or platform is required for subscription",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := testutil.NewTestStore(t, models.DemoDatabase())
			handler := NewVoteHandler(s)

			req := testutil.MakeRequest("POST", "/api/subscribe", tc.body, nil)
			w := httptest.NewRecorder()

			handler.RecordSubscription(w, req)

			testutil.AssertStatus(t, w, tc.expectedStatus)

			var resp models.MessageResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Message != tc.expectedMessage {
				t.Errorf("Expected message '%s', got '%s'", tc.expectedMessage, resp.Message)
			}

			if tc.expectedKey == "" {
				return
			}

			// The email appears exactly once under the resolved key
			snap, _ := s.Snapshot(context.Background())
			email := tc.body.(models.SubscribeRequest).Email
			count := 0
			for _, e := range snap.Subscriptions[tc.expectedKey] {
				if e == email {
					count++
				}
			}
			if count != 1 {
				t.Errorf("Expected %s once under %s, found %d times", email, tc.expectedKey, count)
			}
		})
	}
}

func TestRecordSubscription_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := mocks.NewMockStore(ctrl)
	s.EXPECT().
		RecordSubscription(gomock.Any(), "platform-ios", "a@example.com").
		Return(false, errors.New("connection refused"))

	handler := NewVoteHandler(s)

	req := testutil.MakeRequest("POST", "/api/subscribe",
		models.SubscribeRequest{Email: "a@example.com", Platform: "IOS"}, nil)
	w := httptest.NewRecorder()

	handler.RecordSubscription(w, req)

	testutil.AssertStatus(t, w, http.StatusInternalServerError)
}

// TestConcurrentVotes verifies that simultaneous votes for the same feature
// are all counted
func TestConcurrentVotes(t *testing.T) {
	s := testutil.NewTestStore(t, models.DefaultDatabase())
	handler := NewVoteHandler(s)

	numVoters := 25
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/api/vote",
				models.VoteRequest{FeatureID: "feature-diary", VoteType: "medium"}, nil)
			w := httptest.NewRecorder()
			handler.RecordVote(w, req)

			if w.Code == http.StatusOK {
				successCount.Add(1)
			}
		}()
	}
	wg.Wait()

	if int(successCount.Load()) != numVoters {
		t.Errorf("Expected %d successful votes, got %d", numVoters, successCount.Load())
	}

	snap, _ := s.Snapshot(context.Background())
	if snap.Votes["feature-diary"].Medium != int64(numVoters) {
		t.Errorf("Expected %d medium votes, got %d", numVoters, snap.Votes["feature-diary"].Medium)
	}
}

// TestConcurrentDuplicateSubscriptions verifies the same email submitted in
// parallel is stored once
func TestConcurrentDuplicateSubscriptions(t *testing.T) {
	s := testutil.NewTestStore(t, models.DefaultDatabase())
	handler := NewVoteHandler(s)

	var wg sync.WaitGroup
	var added atomic.Int32
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/api/subscribe",
				models.SubscribeRequest{Email: "same@example.com", FeatureID: "feature-find"}, nil)
			w := httptest.NewRecorder()
			handler.RecordSubscription(w, req)

			var resp models.MessageResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Errorf("Failed to decode response: %v", err)
				return
			}
			if resp.Message == "Subscription successful" {
				added.Add(1)
			}
		}()
	}
	wg.Wait()

	if added.Load() != 1 {
		t.Errorf("Expected exactly one successful subscription, got %d", added.Load())
	}

	snap, _ := s.Snapshot(context.Background())
	if len(snap.Subscriptions["feature-find"]) != 1 {
		t.Errorf("Expected 1 subscriber, got %d", len(snap.Subscriptions["feature-find"]))
	}
}
