package services

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"fidha_server/models"
)

// ---------- in-memory fakes ----------

type fakeDescriptionStore struct {
	mu           sync.Mutex
	descriptions []models.OutfitDescription
	createErr    error
}

func (f *fakeDescriptionStore) Create(ctx context.Context, description models.OutfitDescription) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.descriptions = append(f.descriptions, description)
	return nil
}

func (f *fakeDescriptionStore) FindReciprocal(ctx context.Context, authorUserID, targetUserID string) ([]models.OutfitDescription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.OutfitDescription
	for _, d := range f.descriptions {
		if d.AuthorUserID == targetUserID && d.TargetUserID == authorUserID {
			result = append(result, d)
		}
	}
	return result, nil
}

func (f *fakeDescriptionStore) FindCandidatesWithinWindow(ctx context.Context, authorUserID string, now time.Time, window time.Duration) ([]models.OutfitDescription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cutoff := now.UTC().Add(-window).Format(time.RFC3339)
	var result []models.OutfitDescription
	for _, d := range f.descriptions {
		if d.AuthorUserID == authorUserID || d.CreatedAt < cutoff {
			continue
		}
		if d.TargetUserID == "" || d.TargetUserID == authorUserID {
			result = append(result, d)
		}
	}
	return result, nil
}

type fakeMatchStore struct {
	mu      sync.Mutex
	matches map[string]models.Match
}

func newFakeMatchStore() *fakeMatchStore {
	return &fakeMatchStore{matches: make(map[string]models.Match)}
}

func (f *fakeMatchStore) CreateIfAbsent(ctx context.Context, match models.Match) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.matches[match.PairKey]; exists {
		return ErrConditionalCheckFailed
	}
	f.matches[match.PairKey] = match
	return nil
}

func (f *fakeMatchStore) GetByPairKey(ctx context.Context, pairKey string) (*models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if match, exists := f.matches[pairKey]; exists {
		return &match, nil
	}
	return nil, nil
}

func (f *fakeMatchStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.matches)
}

type fakeChatCreator struct {
	mu      sync.Mutex
	chatIDs []string
	err     error
}

func (f *fakeChatCreator) CreateChat(ctx context.Context, chatID, matchID, user1ID, user2ID string) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chatIDs = append(f.chatIDs, chatID)
	return nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	notified []string
	err      error
}

func (f *fakeNotifier) Notify(ctx context.Context, userID, title, body string, data map[string]string) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notified = append(f.notified, userID)
	return nil
}

type fakeSessionExpirer struct {
	mu      sync.Mutex
	expired []string
}

func (f *fakeSessionExpirer) MarkExpired(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expired = append(f.expired, sessionID)
	return nil
}

// ---------- helpers ----------

func newTestEngine(t *testing.T) (*MatchEngine, *fakeDescriptionStore, *fakeMatchStore, *fakeChatCreator, *fakeNotifier) {
	t.Helper()
	descriptions := &fakeDescriptionStore{}
	matches := newFakeMatchStore()
	chats := &fakeChatCreator{}
	notifier := &fakeNotifier{}
	engine := &MatchEngine{
		Config:       DefaultMatchConfig(),
		Descriptions: descriptions,
		Matches:      matches,
		Sessions:     &fakeSessionExpirer{},
		Chats:        chats,
		Notifier:     notifier,
	}
	return engine, descriptions, matches, chats, notifier
}

func submission(author, target string) MomentSubmission {
	return MomentSubmission{
		AuthorUserID: author,
		TargetUserID: target,
		Clothing:     []string{"dress"},
		Colors:       []string{"red"},
		Location:     models.Location{Latitude: 37.7749, Longitude: -122.4194},
	}
}

func mustSubmit(t *testing.T, engine *MatchEngine, sub MomentSubmission, now time.Time) *MatchResult {
	t.Helper()
	result, err := engine.SubmitAndEvaluate(context.Background(), sub, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return result
}

// ---------- validation ----------

func TestSubmitAndEvaluate_Validation(t *testing.T) {
	engine, _, _, _, _ := newTestEngine(t)
	now := time.Now()

	tests := []struct {
		name    string
		mutate  func(*MomentSubmission)
		wantErr error
	}{
		{"missing author", func(s *MomentSubmission) { s.AuthorUserID = "" }, ErrMissingUser},
		{"self target", func(s *MomentSubmission) { s.TargetUserID = s.AuthorUserID }, ErrSelfTarget},
		{"missing location", func(s *MomentSubmission) { s.Location = models.Location{} }, ErrMissingLocation},
		{"all categories empty", func(s *MomentSubmission) {
			s.Clothing, s.Accessories, s.Activity, s.Colors = nil, nil, nil, nil
		}, ErrEmptySelections},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := submission("u1", "u2")
			tt.mutate(&sub)
			_, err := engine.SubmitAndEvaluate(context.Background(), sub, now)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// ---------- matching ----------

func TestSubmitAndEvaluate_MutualIdenticalSubmissionsMatch(t *testing.T) {
	engine, _, matches, chats, notifier := newTestEngine(t)
	t0 := time.Now()

	first := mustSubmit(t, engine, submission("u1", "u2"), t0)
	if first.Outcome != OutcomeNone {
		t.Errorf("first submission outcome = %s, want none", first.Outcome)
	}

	second := mustSubmit(t, engine, submission("u2", "u1"), t0.Add(time.Minute))
	if second.Outcome != OutcomeMatched {
		t.Fatalf("second submission outcome = %s, want matched", second.Outcome)
	}
	if math.Abs(second.Score-1.0) > 1e-9 {
		t.Errorf("score = %f, want 1.0", second.Score)
	}
	if second.Match == nil || second.Match.ChatID == "" {
		t.Fatal("expected a match with an assigned chatId")
	}
	if second.Match.User1ID >= second.Match.User2ID {
		t.Errorf("user pair not canonically ordered: %s, %s", second.Match.User1ID, second.Match.User2ID)
	}
	if matches.count() != 1 {
		t.Errorf("expected exactly 1 match record, got %d", matches.count())
	}
	if len(chats.chatIDs) != 1 {
		t.Errorf("expected exactly 1 chat seeded, got %d", len(chats.chatIDs))
	}
	if len(notifier.notified) != 2 {
		t.Errorf("expected both users notified, got %v", notifier.notified)
	}
}

func TestSubmitAndEvaluate_BeyondRadiusIsNoMatch(t *testing.T) {
	engine, _, _, _, _ := newTestEngine(t)
	t0 := time.Now()

	mustSubmit(t, engine, submission("u1", "u2"), t0)

	far := submission("u2", "u1")
	far.Location = models.Location{Latitude: 37.7769, Longitude: -122.4194} // ~222m away
	result := mustSubmit(t, engine, far, t0.Add(time.Minute))
	if result.Outcome != OutcomePendingNoMatch {
		t.Errorf("outcome = %s, want pendingNoMatch despite identical tags", result.Outcome)
	}
}

func TestSubmitAndEvaluate_OutsideTimeWindowIsNoMatch(t *testing.T) {
	engine, _, _, _, _ := newTestEngine(t)
	t0 := time.Now()

	mustSubmit(t, engine, submission("u1", "u2"), t0)

	result := mustSubmit(t, engine, submission("u2", "u1"), t0.Add(20*time.Minute))
	if result.Outcome != OutcomePendingNoMatch {
		t.Errorf("outcome = %s, want pendingNoMatch for 20 minute gap", result.Outcome)
	}
}

func TestSubmitAndEvaluate_BelowThresholdIsNoMatch(t *testing.T) {
	engine, _, _, _, _ := newTestEngine(t)
	t0 := time.Now()

	a := submission("u1", "u2")
	a.Clothing = []string{"dress"}
	a.Colors = []string{"red"}
	mustSubmit(t, engine, a, t0)

	// Disjoint clothing and colors: score = 0.25 + 0.20 = 0.45 < 0.70.
	b := submission("u2", "u1")
	b.Clothing = []string{"jacket"}
	b.Colors = []string{"blue"}
	result := mustSubmit(t, engine, b, t0.Add(time.Minute))
	if result.Outcome != OutcomePendingNoMatch {
		t.Errorf("outcome = %s, want pendingNoMatch", result.Outcome)
	}
	if result.Score >= engine.Config.ScoreThreshold {
		t.Errorf("score %f unexpectedly above threshold", result.Score)
	}
}

func TestSubmitAndEvaluate_BroadPathMatchesUnknownTarget(t *testing.T) {
	engine, _, _, _, _ := newTestEngine(t)
	t0 := time.Now()

	// Neither side knows whom they saw.
	mustSubmit(t, engine, submission("u1", ""), t0)
	result := mustSubmit(t, engine, submission("u2", ""), t0.Add(time.Minute))

	if result.Outcome != OutcomeMatched {
		t.Errorf("outcome = %s, want matched on the broad path", result.Outcome)
	}
}

func TestSubmitAndEvaluate_PicksHighestScoringCandidate(t *testing.T) {
	engine, _, _, _, _ := newTestEngine(t)
	t0 := time.Now()

	weak := submission("u2", "")
	weak.Clothing = []string{"jacket"}
	weak.Colors = []string{"red"}
	mustSubmit(t, engine, weak, t0)

	strong := submission("u3", "")
	mustSubmit(t, engine, strong, t0.Add(time.Second))

	result := mustSubmit(t, engine, submission("u1", ""), t0.Add(time.Minute))
	if result.Outcome != OutcomeMatched {
		t.Fatalf("outcome = %s, want matched", result.Outcome)
	}
	if result.Match.User1ID != "u1" && result.Match.User2ID != "u1" {
		t.Fatal("submitter missing from match")
	}
	if result.Match.User1ID != "u3" && result.Match.User2ID != "u3" {
		t.Errorf("expected the identical-outfit candidate u3 to win, got pair %s/%s", result.Match.User1ID, result.Match.User2ID)
	}
}

// ---------- de-duplication ----------

func TestSubmitAndEvaluate_RepeatedSubmissionsCreateOneMatch(t *testing.T) {
	engine, _, matches, chats, _ := newTestEngine(t)
	// Pinned just past a bucket boundary so all calls share one time bucket.
	t0 := time.Date(2024, 5, 10, 12, 0, 30, 0, time.UTC)

	mustSubmit(t, engine, submission("u1", "u2"), t0)
	mustSubmit(t, engine, submission("u1", "u2"), t0.Add(10*time.Second)) // duplicate call

	first := mustSubmit(t, engine, submission("u2", "u1"), t0.Add(time.Minute))
	second := mustSubmit(t, engine, submission("u2", "u1"), t0.Add(2*time.Minute))

	if first.Outcome != OutcomeMatched || second.Outcome != OutcomeMatched {
		t.Fatalf("outcomes = %s, %s, want matched, matched", first.Outcome, second.Outcome)
	}
	if first.Match.MatchID != second.Match.MatchID {
		t.Error("repeated evaluation minted a second match")
	}
	if matches.count() != 1 {
		t.Errorf("expected exactly 1 match record, got %d", matches.count())
	}
	if len(chats.chatIDs) != 1 {
		t.Errorf("expected exactly 1 chat, got %d", len(chats.chatIDs))
	}
}

func TestSubmitAndEvaluate_ConcurrentMutualSubmissionsCreateOneMatch(t *testing.T) {
	engine, descriptions, matches, chats, _ := newTestEngine(t)
	t0 := time.Now()

	// Pre-store both descriptions so each concurrent evaluation sees the
	// other side as a candidate.
	seedA := submission("u1", "u2")
	seedB := submission("u2", "u1")
	descriptions.Create(context.Background(), models.OutfitDescription{
		DescriptionID: "d1", AuthorUserID: seedA.AuthorUserID, TargetUserID: seedA.TargetUserID,
		Clothing: seedA.Clothing, Colors: seedA.Colors,
		CreatedAt: t0.UTC().Format(time.RFC3339), Location: seedA.Location,
	})
	descriptions.Create(context.Background(), models.OutfitDescription{
		DescriptionID: "d2", AuthorUserID: seedB.AuthorUserID, TargetUserID: seedB.TargetUserID,
		Clothing: seedB.Clothing, Colors: seedB.Colors,
		CreatedAt: t0.UTC().Format(time.RFC3339), Location: seedB.Location,
	})

	var wg sync.WaitGroup
	results := make([]*MatchResult, 2)
	for i, sub := range []MomentSubmission{submission("u1", "u2"), submission("u2", "u1")} {
		wg.Add(1)
		go func(i int, sub MomentSubmission) {
			defer wg.Done()
			result, err := engine.SubmitAndEvaluate(context.Background(), sub, t0.Add(time.Minute))
			if err != nil {
				t.Errorf("concurrent submission failed: %v", err)
				return
			}
			results[i] = result
		}(i, sub)
	}
	wg.Wait()

	for i, result := range results {
		if result == nil || result.Outcome != OutcomeMatched {
			t.Fatalf("submission %d did not match: %+v", i, result)
		}
	}
	if results[0].Match.MatchID != results[1].Match.MatchID {
		t.Error("concurrent submissions produced different matches")
	}
	if matches.count() != 1 {
		t.Errorf("expected exactly 1 match record after the race, got %d", matches.count())
	}
	if len(chats.chatIDs) != 1 {
		t.Errorf("expected exactly 1 chat after the race, got %d", len(chats.chatIDs))
	}
}

// ---------- failure semantics ----------

func TestSubmitAndEvaluate_StorageFailureAborts(t *testing.T) {
	engine, descriptions, matches, _, _ := newTestEngine(t)
	descriptions.createErr = errors.New("dynamo unavailable")

	_, err := engine.SubmitAndEvaluate(context.Background(), submission("u1", "u2"), time.Now())
	if err == nil {
		t.Fatal("expected a storage error")
	}
	if matches.count() != 0 {
		t.Error("no match should exist after an aborted submission")
	}
}

func TestSubmitAndEvaluate_NotificationFailureDoesNotRollBack(t *testing.T) {
	engine, _, matches, _, notifier := newTestEngine(t)
	notifier.err = errors.New("push gateway down")
	t0 := time.Now()

	mustSubmit(t, engine, submission("u1", "u2"), t0)
	result := mustSubmit(t, engine, submission("u2", "u1"), t0.Add(time.Minute))

	if result.Outcome != OutcomeMatched {
		t.Errorf("outcome = %s, want matched despite notification failure", result.Outcome)
	}
	if matches.count() != 1 {
		t.Errorf("match should be durable, got %d records", matches.count())
	}
}

func TestSubmitAndEvaluate_ExpiredSessionConsumed(t *testing.T) {
	engine, _, _, _, _ := newTestEngine(t)
	sessions := engine.Sessions.(*fakeSessionExpirer)
	t0 := time.Now()

	a := submission("u1", "u2")
	a.SessionID = "s1"
	mustSubmit(t, engine, a, t0)

	b := submission("u2", "u1")
	b.SessionID = "s2"
	result := mustSubmit(t, engine, b, t0.Add(time.Minute))

	if result.Outcome != OutcomeMatched {
		t.Fatalf("outcome = %s, want matched", result.Outcome)
	}
	if len(sessions.expired) != 2 {
		t.Errorf("expected both sessions consumed, got %v", sessions.expired)
	}
}

// ---------- pair key ----------

func TestPairKey(t *testing.T) {
	now := time.Now()
	window := 15 * time.Minute

	if PairKey("u1", "u2", now, window) != PairKey("u2", "u1", now, window) {
		t.Error("pair key is not symmetric")
	}
	if PairKey("u1", "u2", now, window) == PairKey("u1", "u3", now, window) {
		t.Error("different pairs produced the same key")
	}
	if PairKey("u1", "u2", now, window) == PairKey("u1", "u2", now.Add(window+window), window) {
		t.Error("distinct time buckets produced the same key")
	}
}

func TestSortPair(t *testing.T) {
	a, b := SortPair("u2", "u1")
	if a != "u1" || b != "u2" {
		t.Errorf("SortPair = %s, %s, want u1, u2", a, b)
	}
	a, b = SortPair("u1", "u2")
	if a != "u1" || b != "u2" {
		t.Errorf("SortPair = %s, %s, want u1, u2", a, b)
	}
}
