package services

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"fidha_server/models"

	"github.com/google/uuid"
)

// MatchOutcome classifies the result of a moment submission.
type MatchOutcome string

const (
	// OutcomeNone means no candidate descriptions existed at all.
	OutcomeNone MatchOutcome = "none"
	// OutcomePendingNoMatch means the description was stored but no
	// candidate cleared the gates; it stays eligible until the other side
	// submits.
	OutcomePendingNoMatch MatchOutcome = "pendingNoMatch"
	// OutcomeMatched means a mutual match was found or already existed.
	OutcomeMatched MatchOutcome = "matched"
)

// MatchResult is what a submission caller gets back.
type MatchResult struct {
	Outcome MatchOutcome  `json:"outcome"`
	Score   float64       `json:"score,omitempty"`
	Match   *models.Match `json:"match,omitempty"`
}

// MomentSubmission is one user's account of a moment: whom they think they
// saw (optional), what the stranger was wearing, and where.
type MomentSubmission struct {
	SessionID    string          `json:"sessionId,omitempty"`
	AuthorUserID string          `json:"authorUserId"`
	TargetUserID string          `json:"targetUserId,omitempty"`
	Clothing     []string        `json:"clothing"`
	Accessories  []string        `json:"accessories"`
	Activity     []string        `json:"activity"`
	Colors       []string        `json:"colors"`
	Location     models.Location `json:"location"`
}

// Engine collaborators. The concrete Dynamo-backed services satisfy these;
// tests substitute in-memory fakes.

type descriptionStore interface {
	Create(ctx context.Context, description models.OutfitDescription) error
	FindReciprocal(ctx context.Context, authorUserID, targetUserID string) ([]models.OutfitDescription, error)
	FindCandidatesWithinWindow(ctx context.Context, authorUserID string, now time.Time, window time.Duration) ([]models.OutfitDescription, error)
}

type matchStore interface {
	CreateIfAbsent(ctx context.Context, match models.Match) error
	GetByPairKey(ctx context.Context, pairKey string) (*models.Match, error)
}

type sessionExpirer interface {
	MarkExpired(ctx context.Context, sessionID string) error
}

type chatCreator interface {
	CreateChat(ctx context.Context, chatID, matchID, user1ID, user2ID string) error
}

type notifier interface {
	Notify(ctx context.Context, userID, title, body string, data map[string]string) error
}

// MatchEngine decides whether two independently submitted outfit
// descriptions are the same moment seen from both sides.
type MatchEngine struct {
	Config       MatchConfig
	Descriptions descriptionStore
	Matches      matchStore
	Sessions     sessionExpirer
	Chats        chatCreator
	Notifier     notifier
}

// SubmitAndEvaluate persists the submission and immediately evaluates it
// against the other side's stored descriptions. Matching is symmetric: if
// this call returns pendingNoMatch, the match can still be made later by the
// other party's submission.
func (e *MatchEngine) SubmitAndEvaluate(ctx context.Context, submission MomentSubmission, now time.Time) (*MatchResult, error) {
	if err := validateSubmission(submission); err != nil {
		return nil, err
	}

	description := models.OutfitDescription{
		DescriptionID: uuid.New().String(),
		SessionID:     submission.SessionID,
		AuthorUserID:  submission.AuthorUserID,
		TargetUserID:  submission.TargetUserID,
		Clothing:      submission.Clothing,
		Accessories:   submission.Accessories,
		Activity:      submission.Activity,
		Colors:        submission.Colors,
		CreatedAt:     now.UTC().Format(time.RFC3339),
		Location:      submission.Location,
	}

	// A failed write aborts the whole operation: the submission is not
	// accepted and the caller may retry it safely.
	if err := e.Descriptions.Create(ctx, description); err != nil {
		return nil, err
	}

	candidates, err := e.collectCandidates(ctx, submission, now)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return &MatchResult{Outcome: OutcomeNone}, nil
	}

	best, bestScore := e.pickBestCandidate(description, candidates, now)
	if best == nil || bestScore < e.Config.ScoreThreshold {
		return &MatchResult{Outcome: OutcomePendingNoMatch, Score: bestScore}, nil
	}

	return e.createMatch(ctx, description, *best, bestScore, now)
}

func validateSubmission(submission MomentSubmission) error {
	if submission.AuthorUserID == "" {
		return ErrMissingUser
	}
	if submission.TargetUserID != "" && submission.TargetUserID == submission.AuthorUserID {
		return ErrSelfTarget
	}
	if submission.Location.Latitude == 0 && submission.Location.Longitude == 0 {
		return ErrMissingLocation
	}
	if len(submission.Clothing) == 0 && len(submission.Accessories) == 0 &&
		len(submission.Activity) == 0 && len(submission.Colors) == 0 {
		return ErrEmptySelections
	}
	return nil
}

// collectCandidates builds the candidate set: the direct mutual-reference
// path when the submitter knows whom they saw, the broad time-windowed path
// otherwise.
func (e *MatchEngine) collectCandidates(ctx context.Context, submission MomentSubmission, now time.Time) ([]models.OutfitDescription, error) {
	if submission.TargetUserID != "" {
		return e.Descriptions.FindReciprocal(ctx, submission.AuthorUserID, submission.TargetUserID)
	}
	return e.Descriptions.FindCandidatesWithinWindow(ctx, submission.AuthorUserID, now, e.Config.TimeWindow)
}

// pickBestCandidate applies the cheap gates first (time window, then radius)
// and scores the survivors, keeping the highest.
func (e *MatchEngine) pickBestCandidate(description models.OutfitDescription, candidates []models.OutfitDescription, now time.Time) (*models.OutfitDescription, float64) {
	submittedAt, err := time.Parse(time.RFC3339, description.CreatedAt)
	if err != nil {
		submittedAt = now
	}

	var best *models.OutfitDescription
	bestScore := 0.0

	for i := range candidates {
		candidate := &candidates[i]

		candidateAt, err := time.Parse(time.RFC3339, candidate.CreatedAt)
		if err != nil {
			continue
		}
		if math.Abs(submittedAt.Sub(candidateAt).Seconds()) > e.Config.TimeWindow.Seconds() {
			continue
		}

		distance := DistanceMeters(
			description.Location.Latitude, description.Location.Longitude,
			candidate.Location.Latitude, candidate.Location.Longitude,
		)
		if distance > e.Config.RadiusMeters {
			continue
		}

		score := ScoreDescriptions(&description, candidate, e.Config.Weights)
		if best == nil || score > bestScore {
			best = candidate
			bestScore = score
		}
	}

	return best, bestScore
}

// createMatch writes the match under its deterministic pair key, seeds the
// chat and notifies both participants. The match record is the durable
// source of truth: chat seeding and notification failures are logged, never
// rolled back.
func (e *MatchEngine) createMatch(ctx context.Context, mine, theirs models.OutfitDescription, score float64, now time.Time) (*MatchResult, error) {
	pairKey := PairKey(mine.AuthorUserID, theirs.AuthorUserID, now, e.Config.TimeWindow)

	// Repeated submissions must not mint a second match for the same pair.
	if existing, err := e.Matches.GetByPairKey(ctx, pairKey); err != nil {
		return nil, err
	} else if existing != nil && existing.Status != models.MatchStatusExpired {
		return &MatchResult{Outcome: OutcomeMatched, Score: existing.Score, Match: existing}, nil
	}

	user1, user2 := SortPair(mine.AuthorUserID, theirs.AuthorUserID)
	desc1, desc2 := mine.DescriptionID, theirs.DescriptionID
	if user1 != mine.AuthorUserID {
		desc1, desc2 = desc2, desc1
	}

	match := models.Match{
		PairKey:        pairKey,
		MatchID:        uuid.New().String(),
		User1ID:        user1,
		User2ID:        user2,
		Description1ID: desc1,
		Description2ID: desc2,
		Score:          score,
		CreatedAt:      now.UTC().Format(time.RFC3339),
		Status:         models.MatchStatusMatched,
		ChatID:         uuid.New().String(),
	}

	if err := e.Matches.CreateIfAbsent(ctx, match); err != nil {
		if errors.Is(err, ErrConditionalCheckFailed) {
			// The other side's concurrent submission won the race. Their
			// match is ours too.
			existing, getErr := e.Matches.GetByPairKey(ctx, pairKey)
			if getErr != nil {
				return nil, getErr
			}
			if existing != nil {
				log.Printf("Match for pair %s already created concurrently, returning existing match %s", pairKey, existing.MatchID)
				return &MatchResult{Outcome: OutcomeMatched, Score: existing.Score, Match: existing}, nil
			}
		}
		return nil, err
	}

	log.Printf("Match %s created between %s and %s (score %.2f)", match.MatchID, user1, user2, score)

	e.consumeSessions(ctx, mine.SessionID, theirs.SessionID)

	if e.Chats != nil {
		if err := e.Chats.CreateChat(ctx, match.ChatID, match.MatchID, user1, user2); err != nil {
			log.Printf("Failed to seed chat %s for match %s: %v", match.ChatID, match.MatchID, err)
		}
	}

	e.notifyParticipants(ctx, match)

	return &MatchResult{Outcome: OutcomeMatched, Score: score, Match: &match}, nil
}

// consumeSessions expires the discovery sessions behind a fresh match.
func (e *MatchEngine) consumeSessions(ctx context.Context, sessionIDs ...string) {
	if e.Sessions == nil {
		return
	}
	for _, sessionID := range sessionIDs {
		if sessionID == "" {
			continue
		}
		if err := e.Sessions.MarkExpired(ctx, sessionID); err != nil {
			log.Printf("Failed to expire consumed session %s: %v", sessionID, err)
		}
	}
}

func (e *MatchEngine) notifyParticipants(ctx context.Context, match models.Match) {
	if e.Notifier == nil {
		return
	}

	data := map[string]string{
		"matchId": match.MatchID,
		"chatId":  match.ChatID,
		"type":    models.NotificationTypeMatch,
	}
	title := "New Match! 🎉"
	body := "You both noticed each other! Start a conversation."

	for _, userID := range []string{match.User1ID, match.User2ID} {
		if err := e.Notifier.Notify(ctx, userID, title, body, data); err != nil {
			// Best-effort: the match stands whether or not the push lands.
			log.Printf("Failed to notify user %s about match %s: %v", userID, match.MatchID, err)
		}
	}
}
