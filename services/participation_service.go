package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hyyq_server/models"
)

// participationAttempts bounds the re-read-and-retry loop when a
// conditional participant update loses against concurrent writers.
const participationAttempts = 3

// ParticipationService enforces the membership invariants of a single
// match: at most needPeople occupants, at most one slot per user, and
// never the publisher as a participant. The capacity check and the
// mutation are applied as one conditional write at the store, so racing
// joins cannot overshoot needPeople.
type ParticipationService struct {
	Store    MatchStore
	Notifier MatchNotifier
	Now      func() time.Time
}

func (ps *ParticipationService) nowTime() time.Time {
	if ps.Now != nil {
		return ps.Now()
	}
	return time.Now()
}

func (ps *ParticipationService) notify(event string, m *models.Match) {
	if ps.Notifier != nil {
		ps.Notifier.MatchEvent(event, m)
	}
}

// Join adds userID to the match's participant list and bumps
// currentPeople. A lost conditional write triggers a fresh read, which
// either classifies the failure (full, duplicate, gone) or retries.
func (ps *ParticipationService) Join(ctx context.Context, matchID, userID, userName string) (*models.Match, error) {
	for attempt := 0; attempt < participationAttempts; attempt++ {
		match, err := ps.Store.Get(ctx, matchID)
		if err != nil {
			return nil, err
		}
		if match.UserID == userID {
			return nil, &ConflictError{Reason: ConflictSelfJoin}
		}
		if match.HasParticipant(userID) {
			return nil, &ConflictError{Reason: ConflictAlreadyJoined}
		}
		if match.IsFull() {
			return nil, ErrMatchFull
		}

		participant := models.Participant{
			UserID:   userID,
			UserName: userName,
			JoinTime: ps.nowTime(),
		}
		updated, err := ps.Store.AddParticipant(ctx, matchID, participant)
		if errors.Is(err, ErrConditionFailed) {
			continue
		}
		if err != nil {
			return nil, err
		}

		ps.notify(EventParticipantJoined, updated)
		return updated, nil
	}
	return nil, fmt.Errorf("join of match '%s' kept losing to concurrent updates: %w", matchID, ErrConditionFailed)
}

// Leave removes userID's participant slot and decrements currentPeople.
// The publisher holds no participant slot and therefore cannot leave;
// deleting the match is their only teardown path.
func (ps *ParticipationService) Leave(ctx context.Context, matchID, userID string) (*models.Match, error) {
	for attempt := 0; attempt < participationAttempts; attempt++ {
		match, err := ps.Store.Get(ctx, matchID)
		if err != nil {
			return nil, err
		}
		if !match.HasParticipant(userID) {
			return nil, &ConflictError{Reason: ConflictNotJoined}
		}

		updated, err := ps.Store.RemoveParticipant(ctx, matchID, userID)
		if errors.Is(err, ErrConditionFailed) {
			continue
		}
		if err != nil {
			return nil, err
		}

		ps.notify(EventParticipantLeft, updated)
		return updated, nil
	}
	return nil, fmt.Errorf("leave of match '%s' kept losing to concurrent updates: %w", matchID, ErrConditionFailed)
}
