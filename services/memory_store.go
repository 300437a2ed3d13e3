package services

import (
	"context"
	"fmt"
	"sync"

	"hyyq_server/models"
)

// MemoryMatchStore is a mutex-guarded MatchStore used by tests and for
// running the server without AWS (STORE=memory). It honors the same
// conditional-update contract as the DynamoDB store: participant mutations
// check and apply under one lock.
type MemoryMatchStore struct {
	mu      sync.Mutex
	matches map[string]*models.Match
}

func NewMemoryMatchStore() *MemoryMatchStore {
	return &MemoryMatchStore{matches: make(map[string]*models.Match)}
}

func copyMatch(m *models.Match) *models.Match {
	c := *m
	c.Participants = append([]models.Participant(nil), m.Participants...)
	c.ParticipantIDs = append([]string(nil), m.ParticipantIDs...)
	c.Images = append([]string(nil), m.Images...)
	return &c
}

func (s *MemoryMatchStore) Put(ctx context.Context, m *models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[m.MatchID] = copyMatch(m)
	return nil
}

func (s *MemoryMatchStore) Get(ctx context.Context, matchID string) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[matchID]
	if !ok {
		return nil, ErrMatchNotFound
	}
	return copyMatch(m), nil
}

func (s *MemoryMatchStore) Update(ctx context.Context, matchID string, updates map[string]interface{}) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[matchID]
	if !ok {
		return nil, ErrMatchNotFound
	}

	// Patch a copy and swap it in only once every field applied, so a bad
	// field cannot leave a half-updated record behind.
	patched := copyMatch(m)
	for field, value := range updates {
		if err := applyField(patched, field, value); err != nil {
			return nil, err
		}
	}
	s.matches[matchID] = patched
	return copyMatch(patched), nil
}

func applyField(m *models.Match, field string, value interface{}) error {
	switch field {
	case "content":
		m.Content = value.(string)
	case "sport":
		m.Sport = value.(string)
	case "startTime":
		m.StartTime = value.(string)
	case "duration":
		m.Duration = value.(float64)
	case "location":
		m.Location = value.(string)
	case "level":
		m.Level = value.(string)
	case "needPeople":
		m.NeedPeople = value.(int)
	case "contact":
		m.Contact = value.(string)
	case "images":
		m.Images = append([]string(nil), value.([]string)...)
	case "status":
		m.Status = value.(string)
	default:
		return fmt.Errorf("unknown match field '%s'", field)
	}
	return nil
}

func (s *MemoryMatchStore) Delete(ctx context.Context, matchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matches, matchID)
	return nil
}

func (s *MemoryMatchStore) Scan(ctx context.Context, filter MatchFilter) ([]models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Match
	for _, m := range s.matches {
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}
		if filter.Sport != "" && m.Sport != filter.Sport {
			continue
		}
		if filter.Level != "" && m.Level != filter.Level {
			continue
		}
		if filter.UserID != "" && m.UserID != filter.UserID {
			continue
		}
		out = append(out, *copyMatch(m))
	}
	return out, nil
}

func (s *MemoryMatchStore) AddParticipant(ctx context.Context, matchID string, p models.Participant) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[matchID]
	if !ok {
		return nil, ErrMatchNotFound
	}
	if m.CurrentPeople >= m.NeedPeople || m.HasParticipant(p.UserID) {
		return nil, ErrConditionFailed
	}
	m.Participants = append(m.Participants, p)
	m.ParticipantIDs = append(m.ParticipantIDs, p.UserID)
	m.CurrentPeople++
	return copyMatch(m), nil
}

func (s *MemoryMatchStore) RemoveParticipant(ctx context.Context, matchID string, userID string) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[matchID]
	if !ok {
		return nil, ErrMatchNotFound
	}
	index := -1
	for i, p := range m.Participants {
		if p.UserID == userID {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, ErrConditionFailed
	}
	m.Participants = append(m.Participants[:index], m.Participants[index+1:]...)
	m.ParticipantIDs = append(m.ParticipantIDs[:index], m.ParticipantIDs[index+1:]...)
	m.CurrentPeople--
	return copyMatch(m), nil
}
