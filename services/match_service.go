package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"hyyq_server/models"
)

// MatchService owns the canonical set of match records: creation,
// filtered and time-overlap listing, updates, status transitions and
// deletion, with publisher/admin ownership checks.
type MatchService struct {
	Store    MatchStore
	Users    UserDirectory
	Matcher  TimeWindowMatcher
	Notifier MatchNotifier
	Now      func() time.Time
}

// CreateMatchRequest carries the publisher-supplied fields of a new match.
type CreateMatchRequest struct {
	Content    string   `json:"content"`
	Sport      string   `json:"sport"`
	StartTime  string   `json:"startTime"`
	Duration   float64  `json:"duration"`
	Location   string   `json:"location"`
	Level      string   `json:"level"`
	NeedPeople int      `json:"needPeople"`
	Contact    string   `json:"contact"`
	Images     []string `json:"images"`
}

// UpdateMatchRequest is a partial patch; nil fields are left untouched.
type UpdateMatchRequest struct {
	Content    *string  `json:"content"`
	Sport      *string  `json:"sport"`
	StartTime  *string  `json:"startTime"`
	Duration   *float64 `json:"duration"`
	Location   *string  `json:"location"`
	Level      *string  `json:"level"`
	NeedPeople *int     `json:"needPeople"`
	Contact    *string  `json:"contact"`
	Images     []string `json:"images"`
}

func (ms *MatchService) nowTime() time.Time {
	if ms.Now != nil {
		return ms.Now()
	}
	return time.Now()
}

func (ms *MatchService) notify(event string, m *models.Match) {
	if ms.Notifier != nil {
		ms.Notifier.MatchEvent(event, m)
	}
}

// Create validates the request, stamps the publisher onto the record and
// persists a fresh active match with the publisher holding the first slot.
func (ms *MatchService) Create(ctx context.Context, publisherID string, req CreateMatchRequest) (*models.Match, error) {
	publisher, err := ms.Users.Lookup(ctx, publisherID)
	if err != nil {
		return nil, err
	}
	if publisher.Disabled() {
		return nil, &PermissionError{Message: "account is disabled"}
	}

	if err := validateCreate(&req); err != nil {
		return nil, err
	}

	if req.Duration == 0 {
		req.Duration = models.DefaultDuration
	}
	if req.Level == "" {
		req.Level = models.LevelAny
	}
	if req.Images == nil {
		req.Images = []string{}
	}

	match := &models.Match{
		MatchID:        uuid.NewString(),
		Content:        req.Content,
		Sport:          req.Sport,
		StartTime:      req.StartTime,
		Duration:       req.Duration,
		Location:       req.Location,
		Level:          req.Level,
		NeedPeople:     req.NeedPeople,
		CurrentPeople:  1,
		Contact:        req.Contact,
		Images:         req.Images,
		Status:         models.StatusActive,
		UserID:         publisher.UserID,
		UserName:       publisher.Name,
		UserAvatar:     publisher.Avatar,
		Participants:   []models.Participant{},
		ParticipantIDs: []string{},
		PublishTime:    ms.nowTime(),
	}

	if err := ms.Store.Put(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to persist match: %w", err)
	}
	return match, nil
}

// Get returns the match or ErrMatchNotFound.
func (ms *MatchService) Get(ctx context.Context, matchID string) (*models.Match, error) {
	return ms.Store.Get(ctx, matchID)
}

// List returns one page of matches satisfying the filter, newest first,
// along with the total count across all pages. A page past the end yields
// an empty page, not an error.
func (ms *MatchService) List(ctx context.Context, filter MatchFilter, page, pageSize int) ([]models.Match, int, error) {
	if err := validatePagination(page, pageSize); err != nil {
		return nil, 0, err
	}

	matches, err := ms.fetchFiltered(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return paginate(matches, page, pageSize), len(matches), nil
}

// ListByTimeOverlap returns matches whose activity window contains the
// given instant. Window evaluation needs the stored descriptor parsed in
// application memory, so the full filtered set is fetched, narrowed, and
// only then paginated; total counts post-narrowing matches.
func (ms *MatchService) ListByTimeOverlap(ctx context.Context, instant time.Time, filter MatchFilter, page, pageSize int) ([]models.Match, int, error) {
	if err := validatePagination(page, pageSize); err != nil {
		return nil, 0, err
	}

	matches, err := ms.fetchFiltered(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	overlapping := matches[:0:0]
	for _, m := range matches {
		m := m
		if ms.Matcher.Contains(&m, instant) {
			overlapping = append(overlapping, m)
		}
	}
	return paginate(overlapping, page, pageSize), len(overlapping), nil
}

// Update applies a partial patch. Only the publisher or an administrator
// may modify a match, and the patch may not break field constraints or
// push needPeople below the current occupancy.
func (ms *MatchService) Update(ctx context.Context, matchID, callerID string, isAdmin bool, req UpdateMatchRequest) (*models.Match, error) {
	match, err := ms.Store.Get(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.UserID != callerID && !isAdmin {
		return nil, &PermissionError{Message: "only the publisher may modify this match"}
	}

	updates, err := buildUpdates(match, req)
	if err != nil {
		return nil, err
	}
	return ms.Store.Update(ctx, matchID, updates)
}

// SetStatus moves the match to any of the lifecycle statuses. Transitions
// are unrestricted beyond enum membership.
func (ms *MatchService) SetStatus(ctx context.Context, matchID, callerID string, isAdmin bool, status string) (*models.Match, error) {
	if !models.IsValidStatus(status) {
		return nil, &ValidationError{Field: "status", Message: "must be active, completed or cancelled"}
	}

	match, err := ms.Store.Get(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.UserID != callerID && !isAdmin {
		return nil, &PermissionError{Message: "only the publisher may change this match's status"}
	}

	updated, err := ms.Store.Update(ctx, matchID, map[string]interface{}{"status": status})
	if err != nil {
		return nil, err
	}
	ms.notify(EventStatusChanged, updated)
	return updated, nil
}

// Delete removes the match and its embedded participants.
func (ms *MatchService) Delete(ctx context.Context, matchID, callerID string, isAdmin bool) error {
	match, err := ms.Store.Get(ctx, matchID)
	if err != nil {
		return err
	}
	if match.UserID != callerID && !isAdmin {
		return &PermissionError{Message: "only the publisher may delete this match"}
	}

	if err := ms.Store.Delete(ctx, matchID); err != nil {
		return err
	}
	ms.notify(EventMatchDeleted, match)
	return nil
}

func (ms *MatchService) fetchFiltered(ctx context.Context, filter MatchFilter) ([]models.Match, error) {
	matches, err := ms.Store.Scan(ctx, filter)
	if err != nil {
		return nil, err
	}

	if keyword := strings.ToLower(filter.Keyword); keyword != "" {
		kept := matches[:0]
		for _, m := range matches {
			if strings.Contains(strings.ToLower(m.Content), keyword) ||
				strings.Contains(strings.ToLower(m.Location), keyword) {
				kept = append(kept, m)
			}
		}
		matches = kept
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].PublishTime.After(matches[j].PublishTime)
	})
	return matches, nil
}

func paginate(matches []models.Match, page, pageSize int) []models.Match {
	start := (page - 1) * pageSize
	if start >= len(matches) {
		return []models.Match{}
	}
	end := start + pageSize
	if end > len(matches) {
		end = len(matches)
	}
	return matches[start:end]
}

func validatePagination(page, pageSize int) error {
	if page < 1 {
		return &ValidationError{Field: "page", Message: "must be a positive integer"}
	}
	if pageSize < 1 {
		return &ValidationError{Field: "limit", Message: "must be a positive integer"}
	}
	return nil
}

func validateCreate(req *CreateMatchRequest) error {
	if strings.TrimSpace(req.Content) == "" {
		return &ValidationError{Field: "content", Message: "must not be empty"}
	}
	if len([]rune(req.Content)) > models.MaxContentLength {
		return &ValidationError{Field: "content", Message: fmt.Sprintf("must not exceed %d characters", models.MaxContentLength)}
	}
	if !models.IsValidSport(req.Sport) {
		return &ValidationError{Field: "sport", Message: "unknown sport category"}
	}
	if strings.TrimSpace(req.StartTime) == "" {
		return &ValidationError{Field: "startTime", Message: "must not be empty"}
	}
	if strings.TrimSpace(req.Location) == "" {
		return &ValidationError{Field: "location", Message: "must not be empty"}
	}
	if req.NeedPeople < models.MinNeedPeople || req.NeedPeople > models.MaxNeedPeople {
		return &ValidationError{Field: "needPeople", Message: fmt.Sprintf("must be between %d and %d", models.MinNeedPeople, models.MaxNeedPeople)}
	}
	if req.Duration != 0 && (req.Duration < models.MinDuration || req.Duration > models.MaxDuration) {
		return &ValidationError{Field: "duration", Message: "must be between 0.5 and 24 hours"}
	}
	if req.Level != "" && !models.IsValidLevel(req.Level) {
		return &ValidationError{Field: "level", Message: "unknown skill level"}
	}
	if len(req.Images) > models.MaxImages {
		return &ValidationError{Field: "images", Message: fmt.Sprintf("must not exceed %d images", models.MaxImages)}
	}
	return nil
}

func buildUpdates(match *models.Match, req UpdateMatchRequest) (map[string]interface{}, error) {
	updates := make(map[string]interface{})

	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return nil, &ValidationError{Field: "content", Message: "must not be empty"}
		}
		if len([]rune(*req.Content)) > models.MaxContentLength {
			return nil, &ValidationError{Field: "content", Message: fmt.Sprintf("must not exceed %d characters", models.MaxContentLength)}
		}
		updates["content"] = *req.Content
	}
	if req.Sport != nil {
		if !models.IsValidSport(*req.Sport) {
			return nil, &ValidationError{Field: "sport", Message: "unknown sport category"}
		}
		updates["sport"] = *req.Sport
	}
	if req.StartTime != nil {
		if strings.TrimSpace(*req.StartTime) == "" {
			return nil, &ValidationError{Field: "startTime", Message: "must not be empty"}
		}
		updates["startTime"] = *req.StartTime
	}
	if req.Duration != nil {
		if *req.Duration < models.MinDuration || *req.Duration > models.MaxDuration {
			return nil, &ValidationError{Field: "duration", Message: "must be between 0.5 and 24 hours"}
		}
		updates["duration"] = *req.Duration
	}
	if req.Location != nil {
		if strings.TrimSpace(*req.Location) == "" {
			return nil, &ValidationError{Field: "location", Message: "must not be empty"}
		}
		updates["location"] = *req.Location
	}
	if req.Level != nil {
		if !models.IsValidLevel(*req.Level) {
			return nil, &ValidationError{Field: "level", Message: "unknown skill level"}
		}
		updates["level"] = *req.Level
	}
	if req.NeedPeople != nil {
		if *req.NeedPeople < models.MinNeedPeople || *req.NeedPeople > models.MaxNeedPeople {
			return nil, &ValidationError{Field: "needPeople", Message: fmt.Sprintf("must be between %d and %d", models.MinNeedPeople, models.MaxNeedPeople)}
		}
		if *req.NeedPeople < match.CurrentPeople {
			return nil, &ValidationError{Field: "needPeople", Message: "must not drop below the current number of occupants"}
		}
		updates["needPeople"] = *req.NeedPeople
	}
	if req.Contact != nil {
		updates["contact"] = *req.Contact
	}
	if req.Images != nil {
		if len(req.Images) > models.MaxImages {
			return nil, &ValidationError{Field: "images", Message: fmt.Sprintf("must not exceed %d images", models.MaxImages)}
		}
		updates["images"] = req.Images
	}

	return updates, nil
}
