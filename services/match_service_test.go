package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hyyq_server/models"
	"hyyq_server/services"
)

var testUsers = services.StaticUserDirectory{
	"publisher": {UserID: "publisher", Name: "Zhang Wei", Avatar: "/static/zw.png", Status: models.UserStatusActive},
	"joiner":    {UserID: "joiner", Name: "Li Na", Status: models.UserStatusActive},
	"joiner2":   {UserID: "joiner2", Name: "Wang Fang", Status: models.UserStatusActive},
	"banned":    {UserID: "banned", Name: "Blocked", Status: models.UserStatusDisabled},
}

// testClock hands out strictly increasing publish times so list ordering
// is deterministic.
func testClock() func() time.Time {
	base := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		base = base.Add(time.Minute)
		return base
	}
}

func newMatchService() *services.MatchService {
	return &services.MatchService{
		Store:   services.NewMemoryMatchStore(),
		Users:   testUsers,
		Matcher: services.TimeWindowMatcher{Year: 2025, Location: time.UTC},
		Now:     testClock(),
	}
}

func validCreateRequest() services.CreateMatchRequest {
	return services.CreateMatchRequest{
		Content:    "Friendly 5v5, all welcome",
		Sport:      models.SportBasketball,
		StartTime:  "07月29日 周二 18时00分",
		Duration:   2,
		Location:   "Chaoyang Park court 3",
		NeedPeople: 10,
	}
}

func TestCreate_PersistsMatchWithDefaults(t *testing.T) {
	svc := newMatchService()
	req := validCreateRequest()
	req.Duration = 0
	req.Level = ""

	match, err := svc.Create(context.Background(), "publisher", req)
	require.NoError(t, err)

	assert.NotEmpty(t, match.MatchID)
	assert.Equal(t, models.StatusActive, match.Status)
	assert.Equal(t, 1, match.CurrentPeople)
	assert.Empty(t, match.Participants)
	assert.Equal(t, models.LevelAny, match.Level)
	assert.EqualValues(t, models.DefaultDuration, match.Duration)
	assert.Equal(t, "publisher", match.UserID)
	assert.Equal(t, "Zhang Wei", match.UserName)
	assert.Equal(t, "/static/zw.png", match.UserAvatar)

	stored, err := svc.Get(context.Background(), match.MatchID)
	require.NoError(t, err)
	assert.Equal(t, match.MatchID, stored.MatchID)
}

func TestCreate_ValidationFailures(t *testing.T) {
	svc := newMatchService()

	cases := []struct {
		name   string
		mutate func(*services.CreateMatchRequest)
		field  string
	}{
		{"empty content", func(r *services.CreateMatchRequest) { r.Content = "  " }, "content"},
		{"unknown sport", func(r *services.CreateMatchRequest) { r.Sport = "curling" }, "sport"},
		{"empty start time", func(r *services.CreateMatchRequest) { r.StartTime = "" }, "startTime"},
		{"empty location", func(r *services.CreateMatchRequest) { r.Location = "" }, "location"},
		{"needPeople zero", func(r *services.CreateMatchRequest) { r.NeedPeople = 0 }, "needPeople"},
		{"needPeople too large", func(r *services.CreateMatchRequest) { r.NeedPeople = 51 }, "needPeople"},
		{"duration too short", func(r *services.CreateMatchRequest) { r.Duration = 0.25 }, "duration"},
		{"duration too long", func(r *services.CreateMatchRequest) { r.Duration = 25 }, "duration"},
		{"unknown level", func(r *services.CreateMatchRequest) { r.Level = "pro" }, "level"},
		{"too many images", func(r *services.CreateMatchRequest) { r.Images = make([]string, 10) }, "images"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest()
			tc.mutate(&req)

			_, err := svc.Create(context.Background(), "publisher", req)
			var validation *services.ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tc.field, validation.Field)
		})
	}
}

func TestCreate_ContentLengthLimit(t *testing.T) {
	svc := newMatchService()
	req := validCreateRequest()
	longContent := ""
	for i := 0; i < 501; i++ {
		longContent += "球"
	}
	req.Content = longContent

	_, err := svc.Create(context.Background(), "publisher", req)
	var validation *services.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "content", validation.Field)
}

func TestCreate_UnknownPublisher(t *testing.T) {
	svc := newMatchService()

	_, err := svc.Create(context.Background(), "ghost", validCreateRequest())
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}

func TestCreate_DisabledPublisher(t *testing.T) {
	svc := newMatchService()

	_, err := svc.Create(context.Background(), "banned", validCreateRequest())
	var permission *services.PermissionError
	assert.ErrorAs(t, err, &permission)
}

func TestGet_MissingMatch(t *testing.T) {
	svc := newMatchService()

	_, err := svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, services.ErrMatchNotFound)
}

func seedMatches(t *testing.T, svc *services.MatchService, count int, mutate func(int, *services.CreateMatchRequest)) []*models.Match {
	t.Helper()
	matches := make([]*models.Match, 0, count)
	for i := 0; i < count; i++ {
		req := validCreateRequest()
		req.Content = fmt.Sprintf("match number %d", i)
		if mutate != nil {
			mutate(i, &req)
		}
		m, err := svc.Create(context.Background(), "publisher", req)
		require.NoError(t, err)
		matches = append(matches, m)
	}
	return matches
}

func TestList_NewestFirstWithPagination(t *testing.T) {
	svc := newMatchService()
	seedMatches(t, svc, 5, nil)

	page1, total, err := svc.List(context.Background(), services.MatchFilter{Status: models.StatusActive}, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page1, 2)
	assert.Equal(t, "match number 4", page1[0].Content)
	assert.Equal(t, "match number 3", page1[1].Content)

	page3, total, err := svc.List(context.Background(), services.MatchFilter{Status: models.StatusActive}, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page3, 1)
	assert.Equal(t, "match number 0", page3[0].Content)
}

func TestList_PagePastEndIsEmpty(t *testing.T) {
	svc := newMatchService()
	seedMatches(t, svc, 3, nil)

	matches, total, err := svc.List(context.Background(), services.MatchFilter{}, 10, 20)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Empty(t, matches)
}

func TestList_RejectsNonPositivePagination(t *testing.T) {
	svc := newMatchService()

	var validation *services.ValidationError
	_, _, err := svc.List(context.Background(), services.MatchFilter{}, 0, 20)
	assert.ErrorAs(t, err, &validation)

	_, _, err = svc.List(context.Background(), services.MatchFilter{}, 1, 0)
	assert.ErrorAs(t, err, &validation)
}

func TestList_FiltersBySportAndStatus(t *testing.T) {
	svc := newMatchService()
	seedMatches(t, svc, 4, func(i int, req *services.CreateMatchRequest) {
		if i%2 == 0 {
			req.Sport = models.SportSoccer
		}
	})

	matches, total, err := svc.List(context.Background(), services.MatchFilter{Status: models.StatusActive, Sport: models.SportSoccer}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, m := range matches {
		assert.Equal(t, models.SportSoccer, m.Sport)
	}
}

func TestList_KeywordIsCaseInsensitive(t *testing.T) {
	svc := newMatchService()
	seedMatches(t, svc, 2, func(i int, req *services.CreateMatchRequest) {
		if i == 0 {
			req.Location = "Olympic Sports Center"
		}
	})

	matches, total, err := svc.List(context.Background(), services.MatchFilter{Keyword: "olympic"}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, matches, 1)
	assert.Equal(t, "Olympic Sports Center", matches[0].Location)
}

func TestListByTimeOverlap(t *testing.T) {
	svc := newMatchService()
	seedMatches(t, svc, 4, func(i int, req *services.CreateMatchRequest) {
		switch i {
		case 0:
			req.StartTime = "07月29日 周二 18时00分" // 18:00-20:00
		case 1:
			req.StartTime = "07月29日 周二 21时00分" // 21:00-23:00
		case 2:
			req.StartTime = "completely unparseable"
		case 3:
			req.StartTime = "07月29日 周二 17时30分" // 17:30-19:30
		}
	})

	instant := time.Date(2025, 7, 29, 19, 0, 0, 0, time.UTC)
	matches, total, err := svc.ListByTimeOverlap(context.Background(), instant, services.MatchFilter{}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, total, "only the two windows containing 19:00 should match")
	for _, m := range matches {
		assert.Contains(t, []string{"match number 0", "match number 3"}, m.Content)
	}

	late := time.Date(2025, 7, 29, 20, 30, 0, 0, time.UTC)
	_, total, err = svc.ListByTimeOverlap(context.Background(), late, services.MatchFilter{}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 0, total, "20:30 falls outside every window")

	evening := time.Date(2025, 7, 29, 21, 30, 0, 0, time.UTC)
	matches, total, err = svc.ListByTimeOverlap(context.Background(), evening, services.MatchFilter{}, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, "match number 1", matches[0].Content)
}

func TestListByTimeOverlap_YearPinnedFromEnv(t *testing.T) {
	t.Setenv("MATCH_YEAR", "2024")
	svc := &services.MatchService{
		Store:   services.NewMemoryMatchStore(),
		Users:   testUsers,
		Matcher: services.MatcherFromEnv(),
		Now:     testClock(),
	}
	seedMatches(t, svc, 1, nil) // starts 07-29 18:00, two hours

	pinned := time.Date(2024, 7, 29, 19, 0, 0, 0, time.Local)
	_, total, err := svc.ListByTimeOverlap(context.Background(), pinned, services.MatchFilter{}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	otherYear := time.Date(2025, 7, 29, 19, 0, 0, 0, time.Local)
	_, total, err = svc.ListByTimeOverlap(context.Background(), otherYear, services.MatchFilter{}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 0, total, "windows are anchored to the pinned year only")
}

func TestListByTimeOverlap_TotalCountsPostFilter(t *testing.T) {
	svc := newMatchService()
	seedMatches(t, svc, 6, func(i int, req *services.CreateMatchRequest) {
		if i < 3 {
			req.StartTime = "07月29日 周二 18时00分"
		} else {
			req.StartTime = "08月01日 周五 09时00分"
		}
	})

	instant := time.Date(2025, 7, 29, 19, 0, 0, 0, time.UTC)
	matches, total, err := svc.ListByTimeOverlap(context.Background(), instant, services.MatchFilter{}, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, matches, 2)
}

func TestUpdate_OnlyPublisherOrAdmin(t *testing.T) {
	svc := newMatchService()
	match := seedMatches(t, svc, 1, nil)[0]
	newContent := "moved to court 5"

	_, err := svc.Update(context.Background(), match.MatchID, "joiner", false, services.UpdateMatchRequest{Content: &newContent})
	var permission *services.PermissionError
	assert.ErrorAs(t, err, &permission)

	updated, err := svc.Update(context.Background(), match.MatchID, "joiner", true, services.UpdateMatchRequest{Content: &newContent})
	require.NoError(t, err)
	assert.Equal(t, newContent, updated.Content)

	updated, err = svc.Update(context.Background(), match.MatchID, "publisher", false, services.UpdateMatchRequest{Location: strPtr("new gym")})
	require.NoError(t, err)
	assert.Equal(t, "new gym", updated.Location)
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestUpdate_ValidatesPatchedFields(t *testing.T) {
	svc := newMatchService()
	match := seedMatches(t, svc, 1, nil)[0]

	var validation *services.ValidationError
	_, err := svc.Update(context.Background(), match.MatchID, "publisher", false, services.UpdateMatchRequest{NeedPeople: intPtr(51)})
	assert.ErrorAs(t, err, &validation)

	_, err = svc.Update(context.Background(), match.MatchID, "publisher", false, services.UpdateMatchRequest{Content: strPtr("")})
	assert.ErrorAs(t, err, &validation)
}

func TestUpdate_NeedPeopleCannotDropBelowOccupancy(t *testing.T) {
	store := services.NewMemoryMatchStore()
	svc := &services.MatchService{Store: store, Users: testUsers, Now: testClock()}
	participation := &services.ParticipationService{Store: store}

	req := validCreateRequest()
	req.NeedPeople = 3
	match, err := svc.Create(context.Background(), "publisher", req)
	require.NoError(t, err)

	_, err = participation.Join(context.Background(), match.MatchID, "joiner", "Li Na")
	require.NoError(t, err)

	var validation *services.ValidationError
	_, err = svc.Update(context.Background(), match.MatchID, "publisher", false, services.UpdateMatchRequest{NeedPeople: intPtr(1)})
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "needPeople", validation.Field)

	_, err = svc.Update(context.Background(), match.MatchID, "publisher", false, services.UpdateMatchRequest{NeedPeople: intPtr(2)})
	assert.NoError(t, err)
}

func TestSetStatus_AnyEnumTransition(t *testing.T) {
	svc := newMatchService()
	match := seedMatches(t, svc, 1, nil)[0]

	updated, err := svc.SetStatus(context.Background(), match.MatchID, "publisher", false, models.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)

	// no transition table: completed back to active is accepted
	updated, err = svc.SetStatus(context.Background(), match.MatchID, "publisher", false, models.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, updated.Status)
}

func TestSetStatus_RejectsUnknownStatus(t *testing.T) {
	svc := newMatchService()
	match := seedMatches(t, svc, 1, nil)[0]

	var validation *services.ValidationError
	_, err := svc.SetStatus(context.Background(), match.MatchID, "publisher", false, "archived")
	assert.ErrorAs(t, err, &validation)
}

func TestSetStatus_PermissionDenied(t *testing.T) {
	svc := newMatchService()
	match := seedMatches(t, svc, 1, nil)[0]

	var permission *services.PermissionError
	_, err := svc.SetStatus(context.Background(), match.MatchID, "joiner", false, models.StatusCancelled)
	assert.ErrorAs(t, err, &permission)
}

func TestDelete_CascadesAndChecksPermission(t *testing.T) {
	store := services.NewMemoryMatchStore()
	svc := &services.MatchService{Store: store, Users: testUsers, Now: testClock()}
	participation := &services.ParticipationService{Store: store}

	match, err := svc.Create(context.Background(), "publisher", validCreateRequest())
	require.NoError(t, err)
	_, err = participation.Join(context.Background(), match.MatchID, "joiner", "Li Na")
	require.NoError(t, err)

	var permission *services.PermissionError
	err = svc.Delete(context.Background(), match.MatchID, "joiner", false)
	assert.ErrorAs(t, err, &permission)

	require.NoError(t, svc.Delete(context.Background(), match.MatchID, "publisher", false))

	_, err = svc.Get(context.Background(), match.MatchID)
	assert.ErrorIs(t, err, services.ErrMatchNotFound)

	// pending participation requests against the deleted match fail too
	_, err = participation.Join(context.Background(), match.MatchID, "joiner2", "Wang Fang")
	assert.ErrorIs(t, err, services.ErrMatchNotFound)
	_, err = participation.Leave(context.Background(), match.MatchID, "joiner")
	assert.ErrorIs(t, err, services.ErrMatchNotFound)
}
