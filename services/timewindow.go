package services

import (
	"os"
	"regexp"
	"strconv"
	"time"

	"hyyq_server/models"
)

// startTimePattern pulls month, day, hour and minute out of descriptors
// like "07月29日 周二 18时00分" or "7月9日 8时5分".
var startTimePattern = regexp.MustCompile(`(\d{1,2})月(\d{1,2})日.*?(\d{1,2})时(\d{1,2})分`)

// TimeWindowMatcher decides whether an instant falls inside a match's
// activity window [start, start+duration]. The stored descriptor carries
// no year, so Year pins the assumed one; zero means the current system
// year. That assumption breaks for matches published in December and
// queried in January, a known limitation of the stored schema.
type TimeWindowMatcher struct {
	Year     int
	Location *time.Location
}

// MatcherFromEnv builds a matcher pinned to the MATCH_YEAR environment
// variable. Unset or unparseable values leave Year at zero, so the
// current system year applies.
func MatcherFromEnv() TimeWindowMatcher {
	year, _ := strconv.Atoi(os.Getenv("MATCH_YEAR"))
	return TimeWindowMatcher{Year: year, Location: time.Local}
}

// Window parses the match's start-time descriptor and returns its activity
// window. ok is false when the descriptor fails to parse or a parsed field
// is out of range; such matches are excluded from overlap queries rather
// than reported as errors.
func (tw TimeWindowMatcher) Window(m *models.Match) (start, end time.Time, ok bool) {
	groups := startTimePattern.FindStringSubmatch(m.StartTime)
	if groups == nil {
		return time.Time{}, time.Time{}, false
	}

	month, _ := strconv.Atoi(groups[1])
	day, _ := strconv.Atoi(groups[2])
	hour, _ := strconv.Atoi(groups[3])
	minute, _ := strconv.Atoi(groups[4])
	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 {
		return time.Time{}, time.Time{}, false
	}

	year := tw.Year
	if year == 0 {
		year = time.Now().Year()
	}
	loc := tw.Location
	if loc == nil {
		loc = time.Local
	}

	duration := m.Duration
	if duration <= 0 {
		duration = models.DefaultDuration
	}

	start = time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc)
	end = start.Add(time.Duration(duration * float64(time.Hour)))
	return start, end, true
}

// Contains reports whether instant lies within the match's window,
// boundaries included.
func (tw TimeWindowMatcher) Contains(m *models.Match, instant time.Time) bool {
	start, end, ok := tw.Window(m)
	if !ok {
		return false
	}
	return !instant.Before(start) && !instant.After(end)
}
