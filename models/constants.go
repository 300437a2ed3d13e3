package models

// Sport categories
const (
	SportSoccer      = "soccer"
	SportBasketball  = "basketball"
	SportBadminton   = "badminton"
	SportTennis      = "tennis"
	SportTableTennis = "table-tennis"
	SportVolleyball  = "volleyball"
	SportOther       = "other"
)

// Skill levels
const (
	LevelNovice   = "novice"
	LevelBeginner = "beginner"
	LevelAdvanced = "advanced"
	LevelExpert   = "expert"
	LevelAny      = "any"
)

// Match lifecycle statuses
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Field bounds for match validation
const (
	MaxContentLength = 500
	MinNeedPeople    = 1
	MaxNeedPeople    = 50
	MinDuration      = 0.5
	MaxDuration      = 24
	DefaultDuration  = 2
	MaxImages        = 9
)

var validSports = map[string]bool{
	SportSoccer:      true,
	SportBasketball:  true,
	SportBadminton:   true,
	SportTennis:      true,
	SportTableTennis: true,
	SportVolleyball:  true,
	SportOther:       true,
}

var validLevels = map[string]bool{
	LevelNovice:   true,
	LevelBeginner: true,
	LevelAdvanced: true,
	LevelExpert:   true,
	LevelAny:      true,
}

var validStatuses = map[string]bool{
	StatusActive:    true,
	StatusCompleted: true,
	StatusCancelled: true,
}

// IsValidSport reports whether s is a known sport category.
func IsValidSport(s string) bool { return validSports[s] }

// IsValidLevel reports whether l is a known skill level.
func IsValidLevel(l string) bool { return validLevels[l] }

// IsValidStatus reports whether s is a known lifecycle status.
func IsValidStatus(s string) bool { return validStatuses[s] }
