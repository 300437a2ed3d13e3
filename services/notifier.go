package services

import "hyyq_server/models"

// Match-room event names pushed to connected clients.
const (
	EventParticipantJoined = "participantJoined"
	EventParticipantLeft   = "participantLeft"
	EventStatusChanged     = "statusChanged"
	EventMatchDeleted      = "matchDeleted"
)

// MatchNotifier pushes match events to clients watching the match's room.
// Implementations must not block request handling.
type MatchNotifier interface {
	MatchEvent(event string, m *models.Match)
}
