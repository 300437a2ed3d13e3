package models

import "time"

// Participant is a membership record embedded in a Match. The publisher is
// never a Participant entry; they occupy the first slot implicitly.
type Participant struct {
	UserID   string    `dynamodbav:"userId" json:"userId"`
	UserName string    `dynamodbav:"userName" json:"userName"`
	JoinTime time.Time `dynamodbav:"joinTime" json:"joinTime"`
}

// Match is a published sports meetup with a capacity-bounded participant list.
type Match struct {
	MatchID       string        `dynamodbav:"matchId" json:"matchId"`
	Content       string        `dynamodbav:"content" json:"content"`
	Sport         string        `dynamodbav:"sport" json:"sport"`
	StartTime     string        `dynamodbav:"startTime" json:"startTime"` // locale descriptor, e.g. "07月29日 周二 18时00分"
	Duration      float64       `dynamodbav:"duration" json:"duration"`   // hours
	Location      string        `dynamodbav:"location" json:"location"`
	Level         string        `dynamodbav:"level" json:"level"`
	NeedPeople    int           `dynamodbav:"needPeople" json:"needPeople"`
	CurrentPeople int           `dynamodbav:"currentPeople" json:"currentPeople"`
	Contact       string        `dynamodbav:"contact" json:"contact,omitempty"`
	Images        []string      `dynamodbav:"images" json:"images"`
	Status        string        `dynamodbav:"status" json:"status"`
	UserID        string        `dynamodbav:"userId" json:"userId"`
	UserName      string        `dynamodbav:"userName" json:"userName"`
	UserAvatar    string        `dynamodbav:"userAvatar" json:"userAvatar"`
	Participants  []Participant `dynamodbav:"participants" json:"participants"`
	// ParticipantIDs mirrors Participants by user id so storage-level
	// conditional expressions can test membership with contains().
	ParticipantIDs []string  `dynamodbav:"participantIds" json:"-"`
	PublishTime    time.Time `dynamodbav:"publishTime" json:"publishTime"`
}

// HasParticipant reports whether userID already holds a participant slot.
func (m *Match) HasParticipant(userID string) bool {
	for _, p := range m.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// IsFull reports whether every slot, including the publisher's, is taken.
func (m *Match) IsFull() bool {
	return m.CurrentPeople >= m.NeedPeople
}

// MatchesTable is the DynamoDB table name for published matches
const MatchesTable = "Matches"
