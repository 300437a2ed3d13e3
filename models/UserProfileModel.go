package models

// User account statuses
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// UserProfile is the slice of the account record the match engine needs:
// enough to stamp a publisher or participant onto a match. Account
// management itself lives in a separate service.
type UserProfile struct {
	UserID string `dynamodbav:"userId" json:"userId"`
	Name   string `dynamodbav:"name" json:"name"`
	Avatar string `dynamodbav:"avatar" json:"avatar"`
	Status string `dynamodbav:"status" json:"status"`
}

// Disabled reports whether the account has been suspended by an admin.
func (u *UserProfile) Disabled() bool {
	return u.Status == UserStatusDisabled
}

// UserProfilesTable is the DynamoDB table name for user accounts
const UserProfilesTable = "UserProfiles"
