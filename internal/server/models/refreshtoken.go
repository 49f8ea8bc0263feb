package models

import "time"

// RefreshToken is a server-stored, rotating token that lets a client obtain
// a new access token without re-authenticating.
type RefreshToken struct {
	UserID    string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}
