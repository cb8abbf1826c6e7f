package domain

import "time"

// Session is one issued credential pair. The two keys are independent
// opaque secrets; the row is the only thing that makes a signed JWT live.
// Rotation and supersession expire the row in place, they never delete it.
type Session struct {
	ID         string
	UserID     string
	AccessKey  string
	RefreshKey string
	ExpiresAt  time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Live reports whether the session can still back tokens at the given time.
func (s *Session) Live(now time.Time) bool {
	return s.ExpiresAt.After(now)
}

// TokenPair is the result of issuing or rotating a session.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int // access token lifetime in seconds
}
