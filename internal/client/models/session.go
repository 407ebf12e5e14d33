package models

import "time"

// TokenPair is the credential pair returned by the token endpoint. The
// strings are opaque to the client except that the access token's payload is
// decoded for identity and expiry.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// SessionUser is the identity derived from the access token payload. It is
// never mutated independently: it always equals the decoded contents of the
// currently stored access token.
type SessionUser struct {
	UserID    int
	Username  string
	ExpiresAt time.Time
}

// Expired reports whether the session's access token has expired at the
// given instant.
func (u *SessionUser) Expired(now time.Time) bool {
	return !u.ExpiresAt.After(now)
}
