package common

// PageSize is the fixed page size applied by the backend to task listings.
// The client only uses it to compute the total page count.
const PageSize = 10

// Storage keys for the persisted credential pair. Both entries are written
// together on login and removed together on logout or expiry detection.
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
)
