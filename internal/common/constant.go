package common

const (
	// AuthHeaderName is the HTTP header carrying the bearer token.
	AuthHeaderName = "Authorization"

	// BearerPrefix precedes the token value in AuthHeaderName.
	BearerPrefix = "Bearer "
)
