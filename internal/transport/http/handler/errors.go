package handler

// Wire-facing reason strings. The landing page parses these verbatim.
const (
	errInvalidEmail = "Invalid email"
	errServerError  = "Server error"
	errMissingToken = "Missing token"
	errInvalidToken = "Invalid token"
	errTokenExpired = "Token expired"
)
