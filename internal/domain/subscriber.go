package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

var (
	ErrInvalidEmail   = errors.New("invalid email")
	ErrMissingToken   = errors.New("missing token")
	ErrTokenNotFound  = errors.New("token not found")
	ErrTokenExpired   = errors.New("token expired")
	ErrDuplicateEmail = errors.New("subscriber with this email already exists")
)

const (
	SourceLandingPage = "landing-page"
	SourceSeed        = "seed"
)

type Subscriber struct {
	Email                string
	Name                 *string
	Source               string
	Verified             bool
	VerifyToken          *string
	VerifyTokenExpiresAt *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Pending reports whether a verification is outstanding: an unverified
// subscriber holding a token. Token and expiry are always set together.
func (s *Subscriber) Pending() bool {
	return !s.Verified && s.VerifyToken != nil
}

// emailRe accepts local@domain.tld with no whitespace in any part.
// Deliberately loose; the confirmation link is the real proof of ownership.
var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// NormalizeEmail trims and lower-cases an address. All lookups and
// writes key on the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether a normalized address has an acceptable shape.
func ValidEmail(email string) bool {
	return email != "" && emailRe.MatchString(email)
}
