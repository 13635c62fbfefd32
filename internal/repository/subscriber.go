package repository

import (
	"context"
	"time"

	"github.com/cozmicai/waitlist/internal/domain"
)

type SubscriberRepository interface {
	// FindByEmail and FindByToken return (nil, nil) when no row matches;
	// errors are reserved for storage failures.
	FindByEmail(ctx context.Context, email string) (*domain.Subscriber, error)
	FindByToken(ctx context.Context, token string) (*domain.Subscriber, error)

	// Insert creates a new subscriber. Returns domain.ErrDuplicateEmail
	// if a row for the email already exists.
	Insert(ctx context.Context, sub *domain.Subscriber) (*domain.Subscriber, error)

	RefreshToken(ctx context.Context, email, token string, expiresAt time.Time) error
	UpdateName(ctx context.Context, email, name string) error

	// Claim atomically marks the subscriber holding an unexpired token
	// as verified and clears the token fields. Returns
	// domain.ErrTokenNotFound when no unexpired row matched; callers
	// distinguish expired from unknown via FindByToken.
	Claim(ctx context.Context, token string) (*domain.Subscriber, error)

	// CountByStatus returns verified and pending totals for metrics.
	CountByStatus(ctx context.Context) (verified, pending int64, err error)

	// DeleteAll wipes the table. Seeding/maintenance only.
	DeleteAll(ctx context.Context) (int64, error)
}
