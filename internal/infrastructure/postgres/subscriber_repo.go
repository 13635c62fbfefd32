package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cozmicai/waitlist/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const subscriberColumns = `email, name, source, verified, verify_token,
	       verify_token_expires_at, created_at, updated_at`

type SubscriberRepository struct {
	pool *pgxpool.Pool
}

func NewSubscriberRepository(pool *pgxpool.Pool) *SubscriberRepository {
	return &SubscriberRepository{pool: pool}
}

func (r *SubscriberRepository) FindByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	query := `SELECT ` + subscriberColumns + ` FROM subscribers WHERE email = $1`

	sub, err := scanSubscriber(r.pool.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return sub, err
}

func (r *SubscriberRepository) FindByToken(ctx context.Context, token string) (*domain.Subscriber, error) {
	query := `SELECT ` + subscriberColumns + ` FROM subscribers WHERE verify_token = $1`

	sub, err := scanSubscriber(r.pool.QueryRow(ctx, query, token))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return sub, err
}

func (r *SubscriberRepository) Insert(ctx context.Context, sub *domain.Subscriber) (*domain.Subscriber, error) {
	query := `
		INSERT INTO subscribers (
			email, name, source, verified, verify_token, verify_token_expires_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + subscriberColumns

	row := r.pool.QueryRow(ctx, query,
		sub.Email,
		sub.Name,
		sub.Source,
		sub.Verified,
		sub.VerifyToken,
		sub.VerifyTokenExpiresAt,
	)

	created, err := scanSubscriber(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, err
	}
	return created, nil
}

func (r *SubscriberRepository) RefreshToken(ctx context.Context, email, token string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE subscribers
		SET    verify_token            = $2,
		       verify_token_expires_at = $3,
		       updated_at              = NOW()
		WHERE  email = $1`,
		email, token, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("refresh token: %w", err)
	}
	return nil
}

func (r *SubscriberRepository) UpdateName(ctx context.Context, email, name string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE subscribers
		SET    name       = $2,
		       updated_at = NOW()
		WHERE  email = $1`,
		email, name,
	)
	if err != nil {
		return fmt.Errorf("update name: %w", err)
	}
	return nil
}

// Claim is the only path that flips verified. The conditional UPDATE
// makes concurrent confirms race-free: at most one call matches the
// token before it is cleared.
func (r *SubscriberRepository) Claim(ctx context.Context, token string) (*domain.Subscriber, error) {
	query := `
		UPDATE subscribers
		SET    verified                = TRUE,
		       verify_token            = NULL,
		       verify_token_expires_at = NULL,
		       updated_at              = NOW()
		WHERE  verify_token = $1
		  AND  verify_token_expires_at IS NOT NULL
		  AND  verify_token_expires_at > NOW()
		RETURNING ` + subscriberColumns

	sub, err := scanSubscriber(r.pool.QueryRow(ctx, query, token))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTokenNotFound
	}
	return sub, err
}

func (r *SubscriberRepository) CountByStatus(ctx context.Context) (verified, pending int64, err error) {
	query := `
		SELECT COUNT(*) FILTER (WHERE verified),
		       COUNT(*) FILTER (WHERE NOT verified)
		FROM subscribers`

	if err := r.pool.QueryRow(ctx, query).Scan(&verified, &pending); err != nil {
		return 0, 0, fmt.Errorf("count subscribers: %w", err)
	}
	return verified, pending, nil
}

func (r *SubscriberRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM subscribers`)
	if err != nil {
		return 0, fmt.Errorf("delete subscribers: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanSubscriber(row pgx.Row) (*domain.Subscriber, error) {
	var s domain.Subscriber
	err := row.Scan(
		&s.Email,
		&s.Name,
		&s.Source,
		&s.Verified,
		&s.VerifyToken,
		&s.VerifyTokenExpiresAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan subscriber: %w", err)
	}
	return &s, nil
}
