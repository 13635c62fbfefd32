package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/cozmicai/waitlist/internal/domain"
	"github.com/cozmicai/waitlist/internal/email"
	"github.com/cozmicai/waitlist/internal/metrics"
	"github.com/cozmicai/waitlist/internal/repository"
)

const (
	tokenBytes      = 20 // 40 hex chars on the wire
	defaultTokenTTL = 24 * time.Hour

	// A slow mail provider must not hold the HTTP response hostage.
	sendTimeout = 10 * time.Second
)

// MailResult reports the outcome of a best-effort send. It travels in
// the response body rather than failing the request.
type MailResult struct {
	OK    bool   `json:"ok"`
	Info  string `json:"info,omitempty"`
	Error string `json:"error,omitempty"`
}

type SubscribeResult struct {
	Created bool
	Mail    MailResult
}

// SubscriberUsecase owns the subscription lifecycle: uniqueness by
// email, token issuance and refresh, one-shot confirmation.
type SubscriberUsecase struct {
	subs     repository.SubscriberRepository
	mail     email.Sender
	logger   *slog.Logger
	baseURL  string
	tokenTTL time.Duration
}

func NewSubscriberUsecase(subs repository.SubscriberRepository, mailSender email.Sender, baseURL string, logger *slog.Logger) *SubscriberUsecase {
	return &SubscriberUsecase{
		subs:     subs,
		mail:     mailSender,
		logger:   logger.With("component", "subscriber_usecase"),
		baseURL:  baseURL,
		tokenTTL: defaultTokenTTL,
	}
}

// Subscribe creates or refreshes a waitlist entry and emails a
// verification link. The mail attempt happens only after the write
// succeeded and its failure is reported as data, never as an error.
func (u *SubscriberUsecase) Subscribe(ctx context.Context, rawEmail, rawName string) (*SubscribeResult, error) {
	addr := domain.NormalizeEmail(rawEmail)
	if !domain.ValidEmail(addr) {
		return nil, domain.ErrInvalidEmail
	}
	name := strings.TrimSpace(rawName)

	token, err := newToken()
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	expiresAt := time.Now().Add(u.tokenTTL)

	existing, err := u.subs.FindByEmail(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("find subscriber: %w", err)
	}

	created := false
	if existing == nil {
		sub := &domain.Subscriber{
			Email:                addr,
			Source:               domain.SourceLandingPage,
			VerifyToken:          &token,
			VerifyTokenExpiresAt: &expiresAt,
		}
		if name != "" {
			sub.Name = &name
		}

		inserted, insertErr := u.subs.Insert(ctx, sub)
		switch {
		case insertErr == nil:
			created = true
			existing = inserted
		case errors.Is(insertErr, domain.ErrDuplicateEmail):
			// Lost the race with a concurrent first signup for the same
			// address; fall through to the update path.
			existing, err = u.subs.FindByEmail(ctx, addr)
			if err != nil {
				return nil, fmt.Errorf("find subscriber after conflict: %w", err)
			}
			if existing == nil {
				return nil, fmt.Errorf("subscriber vanished after unique conflict on %q", addr)
			}
		default:
			return nil, fmt.Errorf("insert subscriber: %w", insertErr)
		}
	}

	if !created {
		// Verified subscribers never get a fresh token; re-signup is a no-op
		// apart from a possible name update.
		if !existing.Verified {
			if err := u.subs.RefreshToken(ctx, addr, token, expiresAt); err != nil {
				return nil, err
			}
		}
		if name != "" && (existing.Name == nil || *existing.Name != name) {
			if err := u.subs.UpdateName(ctx, addr, name); err != nil {
				return nil, err
			}
		}
	}

	switch {
	case created:
		metrics.SignupsTotal.WithLabelValues("created").Inc()
	case existing.Verified:
		metrics.SignupsTotal.WithLabelValues("already_verified").Inc()
	default:
		metrics.SignupsTotal.WithLabelValues("refreshed").Inc()
	}

	greet := name
	if greet == "" && existing.Name != nil {
		greet = *existing.Name
	}
	mail := u.sendVerification(ctx, addr, greet, token)

	return &SubscribeResult{Created: created, Mail: mail}, nil
}

// Confirm consumes a verification token. The claim is a single
// conditional update, so a replayed or raced token observes
// ErrTokenNotFound once the first call has cleared it.
func (u *SubscriberUsecase) Confirm(ctx context.Context, token string) (*domain.Subscriber, error) {
	if token == "" {
		return nil, domain.ErrMissingToken
	}

	sub, err := u.subs.Claim(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			// A row still holding the token means it matched but is past
			// its window (or has a corrupt nil expiry, treated the same).
			held, findErr := u.subs.FindByToken(ctx, token)
			if findErr != nil {
				return nil, fmt.Errorf("find by token: %w", findErr)
			}
			if held != nil {
				metrics.ConfirmationsTotal.WithLabelValues("expired").Inc()
				return nil, domain.ErrTokenExpired
			}
			metrics.ConfirmationsTotal.WithLabelValues("invalid").Inc()
			return nil, domain.ErrTokenNotFound
		}
		return nil, fmt.Errorf("claim token: %w", err)
	}

	metrics.ConfirmationsTotal.WithLabelValues("verified").Inc()
	u.sendWelcome(ctx, sub)

	return sub, nil
}

func (u *SubscriberUsecase) sendVerification(ctx context.Context, to, name, token string) MailResult {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	info, err := u.mail.Send(sendCtx, email.VerificationMessage(to, name, u.baseURL, token))
	if err != nil {
		u.logger.ErrorContext(ctx, "send verification email", "email", to, "error", err)
		metrics.EmailsTotal.WithLabelValues("verification", "failed").Inc()
		return MailResult{OK: false, Error: err.Error()}
	}
	metrics.EmailsTotal.WithLabelValues("verification", "sent").Inc()
	return MailResult{OK: true, Info: info}
}

func (u *SubscriberUsecase) sendWelcome(ctx context.Context, sub *domain.Subscriber) {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	name := ""
	if sub.Name != nil {
		name = *sub.Name
	}
	if _, err := u.mail.Send(sendCtx, email.WelcomeMessage(sub.Email, name)); err != nil {
		u.logger.ErrorContext(ctx, "send welcome email", "email", sub.Email, "error", err)
		metrics.EmailsTotal.WithLabelValues("welcome", "failed").Inc()
		return
	}
	metrics.EmailsTotal.WithLabelValues("welcome", "sent").Inc()
}

func newToken() (string, error) {
	raw := make([]byte, tokenBytes)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}
