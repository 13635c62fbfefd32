package stats_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/cozmicai/waitlist/internal/domain"
	"github.com/cozmicai/waitlist/internal/metrics"
	"github.com/cozmicai/waitlist/internal/stats"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type countRepo struct {
	verified int64
	pending  int64
	err      error
}

func (r *countRepo) CountByStatus(_ context.Context) (int64, int64, error) {
	return r.verified, r.pending, r.err
}

func (r *countRepo) FindByEmail(_ context.Context, _ string) (*domain.Subscriber, error) {
	return nil, nil
}

func (r *countRepo) FindByToken(_ context.Context, _ string) (*domain.Subscriber, error) {
	return nil, nil
}

func (r *countRepo) Insert(_ context.Context, sub *domain.Subscriber) (*domain.Subscriber, error) {
	return sub, nil
}

func (r *countRepo) RefreshToken(_ context.Context, _, _ string, _ time.Time) error { return nil }
func (r *countRepo) UpdateName(_ context.Context, _, _ string) error                { return nil }

func (r *countRepo) Claim(_ context.Context, _ string) (*domain.Subscriber, error) {
	return nil, domain.ErrTokenNotFound
}

func (r *countRepo) DeleteAll(_ context.Context) (int64, error) { return 0, nil }

func TestNewCollector_RejectsBadCron(t *testing.T) {
	if _, err := stats.NewCollector(&countRepo{}, "not a cron expr", slog.Default()); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}

func TestCollector_SetsGaugesOnStart(t *testing.T) {
	repo := &countRepo{verified: 7, pending: 3}
	c, err := stats.NewCollector(repo, "@every 1h", slog.Default())
	if err != nil {
		t.Fatalf("new collector: %v", err)
	}

	// Start collects immediately; cancel before the first tick.
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Start(ctx)
		close(done)
	}()
	cancel()
	<-done

	if got := testutil.ToFloat64(metrics.Subscribers.WithLabelValues("verified")); got != 7 {
		t.Errorf("verified gauge = %f, want 7", got)
	}
	if got := testutil.ToFloat64(metrics.Subscribers.WithLabelValues("pending")); got != 3 {
		t.Errorf("pending gauge = %f, want 3", got)
	}
}

func TestCollector_CountError_LeavesGauges(t *testing.T) {
	metrics.Subscribers.WithLabelValues("verified").Set(5)

	repo := &countRepo{err: errors.New("db down")}
	c, err := stats.NewCollector(repo, "@every 1h", slog.Default())
	if err != nil {
		t.Fatalf("new collector: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Start(ctx)
		close(done)
	}()
	cancel()
	<-done

	if got := testutil.ToFloat64(metrics.Subscribers.WithLabelValues("verified")); got != 5 {
		t.Errorf("verified gauge = %f, want untouched 5", got)
	}
}
