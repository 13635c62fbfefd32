package domain_test

import (
	"testing"
	"time"

	"github.com/cozmicai/waitlist/internal/domain"
)

func TestNormalizeEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"priya@example.com", "priya@example.com"},
		{"  Priya@Example.COM  ", "priya@example.com"},
		{"A@B.com", "a@b.com"},
		{"\tuser@host.tld\n", "user@host.tld"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := domain.NormalizeEmail(tc.in); got != tc.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{
		"priya@example.com",
		"a@b.co",
		"first.last+tag@sub.domain.io",
	}
	invalid := []string{
		"",
		"noatsign",
		"a@b", // no dot after the @
		"a b@c.com",
		"a@b c.com",
		"@example.com",
		"user@",
	}

	for _, e := range valid {
		if !domain.ValidEmail(e) {
			t.Errorf("ValidEmail(%q) = false, want true", e)
		}
	}
	for _, e := range invalid {
		if domain.ValidEmail(e) {
			t.Errorf("ValidEmail(%q) = true, want false", e)
		}
	}
}

func TestPending(t *testing.T) {
	token := "abc"
	exp := time.Now().Add(time.Hour)

	pending := &domain.Subscriber{VerifyToken: &token, VerifyTokenExpiresAt: &exp}
	if !pending.Pending() {
		t.Error("unverified subscriber with token should be pending")
	}

	verified := &domain.Subscriber{Verified: true}
	if verified.Pending() {
		t.Error("verified subscriber should not be pending")
	}

	fresh := &domain.Subscriber{}
	if fresh.Pending() {
		t.Error("subscriber without token should not be pending")
	}
}
