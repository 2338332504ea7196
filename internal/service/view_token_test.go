package service

import (
	"errors"
	"testing"
	"time"

	"github.com/lightbike-next/internal/config"
)

func TestViewTokenRoundTrip(t *testing.T) {
	svc := NewViewTokenService(config.ViewConfig{TokenSecret: "secret", TTLMinutes: 5})
	token, expiresAt, err := svc.Issue("view-1")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if time.Until(expiresAt) <= 4*time.Minute {
		t.Fatalf("unexpected expiry: %v", expiresAt)
	}
	viewID, err := svc.Parse(token)
	if err != nil || viewID != "view-1" {
		t.Fatalf("parse failed: %q %v", viewID, err)
	}
}

func TestViewTokenRejectsForeignSecretAndExpiry(t *testing.T) {
	issuer := NewViewTokenService(config.ViewConfig{TokenSecret: "a", TTLMinutes: 5})
	token, _, err := issuer.Issue("view-1")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	other := NewViewTokenService(config.ViewConfig{TokenSecret: "b", TTLMinutes: 5})
	if _, err := other.Parse(token); !errors.Is(err, ErrViewTokenInvalid) {
		t.Fatalf("expected invalid token, got %v", err)
	}

	issuer.now = func() time.Time { return time.Now().Add(time.Hour) }
	if _, err := issuer.Parse(token); !errors.Is(err, ErrViewTokenInvalid) {
		t.Fatalf("expected expired token to be invalid, got %v", err)
	}
	if _, err := issuer.Parse("  "); !errors.Is(err, ErrViewTokenInvalid) {
		t.Fatalf("expected empty token to be invalid, got %v", err)
	}
}
