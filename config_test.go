package main

import (
	"testing"
	"time"

	"inkwell/auth"
)

func TestTokenTTL(t *testing.T) {
	var c Config
	if got := c.TokenTTL(); got != auth.DefaultTTL {
		t.Fatalf("expected unset ttl to fall back to %v, got %v", auth.DefaultTTL, got)
	}
	c.TokenTTLHours = 48
	if got := c.TokenTTL(); got != 48*time.Hour {
		t.Fatalf("expected 48h, got %v", got)
	}
}
