package signal

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/codehaven/collab-server/internal/domain"
)

func TestTruncateShortStringUntouched(t *testing.T) {
	if got := truncate("alice", domain.MaxDisplayNameLen); got != "alice" {
		t.Fatalf("short name must pass through, got %q", got)
	}
}

func TestTruncateCutsOnRuneBoundary(t *testing.T) {
	// 1 ASCII byte plus 3-byte runes puts the byte cap mid-rune.
	name := "a" + strings.Repeat("€", 20)
	got := truncate(name, domain.MaxDisplayNameLen)
	if !utf8.ValidString(got) {
		t.Fatalf("truncation produced invalid UTF-8: %q", got)
	}
	if len(got) > domain.MaxDisplayNameLen {
		t.Fatalf("expected at most %d bytes, got %d", domain.MaxDisplayNameLen, len(got))
	}
	if got != "a"+strings.Repeat("€", 11) {
		t.Fatalf("expected cut before the split rune, got %q", got)
	}
}

func TestTruncateExactBoundary(t *testing.T) {
	name := strings.Repeat("€", 12) // exactly 36 bytes
	if got := truncate(name, domain.MaxDisplayNameLen); got != name {
		t.Fatalf("exact-length name must pass through, got %q", got)
	}
}
