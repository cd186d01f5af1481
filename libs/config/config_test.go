package config

import (
	"testing"
	"time"
)

func TestInt(t *testing.T) {
	t.Setenv("WORKER_COUNT", "")
	if n, err := Int("WORKER_COUNT", 4); err != nil || n != 4 {
		t.Fatalf("expected fallback 4, got %d %v", n, err)
	}
	t.Setenv("WORKER_COUNT", "8")
	if n, err := Int("WORKER_COUNT", 4); err != nil || n != 8 {
		t.Fatalf("expected 8, got %d %v", n, err)
	}
	t.Setenv("WORKER_COUNT", "-1")
	if _, err := Int("WORKER_COUNT", 4); err == nil {
		t.Fatal("expected error for negative value")
	}
}

func TestDuration(t *testing.T) {
	t.Setenv("INBOX_TTL", "90m")
	if d, err := Duration("INBOX_TTL", time.Hour); err != nil || d != 90*time.Minute {
		t.Fatalf("expected 90m, got %v %v", d, err)
	}
	t.Setenv("INBOX_TTL", "soon")
	if _, err := Duration("INBOX_TTL", time.Hour); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestBoolAndList(t *testing.T) {
	t.Setenv("NIGHTLY_ENABLED", "off")
	if Bool("NIGHTLY_ENABLED", true) {
		t.Fatal("expected false")
	}
	t.Setenv("NIGHTLY_ENABLED", "")
	if !Bool("NIGHTLY_ENABLED", true) {
		t.Fatal("expected fallback true")
	}
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	got := List("ALLOWED_ORIGINS")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("unexpected list %v", got)
	}
}

func TestPort(t *testing.T) {
	t.Setenv("PORT", "70000")
	if _, err := Port("PORT", "8090"); err == nil {
		t.Fatal("expected error for out of range port")
	}
}
