package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_Window(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New(2, time.Minute)
	l.now = func() time.Time { return now }

	if !l.Allow("k") || !l.Allow("k") {
		t.Fatal("first two attempts should pass")
	}
	if l.Allow("k") {
		t.Error("third attempt should be throttled")
	}
	if !l.Allow("other") {
		t.Error("keys are independent")
	}

	now = now.Add(61 * time.Second)
	if !l.Allow("k") {
		t.Error("a new window should start after the period")
	}
	if n := l.Sweep(); n != 1 {
		t.Errorf("Sweep removed %d, want 1 (the expired \"other\" window)", n)
	}
}

func TestLoginLimiter(t *testing.T) {
	ll := NewLoginLimiter(100, 2)
	r := httptest.NewRequest("POST", "/api/auth/login", nil)

	if !ll.Allow(r, "A@x.com") || !ll.Allow(r, "a@x.com ") {
		t.Fatal("first two attempts should pass")
	}
	if ll.Allow(r, "a@x.com") {
		t.Error("third attempt for the same email should be throttled")
	}
	ll.Succeeded("a@x.com")
	if !ll.Allow(r, "a@x.com") {
		t.Error("success should reset the email window")
	}

	var none *LoginLimiter
	if !none.Allow(r, "a@x.com") {
		t.Error("nil limiter allows everything")
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.1.2.3:5555"
	if got := ClientIP(r); got != "10.1.2.3" {
		t.Errorf("ClientIP = %q", got)
	}
	r.RemoteAddr = "10.1.2.3"
	if got := ClientIP(r); got != "10.1.2.3" {
		t.Errorf("ClientIP without port = %q", got)
	}
}
