// Package ratelimit throttles repeated login attempts per client address and
// per account email with fixed windows kept in memory.
package ratelimit

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/dalemusser/influencehub/internal/app/system/normalize"
)

// Limiter counts events per key inside a fixed window. It is safe for
// concurrent use.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
	now     func() time.Time
}

type window struct {
	count     int
	expiresAt time.Time
}

// New returns a limiter allowing limit events per key every period.
func New(limit int, period time.Duration) *Limiter {
	return &Limiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
	}
}

// Allow records one event for key and reports whether it is within the limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.After(w.expiresAt) {
		l.windows[key] = &window{count: 1, expiresAt: now.Add(l.period)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Reset forgets key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	delete(l.windows, key)
	l.mu.Unlock()
}

// Sweep drops expired windows and returns how many it removed.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	n := 0
	for k, w := range l.windows {
		if now.After(w.expiresAt) {
			delete(l.windows, k)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (l *Limiter) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			l.Sweep()
		}
	}
}

// ClientIP returns the host part of r.RemoteAddr. The router's RealIP
// middleware has already replaced it with the forwarded address when the
// service runs behind a proxy.
func ClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// MsgTooManyAttempts is the detail of a throttled login.
const MsgTooManyAttempts = "Too many login attempts. Please wait and try again."

// LoginLimiter throttles login attempts by address and by email.
type LoginLimiter struct {
	byIP    *Limiter
	byEmail *Limiter
}

// NewLoginLimiter allows ipLimit attempts per address per minute and
// emailLimit attempts per email every five minutes.
func NewLoginLimiter(ipLimit, emailLimit int) *LoginLimiter {
	return &LoginLimiter{
		byIP:    New(ipLimit, time.Minute),
		byEmail: New(emailLimit, 5*time.Minute),
	}
}

// Allow records an attempt for the request's address and email.
func (ll *LoginLimiter) Allow(r *http.Request, email string) bool {
	if ll == nil {
		return true
	}
	if !ll.byIP.Allow(ClientIP(r)) {
		return false
	}
	if email = normalize.Email(email); email != "" {
		return ll.byEmail.Allow(email)
	}
	return true
}

// Succeeded clears the email's count after a good login.
func (ll *LoginLimiter) Succeeded(email string) {
	if ll != nil {
		ll.byEmail.Reset(normalize.Email(email))
	}
}

// Run sweeps both limiters until ctx is done.
func (ll *LoginLimiter) Run(ctx context.Context) {
	go ll.byIP.Run(ctx, 2*time.Minute)
	ll.byEmail.Run(ctx, 10*time.Minute)
}
