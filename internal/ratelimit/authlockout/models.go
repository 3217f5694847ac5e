// Package authlockout throttles repeated failed logins per identifier and
// client IP.
package authlockout

import (
	"strings"
	"time"
)

// Record tracks failures for one identifier+IP key inside the current window.
type Record struct {
	Key          string
	FailureCount int
	WindowStart  time.Time
	LockedUntil  *time.Time
}

// IsLockedAt reports whether the key is locked at now.
func (r *Record) IsLockedAt(now time.Time) bool {
	return r.LockedUntil != nil && now.Before(*r.LockedUntil)
}

// WindowExpired reports whether failures recorded at WindowStart no longer count.
func (r *Record) WindowExpired(now time.Time, window time.Duration) bool {
	return !now.Before(r.WindowStart.Add(window))
}

// Result is the outcome of a pre-login check.
type Result struct {
	Allowed      bool
	Limit        int
	Remaining    int
	FailureCount int
	RetryAfter   time.Duration
}

// Key builds the store key. Colons in either segment are escaped so a crafted
// identifier cannot collide with another key.
func Key(identifier, ip string) string {
	return "login:" + sanitize(strings.ToLower(strings.TrimSpace(identifier))) + ":" + sanitize(ip)
}

func sanitize(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}
