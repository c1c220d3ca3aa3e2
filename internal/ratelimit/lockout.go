package ratelimit

import (
	"time"

	"github.com/sharmalakshay/listky/internal/models"
)

const freeAttempts = 4

// LoginLimiter computes progressive lockout windows from the failure
// counters persisted on the user row. It is a pure policy: recording
// failures and successes is the caller's job (the counters live in the
// users table so they survive restarts).
//
// The lockout never hardens into a permanent ban. A 6-digit PIN space is
// only 1e6 possibilities, so the deterrent is a monotonically growing
// delay between retry opportunities.
type LoginLimiter struct {
	now func() time.Time
}

func NewLoginLimiter() *LoginLimiter {
	return &LoginLimiter{now: time.Now}
}

// Allow reports whether a login attempt may proceed for the given user.
// A nil user (unknown username) is always allowed: lockout must not leak
// account existence, and the login will fail anyway.
func (l *LoginLimiter) Allow(user *models.User) bool {
	if user == nil {
		return true
	}

	if user.FailedAttempts < freeAttempts {
		return true
	}

	if user.LastFail == nil {
		return true
	}

	return l.now().Sub(*user.LastFail) > lockoutWindow(user.FailedAttempts)
}

// lockoutWindow is a step function of the failure count:
// 4+ fails = 5 min, 6+ fails = 15 min, 8+ fails = 60 min.
func lockoutWindow(failedAttempts int) time.Duration {
	switch {
	case failedAttempts >= 8:
		return 60 * time.Minute
	case failedAttempts >= 6:
		return 15 * time.Minute
	default:
		return 5 * time.Minute
	}
}
