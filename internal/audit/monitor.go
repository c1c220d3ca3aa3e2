package audit

import (
	"log"
	"time"

	"github.com/sharmalakshay/listky/internal/hooks"
)

// Monitor periodically scans recent audit logs for signs of online PIN
// brute force that slipped under the per-account lockout (e.g. spraying
// across many usernames).
type Monitor struct {
	logger *Logger
}

// NewMonitor creates a new security monitor
func NewMonitor(logger *Logger) *Monitor {
	return &Monitor{
		logger: logger,
	}
}

// DetectSuspiciousActivity flags bursts of failed logins in the last
// five minutes
func (m *Monitor) DetectSuspiciousActivity() error {
	now := time.Now()
	fiveMinutesAgo := now.Add(-5 * time.Minute)

	events, err := m.logger.QueryLogs(QueryFilters{
		StartTime: &fiveMinutesAgo,
		Action:    hooks.EventUserLoginFailed,
		Limit:     1000,
	})
	if err != nil {
		return err
	}

	failuresByUser := make(map[string]int)
	for _, e := range events {
		failuresByUser[e.Username]++
	}

	for username, count := range failuresByUser {
		if count >= 10 {
			log.Printf("[Security] %d failed logins for %q in the last 5 minutes", count, username)
			m.logger.Log(&Event{
				Level:    LevelCritical,
				Username: username,
				Action:   "BRUTE_FORCE_SUSPECTED",
				Resource: "auth",
				Success:  false,
			})
		}
	}

	return nil
}
