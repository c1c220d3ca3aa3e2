// Package tracking implements privacy-preserving view counting. One row
// lands per (list, day, hashed IP), so storage growth is bounded by unique
// visitors and reload-spam cannot inflate counts. Raw IPs never reach the
// database.
package tracking

import (
	"log/slog"
	"time"

	"github.com/sharmalakshay/listky/internal/models"
	"github.com/sharmalakshay/listky/internal/repository"
	"github.com/sharmalakshay/listky/internal/security"
)

type Tracker struct {
	views *repository.ViewRepository
	creds *security.CredentialStore
}

// NewTracker creates a view tracker
func NewTracker(views *repository.ViewRepository, creds *security.CredentialStore) *Tracker {
	return &Tracker{
		views: views,
		creds: creds,
	}
}

// TrackView records at most one view per (list, day, hashed IP) and
// reports whether a new row was inserted. Storage errors are swallowed:
// analytics must never break the page-view path.
func (t *Tracker) TrackView(listID int, clientIP string, today time.Time) bool {
	ipHash := t.creds.HashIP(clientIP)

	inserted, err := t.views.Insert(listID, today, ipHash)
	if err != nil {
		slog.Warn("view tracking failed", "list_id", listID, "error", err)
		return false
	}

	return inserted
}

// Trending returns the public lists with the most distinct visitors over
// the last windowDays days, at most limit entries.
func (t *Tracker) Trending(windowDays, limit int) ([]*models.TrendingList, error) {
	since := time.Now().AddDate(0, 0, -windowDays)
	return t.views.Trending(since, limit)
}
