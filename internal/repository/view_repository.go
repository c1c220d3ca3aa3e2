package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sharmalakshay/listky/internal/models"
)

// DateFormat is how calendar dates are stored in the views table.
const DateFormat = "2006-01-02"

type ViewRepository struct {
	db *sql.DB
}

// NewViewRepository creates a new view repository
func NewViewRepository(db *sql.DB) *ViewRepository {
	return &ViewRepository{db: db}
}

// Insert records one view of a list for a hashed IP on a calendar day.
// The insert is idempotent: the composite primary key makes a repeat view
// a no-op. Returns whether a new row was actually inserted.
func (r *ViewRepository) Insert(listID int, viewDate time.Time, ipHash string) (bool, error) {
	query := `
        INSERT OR IGNORE INTO views (list_id, view_date, ip_hash)
        VALUES (?, ?, ?)
    `

	result, err := r.db.Exec(query, listID, viewDate.Format(DateFormat), ipHash)
	if err != nil {
		return false, fmt.Errorf("failed to insert view: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows > 0, nil
}

// Trending ranks public lists by distinct hashed-IP views within the
// rolling window, ties broken by list recency. Counting distinct ip_hash
// rather than raw rows means repeated reloads by one visitor cannot
// inflate the ranking. Zero-view public lists still appear, ranked by
// recency, via the left join.
func (r *ViewRepository) Trending(since time.Time, limit int) ([]*models.TrendingList, error) {
	query := `
        SELECT l.username, l.slug, l.title, COUNT(DISTINCT v.ip_hash) AS view_count
        FROM lists l
        LEFT JOIN views v ON l.id = v.list_id AND v.view_date >= ?
        WHERE l.is_public = 1
        GROUP BY l.id
        ORDER BY view_count DESC, l.created_at DESC
        LIMIT ?
    `

	rows, err := r.db.Query(query, since.Format(DateFormat), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trending lists: %w", err)
	}
	defer rows.Close()

	return scanTrending(rows)
}

func scanTrending(rows *sql.Rows) ([]*models.TrendingList, error) {
	var trending []*models.TrendingList
	for rows.Next() {
		t := &models.TrendingList{}
		if err := rows.Scan(&t.Username, &t.Slug, &t.Title, &t.ViewCount); err != nil {
			return nil, fmt.Errorf("failed to scan trending list: %w", err)
		}
		trending = append(trending, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return trending, nil
}
