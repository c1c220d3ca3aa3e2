package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sharmalakshay/listky/internal/models"
	"github.com/sharmalakshay/listky/pkg/errors"
)

// isUniqueViolation reports whether err is a SQLite unique-constraint
// failure. Check-then-insert races resolve here: the constraint fires and
// the caller maps it to the domain conflict error.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user. Username is expected to be lowercased already.
func (r *UserRepository) Create(user *models.User) error {
	query := `
        INSERT INTO users (username, pin_hash, created_at, last_ip_hash)
        VALUES (?, ?, ?, ?)
    `

	now := time.Now()
	_, err := r.db.Exec(query,
		user.Username,
		user.PINHash,
		now,
		user.LastIPHash,
	)

	if isUniqueViolation(err) {
		return errors.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.CreatedAt = now

	return nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	query := `
        SELECT username, pin_hash, created_at, last_ip_hash, failed_attempts, last_fail
        FROM users
        WHERE username = ?
    `

	user := &models.User{}
	var lastIPHash sql.NullString
	err := r.db.QueryRow(query, username).Scan(
		&user.Username,
		&user.PINHash,
		&user.CreatedAt,
		&lastIPHash,
		&user.FailedAttempts,
		&user.LastFail,
	)

	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.LastIPHash = lastIPHash.String

	return user, nil
}

// RecordLoginFailure increments the failure counter and stamps the failure
// time. A no-op for unknown usernames.
func (r *UserRepository) RecordLoginFailure(username string) error {
	query := `
        UPDATE users
        SET failed_attempts = failed_attempts + 1, last_fail = ?
        WHERE username = ?
    `

	_, err := r.db.Exec(query, time.Now(), username)
	if err != nil {
		return fmt.Errorf("failed to record login failure: %w", err)
	}

	return nil
}

// RecordLoginSuccess resets the failure counters and stores the hashed
// client IP of the successful login.
func (r *UserRepository) RecordLoginSuccess(username, ipHash string) error {
	query := `
        UPDATE users
        SET failed_attempts = 0, last_fail = NULL, last_ip_hash = ?
        WHERE username = ?
    `

	_, err := r.db.Exec(query, ipHash, username)
	if err != nil {
		return fmt.Errorf("failed to record login success: %w", err)
	}

	return nil
}
