package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sharmalakshay/listky/internal/models"
	"github.com/sharmalakshay/listky/pkg/errors"
)

type ListRepository struct {
	db *sql.DB
}

// NewListRepository creates a new list repository
func NewListRepository(db *sql.DB) *ListRepository {
	return &ListRepository{db: db}
}

// Create creates a new list. The (username, slug) unique index turns a
// duplicate slug race into ErrAlreadyExists.
func (r *ListRepository) Create(list *models.List) error {
	query := `
        INSERT INTO lists (username, slug, title, content, is_public, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `

	now := time.Now()
	result, err := r.db.Exec(query,
		list.Username,
		list.Slug,
		list.Title,
		list.Content,
		list.IsPublic,
		now,
		now,
	)

	if isUniqueViolation(err) {
		return errors.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("failed to create list: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get list ID: %w", err)
	}

	list.ID = int(id)
	list.CreatedAt = now
	list.UpdatedAt = now

	return nil
}

// GetBySlug retrieves a list by its owner and slug
func (r *ListRepository) GetBySlug(username, slug string) (*models.List, error) {
	query := `
        SELECT id, username, slug, title, content, is_public, created_at, updated_at
        FROM lists
        WHERE username = ? AND slug = ?
    `

	list := &models.List{}
	err := r.db.QueryRow(query, username, slug).Scan(
		&list.ID,
		&list.Username,
		&list.Slug,
		&list.Title,
		&list.Content,
		&list.IsPublic,
		&list.CreatedAt,
		&list.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}

	return list, nil
}

// ListByOwner retrieves the lists of one owner, newest first. When
// publicOnly is set, private lists are filtered out (profile pages).
func (r *ListRepository) ListByOwner(username string, publicOnly bool) ([]*models.List, error) {
	query := `
        SELECT id, username, slug, title, content, is_public, created_at, updated_at
        FROM lists
        WHERE username = ?
    `

	args := []interface{}{username}

	if publicOnly {
		query += " AND is_public = 1"
	}

	query += " ORDER BY updated_at DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	defer rows.Close()

	var lists []*models.List
	for rows.Next() {
		list := &models.List{}
		err := rows.Scan(
			&list.ID,
			&list.Username,
			&list.Slug,
			&list.Title,
			&list.Content,
			&list.IsPublic,
			&list.CreatedAt,
			&list.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, list)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return lists, nil
}

// Update updates a list's title, content, and visibility
func (r *ListRepository) Update(list *models.List) error {
	query := `
        UPDATE lists
        SET title = ?, content = ?, is_public = ?, updated_at = ?
        WHERE username = ? AND slug = ?
    `

	now := time.Now()
	result, err := r.db.Exec(query,
		list.Title,
		list.Content,
		list.IsPublic,
		now,
		list.Username,
		list.Slug,
	)

	if err != nil {
		return fmt.Errorf("failed to update list: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return errors.ErrNotFound
	}

	list.UpdatedAt = now

	return nil
}

// Delete deletes a list. Its view rows go with it via the cascading
// foreign key.
func (r *ListRepository) Delete(username, slug string) error {
	query := `
        DELETE FROM lists
        WHERE username = ? AND slug = ?
    `

	result, err := r.db.Exec(query, username, slug)
	if err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return errors.ErrNotFound
	}

	return nil
}
