package database

import (
	"database/sql"
	"fmt"
)

// Migrate runs database migrations
func Migrate(db *sql.DB) error {
	// Create users table. Usernames are stored lowercased, so the primary
	// key gives case-insensitive uniqueness.
	usersSchema := `
    CREATE TABLE IF NOT EXISTS users (
        username TEXT PRIMARY KEY,
        pin_hash TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        last_ip_hash TEXT,
        failed_attempts INTEGER DEFAULT 0,
        last_fail DATETIME
    );
    `

	if _, err := db.Exec(usersSchema); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	// Create lists table
	listsSchema := `
    CREATE TABLE IF NOT EXISTS lists (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        username TEXT NOT NULL,
        slug TEXT NOT NULL,
        title TEXT NOT NULL,
        content TEXT NOT NULL,
        is_public BOOLEAN DEFAULT 0,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        UNIQUE (username, slug),
        FOREIGN KEY (username) REFERENCES users(username)
    );

    CREATE INDEX IF NOT EXISTS idx_lists_username ON lists(username);
    CREATE INDEX IF NOT EXISTS idx_lists_public ON lists(is_public);
    `

	if _, err := db.Exec(listsSchema); err != nil {
		return fmt.Errorf("failed to create lists table: %w", err)
	}

	// Create views table. The composite primary key enforces at-most-one
	// counted view per list per hashed IP per day.
	viewsSchema := `
    CREATE TABLE IF NOT EXISTS views (
        list_id INTEGER NOT NULL,
        view_date DATE NOT NULL,
        ip_hash TEXT NOT NULL,
        PRIMARY KEY (list_id, view_date, ip_hash),
        FOREIGN KEY (list_id) REFERENCES lists(id) ON DELETE CASCADE
    );

    CREATE INDEX IF NOT EXISTS idx_views_date ON views(view_date);
    `

	if _, err := db.Exec(viewsSchema); err != nil {
		return fmt.Errorf("failed to create views table: %w", err)
	}

	return nil
}
