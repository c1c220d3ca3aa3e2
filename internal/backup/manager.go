package backup

import (
	"compress/gzip"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Manager struct {
	db            *sql.DB
	backupDir     string
	retentionDays int
}

// NewManager creates a new backup manager. Backups are gzip-compressed
// snapshots of the SQLCipher database file; the snapshot stays encrypted
// because VACUUM INTO preserves the database key.
func NewManager(db *sql.DB, backupDir string, retentionDays int) (*Manager, error) {
	if err := os.MkdirAll(backupDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	return &Manager{
		db:            db,
		backupDir:     backupDir,
		retentionDays: retentionDays,
	}, nil
}

// CreateBackup snapshots the database and compresses it
func (m *Manager) CreateBackup() (string, error) {
	timestamp := time.Now().Format("20060102_150405")
	snapshotPath := filepath.Join(m.backupDir, fmt.Sprintf("backup_%s.db", timestamp))

	// VACUUM INTO produces a consistent snapshot without blocking writers
	// for the duration of the copy.
	if _, err := m.db.Exec(fmt.Sprintf("VACUUM INTO '%s'", snapshotPath)); err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}

	backupPath := snapshotPath + ".gz"
	if err := compressFile(snapshotPath, backupPath); err != nil {
		os.Remove(snapshotPath)
		return "", fmt.Errorf("failed to compress backup: %w", err)
	}

	os.Remove(snapshotPath)

	if err := os.Chmod(backupPath, 0600); err != nil {
		return "", fmt.Errorf("failed to set file permissions: %w", err)
	}

	return backupPath, nil
}

// PruneOldBackups removes backups older than the retention window
func (m *Manager) PruneOldBackups() error {
	cutoff := time.Now().AddDate(0, 0, -m.retentionDays)

	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		return fmt.Errorf("failed to read backup directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".gz") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			path := filepath.Join(m.backupDir, entry.Name())
			if err := os.Remove(path); err != nil {
				log.Printf("[Backup] Failed to prune %s: %v", path, err)
			}
		}
	}

	return nil
}

// StartAutomatedBackups runs backups on an interval until ctx is done
func (m *Manager) StartAutomatedBackups(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			path, err := m.CreateBackup()
			if err != nil {
				log.Printf("[Backup] Automated backup failed: %v", err)
				continue
			}
			log.Printf("[Backup] Created: %s", path)

			if err := m.PruneOldBackups(); err != nil {
				log.Printf("[Backup] Prune failed: %v", err)
			}
		}
	}
}

func compressFile(srcPath, dstPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(dstPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer dst.Close()

	gz := gzip.NewWriter(dst)
	if _, err := io.Copy(gz, src); err != nil {
		gz.Close()
		return err
	}

	return gz.Close()
}
