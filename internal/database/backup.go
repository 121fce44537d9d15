package database

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// BackupService copies the SQLite file into a backup directory on a
// daily cadence and prunes copies older than the retention window.
// File-level copy is safe here because writes go through a single
// process with busy_timeout set.
type BackupService struct {
	dbPath    string
	dir       string
	retention int
	log       zerolog.Logger
}

// NewBackupService creates the service. retention is in days; zero or
// negative disables cleanup.
func NewBackupService(dbPath, dir string, retention int, log zerolog.Logger) *BackupService {
	return &BackupService{
		dbPath:    dbPath,
		dir:       dir,
		retention: retention,
		log:       log,
	}
}

// Start runs an immediate backup, then repeats every 24 hours until ctx
// is cancelled.
func (s *BackupService) Start(ctx context.Context) {
	s.log.Info().Str("dir", s.dir).Msg("backup service started")

	if err := s.Perform(); err != nil {
		s.log.Error().Err(err).Msg("initial backup failed")
	}

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Perform(); err != nil {
				s.log.Error().Err(err).Msg("scheduled backup failed")
			}
			s.Cleanup()
		}
	}
}

// Perform writes one timestamped copy of the database file.
func (s *BackupService) Perform() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	name := fmt.Sprintf("backup_%s.db", time.Now().Format("20060102_150405"))
	path := filepath.Join(s.dir, name)

	source, err := os.Open(s.dbPath)
	if err != nil {
		return err
	}
	defer source.Close()

	destination, err := os.Create(path)
	if err != nil {
		return err
	}
	defer destination.Close()

	if _, err := io.Copy(destination, source); err != nil {
		return err
	}

	s.log.Info().Str("path", path).Msg("backup completed")
	return nil
}

// Cleanup removes backups older than the retention window.
func (s *BackupService) Cleanup() {
	if s.retention <= 0 {
		return
	}

	files, err := os.ReadDir(s.dir)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to read backup directory")
		return
	}

	cutoff := time.Now().AddDate(0, 0, -s.retention)
	for _, file := range files {
		if file.IsDir() || !strings.HasPrefix(file.Name(), "backup_") {
			continue
		}
		info, err := file.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			s.log.Info().Str("file", file.Name()).Msg("deleting old backup")
			_ = os.Remove(filepath.Join(s.dir, file.Name()))
		}
	}
}
