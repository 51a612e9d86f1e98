package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"time"

	"github.com/templui/tasbih/internal/dayclock"
	"github.com/templui/tasbih/internal/model"
	"github.com/templui/tasbih/internal/repository"
	"github.com/templui/tasbih/internal/storage"
)

const backupPrefix = "backups/"

var ErrBackupDisabled = errors.New("backup storage is not configured")

// BackupService exports the local store as JSON and optionally copies the
// export to object storage.
type BackupService struct {
	goals     repository.GoalRepository
	counts    repository.DailyCountRepository
	clock     *dayclock.Clock
	store     storage.Storage
	retention int
}

// NewBackupService builds the service. store may be nil, in which case only
// Snapshot works. retention <= 0 keeps every backup.
func NewBackupService(
	goals repository.GoalRepository,
	counts repository.DailyCountRepository,
	clock *dayclock.Clock,
	store storage.Storage,
	retention int,
) *BackupService {
	return &BackupService{
		goals:     goals,
		counts:    counts,
		clock:     clock,
		store:     store,
		retention: retention,
	}
}

func (s *BackupService) Enabled() bool {
	return s.store != nil
}

func (s *BackupService) Snapshot(ctx context.Context) (*model.Snapshot, error) {
	goals, err := s.goals.Goals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export goals: %w", err)
	}

	counts, err := s.counts.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export daily counts: %w", err)
	}

	now := s.clock.Now()
	return &model.Snapshot{
		ExportedAt:  now.UTC(),
		Day:         dayclock.Key(now),
		Goals:       goals,
		DailyCounts: counts,
	}, nil
}

// Backup uploads a snapshot and prunes old ones. It returns the object key.
func (s *BackupService) Backup(ctx context.Context) (string, error) {
	if s.store == nil {
		return "", ErrBackupDisabled
	}

	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return "", err
	}

	body, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := path.Join(backupPrefix, snapshot.Day, snapshot.ExportedAt.Format("20060102T150405Z")+".json")
	err = s.store.Save(ctx, key, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to upload backup: %w", err)
	}

	slog.Info("backup uploaded", "key", key, "goals", len(snapshot.Goals), "daily_counts", len(snapshot.DailyCounts))

	err = s.prune(ctx)
	if err != nil {
		slog.Warn("failed to prune old backups", "error", err)
	}

	return key, nil
}

func (s *BackupService) prune(ctx context.Context) error {
	if s.retention <= 0 {
		return nil
	}

	keys, err := s.store.List(ctx, backupPrefix)
	if err != nil {
		return err
	}
	if len(keys) <= s.retention {
		return nil
	}

	// Keys embed day and timestamp, so lexical order is chronological.
	sort.Strings(keys)
	for _, key := range keys[:len(keys)-s.retention] {
		err := s.store.Delete(ctx, key)
		if err != nil {
			return err
		}
		slog.Debug("pruned backup", "key", key)
	}
	return nil
}

// Run backs up every interval until ctx is done.
func (s *BackupService) Run(ctx context.Context, interval time.Duration) {
	if s.store == nil || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, err := s.Backup(ctx)
			if err != nil {
				slog.Error("scheduled backup failed", "error", err)
			}
		}
	}
}
