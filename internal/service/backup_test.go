package service

import (
	"context"
	"encoding/json"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/tasbih/internal/model"
)

type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}}
}

func (m *memoryStorage) Save(_ context.Context, key string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memoryStorage) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for key := range m.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func TestBackup_Snapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	goal := f.createGoal(t, "Tasbih", 33)
	_, err := f.counter.Increment(ctx, goal.ID)
	require.NoError(t, err)

	snapshot, err := f.backup.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", snapshot.Day)
	assert.Equal(t, time.UTC, snapshot.ExportedAt.Location())
	require.Len(t, snapshot.Goals, 1)
	require.Len(t, snapshot.DailyCounts, 1)
	assert.Equal(t, goal.ID, snapshot.DailyCounts[0].GoalID)
	assert.Equal(t, 1, snapshot.DailyCounts[0].Count)
}

func TestBackup_DisabledWithoutStorage(t *testing.T) {
	f := newFixture(t)

	assert.False(t, f.backup.Enabled())
	_, err := f.backup.Backup(context.Background())
	assert.ErrorIs(t, err, ErrBackupDisabled)
}

func TestBackup_UploadsAndPrunes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createGoal(t, "Tasbih", 33)

	store := newMemoryStorage()
	backup := NewBackupService(f.goals, f.counts, f.day, store, 2)
	require.True(t, backup.Enabled())

	var keys []string
	for i := 0; i < 3; i++ {
		key, err := backup.Backup(ctx)
		require.NoError(t, err)
		keys = append(keys, key)
		f.clock.Advance(time.Hour)
	}

	// 09:00 in UTC+3 is 06:00 UTC.
	assert.Equal(t, "backups/2026-03-01/20260301T060000Z.json", keys[0])

	remaining, err := store.List(ctx, backupPrefix)
	require.NoError(t, err)
	assert.Equal(t, keys[1:], remaining)

	var snapshot model.Snapshot
	require.NoError(t, json.Unmarshal(store.objects[keys[2]], &snapshot))
	assert.Equal(t, "2026-03-01", snapshot.Day)
	require.Len(t, snapshot.Goals, 1)
	assert.Equal(t, "Tasbih", snapshot.Goals[0].Name)
}

func TestBackup_RunStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	store := newMemoryStorage()
	backup := NewBackupService(f.goals, f.counts, f.day, store, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		backup.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		keys, _ := store.List(ctx, backupPrefix)
		return len(keys) > 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
