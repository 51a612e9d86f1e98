package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/tasbih/internal/errs"
	"github.com/templui/tasbih/internal/model"
	"github.com/templui/tasbih/internal/service"
)

func setupEnv(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("APP_ENV", "test")
	t.Setenv("TIME_ZONE", "UTC")
	t.Setenv("S3_BUCKET", "")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("CONTENT_PATH", filepath.Join(dir, "content"))
	t.Setenv("DB_CONNECTION", filepath.Join(dir, "tasbih.db")+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := RootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGoalCommands(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "goals", "add", "Tasbih", "--limit", "2", "--text", "SubhanAllah")
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	out, err = run(t, "goals", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Tasbih")
	assert.Contains(t, out, id)

	out, err = run(t, "increment", id)
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)

	out, err = run(t, "increment", id)
	require.NoError(t, err)
	assert.Equal(t, "2 (target completed)\n", out)

	out, err = run(t, "increment", id)
	require.NoError(t, err)
	assert.Equal(t, "2 (daily target already completed)\n", out)

	out, err = run(t, "count", id)
	require.NoError(t, err)
	assert.Equal(t, "Tasbih: 2/2 (0 remaining)\n", out)

	out, err = run(t, "export")
	require.NoError(t, err)
	var snapshot model.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snapshot))
	assert.Len(t, snapshot.Goals, 1)
	require.Len(t, snapshot.DailyCounts, 1)
	assert.Equal(t, 2, snapshot.DailyCounts[0].Count)

	_, err = run(t, "goals", "delete", id)
	require.NoError(t, err)

	_, err = run(t, "goals", "delete", id)
	assert.True(t, errs.IsNotFound(err))

	_, err = run(t, "goals", "add", "Empty", "--limit", "0")
	assert.True(t, errs.IsValidation(err))
}

func TestImportCommand(t *testing.T) {
	dir := setupEnv(t)

	seeds := filepath.Join(dir, "content", "adhkar")
	require.NoError(t, os.MkdirAll(seeds, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(seeds, "tahmid.md"), []byte("---\nname: Tahmid\ndaily_limit: 33\n---\nAlhamdulillah\n"), 0o644))

	out, err := run(t, "import")
	require.NoError(t, err)
	assert.Contains(t, out, "created")
	assert.Contains(t, out, "Tahmid")

	out, err = run(t, "import", seeds)
	require.NoError(t, err)
	assert.Equal(t, "skipped tahmid.md\n", out)
}

func TestBackupCommandRequiresStorage(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "backup")
	assert.ErrorIs(t, err, service.ErrBackupDisabled)
}

func TestMigrateCommands(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "migrate", "up")
	require.NoError(t, err)

	out, err := run(t, "migrate", "version")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	_, err = run(t, "migrate", "down")
	require.NoError(t, err)

	out, err = run(t, "migrate", "version")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestTodayCommand(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "today")
	require.NoError(t, err)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \(rolls over at `, out)
}
