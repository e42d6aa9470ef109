package main

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jonathan/smartmatch/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCatalogImport_SQLiteThenRecommend(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "catalog.db")
	profile := writeFile(t, dir, "profile.json", softwareProfile)

	out, err := execute(t, "catalog", "import", "--file", testCatalogYAML, "--sqlite", dbPath)
	require.NoError(t, err)
	assert.Equal(t, "Imported 3 internships\n", out)

	// importing again updates rows in place
	_, err = execute(t, "catalog", "import", "-f", testCatalogYAML, "--sqlite", dbPath)
	require.NoError(t, err)

	out, err = execute(t, "recommend", "--profile", profile, "--catalog", dbPath)
	require.NoError(t, err)
	var resp types.RecommendationResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, []string{"int-001", "int-003"}, recommendationIDs(resp))
}

func TestCatalogImport_SchemaViolation(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "bad.yaml", `
internships:
  - id: x-1
    title: Intern
    requirements:
      min_gpa: 7
`)

	_, err := execute(t, "catalog", "import", "--file", file, "--sqlite", filepath.Join(dir, "c.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match schema")
}

func TestCatalogImport_RequiresDestination(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SMARTMATCH_DATABASE_URL", "")

	_, err := execute(t, "catalog", "import", "--file", testCatalogYAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no destination")
}

func TestCatalogExpire_SQLite(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "catalog.db")
	file := writeFile(t, dir, "dated.yaml", `
internships:
  - id: past
    title: Closed Intern
    domain: Software Development
    application_deadline: "2000-01-01"
  - id: future
    title: Open Intern
    domain: Software Development
    application_deadline: "2999-01-01"
  - id: open-ended
    title: Rolling Intern
    domain: Software Development
`)

	_, err := execute(t, "catalog", "import", "--file", file, "--sqlite", dbPath)
	require.NoError(t, err)

	out, err := execute(t, "catalog", "expire", "--sqlite", dbPath)
	require.NoError(t, err)
	assert.Equal(t, "Deactivated 1 internships\n", out)

	profile := writeFile(t, dir, "profile.json", softwareProfile)
	out, err = execute(t, "recommend", "-p", profile, "-c", dbPath)
	require.NoError(t, err)
	var resp types.RecommendationResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.ElementsMatch(t, []string{"future", "open-ended"}, recommendationIDs(resp))
}

type fakeSnapshots struct {
	deleted int
	err     error
}

func (f *fakeSnapshots) Delete(context.Context) error {
	f.deleted++
	return f.err
}

func stubSnapshots(t *testing.T, snapshots snapshotDeleter, openErr error) *int {
	t.Helper()
	opened := 0
	orig := openSnapshots
	openSnapshots = func(context.Context, string) (snapshotDeleter, func(), error) {
		opened++
		if openErr != nil {
			return nil, nil, openErr
		}
		return snapshots, func() {}, nil
	}
	t.Cleanup(func() { openSnapshots = orig })
	return &opened
}

func TestInvalidateCatalogCache(t *testing.T) {
	tests := []struct {
		name        string
		sqlite      string
		redisURL    string
		openErr     error
		deleteErr   error
		wantOpened  int
		wantDeleted int
		wantWarning bool
	}{
		{name: "postgres import with redis", redisURL: "redis://cache:6379/0", wantOpened: 1, wantDeleted: 1},
		{name: "no redis configured", wantOpened: 0},
		{name: "sqlite catalogs are not cached", sqlite: "catalog.db", redisURL: "redis://cache:6379/0"},
		{name: "redis unreachable", redisURL: "redis://cache:6379/0", openErr: errors.New("dial tcp: refused"), wantOpened: 1, wantWarning: true},
		{name: "delete fails", redisURL: "redis://cache:6379/0", deleteErr: errors.New("READONLY"), wantOpened: 1, wantDeleted: 1, wantWarning: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := catalogSQLite
			catalogSQLite = tt.sqlite
			t.Cleanup(func() { catalogSQLite = orig })

			snapshots := &fakeSnapshots{err: tt.deleteErr}
			opened := stubSnapshots(t, snapshots, tt.openErr)
			core, logs := observer.New(zapcore.WarnLevel)

			invalidateCatalogCache(context.Background(), tt.redisURL, zap.New(core))

			assert.Equal(t, tt.wantOpened, *opened)
			assert.Equal(t, tt.wantDeleted, snapshots.deleted)
			assert.Equal(t, tt.wantWarning, logs.FilterMessage("catalog cache not invalidated").Len() == 1)
		})
	}
}

func TestCatalogImport_SQLiteLeavesCacheAlone(t *testing.T) {
	t.Setenv("SMARTMATCH_REDIS_URL", "redis://cache:6379/0")
	opened := stubSnapshots(t, &fakeSnapshots{}, nil)

	_, err := execute(t, "catalog", "import", "--file", testCatalogYAML, "--sqlite", filepath.Join(t.TempDir(), "c.db"))
	require.NoError(t, err)
	assert.Zero(t, *opened)
}
