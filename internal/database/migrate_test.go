package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}

	require.NotEmpty(t, ups)
	assert.Equal(t, ups, downs)
}

func TestMigrationsCreateServiceTables(t *testing.T) {
	var all strings.Builder
	err := fs.WalkDir(migrationsFS, "migrations", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".up.sql") {
			return err
		}
		b, err := fs.ReadFile(migrationsFS, path)
		all.Write(b)
		return err
	})
	require.NoError(t, err)

	for _, table := range []string{"models", "analytics_events", "saved_configs"} {
		assert.Contains(t, all.String(), "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
	assert.Contains(t, all.String(), "UNIQUE (user_id, name)")
}

func TestRollbackRejectsNonPositiveSteps(t *testing.T) {
	assert.Error(t, RollbackMigrations("postgres://unused", 0, nil))
}
