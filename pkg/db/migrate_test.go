package db

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/5280sourcegroup/website/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFilesPaired(t *testing.T) {
	entries, err := fs.Glob(migrations.FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, name := range entries {
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("unexpected migration file name %s", name)
		}
	}
	assert.Equal(t, ups, downs, "every up migration needs a down migration")
}

func TestMigrationFilesContent(t *testing.T) {
	up, err := fs.ReadFile(migrations.FS, "000001_create_quote_requests.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(up), "CREATE TABLE IF NOT EXISTS quote_requests")

	down, err := fs.ReadFile(migrations.FS, "000001_create_quote_requests.down.sql")
	require.NoError(t, err)
	assert.Contains(t, string(down), "DROP TABLE IF EXISTS quote_requests")
}

func TestRunMigrations_InvalidInput(t *testing.T) {
	err := RunMigrations("not a url ://", "", migrations.FS, Up)
	assert.Error(t, err)
}
