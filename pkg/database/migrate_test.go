package database

import (
	"testing"
	"testing/fstest"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatestVersion_Embedded(t *testing.T) {
	src, err := iofs.New(migrationsFS, "migrations")
	require.NoError(t, err)

	v, err := latestVersion(src)
	require.NoError(t, err)
	assert.Equal(t, uint(1), v)
}

func TestLatestVersion_MultipleAndMissingDown(t *testing.T) {
	fsys := fstest.MapFS{
		"m/000001_init.up.sql":    {Data: []byte("SELECT 1;")},
		"m/000001_init.down.sql":  {Data: []byte("SELECT 1;")},
		"m/000003_rooms.up.sql":   {Data: []byte("SELECT 1;")},
		"m/000003_rooms.down.sql": {Data: []byte("SELECT 1;")},
	}
	src, err := iofs.New(fsys, "m")
	require.NoError(t, err)
	v, err := latestVersion(src)
	require.NoError(t, err)
	assert.Equal(t, uint(3), v)

	delete(fsys, "m/000003_rooms.down.sql")
	src, err = iofs.New(fsys, "m")
	require.NoError(t, err)
	_, err = latestVersion(src)
	assert.Error(t, err)
}
