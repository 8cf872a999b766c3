package migration

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_SortsAndSkipsUnknownFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"m/V2__add_index.sql": {Data: []byte("CREATE INDEX x ON t (a);")},
		"m/V1__init.sql":      {Data: []byte("CREATE TABLE t (a INT);\n")},
		"m/README.md":         {Data: []byte("notes")},
	}

	migs, err := Load(fsys, "m")
	require.NoError(t, err)
	require.Len(t, migs, 2)
	assert.Equal(t, int64(1), migs[0].Version)
	assert.Equal(t, "init", migs[0].Name)
	assert.Equal(t, "CREATE TABLE t (a INT);", migs[0].SQL)
	assert.Equal(t, int64(2), migs[1].Version)
	assert.Len(t, migs[0].Checksum, 64)
}

func TestLoad_DuplicateVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"m/V1__a.sql":  {Data: []byte("SELECT 1;")},
		"m/V01__b.sql": {Data: []byte("SELECT 2;")},
	}
	_, err := Load(fsys, "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate migration version")
}

func TestLoad_EmptyFile(t *testing.T) {
	fsys := fstest.MapFS{"m/V1__empty.sql": {Data: []byte("  \n")}}
	_, err := Load(fsys, "m")
	require.Error(t, err)
}

func TestLoad_MissingDir(t *testing.T) {
	migs, err := Load(fstest.MapFS{}, "nope")
	require.NoError(t, err)
	assert.Empty(t, migs)
}

func TestEmbeddedMigrations(t *testing.T) {
	migs, err := Load(embedded, "sql")
	require.NoError(t, err)
	require.NotEmpty(t, migs)
	assert.Equal(t, int64(1), migs[0].Version)
	assert.Contains(t, migs[0].SQL, "skill_interests_skill_user_key")
}
