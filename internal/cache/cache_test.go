package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "imports"))
	require.NoError(t, err)
	return store
}

func TestStore_Path(t *testing.T) {
	store := &Store{dir: "/data/imports"}

	assert.Equal(t, "/data/imports/getDatabase-abc.json", store.Path(GetDatabase, "abc"))
	assert.Equal(t, "/data/imports/queryDatabase-abc.json", store.Path(QueryDatabase, "abc"))
	assert.Equal(t, "/data/imports/getPage-def.json", store.Path(GetPage, "def"))
	assert.Equal(t, "/data/imports/getBlocks-def.json", store.Path(GetBlocks, "def"))
}

func TestLoad_SkipWithValidArtifact(t *testing.T) {
	store := newTestStore(t)
	path := store.Path(GetPage, "p1")
	require.NoError(t, store.Persist(path, sample{Name: "page", Items: []string{"a"}}))

	got, artifact := Load[sample](store, GetPage, "p1", true)

	assert.True(t, artifact.Hit)
	assert.True(t, artifact.Skip)
	assert.Equal(t, path, artifact.Path)
	assert.Equal(t, sample{Name: "page", Items: []string{"a"}}, got)
}

func TestLoad_NoSkipIgnoresArtifact(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Persist(store.Path(GetPage, "p1"), sample{Name: "page"}))

	got, artifact := Load[sample](store, GetPage, "p1", false)

	assert.False(t, artifact.Hit)
	assert.False(t, artifact.Skip)
	assert.Equal(t, sample{}, got)
}

func TestLoad_MissAndCorruptAreSilent(t *testing.T) {
	store := newTestStore(t)

	_, artifact := Load[sample](store, GetBlocks, "missing", true)
	assert.False(t, artifact.Hit)

	require.NoError(t, os.WriteFile(store.Path(GetBlocks, "bad"), []byte("{not json"), 0644))
	got, artifact := Load[sample](store, GetBlocks, "bad", true)
	assert.False(t, artifact.Hit)
	assert.Equal(t, sample{}, got)
}

func TestPersist_Format(t *testing.T) {
	store := newTestStore(t)
	path := store.Path(GetDatabase, "db")

	require.NoError(t, store.Persist(path, map[string]any{"title": "<b>&</b>", "n": 1}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"n\": 1,\n  \"title\": \"<b>&</b>\"\n}", string(data))
}

func TestPersist_OverwritesAndLeavesNoTempFiles(t *testing.T) {
	store := newTestStore(t)
	path := store.Path(GetPage, "p")

	require.NoError(t, store.Persist(path, sample{Name: "first"}))
	require.NoError(t, store.Persist(path, sample{Name: "second"}))

	got, artifact := Load[sample](store, GetPage, "p", true)
	require.True(t, artifact.Hit)
	assert.Equal(t, "second", got.Name)

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestPersist_FileMode(t *testing.T) {
	store := newTestStore(t)
	path := store.Path(GetBlocks, "p")

	require.NoError(t, store.Persist(path, []int{}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, FileMode, info.Mode().Perm())
}

func TestPersist_UnencodableValueKeepsExistingArtifact(t *testing.T) {
	store := newTestStore(t)
	path := store.Path(GetPage, "p")
	require.NoError(t, store.Persist(path, sample{Name: "kept"}))

	err := store.Persist(path, map[string]any{"bad": make(chan int)})
	require.Error(t, err)

	got, artifact := Load[sample](store, GetPage, "p", true)
	require.True(t, artifact.Hit)
	assert.Equal(t, "kept", got.Name)
}

func TestStore_List(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Persist(store.Path(GetBlocks, "bbb"), []int{}))
	require.NoError(t, store.Persist(store.Path(GetBlocks, "aaa"), []int{}))
	require.NoError(t, store.Persist(store.Path(GetPage, "aaa"), sample{}))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "notes.txt"), []byte("x"), 0644))

	entries, err := store.List(GetBlocks)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "aaa", entries[0].Key)
	assert.Equal(t, "bbb", entries[1].Key)
	assert.Equal(t, store.Path(GetBlocks, "aaa"), entries[0].Path)
}

func TestStore_ListMissingDir(t *testing.T) {
	store := &Store{dir: filepath.Join(t.TempDir(), "nope")}

	entries, err := store.List(GetBlocks)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
