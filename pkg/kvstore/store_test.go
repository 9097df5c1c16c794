package kvstore

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the shared Store contract against s.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()

	_, ok := s.GetString("missing")
	assert.False(t, ok)
	assert.False(t, s.Contains("missing"))

	require.NoError(t, s.SetString("settings.apiKey", "sk-test"))
	require.NoError(t, s.SetBool("settings.onboarded", true))
	require.NoError(t, s.SetNumber("topics.studyStreak", 4))

	v, ok := s.GetString("settings.apiKey")
	assert.True(t, ok)
	assert.Equal(t, "sk-test", v)

	b, ok := s.GetBool("settings.onboarded")
	assert.True(t, ok)
	assert.True(t, b)

	n, ok := s.GetNumber("topics.studyStreak")
	assert.True(t, ok)
	assert.Equal(t, 4.0, n)

	// 类型不匹配视为不存在
	_, ok = s.GetString("topics.studyStreak")
	assert.False(t, ok)

	assert.Equal(t, []string{"settings.apiKey", "settings.onboarded", "topics.studyStreak"}, s.Keys())
	assert.Greater(t, s.Size(), int64(0))

	require.NoError(t, s.SetNumber("settings.apiKey", 1))
	_, ok = s.GetString("settings.apiKey")
	assert.False(t, ok)

	require.NoError(t, s.Delete("settings.apiKey"))
	require.NoError(t, s.Delete("settings.apiKey"))
	assert.False(t, s.Contains("settings.apiKey"))

	require.NoError(t, s.ClearAll())
	assert.Empty(t, s.Keys())
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreSize(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.SetString("ab", "cde"))
	assert.Equal(t, int64(5), s.Size())

	require.NoError(t, s.SetString("ab", "c"))
	assert.Equal(t, int64(3), s.Size())

	require.NoError(t, s.SetBool("x", true))
	assert.Equal(t, int64(5), s.Size())

	require.NoError(t, s.Delete("ab"))
	assert.Equal(t, int64(2), s.Size())
}

func TestFileStore(t *testing.T) {
	s, err := OpenFileStore(memfs.New(), "data/prepmate.json")
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestFileStorePersists(t *testing.T) {
	fs := memfs.New()

	s, err := OpenFileStore(fs, "data/prepmate.json")
	require.NoError(t, err)
	require.NoError(t, s.SetString("cache.notes.physics-kinematics", `{"data":"# notes"}`))
	require.NoError(t, s.SetNumber("topics.studyStreak", 2))
	require.NoError(t, s.SetBool("settings.onboarded", true))
	assert.Greater(t, s.Size(), int64(0))

	reopened, err := OpenFileStore(fs, "data/prepmate.json")
	require.NoError(t, err)

	v, ok := reopened.GetString("cache.notes.physics-kinematics")
	assert.True(t, ok)
	assert.Equal(t, `{"data":"# notes"}`, v)

	n, ok := reopened.GetNumber("topics.studyStreak")
	assert.True(t, ok)
	assert.Equal(t, 2.0, n)
	assert.Equal(t, s.Size(), reopened.Size())

	_, err = fs.Stat("data/prepmate.json.tmp")
	assert.Error(t, err)
}

func TestFileStoreRejectsCorruptSnapshot(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "store.json", []byte("{not json"), 0o644))

	_, err := OpenFileStore(fs, "store.json")
	assert.Error(t, err)

	require.NoError(t, util.WriteFile(fs, "store.json", []byte(`{"version":"9","values":{}}`), 0o644))
	_, err = OpenFileStore(fs, "store.json")
	assert.ErrorContains(t, err, "unsupported store version")
}
