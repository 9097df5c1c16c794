package progress

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AjayAntoIsDev/PrepMate/pkg/kvstore"
)

func testSyllabus() Syllabus {
	return Syllabus{
		"JEE": {Subjects: Topics{
			"Physics":   {"Kinematics", "Optics"},
			"Chemistry": {"Equilibrium", "Hydrocarbons"},
		}},
	}
}

func TestMarkAndUnmark(t *testing.T) {
	tr := NewTracker(kvstore.NewMemoryStore(), testSyllabus())

	require.NoError(t, tr.MarkCompleted("Physics", "Kinematics", ActivityGeneral))
	require.NoError(t, tr.MarkCompleted("Physics", "Kinematics", ActivityGeneral))
	assert.True(t, tr.IsCompleted("Physics", "Kinematics", ActivityGeneral))
	assert.False(t, tr.IsCompleted("Physics", "Kinematics", ActivityQuiz))
	assert.Equal(t, Topics{"Physics": {"Kinematics"}}, tr.Completed(ActivityGeneral))

	require.NoError(t, tr.MarkNotCompleted("Physics", "Kinematics", ActivityGeneral))
	assert.Empty(t, tr.Completed(ActivityGeneral))
	// 不存在的科目
	require.NoError(t, tr.MarkNotCompleted("Biology", "Ecology", ActivityGeneral))
}

func TestActivitiesUseSeparateKeys(t *testing.T) {
	store := kvstore.NewMemoryStore()
	tr := NewTracker(store, testSyllabus())

	require.NoError(t, tr.MarkCompleted("Physics", "Optics", ActivityQuiz))
	require.NoError(t, tr.MarkCompleted("Chemistry", "Equilibrium", ActivityNotes))

	raw, ok := store.GetString("topics.completedQuiz")
	require.True(t, ok)
	assert.JSONEq(t, `{"Physics":["Optics"]}`, raw)
	raw, ok = store.GetString("topics.completedNotes")
	require.True(t, ok)
	assert.JSONEq(t, `{"Chemistry":["Equilibrium"]}`, raw)
	assert.False(t, store.Contains("topics.completed"))
}

func TestCorruptProgressReadsEmpty(t *testing.T) {
	store := kvstore.NewMemoryStore()
	require.NoError(t, store.SetString("topics.completed", "{not json"))
	tr := NewTracker(store, testSyllabus())

	assert.Empty(t, tr.Completed(ActivityGeneral))
	require.NoError(t, tr.MarkCompleted("Physics", "Optics", ActivityGeneral))
	assert.True(t, tr.IsCompleted("Physics", "Optics", ActivityGeneral))
}

func TestProgress(t *testing.T) {
	tr := NewTracker(kvstore.NewMemoryStore(), testSyllabus())
	assert.Equal(t, 0, tr.Progress("JEE", ActivityGeneral))

	require.NoError(t, tr.MarkCompleted("Physics", "Optics", ActivityGeneral))
	assert.Equal(t, 25, tr.Progress("JEE", ActivityGeneral))
	require.NoError(t, tr.MarkCompleted("Chemistry", "Equilibrium", ActivityGeneral))
	assert.Equal(t, 50, tr.Progress("JEE", ActivityGeneral))

	assert.Equal(t, 0, tr.Progress("NEET", ActivityGeneral))
}

func TestStudyStreak(t *testing.T) {
	tr := NewTracker(kvstore.NewMemoryStore(), testSyllabus())
	assert.Equal(t, 0, tr.StudyStreak())
	require.NoError(t, tr.SetStudyStreak(7))
	assert.Equal(t, 7, tr.StudyStreak())
	assert.Error(t, tr.SetStudyStreak(-1))
}

func TestFingerprint(t *testing.T) {
	tr := NewTracker(kvstore.NewMemoryStore(), testSyllabus())
	empty := tr.Fingerprint(ActivityGeneral)
	assert.NotEmpty(t, empty)

	require.NoError(t, tr.MarkCompleted("Physics", "Optics", ActivityGeneral))
	one := tr.Fingerprint(ActivityGeneral)
	assert.NotEqual(t, empty, one)

	// 顺序无关
	a := Fingerprint(Topics{"Physics": {"Optics", "Kinematics"}})
	b := Fingerprint(Topics{"Physics": {"Kinematics", "Optics"}})
	assert.Equal(t, a, b)
}

func TestParseActivity(t *testing.T) {
	a, err := ParseActivity("")
	require.NoError(t, err)
	assert.Equal(t, ActivityGeneral, a)
	a, err = ParseActivity("quiz")
	require.NoError(t, err)
	assert.Equal(t, ActivityQuiz, a)
	_, err = ParseActivity("flashcards")
	assert.Error(t, err)
}

func TestSyllabus(t *testing.T) {
	s := DefaultSyllabus()
	assert.Equal(t, []string{"JEE", "NEET"}, s.Exams())
	assert.NotEmpty(t, s["NEET"].Subjects["Biology"])

	remaining, err := testSyllabus().Remaining("JEE", Topics{"Physics": {"Kinematics", "Optics"}, "Chemistry": {"Equilibrium"}})
	require.NoError(t, err)
	assert.Equal(t, Topics{"Chemistry": {"Hydrocarbons"}}, remaining)

	_, err = s.Remaining("GATE", nil)
	assert.Error(t, err)

	loaded, err := LoadSyllabus(strings.NewReader("X:\n  subjects:\n    Math: [Algebra]\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, loaded["X"].Subjects.Count())

	_, err = LoadSyllabus(strings.NewReader("X:\n  pattern: empty\n"))
	assert.Error(t, err)
}
