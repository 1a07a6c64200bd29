package service

import (
	"skillup_backend/internal/model"
	"skillup_backend/internal/testutil"
	"skillup_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnrollment() *model.Enrollment {
	return &model.Enrollment{
		ID:         "enr-1",
		LearnerID:  "learner-1",
		CourseID:   "course-1",
		EnrolledAt: testutil.Now,
	}
}

func intPtr(v int) *int { return &v }

func TestTotalSubLessonCount(t *testing.T) {
	assert.Equal(t, 3, TotalSubLessonCount(testutil.NewCourse("c", 2, 1)))
	assert.Equal(t, 0, TotalSubLessonCount(testutil.NewCourse("empty")))
	assert.Equal(t, 6, TotalSubLessonCount(testutil.NewCourse("c", 1, 0, 5)))
}

func TestComputeProgress(t *testing.T) {
	cases := []struct {
		completed, total, want int
	}{
		{0, 3, 0},
		{1, 3, 33},
		{2, 3, 67},
		{3, 3, 100},
		{4, 3, 100},
		{199, 200, 99},
		{1, 200, 1},
		{1, 0, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ComputeProgress(tc.completed, tc.total), "completed=%d total=%d", tc.completed, tc.total)
	}
}

func TestExampleScenario(t *testing.T) {
	course := testutil.NewCourse("c", 2, 1)
	e := newEnrollment()

	e, changed, err := CompleteSubLesson(course, e, 0, 0, nil, testutil.Now)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 33, e.Progress)
	assert.False(t, IsLessonUnlocked(course, e, 1))

	e, _, err = CompleteSubLesson(course, e, 0, 1, nil, testutil.Now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 67, e.Progress)
	assert.True(t, IsLessonUnlocked(course, e, 1))
	assert.False(t, e.IsCompleted)

	e, _, err = CompleteSubLesson(course, e, 1, 0, nil, testutil.Now.Add(2*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 100, e.Progress)
	assert.True(t, e.IsCompleted)
	require.NotNil(t, e.CompletedAt)
	assert.True(t, e.CompletedAt.Equal(testutil.Now.Add(2*time.Minute)))
}

func TestCompleteSubLessonIsIdempotent(t *testing.T) {
	course := testutil.NewCourse("c", 2, 1)
	first, changed, err := CompleteSubLesson(course, newEnrollment(), 0, 1, nil, testutil.Now)
	require.NoError(t, err)
	require.True(t, changed)

	second, changed, err := CompleteSubLesson(course, first, 0, 1, nil, testutil.Now.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, first.Progress, second.Progress)
	assert.Len(t, second.CompletedSubLessons, len(first.CompletedSubLessons))
	assert.True(t, second.LastAccessedAt.Equal(*first.LastAccessedAt))
}

func TestCompleteSubLessonDoesNotMutateInput(t *testing.T) {
	course := testutil.NewCourse("c", 2, 1)
	original := newEnrollment()

	_, _, err := CompleteSubLesson(course, original, 0, 0, nil, testutil.Now)
	require.NoError(t, err)
	assert.Empty(t, original.CompletedSubLessons)
	assert.Zero(t, original.Progress)
	assert.Nil(t, original.LastAccessedAt)
}

func TestCompleteSubLessonRejectsInvalidIndex(t *testing.T) {
	course := testutil.NewCourse("c", 2, 1)
	for _, idx := range [][2]int{{-1, 0}, {2, 0}, {0, 2}, {1, 1}, {0, -1}} {
		_, _, err := CompleteSubLesson(course, newEnrollment(), idx[0], idx[1], nil, testutil.Now)
		assert.ErrorIs(t, err, util.ErrInvalidIndex, "index %v", idx)
	}

	_, _, err := CompleteSubLesson(course, newEnrollment(), 0, 0, intPtr(101), testutil.Now)
	assert.ErrorIs(t, err, util.ErrInvalidScore)
}

func TestProgressIsMonotonic(t *testing.T) {
	course := testutil.NewCourse("c", 3, 4, 2, 5)
	e := newEnrollment()
	last := 0
	for i, lesson := range course.Lessons {
		for j := range lesson.SubLessons {
			var err error
			e, _, err = CompleteSubLesson(course, e, i, j, nil, testutil.Now)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, e.Progress, last)
			assert.LessOrEqual(t, e.Progress, 100)
			last = e.Progress
		}
	}
	assert.Equal(t, 100, last)
	assert.True(t, e.IsCompleted)
}

func TestCompletionIsOneWay(t *testing.T) {
	course := testutil.NewCourse("c", 1)
	e, _, err := CompleteSubLesson(course, newEnrollment(), 0, 0, nil, testutil.Now)
	require.NoError(t, err)
	require.True(t, e.IsCompleted)

	again, _, err := CompleteSubLesson(course, e, 0, 0, nil, testutil.Now.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, again.IsCompleted)
	assert.True(t, again.CompletedAt.Equal(testutil.Now))
}

func TestProgressClampsWhenSetExceedsCourse(t *testing.T) {
	course := testutil.NewCourse("c", 1, 1)
	e := newEnrollment()
	// 并发写入导致集合里出现多余记录时仍然封顶 100
	e.CompletedSubLessons = []model.CompletedSubLesson{
		{LessonIndex: 0, SubLessonIndex: 0},
		{LessonIndex: 0, SubLessonIndex: 5},
		{LessonIndex: 3, SubLessonIndex: 0},
	}
	e, _, err := CompleteSubLesson(course, e, 1, 0, nil, testutil.Now)
	require.NoError(t, err)
	assert.Equal(t, 100, e.Progress)
}

func TestUnlockOrdering(t *testing.T) {
	course := testutil.NewCourse("c", 2, 2, 1)
	e := newEnrollment()

	assert.True(t, IsLessonUnlocked(course, e, 0))
	assert.False(t, IsLessonUnlocked(course, e, 1))
	assert.False(t, IsLessonUnlocked(course, e, 2))

	e, _, _ = CompleteSubLesson(course, e, 0, 0, nil, testutil.Now)
	assert.False(t, IsLessonUnlocked(course, e, 1), "partial predecessor keeps lesson 1 locked")

	e, _, _ = CompleteSubLesson(course, e, 0, 1, nil, testutil.Now)
	assert.True(t, IsLessonUnlocked(course, e, 1))
	assert.False(t, IsLessonUnlocked(course, e, 2))

	e, _, _ = CompleteSubLesson(course, e, 1, 1, nil, testutil.Now)
	assert.False(t, IsLessonUnlocked(course, e, 2), "partial predecessor keeps lesson 2 locked")

	e, _, _ = CompleteSubLesson(course, e, 1, 0, nil, testutil.Now)
	assert.True(t, IsLessonUnlocked(course, e, 2))

	assert.False(t, IsLessonUnlocked(course, e, 3))
	assert.False(t, IsLessonUnlocked(course, e, -1))
}

func TestIsLessonFullyCompleted(t *testing.T) {
	course := testutil.NewCourse("c", 2, 1)
	e := newEnrollment()
	assert.False(t, IsLessonFullyCompleted(course, e, 0))

	e, _, _ = CompleteSubLesson(course, e, 0, 0, nil, testutil.Now)
	e, _, _ = CompleteSubLesson(course, e, 0, 1, nil, testutil.Now)
	assert.True(t, IsLessonFullyCompleted(course, e, 0))
	assert.False(t, IsLessonFullyCompleted(course, e, 1))
	assert.False(t, IsLessonFullyCompleted(course, e, 9))
}

func TestLessonStates(t *testing.T) {
	course := testutil.NewCourse("c", 2, 1)
	e, _, _ := CompleteSubLesson(course, newEnrollment(), 0, 0, nil, testutil.Now)

	states := LessonStates(course, e)
	require.Len(t, states, 2)
	assert.Equal(t, model.LessonState{Index: 0, Title: "Lesson 0", Unlocked: true, CompletedSubLessons: 1, TotalSubLessons: 2}, states[0])
	assert.Equal(t, model.LessonState{Index: 1, Title: "Lesson 1", TotalSubLessons: 1}, states[1])
}

func TestScoreSummary(t *testing.T) {
	course := testutil.NewCourse("c", 3)
	e := newEnrollment()
	score, grade := ScoreSummary(e)
	assert.Equal(t, 100, score)
	assert.Equal(t, "A", grade)

	e, _, _ = CompleteSubLesson(course, e, 0, 0, intPtr(80), testutil.Now)
	e, _, _ = CompleteSubLesson(course, e, 0, 1, intPtr(71), testutil.Now)
	e, _, _ = CompleteSubLesson(course, e, 0, 2, nil, testutil.Now)
	score, grade = ScoreSummary(e)
	assert.Equal(t, 76, score)
	assert.Equal(t, "C", grade)

	assert.Equal(t, "E", GradeFor(12))
	assert.Equal(t, "B", GradeFor(80))
}
