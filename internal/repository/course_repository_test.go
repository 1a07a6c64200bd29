package repository

import (
	"context"
	"skillup_backend/internal/testutil"
	"skillup_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseFindByIDOrdersOutline(t *testing.T) {
	db := testutil.OpenDB(t)
	cache := NewMemoryCourseCache()
	repo := NewCourseRepository(db, cache)
	ctx := context.Background()

	testutil.SeedCourse(t, db, testutil.NewCourse("go-101", 2, 3))

	course, err := repo.FindByID(ctx, "go-101")
	require.NoError(t, err)
	require.Len(t, course.Lessons, 2)
	assert.Equal(t, "Lesson 0", course.Lessons[0].Title)
	require.Len(t, course.Lessons[1].SubLessons, 3)
	assert.Equal(t, "Lesson 1.2", course.Lessons[1].SubLessons[2].Title)

	cached, ok := cache.Get(ctx, "go-101")
	require.True(t, ok)
	assert.Same(t, course, cached)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestCourseListAndImport(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewCourseRepository(db, nil)
	ctx := context.Background()

	created, err := repo.CreateIfAbsent(ctx, testutil.NewCourse("go-101", 1))
	require.NoError(t, err)
	assert.True(t, created)

	again := testutil.NewCourse("go-101", 4)
	again.Title = "Rewritten"
	created, err = repo.CreateIfAbsent(ctx, again)
	require.NoError(t, err)
	assert.False(t, created)

	other := testutil.NewCourse("ml-201", 2)
	other.Category = "Data"
	_, err = repo.CreateIfAbsent(ctx, other)
	require.NoError(t, err)

	courses, total, err := repo.List(ctx, "", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, courses, 2)

	courses, total, err = repo.List(ctx, "Data", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, courses, 1)
	assert.Equal(t, "ml-201", courses[0].ID)

	stored, err := repo.FindByID(ctx, "go-101")
	require.NoError(t, err)
	assert.Equal(t, "Course go-101", stored.Title)
	assert.Len(t, stored.Lessons, 1)
}
