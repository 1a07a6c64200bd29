package repository

import (
	"context"
	"skillup_backend/internal/model"
	"skillup_backend/internal/testutil"
	"skillup_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollmentFindOrCreate(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	first, created, err := repo.FindOrCreate(ctx, "learner-1", "course-1", testutil.Now)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, first.ID)

	second, created, err := repo.FindOrCreate(ctx, "learner-1", "course-1", testutil.Now.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.EnrolledAt.Equal(testutil.Now))

	_, err = repo.Find(ctx, "learner-2", "course-1")
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)
}

func TestEnrollmentSaveRejectsStaleVersion(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	created, _, err := repo.FindOrCreate(ctx, "learner-1", "course-1", testutil.Now)
	require.NoError(t, err)

	a, err := repo.Find(ctx, "learner-1", "course-1")
	require.NoError(t, err)
	b, err := repo.Find(ctx, "learner-1", "course-1")
	require.NoError(t, err)

	a.Progress = 50
	a.CompletedSubLessons = append(a.CompletedSubLessons, model.CompletedSubLesson{LessonIndex: 0, SubLessonIndex: 0, CompletedAt: testutil.Now})
	require.NoError(t, repo.Save(ctx, a))
	assert.Equal(t, 1, a.Version)

	b.Progress = 50
	b.CompletedSubLessons = append(b.CompletedSubLessons, model.CompletedSubLesson{LessonIndex: 0, SubLessonIndex: 1, CompletedAt: testutil.Now})
	assert.ErrorIs(t, repo.Save(ctx, b), util.ErrConcurrencyConflict)

	stored, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Version)
	require.Len(t, stored.CompletedSubLessons, 1)
	assert.Equal(t, 0, stored.CompletedSubLessons[0].SubLessonIndex)
}

func TestEnrollmentSaveIgnoresDuplicateCompletion(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	e, _, err := repo.FindOrCreate(ctx, "learner-1", "course-1", testutil.Now)
	require.NoError(t, err)
	e.CompletedSubLessons = append(e.CompletedSubLessons, model.CompletedSubLesson{LessonIndex: 0, SubLessonIndex: 0, CompletedAt: testutil.Now})
	require.NoError(t, repo.Save(ctx, e))

	// 同一小节以新行再次写入
	e.CompletedSubLessons = append(e.CompletedSubLessons, model.CompletedSubLesson{LessonIndex: 0, SubLessonIndex: 0, CompletedAt: testutil.Now})
	require.NoError(t, repo.Save(ctx, e))

	stored, err := repo.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Len(t, stored.CompletedSubLessons, 1)
}

func TestEnrollmentSaveMissingRecord(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewEnrollmentRepository(db)

	err := repo.Save(context.Background(), &model.Enrollment{ID: "nope"})
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)
}

func TestLinkCertificateOnlyOnce(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	e, _, err := repo.FindOrCreate(ctx, "learner-1", "course-1", testutil.Now)
	require.NoError(t, err)

	// 未结业时不回写
	assert.ErrorIs(t, repo.LinkCertificate(ctx, e.ID, "cert-1"), util.ErrConcurrencyConflict)

	require.NoError(t, db.Model(&model.Enrollment{}).Where("id = ?", e.ID).Update("is_completed", true).Error)
	require.NoError(t, repo.LinkCertificate(ctx, e.ID, "cert-1"))
	assert.ErrorIs(t, repo.LinkCertificate(ctx, e.ID, "cert-2"), util.ErrConcurrencyConflict)

	stored, err := repo.FindByID(ctx, e.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CertificateID)
	assert.Equal(t, "cert-1", *stored.CertificateID)
}
