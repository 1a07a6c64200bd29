package service

import (
	"context"
	"skillup_backend/internal/config"
	"skillup_backend/internal/model"
	"skillup_backend/internal/repository"
	"skillup_backend/internal/testutil"
	"testing"
	"time"

	"gorm.io/gorm"
)

var ctxBG = context.Background()

type fixture struct {
	db          *gorm.DB
	catalog     *CatalogService
	learners    *LearnerService
	enrollments *EnrollmentService
	certs       *CertificateService
	storage     *StorageService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.OpenDB(t)

	courseRepo := repository.NewCourseRepository(db, repository.NewMemoryCourseCache())
	learnerRepo := repository.NewLearnerRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	certRepo := repository.NewCertificateRepository(db)

	cfg := &config.Config{
		Storage: config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
		Certificate: config.CertificateConfig{
			VerifyBaseURL:   "https://skillup.example.com",
			CodeLength:      12,
			MaxCodeAttempts: 5,
		},
	}

	catalog := NewCatalogService(courseRepo)
	enrollments := NewEnrollmentService(enrollmentRepo, catalog)
	enrollments.Now = func() time.Time { return testutil.Now }

	storage := NewStorageService(cfg)
	certs := NewCertificateService(db, certRepo, enrollmentRepo, learnerRepo, catalog, storage, NewPNGQRRenderer(128), cfg.Certificate)
	certs.Now = func() time.Time { return testutil.Now.Add(time.Hour) }

	return &fixture{
		db:          db,
		catalog:     catalog,
		learners:    NewLearnerService(learnerRepo),
		enrollments: enrollments,
		certs:       certs,
		storage:     storage,
	}
}

// completeAll 按顺序完成课程全部小节
func (f *fixture) completeAll(t *testing.T, learnerID string, course *model.Course) {
	t.Helper()
	for i, lesson := range course.Lessons {
		for j := range lesson.SubLessons {
			if _, err := f.enrollments.CompleteSubLesson(ctxBG, learnerID, course.ID, i, j, nil); err != nil {
				t.Fatalf("complete %d.%d: %v", i, j, err)
			}
		}
	}
}
