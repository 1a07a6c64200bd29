package service

import (
	"context"
	"errors"
	"skillup_backend/internal/model"
	"skillup_backend/internal/repository"
	"skillup_backend/internal/util"
	"skillup_backend/pkg/logger"
	"skillup_backend/pkg/monitoring"
	"skillup_backend/pkg/tracing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// 乐观锁冲突时重新读取并重放的最大次数
const maxSaveAttempts = 3

type EnrollmentService struct {
	Repo    *repository.EnrollmentRepository
	Catalog *CatalogService
	Now     func() time.Time
}

func NewEnrollmentService(repo *repository.EnrollmentRepository, catalog *CatalogService) *EnrollmentService {
	return &EnrollmentService{
		Repo:    repo,
		Catalog: catalog,
		Now:     time.Now,
	}
}

// Enroll 幂等报名，已报名时返回原记录
func (s *EnrollmentService) Enroll(ctx context.Context, learnerID, courseID string) (*model.Enrollment, error) {
	if _, err := s.Catalog.GetCourse(ctx, courseID); err != nil {
		return nil, err
	}

	enrollment, created, err := s.Repo.FindOrCreate(ctx, learnerID, courseID, s.Now().UTC())
	if err != nil {
		return nil, err
	}
	if created {
		logger.Log.Info("learner enrolled",
			zap.String("learnerId", learnerID),
			zap.String("courseId", courseID),
			zap.String("enrollmentId", enrollment.ID),
		)
	}
	return enrollment, nil
}

func (s *EnrollmentService) Get(ctx context.Context, learnerID, courseID string) (*model.Enrollment, error) {
	return s.Repo.Find(ctx, learnerID, courseID)
}

func (s *EnrollmentService) ListEnrollments(ctx context.Context, learnerID string) ([]model.Enrollment, error) {
	return s.Repo.ListByLearner(ctx, learnerID)
}

// GetProgress 报名记录 + 各课时解锁状态
func (s *EnrollmentService) GetProgress(ctx context.Context, learnerID, courseID string) (*model.EnrollmentProgress, error) {
	course, err := s.Catalog.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	enrollment, err := s.Repo.Find(ctx, learnerID, courseID)
	if err != nil {
		return nil, err
	}
	return buildProgress(course, enrollment), nil
}

func buildProgress(course *model.Course, enrollment *model.Enrollment) *model.EnrollmentProgress {
	score, grade := ScoreSummary(enrollment)
	return &model.EnrollmentProgress{
		Enrollment:   enrollment,
		Lessons:      LessonStates(course, enrollment),
		OverallScore: score,
		Grade:        grade,
	}
}

// CompleteSubLessonRequest 小节完成请求
type CompleteSubLessonRequest struct {
	Score *int `json:"score" binding:"omitempty,min=0,max=100"`
}

// CompleteSubLesson 校验课时已解锁后标记小节完成并保存。
// 保存遇到版本冲突时重新读取最新记录再重放本次操作。
func (s *EnrollmentService) CompleteSubLesson(ctx context.Context, learnerID, courseID string, lessonIndex, subLessonIndex int, score *int) (*model.EnrollmentProgress, error) {
	ctx, span := tracing.Start(ctx, "EnrollmentService.CompleteSubLesson",
		attribute.String("course.id", courseID),
		attribute.Int("lesson.index", lessonIndex),
		attribute.Int("sub_lesson.index", subLessonIndex),
	)
	defer span.End()

	course, err := s.Catalog.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		enrollment, err := s.Repo.Find(ctx, learnerID, courseID)
		if err != nil {
			return nil, err
		}

		if !IsLessonUnlocked(course, enrollment, lessonIndex) {
			if lessonIndex < 0 || lessonIndex >= len(course.Lessons) {
				return nil, util.ErrInvalidIndex
			}
			return nil, util.ErrLessonLocked
		}

		next, changed, err := CompleteSubLesson(course, enrollment, lessonIndex, subLessonIndex, score, s.Now().UTC())
		if err != nil {
			return nil, err
		}
		if !changed {
			return buildProgress(course, next), nil
		}

		err = s.Repo.Save(ctx, next)
		if errors.Is(err, util.ErrConcurrencyConflict) {
			monitoring.EnrollmentSaveConflicts.Inc()
			logger.Log.Warn("enrollment save conflict, retrying",
				zap.String("enrollmentId", enrollment.ID),
				zap.Int("attempt", attempt),
			)
			if attempt >= maxSaveAttempts {
				return nil, err
			}
			continue
		}
		if err != nil {
			return nil, err
		}

		monitoring.SubLessonCompletions.Inc()
		if next.IsCompleted && !enrollment.IsCompleted {
			monitoring.CourseCompletions.Inc()
			logger.Log.Info("course completed",
				zap.String("learnerId", learnerID),
				zap.String("courseId", courseID),
			)
		}
		logger.Log.Debug("sub-lesson completed",
			zap.String("enrollmentId", next.ID),
			zap.Int("lesson", lessonIndex),
			zap.Int("subLesson", subLessonIndex),
			zap.Int("progress", next.Progress),
		)
		return buildProgress(course, next), nil
	}
}
