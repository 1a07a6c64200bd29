package service

import (
	"context"
	"skillup_backend/internal/model"
	"skillup_backend/internal/repository"
	"skillup_backend/pkg/logger"

	"go.uber.org/zap"
)

type CatalogService struct {
	Repo *repository.CourseRepository
}

func NewCatalogService(repo *repository.CourseRepository) *CatalogService {
	return &CatalogService{Repo: repo}
}

// GetCourse 课程不存在时返回 util.ErrCourseNotFound
func (s *CatalogService) GetCourse(ctx context.Context, courseID string) (*model.Course, error) {
	return s.Repo.FindByID(ctx, courseID)
}

func (s *CatalogService) ListCourses(ctx context.Context, category string, page, limit int) ([]model.CourseSummary, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	courses, total, err := s.Repo.List(ctx, category, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]model.CourseSummary, len(courses))
	for i := range courses {
		res[i] = Summarize(&courses[i])
	}
	return res, total, nil
}

// Import 导入课程定义，已发布的课程不会被覆盖
func (s *CatalogService) Import(ctx context.Context, courses []model.Course) (int, error) {
	imported := 0
	for i := range courses {
		course := &courses[i]
		course.Normalize()
		created, err := s.Repo.CreateIfAbsent(ctx, course)
		if err != nil {
			return imported, err
		}
		if created {
			imported++
			logger.Log.Info("course imported",
				zap.String("courseId", course.ID),
				zap.String("title", course.Title),
				zap.Int("subLessons", TotalSubLessonCount(course)),
			)
		}
	}
	return imported, nil
}

// Summarize 课程列表项
func Summarize(course *model.Course) model.CourseSummary {
	return model.CourseSummary{
		ID:              course.ID,
		Title:           course.Title,
		Description:     course.Description,
		Category:        course.Category,
		Image:           course.Image,
		TotalLessons:    len(course.Lessons),
		TotalSubLessons: TotalSubLessonCount(course),
	}
}

// SnapshotCourse 证书签发时冻结的课程展示字段
func SnapshotCourse(course *model.Course) model.CourseSnapshot {
	return model.CourseSnapshot{
		Title:           course.Title,
		Category:        course.Category,
		Image:           course.Image,
		TotalLessons:    len(course.Lessons),
		TotalSubLessons: TotalSubLessonCount(course),
	}
}
