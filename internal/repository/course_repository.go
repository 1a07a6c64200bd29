package repository

import (
	"context"
	"errors"
	"skillup_backend/internal/model"
	"skillup_backend/internal/util"

	"gorm.io/gorm"
)

// CourseCache 课程只读缓存，课程发布后不再修改
type CourseCache interface {
	Get(ctx context.Context, id string) (*model.Course, bool)
	Set(ctx context.Context, course *model.Course)
}

type CourseRepository struct {
	DB    *gorm.DB
	Cache CourseCache
}

func NewCourseRepository(db *gorm.DB, cache CourseCache) *CourseRepository {
	return &CourseRepository{DB: db, Cache: cache}
}

func preloadOutline(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Lessons", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position ASC")
		}).
		Preload("Lessons.SubLessons", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position ASC")
		})
}

// FindByID 获取课程及其有序的课时和小节
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*model.Course, error) {
	if r.Cache != nil {
		if course, ok := r.Cache.Get(ctx, id); ok {
			return course, nil
		}
	}

	var course model.Course
	err := preloadOutline(r.DB.WithContext(ctx)).Where("id = ?", id).First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}

	if r.Cache != nil {
		r.Cache.Set(ctx, &course)
	}
	return &course, nil
}

// List 分页获取课程，category 为空时不过滤
func (r *CourseRepository) List(ctx context.Context, category string, page, limit int) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	query := r.DB.WithContext(ctx).Model(&model.Course{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := preloadOutline(query).Order("created_at DESC").Offset(offset).Limit(limit).Find(&courses).Error
	return courses, total, err
}

// CreateIfAbsent 导入课程，已存在的课程保持不变
func (r *CourseRepository) CreateIfAbsent(ctx context.Context, course *model.Course) (bool, error) {
	created := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Course{}).Where("id = ?", course.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		if err := tx.Create(course).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}
