package repository

import (
	"context"
	"errors"
	"skillup_backend/internal/model"
	"skillup_backend/internal/util"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

// WithTx 返回绑定到事务的仓储
func (r *EnrollmentRepository) WithTx(tx *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: tx}
}

func preloadCompletions(db *gorm.DB) *gorm.DB {
	return db.Preload("CompletedSubLessons", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("lesson_index ASC, sub_lesson_index ASC")
	})
}

// Find 按 (learnerID, courseID) 获取报名记录
func (r *EnrollmentRepository) Find(ctx context.Context, learnerID, courseID string) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := preloadCompletions(r.DB.WithContext(ctx)).
		Where("learner_id = ? AND course_id = ?", learnerID, courseID).
		First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrEnrollmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// FindForUpdate 在事务内加行锁读取
func (r *EnrollmentRepository) FindForUpdate(ctx context.Context, learnerID, courseID string) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := preloadCompletions(r.DB.WithContext(ctx)).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("learner_id = ? AND course_id = ?", learnerID, courseID).
		First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrEnrollmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := preloadCompletions(r.DB.WithContext(ctx)).Where("id = ?", id).First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrEnrollmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// FindOrCreate 先查后插，已存在时原样返回；created 表示本次是否新建
func (r *EnrollmentRepository) FindOrCreate(ctx context.Context, learnerID, courseID string, now time.Time) (*model.Enrollment, bool, error) {
	existing, err := r.Find(ctx, learnerID, courseID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, util.ErrEnrollmentNotFound) {
		return nil, false, err
	}

	enrollment := &model.Enrollment{
		LearnerID:           learnerID,
		CourseID:            courseID,
		EnrolledAt:          now,
		CompletedSubLessons: []model.CompletedSubLesson{},
	}
	if err := r.DB.WithContext(ctx).Omit(clause.Associations).Create(enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// 并发报名，返回已写入的那条
			existing, ferr := r.Find(ctx, learnerID, courseID)
			return existing, false, ferr
		}
		return nil, false, err
	}
	return enrollment, true, nil
}

// Save 乐观锁保存：版本号不匹配时返回 ErrConcurrencyConflict。
// 已完成小节只增不减，新增行按 (enrollment, lesson, subLesson) 去重插入。
func (r *EnrollmentRepository) Save(ctx context.Context, enrollment *model.Enrollment) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Enrollment{}).
			Where("id = ? AND version = ?", enrollment.ID, enrollment.Version).
			Updates(map[string]interface{}{
				"last_accessed_at": enrollment.LastAccessedAt,
				"progress":         enrollment.Progress,
				"is_completed":     enrollment.IsCompleted,
				"completed_at":     enrollment.CompletedAt,
				"version":          gorm.Expr("version + 1"),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&model.Enrollment{}).Where("id = ?", enrollment.ID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return util.ErrEnrollmentNotFound
			}
			return util.ErrConcurrencyConflict
		}

		for i := range enrollment.CompletedSubLessons {
			c := &enrollment.CompletedSubLessons[i]
			if c.ID != 0 {
				continue
			}
			c.EnrollmentID = enrollment.ID
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(c).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	enrollment.Version++
	return nil
}

// ListByLearner 学员的全部报名
func (r *EnrollmentRepository) ListByLearner(ctx context.Context, learnerID string) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := preloadCompletions(r.DB.WithContext(ctx)).
		Where("learner_id = ?", learnerID).
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	return enrollments, err
}

// LinkCertificate 回写证书 ID，仅当尚未关联时生效
func (r *EnrollmentRepository) LinkCertificate(ctx context.Context, enrollmentID, certificateID string) error {
	result := r.DB.WithContext(ctx).Model(&model.Enrollment{}).
		Where("id = ? AND is_completed = ? AND certificate_id IS NULL", enrollmentID, true).
		Updates(map[string]interface{}{
			"certificate_id": certificateID,
			"version":        gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return util.ErrConcurrencyConflict
	}
	return nil
}
