package repository

import (
	"context"
	"errors"
	"skillup_backend/internal/model"
	"skillup_backend/internal/util"

	"gorm.io/gorm"
)

type LearnerRepository struct {
	DB *gorm.DB
}

func NewLearnerRepository(db *gorm.DB) *LearnerRepository {
	return &LearnerRepository{DB: db}
}

// FindOrCreateBySubject 按身份 subject 查找学员，不存在时以 defaults 建档
func (r *LearnerRepository) FindOrCreateBySubject(ctx context.Context, subject string, defaults model.Learner) (*model.Learner, error) {
	var learner model.Learner
	err := r.DB.WithContext(ctx).
		Where(model.Learner{IdentitySubject: subject}).
		Attrs(model.Learner{
			Fullname:     defaults.Fullname,
			Username:     defaults.Username,
			Email:        defaults.Email,
			ProfileImage: defaults.ProfileImage,
		}).
		FirstOrCreate(&learner).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// 并发首登，另一请求已建档
		err = r.DB.WithContext(ctx).Where("identity_subject = ?", subject).First(&learner).Error
	}
	if err != nil {
		return nil, err
	}
	return &learner, nil
}

func (r *LearnerRepository) FindByID(ctx context.Context, id string) (*model.Learner, error) {
	var learner model.Learner
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&learner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrLearnerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &learner, nil
}

// UpdateProfile 只更新非空字段
func (r *LearnerRepository) UpdateProfile(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	result := r.DB.WithContext(ctx).Model(&model.Learner{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return util.ErrLearnerNotFound
	}
	return nil
}
