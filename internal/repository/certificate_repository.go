package repository

import (
	"context"
	"errors"
	"skillup_backend/internal/model"
	"skillup_backend/internal/util"

	"gorm.io/gorm"
)

// CertificateRepository 证书只插入、不更新
type CertificateRepository struct {
	DB *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{DB: db}
}

// WithTx 返回绑定到事务的仓储
func (r *CertificateRepository) WithTx(tx *gorm.DB) *CertificateRepository {
	return &CertificateRepository{DB: tx}
}

func (r *CertificateRepository) first(ctx context.Context, query interface{}, args ...interface{}) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.DB.WithContext(ctx).Where(query, args...).First(&cert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCertificateNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *CertificateRepository) FindByCode(ctx context.Context, code string) (*model.Certificate, error) {
	return r.first(ctx, "code = ?", code)
}

func (r *CertificateRepository) FindByID(ctx context.Context, id string) (*model.Certificate, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *CertificateRepository) FindByLearnerAndCourse(ctx context.Context, learnerID, courseID string) (*model.Certificate, error) {
	return r.first(ctx, "learner_id = ? AND course_id = ?", learnerID, courseID)
}

// CodeExists 检查验证码是否已被占用
func (r *CertificateRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Certificate{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

// Insert 在保存点内插入，唯一键冲突时回滚到保存点，外层事务可继续使用
func (r *CertificateRepository) Insert(ctx context.Context, cert *model.Certificate) error {
	const savepoint = "certificate_insert"
	tx := r.DB.WithContext(ctx)
	if err := tx.SavePoint(savepoint).Error; err != nil {
		return err
	}
	if err := tx.Create(cert).Error; err != nil {
		if rbErr := tx.RollbackTo(savepoint).Error; rbErr != nil {
			return rbErr
		}
		return err
	}
	return nil
}

func (r *CertificateRepository) ListByLearner(ctx context.Context, learnerID string) ([]model.Certificate, error) {
	var certs []model.Certificate
	err := r.DB.WithContext(ctx).
		Where("learner_id = ?", learnerID).
		Order("issued_at DESC").
		Find(&certs).Error
	return certs, err
}

// FindOrphans 报名记录未回写证书 ID 的证书
func (r *CertificateRepository) FindOrphans(ctx context.Context, limit int) ([]model.Certificate, error) {
	var certs []model.Certificate
	err := r.DB.WithContext(ctx).
		Joins("JOIN enrollments ON enrollments.id = certificates.enrollment_id").
		Where("enrollments.certificate_id IS NULL").
		Order("certificates.issued_at ASC").
		Limit(limit).
		Find(&certs).Error
	return certs, err
}
