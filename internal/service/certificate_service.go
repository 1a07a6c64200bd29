package service

import (
	"context"
	"errors"
	"fmt"
	"skillup_backend/internal/config"
	"skillup_backend/internal/model"
	"skillup_backend/internal/repository"
	"skillup_backend/internal/util"
	"skillup_backend/pkg/logger"
	"skillup_backend/pkg/monitoring"
	"skillup_backend/pkg/tracing"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 单次对账处理的孤儿证书上限
const orphanBatchSize = 100

// IssueResult 签发结果；AlreadyIssued 表示返回的是此前签发的证书
type IssueResult struct {
	Certificate   *model.Certificate `json:"certificate"`
	AlreadyIssued bool               `json:"alreadyIssued"`
}

type CertificateService struct {
	DB           *gorm.DB
	Certificates *repository.CertificateRepository
	Enrollments  *repository.EnrollmentRepository
	Learners     *repository.LearnerRepository
	Catalog      *CatalogService
	Storage      *StorageService
	QR           QRRenderer
	Config       config.CertificateConfig

	Now          func() time.Time
	GenerateCode func(length int) (string, error)
}

func NewCertificateService(
	db *gorm.DB,
	certificates *repository.CertificateRepository,
	enrollments *repository.EnrollmentRepository,
	learners *repository.LearnerRepository,
	catalog *CatalogService,
	storage *StorageService,
	qr QRRenderer,
	cfg config.CertificateConfig,
) *CertificateService {
	return &CertificateService{
		DB:           db,
		Certificates: certificates,
		Enrollments:  enrollments,
		Learners:     learners,
		Catalog:      catalog,
		Storage:      storage,
		QR:           qr,
		Config:       cfg,
		Now:          time.Now,
		GenerateCode: util.GenerateCode,
	}
}

// BuildPayload 二维码载荷：<verify_base_url>/verify/<CODE>
func (s *CertificateService) BuildPayload(code string) string {
	return strings.TrimRight(s.Config.VerifyBaseURL, "/") + util.VerifyPathPrefix + code
}

// ParsePayload 从载荷中取出验证码，格式不符时返回 ErrInvalidPayload
func (s *CertificateService) ParsePayload(payload string) (string, error) {
	prefix := strings.TrimRight(s.Config.VerifyBaseURL, "/") + util.VerifyPathPrefix
	payload = strings.TrimSpace(payload)
	if !strings.HasPrefix(payload, prefix) {
		return "", util.ErrInvalidPayload
	}
	code := strings.TrimPrefix(payload, prefix)
	if !util.ValidCode(code, s.Config.CodeLength) {
		return "", util.ErrInvalidPayload
	}
	return code, nil
}

// Issue 为已结业的报名签发证书。
// 报名行加锁后在同一事务内完成查重、生成验证码、写入证书和回写报名记录。
func (s *CertificateService) Issue(ctx context.Context, learnerID, courseID string) (*IssueResult, error) {
	ctx, span := tracing.Start(ctx, "CertificateService.Issue",
		attribute.String("course.id", courseID),
	)
	defer span.End()

	course, err := s.Catalog.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	learner, err := s.Learners.FindByID(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	var result *IssueResult
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		enrollments := s.Enrollments.WithTx(tx)
		certificates := s.Certificates.WithTx(tx)

		enrollment, err := enrollments.FindForUpdate(ctx, learnerID, courseID)
		if err != nil {
			return err
		}
		if !enrollment.IsCompleted {
			return util.ErrNotCompleted
		}

		existing, err := certificates.FindByLearnerAndCourse(ctx, learnerID, courseID)
		if err == nil {
			if enrollment.CertificateID == nil {
				if err := enrollments.LinkCertificate(ctx, enrollment.ID, existing.ID); err != nil {
					return err
				}
			}
			result = &IssueResult{Certificate: existing, AlreadyIssued: true}
			return nil
		}
		if !errors.Is(err, util.ErrCertificateNotFound) {
			return err
		}

		cert, concurrent, err := s.insertWithUniqueCode(ctx, certificates, s.newCertificate(learner, course, enrollment))
		if err != nil {
			return err
		}
		err = enrollments.LinkCertificate(ctx, enrollment.ID, cert.ID)
		if concurrent && errors.Is(err, util.ErrConcurrencyConflict) {
			// 并发签发方已回写
			err = nil
		}
		if err != nil {
			return fmt.Errorf("link certificate: %w", err)
		}
		result = &IssueResult{Certificate: cert, AlreadyIssued: concurrent}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.AlreadyIssued {
		monitoring.CertificatesIssued.Inc()
		logger.Log.Info("certificate issued",
			zap.String("learnerId", learnerID),
			zap.String("courseId", courseID),
			zap.String("code", result.Certificate.Code),
		)
		s.uploadQR(ctx, result.Certificate)
	}
	return result, nil
}

func (s *CertificateService) newCertificate(learner *model.Learner, course *model.Course, enrollment *model.Enrollment) *model.Certificate {
	score, grade := ScoreSummary(enrollment)
	completedAt := s.Now().UTC()
	if enrollment.CompletedAt != nil {
		completedAt = *enrollment.CompletedAt
	}
	snapshot := SnapshotCourse(course)
	return &model.Certificate{
		LearnerID:       learner.ID,
		CourseID:        course.ID,
		EnrollmentID:    enrollment.ID,
		IssuedAt:        s.Now().UTC(),
		CompletedAt:     completedAt,
		Grade:           grade,
		OverallScore:    score,
		TotalLessons:    snapshot.TotalLessons,
		TotalSubLessons: snapshot.TotalSubLessons,
		LearnerSnapshot: datatypes.NewJSONType(learner.Snapshot()),
		CourseSnapshot:  datatypes.NewJSONType(snapshot),
	}
}

// insertWithUniqueCode 生成验证码并插入，撞码时重新生成。
// 第二个返回值为 true 表示同一报名已被并发签发，返回的是对方写入的证书。
func (s *CertificateService) insertWithUniqueCode(ctx context.Context, certificates *repository.CertificateRepository, cert *model.Certificate) (*model.Certificate, bool, error) {
	attempts := s.Config.MaxCodeAttempts
	if attempts < 1 {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		code, err := s.GenerateCode(s.Config.CodeLength)
		if err != nil {
			return nil, false, err
		}
		exists, err := certificates.CodeExists(ctx, code)
		if err != nil {
			return nil, false, err
		}
		if exists {
			logger.Log.Warn("certificate code collision", zap.Int("attempt", i+1))
			continue
		}

		cert.ID = ""
		cert.Code = code
		cert.Payload = s.BuildPayload(code)
		err = certificates.Insert(ctx, cert)
		if err == nil {
			return cert, false, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, err
		}
		// 唯一键冲突可能来自验证码，也可能是同一报名已被并发签发
		if other, ferr := certificates.FindByLearnerAndCourse(ctx, cert.LearnerID, cert.CourseID); ferr == nil {
			logger.Log.Info("certificate issued concurrently",
				zap.String("learnerId", cert.LearnerID),
				zap.String("courseId", cert.CourseID),
			)
			return other, true, nil
		}
		logger.Log.Warn("certificate code collision on insert", zap.Int("attempt", i+1))
	}
	return nil, false, util.ErrCodeSpaceExhausted
}

func (s *CertificateService) qrObjectName(code string) string {
	return "certificates/qr/" + code + ".png"
}

// uploadQR 上传二维码图片，已存在时跳过，失败只记日志
func (s *CertificateService) uploadQR(ctx context.Context, cert *model.Certificate) {
	if s.Storage == nil || s.QR == nil {
		return
	}
	name := s.qrObjectName(cert.Code)
	if ok, err := s.Storage.Exists(ctx, name); err == nil && ok {
		return
	}

	png, err := s.QR.RenderPNG(cert.Payload)
	if err != nil {
		logger.Log.Warn("render certificate qr failed", zap.String("code", cert.Code), zap.Error(err))
		return
	}
	if _, err := s.Storage.UploadBytes(ctx, name, png, util.MimePNG); err != nil {
		logger.Log.Warn("upload certificate qr failed", zap.String("code", cert.Code), zap.Error(err))
	}
}

func (s *CertificateService) view(cert *model.Certificate) *model.CertificateView {
	v := cert.View()
	if s.Storage != nil {
		v.QRImageURL = s.Storage.GetURL(s.qrObjectName(cert.Code))
	}
	return &v
}

// VerifyCode 按验证码查询证书，格式不合法的验证码同样视为不存在
func (s *CertificateService) VerifyCode(ctx context.Context, code string) (*model.CertificateView, error) {
	code = util.NormalizeCode(code)
	if !util.ValidCode(code, s.Config.CodeLength) {
		monitoring.CertificateVerifications.WithLabelValues("not_found").Inc()
		return nil, util.ErrCertificateNotFound
	}

	cert, err := s.Certificates.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, util.ErrCertificateNotFound) {
			monitoring.CertificateVerifications.WithLabelValues("not_found").Inc()
		}
		return nil, err
	}
	monitoring.CertificateVerifications.WithLabelValues("valid").Inc()
	return s.view(cert), nil
}

// VerifyPayload 解析扫码得到的载荷后验证
func (s *CertificateService) VerifyPayload(ctx context.Context, payload string) (*model.CertificateView, error) {
	code, err := s.ParsePayload(payload)
	if err != nil {
		monitoring.CertificateVerifications.WithLabelValues("invalid").Inc()
		return nil, err
	}
	return s.VerifyCode(ctx, code)
}

// QRImage 渲染证书二维码
func (s *CertificateService) QRImage(ctx context.Context, code string) ([]byte, error) {
	code = util.NormalizeCode(code)
	if !util.ValidCode(code, s.Config.CodeLength) {
		return nil, util.ErrCertificateNotFound
	}
	cert, err := s.Certificates.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.QR.RenderPNG(cert.Payload)
}

func (s *CertificateService) ListByLearner(ctx context.Context, learnerID string) ([]model.CertificateView, error) {
	certs, err := s.Certificates.ListByLearner(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	views := make([]model.CertificateView, len(certs))
	for i := range certs {
		views[i] = *s.view(&certs[i])
	}
	return views, nil
}

func (s *CertificateService) GetForLearner(ctx context.Context, learnerID, courseID string) (*model.CertificateView, error) {
	cert, err := s.Certificates.FindByLearnerAndCourse(ctx, learnerID, courseID)
	if err != nil {
		return nil, err
	}
	return s.view(cert), nil
}

// GetByIDForLearner 按证书 ID 查询，只返回本人的证书
func (s *CertificateService) GetByIDForLearner(ctx context.Context, learnerID, certificateID string) (*model.CertificateView, error) {
	cert, err := s.Certificates.FindByID(ctx, certificateID)
	if err != nil {
		return nil, err
	}
	if cert.LearnerID != learnerID {
		return nil, util.ErrCertificateNotFound
	}
	return s.view(cert), nil
}

// ReconcileOrphans 修复报名记录缺失的证书回写并补传二维码，返回修复条数
func (s *CertificateService) ReconcileOrphans(ctx context.Context) (int, error) {
	orphans, err := s.Certificates.FindOrphans(ctx, orphanBatchSize)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for i, cert := range orphans {
		err := s.Enrollments.LinkCertificate(ctx, cert.EnrollmentID, cert.ID)
		if errors.Is(err, util.ErrConcurrencyConflict) {
			continue
		}
		if err != nil {
			return repaired, err
		}
		repaired++
		logger.Log.Info("certificate back-reference repaired",
			zap.String("certificateId", cert.ID),
			zap.String("enrollmentId", cert.EnrollmentID),
		)
		// 签发时的上传可能同样没有完成
		s.uploadQR(ctx, &orphans[i])
	}
	return repaired, nil
}
