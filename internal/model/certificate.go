package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LearnerSnapshot 签发时的学员展示信息
type LearnerSnapshot struct {
	Fullname     string `json:"fullname"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage"`
}

// CourseSnapshot 签发时的课程展示信息
type CourseSnapshot struct {
	Title           string `json:"title"`
	Category        string `json:"category"`
	Image           string `json:"image"`
	TotalLessons    int    `json:"totalLessons"`
	TotalSubLessons int    `json:"totalSubLessons"`
}

// Certificate 结业证书，写入后不可修改
// swagger:model Certificate
type Certificate struct {
	ID              string                              `gorm:"primaryKey;type:varchar(36)" json:"id"`
	LearnerID       string                              `gorm:"type:varchar(36);not null;uniqueIndex:idx_certificate_learner_course" json:"learnerId"`
	CourseID        string                              `gorm:"type:varchar(36);not null;uniqueIndex:idx_certificate_learner_course" json:"courseId"`
	EnrollmentID    string                              `gorm:"type:varchar(36);not null;index" json:"enrollmentId"`
	Code            string                              `gorm:"size:32;not null;uniqueIndex" json:"code"`
	Payload         string                              `gorm:"size:255;not null" json:"payload"`
	IssuedAt        time.Time                           `gorm:"not null" json:"issuedAt"`
	CompletedAt     time.Time                           `gorm:"not null" json:"completedAt"`
	Grade           string                              `gorm:"size:4" json:"grade"`
	OverallScore    int                                 `json:"overallScore"`
	TotalLessons    int                                 `json:"totalLessons"`
	TotalSubLessons int                                 `json:"totalSubLessons"`
	LearnerSnapshot datatypes.JSONType[LearnerSnapshot] `json:"learnerSnapshot"`
	CourseSnapshot  datatypes.JSONType[CourseSnapshot]  `json:"courseSnapshot"`
}

func (c *Certificate) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = GenerateUUID()
	}
	return
}

func (Certificate) TableName() string {
	return "certificates"
}

// CertificateView 验证与展示用的证书视图
type CertificateView struct {
	ID           string          `json:"id"`
	Code         string          `json:"code"`
	Payload      string          `json:"payload"`
	QRImageURL   string          `json:"qrImageUrl,omitempty"`
	IssuedAt     time.Time       `json:"issuedAt"`
	CompletedAt  time.Time       `json:"completedAt"`
	Grade        string          `json:"grade"`
	OverallScore int             `json:"overallScore"`
	Learner      LearnerSnapshot `json:"learner"`
	Course       CourseSnapshot  `json:"course"`
}

// View 转换为展示视图
func (c *Certificate) View() CertificateView {
	return CertificateView{
		ID:           c.ID,
		Code:         c.Code,
		Payload:      c.Payload,
		IssuedAt:     c.IssuedAt,
		CompletedAt:  c.CompletedAt,
		Grade:        c.Grade,
		OverallScore: c.OverallScore,
		Learner:      c.LearnerSnapshot.Data(),
		Course:       c.CourseSnapshot.Data(),
	}
}
