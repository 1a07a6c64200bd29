package model

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment 学员在某门课程上的学习记录，(LearnerID, CourseID) 唯一
// swagger:model Enrollment
type Enrollment struct {
	ID             string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	LearnerID      string     `gorm:"type:varchar(36);not null;uniqueIndex:idx_enrollment_learner_course" json:"learnerId"`
	CourseID       string     `gorm:"type:varchar(36);not null;uniqueIndex:idx_enrollment_learner_course;index" json:"courseId"`
	EnrolledAt     time.Time  `gorm:"not null" json:"enrolledAt"`
	LastAccessedAt *time.Time `json:"lastAccessedAt,omitempty"`
	Progress       int        `gorm:"not null;default:0" json:"progress"`
	IsCompleted    bool       `gorm:"not null;default:false" json:"isCompleted"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	CertificateID  *string    `gorm:"type:varchar(36)" json:"certificateId,omitempty"`
	// 乐观锁版本号，每次保存递增
	Version             int                  `gorm:"not null;default:0" json:"-"`
	CompletedSubLessons []CompletedSubLesson `gorm:"foreignKey:EnrollmentID;constraint:OnDelete:CASCADE" json:"completedSubLessons"`
	UpdatedAt           time.Time            `json:"updatedAt"`
}

// CompletedSubLesson 已完成的 (lessonIndex, subLessonIndex)，同一报名内唯一
type CompletedSubLesson struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	EnrollmentID   string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_enrollment_sub_lesson" json:"-"`
	LessonIndex    int       `gorm:"not null;uniqueIndex:idx_enrollment_sub_lesson" json:"lessonIndex"`
	SubLessonIndex int       `gorm:"not null;uniqueIndex:idx_enrollment_sub_lesson" json:"subLessonIndex"`
	Score          *int      `json:"score,omitempty"`
	CompletedAt    time.Time `gorm:"not null" json:"completedAt"`
}

func (e *Enrollment) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID = GenerateUUID()
	}
	return
}

func (Enrollment) TableName() string {
	return "enrollments"
}

func (CompletedSubLesson) TableName() string {
	return "enrollment_sub_lessons"
}

// HasCompleted 判断某个小节是否已完成
func (e *Enrollment) HasCompleted(lessonIndex, subLessonIndex int) bool {
	for _, c := range e.CompletedSubLessons {
		if c.LessonIndex == lessonIndex && c.SubLessonIndex == subLessonIndex {
			return true
		}
	}
	return false
}

// Clone 深拷贝，进度计算返回新对象而不修改入参
func (e *Enrollment) Clone() *Enrollment {
	out := *e
	out.CompletedSubLessons = make([]CompletedSubLesson, len(e.CompletedSubLessons))
	copy(out.CompletedSubLessons, e.CompletedSubLessons)
	if e.LastAccessedAt != nil {
		t := *e.LastAccessedAt
		out.LastAccessedAt = &t
	}
	if e.CompletedAt != nil {
		t := *e.CompletedAt
		out.CompletedAt = &t
	}
	if e.CertificateID != nil {
		id := *e.CertificateID
		out.CertificateID = &id
	}
	return &out
}

// LessonState 课时解锁与完成情况，供展示层使用
type LessonState struct {
	Index               int    `json:"index"`
	Title               string `json:"title"`
	Unlocked            bool   `json:"unlocked"`
	Completed           bool   `json:"completed"`
	CompletedSubLessons int    `json:"completedSubLessons"`
	TotalSubLessons     int    `json:"totalSubLessons"`
}

// EnrollmentProgress 报名详情 + 各课时状态
type EnrollmentProgress struct {
	Enrollment   *Enrollment   `json:"enrollment"`
	Lessons      []LessonState `json:"lessons"`
	OverallScore int           `json:"overallScore"`
	Grade        string        `json:"grade"`
}
