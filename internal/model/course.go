package model

import (
	"time"

	"gorm.io/gorm"
)

// Course 课程定义，发布后只读
// swagger:model Course
type Course struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id" yaml:"id"`
	Title       string    `gorm:"size:200;not null" json:"title" yaml:"title"`
	Description string    `gorm:"type:text" json:"description" yaml:"description"`
	Category    string    `gorm:"size:100;index" json:"category" yaml:"category"`
	Image       string    `gorm:"size:500" json:"image" yaml:"image"`
	Lessons     []Lesson  `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"lessons" yaml:"lessons"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt" yaml:"-"`
}

// Lesson 按 Position 排序，Position 即 lessonIndex
type Lesson struct {
	ID         uint        `gorm:"primaryKey;autoIncrement" json:"-" yaml:"-"`
	CourseID   string      `gorm:"type:varchar(36);uniqueIndex:idx_course_lesson_position" json:"-" yaml:"-"`
	Position   int         `gorm:"uniqueIndex:idx_course_lesson_position" json:"index" yaml:"-"`
	Title      string      `gorm:"size:200;not null" json:"title" yaml:"title"`
	SubLessons []SubLesson `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE" json:"subLessons" yaml:"subLessons"`
}

// SubLesson 最小可完成单元；完成状态只记录在报名上，不在课程上
type SubLesson struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"-" yaml:"-"`
	LessonID    uint   `gorm:"uniqueIndex:idx_lesson_sub_position" json:"-" yaml:"-"`
	Position    int    `gorm:"uniqueIndex:idx_lesson_sub_position" json:"index" yaml:"-"`
	Title       string `gorm:"size:200;not null" json:"title" yaml:"title"`
	Description string `gorm:"type:text" json:"description" yaml:"description"`
	VideoURL    string `gorm:"size:500" json:"videoUrl" yaml:"videoUrl"`
	TextNotes   string `gorm:"type:text" json:"textNotes" yaml:"textNotes"`
	Image       string `gorm:"size:500" json:"image,omitempty" yaml:"image"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = GenerateUUID()
	}
	return
}

func (Course) TableName() string {
	return "courses"
}

func (Lesson) TableName() string {
	return "lessons"
}

func (SubLesson) TableName() string {
	return "sub_lessons"
}

// Normalize 按切片顺序重写 Position，导入课程时调用
func (c *Course) Normalize() {
	for i := range c.Lessons {
		c.Lessons[i].Position = i
		c.Lessons[i].CourseID = c.ID
		for j := range c.Lessons[i].SubLessons {
			c.Lessons[i].SubLessons[j].Position = j
		}
	}
}

// CourseSummary 课程列表项
type CourseSummary struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	Image           string `json:"image"`
	TotalLessons    int    `json:"totalLessons"`
	TotalSubLessons int    `json:"totalSubLessons"`
}
