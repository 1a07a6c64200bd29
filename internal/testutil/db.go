// Package testutil 测试用数据库与课程夹具
package testutil

import (
	"fmt"
	"skillup_backend/internal/model"
	"skillup_backend/pkg/database"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Now 测试固定时间
var Now = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// OpenDB 打开独立的内存 sqlite 并完成迁移
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// NewCourse 构造课程，shape[i] 为第 i 个课时的小节数
func NewCourse(id string, shape ...int) *model.Course {
	course := &model.Course{
		ID:          id,
		Title:       "Course " + id,
		Description: "Fixture course",
		Category:    "Programming",
		Image:       "https://cdn.example.com/" + id + ".png",
	}
	for i, n := range shape {
		lesson := model.Lesson{Title: fmt.Sprintf("Lesson %d", i)}
		for j := 0; j < n; j++ {
			lesson.SubLessons = append(lesson.SubLessons, model.SubLesson{
				Title:     fmt.Sprintf("Lesson %d.%d", i, j),
				VideoURL:  fmt.Sprintf("https://videos.example.com/%s/%d/%d.mp4", id, i, j),
				TextNotes: "notes",
			})
		}
		course.Lessons = append(course.Lessons, lesson)
	}
	course.Normalize()
	return course
}

// SeedCourse 写入课程
func SeedCourse(t testing.TB, db *gorm.DB, course *model.Course) *model.Course {
	t.Helper()
	if err := db.Create(course).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}
	return course
}

// SeedLearner 写入学员
func SeedLearner(t testing.TB, db *gorm.DB, subject, fullname string) *model.Learner {
	t.Helper()
	learner := &model.Learner{
		IdentitySubject: subject,
		Fullname:        fullname,
		Username:        subject,
		Email:           subject + "@example.com",
		ProfileImage:    "https://cdn.example.com/avatars/" + subject + ".png",
	}
	if err := db.Create(learner).Error; err != nil {
		t.Fatalf("seed learner: %v", err)
	}
	return learner
}
