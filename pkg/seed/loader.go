// Package seed 从 YAML 文件加载课程定义
package seed

import (
	"fmt"
	"os"
	"path/filepath"
	"skillup_backend/internal/model"
	"skillup_backend/pkg/logger"
	"sort"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// LoadCourses 读取目录下全部 *.yaml / *.yml，每个文件一门课程，按文件名排序
func LoadCourses(dir string) ([]model.Course, error) {
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	courses := make([]model.Course, 0, len(files))
	seen := make(map[string]string, len(files))
	for _, file := range files {
		course, err := LoadCourseFile(file)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[course.ID]; ok {
			return nil, fmt.Errorf("%s: course id %q already defined in %s", file, course.ID, prev)
		}
		seen[course.ID] = file
		courses = append(courses, *course)
	}

	logger.Log.Info("course definitions loaded", zap.String("dir", dir), zap.Int("count", len(courses)))
	return courses, nil
}

// LoadCourseFile 解析单个课程文件
func LoadCourseFile(path string) (*model.Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var course model.Course
	if err := yaml.Unmarshal(data, &course); err != nil {
		return nil, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
	}

	if course.ID == "" {
		return nil, fmt.Errorf("%s: course id is required", path)
	}
	if course.Title == "" {
		return nil, fmt.Errorf("%s: course title is required", path)
	}

	subLessons := 0
	for i, lesson := range course.Lessons {
		if lesson.Title == "" {
			return nil, fmt.Errorf("%s: lesson %d title is required", path, i)
		}
		for j, sub := range lesson.SubLessons {
			if sub.Title == "" {
				return nil, fmt.Errorf("%s: sub-lesson %d.%d title is required", path, i, j)
			}
		}
		subLessons += len(lesson.SubLessons)
	}
	if subLessons == 0 {
		// 没有小节的课程永远无法结业
		logger.Log.Warn("course has no sub-lessons", zap.String("file", path), zap.String("courseId", course.ID))
	}

	course.Normalize()
	return &course, nil
}
