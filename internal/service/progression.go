package service

import (
	"skillup_backend/internal/model"
	"skillup_backend/internal/util"
	"time"
)

// 进度计算与课时解锁规则。全部为纯函数：输入课程与报名，输出新的报名，不修改入参。

// TotalSubLessonCount 课程全部小节数
func TotalSubLessonCount(course *model.Course) int {
	total := 0
	for _, lesson := range course.Lessons {
		total += len(lesson.SubLessons)
	}
	return total
}

// ComputeProgress 四舍五入的完成百分比，限制在 [0,100]；
// 未全部完成时最多为 99，避免舍入提前判定结业。
func ComputeProgress(completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed >= total {
		return 100
	}
	progress := (200*completed + total) / (2 * total)
	if progress > 99 {
		progress = 99
	}
	return progress
}

func validIndex(course *model.Course, lessonIndex, subLessonIndex int) bool {
	if lessonIndex < 0 || lessonIndex >= len(course.Lessons) {
		return false
	}
	return subLessonIndex >= 0 && subLessonIndex < len(course.Lessons[lessonIndex].SubLessons)
}

// IsLessonFullyCompleted 课时的每个小节都已完成
func IsLessonFullyCompleted(course *model.Course, enrollment *model.Enrollment, lessonIndex int) bool {
	if lessonIndex < 0 || lessonIndex >= len(course.Lessons) {
		return false
	}
	for j := range course.Lessons[lessonIndex].SubLessons {
		if !enrollment.HasCompleted(lessonIndex, j) {
			return false
		}
	}
	return true
}

// IsLessonUnlocked 第 0 课时始终解锁；第 i 课时在第 i-1 课时全部完成后解锁
func IsLessonUnlocked(course *model.Course, enrollment *model.Enrollment, lessonIndex int) bool {
	if lessonIndex < 0 || lessonIndex >= len(course.Lessons) {
		return false
	}
	if lessonIndex == 0 {
		return true
	}
	return IsLessonFullyCompleted(course, enrollment, lessonIndex-1)
}

// CompleteSubLesson 标记小节完成并重算进度。
// 重复完成不报错，返回 changed=false 和未修改的副本；调用方负责持久化。
// score 为可选的小节测验分数。
func CompleteSubLesson(course *model.Course, enrollment *model.Enrollment, lessonIndex, subLessonIndex int, score *int, now time.Time) (*model.Enrollment, bool, error) {
	if !validIndex(course, lessonIndex, subLessonIndex) {
		return nil, false, util.ErrInvalidIndex
	}
	if score != nil && (*score < 0 || *score > 100) {
		return nil, false, util.ErrInvalidScore
	}

	next := enrollment.Clone()
	if next.HasCompleted(lessonIndex, subLessonIndex) {
		return next, false, nil
	}

	next.CompletedSubLessons = append(next.CompletedSubLessons, model.CompletedSubLesson{
		EnrollmentID:   next.ID,
		LessonIndex:    lessonIndex,
		SubLessonIndex: subLessonIndex,
		Score:          score,
		CompletedAt:    now,
	})

	next.Progress = ComputeProgress(len(next.CompletedSubLessons), TotalSubLessonCount(course))
	if next.Progress >= 100 && !next.IsCompleted {
		next.IsCompleted = true
		completedAt := now
		next.CompletedAt = &completedAt
	}
	accessed := now
	next.LastAccessedAt = &accessed

	return next, true, nil
}

// LessonStates 各课时的解锁/完成情况
func LessonStates(course *model.Course, enrollment *model.Enrollment) []model.LessonState {
	states := make([]model.LessonState, len(course.Lessons))
	for i, lesson := range course.Lessons {
		done := 0
		for j := range lesson.SubLessons {
			if enrollment.HasCompleted(i, j) {
				done++
			}
		}
		states[i] = model.LessonState{
			Index:               i,
			Title:               lesson.Title,
			Unlocked:            IsLessonUnlocked(course, enrollment, i),
			Completed:           len(lesson.SubLessons) > 0 && done == len(lesson.SubLessons),
			CompletedSubLessons: done,
			TotalSubLessons:     len(lesson.SubLessons),
		}
	}
	return states
}

// ScoreSummary 已记录测验分数的平均分及等级；没有任何分数时按满分计
func ScoreSummary(enrollment *model.Enrollment) (int, string) {
	sum, n := 0, 0
	for _, c := range enrollment.CompletedSubLessons {
		if c.Score != nil {
			sum += *c.Score
			n++
		}
	}
	score := 100
	if n > 0 {
		score = (2*sum + n) / (2 * n)
	}
	return score, GradeFor(score)
}

// GradeFor 分数对应的等级
func GradeFor(score int) string {
	for _, t := range util.GradeThresholds {
		if score >= t.Min {
			return t.Grade
		}
	}
	return util.GradeThresholds[len(util.GradeThresholds)-1].Grade
}
