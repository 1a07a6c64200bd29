package util

import "errors"

var (
	ErrCourseNotFound      = errors.New("course not found")
	ErrEnrollmentNotFound  = errors.New("enrollment not found")
	ErrCertificateNotFound = errors.New("certificate not found")
	ErrLearnerNotFound     = errors.New("learner not found")
	ErrInvalidIndex        = errors.New("lesson or sub-lesson index out of range")
	ErrLessonLocked        = errors.New("lesson is locked")
	ErrNotCompleted        = errors.New("course not completed yet")
	ErrInvalidPayload      = errors.New("not a certificate payload")
	ErrConcurrencyConflict = errors.New("enrollment was modified concurrently")
	ErrCodeSpaceExhausted  = errors.New("could not allocate a unique verification code")
	ErrInvalidScore        = errors.New("score must be between 0 and 100")
	ErrInvalidIdentity     = errors.New("invalid identity token")
)

// IsNotFound 判断是否为查找未命中类错误
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCourseNotFound) ||
		errors.Is(err, ErrEnrollmentNotFound) ||
		errors.Is(err, ErrCertificateNotFound) ||
		errors.Is(err, ErrLearnerNotFound)
}
