package services

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/academy-service/internal/validator"
)

// Sentinel errors. Messages are the ones shown to clients.
var (
	ErrUnauthorized = errors.New("Unauthorized")
	ErrForbidden    = errors.New("Forbidden")
	ErrNotFound     = errors.New("Not found")

	// Progress
	ErrLessonNotFound       = errors.New("Lesson not found")
	ErrProgressUpdateFailed = errors.New("Failed to update progress")

	// Quiz
	ErrQuizNotFound         = errors.New("Quiz not found")
	ErrQuizWithoutQuestions = errors.New("Quiz without questions")
	ErrAllQuestionsRequired = errors.New("All questions must be answered")
	ErrInvalidAnswerPayload = errors.New("Invalid answer payload")
	ErrQuizSubmitFailed     = errors.New("Failed to submit quiz")

	// Courses and certificates
	ErrCourseNotFound     = errors.New("Course not found")
	ErrCourseNotCompleted = errors.New("Course not completed")

	// Notes and community
	ErrNoteNotFound    = errors.New("Note not found")
	ErrPostNotFound    = errors.New("Post not found")
	ErrContentRequired = errors.New("Content is required")

	// Admin
	ErrMissingFields = errors.New("Missing required fields")
	ErrInvalidModule = errors.New("Invalid module")
	ErrUserNotFound  = errors.New("User not found")

	// Auth
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrInvalidToken       = errors.New("Invalid token")
)

// ValidationErrors is re-exported so handlers only depend on services
type ValidationErrors = validator.ValidationErrors

// PermissionError describes a denied action on a resource
type PermissionError struct {
	UserID     string
	ResourceID string
	Resource   string
	Action     string
	Reason     string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s %s: %s",
		e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

// Unwrap lets errors.Is(err, ErrForbidden) match permission errors
func (e *PermissionError) Unwrap() error {
	return ErrForbidden
}

func NewPermissionError(userID, resourceID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// BusinessRuleError is a request that is well formed but breaks a domain rule
type BusinessRuleError struct {
	Message string
	Rule    string
	Context map[string]interface{}
	Err     error
}

func (e *BusinessRuleError) Error() string {
	return e.Message
}

func (e *BusinessRuleError) Unwrap() error {
	return e.Err
}

func NewBusinessRuleError(err error, rule string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Message: err.Error(),
		Rule:    rule,
		Context: context,
		Err:     err,
	}
}

func isForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}
