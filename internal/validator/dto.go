package validator

// ===== AUTH =====

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

// ===== LEARNING =====

type ToggleCompletionRequest struct {
	// View path the client is on; invalidated alongside the canonical lesson path
	Path string `json:"path" validate:"omitempty,max=500"`
}

type AnswerInput struct {
	QuestionID       string `json:"question_id" validate:"max=64"`
	SelectedOptionID string `json:"selected_option_id" validate:"max=64"`
}

// SubmitAttemptRequest caps answers at 200, which also bounds the size of a
// quiz that can be submitted.
type SubmitAttemptRequest struct {
	Answers []AnswerInput `json:"answers" validate:"max=200,dive"`
}

type CreateNoteRequest struct {
	Content   string `json:"content" validate:"notblank,max=5000"`
	Timestamp *int   `json:"timestamp" validate:"omitempty,min=0"`
}

// ===== COMMUNITY =====

type CreatePostRequest struct {
	Content string `json:"content" validate:"max=5000"`
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"max=2000"`
}

// ===== ADMIN =====

type CreateLessonRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	YoutubeID   string  `json:"youtube_id" validate:"required,youtube_id"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	ModuleID    string  `json:"module_id" validate:"required,max=36"`
	DurationSec *int    `json:"duration_sec" validate:"omitempty,min=0"`
}

type EnrollRequest struct {
	UserID   string `json:"user_id" validate:"required,max=36"`
	CourseID string `json:"course_id" validate:"required,max=36"`
}
