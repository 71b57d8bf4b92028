package quiz

// QuestionType selects the comparison rule applied at grading time.
type QuestionType string

const (
	TypeMultipleChoice  QuestionType = "multiple_choice"
	TypeTrueFalse       QuestionType = "true_false"
	TypeVeryShortAnswer QuestionType = "very_short_answer"
	TypeShortAnswer     QuestionType = "short_answer"
	TypeLongAnswer      QuestionType = "long_answer"
)

// DefaultPoints is assigned when authoring does not set a weight.
const DefaultPoints = 10

type Question struct {
	ID   string       `json:"id"`
	Text string       `json:"text"`
	Type QuestionType `json:"type"`
	// Options is set only for multiple_choice. Index i corresponds to
	// label i (A, B, C, ...).
	Options []string `json:"options,omitempty"`
	// CorrectAnswer is the label letter for multiple_choice (e.g. "A"),
	// "True"/"False" for true_false, and the expected text otherwise.
	CorrectAnswer string `json:"correct_answer,omitempty"`
	Points        int    `json:"points"`
}

type QuizStatus string

const (
	StatusDraft     QuizStatus = "draft"
	StatusPublished QuizStatus = "published"
)

type Quiz struct {
	ID          string     `json:"id"`
	CourseID    string     `json:"course_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      QuizStatus `json:"status"`
	Questions   []Question `json:"questions"`
	CreatedAt   int64      `json:"created_at,omitempty"`
	PublishedAt int64      `json:"published_at,omitempty"`
}

// QuizSummary is the listing row for the delivery and authoring surfaces.
type QuizSummary struct {
	ID            string     `json:"id"`
	CourseID      string     `json:"course_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Status        QuizStatus `json:"status"`
	QuestionCount int        `json:"question_count"`
	TotalPoints   int        `json:"total_points"`
	CreatedAt     int64      `json:"created_at,omitempty"`
}

type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionSubmitted  SessionStatus = "submitted"
)

// Session is one learner's attempt at one published quiz. Answers maps
// question ID to the learner's current answer; a missing entry means
// unanswered.
type Session struct {
	ID          string            `json:"id"`
	QuizID      string            `json:"quiz_id"`
	StudentID   string            `json:"student_id"`
	Status      SessionStatus     `json:"status"`
	Answers     map[string]string `json:"answers"`
	StartedAt   int64             `json:"started_at,omitempty"`
	SubmittedAt int64             `json:"submitted_at,omitempty"`
}

// Result is produced exactly once per submitted session and never mutated.
type Result struct {
	SessionID       string          `json:"session_id"`
	QuizID          string          `json:"quiz_id"`
	EarnedPoints    int             `json:"earned_points"`
	TotalPoints     int             `json:"total_points"`
	ScorePercentage float64         `json:"score_percentage"`
	Correct         map[string]bool `json:"correct"`
	GradedAt        int64           `json:"graded_at,omitempty"`
}

// TotalPoints sums the weight of every question, answered or not.
func (q Quiz) TotalPoints() int {
	sum := 0
	for _, qq := range q.Questions {
		sum += qq.Points
	}
	return sum
}

func (q Quiz) questionByID(id string) (Question, bool) {
	for _, qq := range q.Questions {
		if qq.ID == id {
			return qq, true
		}
	}
	return Question{}, false
}

// Summary derives the listing row for a quiz.
func (q Quiz) Summary() QuizSummary {
	return QuizSummary{
		ID:            q.ID,
		CourseID:      q.CourseID,
		Title:         q.Title,
		Description:   q.Description,
		Status:        q.Status,
		QuestionCount: len(q.Questions),
		TotalPoints:   q.TotalPoints(),
		CreatedAt:     q.CreatedAt,
	}
}
