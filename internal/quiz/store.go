package quiz

import "context"

// ListOpts filters the quiz listing. Students only ever see published
// quizzes; teachers and admins also see drafts.
type ListOpts struct {
	CourseID   string
	ViewerRole string // "student" | "teacher" | "admin"
	Limit      int
	Offset     int
}

// Store persists quizzes, sessions and results, and owns the serialization
// the lifecycle requires: authoring mutations are serialized per quiz, and
// answer writes per session, so concurrent calls for the same entity never
// race (two tabs, double-click submit).
type Store interface {
	// Authoring.
	CreateQuiz(ctx context.Context, q Quiz) (Quiz, error)
	AddQuestion(ctx context.Context, quizID string, q Question) (Quiz, error)
	RemoveQuestion(ctx context.Context, quizID, questionID string) (Quiz, error)
	Publish(ctx context.Context, quizID string) (Quiz, error)

	// Retrieval. GetQuiz returns the full quiz including correct answers;
	// GetQuizForLearner requires the quiz to be published and strips them.
	GetQuiz(ctx context.Context, id string) (Quiz, error)
	GetQuizForLearner(ctx context.Context, id string) (Quiz, error)
	ListQuizzes(ctx context.Context, opts ListOpts) ([]QuizSummary, error)

	// Delivery. Session mutations carry the acting student's ID: the store
	// loads the session once, verifies ownership, and applies the change,
	// returning ErrNotOwner on a mismatch.
	StartSession(ctx context.Context, quizID, studentID string) (Session, error)
	SetAnswer(ctx context.Context, sessionID, studentID, questionID, value string) (Session, error)
	Submit(ctx context.Context, sessionID, studentID string) (Result, error)
	GetSession(ctx context.Context, id string) (Session, error)
	GetResult(ctx context.Context, sessionID string) (Result, error)
}

// stripAnswers clears grading material from a quiz before it is served to a
// learner. Option text stays; only the keys go.
func stripAnswers(q Quiz) Quiz {
	qs := make([]Question, len(q.Questions))
	copy(qs, q.Questions)
	for i := range qs {
		qs[i].CorrectAnswer = ""
	}
	q.Questions = qs
	return q
}
