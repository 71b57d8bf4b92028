package quiz

import "errors"

// Error kinds for the quiz lifecycle. All are local, recoverable conditions:
// callers match with errors.Is and surface them to the UI; none should crash
// the process. Operations wrap these with fmt.Errorf("%w: ...") to add
// detail without losing the kind.
var (
	// ErrInvalidState: operation not valid for the quiz's current lifecycle
	// state (e.g. mutating a published quiz).
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidQuestion: authoring-time data invariant violation.
	ErrInvalidQuestion = errors.New("invalid question")

	// ErrNotFound: referenced quiz, question, session, or result is absent.
	ErrNotFound = errors.New("not found")

	// ErrNotPublished: session start attempted against a draft quiz.
	ErrNotPublished = errors.New("quiz not published")

	// ErrUnknownQuestion: answer references a question not in the quiz.
	ErrUnknownQuestion = errors.New("unknown question")

	// ErrNotOwner: session mutation attempted by someone other than the
	// student who started it.
	ErrNotOwner = errors.New("not session owner")

	// ErrSessionClosed: answer mutation attempted after submission.
	ErrSessionClosed = errors.New("session closed")

	// ErrAlreadySubmitted: second submit on the same session.
	ErrAlreadySubmitted = errors.New("already submitted")

	// ErrEmptyQuiz: publish attempted with zero questions.
	ErrEmptyQuiz = errors.New("quiz has no questions")

	// ErrInvalidInput: grading called on a mismatched or non-submitted
	// session/quiz pair.
	ErrInvalidInput = errors.New("invalid input")
)
