package quiz

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Authoring operates on a Quiz value; stores call these under their own
// per-quiz serialization and persist the returned state.

// ValidateQuestion checks the type-specific invariants a question must hold
// before it can join a quiz. The question may still have an empty ID; the
// store assigns one on insert.
func ValidateQuestion(q Question) error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("%w: empty prompt", ErrInvalidQuestion)
	}
	if q.Points < 0 {
		return fmt.Errorf("%w: negative points", ErrInvalidQuestion)
	}
	switch q.Type {
	case TypeMultipleChoice:
		if len(q.Options) == 0 {
			return fmt.Errorf("%w: multiple_choice requires options", ErrInvalidQuestion)
		}
		if len(q.Options) > maxOptions {
			return fmt.Errorf("%w: too many options (max %d)", ErrInvalidQuestion, maxOptions)
		}
		i, ok := IndexForLabel(q.CorrectAnswer)
		if !ok || i >= len(q.Options) {
			return fmt.Errorf("%w: correct_answer %q is not a valid label for %d options",
				ErrInvalidQuestion, q.CorrectAnswer, len(q.Options))
		}
	case TypeTrueFalse:
		if len(q.Options) > 0 {
			return fmt.Errorf("%w: options only valid for multiple_choice", ErrInvalidQuestion)
		}
		if !strings.EqualFold(q.CorrectAnswer, "true") && !strings.EqualFold(q.CorrectAnswer, "false") {
			return fmt.Errorf("%w: true_false correct_answer must be True or False", ErrInvalidQuestion)
		}
	case TypeVeryShortAnswer, TypeShortAnswer, TypeLongAnswer:
		if len(q.Options) > 0 {
			return fmt.Errorf("%w: options only valid for multiple_choice", ErrInvalidQuestion)
		}
		if strings.TrimSpace(q.CorrectAnswer) == "" {
			return fmt.Errorf("%w: empty correct_answer", ErrInvalidQuestion)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidQuestion, q.Type)
	}
	return nil
}

// AddQuestion appends a question to a draft. Assigns an ID and the default
// points weight when unset.
func (q *Quiz) AddQuestion(qq Question) error {
	if q.Status != StatusDraft {
		return fmt.Errorf("%w: quiz %s is %s", ErrInvalidState, q.ID, q.Status)
	}
	if err := ValidateQuestion(qq); err != nil {
		return err
	}
	if qq.ID == "" {
		qq.ID = uuid.NewString()
	} else if _, dup := q.questionByID(qq.ID); dup {
		return fmt.Errorf("%w: duplicate question id %s", ErrInvalidQuestion, qq.ID)
	}
	if qq.Points == 0 {
		qq.Points = DefaultPoints
	}
	q.Questions = append(q.Questions, qq)
	return nil
}

// RemoveQuestion removes a question from a draft by ID.
func (q *Quiz) RemoveQuestion(questionID string) error {
	if q.Status != StatusDraft {
		return fmt.Errorf("%w: quiz %s is %s", ErrInvalidState, q.ID, q.Status)
	}
	for i, qq := range q.Questions {
		if qq.ID == questionID {
			q.Questions = append(q.Questions[:i], q.Questions[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: question %s", ErrNotFound, questionID)
}

// Publish transitions draft -> published. One-way; publishing twice fails.
func (q *Quiz) Publish(now int64) error {
	if q.Status != StatusDraft {
		return fmt.Errorf("%w: quiz %s is %s", ErrInvalidState, q.ID, q.Status)
	}
	if len(q.Questions) == 0 {
		return fmt.Errorf("%w: quiz %s", ErrEmptyQuiz, q.ID)
	}
	q.Status = StatusPublished
	q.PublishedAt = now
	return nil
}
