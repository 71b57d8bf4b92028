// Package grading holds the per-type answer comparison rules. It sees only a
// minimal view of a question so the store and domain packages can depend on
// it without a cycle.
package grading

import (
	"fmt"
	"strings"
)

// Q is the minimal view of a question needed for grading.
type Q struct {
	Type          string
	Points        int
	CorrectAnswer string
}

// Outcome is the judgment for a single question response.
type Outcome struct {
	Correct bool
	Points  int // awarded points: full weight or zero, no partial credit
}

// Strategy compares one submitted answer against the correct answer.
// answered is false when the learner never set a value for the question;
// an unanswered question is always judged incorrect, never an error.
type Strategy interface {
	Grade(q Q, answer string, answered bool) Outcome
}

// Grader routes by question type to the correct Strategy.
type Grader interface {
	Grade(q Q, answer string, answered bool) (Outcome, error)
	Supports(qtype string) bool
}

type defaultGrader struct {
	strategies map[string]Strategy
}

// NewGrader installs the built-in strategies:
//
//	multiple_choice    exact, case-sensitive label match ("a" != "A")
//	true_false         case-insensitive match
//	very_short_answer  case-insensitive, whitespace-trimmed equality
//	short_answer       "
//	long_answer        "
func NewGrader() Grader {
	free := freeTextStrategy{}
	return &defaultGrader{
		strategies: map[string]Strategy{
			"multiple_choice":   labelStrategy{},
			"true_false":        foldStrategy{},
			"very_short_answer": free,
			"short_answer":      free,
			"long_answer":       free,
		},
	}
}

func (g *defaultGrader) Supports(qtype string) bool {
	_, ok := g.strategies[qtype]
	return ok
}

func (g *defaultGrader) Grade(q Q, answer string, answered bool) (Outcome, error) {
	s, ok := g.strategies[q.Type]
	if !ok {
		return Outcome{}, fmt.Errorf("no strategy for question type %q", q.Type)
	}
	return s.Grade(q, answer, answered), nil
}

// labelStrategy grades multiple_choice: the submitted value is the label
// letter, compared byte-for-byte against the stored correct label.
type labelStrategy struct{}

func (labelStrategy) Grade(q Q, answer string, answered bool) Outcome {
	if answered && answer == q.CorrectAnswer {
		return Outcome{Correct: true, Points: q.Points}
	}
	return Outcome{}
}

// foldStrategy grades true_false: "true", "True" and "TRUE" are equal.
type foldStrategy struct{}

func (foldStrategy) Grade(q Q, answer string, answered bool) Outcome {
	if answered && strings.EqualFold(answer, q.CorrectAnswer) {
		return Outcome{Correct: true, Points: q.Points}
	}
	return Outcome{}
}

// freeTextStrategy grades the free-text types: case-insensitive equality
// after trimming surrounding whitespace. Interior whitespace and punctuation
// stay significant; no fuzzy or semantic matching.
type freeTextStrategy struct{}

func (freeTextStrategy) Grade(q Q, answer string, answered bool) Outcome {
	if answered && strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(q.CorrectAnswer)) {
		return Outcome{Correct: true, Points: q.Points}
	}
	return Outcome{}
}
