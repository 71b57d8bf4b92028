package quiz

import (
	"fmt"

	"github.com/brightclass/quizcore/internal/grading"
)

// GradeSession evaluates every question of the quiz against the session's
// frozen answers and returns the aggregate Result. It either evaluates all
// questions and returns a complete Result, or fails atomically before any
// evaluation: the input checks plus the strategy pre-scan run first, so a
// partial Result is never observable.
func GradeSession(g grading.Grader, qz Quiz, s Session) (Result, error) {
	if s.Status != SessionSubmitted {
		return Result{}, fmt.Errorf("%w: session %s is %s", ErrInvalidInput, s.ID, s.Status)
	}
	if s.QuizID != qz.ID {
		return Result{}, fmt.Errorf("%w: session %s belongs to quiz %s, not %s",
			ErrInvalidInput, s.ID, s.QuizID, qz.ID)
	}
	for _, qq := range qz.Questions {
		if !g.Supports(string(qq.Type)) {
			return Result{}, fmt.Errorf("%w: question %s has ungradable type %q",
				ErrInvalidInput, qq.ID, qq.Type)
		}
	}

	res := Result{
		SessionID: s.ID,
		QuizID:    qz.ID,
		Correct:   make(map[string]bool, len(qz.Questions)),
	}
	for _, qq := range qz.Questions {
		answer, answered := s.Answers[qq.ID]
		out, err := g.Grade(grading.Q{
			Type:          string(qq.Type),
			Points:        qq.Points,
			CorrectAnswer: qq.CorrectAnswer,
		}, answer, answered)
		if err != nil {
			// Unreachable after the pre-scan; keep the atomic contract anyway.
			return Result{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		res.Correct[qq.ID] = out.Correct
		res.EarnedPoints += out.Points
		res.TotalPoints += qq.Points
	}
	if res.TotalPoints > 0 {
		res.ScorePercentage = float64(res.EarnedPoints) / float64(res.TotalPoints) * 100
	}
	return res, nil
}
