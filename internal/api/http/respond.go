package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/brightclass/quizcore/internal/quiz"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps the lifecycle error kinds onto HTTP statuses. Everything in
// the taxonomy is a recoverable client condition; anything unrecognized is a
// 500.
func writeErr(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), statusFor(err))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, quiz.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, quiz.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, quiz.ErrInvalidState),
		errors.Is(err, quiz.ErrNotPublished),
		errors.Is(err, quiz.ErrSessionClosed),
		errors.Is(err, quiz.ErrAlreadySubmitted),
		errors.Is(err, quiz.ErrEmptyQuiz):
		return http.StatusConflict
	case errors.Is(err, quiz.ErrInvalidQuestion),
		errors.Is(err, quiz.ErrUnknownQuestion),
		errors.Is(err, quiz.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
