package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	authmw "github.com/brightclass/quizcore/internal/auth/middleware"
	"github.com/brightclass/quizcore/internal/quiz"
	"github.com/brightclass/quizcore/internal/rbac"
)

func StartSessionHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			QuizID string `json:"quiz_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.QuizID == "" {
			http.Error(w, "quiz_id required", http.StatusBadRequest)
			return
		}
		// The session is always owned by the authenticated learner; there is
		// no starting a session on someone else's behalf.
		studentID := authmw.SubjectFromContext(r.Context())
		if studentID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		s, err := store.StartSession(r.Context(), req.QuizID, studentID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, s)
	}
}

func SetAnswerHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")
		questionID := chi.URLParam(r, "questionID")
		var req struct {
			Value string `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		sub := authmw.SubjectFromContext(r.Context())
		if sub == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		// Mutations are owner-only, regardless of role. The store checks
		// ownership on the session it loads anyway, so there is no separate
		// lookup here.
		s, err := store.SetAnswer(r.Context(), sessionID, sub, questionID, req.Value)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

func SubmitSessionHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")
		sub := authmw.SubjectFromContext(r.Context())
		if sub == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		res, err := store.Submit(r.Context(), sessionID, sub)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func GetSessionHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")
		s, err := store.GetSession(r.Context(), sessionID)
		if err != nil {
			writeErr(w, err)
			return
		}
		if !canViewSession(r, s.StudentID) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

func GetResultHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")
		s, err := store.GetSession(r.Context(), sessionID)
		if err != nil {
			writeErr(w, err)
			return
		}
		if !canViewSession(r, s.StudentID) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		res, err := store.GetResult(r.Context(), sessionID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// canViewSession: the owner, or anyone holding session:view-all.
func canViewSession(r *http.Request, ownerID string) bool {
	if authmw.SubjectFromContext(r.Context()) == ownerID {
		return true
	}
	return rbac.Allows(rbac.RoleFromContext(r.Context()), "session:view-all")
}
