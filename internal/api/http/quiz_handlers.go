package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/brightclass/quizcore/internal/quiz"
	"github.com/brightclass/quizcore/internal/rbac"
)

func CreateQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			CourseID    string          `json:"course_id"`
			Title       string          `json:"title"`
			Description string          `json:"description"`
			Questions   []quiz.Question `json:"questions"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.CourseID == "" || strings.TrimSpace(req.Title) == "" {
			http.Error(w, "course_id and title required", http.StatusBadRequest)
			return
		}
		q, err := store.CreateQuiz(r.Context(), quiz.Quiz{
			CourseID:    req.CourseID,
			Title:       req.Title,
			Description: req.Description,
			Questions:   req.Questions,
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, q)
	}
}

func AddQuestionHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quizID := chi.URLParam(r, "quizID")
		var qq quiz.Question
		if err := json.NewDecoder(r.Body).Decode(&qq); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		q, err := store.AddQuestion(r.Context(), quizID, qq)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

func RemoveQuestionHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quizID := chi.URLParam(r, "quizID")
		questionID := chi.URLParam(r, "questionID")
		q, err := store.RemoveQuestion(r.Context(), quizID, questionID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

func PublishQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quizID := chi.URLParam(r, "quizID")
		q, err := store.Publish(r.Context(), quizID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

func ListQuizzesHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListQuizzes(r.Context(), quiz.ListOpts{
			CourseID:   strings.TrimSpace(r.URL.Query().Get("course_id")),
			ViewerRole: rbac.RoleFromContext(r.Context()),
			Limit:      parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset:     parseIntDefault(r.URL.Query().Get("offset"), 0),
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// learnerQuestion is the delivery-side rendering of a question: correct
// answers are gone and multiple-choice options carry their letter labels, so
// the client submits the label while showing the text.
type learnerQuestion struct {
	ID      string            `json:"id"`
	Text    string            `json:"text"`
	Type    quiz.QuestionType `json:"type"`
	Options []quiz.OptionView `json:"options,omitempty"`
	Points  int               `json:"points"`
}

type learnerQuiz struct {
	ID          string            `json:"id"`
	CourseID    string            `json:"course_id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Questions   []learnerQuestion `json:"questions"`
	TotalPoints int               `json:"total_points"`
}

// GetQuizHandler serves the full quiz (answer keys included) to viewers with
// quiz:view-answers, and the learner rendering to everyone else.
func GetQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "quizID")
		role := rbac.RoleFromContext(r.Context())
		if rbac.Allows(role, "quiz:view-answers") {
			q, err := store.GetQuiz(r.Context(), id)
			if err != nil {
				writeErr(w, err)
				return
			}
			writeJSON(w, http.StatusOK, q)
			return
		}
		q, err := store.GetQuizForLearner(r.Context(), id)
		if err != nil {
			writeErr(w, err)
			return
		}
		out := learnerQuiz{
			ID:          q.ID,
			CourseID:    q.CourseID,
			Title:       q.Title,
			Description: q.Description,
			Questions:   make([]learnerQuestion, len(q.Questions)),
			TotalPoints: q.TotalPoints(),
		}
		for i, qq := range q.Questions {
			out.Questions[i] = learnerQuestion{
				ID:      qq.ID,
				Text:    qq.Text,
				Type:    qq.Type,
				Options: qq.LabeledOptions(),
				Points:  qq.Points,
			}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}
