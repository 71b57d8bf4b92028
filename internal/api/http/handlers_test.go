package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	api "github.com/brightclass/quizcore/internal/api/http"
	authmw "github.com/brightclass/quizcore/internal/auth/middleware"
	"github.com/brightclass/quizcore/internal/grading"
	"github.com/brightclass/quizcore/internal/quiz"
	"github.com/brightclass/quizcore/internal/rbac"
)

// asUser injects subject and role the way JWTMiddleware would, without
// minting tokens for every request.
func asUser(sub, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := authmw.WithSubject(r.Context(), sub)
			ctx = rbac.WithRole(ctx, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newRouter(store quiz.Store, sub, role string) http.Handler {
	r := chi.NewRouter()
	r.Use(asUser(sub, role))
	r.With(rbac.Require("quiz:create")).Post("/quizzes", api.CreateQuizHandler(store))
	r.With(rbac.Require("quiz:edit")).Post("/quizzes/{quizID}/questions", api.AddQuestionHandler(store))
	r.With(rbac.Require("quiz:edit")).Delete("/quizzes/{quizID}/questions/{questionID}", api.RemoveQuestionHandler(store))
	r.With(rbac.Require("quiz:publish")).Post("/quizzes/{quizID}/publish", api.PublishQuizHandler(store))
	r.With(rbac.Require("quiz:view")).Get("/quizzes", api.ListQuizzesHandler(store))
	r.With(rbac.Require("quiz:view")).Get("/quizzes/{quizID}", api.GetQuizHandler(store))
	r.With(rbac.Require("session:create")).Post("/sessions", api.StartSessionHandler(store))
	r.With(rbac.Require("session:save")).Put("/sessions/{sessionID}/answers/{questionID}", api.SetAnswerHandler(store))
	r.With(rbac.Require("session:submit")).Post("/sessions/{sessionID}/submit", api.SubmitSessionHandler(store))
	r.With(rbac.RequireAny("session:view-own", "session:view-all")).Get("/sessions/{sessionID}", api.GetSessionHandler(store))
	r.With(rbac.RequireAny("result:view-own", "result:view-all")).Get("/sessions/{sessionID}/result", api.GetResultHandler(store))
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body == "" {
		rd = bytes.NewReader(nil)
	} else {
		rd = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

const quizBody = `{
  "course_id": "course1",
  "title": "Geography",
  "questions": [
    {"id":"q1","text":"capital of France?","type":"multiple_choice",
     "options":["Paris","Lyon","Nice"],"correct_answer":"A","points":10},
    {"id":"q2","text":"the Seine is a river","type":"true_false",
     "correct_answer":"True","points":5}
  ]
}`

func TestQuizEndToEnd(t *testing.T) {
	store := quiz.NewInMemoryStore(grading.NewGrader())
	teacher := newRouter(store, "t1", "teacher")
	student := newRouter(store, "s1", "student")

	// Teacher authors and publishes.
	w := do(t, teacher, "POST", "/quizzes", quizBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	var created quiz.Quiz
	decode(t, w, &created)

	w = do(t, teacher, "POST", "/quizzes/"+created.ID+"/publish", "")
	if w.Code != http.StatusOK {
		t.Fatalf("publish: %d %s", w.Code, w.Body.String())
	}

	// Student view has labeled options and no answer keys.
	w = do(t, student, "GET", "/quizzes/"+created.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get quiz: %d %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "correct_answer") {
		t.Fatalf("answer key leaked: %s", w.Body.String())
	}
	var view struct {
		Questions []struct {
			Options []quiz.OptionView `json:"options"`
		} `json:"questions"`
		TotalPoints int `json:"total_points"`
	}
	decode(t, w, &view)
	if view.TotalPoints != 15 {
		t.Fatalf("total_points = %d", view.TotalPoints)
	}
	if len(view.Questions[0].Options) != 3 || view.Questions[0].Options[0].Label != "A" {
		t.Fatalf("options: %+v", view.Questions[0].Options)
	}

	// Student takes the quiz.
	w = do(t, student, "POST", "/sessions", `{"quiz_id":"`+created.ID+`"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("start session: %d %s", w.Code, w.Body.String())
	}
	var sess quiz.Session
	decode(t, w, &sess)
	if sess.StudentID != "s1" {
		t.Fatalf("session owner = %q", sess.StudentID)
	}

	w = do(t, student, "PUT", "/sessions/"+sess.ID+"/answers/q1", `{"value":"A"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("set answer: %d %s", w.Code, w.Body.String())
	}
	w = do(t, student, "PUT", "/sessions/"+sess.ID+"/answers/q2", `{"value":"true"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("set answer: %d %s", w.Code, w.Body.String())
	}

	w = do(t, student, "POST", "/sessions/"+sess.ID+"/submit", "")
	if w.Code != http.StatusOK {
		t.Fatalf("submit: %d %s", w.Code, w.Body.String())
	}
	var res quiz.Result
	decode(t, w, &res)
	if res.EarnedPoints != 15 || res.ScorePercentage != 100 {
		t.Fatalf("result: %+v", res)
	}

	// Double submit conflicts; late answers conflict.
	if w = do(t, student, "POST", "/sessions/"+sess.ID+"/submit", ""); w.Code != http.StatusConflict {
		t.Fatalf("double submit: %d", w.Code)
	}
	if w = do(t, student, "PUT", "/sessions/"+sess.ID+"/answers/q1", `{"value":"B"}`); w.Code != http.StatusConflict {
		t.Fatalf("late answer: %d", w.Code)
	}

	// Result is retrievable by the owner and by the teacher.
	if w = do(t, student, "GET", "/sessions/"+sess.ID+"/result", ""); w.Code != http.StatusOK {
		t.Fatalf("own result: %d", w.Code)
	}
	if w = do(t, teacher, "GET", "/sessions/"+sess.ID+"/result", ""); w.Code != http.StatusOK {
		t.Fatalf("teacher result: %d", w.Code)
	}
}

func TestRBACAndOwnership(t *testing.T) {
	store := quiz.NewInMemoryStore(grading.NewGrader())
	teacher := newRouter(store, "t1", "teacher")
	student := newRouter(store, "s1", "student")
	intruder := newRouter(store, "s2", "student")

	// Students cannot author or publish.
	if w := do(t, student, "POST", "/quizzes", quizBody); w.Code != http.StatusForbidden {
		t.Fatalf("student create: %d", w.Code)
	}

	w := do(t, teacher, "POST", "/quizzes", quizBody)
	var created quiz.Quiz
	decode(t, w, &created)

	// Teachers cannot open sessions.
	if w := do(t, teacher, "POST", "/sessions", `{"quiz_id":"`+created.ID+`"}`); w.Code != http.StatusForbidden {
		t.Fatalf("teacher start session: %d", w.Code)
	}

	// Session start against a draft conflicts.
	if w := do(t, student, "POST", "/sessions", `{"quiz_id":"`+created.ID+`"}`); w.Code != http.StatusConflict {
		t.Fatalf("start on draft: %d", w.Code)
	}
	do(t, teacher, "POST", "/quizzes/"+created.ID+"/publish", "")

	w = do(t, student, "POST", "/sessions", `{"quiz_id":"`+created.ID+`"}`)
	var sess quiz.Session
	decode(t, w, &sess)

	// Another student can neither write nor read this session.
	if w := do(t, intruder, "PUT", "/sessions/"+sess.ID+"/answers/q1", `{"value":"A"}`); w.Code != http.StatusForbidden {
		t.Fatalf("intruder write: %d", w.Code)
	}
	if w := do(t, intruder, "POST", "/sessions/"+sess.ID+"/submit", ""); w.Code != http.StatusForbidden {
		t.Fatalf("intruder submit: %d", w.Code)
	}
	if w := do(t, intruder, "GET", "/sessions/"+sess.ID, ""); w.Code != http.StatusForbidden {
		t.Fatalf("intruder read: %d", w.Code)
	}
	// The teacher may read it.
	if w := do(t, teacher, "GET", "/sessions/"+sess.ID, ""); w.Code != http.StatusOK {
		t.Fatalf("teacher read: %d", w.Code)
	}

	// Unknown session is 404, not 403, on reads and writes alike.
	if w := do(t, student, "GET", "/sessions/ghost", ""); w.Code != http.StatusNotFound {
		t.Fatalf("missing session: %d", w.Code)
	}
	if w := do(t, student, "PUT", "/sessions/ghost/answers/q1", `{"value":"A"}`); w.Code != http.StatusNotFound {
		t.Fatalf("missing session write: %d", w.Code)
	}
}

func TestPublishEmptyQuizConflicts(t *testing.T) {
	store := quiz.NewInMemoryStore(grading.NewGrader())
	teacher := newRouter(store, "t1", "teacher")

	w := do(t, teacher, "POST", "/quizzes", `{"course_id":"course1","title":"Empty"}`)
	var created quiz.Quiz
	decode(t, w, &created)

	if w := do(t, teacher, "POST", "/quizzes/"+created.ID+"/publish", ""); w.Code != http.StatusConflict {
		t.Fatalf("publish empty: %d %s", w.Code, w.Body.String())
	}
}

func TestAddInvalidQuestionRejected(t *testing.T) {
	store := quiz.NewInMemoryStore(grading.NewGrader())
	teacher := newRouter(store, "t1", "teacher")

	w := do(t, teacher, "POST", "/quizzes", `{"course_id":"course1","title":"Draft"}`)
	var created quiz.Quiz
	decode(t, w, &created)

	// Label outside the option range.
	bad := `{"text":"pick","type":"multiple_choice","options":["a","b"],"correct_answer":"C"}`
	if w := do(t, teacher, "POST", "/quizzes/"+created.ID+"/questions", bad); w.Code != http.StatusBadRequest {
		t.Fatalf("bad question: %d %s", w.Code, w.Body.String())
	}
}
