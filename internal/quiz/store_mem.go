package quiz

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/brightclass/quizcore/internal/grading"
)

// memoryStore is the reference Store implementation: one lock over all maps,
// good enough for tests and single-process dev runs. Values that cross the
// store boundary are detached copies: a caller holding a returned Session or
// Quiz after the lock is released must never alias the maps and slices a
// later locked mutation writes to.
type memoryStore struct {
	mu       sync.RWMutex
	grader   grading.Grader
	quizzes  map[string]Quiz
	sessions map[string]Session
	results  map[string]Result // keyed by session ID
}

func NewInMemoryStore(g grading.Grader) Store {
	return &memoryStore{
		grader:   g,
		quizzes:  map[string]Quiz{},
		sessions: map[string]Session{},
		results:  map[string]Result{},
	}
}

func cloneQuiz(q Quiz) Quiz {
	qs := make([]Question, len(q.Questions))
	copy(qs, q.Questions)
	q.Questions = qs
	return q
}

func cloneSession(s Session) Session {
	answers := make(map[string]string, len(s.Answers))
	for k, v := range s.Answers {
		answers[k] = v
	}
	s.Answers = answers
	return s
}

func cloneResult(r Result) Result {
	correct := make(map[string]bool, len(r.Correct))
	for k, v := range r.Correct {
		correct[k] = v
	}
	r.Correct = correct
	return r
}

func (m *memoryStore) CreateQuiz(_ context.Context, q Quiz) (Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	q.Status = StatusDraft
	q.CreatedAt = time.Now().Unix()
	questions := q.Questions
	q.Questions = nil
	for _, qq := range questions {
		if err := q.AddQuestion(qq); err != nil {
			return Quiz{}, err
		}
	}
	m.quizzes[q.ID] = q
	return cloneQuiz(q), nil
}

func (m *memoryStore) AddQuestion(_ context.Context, quizID string, qq Question) (Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.quizzes[quizID]
	if !ok {
		return Quiz{}, fmt.Errorf("%w: quiz %s", ErrNotFound, quizID)
	}
	q = cloneQuiz(q)
	if err := q.AddQuestion(qq); err != nil {
		return Quiz{}, err
	}
	m.quizzes[quizID] = q
	return cloneQuiz(q), nil
}

func (m *memoryStore) RemoveQuestion(_ context.Context, quizID, questionID string) (Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.quizzes[quizID]
	if !ok {
		return Quiz{}, fmt.Errorf("%w: quiz %s", ErrNotFound, quizID)
	}
	q = cloneQuiz(q) // RemoveQuestion shifts the slice in place
	if err := q.RemoveQuestion(questionID); err != nil {
		return Quiz{}, err
	}
	m.quizzes[quizID] = q
	return cloneQuiz(q), nil
}

func (m *memoryStore) Publish(_ context.Context, quizID string) (Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.quizzes[quizID]
	if !ok {
		return Quiz{}, fmt.Errorf("%w: quiz %s", ErrNotFound, quizID)
	}
	if err := q.Publish(time.Now().Unix()); err != nil {
		return Quiz{}, err
	}
	m.quizzes[quizID] = q
	return cloneQuiz(q), nil
}

func (m *memoryStore) GetQuiz(_ context.Context, id string) (Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.quizzes[id]
	if !ok {
		return Quiz{}, fmt.Errorf("%w: quiz %s", ErrNotFound, id)
	}
	return cloneQuiz(q), nil
}

func (m *memoryStore) GetQuizForLearner(ctx context.Context, id string) (Quiz, error) {
	q, err := m.GetQuiz(ctx, id)
	if err != nil {
		return Quiz{}, err
	}
	if q.Status != StatusPublished {
		return Quiz{}, fmt.Errorf("%w: quiz %s", ErrNotPublished, id)
	}
	return stripAnswers(q), nil
}

func (m *memoryStore) ListQuizzes(_ context.Context, opts ListOpts) ([]QuizSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []QuizSummary{}
	for _, q := range m.quizzes {
		if opts.CourseID != "" && q.CourseID != opts.CourseID {
			continue
		}
		if opts.ViewerRole == "student" && q.Status != StatusPublished {
			continue
		}
		out = append(out, q.Summary())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return []QuizSummary{}, nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(out) {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (m *memoryStore) StartSession(_ context.Context, quizID, studentID string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.quizzes[quizID]
	if !ok {
		return Session{}, fmt.Errorf("%w: quiz %s", ErrNotFound, quizID)
	}
	if q.Status != StatusPublished {
		return Session{}, fmt.Errorf("%w: quiz %s", ErrNotPublished, quizID)
	}
	s := Session{
		ID:        uuid.NewString(),
		QuizID:    quizID,
		StudentID: studentID,
		Status:    SessionInProgress,
		Answers:   map[string]string{},
		StartedAt: time.Now().Unix(),
	}
	m.sessions[s.ID] = s
	return cloneSession(s), nil
}

func (m *memoryStore) SetAnswer(_ context.Context, sessionID, studentID, questionID, value string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return Session{}, fmt.Errorf("%w: session %s", ErrNotFound, sessionID)
	}
	if s.StudentID != studentID {
		return Session{}, fmt.Errorf("%w: session %s", ErrNotOwner, sessionID)
	}
	if s.Status != SessionInProgress {
		return Session{}, fmt.Errorf("%w: session %s", ErrSessionClosed, sessionID)
	}
	q := m.quizzes[s.QuizID]
	if _, ok := q.questionByID(questionID); !ok {
		return Session{}, fmt.Errorf("%w: question %s not in quiz %s", ErrUnknownQuestion, questionID, s.QuizID)
	}
	// Last write wins; no history. Write into a detached map so sessions
	// previously returned from this store are not mutated under a reader.
	s = cloneSession(s)
	s.Answers[questionID] = value
	m.sessions[sessionID] = s
	return cloneSession(s), nil
}

func (m *memoryStore) Submit(_ context.Context, sessionID, studentID string) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return Result{}, fmt.Errorf("%w: session %s", ErrNotFound, sessionID)
	}
	if s.StudentID != studentID {
		return Result{}, fmt.Errorf("%w: session %s", ErrNotOwner, sessionID)
	}
	if s.Status != SessionInProgress {
		return Result{}, fmt.Errorf("%w: session %s", ErrAlreadySubmitted, sessionID)
	}
	q := m.quizzes[s.QuizID]
	now := time.Now().Unix()
	s = cloneSession(s)
	s.Status = SessionSubmitted
	s.SubmittedAt = now
	res, err := GradeSession(m.grader, q, s)
	if err != nil {
		return Result{}, err
	}
	res.GradedAt = now
	m.sessions[sessionID] = s
	m.results[sessionID] = res
	return cloneResult(res), nil
}

func (m *memoryStore) GetSession(_ context.Context, id string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("%w: session %s", ErrNotFound, id)
	}
	return cloneSession(s), nil
}

func (m *memoryStore) GetResult(_ context.Context, sessionID string) (Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.results[sessionID]
	if !ok {
		return Result{}, fmt.Errorf("%w: result for session %s", ErrNotFound, sessionID)
	}
	return cloneResult(r), nil
}
