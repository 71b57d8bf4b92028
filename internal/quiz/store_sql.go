package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/brightclass/quizcore/internal/grading"
	syncx "github.com/brightclass/quizcore/internal/sync"
)

// SQLStore persists the lifecycle in three tables (quizzes, sessions,
// results). Question lists and answer maps are JSON columns, so authoring and
// answer writes are read-modify-write cycles; the keyed mutexes serialize
// those per quiz and per session.
type SQLStore struct {
	db     *sql.DB
	grader grading.Grader
	events *syncx.EventRepo // optional
	quizMu *keyedMutex
	sessMu *keyedMutex
}

func NewSQLStore(db *sql.DB, g grading.Grader, events *syncx.EventRepo) *SQLStore {
	return &SQLStore{
		db:     db,
		grader: g,
		events: events,
		quizMu: newKeyedMutex(),
		sessMu: newKeyedMutex(),
	}
}

func (s *SQLStore) CreateQuiz(ctx context.Context, q Quiz) (Quiz, error) {
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
	qj, err := json.Marshal(q.Questions)
	if err != nil {
		return Quiz{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quizzes (id,course_id,title,description,status,questions_json,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		q.ID, q.CourseID, q.Title, q.Description, string(q.Status), string(qj), q.CreatedAt)
	if err != nil {
		return Quiz{}, err
	}
	return q, nil
}

func (s *SQLStore) AddQuestion(ctx context.Context, quizID string, qq Question) (Quiz, error) {
	s.quizMu.lock(quizID)
	defer s.quizMu.unlock(quizID)
	q, err := s.GetQuiz(ctx, quizID)
	if err != nil {
		return Quiz{}, err
	}
	if err := q.AddQuestion(qq); err != nil {
		return Quiz{}, err
	}
	return q, s.saveQuestions(ctx, q)
}

func (s *SQLStore) RemoveQuestion(ctx context.Context, quizID, questionID string) (Quiz, error) {
	s.quizMu.lock(quizID)
	defer s.quizMu.unlock(quizID)
	q, err := s.GetQuiz(ctx, quizID)
	if err != nil {
		return Quiz{}, err
	}
	if err := q.RemoveQuestion(questionID); err != nil {
		return Quiz{}, err
	}
	return q, s.saveQuestions(ctx, q)
}

func (s *SQLStore) saveQuestions(ctx context.Context, q Quiz) error {
	qj, err := json.Marshal(q.Questions)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE quizzes SET questions_json=$1 WHERE id=$2`, string(qj), q.ID)
	return err
}

func (s *SQLStore) Publish(ctx context.Context, quizID string) (Quiz, error) {
	s.quizMu.lock(quizID)
	defer s.quizMu.unlock(quizID)
	q, err := s.GetQuiz(ctx, quizID)
	if err != nil {
		return Quiz{}, err
	}
	if err := q.Publish(time.Now().Unix()); err != nil {
		return Quiz{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE quizzes SET status=$1, published_at=$2 WHERE id=$3`,
		string(q.Status), q.PublishedAt, q.ID)
	if err != nil {
		return Quiz{}, err
	}
	s.record(ctx, syncx.EventQuizPublished, q.ID, q.Summary())
	return q, nil
}

func (s *SQLStore) GetQuiz(ctx context.Context, id string) (Quiz, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,course_id,title,description,status,questions_json,created_at,COALESCE(published_at,0)
		 FROM quizzes WHERE id=$1`, id)
	var q Quiz
	var status, qjson string
	if err := row.Scan(&q.ID, &q.CourseID, &q.Title, &q.Description, &status, &qjson, &q.CreatedAt, &q.PublishedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quiz{}, fmt.Errorf("%w: quiz %s", ErrNotFound, id)
		}
		return Quiz{}, err
	}
	q.Status = QuizStatus(status)
	if err := json.Unmarshal([]byte(qjson), &q.Questions); err != nil {
		return Quiz{}, err
	}
	return q, nil
}

func (s *SQLStore) GetQuizForLearner(ctx context.Context, id string) (Quiz, error) {
	q, err := s.GetQuiz(ctx, id)
	if err != nil {
		return Quiz{}, err
	}
	if q.Status != StatusPublished {
		return Quiz{}, fmt.Errorf("%w: quiz %s", ErrNotPublished, id)
	}
	return stripAnswers(q), nil
}

func (s *SQLStore) ListQuizzes(ctx context.Context, opts ListOpts) ([]QuizSummary, error) {
	query := `SELECT id,course_id,title,description,status,questions_json,created_at FROM quizzes`
	args := []interface{}{}
	where := ""
	if opts.CourseID != "" {
		args = append(args, opts.CourseID)
		where = ` WHERE course_id=$1`
	}
	if opts.ViewerRole == "student" {
		args = append(args, string(StatusPublished))
		if where == "" {
			where = fmt.Sprintf(` WHERE status=$%d`, len(args))
		} else {
			where += fmt.Sprintf(` AND status=$%d`, len(args))
		}
	}
	query += where + ` ORDER BY created_at DESC`
	if opts.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d OFFSET %d`, opts.Limit, opts.Offset)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []QuizSummary{}
	for rows.Next() {
		var q Quiz
		var status, qjson string
		if err := rows.Scan(&q.ID, &q.CourseID, &q.Title, &q.Description, &status, &qjson, &q.CreatedAt); err != nil {
			return nil, err
		}
		q.Status = QuizStatus(status)
		if err := json.Unmarshal([]byte(qjson), &q.Questions); err != nil {
			return nil, err
		}
		out = append(out, q.Summary())
	}
	return out, rows.Err()
}

func (s *SQLStore) StartSession(ctx context.Context, quizID, studentID string) (Session, error) {
	q, err := s.GetQuiz(ctx, quizID)
	if err != nil {
		return Session{}, err
	}
	if q.Status != StatusPublished {
		return Session{}, fmt.Errorf("%w: quiz %s", ErrNotPublished, quizID)
	}
	sess := Session{
		ID:        uuid.NewString(),
		QuizID:    quizID,
		StudentID: studentID,
		Status:    SessionInProgress,
		Answers:   map[string]string{},
		StartedAt: time.Now().Unix(),
	}
	aj, _ := json.Marshal(sess.Answers)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id,quiz_id,student_id,status,answers_json,started_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		sess.ID, sess.QuizID, sess.StudentID, string(sess.Status), string(aj), sess.StartedAt)
	if err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *SQLStore) SetAnswer(ctx context.Context, sessionID, studentID, questionID, value string) (Session, error) {
	s.sessMu.lock(sessionID)
	defer s.sessMu.unlock(sessionID)
	sess, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}
	if sess.StudentID != studentID {
		return Session{}, fmt.Errorf("%w: session %s", ErrNotOwner, sessionID)
	}
	if sess.Status != SessionInProgress {
		return Session{}, fmt.Errorf("%w: session %s", ErrSessionClosed, sessionID)
	}
	q, err := s.GetQuiz(ctx, sess.QuizID)
	if err != nil {
		return Session{}, err
	}
	if _, ok := q.questionByID(questionID); !ok {
		return Session{}, fmt.Errorf("%w: question %s not in quiz %s", ErrUnknownQuestion, questionID, sess.QuizID)
	}
	if sess.Answers == nil {
		sess.Answers = map[string]string{}
	}
	sess.Answers[questionID] = value
	aj, err := json.Marshal(sess.Answers)
	if err != nil {
		return Session{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE sessions SET answers_json=$1 WHERE id=$2`, string(aj), sessionID)
	if err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Submit freezes the session, grades it, and writes the result in the same
// transaction as the state flip, so a session is never submitted without a
// result or vice versa.
func (s *SQLStore) Submit(ctx context.Context, sessionID, studentID string) (Result, error) {
	s.sessMu.lock(sessionID)
	defer s.sessMu.unlock(sessionID)
	sess, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return Result{}, err
	}
	if sess.StudentID != studentID {
		return Result{}, fmt.Errorf("%w: session %s", ErrNotOwner, sessionID)
	}
	if sess.Status != SessionInProgress {
		return Result{}, fmt.Errorf("%w: session %s", ErrAlreadySubmitted, sessionID)
	}
	q, err := s.GetQuiz(ctx, sess.QuizID)
	if err != nil {
		return Result{}, err
	}

	now := time.Now().Unix()
	sess.Status = SessionSubmitted
	sess.SubmittedAt = now
	res, err := GradeSession(s.grader, q, sess)
	if err != nil {
		return Result{}, err
	}
	res.GradedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Result{}, err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx,
		`UPDATE sessions SET status=$1, submitted_at=$2 WHERE id=$3`,
		string(sess.Status), sess.SubmittedAt, sessionID); err != nil {
		return Result{}, err
	}
	cj, err := json.Marshal(res.Correct)
	if err != nil {
		return Result{}, err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO results (session_id,quiz_id,earned_points,total_points,score_percentage,correct_json,graded_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		res.SessionID, res.QuizID, res.EarnedPoints, res.TotalPoints, res.ScorePercentage, string(cj), res.GradedAt); err != nil {
		return Result{}, err
	}
	if err := tx.Commit(); err != nil {
		return Result{}, err
	}
	s.record(ctx, syncx.EventSessionSubmitted, sessionID, res)
	return res, nil
}

func (s *SQLStore) GetSession(ctx context.Context, id string) (Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,quiz_id,student_id,status,answers_json,started_at,COALESCE(submitted_at,0)
		 FROM sessions WHERE id=$1`, id)
	var sess Session
	var status, ajson string
	if err := row.Scan(&sess.ID, &sess.QuizID, &sess.StudentID, &status, &ajson, &sess.StartedAt, &sess.SubmittedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, fmt.Errorf("%w: session %s", ErrNotFound, id)
		}
		return Session{}, err
	}
	sess.Status = SessionStatus(status)
	if err := json.Unmarshal([]byte(ajson), &sess.Answers); err != nil {
		sess.Answers = map[string]string{}
	}
	return sess, nil
}

func (s *SQLStore) GetResult(ctx context.Context, sessionID string) (Result, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT session_id,quiz_id,earned_points,total_points,score_percentage,correct_json,graded_at
		 FROM results WHERE session_id=$1`, sessionID)
	var res Result
	var cjson string
	if err := row.Scan(&res.SessionID, &res.QuizID, &res.EarnedPoints, &res.TotalPoints, &res.ScorePercentage, &cjson, &res.GradedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Result{}, fmt.Errorf("%w: result for session %s", ErrNotFound, sessionID)
		}
		return Result{}, err
	}
	if err := json.Unmarshal([]byte(cjson), &res.Correct); err != nil {
		return Result{}, err
	}
	return res, nil
}

// record appends an event for the external sync collaborator. Best effort:
// the lifecycle transition already committed, so a failed append only logs.
func (s *SQLStore) record(ctx context.Context, typ, key string, payload interface{}) {
	if s.events == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := s.events.Append(ctx, syncx.Event{Type: typ, Key: key, DataJSON: string(data)}); err != nil {
		log.Printf("eventlog append %s %s: %v", typ, key, err)
	}
}
