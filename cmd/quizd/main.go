package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/brightclass/quizcore/internal/api/http"
	auth "github.com/brightclass/quizcore/internal/auth/middleware"
	"github.com/brightclass/quizcore/internal/config"
	"github.com/brightclass/quizcore/internal/db"
	"github.com/brightclass/quizcore/internal/grading"
	"github.com/brightclass/quizcore/internal/quiz"
	"github.com/brightclass/quizcore/internal/rbac"
	syncx "github.com/brightclass/quizcore/internal/sync"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	events := syncx.NewEventRepo(dbh)
	store := quiz.NewSQLStore(dbh, grading.NewGrader(), events)

	// --- Auth ---
	authSvc := auth.NewAuthService(cfg.AuthSecret)
	if err := auth.SeedUsers(ctx, dbh, []auth.SeedUser{
		{Username: cfg.SeedTeacherUser, Password: cfg.SeedTeacherPass, Role: "teacher"},
		{Username: cfg.SeedStudentUser, Password: cfg.SeedStudentPass, Role: "student"},
	}); err != nil {
		log.Fatalf("seed users: %v", err)
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, dbh))

	// Protected API (JWT → subject+role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Authoring (teacher)
		pr.With(rbac.Require("quiz:create")).
			Post("/quizzes", api.CreateQuizHandler(store))
		pr.With(rbac.Require("quiz:edit")).
			Post("/quizzes/{quizID}/questions", api.AddQuestionHandler(store))
		pr.With(rbac.Require("quiz:edit")).
			Delete("/quizzes/{quizID}/questions/{questionID}", api.RemoveQuestionHandler(store))
		pr.With(rbac.Require("quiz:publish")).
			Post("/quizzes/{quizID}/publish", api.PublishQuizHandler(store))

		// Delivery surface (students see published only, answer keys stripped)
		pr.With(rbac.Require("quiz:view")).
			Get("/quizzes", api.ListQuizzesHandler(store))
		pr.With(rbac.Require("quiz:view")).
			Get("/quizzes/{quizID}", api.GetQuizHandler(store))

		// Session flow (student)
		pr.With(rbac.Require("session:create")).
			Post("/sessions", api.StartSessionHandler(store))
		pr.With(rbac.Require("session:save")).
			Put("/sessions/{sessionID}/answers/{questionID}", api.SetAnswerHandler(store))
		pr.With(rbac.Require("session:submit")).
			Post("/sessions/{sessionID}/submit", api.SubmitSessionHandler(store))
		pr.With(rbac.RequireAny("session:view-own", "session:view-all")).
			Get("/sessions/{sessionID}", api.GetSessionHandler(store))
		pr.With(rbac.RequireAny("result:view-own", "result:view-all")).
			Get("/sessions/{sessionID}/result", api.GetResultHandler(store))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
