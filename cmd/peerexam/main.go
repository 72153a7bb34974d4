package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	api "github.com/peerexam/peerexam/internal/api/http"
	"github.com/peerexam/peerexam/internal/attempt"
	"github.com/peerexam/peerexam/internal/auth"
	"github.com/peerexam/peerexam/internal/config"
	"github.com/peerexam/peerexam/internal/db"
	"github.com/peerexam/peerexam/internal/exam"
	"github.com/peerexam/peerexam/internal/rbac"
	"github.com/peerexam/peerexam/internal/result"
	"github.com/peerexam/peerexam/internal/storage"
	"github.com/peerexam/peerexam/internal/user"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	// Blobs always back question images; with STORE_DRIVER=blob they
	// hold the collections too.
	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	var (
		examStore   exam.Store
		resultStore result.Store
		userStore   user.Store
	)
	switch cfg.StoreDriver {
	case "blob":
		examStore = exam.NewBlobStore(bs)
		resultStore = result.NewBlobStore(bs)
		userStore = user.NewBlobStore(bs)
	case "sqlite", "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		dbh, err := db.Open(ctx, db.Driver(cfg.StoreDriver), cfg.DBDSN)
		if err != nil {
			log.Fatalf("db open failed: %v", err)
		}
		examStore = exam.NewSQLStore(dbh)
		resultStore = result.NewSQLStore(dbh)
		userStore = user.NewSQLStore(dbh)
	default:
		log.Fatalf("unknown STORE_DRIVER %q (want blob|sqlite|postgres)", cfg.StoreDriver)
	}

	exams := exam.NewService(examStore)
	users := user.NewService(userStore)
	attempts := attempt.NewManager(examStore, resultStore)
	authSvc := auth.NewService(cfg.AuthSecret)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/register", api.RegisterHandler(users, authSvc))
	r.Post("/auth/login", api.LoginHandler(users, authSvc))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.Middleware(authSvc))

		// Teacher authoring
		pr.With(rbac.Require("exam:create")).
			Post("/exams", api.CreateExamHandler(exams))
		pr.With(rbac.Require("exam:list")).
			Get("/exams", api.ListExamsHandler(exams))
		pr.With(rbac.Require("exam:edit")).
			Get("/exams/{examID}", api.GetExamHandler(exams))
		pr.With(rbac.Require("exam:edit")).
			Put("/exams/{examID}", api.UpdateExamHandler(exams))
		pr.With(rbac.Require("exam:delete")).
			Delete("/exams/{examID}", api.DeleteExamHandler(exams))
		pr.With(rbac.Require("exam:edit")).
			Post("/exams/{examID}/questions", api.AddQuestionHandler(exams))
		pr.With(rbac.Require("exam:edit")).
			Delete("/exams/{examID}/questions/{questionID}", api.DeleteQuestionHandler(exams))
		pr.With(rbac.Require("exam:publish")).
			Post("/exams/{examID}/publication", api.TogglePublicationHandler(exams))
		pr.With(rbac.Require("exam:publish")).
			Post("/exams/{examID}/phase2", api.TogglePhase2Handler(exams))

		// Student flow
		pr.With(rbac.Require("exam:view")).
			Get("/published-exams", api.ListPublishedExamsHandler(exams))
		pr.With(rbac.Require("attempt:create")).
			Post("/attempts", api.StartAttemptHandler(attempts))
		pr.Route("/attempts/{attemptID}", func(ar chi.Router) {
			ar.Use(rbac.Require("attempt:act"))
			ar.Use(api.RequireAttemptOwner(attempts))
			ar.Get("/", api.GetAttemptHandler(attempts))
			ar.Get("/weights", api.WeightsHandler(attempts))
			ar.Post("/weights/{questionID}/increment", api.IncrementHandler(attempts))
			ar.Post("/weights/{questionID}/decrement", api.DecrementHandler(attempts))
			ar.Post("/weights/{questionID}/confirm", api.ConfirmQuestionHandler(attempts))
			ar.Post("/finish-weights", api.FinishWeightsHandler(attempts))
			ar.Post("/enter-tbl", api.EnterTBLHandler(attempts))
			ar.Get("/tbl", api.TBLHandler(attempts))
			ar.Post("/tbl/{questionID}/select", api.SelectHandler(attempts))
			ar.Post("/tbl/{questionID}/confirm", api.ConfirmSelectionHandler(attempts))
			ar.Post("/finish-tbl", api.FinishTBLHandler(attempts))
		})

		// Results
		pr.With(rbac.Require("result:view-own")).
			Get("/results/mine", api.MyResultsHandler(resultStore))
		pr.With(rbac.Require("result:view-own")).
			Get("/exams/{examID}/taken", api.TakenHandler(resultStore))
		pr.With(rbac.Require("result:view-all")).
			Get("/exams/{examID}/results", api.ExamResultsHandler(resultStore))
		pr.With(rbac.Require("report:export")).
			Get("/exams/{examID}/report.csv", api.ExportReportHandler(exams, resultStore))

		// Accounts
		pr.With(rbac.Require("users:list")).
			Get("/users", api.ListUsersHandler(users))
		pr.With(rbac.Require("users:delete")).
			Delete("/users/{userID}", api.DeleteUserHandler(users))
		pr.With(rbac.Require("account:delete-own")).
			Delete("/me", api.DeleteSelfHandler(users))

		pr.Route("/assets", func(ar chi.Router) {
			api.MountAssets(ar, bs, exams)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (store=%s)", cfg.HTTPAddr, cfg.StoreDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
