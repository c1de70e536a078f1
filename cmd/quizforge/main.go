package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/course-forge/quizforge/internal/api/http"
	"github.com/course-forge/quizforge/internal/auth"
	"github.com/course-forge/quizforge/internal/config"
	"github.com/course-forge/quizforge/internal/content"
	"github.com/course-forge/quizforge/internal/db"
	"github.com/course-forge/quizforge/internal/generator"
	"github.com/course-forge/quizforge/internal/storage"
	"github.com/course-forge/quizforge/internal/workflow"
)

func main() {
	cfg := config.FromEnv()

	// --- Artifacts ---
	artifacts, err := storage.NewFSStore(cfg.ArtifactDir)
	if err != nil {
		log.Fatalf("artifact store: %v", err)
	}

	// --- Extraction cache (optional) ---
	var cache *content.Cache
	if cfg.DBDriver != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
		cancel()
		if err != nil {
			log.Printf("extraction cache disabled: %v", err)
		} else {
			cache = content.NewCache(dbh)
		}
	}

	// --- Generation pipeline ---
	gen := &generator.Generator{
		Collector:    &content.Collector{Cache: cache, Artifacts: artifacts},
		Chat:         chatOrNil(cfg, artifacts),
		QuizCount:    cfg.QuizCount,
		MidtermCount: cfg.MidtermCount,
	}

	server := api.NewServer(cfg.SessionSecret, cfg.CanvasBaseURL, workflow.NewController(), gen, nil)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.EnableLocalAuth {
		authSvc := auth.NewService(cfg.AuthSecret, cfg.AdminUser, cfg.AdminPassHash)
		r.Post("/login", auth.LoginHandler(authSvc))
		r.Group(func(pr chi.Router) {
			pr.Use(auth.JWTMiddleware(authSvc))
			api.Mount(pr, server)
		})
	} else {
		api.Mount(r, server)
	}

	log.Printf("quizforge listening on %s", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatal(err)
	}
}

// chatOrNil keeps the pipeline offline-capable: no API key, no model calls.
func chatOrNil(cfg config.Config, artifacts storage.ArtifactStore) generator.LLM {
	chat := generator.NewOpenAIChat(cfg.ChatBase, cfg.ChatAPIKey, cfg.ChatModel, artifacts)
	if chat == nil {
		log.Printf("no API_KEY set; generation runs offline")
		return nil
	}
	return chat
}
