// Package http exposes the generation pipeline over HTTP: auth, module
// listing, selection events, generate, preview, title edit, publish, and
// export.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/sessions"

	"github.com/course-forge/quizforge/internal/assessment"
	"github.com/course-forge/quizforge/internal/canvas"
	"github.com/course-forge/quizforge/internal/content"
	"github.com/course-forge/quizforge/internal/generator"
	"github.com/course-forge/quizforge/internal/selection"
	"github.com/course-forge/quizforge/internal/workflow"
)

// LMSClient is everything the handlers need from the transport adapter.
// *canvas.Client satisfies it; tests plug in fakes.
type LMSClient interface {
	content.Fetcher
	BaseURL() string
	ValidateToken(ctx context.Context) error
	ListCourses(ctx context.Context) ([]canvas.Course, error)
	PublishAssessment(ctx context.Context, courseID int, a assessment.Assessment, s assessment.PublishSettings) (string, error)
}

// ClientFactory builds an LMS client for one credential pair.
type ClientFactory func(baseURL, token string) LMSClient

type Server struct {
	sessions    *sessions.CookieStore
	controller  *workflow.Controller
	gen         *generator.Generator
	newClient   ClientFactory
	defaultBase string

	selMu      sync.Mutex
	selections map[int]*selection.Selection // courseID -> checkbox state
}

func NewServer(sessionSecret, defaultBase string, ctl *workflow.Controller, gen *generator.Generator, factory ClientFactory) *Server {
	if factory == nil {
		factory = func(base, token string) LMSClient { return canvas.New(base, token) }
	}
	return &Server{
		sessions:    newSessionStore(sessionSecret),
		controller:  ctl,
		gen:         gen,
		newClient:   factory,
		defaultBase: defaultBase,
		selections:  map[int]*selection.Selection{},
	}
}

// writeDetail emits the {"detail": ...} error body every endpoint uses.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
