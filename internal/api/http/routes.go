package http

import (
	"github.com/go-chi/chi/v5"

	"github.com/course-forge/quizforge/internal/assessment"
)

// Mount wires every endpoint onto the router.
func Mount(r chi.Router, s *Server) {
	r.Get("/health", HealthHandler())

	r.Post("/auth", s.AuthHandler())
	r.Post("/modules", s.ModulesHandler())

	r.Route("/selection", func(sr chi.Router) {
		sr.Get("/", s.SelectionRequestHandler())
		sr.Post("/module", s.SelectionModuleHandler())
		sr.Post("/item", s.SelectionItemHandler())
		sr.Post("/filter", s.SelectionFilterHandler())
		sr.Post("/filtered", s.SelectionFilteredHandler())
	})

	r.Post("/generate/quiz", s.GenerateHandler(assessment.KindQuiz))
	r.Post("/generate/midterm", s.GenerateHandler(assessment.KindMidterm))

	r.Post("/publish/quiz", s.PublishHandler(assessment.KindQuiz))
	r.Post("/publish/midterm", s.PublishHandler(assessment.KindMidterm))

	r.Post("/assessments/{kind}/title", s.EditTitleHandler())
	r.Get("/export/{kind}", s.ExportHandler())
	r.Get("/preview/{kind}", s.PreviewHandler())
	r.Get("/workflow/{kind}", s.WorkflowHandler())
	r.Post("/workflow/{kind}/dismiss-warnings", s.DismissWarningsHandler())
}
