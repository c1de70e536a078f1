package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/course-forge/quizforge/internal/assessment"
	"github.com/course-forge/quizforge/internal/canvas"
	"github.com/course-forge/quizforge/internal/generator"
	"github.com/course-forge/quizforge/internal/render"
	"github.com/course-forge/quizforge/internal/selection"
	"github.com/course-forge/quizforge/internal/workflow"
)

// credBody is embedded in every request body; credentials are optional once
// a session holds them.
type credBody struct {
	CanvasBaseURL string `json:"canvas_base_url"`
	CanvasToken   string `json:"canvas_token"`
}

func writeErr(w http.ResponseWriter, err error) {
	status, detail := statusFor(err)
	writeDetail(w, status, detail)
}

func statusFor(err error) (int, string) {
	var ce *canvas.Error
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, selection.ErrEmptySelection):
		return http.StatusUnprocessableEntity, "No content selected. Tick module headers or individual items, then try again."
	case errors.Is(err, generator.ErrNoMaterials):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, workflow.ErrNoAssessment):
		return http.StatusConflict, err.Error()
	case errors.Is(err, workflow.ErrBusy), errors.Is(err, workflow.ErrSuperseded):
		return http.StatusConflict, err.Error()
	case errors.As(err, &ce):
		return http.StatusBadRequest, ce.Detail
	case errors.Is(err, canvas.ErrBadResponse):
		return http.StatusBadGateway, "Bad response from the LMS."
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func (s *Server) resolveCourse(ctx context.Context, client LMSClient, courseID int) (int, error) {
	if courseID != 0 {
		return courseID, nil
	}
	courses, err := client.ListCourses(ctx)
	if err != nil {
		return 0, err
	}
	if len(courses) == 0 {
		return 0, errors.New("No courses found for this token.")
	}
	return courses[0].ID, nil
}

// POST /auth {"canvas_base_url"?, "canvas_token"}
// Validates the token and returns the course list for the picker.
func (s *Server) AuthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body credBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeDetail(w, http.StatusBadRequest, "bad json")
			return
		}
		if body.CanvasToken == "" {
			writeDetail(w, http.StatusBadRequest, "canvas_token is required")
			return
		}
		c, err := s.credsFrom(w, r, body.CanvasBaseURL, body.CanvasToken)
		if err != nil {
			writeErr(w, err)
			return
		}
		client := s.newClient(c.Base, c.Token)
		if err := client.ValidateToken(r.Context()); err != nil {
			var ce *canvas.Error
			if errors.As(err, &ce) {
				writeDetail(w, http.StatusUnauthorized, ce.Detail)
			} else {
				writeErr(w, err)
			}
			return
		}
		courses, err := client.ListCourses(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, map[string]interface{}{
			"ok":              true,
			"canvas_base_url": c.Base,
			"courses":         courses,
		})
	}
}

// POST /modules {"course_id"?}
// Lists modules with their items and seeds the server-side selection tree.
func (s *Server) ModulesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			credBody
			CourseID int `json:"course_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeDetail(w, http.StatusBadRequest, "bad json")
			return
		}
		client, courseID, err := s.clientAndCourse(w, r, body.credBody, body.CourseID)
		if err != nil {
			writeErr(w, err)
			return
		}
		modules, err := client.ListModules(r.Context(), courseID)
		if err != nil {
			writeErr(w, err)
			return
		}
		s.seedSelection(courseID, modules)
		writeJSON(w, map[string]interface{}{"modules": modules, "course_id": courseID})
	}
}

func (s *Server) clientAndCourse(w http.ResponseWriter, r *http.Request, cb credBody, courseID int) (LMSClient, int, error) {
	c, err := s.credsFrom(w, r, cb.CanvasBaseURL, cb.CanvasToken)
	if err != nil {
		return nil, 0, err
	}
	client := s.newClient(c.Base, c.Token)
	id, err := s.resolveCourse(r.Context(), client, courseID)
	if err != nil {
		return nil, 0, err
	}
	return client, id, nil
}

// seedSelection rebuilds the checkbox tree for a course from a fresh module
// listing. Only item types that can feed generation become checkboxes.
func (s *Server) seedSelection(courseID int, modules []canvas.Module) {
	sel := make([]selection.Module, 0, len(modules))
	for _, m := range modules {
		sm := selection.Module{ID: m.ID, Name: m.Name}
		for _, it := range m.Items {
			switch it.Type {
			case "Page":
				if it.PageURL != "" {
					sm.Items = append(sm.Items, selection.Item{
						ModuleID: m.ID, Type: selection.ItemPage, Title: it.Title, PageURL: it.PageURL,
					})
				}
			case "File":
				if it.ContentID != 0 {
					sm.Items = append(sm.Items, selection.Item{
						ModuleID: m.ID, Type: selection.ItemFile, Title: it.Title, FileID: it.ContentID,
					})
				}
			case "Assignment":
				if it.ContentID != 0 {
					sm.Items = append(sm.Items, selection.Item{
						ModuleID: m.ID, Type: selection.ItemAssignment, Title: it.Title, AssignmentID: it.ContentID,
					})
				}
			}
		}
		sel = append(sel, sm)
	}
	s.selMu.Lock()
	s.selections[courseID] = selection.New(sel)
	s.selMu.Unlock()
}

func (s *Server) selectionFor(courseID int) (*selection.Selection, bool) {
	s.selMu.Lock()
	defer s.selMu.Unlock()
	sel, ok := s.selections[courseID]
	return sel, ok
}

// Selection event endpoints. Each one applies a discrete UI event to the
// stored value object.

func (s *Server) SelectionModuleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			CourseID int  `json:"course_id"`
			ModuleID int  `json:"module_id"`
			Checked  bool `json:"checked"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeDetail(w, http.StatusBadRequest, "bad json")
			return
		}
		sel, ok := s.selectionFor(body.CourseID)
		if !ok {
			writeDetail(w, http.StatusNotFound, "no module listing for this course; call /modules first")
			return
		}
		s.selMu.Lock()
		sel.SetModule(body.ModuleID, body.Checked)
		s.selMu.Unlock()
		writeJSON(w, map[string]bool{"ok": true})
	}
}

func (s *Server) SelectionItemHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			CourseID int    `json:"course_id"`
			Key      string `json:"key"`
			Checked  bool   `json:"checked"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeDetail(w, http.StatusBadRequest, "bad json")
			return
		}
		sel, ok := s.selectionFor(body.CourseID)
		if !ok {
			writeDetail(w, http.StatusNotFound, "no module listing for this course; call /modules first")
			return
		}
		s.selMu.Lock()
		sel.SetItem(body.Key, body.Checked)
		s.selMu.Unlock()
		writeJSON(w, map[string]bool{"ok": true})
	}
}

func (s *Server) SelectionFilterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			CourseID int    `json:"course_id"`
			Term     string `json:"term"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeDetail(w, http.StatusBadRequest, "bad json")
			return
		}
		sel, ok := s.selectionFor(body.CourseID)
		if !ok {
			writeDetail(w, http.StatusNotFound, "no module listing for this course; call /modules first")
			return
		}
		s.selMu.Lock()
		sel.SetFilter(body.Term)
		s.selMu.Unlock()
		writeJSON(w, map[string]bool{"ok": true})
	}
}

// POST /selection/filtered {"course_id", "checked"} bulk-selects or clears
// every currently visible item checkbox.
func (s *Server) SelectionFilteredHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			CourseID int  `json:"course_id"`
			Checked  bool `json:"checked"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeDetail(w, http.StatusBadRequest, "bad json")
			return
		}
		sel, ok := s.selectionFor(body.CourseID)
		if !ok {
			writeDetail(w, http.StatusNotFound, "no module listing for this course; call /modules first")
			return
		}
		s.selMu.Lock()
		if body.Checked {
			sel.SelectFiltered()
		} else {
			sel.ClearFiltered()
		}
		s.selMu.Unlock()
		writeJSON(w, map[string]bool{"ok": true})
	}
}

// GET /selection?course_id=N returns the aggregated request for the stored
// checkbox state.
func (s *Server) SelectionRequestHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID, _ := strconv.Atoi(r.URL.Query().Get("course_id"))
		sel, ok := s.selectionFor(courseID)
		if !ok {
			writeDetail(w, http.StatusNotFound, "no module listing for this course; call /modules first")
			return
		}
		s.selMu.Lock()
		req, err := sel.Build()
		s.selMu.Unlock()
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, req)
	}
}

type generateBody struct {
	credBody
	CourseID      int      `json:"course_id"`
	ModuleIDs     []int    `json:"module_ids"`
	PageURLs      []string `json:"page_urls"`
	FileIDs       []int    `json:"file_ids"`
	AssignmentIDs []int    `json:"assignment_ids"`
	QuizCount     int      `json:"quiz_count"`
}

// selectionRequest prefers the explicit lists from the body; when they are
// all absent it falls back to the server-side checkbox state.
func (s *Server) selectionRequest(body generateBody, courseID int) selection.Request {
	req := selection.Request{
		ModuleIDs:     body.ModuleIDs,
		PageURLs:      body.PageURLs,
		FileIDs:       body.FileIDs,
		AssignmentIDs: body.AssignmentIDs,
	}
	if !req.Empty() {
		return req
	}
	if sel, ok := s.selectionFor(courseID); ok {
		s.selMu.Lock()
		built, err := sel.Build()
		s.selMu.Unlock()
		if err == nil {
			return built
		}
	}
	return req
}

// POST /generate/quiz and /generate/midterm
func (s *Server) GenerateHandler(kind assessment.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body generateBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeDetail(w, http.StatusBadRequest, "bad json")
			return
		}
		client, courseID, err := s.clientAndCourse(w, r, body.credBody, body.CourseID)
		if err != nil {
			writeErr(w, err)
			return
		}
		req := s.selectionRequest(body, courseID)

		snap, err := s.controller.Generate(r.Context(), kind, req,
			func(ctx context.Context) (assessment.Assessment, []string, error) {
				return s.gen.Generate(ctx, client, client.BaseURL(), courseID, kind, req, body.QuizCount)
			})
		if err != nil {
			writeErr(w, err)
			return
		}
		a, _ := s.controller.Assessment(kind)
		writeJSON(w, map[string]interface{}{
			"warnings":   snap.Warnings,
			string(kind): a,
			"course_id":  courseID,
			"state":      snap.State,
		})
	}
}

// POST /assessments/{kind}/title {"title": "..."}
func (s *Server) EditTitleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, ok := kindParam(r)
		if !ok {
			writeDetail(w, http.StatusNotFound, "unknown kind")
			return
		}
		var body struct {
			Title string `json:"title"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeDetail(w, http.StatusBadRequest, "bad json")
			return
		}
		if err := s.controller.EditTitle(kind, body.Title); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, s.controller.Snapshot(kind))
	}
}

// POST /publish/quiz and /publish/midterm
func (s *Server) PublishHandler(kind assessment.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			credBody
			CourseID int                        `json:"course_id"`
			Settings assessment.PublishSettings `json:"settings"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeDetail(w, http.StatusBadRequest, "bad json")
			return
		}
		client, courseID, err := s.clientAndCourse(w, r, body.credBody, body.CourseID)
		if err != nil {
			writeErr(w, err)
			return
		}
		url, err := s.controller.Publish(r.Context(), kind,
			func(ctx context.Context, a assessment.Assessment) (string, error) {
				return client.PublishAssessment(ctx, courseID, a, body.Settings)
			})
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, map[string]interface{}{"html_url": url, "course_id": courseID})
	}
}

// GET /export/{kind} downloads the live assessment as pretty-printed JSON.
func (s *Server) ExportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, ok := kindParam(r)
		if !ok {
			writeDetail(w, http.StatusNotFound, "unknown kind")
			return
		}
		data, err := s.controller.Export(kind)
		if err != nil {
			writeErr(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.json", kind))
		_, _ = w.Write(data)
	}
}

// GET /preview/{kind}[?format=text]
func (s *Server) PreviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, ok := kindParam(r)
		if !ok {
			writeDetail(w, http.StatusNotFound, "unknown kind")
			return
		}
		var preview render.Preview
		if a, ok := s.controller.Assessment(kind); ok {
			preview = render.Render(kind, &a)
		} else {
			preview = render.Render(kind, nil)
		}
		if r.URL.Query().Get("format") == "text" {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, _ = w.Write([]byte(preview.Text()))
			return
		}
		writeJSON(w, preview)
	}
}

// GET /workflow/{kind} returns the kind's state snapshot.
func (s *Server) WorkflowHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, ok := kindParam(r)
		if !ok {
			writeDetail(w, http.StatusNotFound, "unknown kind")
			return
		}
		writeJSON(w, s.controller.Snapshot(kind))
	}
}

// POST /workflow/{kind}/dismiss-warnings clears the advisory strip.
func (s *Server) DismissWarningsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, ok := kindParam(r)
		if !ok {
			writeDetail(w, http.StatusNotFound, "unknown kind")
			return
		}
		s.controller.DismissWarnings(kind)
		writeJSON(w, s.controller.Snapshot(kind))
	}
}

func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]bool{"ok": true})
	}
}

func kindParam(r *http.Request) (assessment.Kind, bool) {
	k := assessment.Kind(chi.URLParam(r, "kind"))
	return k, k.Valid()
}
