package content_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/course-forge/quizforge/internal/canvas"
	"github.com/course-forge/quizforge/internal/content"
	"github.com/course-forge/quizforge/internal/selection"
)

// fakeFetcher serves canned module trees and source bodies and records which
// identifiers were fetched.
type fakeFetcher struct {
	modules     []canvas.Module
	modulesErr  error
	pages       map[string]string
	files       map[int]string
	fileWarns   map[int]string
	assignments map[int]string

	pageCalls []string
	fileCalls []int
}

func (f *fakeFetcher) ListModules(ctx context.Context, courseID int) ([]canvas.Module, error) {
	return f.modules, f.modulesErr
}

func (f *fakeFetcher) GetPageText(ctx context.Context, courseID int, pageURL string) (string, error) {
	f.pageCalls = append(f.pageCalls, pageURL)
	text, ok := f.pages[pageURL]
	if !ok {
		return "", errors.New("404 Not Found")
	}
	return text, nil
}

func (f *fakeFetcher) GetFileText(ctx context.Context, fileID int) (string, string, error) {
	f.fileCalls = append(f.fileCalls, fileID)
	text, ok := f.files[fileID]
	if !ok {
		return "", "", errors.New("404 Not Found")
	}
	return text, f.fileWarns[fileID], nil
}

func (f *fakeFetcher) GetAssignmentText(ctx context.Context, courseID, assignmentID int) (string, error) {
	text, ok := f.assignments[assignmentID]
	if !ok {
		return "", errors.New("404 Not Found")
	}
	return text, nil
}

func demoFetcher() *fakeFetcher {
	return &fakeFetcher{
		modules: []canvas.Module{
			{ID: 5, Name: "Unit 1", Items: []canvas.ModuleItem{
				{Type: "Page", Title: "Intro", PageURL: "intro"},
				{Type: "File", Title: "Slides", ContentID: 101},
				{Type: "SubHeader", Title: "ignored"},
			}},
			{ID: 6, Name: "Unit 2", Items: []canvas.ModuleItem{
				{Type: "Assignment", Title: "Homework", ContentID: 201},
			}},
		},
		pages:       map[string]string{"intro": "Intro page body text."},
		files:       map[int]string{101: "Slide deck text content."},
		assignments: map[int]string{201: "Homework\nDo the exercises."},
	}
}

func TestCollectExpandsModules(t *testing.T) {
	f := demoFetcher()
	c := &content.Collector{}
	res := c.Collect(context.Background(), f, "https://lms.test", 1, selection.Request{ModuleIDs: []int{5}})

	if len(res.Warnings) != 0 {
		t.Fatalf("warnings: %v", res.Warnings)
	}
	if !strings.Contains(res.Corpus, "Intro page body text.") ||
		!strings.Contains(res.Corpus, "Slide deck text content.") {
		t.Fatalf("module 5's page and file must both be collected:\n%s", res.Corpus)
	}
	if strings.Contains(res.Corpus, "Homework") {
		t.Fatalf("unselected module 6 must not be collected:\n%s", res.Corpus)
	}
}

func TestCollectModuleAndItemOverlapFetchesOnce(t *testing.T) {
	f := demoFetcher()
	c := &content.Collector{}
	// module 5 expands to page "intro"; the page is also selected directly
	req := selection.Request{ModuleIDs: []int{5}, PageURLs: []string{"intro"}}
	c.Collect(context.Background(), f, "https://lms.test", 1, req)

	if len(f.pageCalls) != 1 {
		t.Fatalf("page fetched %d times, want 1", len(f.pageCalls))
	}
}

func TestCollectFailedSourceBecomesWarning(t *testing.T) {
	f := demoFetcher()
	c := &content.Collector{}
	req := selection.Request{PageURLs: []string{"intro", "missing-page"}, FileIDs: []int{999}}
	res := c.Collect(context.Background(), f, "https://lms.test", 1, req)

	if !strings.Contains(res.Corpus, "Intro page body text.") {
		t.Fatalf("healthy sources must survive a failing one:\n%s", res.Corpus)
	}
	joined := strings.Join(res.Warnings, "\n")
	if !strings.Contains(joined, "Page missing-page:") || !strings.Contains(joined, "File 999:") {
		t.Fatalf("each failed source gets its own warning: %v", res.Warnings)
	}
}

func TestCollectModuleExpansionErrorIsWarning(t *testing.T) {
	f := demoFetcher()
	f.modulesErr = errors.New("503 Service Unavailable")
	c := &content.Collector{}
	req := selection.Request{ModuleIDs: []int{5}, PageURLs: []string{"intro"}}
	res := c.Collect(context.Background(), f, "https://lms.test", 1, req)

	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "Module expansion error") {
		t.Fatalf("warnings: %v", res.Warnings)
	}
	// directly selected identifiers are still fetched
	if !strings.Contains(res.Corpus, "Intro page body text.") {
		t.Fatalf("corpus: %q", res.Corpus)
	}
}

func TestCollectExtractorWarningIsSurfaced(t *testing.T) {
	f := demoFetcher()
	f.files[102] = ""
	f.fileWarns = map[int]string{102: "File 102 (notes.pdf): no text extractor for .pdf"}
	c := &content.Collector{}
	res := c.Collect(context.Background(), f, "https://lms.test", 1, selection.Request{FileIDs: []int{102}})

	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "no text extractor") {
		t.Fatalf("warnings: %v", res.Warnings)
	}
	if res.Corpus != "" {
		t.Fatalf("an empty extraction contributes nothing: %q", res.Corpus)
	}
}

func TestTitleFallback(t *testing.T) {
	res := content.Result{Sources: []string{"Page: intro", "File: 101"}}
	if !res.TitleFallback() {
		t.Fatal("fallback should fire on empty corpus with sources")
	}
	if !strings.Contains(res.Corpus, "Page: intro") {
		t.Fatalf("corpus: %q", res.Corpus)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("fallback should warn: %v", res.Warnings)
	}

	full := content.Result{Corpus: "real text", Sources: []string{"Page: intro"}}
	if full.TitleFallback() {
		t.Fatal("fallback must not fire when text was extracted")
	}
	empty := content.Result{}
	if empty.TitleFallback() {
		t.Fatal("fallback has nothing to work from with no sources")
	}
}

func TestCacheHitSkipsFetch(t *testing.T) {
	// a nil cache is inert; this exercises the fetch-side path twice and the
	// call accounting that a cache would short-circuit
	f := demoFetcher()
	c := &content.Collector{}
	ctx := context.Background()
	req := selection.Request{FileIDs: []int{101}}

	c.Collect(ctx, f, "https://lms.test", 1, req)
	c.Collect(ctx, f, "https://lms.test", 1, req)
	if len(f.fileCalls) != 2 {
		t.Fatalf("without a cache every collect fetches: %d", len(f.fileCalls))
	}
}

func TestCacheKey(t *testing.T) {
	k := content.CacheKey("https://lms.test", 7, "file", fmt.Sprint(101))
	if k != "https://lms.test|7|file|101" {
		t.Fatalf("key: %q", k)
	}
}
