// Package content turns an aggregated selection into a cleaned text corpus
// by expanding module selections and fetching each selected page, file, and
// assignment through the LMS client.
package content

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/course-forge/quizforge/internal/canvas"
	"github.com/course-forge/quizforge/internal/selection"
	"github.com/course-forge/quizforge/internal/storage"
)

// CollectLogKey is the artifact holding the last collection report.
const CollectLogKey = "collect_last.txt"

// Fetcher is the slice of the LMS client the collector needs.
type Fetcher interface {
	ListModules(ctx context.Context, courseID int) ([]canvas.Module, error)
	GetPageText(ctx context.Context, courseID int, pageURL string) (string, error)
	GetFileText(ctx context.Context, fileID int) (text, warning string, err error)
	GetAssignmentText(ctx context.Context, courseID, assignmentID int) (string, error)
}

// Result is what collection produced. Warnings are non-fatal: a source that
// failed or yielded no text is reported there and skipped, never aborting
// the whole collection.
type Result struct {
	Corpus   string
	Warnings []string
	Sources  []string
}

// TitleFallback replaces an empty corpus with the source titles, so
// generation still has something to work from when no body text was
// extractable. It reports whether the fallback produced anything.
func (r *Result) TitleFallback() bool {
	if r.Corpus != "" || len(r.Sources) == 0 {
		return false
	}
	r.Corpus = strings.Join(r.Sources, "\n")
	r.Warnings = append(r.Warnings, "No Page/File text extracted; fell back to module/item titles.")
	return r.Corpus != ""
}

// Collector gathers and cleans source text. Cache and Artifacts are both
// optional.
type Collector struct {
	Cache     *Cache
	Artifacts storage.ArtifactStore
}

// Collect expands module ids into their typed items, merges them with the
// individually selected identifiers, and fetches everything. Selecting a
// module and one of its items is idempotent here: identifiers are merged
// into sets before fetching.
func (c *Collector) Collect(ctx context.Context, fetch Fetcher, baseURL string, courseID int, req selection.Request) Result {
	var res Result

	pages := map[string]bool{}
	files := map[int]bool{}
	assignments := map[int]bool{}
	for _, u := range req.PageURLs {
		pages[u] = true
	}
	for _, id := range req.FileIDs {
		files[id] = true
	}
	for _, id := range req.AssignmentIDs {
		assignments[id] = true
	}

	if len(req.ModuleIDs) > 0 {
		wanted := map[int]bool{}
		for _, id := range req.ModuleIDs {
			wanted[id] = true
		}
		mods, err := fetch.ListModules(ctx, courseID)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("Module expansion error: %v", err))
		} else {
			for _, m := range mods {
				if !wanted[m.ID] {
					continue
				}
				for _, it := range m.Items {
					switch it.Type {
					case "Page":
						if it.PageURL != "" {
							pages[it.PageURL] = true
						}
					case "File":
						if it.ContentID != 0 {
							files[it.ContentID] = true
						}
					case "Assignment":
						if it.ContentID != 0 {
							assignments[it.ContentID] = true
						}
					}
				}
			}
		}
	}

	var parts []string
	appendPart := func(header, text string) {
		if text != "" {
			parts = append(parts, header+"\n"+text)
		}
	}

	for _, u := range sortedKeys(pages) {
		res.Sources = append(res.Sources, "Page: "+u)
		key := CacheKey(baseURL, courseID, "page", u)
		if body, ok := c.Cache.Get(ctx, key); ok {
			appendPart("### Page: "+u, body)
			continue
		}
		text, err := fetch.GetPageText(ctx, courseID, u)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("Page %s: %v", u, err))
			continue
		}
		c.Cache.Put(ctx, key, text)
		appendPart("### Page: "+u, text)
	}

	for _, id := range sortedIDs(files) {
		res.Sources = append(res.Sources, fmt.Sprintf("File: %d", id))
		key := CacheKey(baseURL, courseID, "file", fmt.Sprint(id))
		if body, ok := c.Cache.Get(ctx, key); ok {
			appendPart(fmt.Sprintf("### File: %d", id), body)
			continue
		}
		text, warn, err := fetch.GetFileText(ctx, id)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("File %d: %v", id, err))
			continue
		}
		if warn != "" {
			res.Warnings = append(res.Warnings, warn)
		}
		if text != "" {
			c.Cache.Put(ctx, key, text)
		}
		appendPart(fmt.Sprintf("### File: %d", id), text)
	}

	for _, id := range sortedIDs(assignments) {
		res.Sources = append(res.Sources, fmt.Sprintf("Assignment: %d", id))
		key := CacheKey(baseURL, courseID, "assignment", fmt.Sprint(id))
		if body, ok := c.Cache.Get(ctx, key); ok {
			appendPart(fmt.Sprintf("### Assignment: %d", id), body)
			continue
		}
		text, err := fetch.GetAssignmentText(ctx, courseID, id)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("Assignment %d: %v", id, err))
			continue
		}
		c.Cache.Put(ctx, key, text)
		appendPart(fmt.Sprintf("### Assignment: %d", id), text)
	}

	raw := strings.TrimSpace(strings.Join(parts, "\n\n"))
	res.Corpus = Cleanup(raw)

	c.writeLog(req, res, len(raw))
	return res
}

func (c *Collector) writeLog(req selection.Request, res Result, rawLen int) {
	var b strings.Builder
	b.WriteString("=== COLLECTION LOG ===\n")
	fmt.Fprintf(&b, "Modules: %v\n", req.ModuleIDs)
	fmt.Fprintf(&b, "Pages:   %v\n", req.PageURLs)
	fmt.Fprintf(&b, "Files:   %v\n", req.FileIDs)
	fmt.Fprintf(&b, "Assigns: %v\n", req.AssignmentIDs)
	fmt.Fprintf(&b, "SOURCES (%d):\n", len(res.Sources))
	for _, s := range res.Sources {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	fmt.Fprintf(&b, "\nTOTAL CORPUS CHARS (raw/clean): %d / %d\n", rawLen, len(res.Corpus))
	if len(res.Warnings) > 0 {
		b.WriteString("\nWARNINGS:\n")
		for _, w := range res.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	if err := storage.WriteText(c.Artifacts, CollectLogKey, b.String()); err != nil {
		log.Printf("write collection log: %v", err)
	}
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedIDs(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
