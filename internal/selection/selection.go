// Package selection holds the explicit checkbox state for a course's module
// tree and aggregates it into a generation request. State lives here as a
// value object updated by discrete events; nothing re-derives it from UI
// widgets.
package selection

import (
	"fmt"
	"strings"
)

// ItemType mirrors the LMS module item types that can feed generation.
type ItemType string

const (
	ItemPage       ItemType = "Page"
	ItemFile       ItemType = "File"
	ItemAssignment ItemType = "Assignment"
)

// Item is one selectable unit inside a module. Exactly one identifier field
// is set, decided by Type: PageURL for pages, FileID for files,
// AssignmentID for assignments.
type Item struct {
	ModuleID     int      `json:"module_id"`
	Type         ItemType `json:"type"`
	Title        string   `json:"title"`
	PageURL      string   `json:"page_url,omitempty"`
	FileID       int      `json:"file_id,omitempty"`
	AssignmentID int      `json:"assignment_id,omitempty"`
}

// Key uniquely identifies the item's checkbox within the tree.
func (it Item) Key() string {
	switch it.Type {
	case ItemPage:
		return fmt.Sprintf("%d:page:%s", it.ModuleID, it.PageURL)
	case ItemFile:
		return fmt.Sprintf("%d:file:%d", it.ModuleID, it.FileID)
	case ItemAssignment:
		return fmt.Sprintf("%d:assignment:%d", it.ModuleID, it.AssignmentID)
	}
	return fmt.Sprintf("%d:%s:%s", it.ModuleID, strings.ToLower(string(it.Type)), it.Title)
}

// label is what the free-text filter matches against.
func (it Item) label() string {
	return strings.ToLower(string(it.Type) + " " + it.Title)
}

// Module is an ordered container of items, as enumerated by the LMS.
type Module struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// Selection tracks module-header and item checkbox state plus the current
// visibility filter for one course's module tree.
type Selection struct {
	modules []Module
	header  map[int]bool
	item    map[string]bool
	filter  string
}

func New(modules []Module) *Selection {
	return &Selection{
		modules: modules,
		header:  make(map[int]bool),
		item:    make(map[string]bool),
	}
}

func (s *Selection) Modules() []Module { return s.modules }

func (s *Selection) ModuleChecked(id int) bool   { return s.header[id] }
func (s *Selection) ItemChecked(key string) bool { return s.item[key] }

// SetModule checks or unchecks a module header and bulk-propagates the state
// to every descendant item, visible or not.
func (s *Selection) SetModule(id int, checked bool) {
	for _, m := range s.modules {
		if m.ID != id {
			continue
		}
		s.header[id] = checked
		for _, it := range m.Items {
			s.item[it.Key()] = checked
		}
		return
	}
}

// SetItem checks or unchecks a single item. The parent header is left alone;
// it only gets recomputed after a bulk filtered action.
func (s *Selection) SetItem(key string, checked bool) {
	s.item[key] = checked
}

// SetFilter installs a case-insensitive substring filter over
// "<type> <title>". Filtering changes visibility only, never checked state.
func (s *Selection) SetFilter(term string) {
	s.filter = strings.ToLower(strings.TrimSpace(term))
}

func (s *Selection) Filter() string { return s.filter }

// Visible reports whether an item passes the current filter.
func (s *Selection) Visible(it Item) bool {
	if s.filter == "" {
		return true
	}
	return strings.Contains(it.label(), s.filter)
}

// SelectFiltered checks every currently visible item; ClearFiltered unchecks
// them. Hidden items keep their state. Afterwards each module header is
// recomputed as "all visible descendants checked, and at least one exists".
func (s *Selection) SelectFiltered() { s.setFiltered(true) }
func (s *Selection) ClearFiltered()  { s.setFiltered(false) }

func (s *Selection) setFiltered(checked bool) {
	for _, m := range s.modules {
		for _, it := range m.Items {
			if s.Visible(it) {
				s.item[it.Key()] = checked
			}
		}
	}
	s.recomputeHeaders()
}

func (s *Selection) recomputeHeaders() {
	for _, m := range s.modules {
		visible := 0
		allChecked := true
		for _, it := range m.Items {
			if !s.Visible(it) {
				continue
			}
			visible++
			if !s.item[it.Key()] {
				allChecked = false
			}
		}
		s.header[m.ID] = visible > 0 && allChecked
	}
}
