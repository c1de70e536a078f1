package selection

import (
	"errors"
	"sort"
)

// ErrEmptySelection means no module header and no item checkbox is checked;
// generation must not be attempted.
var ErrEmptySelection = errors.New("no content selected")

// Request is the aggregated payload sent to generation. Each collection is
// deduplicated and sorted. A checked module contributes only its id; checked
// items contribute their typed identifiers regardless of whether the parent
// module is also selected.
type Request struct {
	ModuleIDs     []int    `json:"module_ids"`
	PageURLs      []string `json:"page_urls"`
	FileIDs       []int    `json:"file_ids"`
	AssignmentIDs []int    `json:"assignment_ids"`
}

func (r Request) Empty() bool {
	return len(r.ModuleIDs) == 0 && len(r.PageURLs) == 0 &&
		len(r.FileIDs) == 0 && len(r.AssignmentIDs) == 0
}

// Build aggregates the current checkbox state into a Request. It returns
// ErrEmptySelection when nothing at all is checked.
func (s *Selection) Build() (Request, error) {
	modSet := map[int]bool{}
	pageSet := map[string]bool{}
	fileSet := map[int]bool{}
	asgSet := map[int]bool{}

	for _, m := range s.modules {
		if s.header[m.ID] {
			modSet[m.ID] = true
		}
		for _, it := range m.Items {
			if !s.item[it.Key()] {
				continue
			}
			switch it.Type {
			case ItemPage:
				pageSet[it.PageURL] = true
			case ItemFile:
				fileSet[it.FileID] = true
			case ItemAssignment:
				asgSet[it.AssignmentID] = true
			}
		}
	}

	req := Request{
		ModuleIDs:     sortedInts(modSet),
		PageURLs:      sortedStrings(pageSet),
		FileIDs:       sortedInts(fileSet),
		AssignmentIDs: sortedInts(asgSet),
	}
	if req.Empty() {
		return Request{}, ErrEmptySelection
	}
	return req, nil
}

func sortedInts(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func sortedStrings(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
