package canvas

// Course is the minimal course record returned to the UI after auth.
type Course struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ModuleItem is one entry of a module's item list, trimmed to the fields the
// selection tree needs. For File and Assignment items the LMS puts the
// target's id in content_id; for Page items it supplies the URL slug.
type ModuleItem struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Type      string `json:"type"` // Page | File | Assignment | ...
	PageURL   string `json:"page_url,omitempty"`
	ContentID int    `json:"content_id,omitempty"`
}

// Module is an ordered container of items. Item order is server-assigned and
// preserved as received.
type Module struct {
	ID    int          `json:"id"`
	Name  string       `json:"name"`
	Items []ModuleItem `json:"items"`
}

// QuizInfo is the LMS record for a created quiz; HTMLURL is the link
// surfaced to the user after publish.
type QuizInfo struct {
	ID      int    `json:"id"`
	HTMLURL string `json:"html_url"`
}
