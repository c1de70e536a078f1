// Package canvas is the transport adapter to a Canvas-compatible LMS. It
// covers exactly what the generation pipeline needs: course and module
// enumeration, content fetch with text extraction, and classic quiz
// publishing.
package canvas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is used when the user leaves the instance field blank.
const DefaultBaseURL = "https://canvas.instructure.com/"

// Error is a non-success response from the LMS. Detail is the literal
// response body and is surfaced to the user verbatim; no structured error
// codes are parsed out of it.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("canvas: status %d: %s", e.Status, e.Detail)
}

// ErrBadResponse marks a response body that did not parse as the expected
// JSON shape. It is distinct from Error so callers can report "bad response"
// instead of echoing garbage.
var ErrBadResponse = errors.New("bad response from LMS")

// Client talks to one Canvas instance with one access token.
type Client struct {
	base  string
	token string
	http  *http.Client
}

// New builds a client. The base URL is normalized: scheme forced to https
// when missing, trailing slash appended, empty input falls back to
// DefaultBaseURL.
func New(baseURL, token string) *Client {
	return &Client{
		base:  NormalizeBaseURL(baseURL),
		token: token,
		http:  &http.Client{Timeout: 20 * time.Second},
	}
}

func NormalizeBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return DefaultBaseURL
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base
}

func (c *Client) BaseURL() string { return c.base }

// ValidateToken performs a cheap authenticated call so a bad token fails
// fast at login instead of mid-workflow.
func (c *Client) ValidateToken(ctx context.Context) error {
	var probe []Course
	return c.getJSON(ctx, "api/v1/courses?per_page=1", &probe)
}

func (c *Client) ListCourses(ctx context.Context) ([]Course, error) {
	var courses []Course
	if err := c.getJSON(ctx, "api/v1/courses?per_page=100", &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// ListModules enumerates a course's modules and fills in each module's item
// list, preserving server order.
func (c *Client) ListModules(ctx context.Context, courseID int) ([]Module, error) {
	var modules []Module
	path := fmt.Sprintf("api/v1/courses/%d/modules?per_page=100", courseID)
	if err := c.getJSON(ctx, path, &modules); err != nil {
		return nil, err
	}
	for i := range modules {
		itemsPath := fmt.Sprintf("api/v1/courses/%d/modules/%d/items?per_page=200", courseID, modules[i].ID)
		if err := c.getJSON(ctx, itemsPath, &modules[i].Items); err != nil {
			return nil, err
		}
	}
	return modules, nil
}

// GetPageText fetches a wiki page and strips its HTML body to plain text.
func (c *Client) GetPageText(ctx context.Context, courseID int, pageURL string) (string, error) {
	var page struct {
		Body string `json:"body"`
	}
	path := fmt.Sprintf("api/v1/courses/%d/pages/%s", courseID, url.PathEscape(pageURL))
	if err := c.getJSON(ctx, path, &page); err != nil {
		return "", err
	}
	return StripHTML(page.Body), nil
}

// GetAssignmentText fetches an assignment and strips its description to
// plain text.
func (c *Client) GetAssignmentText(ctx context.Context, courseID, assignmentID int) (string, error) {
	var asg struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	path := fmt.Sprintf("api/v1/courses/%d/assignments/%d", courseID, assignmentID)
	if err := c.getJSON(ctx, path, &asg); err != nil {
		return "", err
	}
	text := StripHTML(asg.Description)
	if text == "" {
		return asg.Name, nil
	}
	return asg.Name + "\n" + text, nil
}

// GetFileText resolves a file record, downloads it, and extracts text on a
// best-effort basis. A non-empty warning means the file was reachable but
// yielded no usable text; that is not an error.
func (c *Client) GetFileText(ctx context.Context, fileID int) (text, warning string, err error) {
	var meta struct {
		Filename string `json:"filename"`
		URL      string `json:"url"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("api/v1/files/%d", fileID), &meta); err != nil {
		return "", "", err
	}
	if meta.URL == "" {
		return "", fmt.Sprintf("File %d: no download URL", fileID), nil
	}
	data, err := c.download(ctx, meta.URL)
	if err != nil {
		return "", "", err
	}
	return ExtractFileText(fileID, meta.Filename, data)
}

func (c *Client) download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 20<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Status: resp.StatusCode, Detail: strings.TrimSpace(string(body))}
	}
	return body, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, "", out)
}

// postForm sends an application/x-www-form-urlencoded body, which is what
// the classic quiz endpoints expect for quiz[...] and question[...] fields.
func (c *Client) postForm(ctx context.Context, path string, form url.Values, out interface{}) error {
	return c.doJSON(ctx, http.MethodPost, path, strings.NewReader(form.Encode()),
		"application/x-www-form-urlencoded", out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Status: resp.StatusCode, Detail: strings.TrimSpace(string(raw))}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return nil
}
