// Package workflow drives the generate -> preview -> edit-title -> publish
// pipeline. Quiz and midterm are independent state machines that share no
// state; the controller is the sole owner of each kind's live assessment.
package workflow

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/course-forge/quizforge/internal/assessment"
	"github.com/course-forge/quizforge/internal/selection"
)

type State string

const (
	StateIdle       State = "idle"
	StateGenerating State = "generating"
	StatePreviewing State = "previewing"
	StatePublishing State = "publishing"
	StatePublished  State = "published"
	StateError      State = "error"
)

// errScope records which operation put a kind into StateError.
type errScope string

const (
	scopeGenerate errScope = "generate"
	scopePublish  errScope = "publish"
)

var (
	// ErrNoAssessment is the publish/export precondition failure: nothing
	// has been generated for this kind yet. Recovered locally, never sent
	// over the network.
	ErrNoAssessment = errors.New("nothing has been generated for this kind yet")

	// ErrBusy means a generate or publish for this kind is still in flight.
	ErrBusy = errors.New("an operation for this kind is already in flight")

	// ErrSuperseded means a response arrived after a newer attempt replaced
	// it; the late result was dropped.
	ErrSuperseded = errors.New("result superseded by a newer attempt")
)

// GenerateFunc performs the actual generation network call.
type GenerateFunc func(ctx context.Context) (assessment.Assessment, []string, error)

// PublishFunc performs the actual publish network call and returns the LMS
// URL of the created quiz.
type PublishFunc func(ctx context.Context, a assessment.Assessment) (string, error)

// Snapshot is a read-only view of one kind's workflow state.
type Snapshot struct {
	Kind         assessment.Kind `json:"kind"`
	State        State           `json:"state"`
	Title        string          `json:"title,omitempty"`
	Questions    int             `json:"questions"`
	Warnings     []string        `json:"warnings,omitempty"`
	ErrMessage   string          `json:"error,omitempty"`
	PublishedURL string          `json:"published_url,omitempty"`
}

type slot struct {
	state    State
	scope    errScope
	live     *assessment.Assessment
	warnings []string
	errMsg   string
	pubURL   string
	token    string
}

// Controller holds the two per-kind workflow slots.
type Controller struct {
	mu    sync.Mutex
	slots map[assessment.Kind]*slot
}

func NewController() *Controller {
	return &Controller{slots: map[assessment.Kind]*slot{
		assessment.KindQuiz:    {state: StateIdle},
		assessment.KindMidterm: {state: StateIdle},
	}}
}

// Generate runs one generation attempt for a kind. An empty request is
// rejected locally before any network call and leaves the state untouched.
// If a newer attempt starts while this one is in flight, this one's result
// is dropped and ErrSuperseded is returned.
func (c *Controller) Generate(ctx context.Context, kind assessment.Kind, req selection.Request, do GenerateFunc) (Snapshot, error) {
	if req.Empty() {
		return c.Snapshot(kind), selection.ErrEmptySelection
	}

	c.mu.Lock()
	s := c.slots[kind]
	token := uuid.NewString()
	s.token = token
	s.state = StateGenerating
	s.errMsg = ""
	c.mu.Unlock()

	a, warnings, err := do(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if s.token != token {
		return c.snapshotLocked(kind), ErrSuperseded
	}
	if err != nil {
		s.state = StateError
		s.scope = scopeGenerate
		s.errMsg = err.Error()
		s.warnings = nil
		return c.snapshotLocked(kind), err
	}
	live := a.Clone()
	s.live = &live
	s.warnings = warnings
	s.state = StatePreviewing
	s.pubURL = ""
	return c.snapshotLocked(kind), nil
}

// EditTitle replaces the live assessment's title. An empty new title is a
// cancelled edit and changes nothing.
func (c *Controller) EditTitle(kind assessment.Kind, title string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.slots[kind]
	if s.live == nil {
		return ErrNoAssessment
	}
	if title != "" {
		s.live.Title = title
	}
	return nil
}

// Publish sends the kind's live assessment to the LMS. The assessment is
// retained either way so the user can retry after a failure or re-publish.
func (c *Controller) Publish(ctx context.Context, kind assessment.Kind, do PublishFunc) (string, error) {
	c.mu.Lock()
	s := c.slots[kind]
	if s.live == nil {
		c.mu.Unlock()
		return "", ErrNoAssessment
	}
	if s.state == StateGenerating || s.state == StatePublishing {
		c.mu.Unlock()
		return "", ErrBusy
	}
	token := uuid.NewString()
	s.token = token
	s.state = StatePublishing
	s.errMsg = ""
	a := s.live.Clone()
	c.mu.Unlock()

	url, err := do(ctx, a)

	c.mu.Lock()
	defer c.mu.Unlock()
	if s.token != token {
		return "", ErrSuperseded
	}
	if err != nil {
		s.state = StateError
		s.scope = scopePublish
		s.errMsg = err.Error()
		return "", err
	}
	s.state = StatePublished
	s.pubURL = url
	return url, nil
}

// Export serializes the live assessment as pretty-printed JSON. Allowed from
// any state once something has been generated; never touches the network.
func (c *Controller) Export(kind assessment.Kind) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.slots[kind]
	if s.live == nil {
		return nil, ErrNoAssessment
	}
	return assessment.Export(*s.live)
}

// Assessment returns a copy of the kind's live assessment.
func (c *Controller) Assessment(kind assessment.Kind) (assessment.Assessment, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.slots[kind]
	if s.live == nil {
		return assessment.Assessment{}, false
	}
	return s.live.Clone(), true
}

// DismissWarnings clears the advisory strip from the last generation.
func (c *Controller) DismissWarnings(kind assessment.Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slots[kind].warnings = nil
}

func (c *Controller) Snapshot(kind assessment.Kind) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked(kind)
}

func (c *Controller) snapshotLocked(kind assessment.Kind) Snapshot {
	s := c.slots[kind]
	snap := Snapshot{
		Kind:         kind,
		State:        s.state,
		Warnings:     append([]string(nil), s.warnings...),
		ErrMessage:   s.errMsg,
		PublishedURL: s.pubURL,
	}
	if s.live != nil {
		snap.Title = s.live.Title
		snap.Questions = len(s.live.Questions)
	}
	return snap
}
