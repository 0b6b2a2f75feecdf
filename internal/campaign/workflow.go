package campaign

import (
	"context"
	"fmt"
	"sync"

	"github.com/adforge/adforge/internal/apperr"
	"github.com/adforge/adforge/internal/model"
)

// Generator produces one caption for a prompt.
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Saver persists a finished campaign record.
type Saver interface {
	SaveCampaign(ctx context.Context, c *model.Campaign) error
}

// SaverFunc adapts a function to the Saver interface.
type SaverFunc func(ctx context.Context, c *model.Campaign) error

func (f SaverFunc) SaveCampaign(ctx context.Context, c *model.Campaign) error { return f(ctx, c) }

type State int

const (
	StateIdle State = iota
	StateGenerating
	StateGenerated
	StateEditing
	StateSaving
	StateSaved
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGenerating:
		return "generating"
	case StateGenerated:
		return "generated"
	case StateEditing:
		return "editing"
	case StateSaving:
		return "saving"
	case StateSaved:
		return "saved"
	}
	return "unknown"
}

// Workflow runs one caption from generation through save. Generation
// failures land back in Idle with no draft; save failures keep the draft so
// the user can retry. A saved workflow is terminal.
type Workflow struct {
	gen   Generator
	saver Saver

	mu     sync.Mutex
	state  State
	params Params
	draft  string
}

func NewWorkflow(gen Generator, saver Saver) *Workflow {
	return &Workflow{gen: gen, saver: saver, state: StateIdle}
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Draft returns the current editable caption, empty when none exists.
func (w *Workflow) Draft() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// Generate produces a fresh draft from params. Any existing draft is
// discarded before the call goes out, so a failure never resurrects it.
func (w *Workflow) Generate(ctx context.Context, params Params) (string, error) {
	if err := params.Validate(); err != nil {
		return "", err
	}

	w.mu.Lock()
	if w.state == StateGenerating || w.state == StateSaving || w.state == StateSaved {
		w.mu.Unlock()
		return "", fmt.Errorf("generate in state %s: %w", w.state, apperr.ErrValidation)
	}
	w.params = params
	w.draft = ""
	w.state = StateGenerating
	w.mu.Unlock()

	text, err := w.gen.Complete(ctx, BuildPrompt(params))

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.state = StateIdle
		return "", fmt.Errorf("generate caption: %w", err)
	}
	w.draft = text
	w.state = StateGenerated
	return text, nil
}

// Regenerate repeats the last generation, replacing the draft and discarding
// unsaved edits.
func (w *Workflow) Regenerate(ctx context.Context) (string, error) {
	w.mu.Lock()
	params := w.params
	w.mu.Unlock()
	return w.Generate(ctx, params)
}

// Resume re-enters the workflow at Generated with an existing draft, as when
// a save request carries the draft produced by an earlier generation.
func (w *Workflow) Resume(params Params, draft string) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if draft == "" {
		return fmt.Errorf("resume without a draft: %w", apperr.ErrValidation)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateIdle {
		return fmt.Errorf("resume in state %s: %w", w.state, apperr.ErrValidation)
	}
	w.params = params
	w.draft = draft
	w.state = StateGenerated
	return nil
}

// SetDraft replaces the draft text with the user's edit.
func (w *Workflow) SetDraft(text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateGenerated && w.state != StateEditing {
		return fmt.Errorf("edit in state %s: %w", w.state, apperr.ErrValidation)
	}
	w.draft = text
	w.state = StateEditing
	return nil
}

// Save persists the draft as a campaign record. On failure the draft and its
// editable state are retained for a retry.
func (w *Workflow) Save(ctx context.Context) (*model.Campaign, error) {
	w.mu.Lock()
	if w.state != StateGenerated && w.state != StateEditing {
		w.mu.Unlock()
		return nil, fmt.Errorf("save without a draft: %w", apperr.ErrValidation)
	}
	prev := w.state
	c := &model.Campaign{
		ProductID:      w.params.Product.ID,
		Platform:       w.params.Platform,
		Language:       w.params.Language,
		Objective:      w.params.Objective,
		Tone:           w.params.Tone,
		TargetAudience: w.params.Audience,
		Content:        w.draft,
	}
	w.state = StateSaving
	w.mu.Unlock()

	err := w.saver.SaveCampaign(ctx, c)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.state = prev
		return nil, fmt.Errorf("save campaign: %w", err)
	}
	w.state = StateSaved
	return c, nil
}
