package survey

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"exhibitsurvey/internal/model"
)

// Persister stores the response-set snapshot of one session
type Persister interface {
	Save(ctx context.Context, responses model.Responses) error
	Clear(ctx context.Context) error
}

// Submitter is the submission collaborator: it appends one row to the
// survey's append-only store and reports success or failure only.
type Submitter interface {
	Submit(ctx context.Context, row model.Row) error
}

// SubmitterFunc adapts a function to Submitter
type SubmitterFunc func(ctx context.Context, row model.Row) error

func (f SubmitterFunc) Submit(ctx context.Context, row model.Row) error { return f(ctx, row) }

// Options wires an engine's collaborators. Persister may be nil for
// stateless one-shot use.
type Options struct {
	Persister Persister
	Submitter Submitter
	Timeout   time.Duration // Bounds a single submission; zero means none
	Logger    *zap.Logger
	Clock     func() time.Time
}

// Engine owns one survey session: the response set, the step pointer and the
// submission state machine idle -> submitting -> submitted | idle.
type Engine struct {
	def  *model.Survey
	opts Options

	// persistMu orders snapshot writes; taken before mu, never inside it
	persistMu sync.Mutex

	mu        sync.Mutex
	responses model.Responses
	step      int
	status    model.SubmitStatus
	lastErr   error
}

// New initializes an engine from a definition and an optional restored
// snapshot. Restored entries whose key is not in the definition, or whose
// value no longer fits the question, are dropped rather than failing.
func New(def *model.Survey, restored model.Responses, opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	e := &Engine{
		def:       def,
		opts:      opts,
		responses: make(model.Responses),
		status:    model.StatusIdle,
	}
	for key, v := range restored {
		q, ok := def.Question(key)
		if !ok {
			opts.Logger.Debug("dropping restored response for unknown question", zap.String("key", key))
			continue
		}
		if err := CheckValue(q, v); err != nil {
			opts.Logger.Debug("dropping restored response", zap.String("key", key), zap.Error(err))
			continue
		}
		e.responses[key] = v
	}
	return e
}

// Definition returns the survey the engine runs
func (e *Engine) Definition() *model.Survey { return e.def }

// SetResponse replaces the answer for key and persists the response set.
// The value must match the question's kind and domain. When persisting
// fails the answer is kept in memory and the error is returned.
func (e *Engine) SetResponse(ctx context.Context, key string, v model.Value) error {
	q, ok := e.def.Question(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, key)
	}
	if err := CheckValue(q, v); err != nil {
		return err
	}

	// Clone and save under one lock so snapshots land in mutation order
	e.persistMu.Lock()
	defer e.persistMu.Unlock()

	e.mu.Lock()
	switch e.status {
	case model.StatusSubmitted:
		e.mu.Unlock()
		return ErrAlreadySubmitted
	case model.StatusSubmitting:
		e.mu.Unlock()
		return ErrSubmitInProgress
	}
	e.responses[key] = v
	snapshot := e.responses.Clone()
	e.mu.Unlock()

	if e.opts.Persister == nil {
		return nil
	}
	if err := e.opts.Persister.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("persist responses: %w", err)
	}
	return nil
}

// Response returns the current answer for key
func (e *Engine) Response(key string) (model.Value, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.responses[key]
	return v, ok
}

// Responses returns a copy of the response set
func (e *Engine) Responses() model.Responses {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.responses.Clone()
}

// IsComplete reports whether every required question has a non-empty answer
func (e *Engine) IsComplete() bool {
	return len(e.Missing()) == 0
}

// Missing lists required keys still unanswered, in definition order
func (e *Engine) Missing() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Missing(e.def, e.responses)
}

// Serialize returns the wire cells in definition order
func (e *Engine) Serialize() []model.Pair {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Serialize(e.def, e.responses)
}

// Status returns the submission state
func (e *Engine) Status() model.SubmitStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// LastError returns the error of the most recent failed submission
func (e *Engine) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Submit validates completeness and hands the serialized row to the
// submission collaborator. An incomplete set returns *IncompleteError with no
// network effect. On collaborator failure the engine returns to idle with the
// responses intact; on success it becomes submitted and the snapshot is
// cleared. There is no retry.
func (e *Engine) Submit(ctx context.Context) error {
	e.mu.Lock()
	switch e.status {
	case model.StatusSubmitted:
		e.mu.Unlock()
		return ErrAlreadySubmitted
	case model.StatusSubmitting:
		e.mu.Unlock()
		return ErrSubmitInProgress
	}
	if missing := Missing(e.def, e.responses); len(missing) > 0 {
		e.mu.Unlock()
		return &IncompleteError{Missing: missing}
	}
	if e.opts.Submitter == nil {
		e.mu.Unlock()
		return fmt.Errorf("%w: no submission collaborator configured", ErrSubmitFailed)
	}
	row := model.Row{
		SurveyType:  e.def.Type,
		SubmittedAt: e.opts.Clock().UTC(),
		Pairs:       Serialize(e.def, e.responses),
	}
	e.status = model.StatusSubmitting
	e.lastErr = nil
	e.mu.Unlock()

	submitCtx := ctx
	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		submitCtx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	err := e.opts.Submitter.Submit(submitCtx, row)

	e.mu.Lock()
	if err != nil {
		e.status = model.StatusIdle
		e.lastErr = err
		e.mu.Unlock()
		e.opts.Logger.Warn("survey submission failed", zap.String("survey", e.def.Type), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}
	e.status = model.StatusSubmitted
	e.mu.Unlock()

	if e.opts.Persister != nil {
		e.persistMu.Lock()
		defer e.persistMu.Unlock()
		if err := e.opts.Persister.Clear(ctx); err != nil {
			e.opts.Logger.Warn("failed to clear submitted snapshot", zap.String("survey", e.def.Type), zap.Error(err))
		}
	}
	return nil
}

// Step returns the index of the active question
func (e *Engine) Step() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.step
}

// Steps returns the number of questions
func (e *Engine) Steps() int { return len(e.def.Questions) }

// Current returns the active question
func (e *Engine) Current() *model.Question {
	e.mu.Lock()
	defer e.mu.Unlock()
	return &e.def.Questions[e.step]
}

// IsLast reports whether the active question is the final step
func (e *Engine) IsLast() bool {
	return e.Step() == e.Steps()-1
}

// Goto moves the step pointer
func (e *Engine) Goto(step int) error {
	if step < 0 || step >= len(e.def.Questions) {
		return fmt.Errorf("%w: %d", ErrStepOutOfRange, step)
	}
	e.mu.Lock()
	e.step = step
	e.mu.Unlock()
	return nil
}

// Next advances one step, staying on the last question
func (e *Engine) Next() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.step < len(e.def.Questions)-1 {
		e.step++
	}
	return e.step
}

// Back moves one step back, staying on the first question
func (e *Engine) Back() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.step > 0 {
		e.step--
	}
	return e.step
}

// State summarizes the session for clients
func (e *Engine) State(sessionID string) *model.SessionState {
	e.mu.Lock()
	defer e.mu.Unlock()
	missing := Missing(e.def, e.responses)
	return &model.SessionState{
		SessionID:  sessionID,
		SurveyType: e.def.Type,
		Step:       e.step,
		Steps:      len(e.def.Questions),
		Status:     e.status,
		Complete:   len(missing) == 0,
		Missing:    missing,
		Responses:  e.responses.Clone(),
	}
}
