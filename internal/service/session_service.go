package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"exhibitsurvey/internal/cache"
	"exhibitsurvey/internal/model"
	"exhibitsurvey/internal/render"
	"exhibitsurvey/internal/repository"
	"exhibitsurvey/internal/survey"
)

var ErrSurveyNotFound = errors.New("survey not found")

// SessionService runs survey sessions: one engine per session, rehydrated
// from its snapshot when the process has not seen it yet.
type SessionService struct {
	surveys     map[string]*model.Survey
	order       []string
	snapshots   cache.SnapshotCache
	submissions repository.SubmissionRepo
	tokens      *TokenService
	timeout     time.Duration
	log         *zap.Logger
	broadcaster Broadcaster
	now         func() time.Time

	mu   sync.Mutex
	live map[string]*liveSession
}

type liveSession struct {
	engine   *survey.Engine
	lastUsed time.Time

	// pinned engines are submitted without a stored marker; releasing one
	// would let the session be rehydrated and answered again
	pinned bool
}

// NewSessionService creates a session service over validated definitions
func NewSessionService(
	surveys []*model.Survey,
	snapshots cache.SnapshotCache,
	submissions repository.SubmissionRepo,
	tokens *TokenService,
	submitTimeout time.Duration,
	log *zap.Logger,
) *SessionService {
	s := &SessionService{
		surveys:     make(map[string]*model.Survey, len(surveys)),
		snapshots:   snapshots,
		submissions: submissions,
		tokens:      tokens,
		timeout:     submitTimeout,
		log:         log,
		now:         time.Now,
		live:        make(map[string]*liveSession),
	}
	for _, def := range surveys {
		s.surveys[def.Type] = def
		s.order = append(s.order, def.Type)
	}
	return s
}

// SetBroadcaster sets the broadcaster for live session updates
func (s *SessionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Surveys lists the configured surveys in load order
func (s *SessionService) Surveys() []model.SurveySummary {
	out := make([]model.SurveySummary, 0, len(s.order))
	for _, t := range s.order {
		def := s.surveys[t]
		out = append(out, model.SurveySummary{Type: def.Type, Title: def.Title, Questions: len(def.Questions)})
	}
	return out
}

// Survey returns one definition
func (s *SessionService) Survey(surveyType string) (*model.Survey, error) {
	def, ok := s.surveys[surveyType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSurveyNotFound, surveyType)
	}
	return def, nil
}

// Start resumes the session named by token when it belongs to surveyType,
// otherwise starts a fresh one with an empty response set.
func (s *SessionService) Start(ctx context.Context, surveyType, token string) (*model.StartSessionResponse, error) {
	if _, err := s.Survey(surveyType); err != nil {
		return nil, err
	}

	if token != "" {
		if claims, err := s.tokens.Validate(token); err == nil && claims.SurveyType == surveyType {
			state, err := s.State(ctx, claims)
			if err != nil {
				return nil, err
			}
			return &model.StartSessionResponse{Token: token, Resumed: true, State: state}, nil
		}
	}

	sessionID := uuid.New().String()
	token, err := s.tokens.Issue(surveyType, sessionID)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}
	claims := &model.SessionClaims{SurveyType: surveyType, SessionID: sessionID}
	e, err := s.engine(ctx, claims)
	if err != nil {
		return nil, err
	}
	s.log.Info("survey session started", zap.String("survey", surveyType), zap.String("session", sessionID))
	return &model.StartSessionResponse{Token: token, State: e.State(sessionID)}, nil
}

// State returns the session summary. A submitted session reports the
// terminal state even after its engine has been released.
func (s *SessionService) State(ctx context.Context, claims *model.SessionClaims) (*model.SessionState, error) {
	e, err := s.engine(ctx, claims)
	if errors.Is(err, survey.ErrAlreadySubmitted) {
		def, _ := s.Survey(claims.SurveyType)
		return &model.SessionState{
			SessionID:  claims.SessionID,
			SurveyType: claims.SurveyType,
			Steps:      len(def.Questions),
			Status:     model.StatusSubmitted,
			Complete:   true,
			Responses:  model.Responses{},
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return e.State(claims.SessionID), nil
}

// View moves the session to step and renders that question
func (s *SessionService) View(ctx context.Context, claims *model.SessionClaims, step int, loc model.Locale) (*render.View, error) {
	e, err := s.engine(ctx, claims)
	if err != nil {
		return nil, err
	}
	if err := e.Goto(step); err != nil {
		return nil, err
	}
	return s.renderStep(e, step, loc), nil
}

// Move steps forward (delta > 0) or back (delta < 0) and renders the new step
func (s *SessionService) Move(ctx context.Context, claims *model.SessionClaims, delta int, loc model.Locale) (*render.View, error) {
	e, err := s.engine(ctx, claims)
	if err != nil {
		return nil, err
	}
	step := e.Step()
	switch {
	case delta > 0:
		step = e.Next()
	case delta < 0:
		step = e.Back()
	}
	return s.renderStep(e, step, loc), nil
}

// SetResponse stores an answer and persists the session snapshot
func (s *SessionService) SetResponse(ctx context.Context, claims *model.SessionClaims, key string, v model.Value) (*model.SessionState, error) {
	e, err := s.engine(ctx, claims)
	if err != nil {
		return nil, err
	}
	if err := e.SetResponse(ctx, key, v); err != nil {
		return nil, err
	}
	state := e.State(claims.SessionID)
	s.broadcast(claims.SessionID, EventStateChanged, state)
	return state, nil
}

// Interact applies one renderer interaction to question key and stores the
// resulting value. It returns the re-rendered question and session state.
func (s *SessionService) Interact(ctx context.Context, claims *model.SessionClaims, key string, in render.Interaction, loc model.Locale) (*render.View, *model.SessionState, error) {
	e, err := s.engine(ctx, claims)
	if err != nil {
		return nil, nil, err
	}
	def := e.Definition()
	q, ok := def.Question(key)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", survey.ErrUnknownQuestion, key)
	}
	current, _ := e.Response(key)
	next, err := render.Apply(q, current, in)
	if err != nil {
		return nil, nil, err
	}
	if err := e.SetResponse(ctx, key, next); err != nil {
		return nil, nil, err
	}
	state := e.State(claims.SessionID)
	s.broadcast(claims.SessionID, EventStateChanged, state)
	view := render.Render(q, next, s.renderOptions(def, indexOf(def, key), loc))
	return &view, state, nil
}

// Submit validates and submits the session. On success the snapshot is
// cleared, the session is marked submitted and its engine released. When the
// marker cannot be written the engine stays live so the session remains
// terminal.
func (s *SessionService) Submit(ctx context.Context, claims *model.SessionClaims) (*model.SessionState, error) {
	e, err := s.engine(ctx, claims)
	if err != nil {
		return nil, err
	}

	err = e.Submit(ctx)
	state := e.State(claims.SessionID)
	switch {
	case err == nil:
		markErr := s.snapshots.MarkSubmitted(ctx, claims.SurveyType, claims.SessionID)
		s.mu.Lock()
		if markErr != nil {
			if ls, ok := s.live[claims.SessionID]; ok {
				ls.pinned = true
			}
		} else {
			delete(s.live, claims.SessionID)
		}
		s.mu.Unlock()
		if markErr != nil {
			s.log.Warn("failed to mark session submitted, keeping engine in memory",
				zap.String("session", claims.SessionID), zap.Error(markErr))
		}
		s.log.Info("survey submitted", zap.String("survey", claims.SurveyType), zap.String("session", claims.SessionID))
		s.broadcast(claims.SessionID, EventSubmitted, state)
		return state, nil
	case errors.Is(err, survey.ErrSubmitFailed):
		s.broadcast(claims.SessionID, EventSubmitFailed, state)
	}
	return state, err
}

// SubmitOnce validates and submits a full response set without a session,
// for clients that keep answers locally. Keys outside the definition are
// ignored.
func (s *SessionService) SubmitOnce(ctx context.Context, surveyType string, responses model.Responses) error {
	def, err := s.Survey(surveyType)
	if err != nil {
		return err
	}
	e := survey.New(def, nil, survey.Options{
		Submitter: survey.SubmitterFunc(s.submissions.Append),
		Timeout:   s.timeout,
		Logger:    s.log,
		Clock:     s.now,
	})
	for key, v := range responses {
		if err := e.SetResponse(ctx, key, v); err != nil {
			if errors.Is(err, survey.ErrUnknownQuestion) {
				continue
			}
			return err
		}
	}
	return e.Submit(ctx)
}

// Sweep releases engines idle for longer than idle. Their snapshots stay in
// the cache, so the sessions can still be resumed.
func (s *SessionService) Sweep(idle time.Duration) int {
	cutoff := s.now().Add(-idle)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, ls := range s.live {
		if ls.pinned || ls.engine.Status() == model.StatusSubmitting {
			continue
		}
		if ls.lastUsed.Before(cutoff) {
			delete(s.live, id)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done
func (s *SessionService) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(idle); n > 0 {
				s.log.Debug("released idle sessions", zap.Int("count", n))
			}
		}
	}
}

// engine returns the live engine of a session, rehydrating it from its
// snapshot when needed.
func (s *SessionService) engine(ctx context.Context, claims *model.SessionClaims) (*survey.Engine, error) {
	def, err := s.Survey(claims.SurveyType)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if ls, ok := s.live[claims.SessionID]; ok {
		ls.lastUsed = s.now()
		s.mu.Unlock()
		return ls.engine, nil
	}
	s.mu.Unlock()

	submitted, err := s.snapshots.IsSubmitted(ctx, claims.SurveyType, claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("check session status: %w", err)
	}
	if submitted {
		return nil, survey.ErrAlreadySubmitted
	}
	restored, err := s.snapshots.Load(ctx, claims.SurveyType, claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	e := survey.New(def, restored, survey.Options{
		Persister: &snapshotPersister{cache: s.snapshots, surveyType: claims.SurveyType, sessionID: claims.SessionID},
		Submitter: survey.SubmitterFunc(s.submissions.Append),
		Timeout:   s.timeout,
		Logger:    s.log.With(zap.String("session", claims.SessionID)),
		Clock:     s.now,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if ls, ok := s.live[claims.SessionID]; ok {
		// Lost a race with a concurrent load of the same session
		ls.lastUsed = s.now()
		return ls.engine, nil
	}
	s.live[claims.SessionID] = &liveSession{engine: e, lastUsed: s.now()}
	return e, nil
}

func (s *SessionService) renderStep(e *survey.Engine, step int, loc model.Locale) *render.View {
	def := e.Definition()
	q := &def.Questions[step]
	v, _ := e.Response(q.Key)
	view := render.Render(q, v, s.renderOptions(def, step, loc))
	return &view
}

func (s *SessionService) renderOptions(def *model.Survey, step int, loc model.Locale) render.Options {
	return render.Options{
		Locale: loc,
		Mode:   def.DisplayMode,
		Marker: render.RequiredMarker(def.RequiredMarker),
		Number: step + 1,
	}
}

func (s *SessionService) broadcast(sessionID, msgType string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(sessionID, msgType, payload)
	}
}

func indexOf(def *model.Survey, key string) int {
	for i := range def.Questions {
		if def.Questions[i].Key == key {
			return i
		}
	}
	return -1
}

// snapshotPersister binds the snapshot cache to one session for the engine
type snapshotPersister struct {
	cache      cache.SnapshotCache
	surveyType string
	sessionID  string
}

func (p *snapshotPersister) Save(ctx context.Context, responses model.Responses) error {
	return p.cache.Save(ctx, p.surveyType, p.sessionID, responses)
}

func (p *snapshotPersister) Clear(ctx context.Context) error {
	return p.cache.Delete(ctx, p.surveyType, p.sessionID)
}
