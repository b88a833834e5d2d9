package survey

import (
	"context"
	"sync"

	"exhibitsurvey/internal/model"
)

func loc(en, zh string) model.Localized { return model.Localized{EN: en, ZH: zh} }

// nameMood is the two-question survey used across engine tests
func nameMood() *model.Survey {
	def := &model.Survey{
		Type: "feedback",
		Questions: []model.Question{
			{Key: "name", Kind: model.KindText, Prompt: loc("Name", "名字")},
			{Key: "mood", Kind: model.KindMultiSelect, Prompt: loc("Mood", "心情"), Options: []model.Option{
				{ID: "A", Label: loc("A", "甲")},
				{ID: "B", Label: loc("B", "乙")},
				{ID: "C", Label: loc("C", "丙")},
			}},
		},
	}
	Normalize(def)
	return def
}

// everyKind has one question of each kind, in kind order
func everyKind() *model.Survey {
	def := &model.Survey{
		Type: "survey",
		Questions: []model.Question{
			{Key: "intro", Kind: model.KindInfo, Message: loc("Welcome", "欢迎")},
			{Key: "note", Kind: model.KindText, Prompt: loc("Note", "备注")},
			{Key: "mood", Kind: model.KindMultiSelect, Prompt: loc("Mood", "心情"), Options: []model.Option{
				{Label: loc("Joy", "喜悦")},
				{Label: loc("Awe", "敬畏")},
			}},
			{Key: "score", Kind: model.KindRating, Prompt: loc("Score", "评分"), Scale: &model.Scale{Min: 1, Max: 5}},
			{Key: "again", Kind: model.KindBoolean, Prompt: loc("Again?", "再来？")},
			{Key: "gender", Kind: model.KindSingleChoice, Prompt: loc("Gender", "性别"), Choices: []model.Choice{
				{Value: "male", Label: loc("Male", "男")},
				{Value: "female", Label: loc("Female", "女")},
			}},
		},
	}
	Normalize(def)
	return def
}

type memPersister struct {
	mu      sync.Mutex
	saved   model.Responses
	saves   int
	cleared bool
	err     error
}

func (p *memPersister) Save(_ context.Context, r model.Responses) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.saved = r.Clone()
	p.saves++
	return nil
}

func (p *memPersister) Clear(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saved = nil
	p.cleared = true
	return nil
}

type recordingSubmitter struct {
	mu   sync.Mutex
	rows []model.Row
	err  error
}

func (s *recordingSubmitter) Submit(_ context.Context, row model.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
	return s.err
}

func (s *recordingSubmitter) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// gatedPersister holds its first Save until release is closed
type gatedPersister struct {
	memPersister
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newGatedPersister() *gatedPersister {
	return &gatedPersister{entered: make(chan struct{}), release: make(chan struct{})}
}

func (p *gatedPersister) Save(ctx context.Context, r model.Responses) error {
	first := false
	p.once.Do(func() { first = true })
	if first {
		close(p.entered)
		<-p.release
	}
	return p.memPersister.Save(ctx, r)
}

func (p *gatedPersister) snapshot() (model.Responses, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saved.Clone(), p.cleared
}
