package summarize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/a-h/summarizer/models"
	"github.com/cenkalti/backoff/v4"
)

// API is the part of the client used to create summaries.
type API interface {
	Create(ctx context.Context, req models.SummaryCreateRequest) (models.Summary, error)
	CreateFromText(ctx context.Context, text string) (models.SummaryFromTextResponse, error)
	Get(ctx context.Context, id int64) (models.Summary, error)
}

type Mode string

const (
	// ModeSync expects the create response to contain the summary.
	ModeSync Mode = "sync"
	// ModePoll fetches the summary by id after creation, until it is ready.
	ModePoll Mode = "poll"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeSync, ModePoll:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown mode %q, expected %q or %q", s, ModeSync, ModePoll)
}

// PendingError is returned when the summary was still being generated after
// the last poll.
type PendingError struct {
	ID       int64
	Attempts int
}

func (e *PendingError) Error() string {
	return fmt.Sprintf("summary %d was not ready after %d attempts", e.ID, e.Attempts)
}

var ErrIncomplete = errors.New("response did not contain a summary")

type FlowOption func(*Flow)

func WithMode(m Mode) FlowOption {
	return func(f *Flow) {
		f.mode = m
	}
}

// WithPollAttempts sets the number of GET requests made in poll mode. One
// attempt is a single follow-up fetch.
func WithPollAttempts(n int) FlowOption {
	return func(f *Flow) {
		if n > 0 {
			f.pollAttempts = n
		}
	}
}

// WithBackOff sets the delay policy between polls.
func WithBackOff(newBackOff func() backoff.BackOff) FlowOption {
	return func(f *Flow) {
		f.newBackOff = newBackOff
	}
}

func WithRules(rules RuleSet) FlowOption {
	return func(f *Flow) {
		f.rules = rules
	}
}

func NewFlow(log *slog.Logger, api API, opts ...FlowOption) *Flow {
	f := &Flow{
		log:          log,
		api:          api,
		mode:         ModeSync,
		pollAttempts: 10,
		newBackOff:   defaultBackOff,
		rules:        DefaultRuleSet(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = 0
	return b
}

type Flow struct {
	log          *slog.Logger
	api          API
	mode         Mode
	pollAttempts int
	newBackOff   func() backoff.BackOff
	rules        RuleSet
}

func (f *Flow) Rules() RuleSet {
	return f.rules
}

func (f *Flow) Mode() Mode {
	return f.mode
}

// Submit validates the input and runs it through the API until a completed
// summary is available.
func (f *Flow) Submit(ctx context.Context, in Input) (s models.Summary, err error) {
	if err = f.rules.Validate(in); err != nil {
		return s, err
	}
	if in.Kind == KindText {
		return f.submitText(ctx, in)
	}
	f.log.Debug("creating summary", slog.String("url", in.Value), slog.String("mode", string(f.mode)))
	s, err = f.api.Create(ctx, models.SummaryCreateRequest{
		URL:   in.Value,
		Title: in.Title,
	})
	if err != nil {
		return s, fmt.Errorf("failed to create summary: %w", err)
	}
	f.log.Debug("summary created", slog.Int64("id", s.ID), slog.Bool("complete", s.Complete()))
	if f.mode == ModeSync {
		if !s.Complete() {
			return s, fmt.Errorf("summary %d: %w", s.ID, ErrIncomplete)
		}
		return s, nil
	}
	if s.Complete() {
		return s, nil
	}
	return f.poll(ctx, s.ID)
}

func (f *Flow) submitText(ctx context.Context, in Input) (s models.Summary, err error) {
	f.log.Debug("creating summary from text", slog.Int("length", len(in.Value)))
	resp, err := f.api.CreateFromText(ctx, in.Value)
	if err != nil {
		return s, fmt.Errorf("failed to create summary from text: %w", err)
	}
	return models.Summary{
		Title:     in.Title,
		Content:   resp.Text,
		Summary:   resp.Summary,
		CreatedAt: time.Now(),
	}, nil
}

func (f *Flow) poll(ctx context.Context, id int64) (s models.Summary, err error) {
	var attempts int
	op := func() error {
		attempts++
		got, err := f.api.Get(ctx, id)
		if err != nil {
			return backoff.Permanent(err)
		}
		if !got.Complete() {
			f.log.Debug("summary pending", slog.Int64("id", id), slog.Int("attempt", attempts))
			return &PendingError{ID: id, Attempts: attempts}
		}
		s = got
		return nil
	}
	b := backoff.WithContext(backoff.WithMaxRetries(f.newBackOff(), uint64(f.pollAttempts-1)), ctx)
	if err = backoff.Retry(op, b); err != nil {
		return s, fmt.Errorf("failed to fetch summary %d: %w", id, err)
	}
	return s, nil
}
