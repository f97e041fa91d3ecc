package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/a-h/jsonapi"
	"github.com/a-h/summarizer/models"
	"github.com/a-h/summarizer/summarize"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeAPI struct {
	m         sync.Mutex
	createRes models.Summary
	createErr error
	getRes    models.Summary
	items     []models.Summary
	listErr   error
	deleteErr error
	deleted   []int64
}

func (f *fakeAPI) Create(ctx context.Context, req models.SummaryCreateRequest) (models.Summary, error) {
	return f.createRes, f.createErr
}

func (f *fakeAPI) CreateFromText(ctx context.Context, text string) (models.SummaryFromTextResponse, error) {
	return models.SummaryFromTextResponse{Text: text, Summary: "short"}, nil
}

func (f *fakeAPI) Get(ctx context.Context, id int64) (models.Summary, error) {
	return f.getRes, nil
}

func (f *fakeAPI) List(ctx context.Context) ([]models.Summary, error) {
	f.m.Lock()
	defer f.m.Unlock()
	return f.items, f.listErr
}

func (f *fakeAPI) Delete(ctx context.Context, id int64) error {
	f.m.Lock()
	defer f.m.Unlock()
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func newTestModel(api *fakeAPI, opts ...summarize.FlowOption) Model {
	flow := summarize.NewFlow(discard, api, opts...)
	return New(context.Background(), discard, flow, api)
}

// run executes a command and returns the messages it produces. Commands that
// don't return promptly, such as cursor blinks, are dropped.
func run(cmd tea.Cmd) (msgs []tea.Msg) {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, c := range batch {
				msgs = append(msgs, run(c)...)
			}
			return msgs
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(200 * time.Millisecond):
		return nil
	}
}

// settle feeds the application messages produced by cmd back into the model
// until there are none left.
func settle(m Model, cmd tea.Cmd) Model {
	for cmd != nil {
		var next []tea.Cmd
		for _, msg := range run(cmd) {
			switch msg.(type) {
			case submittedMsg, submitFailedMsg, historyLoadedMsg, historyFailedMsg, deletedMsg:
				var c tea.Cmd
				m, c = send(m, msg)
				next = append(next, c)
			}
		}
		cmd = nil
		if len(next) > 0 {
			cmd = tea.Batch(next...)
		}
	}
	return m
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	model, cmd := m.Update(msg)
	return model.(Model), cmd
}

func typeText(m Model, s string) Model {
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func press(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSubmitTwoPhase(t *testing.T) {
	api := &fakeAPI{
		createRes: models.Summary{ID: 7},
		getRes:    models.Summary{ID: 7, Summary: "S"},
		items:     []models.Summary{{ID: 7, Summary: "S"}},
	}
	m := newTestModel(api, summarize.WithMode(summarize.ModePoll), summarize.WithPollAttempts(1))
	m = typeText(m, "https://example.com")
	if m.State().Input.Value != "https://example.com" {
		t.Fatalf("expected input to be typed, got %q", m.State().Input.Value)
	}

	m, cmd := send(m, press(tea.KeyEnter))
	if !m.State().Loading {
		t.Fatal("expected loading after submit")
	}
	m = settle(m, cmd)

	s := m.State()
	if s.Loading {
		t.Error("expected loading to be false")
	}
	if s.Result == nil || s.Result.Summary != "S" {
		t.Fatalf("expected result S, got %v", s.Result)
	}
	if m.tab != tabResult {
		t.Errorf("expected the result tab, got %v", m.tab)
	}
	if !m.history.loaded || m.history.list.Len() != 1 {
		t.Errorf("expected the history to be refreshed after creation")
	}
}

func TestSubmitFailureSurfacesError(t *testing.T) {
	api := &fakeAPI{createErr: jsonapi.InvalidStatusError{Status: 500, Body: "boom"}}
	m := newTestModel(api)
	m = typeText(m, "https://example.com")
	m, cmd := send(m, press(tea.KeyEnter))
	m = settle(m, cmd)

	s := m.State()
	if s.Loading || s.Result != nil {
		t.Errorf("expected loading=false and no result, got %v %v", s.Loading, s.Result)
	}
	if s.Err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(m.View(), "500 Internal Server Error") {
		t.Errorf("expected the error to be shown, got:\n%s", m.View())
	}
	if m.tab != tabSummarize {
		t.Errorf("expected to stay on the form, got %v", m.tab)
	}
}

func TestInvalidInputCannotBeSubmitted(t *testing.T) {
	api := &fakeAPI{createRes: models.Summary{ID: 1, Summary: "S"}}
	m := newTestModel(api)
	m = typeText(m, "http://example.com")
	m, cmd := send(m, press(tea.KeyEnter))
	if m.State().Loading || cmd != nil {
		t.Error("expected submit to be disabled")
	}
	if !strings.Contains(m.View(), "URL must start with https://.") {
		t.Errorf("expected the validation message, got:\n%s", m.View())
	}
}

func TestInputIsClampedToTheLimit(t *testing.T) {
	rules := summarize.RuleSet{
		URL:  summarize.Rules{CharacterLimit: 25, RequiredPrefix: "https://"},
		Text: summarize.DefaultTextRules(),
	}
	m := newTestModel(&fakeAPI{}, summarize.WithRules(rules))
	m = typeText(m, "https://example.com/a-very-long-path")
	if n := len(m.State().Input.Value); n > 25 {
		t.Errorf("expected at most 25 characters, got %d", n)
	}
}

func TestSecondSubmitWhileLoadingIsIgnored(t *testing.T) {
	m := newTestModel(&fakeAPI{createRes: models.Summary{ID: 1, Summary: "S"}})
	m = typeText(m, "https://example.com")
	m, _ = send(m, press(tea.KeyEnter))
	ticket := m.State().Ticket()
	m, cmd := send(m, press(tea.KeyEnter))
	if cmd != nil || m.State().Ticket() != ticket {
		t.Error("expected the second submit to be ignored")
	}
}

func TestCancelIgnoresLateCompletion(t *testing.T) {
	api := &fakeAPI{createRes: models.Summary{ID: 1, Summary: "S"}}
	m := newTestModel(api)
	m = typeText(m, "https://example.com")
	m, cmd := send(m, press(tea.KeyEnter))
	late := run(cmd)

	m, _ = send(m, press(tea.KeyEsc))
	if m.State().Phase != summarize.PhaseEditing || m.State().Loading {
		t.Fatalf("expected cancel to return to editing, got %v", m.State().Phase)
	}
	for _, msg := range late {
		m, _ = send(m, msg)
	}
	if m.State().Result != nil {
		t.Errorf("expected the late result to be ignored, got %v", m.State().Result)
	}
}

func TestBackClearsInputAndResultTogether(t *testing.T) {
	api := &fakeAPI{createRes: models.Summary{ID: 1, Summary: "S"}}
	m := newTestModel(api)
	m = typeText(m, "https://example.com")
	m, cmd := send(m, press(tea.KeyEnter))
	m = settle(m, cmd)
	if m.State().Result == nil {
		t.Fatal("expected a result")
	}

	m, _ = send(m, runes("b"))
	s := m.State()
	if s.Result != nil || s.Input.Value != "" {
		t.Errorf("expected input and result to be cleared, got %q %v", s.Input.Value, s.Result)
	}
	if m.form.value.Value() != "" {
		t.Errorf("expected the form to be cleared, got %q", m.form.value.Value())
	}
	if m.tab != tabSummarize {
		t.Errorf("expected the form tab, got %v", m.tab)
	}
	if strings.Contains(m.result.view(), "https://example.com") {
		t.Error("expected the result view to be cleared")
	}
}

func TestToggleKindToText(t *testing.T) {
	m := newTestModel(&fakeAPI{})
	m, _ = send(m, press(tea.KeyCtrlK))
	if m.State().Input.Kind != summarize.KindText {
		t.Fatalf("expected text kind, got %v", m.State().Input.Kind)
	}
	m = typeText(m, "This is a paragraph of text.")
	m, cmd := send(m, press(tea.KeyEnter))
	m = settle(m, cmd)
	s := m.State()
	if s.Result == nil || s.Result.Summary != "short" {
		t.Fatalf("expected the text summary, got %v", s.Result)
	}
}

func historyModel(t *testing.T, api *fakeAPI) Model {
	t.Helper()
	m := newTestModel(api)
	m, _ = send(m, press(tea.KeyTab))
	m, cmd := send(m, press(tea.KeyTab))
	if m.tab != tabHistory {
		t.Fatalf("expected the history tab, got %v", m.tab)
	}
	return settle(m, cmd)
}

var historyItems = []models.Summary{
	{ID: 1, Title: "Go Concurrency", Summary: "Goroutines and channels.", URL: "https://example.com/1"},
	{ID: 2, Title: "Rust", Summary: "Ownership and borrowing."},
	{ID: 3, Title: "Python", Summary: "Dynamic typing."},
}

func TestHistoryIsFetchedOnFirstVisit(t *testing.T) {
	m := historyModel(t, &fakeAPI{items: historyItems})
	if !m.history.loaded {
		t.Fatal("expected the history to be loaded")
	}
	view := m.View()
	for _, title := range []string{"Go Concurrency", "Rust", "Python"} {
		if !strings.Contains(view, title) {
			t.Errorf("expected %q in view", title)
		}
	}
}

func TestHistoryEmptyStates(t *testing.T) {
	m := historyModel(t, &fakeAPI{})
	if !strings.Contains(m.View(), "No summaries yet") {
		t.Errorf("expected the empty state, got:\n%s", m.View())
	}

	m = historyModel(t, &fakeAPI{items: historyItems})
	m, _ = send(m, runes("/"))
	m = typeText(m, "haskell")
	if !strings.Contains(m.View(), "No matching summaries") {
		t.Errorf("expected the no match state, got:\n%s", m.View())
	}
}

func TestHistorySearch(t *testing.T) {
	m := historyModel(t, &fakeAPI{items: historyItems})
	m, _ = send(m, runes("/"))
	m = typeText(m, "OWNER")
	m, _ = send(m, press(tea.KeyEnter))
	if m.history.searching {
		t.Error("expected enter to leave search")
	}
	var ids []int64
	for _, s := range m.history.filtered() {
		ids = append(ids, s.ID)
	}
	if diff := cmp.Diff([]int64{2}, ids); diff != "" {
		t.Error(diff)
	}
}

func TestHistoryDelete(t *testing.T) {
	t.Run("success removes the row", func(t *testing.T) {
		api := &fakeAPI{items: historyItems}
		m := historyModel(t, api)
		m, _ = send(m, runes("j"))
		m, cmd := send(m, runes("d"))
		if m.history.list.Len() != 3 {
			t.Fatal("expected the row to stay until the delete is confirmed")
		}
		m = settle(m, cmd)
		if m.history.list.Len() != 2 {
			t.Fatalf("expected 2 rows, got %d", m.history.list.Len())
		}
		if diff := cmp.Diff([]int64{2}, api.deleted); diff != "" {
			t.Error(diff)
		}
		if strings.Contains(m.View(), "Rust") {
			t.Error("expected the deleted row to be gone")
		}
	})
	t.Run("failure keeps the row and shows the error", func(t *testing.T) {
		api := &fakeAPI{items: historyItems, deleteErr: errors.New("connection refused")}
		m := historyModel(t, api)
		m, cmd := send(m, runes("d"))
		m = settle(m, cmd)
		if m.history.list.Len() != 3 {
			t.Errorf("expected 3 rows, got %d", m.history.list.Len())
		}
		if !strings.Contains(m.View(), "connection refused") {
			t.Errorf("expected the error to be shown, got:\n%s", m.View())
		}
	})
}

func TestHistoryRefreshFailureIsShown(t *testing.T) {
	m := historyModel(t, &fakeAPI{listErr: errors.New("unreachable")})
	if m.history.loading {
		t.Error("expected loading to be cleared")
	}
	if !strings.Contains(m.View(), "unreachable") {
		t.Errorf("expected the error to be shown, got:\n%s", m.View())
	}
}

func TestStaleHistoryResponsesAreIgnored(t *testing.T) {
	m := historyModel(t, &fakeAPI{items: historyItems})
	stale := historyLoadedMsg{generation: m.history.generation - 1, items: nil}
	m, _ = send(m, stale)
	if m.history.list.Len() != 3 {
		t.Errorf("expected the stale response to be ignored, got %d rows", m.history.list.Len())
	}
}

func TestViewFromHistory(t *testing.T) {
	m := historyModel(t, &fakeAPI{items: historyItems})
	m, _ = send(m, press(tea.KeyEnter))
	if m.tab != tabResult {
		t.Fatalf("expected the result tab, got %v", m.tab)
	}
	s := m.State()
	if s.Result == nil || s.Result.ID != 1 {
		t.Fatalf("expected summary 1, got %v", s.Result)
	}
	if s.Input.Value != "https://example.com/1" {
		t.Errorf("expected the input to match the result, got %q", s.Input.Value)
	}
	if m.form.value.Value() != "https://example.com/1" {
		t.Errorf("expected the form to match the result, got %q", m.form.value.Value())
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{err: &summarize.ValidationError{Err: summarize.ErrEmpty, Message: "Input is required."}, expected: "Input is required."},
		{err: &summarize.PendingError{ID: 1, Attempts: 3}, expected: "The summary is still being generated, try again shortly."},
		{err: jsonapi.InvalidStatusError{Status: 404}, expected: "The server responded with 404 Not Found."},
		{err: context.Canceled, expected: "Cancelled."},
		{err: errors.New("other"), expected: "other"},
	}
	for _, test := range tests {
		if actual := errorMessage(test.err); actual != test.expected {
			t.Errorf("expected %q, got %q", test.expected, actual)
		}
	}
}
