// Package tui is the terminal front end: a form to create summaries, a view
// of the current result, and a searchable history.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/a-h/summarizer/history"
	"github.com/a-h/summarizer/models"
	"github.com/a-h/summarizer/summarize"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type tab int

const (
	tabSummarize tab = iota
	tabResult
	tabHistory
)

var tabNames = []string{"Summarize", "Result", "History"}

// Submitter creates summaries. *summarize.Flow implements it.
type Submitter interface {
	Submit(ctx context.Context, in summarize.Input) (models.Summary, error)
	Rules() summarize.RuleSet
}

type Model struct {
	ctx     context.Context
	log     *slog.Logger
	flow    Submitter
	backend history.Backend

	tab     tab
	state   summarize.State
	cancel  context.CancelFunc
	form    form
	result  result
	history historyView
	spinner spinner.Model
	help    help.Model
	keys    keyMap
	width   int
	height  int
}

func New(ctx context.Context, log *slog.Logger, flow Submitter, backend history.Backend) Model {
	const width, height = 80, 24
	m := Model{
		ctx:     ctx,
		log:     log,
		flow:    flow,
		backend: backend,
		state:   summarize.NewState(summarize.KindURL),
		form:    newForm(flow.Rules(), summarize.KindURL),
		result:  newResult(width, height-6),
		history: newHistoryView(width),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(loadingStyle)),
		help:    help.New(),
		keys:    defaultKeyMap(),
		width:   width,
		height:  height,
	}
	m.form.setWidth(width)
	m.result.show(m.state.Input, nil)
	return m
}

// State returns the current form state.
func (m Model) State() summarize.State {
	return m.state
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.form.setWidth(msg.Width)
		m.result.setSize(msg.Width, max(msg.Height-6, 1))
		m.result.show(m.state.Input, m.state.Result)
		m.history.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case spinner.TickMsg:
		if !m.state.Loading && !m.history.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case submittedMsg:
		if msg.ticket != m.state.Ticket() {
			m.log.Debug("ignoring stale submission", slog.Uint64("ticket", uint64(msg.ticket)))
			return m, nil
		}
		m.releaseSubmission()
		m.state = m.state.Complete(msg.ticket, msg.summary)
		m.result.show(m.state.Input, m.state.Result)
		m.tab = tabResult
		if msg.summary.ID == 0 {
			return m, nil
		}
		return m, m.refreshHistory()
	case submitFailedMsg:
		if msg.ticket != m.state.Ticket() {
			return m, nil
		}
		m.releaseSubmission()
		m.log.Warn("submission failed", slog.Any("error", msg.err))
		m.state = m.state.Fail(msg.ticket, msg.err)
		return m, nil
	case historyLoadedMsg:
		m.history.applyLoaded(msg)
		return m, nil
	case historyFailedMsg:
		if msg.generation == m.history.generation {
			m.log.Warn("history refresh failed", slog.Any("error", msg.err))
		}
		m.history.applyFailed(msg)
		return m, nil
	case deletedMsg:
		if msg.err != nil {
			m.log.Warn("delete failed", slog.Int64("id", msg.id), slog.Any("error", msg.err))
		}
		m.history.applyDeleted(msg)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m.forward(msg)
}

// forward passes messages such as cursor blinks to the focused component.
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.tab {
	case tabSummarize:
		m.form, cmd = m.form.update(msg)
	case tabResult:
		m.result, cmd = m.result.update(msg)
	case tabHistory:
		if m.history.searching {
			m.history, cmd = m.history.updateSearch(msg)
		}
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.releaseSubmission()
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextTab):
		return m.switchTab((m.tab + 1) % 3)
	case key.Matches(msg, m.keys.PrevTab):
		return m.switchTab((m.tab + 2) % 3)
	}
	switch m.tab {
	case tabSummarize:
		return m.handleFormKey(msg)
	case tabResult:
		return m.handleResultKey(msg)
	case tabHistory:
		return m.handleHistoryKey(msg)
	}
	return m, nil
}

func (m Model) switchTab(t tab) (tea.Model, tea.Cmd) {
	m.tab = t
	if t == tabHistory && !m.history.loaded && !m.history.loading {
		return m, m.refreshHistory()
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state.Phase == summarize.PhaseSubmitting {
		if key.Matches(msg, m.keys.Cancel) {
			m.releaseSubmission()
			m.state = m.state.Cancel()
		}
		// The form is locked while a submission is outstanding.
		return m, nil
	}
	if m.state.Phase == summarize.PhaseResult {
		// The form shows the input of the current result until it is reset.
		if key.Matches(msg, m.keys.Back) {
			m.reset()
		}
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.ToggleKind):
		m.form.toggleKind()
		m.state = m.state.Edit(m.form.input())
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		return m, m.form.toggleFocus()
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	m.state = m.state.Edit(m.form.input())
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	state, ticket, err := m.state.Begin(m.flow.Rules())
	if err != nil {
		// Submit is disabled.
		return m, nil
	}
	m.state = state
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	in := m.state.Input
	flow := m.flow
	m.log.Debug("submitting", slog.String("kind", string(in.Kind)), slog.Uint64("ticket", uint64(ticket)))
	submit := func() tea.Msg {
		s, err := flow.Submit(ctx, in)
		if err != nil {
			return submitFailedMsg{ticket: ticket, err: err}
		}
		return submittedMsg{ticket: ticket, summary: s}
	}
	return m, tea.Batch(submit, m.spinner.Tick)
}

// releaseSubmission cancels the context of the outstanding submission.
func (m *Model) releaseSubmission() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// reset clears the form and the result in a single update.
func (m *Model) reset() {
	m.form.reset()
	m.state = m.state.Reset()
	m.result.show(m.state.Input, m.state.Result)
}

func (m Model) handleResultKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) {
		if m.state.Phase == summarize.PhaseResult {
			m.reset()
		}
		m.tab = tabSummarize
		return m, nil
	}
	var cmd tea.Cmd
	m.result, cmd = m.result.update(msg)
	return m, cmd
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.history.searching {
		switch msg.Type {
		case tea.KeyEnter, tea.KeyEsc:
			m.history.stopSearch()
			return m, nil
		}
		var cmd tea.Cmd
		m.history, cmd = m.history.updateSearch(msg)
		return m, cmd
	}
	switch {
	case key.Matches(msg, m.keys.Search):
		return m, m.history.startSearch()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshHistory()
	case key.Matches(msg, m.keys.Up):
		m.history.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.history.move(1)
	case key.Matches(msg, m.keys.View):
		if s, ok := m.history.selected(); ok {
			m.releaseSubmission()
			m.state = m.state.Show(s)
			m.form.load(m.state.Input)
			m.result.show(m.state.Input, m.state.Result)
			m.tab = tabResult
		}
	case key.Matches(msg, m.keys.Delete):
		if s, ok := m.history.selected(); ok && !m.history.deleting[s.ID] {
			m.history.deleting[s.ID] = true
			return m, m.deleteSummary(s.ID)
		}
	}
	return m, nil
}

func (m *Model) refreshHistory() tea.Cmd {
	generation := m.history.beginRefresh()
	ctx, backend := m.ctx, m.backend
	refresh := func() tea.Msg {
		items, err := backend.List(ctx)
		if err != nil {
			return historyFailedMsg{generation: generation, err: err}
		}
		return historyLoadedMsg{generation: generation, items: items}
	}
	return tea.Batch(refresh, m.spinner.Tick)
}

func (m Model) deleteSummary(id int64) tea.Cmd {
	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		return deletedMsg{id: id, err: backend.Delete(ctx, id)}
	}
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Summarizer AI"))
	sb.WriteString("\n")
	sb.WriteString(m.tabBar())
	sb.WriteString("\n\n")
	switch m.tab {
	case tabSummarize:
		sb.WriteString(m.form.view(m.state, m.spinner.View()))
	case tabResult:
		sb.WriteString(m.result.view())
	case tabHistory:
		sb.WriteString(m.history.view(m.spinner.View()))
	}
	sb.WriteString("\n\n")
	sb.WriteString(m.help.View(m.helpBindings()))
	return sb.String()
}

func (m Model) tabBar() string {
	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		style := inactiveTabStyle
		if tab(i) == m.tab {
			style = activeTabStyle
		}
		tabs[i] = style.Render(fmt.Sprintf("%d %s", i+1, name))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) helpBindings() bindings {
	switch m.tab {
	case tabSummarize:
		if m.state.Loading {
			return bindings{m.keys.Cancel, m.keys.Quit}
		}
		if m.state.Phase == summarize.PhaseResult {
			return bindings{m.keys.Back, m.keys.NextTab, m.keys.Quit}
		}
		return bindings{m.keys.Submit, m.keys.ToggleKind, m.keys.NextField, m.keys.NextTab, m.keys.Quit}
	case tabResult:
		return bindings{m.keys.Back, m.keys.NextTab, m.keys.Quit}
	default:
		return bindings{m.keys.View, m.keys.Search, m.keys.Refresh, m.keys.Delete, m.keys.NextTab, m.keys.Quit}
	}
}
