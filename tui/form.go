package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/a-h/summarizer/summarize"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type field int

const (
	fieldValue field = iota
	fieldTitle
)

type form struct {
	rules summarize.RuleSet
	kind  summarize.Kind
	title textinput.Model
	value textarea.Model
	focus field
}

func newForm(rules summarize.RuleSet, kind summarize.Kind) form {
	title := textinput.New()
	title.Placeholder = "Title (optional)"
	title.Prompt = "┃ "
	title.CharLimit = 200

	value := textarea.New()
	value.Prompt = "┃ "
	value.ShowLineNumbers = false
	value.SetHeight(3)
	value.FocusedStyle.CursorLine = lipgloss.NewStyle()
	value.KeyMap.InsertNewline.SetEnabled(false)
	value.Focus()

	f := form{
		rules: rules,
		title: title,
		value: value,
		focus: fieldValue,
	}
	f.setKind(kind)
	return f
}

func (f *form) setKind(kind summarize.Kind) {
	f.kind = kind
	rules := f.rules.For(kind)
	f.value.CharLimit = rules.CharacterLimit
	f.value.SetValue(rules.Clamp(f.value.Value()))
	switch kind {
	case summarize.KindText:
		f.value.Placeholder = "Paste your text content here..."
	default:
		f.value.Placeholder = "https://example.com/article"
	}
}

func (f *form) toggleKind() {
	if f.kind == summarize.KindURL {
		f.setKind(summarize.KindText)
		return
	}
	f.setKind(summarize.KindURL)
}

func (f *form) toggleFocus() tea.Cmd {
	if f.focus == fieldValue {
		f.focus = fieldTitle
		f.value.Blur()
		return f.title.Focus()
	}
	f.focus = fieldValue
	f.title.Blur()
	return f.value.Focus()
}

func (f *form) setWidth(w int) {
	f.value.SetWidth(w)
	f.title.Width = w - 4
}

func (f form) input() summarize.Input {
	return summarize.Input{
		Kind:  f.kind,
		Value: f.value.Value(),
		Title: strings.TrimSpace(f.title.Value()),
	}
}

// load shows an existing input, e.g. the source of a summary from the
// history.
func (f *form) load(in summarize.Input) {
	f.setKind(in.Kind)
	f.value.SetValue(f.rules.For(in.Kind).Clamp(in.Value))
	f.title.SetValue(in.Title)
}

func (f *form) reset() {
	f.value.Reset()
	f.title.Reset()
	if f.focus == fieldTitle {
		f.toggleFocus()
	}
}

func (f form) update(msg tea.Msg) (form, tea.Cmd) {
	var cmd tea.Cmd
	if f.focus == fieldTitle {
		f.title, cmd = f.title.Update(msg)
		return f, cmd
	}
	f.value, cmd = f.value.Update(msg)
	// Pasted text can bypass the character limit.
	if clamped := f.rules.For(f.kind).Clamp(f.value.Value()); clamped != f.value.Value() {
		f.value.SetValue(clamped)
	}
	return f, cmd
}

func (f form) view(state summarize.State, spinner string) string {
	var sb strings.Builder

	urlTab, textTab := activeTabStyle, inactiveTabStyle
	if f.kind == summarize.KindText {
		urlTab, textTab = inactiveTabStyle, activeTabStyle
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, urlTab.Render("URL"), textTab.Render("Text")))
	sb.WriteString("\n\n")

	if f.kind == summarize.KindText {
		sb.WriteString(labelStyle.Render("Enter some text and get a summarized version of it."))
	} else {
		sb.WriteString(labelStyle.Render("Write any valid URL and get a summarized version of it."))
	}
	sb.WriteString("\n\n")
	sb.WriteString(f.title.View())
	sb.WriteString("\n")
	sb.WriteString(f.value.View())
	sb.WriteString("\n")
	sb.WriteString(f.status(state))
	sb.WriteString("\n\n")

	switch {
	case state.Phase == summarize.PhaseResult:
		sb.WriteString(mutedStyle.Render("Press b to start a new summary."))
	case state.Loading:
		sb.WriteString(loadingStyle.Render(spinner + " Generating summary..."))
	case state.CanSubmit(f.rules):
		sb.WriteString(activeTabStyle.Render("Submit"))
	default:
		sb.WriteString(inactiveTabStyle.Render("Submit"))
	}
	return sb.String()
}

// status shows the character count, the validation problem if there is
// one, and the last submission error.
func (f form) status(state summarize.State) string {
	rules := f.rules.For(f.kind)
	count := fmt.Sprintf("%d / %d", utf8.RuneCountInString(f.value.Value()), rules.CharacterLimit)
	var problem string
	if f.value.Value() != "" {
		if err := f.rules.Validate(f.input()); err != nil {
			problem = errorStyle.Render(errorMessage(err))
		}
	}
	if state.Err != nil {
		problem = errorStyle.Render(errorMessage(state.Err))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, problem, "  ", mutedStyle.Render(count))
}
