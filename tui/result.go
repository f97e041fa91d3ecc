package tui

import (
	"strings"

	"github.com/a-h/summarizer/models"
	"github.com/a-h/summarizer/summarize"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"
)

type result struct {
	viewport viewport.Model
	width    int
}

func newResult(width, height int) result {
	return result{
		viewport: viewport.New(width, height),
		width:    width,
	}
}

func (r *result) setSize(width, height int) {
	r.width = width
	r.viewport.Width = width
	r.viewport.Height = height
}

// show renders the input and the summary together, so that they always
// change at the same time.
func (r *result) show(in summarize.Input, s *models.Summary) {
	r.viewport.SetContent(renderResult(in, s, r.width))
	r.viewport.GotoTop()
}

func (r result) update(msg tea.Msg) (result, tea.Cmd) {
	var cmd tea.Cmd
	r.viewport, cmd = r.viewport.Update(msg)
	return r, cmd
}

func (r result) view() string {
	return r.viewport.View()
}

func renderResult(in summarize.Input, s *models.Summary, width int) string {
	if s == nil {
		return mutedStyle.Render("No summary selected.\n\nCreate a new summary or select one from your history to view it here.")
	}
	wrap := max(width-4, 20)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(s.DisplayTitle()))
	sb.WriteString("\n")
	var meta []string
	if !s.CreatedAt.IsZero() {
		meta = append(meta, humanize.Time(s.CreatedAt))
	}
	if s.URL != "" {
		meta = append(meta, linkStyle.Render(s.URL))
	}
	sb.WriteString(mutedStyle.Render(strings.Join(meta, "  ")))
	sb.WriteString("\n")

	if in.Value != "" {
		sb.WriteString(sectionStyle.Render(labelStyle.Render("Prompt") + "\n" + wordwrap.String(in.Value, wrap)))
		sb.WriteString("\n")
	}

	summary := s.Summary
	if summary == "" {
		summary = "No summary available"
	}
	sb.WriteString(summaryStyle.Render(labelStyle.Render("Summary") + "\n" + wordwrap.String(summary, wrap)))
	sb.WriteString("\n")

	if s.Keywords != "" {
		sb.WriteString(sectionStyle.Render(labelStyle.Render("Keywords") + "\n" + keywordStyle.Render(wordwrap.String(s.Keywords, wrap))))
		sb.WriteString("\n")
	}
	return sb.String()
}
