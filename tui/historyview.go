package tui

import (
	"fmt"
	"strings"

	"github.com/a-h/summarizer/history"
	"github.com/a-h/summarizer/models"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"
)

type historyView struct {
	list       history.List
	search     textinput.Model
	searching  bool
	cursor     int
	loading    bool
	loaded     bool
	generation uint64
	deleting   map[int64]bool
	err        error
	width      int
}

func newHistoryView(width int) historyView {
	search := textinput.New()
	search.Placeholder = "Search summaries..."
	search.Prompt = "/ "
	return historyView{
		search:   search,
		deleting: make(map[int64]bool),
		width:    width,
	}
}

// beginRefresh starts a new generation. Responses for older generations
// are ignored.
func (h *historyView) beginRefresh() uint64 {
	h.generation++
	h.loading = true
	h.err = nil
	return h.generation
}

func (h *historyView) applyLoaded(msg historyLoadedMsg) {
	if msg.generation != h.generation {
		return
	}
	h.loading = false
	h.loaded = true
	h.list.Replace(msg.items)
	h.clampCursor()
}

func (h *historyView) applyFailed(msg historyFailedMsg) {
	if msg.generation != h.generation {
		return
	}
	h.loading = false
	h.err = msg.err
}

func (h *historyView) applyDeleted(msg deletedMsg) {
	delete(h.deleting, msg.id)
	if msg.err != nil {
		h.err = msg.err
		return
	}
	h.err = nil
	h.list.Remove(msg.id)
	h.clampCursor()
}

func (h *historyView) filtered() []models.Summary {
	return h.list.Filtered()
}

func (h *historyView) selected() (s models.Summary, ok bool) {
	items := h.filtered()
	if h.cursor < 0 || h.cursor >= len(items) {
		return s, false
	}
	return items[h.cursor], true
}

func (h *historyView) move(delta int) {
	h.cursor += delta
	h.clampCursor()
}

func (h *historyView) clampCursor() {
	n := len(h.filtered())
	if h.cursor >= n {
		h.cursor = n - 1
	}
	if h.cursor < 0 {
		h.cursor = 0
	}
}

func (h *historyView) startSearch() tea.Cmd {
	h.searching = true
	return h.search.Focus()
}

func (h *historyView) stopSearch() {
	h.searching = false
	h.search.Blur()
}

func (h historyView) updateSearch(msg tea.Msg) (historyView, tea.Cmd) {
	var cmd tea.Cmd
	h.search, cmd = h.search.Update(msg)
	h.list.SetTerm(h.search.Value())
	h.clampCursor()
	return h, cmd
}

func (h historyView) view(spinner string) string {
	var sb strings.Builder
	sb.WriteString(h.search.View())
	sb.WriteString("\n\n")

	if h.loading && !h.loaded {
		sb.WriteString(loadingStyle.Render(spinner + " Loading summaries..."))
		return sb.String()
	}

	items := h.filtered()
	if len(items) == 0 {
		if h.list.Term() != "" {
			sb.WriteString(titleStyle.Render("No matching summaries"))
			sb.WriteString("\n")
			sb.WriteString(mutedStyle.Render("Try adjusting your search terms."))
		} else {
			sb.WriteString(titleStyle.Render("No summaries yet"))
			sb.WriteString("\n")
			sb.WriteString(mutedStyle.Render("Create your first summary to get started."))
		}
	}
	for i, item := range items {
		sb.WriteString(h.card(item, i == h.cursor))
		sb.WriteString("\n")
	}

	if h.loading {
		sb.WriteString(loadingStyle.Render(spinner + " Refreshing..."))
		sb.WriteString("\n")
	}
	if h.err != nil {
		sb.WriteString(errorStyle.Render(errorMessage(h.err)))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (h historyView) card(item models.Summary, selected bool) string {
	width := uint(max(h.width-4, 20))
	title := item.DisplayTitle()
	marker := "  "
	if selected {
		marker = "> "
		title = selectedStyle.Render(title)
	}
	meta := humanize.Time(item.CreatedAt)
	if item.URL != "" {
		meta += "  " + item.URL
	}
	if h.deleting[item.ID] {
		meta += "  deleting..."
	}
	summary := item.Summary
	if summary == "" {
		summary = "No summary available"
	}
	line := strings.ReplaceAll(summary, "\n", " ")
	return fmt.Sprintf("%s%s\n%s\n%s\n",
		marker,
		title,
		cardStyle.Render(mutedStyle.Render(truncate.StringWithTail(meta, width, "…"))),
		cardStyle.Render(truncate.StringWithTail(line, width, "…")),
	)
}
