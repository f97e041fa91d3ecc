package history

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/a-h/summarizer/models"
)

// Filter returns the summaries whose title or summary text contains term,
// ignoring case. An empty term matches everything. Order is preserved.
func Filter(items []models.Summary, term string) []models.Summary {
	term = strings.ToLower(strings.TrimSpace(term))
	filtered := make([]models.Summary, 0, len(items))
	for _, item := range items {
		if term == "" ||
			strings.Contains(strings.ToLower(item.Title), term) ||
			strings.Contains(strings.ToLower(item.Summary), term) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// SortNewestFirst returns a copy of items ordered by creation time, newest
// first. Ties keep their original order.
func SortNewestFirst(items []models.Summary) []models.Summary {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b models.Summary) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})
	return sorted
}

// List is the in-memory history.
type List struct {
	items []models.Summary
	term  string
}

func (l *List) Replace(items []models.Summary) {
	l.items = slices.Clone(items)
}

// Remove deletes the entry with the given id, reporting whether one existed.
func (l *List) Remove(id int64) bool {
	i := slices.IndexFunc(l.items, func(s models.Summary) bool { return s.ID == id })
	if i < 0 {
		return false
	}
	l.items = slices.Delete(l.items, i, i+1)
	return true
}

func (l *List) Items() []models.Summary {
	return slices.Clone(l.items)
}

func (l *List) Len() int {
	return len(l.items)
}

func (l *List) SetTerm(term string) {
	l.term = term
}

func (l *List) Term() string {
	return l.term
}

func (l *List) Filtered() []models.Summary {
	return Filter(l.items, l.term)
}

type Lister interface {
	List(ctx context.Context) ([]models.Summary, error)
}

type Deleter interface {
	Delete(ctx context.Context, id int64) error
}

type Backend interface {
	Lister
	Deleter
}

func New(log *slog.Logger, backend Backend) *History {
	return &History{
		log:     log,
		backend: backend,
	}
}

// History keeps a List in step with the backend.
type History struct {
	List
	log     *slog.Logger
	backend Backend
}

// Refresh replaces the list with the backend's. On error the list is left
// as it was.
func (h *History) Refresh(ctx context.Context) error {
	items, err := h.backend.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh history: %w", err)
	}
	h.log.Debug("history refreshed", slog.Int("count", len(items)))
	h.Replace(items)
	return nil
}

// Delete removes the summary from the backend, then from the list. The list
// is not touched if the backend call fails.
func (h *History) Delete(ctx context.Context, id int64) error {
	if err := h.backend.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete summary %d: %w", id, err)
	}
	if !h.Remove(id) {
		h.log.Warn("deleted summary was not in the history", slog.Int64("id", id))
	}
	return nil
}
