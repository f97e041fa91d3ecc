package devserver

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/a-h/summarizer/models"
)

func NewStore(now func() time.Time) *Store {
	return &Store{
		now:    now,
		nextID: 1,
	}
}

// Store holds summaries in memory, ordered by id.
type Store struct {
	m      sync.Mutex
	now    func() time.Time
	nextID int64
	items  []models.Summary
}

func (s *Store) Create(req models.SummaryCreateRequest) models.Summary {
	s.m.Lock()
	defer s.m.Unlock()
	item := models.Summary{
		ID:        s.nextID,
		Title:     req.Title,
		URL:       req.URL,
		Content:   req.Content,
		CreatedAt: s.now(),
	}
	s.nextID++
	s.items = append(s.items, item)
	return item
}

// FindRecentByURL returns the newest summary of url created within maxAge.
func (s *Store) FindRecentByURL(url string, maxAge time.Duration) (item models.Summary, ok bool) {
	s.m.Lock()
	defer s.m.Unlock()
	for i := len(s.items) - 1; i >= 0; i-- {
		if s.items[i].URL != url {
			continue
		}
		if s.now().Sub(s.items[i].CreatedAt) < maxAge {
			return s.items[i], true
		}
		return item, false
	}
	return item, false
}

// Complete fills in the generated fields. A title given at creation is kept.
func (s *Store) Complete(id int64, title, summary, keywords string) (item models.Summary, ok bool) {
	s.m.Lock()
	defer s.m.Unlock()
	i := s.index(id)
	if i < 0 {
		return item, false
	}
	if s.items[i].Title == "" {
		s.items[i].Title = title
	}
	s.items[i].Summary = summary
	s.items[i].Keywords = keywords
	updated := s.now()
	s.items[i].UpdatedAt = &updated
	return s.items[i], true
}

func (s *Store) Get(id int64) (item models.Summary, ok bool) {
	s.m.Lock()
	defer s.m.Unlock()
	i := s.index(id)
	if i < 0 {
		return item, false
	}
	return s.items[i], true
}

func (s *Store) List(skip, limit int) []models.Summary {
	s.m.Lock()
	defer s.m.Unlock()
	if skip >= len(s.items) {
		return []models.Summary{}
	}
	limit = min(limit, len(s.items)-skip)
	return slices.Clone(s.items[skip : skip+limit])
}

func (s *Store) Delete(id int64) (item models.Summary, ok bool) {
	s.m.Lock()
	defer s.m.Unlock()
	i := s.index(id)
	if i < 0 {
		return item, false
	}
	item = s.items[i]
	s.items = slices.Delete(s.items, i, i+1)
	return item, true
}

// SearchByKeyword matches the keyword against each summary's title and
// keywords, ignoring case.
func (s *Store) SearchByKeyword(keyword string) []models.Summary {
	s.m.Lock()
	defer s.m.Unlock()
	keyword = strings.ToLower(keyword)
	var matches []models.Summary
	for _, item := range s.items {
		if strings.Contains(strings.ToLower(item.Title), keyword) || strings.Contains(strings.ToLower(item.Keywords), keyword) {
			matches = append(matches, item)
		}
	}
	return matches
}

func (s *Store) index(id int64) int {
	return slices.IndexFunc(s.items, func(item models.Summary) bool { return item.ID == id })
}
