package devserver

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/a-h/respond"
	"github.com/a-h/summarizer/models"
)

// Summaries of the same URL are reused for this long.
const reuseWindow = time.Hour

const defaultLimit = 100

type errorResponse struct {
	Detail string `json:"detail"`
}

func withDetail(w http.ResponseWriter, detail string, status int) {
	respond.WithJSON(w, errorResponse{Detail: detail}, status)
}

func (s *Server) ping(w http.ResponseWriter, r *http.Request) {
	respond.WithJSON(w, models.PingResponse{Ping: "pong!"}, http.StatusOK)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var req models.SummaryCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.log.Error("failed to decode body", slog.Any("error", err))
		respond.WithError(w, "failed to decode body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		withDetail(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if req.URL != "" {
		if existing, ok := s.store.FindRecentByURL(req.URL, reuseWindow); ok {
			s.log.Info("summary already present", slog.Int64("id", existing.ID), slog.String("url", req.URL))
			respond.WithJSON(w, existing, http.StatusCreated)
			return
		}
	}

	item := s.store.Create(req)
	s.log.Info("summary created", slog.Int64("id", item.ID), slog.Bool("async", s.async))
	if !s.async {
		item, _ = s.generate(item)
		respond.WithJSON(w, item, http.StatusCreated)
		return
	}
	time.AfterFunc(s.delay, func() {
		if _, ok := s.generate(item); !ok {
			s.log.Warn("summary deleted before generation finished", slog.Int64("id", item.ID))
		}
	})
	respond.WithJSON(w, item, http.StatusCreated)
}

func (s *Server) generate(item models.Summary) (models.Summary, bool) {
	if item.URL == "" {
		return s.store.Complete(item.ID, "", leadingSentences(item.Content, 2), "")
	}
	title, keywords := splitKeywords(urlKeywords(item.URL, 6))
	return s.store.Complete(item.ID, title, summarizeURL(item.URL), keywords)
}

func (s *Server) createFromText(w http.ResponseWriter, r *http.Request) {
	var req models.SummaryFromTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.log.Error("failed to decode body", slog.Any("error", err))
		respond.WithError(w, "failed to decode body", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		withDetail(w, "text is required", http.StatusUnprocessableEntity)
		return
	}
	respond.WithJSON(w, models.SummaryFromTextResponse{
		Text:    req.Text,
		Summary: leadingSentences(req.Text, 2),
	}, http.StatusCreated)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	skip, err := queryInt(r, "skip", 0)
	if err != nil {
		withDetail(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	limit, err := queryInt(r, "limit", defaultLimit)
	if err != nil {
		withDetail(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	respond.WithJSON(w, s.store.List(skip, limit), http.StatusOK)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item, ok := s.store.Get(id)
	if !ok {
		withDetail(w, "Summary not found", http.StatusNotFound)
		return
	}
	respond.WithJSON(w, item, http.StatusOK)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item, ok := s.store.Delete(id)
	if !ok {
		withDetail(w, "Summary not found", http.StatusNotFound)
		return
	}
	s.log.Info("summary deleted", slog.Int64("id", id))
	respond.WithJSON(w, item, http.StatusOK)
}

func (s *Server) searchByKeyword(w http.ResponseWriter, r *http.Request) {
	keyword := r.PathValue("keyword")
	matches := s.store.SearchByKeyword(keyword)
	if len(matches) == 0 {
		withDetail(w, fmt.Sprintf("No summaries found with keyword %s", keyword), http.StatusNotFound)
		return
	}
	respond.WithJSON(w, matches, http.StatusOK)
}

func pathID(w http.ResponseWriter, r *http.Request) (id int64, ok bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		withDetail(w, "id must be a positive integer", http.StatusUnprocessableEntity)
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, name string, defaultValue int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return n, nil
}
