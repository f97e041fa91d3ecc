package models

import (
	"encoding/json"
	"errors"
	"time"
)

type Summary struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title,omitempty"`
	URL       string     `json:"url,omitempty"`
	Content   string     `json:"content,omitempty"`
	Summary   string     `json:"summary,omitempty"`
	Keywords  string     `json:"keywords,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// DisplayTitle returns the title, or "Untitled" if there isn't one.
func (s Summary) DisplayTitle() string {
	if s.Title == "" {
		return "Untitled"
	}
	return s.Title
}

// Complete is true once the backend has produced the summary text.
func (s Summary) Complete() bool {
	return s.Summary != ""
}

type summaryJSON Summary

// UnmarshalJSON accepts older payloads that carry the title as key_top.
func (s *Summary) UnmarshalJSON(data []byte) error {
	var v struct {
		summaryJSON
		KeyTop string `json:"key_top"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Summary(v.summaryJSON)
	if s.Title == "" {
		s.Title = v.KeyTop
	}
	return nil
}

var (
	ErrMissingSource   = errors.New("one of url or content is required")
	ErrMultipleSources = errors.New("url and content are mutually exclusive")
)

type SummaryCreateRequest struct {
	URL     string `json:"url,omitempty"`
	Content string `json:"content,omitempty"`
	Title   string `json:"title,omitempty"`
}

func (r SummaryCreateRequest) Validate() error {
	if r.URL == "" && r.Content == "" {
		return ErrMissingSource
	}
	if r.URL != "" && r.Content != "" {
		return ErrMultipleSources
	}
	return nil
}

type SummaryFromTextRequest struct {
	Text string `json:"text"`
}

type SummaryFromTextResponse struct {
	Text    string `json:"text"`
	Summary string `json:"summary"`
}

type PingResponse struct {
	Ping string `json:"ping"`
}
