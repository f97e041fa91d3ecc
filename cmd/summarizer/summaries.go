package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/a-h/summarizer/history"
	"github.com/a-h/summarizer/models"
	"github.com/a-h/summarizer/summarize"
)

type CreateCommand struct {
	ClientFlags `embed:""`
	OutputFlags `embed:""`
	Source      string `help:"The URL of the page to summarize."`
	Content     string `help:"The content to summarize and store, instead of a URL."`
	Title       string `help:"An optional title for the summary."`
}

func (c CreateCommand) Run(ctx context.Context) (err error) {
	log := c.logger()
	api := c.client()
	switch {
	case c.Source != "" && c.Content != "":
		return fmt.Errorf("use either --source or --content, not both")
	case c.Content != "":
		// Stored content skips the URL flow, the server validates it.
		req := models.SummaryCreateRequest{Content: c.Content, Title: c.Title}
		log.Info("creating summary from content", slog.Int("length", len(c.Content)))
		s, err := api.Create(ctx, req)
		if err != nil {
			return err
		}
		if !s.Complete() {
			log.Warn("summary is still being generated", slog.Int64("id", s.ID))
		}
		return c.write(os.Stdout, s)
	case c.Source == "":
		return fmt.Errorf("one of --source or --content is required")
	}
	flow, err := c.flow(log, api)
	if err != nil {
		return err
	}
	in := summarize.URLInput(c.Source)
	in.Title = c.Title
	log.Info("creating summary", slog.String("url", in.Value), slog.String("mode", string(flow.Mode())))
	s, err := flow.Submit(ctx, in)
	if err != nil {
		return err
	}
	log.Info("summary created", slog.Int64("id", s.ID))
	return c.write(os.Stdout, s)
}

type TextCommand struct {
	ClientFlags `embed:""`
	OutputFlags `embed:""`
	Text        string `arg:"" help:"The text to summarize, or - to read it from stdin."`
}

func (c TextCommand) Run(ctx context.Context) (err error) {
	log := c.logger()
	flow, err := c.flow(log, c.client())
	if err != nil {
		return err
	}
	text := c.Text
	if text == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(b)
	}
	s, err := flow.Submit(ctx, summarize.TextInput(text))
	if err != nil {
		return err
	}
	return c.write(os.Stdout, models.SummaryFromTextResponse{Text: s.Content, Summary: s.Summary})
}

type GetCommand struct {
	ClientFlags `embed:""`
	OutputFlags `embed:""`
	ID          int64 `arg:"" help:"The ID of the summary."`
}

func (c GetCommand) Run(ctx context.Context) (err error) {
	s, err := c.client().Get(ctx, c.ID)
	if err != nil {
		return err
	}
	return c.write(os.Stdout, s)
}

type ListCommand struct {
	ClientFlags `embed:""`
	OutputFlags `embed:""`
	Filter      string `help:"Only show summaries whose title or summary contains the text, ignoring case."`
	NewestFirst bool   `help:"Sort the summaries by creation time, newest first." default:"false"`
}

func (c ListCommand) Run(ctx context.Context) (err error) {
	h := history.New(c.logger(), c.client())
	if err = h.Refresh(ctx); err != nil {
		return err
	}
	h.SetTerm(c.Filter)
	items := h.Filtered()
	if c.NewestFirst {
		items = history.SortNewestFirst(items)
	}
	return c.write(os.Stdout, items)
}

type SearchCommand struct {
	ClientFlags `embed:""`
	OutputFlags `embed:""`
	Keyword     string `arg:"" help:"The keyword to search for."`
}

func (c SearchCommand) Run(ctx context.Context) (err error) {
	items, err := c.client().SearchByKeyword(ctx, c.Keyword)
	if err != nil {
		return err
	}
	return c.write(os.Stdout, items)
}

type DeleteCommand struct {
	ClientFlags `embed:""`
	ID          int64 `arg:"" help:"The ID of the summary."`
}

func (c DeleteCommand) Run(ctx context.Context) (err error) {
	log := c.logger()
	if err = c.client().Delete(ctx, c.ID); err != nil {
		return fmt.Errorf("failed to delete summary %d: %w", c.ID, err)
	}
	log.Info("summary deleted", slog.Int64("id", c.ID))
	return nil
}

type PingCommand struct {
	ClientFlags `embed:""`
	OutputFlags `embed:""`
}

func (c PingCommand) Run(ctx context.Context) (err error) {
	resp, err := c.client().Ping(ctx)
	if err != nil {
		return err
	}
	return c.write(os.Stdout, resp)
}
