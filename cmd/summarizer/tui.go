package main

import (
	"context"
	"fmt"
	"os"

	"github.com/a-h/summarizer/logging"
	"github.com/a-h/summarizer/tui"
	tea "github.com/charmbracelet/bubbletea"
)

type TUICommand struct {
	ClientFlags `embed:""`
	LogFile     string `help:"The file to write logs to, the terminal is used by the interface." env:"LOG_FILE" default:"summarizer.log"`
}

func (c TUICommand) Run(ctx context.Context) (err error) {
	f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()
	log := logging.New(f, c.LogLevel)

	api := c.client()
	flow, err := c.flow(log, api)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	p := tea.NewProgram(tui.New(ctx, log, flow, api), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err = p.Run(); err != nil {
		return err
	}
	return nil
}
