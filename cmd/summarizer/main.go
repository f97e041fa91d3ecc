package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/a-h/summarizer/logging"
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

type CLI struct {
	Create    CreateCommand    `cmd:"create" help:"Summarize a URL or a piece of content."`
	Text      TextCommand      `cmd:"text" help:"Summarize text without storing it."`
	Get       GetCommand       `cmd:"get" help:"Get a summary by ID."`
	List      ListCommand      `cmd:"list" help:"List summaries."`
	Search    SearchCommand    `cmd:"search" help:"Find summaries by keyword."`
	Delete    DeleteCommand    `cmd:"delete" help:"Delete a summary."`
	Ping      PingCommand      `cmd:"ping" help:"Check that the summarizer API is up."`
	TUI       TUICommand       `cmd:"tui" help:"Start the terminal user interface."`
	DevServer DevServerCommand `cmd:"dev-server" help:"Start an in-memory summarizer API for local development."`
	Version   VersionCommand   `cmd:"version" help:"Print the version of the summarizer."`
}

func main() {
	// A missing .env file is fine, the environment and flags still apply.
	_ = godotenv.Load()

	var cli CLI
	ctx := context.Background()
	kctx := kong.Parse(&cli, kong.UsageOnError(), kong.BindTo(ctx, (*context.Context)(nil)))
	if err := kctx.Run(); err != nil {
		log := logging.New(os.Stderr, "error")
		log.Error("error", slog.Any("error", err))
		os.Exit(1)
	}
}
