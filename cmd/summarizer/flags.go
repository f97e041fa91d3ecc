package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/a-h/summarizer/client"
	"github.com/a-h/summarizer/logging"
	"github.com/a-h/summarizer/summarize"
	"gopkg.in/yaml.v3"
)

// ClientFlags are shared by every command that talks to the API.
type ClientFlags struct {
	URL          string        `help:"The URL of the summarizer API." env:"SUMMARIZER_URL" default:"http://localhost:8000"`
	APIKey       string        `help:"The API key for the summarizer API." env:"SUMMARIZER_API_KEY" default:""`
	Timeout      time.Duration `help:"The timeout for each API call, 0 for none." env:"SUMMARIZER_TIMEOUT" default:"30s"`
	Mode         string        `help:"Whether the create response carries the summary (sync), or the summary is fetched until it is ready (poll)." env:"SUMMARIZER_MODE" enum:"sync,poll" default:"poll"`
	PollAttempts int           `help:"The number of fetches to make in poll mode." env:"SUMMARIZER_POLL_ATTEMPTS" default:"10"`
	LogLevel     string        `help:"The log level to use." env:"LOG_LEVEL" default:"info"`
}

func (f ClientFlags) logger() *slog.Logger {
	return logging.New(os.Stderr, f.LogLevel)
}

func (f ClientFlags) client() client.Client {
	return client.New(f.URL, f.APIKey, client.WithTimeout(f.Timeout))
}

func (f ClientFlags) flow(log *slog.Logger, api summarize.API) (*summarize.Flow, error) {
	mode, err := summarize.ParseMode(f.Mode)
	if err != nil {
		return nil, err
	}
	if f.PollAttempts < 1 {
		return nil, fmt.Errorf("poll attempts must be at least 1, got %d", f.PollAttempts)
	}
	return summarize.NewFlow(log, api,
		summarize.WithMode(mode),
		summarize.WithPollAttempts(f.PollAttempts),
	), nil
}

// OutputFlags control how results are printed.
type OutputFlags struct {
	Format string `help:"The output format." enum:"json,yaml" default:"json"`
	Pretty bool   `help:"Pretty print the JSON output." default:"true" negatable:""`
}

func (f OutputFlags) write(w io.Writer, v any) error {
	switch f.Format {
	case "yaml":
		// Round trip through JSON so that the YAML keys match the API.
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		var generic any
		if err = json.Unmarshal(data, &generic); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(generic); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		if f.Pretty {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(v)
	}
}
