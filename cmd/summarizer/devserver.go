package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/a-h/summarizer/auth"
	"github.com/a-h/summarizer/devserver"
	"github.com/a-h/summarizer/logging"
)

type DevServerCommand struct {
	ListenAddr  string        `help:"The address to listen on." env:"LISTEN_ADDR" default:"localhost:8000"`
	Async       bool          `help:"Return from create before the summary is ready, as the production API does." default:"false"`
	Delay       time.Duration `help:"How long summaries take to generate in async mode." default:"2s"`
	TLSCertFile string        `help:"The TLS certificate file." env:"TLS_CERT_FILE" default:""`
	TLSKeyFile  string        `help:"The TLS key file." env:"TLS_KEY_FILE" default:""`
	APIKeysFile string        `help:"The file containing a JSON map of API keys to usernames. If empty, no authentication is required." env:"API_KEYS_FILE" default:""`
	LogLevel    string        `help:"The log level to use." env:"LOG_LEVEL" default:"info"`
}

func (c DevServerCommand) Run(ctx context.Context) (err error) {
	log := logging.New(os.Stderr, c.LogLevel)

	var opts []devserver.Option
	if c.Async {
		opts = append(opts, devserver.WithAsync(c.Delay))
	}
	if c.APIKeysFile != "" {
		apiKeyToUserName, err := auth.LoadFromFile(c.APIKeysFile)
		if err != nil {
			return fmt.Errorf("failed to load API keys: %w", err)
		}
		opts = append(opts, devserver.WithAPIKeys(apiKeyToUserName))
	}

	log.Info("Listening", slog.String("addr", c.ListenAddr), slog.Bool("async", c.Async))
	s := &http.Server{
		Addr:              c.ListenAddr,
		Handler:           devserver.New(log, opts...),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if c.TLSCertFile != "" && c.TLSKeyFile != "" {
		log.Info("Enabling TLS mode")
		var cert tls.Certificate
		cert, err = tls.LoadX509KeyPair(c.TLSCertFile, c.TLSKeyFile)
		if err != nil {
			return fmt.Errorf("failed to load cert: %w", err)
		}
		s.TLSConfig = &tls.Config{
			MinVersion:   tls.VersionTLS12,
			Certificates: []tls.Certificate{cert},
		}
		return s.ListenAndServeTLS(c.TLSCertFile, c.TLSKeyFile)
	}
	return s.ListenAndServe()
}
