// Package app wires the transport, model and output of the fempost tool.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/fempost/internal/ctxlog"
	"github.com/vk/fempost/model"
	"github.com/vk/fempost/transport/httprpc"
)

// Config carries everything the application needs to run once.
type Config struct {
	ServerURL  string
	ResultFile string
	LogFormat  string
	LogLevel   string
}

// App connects to a post-processing server and prints a summary of a
// result file.
type App struct {
	cfg    *Config
	out    io.Writer
	logger *slog.Logger
}

// New assembles an App from a parsed configuration.
func New(cfg *Config, out io.Writer) *App {
	return &App{
		cfg:    cfg,
		out:    out,
		logger: newLogger(os.Stderr, cfg.LogFormat, cfg.LogLevel),
	}
}

// Run opens the result file on the server and prints its summary.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	a.logger.Info("connecting", "server", a.cfg.ServerURL, "result_file", a.cfg.ResultFile)

	client, err := httprpc.New(a.cfg.ServerURL)
	if err != nil {
		return fmt.Errorf("creating transport: %w", err)
	}

	mdl, err := model.New(ctx, model.Config{
		Transport:  client,
		ResultFile: a.cfg.ResultFile,
	})
	if err != nil {
		return fmt.Errorf("opening result file: %w", err)
	}

	summary, err := mdl.Describe(ctx)
	if err != nil {
		return fmt.Errorf("describing model: %w", err)
	}

	fmt.Fprintln(a.out, summary)
	return nil
}
