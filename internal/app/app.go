// Package app wires the site loader, the build pipeline and the optional
// preview server into one runnable unit behind the CLI.
package app

import (
	"context"
	"io"
	"log/slog"

	muwanx "github.com/muwanx/muwanx-go"
	"github.com/muwanx/muwanx-go/internal/ctxlog"
	"github.com/muwanx/muwanx-go/internal/hcl"
)

// App encapsulates one build invocation's dependencies and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	loader *hcl.Loader
}

// NewApp constructs an App with an isolated logger.
func NewApp(outW io.Writer, config *Config) *App {
	return &App{
		outW:   outW,
		logger: newLogger(config.LogLevel, config.LogFormat, outW),
		config: config,
		loader: hcl.NewLoader(),
	}
}

// Run loads the site declarations, builds the bundle, and serves it when a
// preview port is configured. It blocks while serving.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	builder, err := a.loader.Load(ctx, a.config.SitePath)
	if err != nil {
		return err
	}
	if a.config.BasePath != "" {
		builder.SetBasePath(a.config.BasePath)
	}

	result, err := builder.Build(ctx, muwanx.BuildOptions{
		OutputDir: a.config.OutputDir,
	})
	if err != nil {
		return err
	}

	if a.config.ServePort > 0 {
		return a.serve(ctx, result)
	}
	return nil
}
