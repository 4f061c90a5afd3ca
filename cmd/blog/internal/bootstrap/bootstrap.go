// Package bootstrap loads configuration and builds the blog module for the
// command line.
package bootstrap

import (
	"fmt"
	"io"

	"github.com/goliatone/go-blog"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Options captures what a CLI command needs from the module.
type Options struct {
	Config blog.Config
	// Interactive marks a long running server process, which makes requests
	// eligible for the response cache.
	Interactive    bool
	LogWriter      io.Writer
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the blog module and a CLI scoped logger.
type Module struct {
	Module *blog.Module
	Logger interfaces.Logger
}

// BuildModule constructs the blog module for a command.
func BuildModule(opts Options) (*Module, error) {
	modOpts := []blog.Option{
		blog.WithExecutionContext(blog.ExecutionContext{Interactive: opts.Interactive}),
	}
	if opts.LogWriter != nil {
		modOpts = append(modOpts, blog.WithLogWriter(opts.LogWriter))
	}
	if opts.LoggerProvider != nil {
		modOpts = append(modOpts, blog.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := blog.New(opts.Config, modOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise blog module: %w", err)
	}

	logger := logging.ModuleLogger(module.Container().LoggerProvider(), "blog.cli")
	return &Module{Module: module, Logger: logger}, nil
}
