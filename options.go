package rawstore

import (
	"io"
	"log/slog"

	"github.com/hupe1980/rawstore/internal/fs"
)

// Options configures a store handle.
type Options struct {
	// FS is the file system used for the directory, descriptor and data
	// file. Defaults to the local file system.
	FS fs.FileSystem

	// Logger receives structured logs for grow operations. Defaults to a
	// logger that discards everything.
	Logger *slog.Logger

	// AllowExisting disables the existence check in Create.
	AllowExisting bool
}

// Option customizes Options.
type Option func(*Options)

// WithFS sets the file system implementation.
func WithFS(fsys fs.FileSystem) Option {
	return func(o *Options) {
		o.FS = fsys
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithAllowExisting lets Create reuse an existing directory instead of
// failing with ErrAlreadyExists.
func WithAllowExisting() Option {
	return func(o *Options) {
		o.AllowExisting = true
	}
}

func applyOptions(opts []Option) *Options {
	o := &Options{
		FS:     fs.Default,
		Logger: noopLogger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func noopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
