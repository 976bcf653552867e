// Package cliscape is a minimalist (by intention) dispatcher over pflag for
// programs that need to support more than one command, or even a hierarchy of
// them (svn/git).
//
// Arguments are declared through Parser.Arg, a thin layer over one
// pflag.FlagSet per command. For single command scripts, be more minimalist
// and just use pflag directly.
package cliscape

import (
	"errors"
	"io"
	"os"

	"github.com/nekomeowww/xo/logger"
	"github.com/spf13/pflag"
)

var (
	// ErrNotImplemented is returned by a Command whose Run was never overridden.
	ErrNotImplemented = errors.New("command run not implemented")

	// ErrNotYetSupported rejects commandish values outside the supported set,
	// most notably vanilla functions.
	ErrNotYetSupported = errors.New("not yet supported")

	// ErrEmptyDescription fires when a command is first described.
	ErrEmptyDescription = errors.New("command description must not be empty")

	// ErrDuplicateCommand fires when a sibling name is registered twice.
	ErrDuplicateCommand = errors.New("duplicate subcommand name")

	// ErrTriplesMismatch fires on malformed Commands input.
	ErrTriplesMismatch = errors.New("names, commands, and titles do not match up")
)

type parserOptions struct {
	description string
	output      io.Writer
	errOutput   io.Writer
	logger      *logger.Logger
	exitFunc    func(int)
	noColor     bool
}

type Option func(*parserOptions)

// WithDescription sets the root context's help description.
func WithDescription(description string) Option {
	return func(o *parserOptions) {
		o.description = description
	}
}

// WithOutput sets the writer help text is printed to. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(o *parserOptions) {
		o.output = w
	}
}

// WithErrOutput sets the writer diagnostics and usage errors are printed to.
// Defaults to stderr.
func WithErrOutput(w io.Writer) Option {
	return func(o *parserOptions) {
		o.errOutput = w
	}
}

// WithLogger enables debug and error logging throughout registration and
// dispatch. Without it the parser stays silent.
func WithLogger(logger *logger.Logger) Option {
	return func(o *parserOptions) {
		o.logger = logger
	}
}

// WithExitFunc replaces os.Exit for the user input error path.
func WithExitFunc(exit func(int)) Option {
	return func(o *parserOptions) {
		o.exitFunc = exit
	}
}

// WithNoColor disables colored help and diagnostic output.
func WithNoColor() Option {
	return func(o *parserOptions) {
		o.noColor = true
	}
}

// New constructs a root Parser owning a fresh parsing context named name.
func New(name string, opts ...Option) *Parser {
	return Wrap(pflag.NewFlagSet(name, pflag.ContinueOnError), opts...)
}

// Wrap adopts an already-constructed flag set as the root parsing context.
// Ownership is exclusive: a flag set must not be shared between Parsers, and
// the caller must not parse it on their own afterwards.
func Wrap(flags *pflag.FlagSet, opts ...Option) *Parser {
	o := &parserOptions{
		output:    os.Stdout,
		errOutput: os.Stderr,
		exitFunc:  os.Exit,
	}

	for _, opt := range opts {
		opt(o)
	}

	flags.SetOutput(io.Discard)

	return &Parser{
		path:        flags.Name(),
		flags:       flags,
		opts:        o,
		description: o.description,
		choices:     make(map[string][]string),
	}
}
