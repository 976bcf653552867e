package cliscape

import (
	"errors"
	"fmt"
	"io"

	"github.com/gookit/color"
	"github.com/nekomeowww/xo"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// Parser owns one parsing context (a pflag.FlagSet) at one level of the
// command tree. Commands and groups registered on it become dispatchable
// subcommands; a Parser with no run action of its own falls back to printing
// its help.
type Parser struct {
	path  string
	flags *pflag.FlagSet
	opts  *parserOptions

	description string

	// scope is lazily materialized on the first Command or Group call and is
	// never materialized twice for the same context.
	scope *scope

	run           func(*Args) error
	positionals   []*argSpec
	requiredFlags []string
	choices       map[string][]string
}

// scope is the sub-dispatcher: the registry of named child contexts under a
// parent context.
type scope struct {
	order    []string
	children map[string]*subcommand
}

type subcommand struct {
	parser *Parser
	title  string
}

func (s *scope) add(name, title string, child *Parser) {
	if _, exists := s.children[name]; exists {
		panic(fmt.Errorf("%w: %s", ErrDuplicateCommand, name))
	}

	s.order = append(s.order, name)
	s.children[name] = &subcommand{parser: child, title: title}
}

func (s *scope) lookup(name string) mo.Option[*Parser] {
	sub, ok := s.children[name]
	if !ok {
		return mo.None[*Parser]()
	}

	return mo.Some(sub.parser)
}

func (p *Parser) ensureScope() *scope {
	if p.scope == nil {
		p.scope = &scope{children: make(map[string]*subcommand)}
	}

	return p.scope
}

func (p *Parser) newChild(name, description string) *Parser {
	path := p.path + " " + name

	flags := pflag.NewFlagSet(path, pflag.ContinueOnError)
	flags.SetOutput(io.Discard)

	return &Parser{
		path:        path,
		flags:       flags,
		opts:        p.opts,
		description: description,
		choices:     make(map[string][]string),
	}
}

// Command declares a subcommand. Its name will be name and its arguments are
// defined by commandish; its help line will be title, while its full help is
// generated from the command description and its declared arguments.
func (p *Parser) Command(name string, commandish any, title string) {
	cmd := makeCommand(commandish)
	child := p.newChild(name, describe(cmd))

	p.ensureScope().add(name, title, child)

	if configurer, ok := cmd.(ParserConfigurer); ok {
		configurer.ConfigureParser(child)
	} else {
		cmd.Arguments(child.Arg)
	}

	child.run = cmd.Run

	if p.opts.logger != nil {
		p.opts.logger.Debug("registered command",
			zap.String("path", child.path),
			zap.String("title", title),
		)
	}
}

// Commands declares more than one command at once, from a flat sequence of
// alternating names, commands and titles. Nothing is registered unless the
// whole sequence is well-formed.
func (p *Parser) Commands(namesCommandsAndTitles ...any) {
	if len(namesCommandsAndTitles)%3 != 0 {
		panic(fmt.Errorf("%w: got %d values, want a multiple of 3", ErrTriplesMismatch, len(namesCommandsAndTitles)))
	}

	triples := lo.Chunk(namesCommandsAndTitles, 3)

	for _, triple := range triples {
		if _, ok := triple[0].(string); !ok {
			panic(fmt.Errorf("%w: name %v is not a string", ErrTriplesMismatch, triple[0]))
		}
		if _, ok := triple[2].(string); !ok {
			panic(fmt.Errorf("%w: title %v is not a string", ErrTriplesMismatch, triple[2]))
		}
	}

	for _, triple := range triples {
		p.Command(triple[0].(string), triple[1], triple[2].(string))
	}
}

// Group declares a command group and returns its Parser for the caller to
// populate with further Command and Group calls. The trailing ellipsis on the
// help line signals further subcommands in listings.
func (p *Parser) Group(name, title, help string) *Parser {
	child := p.newChild(name, help)
	p.ensureScope().add(name, title+"...", child)

	return child
}

// invocation pairs a resolved run action with its parsed-arguments record.
type invocation struct {
	run  func(*Args) error
	args *Args
}

// resolution is the outcome of parsing argv against the tree: the deepest
// matched context, and either a selected action or nothing, in which case
// that context's help is the default.
type resolution struct {
	parser *Parser
	action mo.Option[invocation]
}

func (p *Parser) resolve(argv []string, ancestors []*Parser) (*resolution, error) {
	// An active scope stops flag parsing at the first non-flag token so the
	// subcommand token and everything after it reach the child context
	// untouched. Leaves accept flags anywhere.
	p.flags.SetInterspersed(p.scope == nil)

	if err := p.flags.Parse(argv); err != nil {
		return &resolution{parser: p}, err
	}

	rest := p.flags.Args()
	if p.scope != nil && len(rest) > 0 {
		if child, ok := p.scope.lookup(rest[0]).Get(); ok {
			// This context's own flag constraints still hold when dispatch
			// descends past it.
			if err := p.checkFlagConstraints(); err != nil {
				return &resolution{parser: p}, err
			}

			return child.resolve(rest[1:], append(ancestors, p))
		}
	}

	args, err := p.bind(rest, ancestors)
	if err != nil {
		return &resolution{parser: p}, err
	}

	if p.run == nil {
		return &resolution{parser: p, action: mo.None[invocation]()}, nil
	}

	return &resolution{parser: p, action: mo.Some(invocation{run: p.run, args: args})}, nil
}

// Dispatch parses argv and dispatches to the appropriate command. Argv that
// does not match the declared grammar gets a diagnostic plus usage on the
// error writer, then the configured exit func with code 2. Errors returned by
// the selected command's Run come back unmodified.
func (p *Parser) Dispatch(argv []string) error {
	res, err := p.resolve(argv, nil)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			res.parser.PrintHelp()
			return nil
		}

		res.parser.reportUserError(err)

		return err
	}

	inv, ok := res.action.Get()
	if !ok {
		res.parser.PrintHelp()
		return nil
	}

	if p.opts.logger != nil {
		p.opts.logger.Debug("dispatching",
			zap.String("path", res.parser.path),
			zap.String("argv", xo.SprintJSON(argv)),
		)
	}

	return inv.run(inv.args)
}

func (p *Parser) reportUserError(err error) {
	fmt.Fprintln(p.opts.errOutput, p.colored(color.FgRed, "error: "+err.Error()))
	p.writeHelp(p.opts.errOutput)

	if p.opts.logger != nil {
		p.opts.logger.Error("argument parsing failed",
			zap.String("path", p.path),
			zap.Error(err),
		)
	}

	p.opts.exitFunc(2)
}
