package cliscape

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/pflag"
)

// argSpec is one declared argument: either a flag (leading dashes in the
// declared name) or a positional, bound in declaration order.
type argSpec struct {
	name       string
	shorthand  string
	help       string
	kind       Kind
	def        any
	hasDefault bool
	required   bool
	variadic   bool
	choices    []string
}

type ArgOption func(*argSpec)

// WithHelp sets the argument's help text.
func WithHelp(help string) ArgOption {
	return func(s *argSpec) {
		s.help = help
	}
}

// WithDefault sets the argument's default value. The default also gets
// appended to the argument's help text, so it always shows up in --help
// output.
func WithDefault(value any) ArgOption {
	return func(s *argSpec) {
		s.def = value
		s.hasDefault = true
	}
}

// WithKind sets the value type the argument is coerced to. Defaults to
// KindString.
func WithKind(kind Kind) ArgOption {
	return func(s *argSpec) {
		s.kind = kind
	}
}

// WithShorthand sets a one-letter flag alias.
func WithShorthand(shorthand string) ArgOption {
	return func(s *argSpec) {
		s.shorthand = shorthand
	}
}

// WithRequired marks a flag as mandatory.
func WithRequired() ArgOption {
	return func(s *argSpec) {
		s.required = true
	}
}

// WithChoices restricts a string argument to the given values.
func WithChoices(values ...string) ArgOption {
	return func(s *argSpec) {
		s.choices = values
	}
}

// WithVariadic makes a positional consume all remaining tokens. It must be
// declared last.
func WithVariadic() ArgOption {
	return func(s *argSpec) {
		s.variadic = true
	}
}

// Arg declares a single argument on this parser's context, forwarded to the
// underlying flag set: a leading dash makes it a flag, anything else a
// positional. Passing a func(*Parser) as the sole argument instead runs the
// callback with the Parser itself, for customization beyond plain
// declarations.
func (p *Parser) Arg(nameOrFunc any, opts ...ArgOption) {
	switch v := nameOrFunc.(type) {
	case func(*Parser):
		v(p)
		return
	case string:
		p.declare(v, opts...)
		return
	}

	panic(fmt.Errorf("argument name or customization func required, got %T", nameOrFunc))
}

func (p *Parser) declare(name string, opts ...ArgOption) {
	spec := &argSpec{kind: KindString}
	for _, opt := range opts {
		opt(spec)
	}

	if len(spec.choices) > 0 && spec.kind != KindString {
		panic(fmt.Errorf("choices require a string argument, %s is %s", name, spec.kind))
	}

	if strings.HasPrefix(name, "-") {
		spec.name = strings.TrimLeft(name, "-")
		p.declareFlag(spec)

		return
	}

	spec.name = name
	p.declarePositional(spec)
}

func (p *Parser) declareFlag(s *argSpec) {
	if s.variadic {
		panic(fmt.Errorf("flag --%s can not be variadic", s.name))
	}

	help := s.enrichedHelp()

	switch s.kind {
	case KindString:
		p.flags.StringP(s.name, s.shorthand, defValue[string](s), help)
	case KindInt:
		p.flags.IntP(s.name, s.shorthand, defValue[int](s), help)
	case KindBool:
		p.flags.BoolP(s.name, s.shorthand, defValue[bool](s), help)
	case KindFloat64:
		p.flags.Float64P(s.name, s.shorthand, defValue[float64](s), help)
	case KindStrings:
		p.flags.StringSliceP(s.name, s.shorthand, defValue[[]string](s), help)
	case KindCount:
		p.flags.CountP(s.name, s.shorthand, help)
	default:
		panic(fmt.Errorf("unknown argument kind %q", s.kind))
	}

	if s.required {
		p.requiredFlags = append(p.requiredFlags, s.name)
	}
	if len(s.choices) > 0 {
		p.choices[s.name] = s.choices
	}
}

func (p *Parser) declarePositional(s *argSpec) {
	if s.shorthand != "" {
		panic(fmt.Errorf("positional %s can not have a shorthand", s.name))
	}
	if len(p.positionals) > 0 && p.positionals[len(p.positionals)-1].variadic {
		panic(fmt.Errorf("no positional may follow variadic %s", p.positionals[len(p.positionals)-1].name))
	}
	if s.variadic {
		if s.kind != KindString && s.kind != KindStrings {
			panic(fmt.Errorf("kind %s is not valid for variadic <%s>", s.kind, s.name))
		}
	} else {
		switch s.kind {
		case KindString, KindInt, KindBool, KindFloat64:
		default:
			panic(fmt.Errorf("kind %s is not valid for positional <%s>", s.kind, s.name))
		}
	}

	p.positionals = append(p.positionals, s)
}

// enrichedHelp appends the default's representation to the help text, so
// users always see defaults in --help output.
func (s *argSpec) enrichedHelp() string {
	if !s.hasDefault {
		return s.help
	}

	return fmt.Sprintf("%s (default: %v)", s.help, s.def)
}

func (s *argSpec) coerce(token string) (any, error) {
	switch s.kind {
	case KindString:
		return token, nil
	case KindInt:
		v, err := strconv.Atoi(token)
		return v, err
	case KindBool:
		v, err := strconv.ParseBool(token)
		return v, err
	case KindFloat64:
		v, err := strconv.ParseFloat(token, 64)
		return v, err
	default:
		return nil, fmt.Errorf("kind %s is not valid for positional <%s>", s.kind, s.name)
	}
}

// defValue extracts a typed default out of the spec, failing fast on a
// declaration whose default does not match its kind.
func defValue[T any](s *argSpec) T {
	var zero T

	if !s.hasDefault {
		return zero
	}

	v, ok := s.def.(T)
	if !ok {
		panic(fmt.Errorf("default for %s is %T, want %T", s.name, s.def, zero))
	}

	return v
}

// checkFlagConstraints validates required flags and flag choices declared on
// this context against what got parsed into it.
func (p *Parser) checkFlagConstraints() error {
	for _, name := range p.requiredFlags {
		if !p.flags.Changed(name) {
			return fmt.Errorf("missing required flag --%s", name)
		}
	}

	for name, choices := range p.choices {
		if !p.flags.Changed(name) {
			continue
		}

		v, err := p.flags.GetString(name)
		if err != nil {
			return err
		}
		if !lo.Contains(choices, v) {
			return fmt.Errorf("invalid choice %q for --%s (choose from %s)", v, name, strings.Join(choices, ", "))
		}
	}

	return nil
}

// bind assigns the tokens left over after flag parsing to the declared
// positionals and validates required flags and choices. The returned record
// lives for a single dispatch and sees the flags of every context on the
// matched path, nearest first.
func (p *Parser) bind(rest []string, ancestors []*Parser) (*Args, error) {
	if err := p.checkFlagConstraints(); err != nil {
		return nil, err
	}

	values := make(map[string]any, len(p.positionals))

	next := 0
	for _, pos := range p.positionals {
		if pos.variadic {
			values[pos.name] = append([]string{}, rest[next:]...)
			next = len(rest)

			continue
		}

		if next >= len(rest) {
			if pos.hasDefault {
				values[pos.name] = pos.def
				continue
			}

			return nil, fmt.Errorf("missing required argument <%s>", pos.name)
		}

		token := rest[next]
		next++

		if len(pos.choices) > 0 && !lo.Contains(pos.choices, token) {
			return nil, fmt.Errorf("invalid choice %q for <%s> (choose from %s)", token, pos.name, strings.Join(pos.choices, ", "))
		}

		v, err := pos.coerce(token)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q for <%s>: %w", token, pos.name, err)
		}

		values[pos.name] = v
	}

	if next < len(rest) {
		return nil, fmt.Errorf("unexpected argument %q", rest[next])
	}

	flagSets := make([]*pflag.FlagSet, 0, len(ancestors)+1)
	flagSets = append(flagSets, p.flags)
	for i := len(ancestors) - 1; i >= 0; i-- {
		flagSets = append(flagSets, ancestors[i].flags)
	}

	return &Args{flagSets: flagSets, values: values}, nil
}
