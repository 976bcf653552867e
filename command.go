package cliscape

import (
	"fmt"
	"reflect"
	"strings"
)

// ArgFunc declares one argument or flag, bound to the declaring command's own
// parsing context. It is the registrar handed to Command.Arguments.
type ArgFunc func(nameOrFunc any, opts ...ArgOption)

// Command is the contract for application defined commands that link user
// input (declared arguments) to a function.
type Command interface {
	// Arguments declares the command's arguments, one arg call per desired
	// argument or flag, e.g.
	//
	//	arg("param")
	//	arg("--option", WithHelp("changes how the command behaves"))
	Arguments(arg ArgFunc)

	// Description returns the command's full help text. Must be non-empty.
	Description() string

	// Run gets called with the parsed arguments. You will want to override it.
	Run(args *Args) error
}

// ParserConfigurer is an optional interface for commands that need
// customization beyond plain argument declarations, e.g. argument groups.
// When implemented it replaces the Arguments-based declaration path.
type ParserConfigurer interface {
	ConfigureParser(p *Parser)
}

// BaseCommand carries the Command defaults: no arguments, a fixed
// description, and a Run that fails with ErrNotImplemented. Embed it and
// override what the command needs.
type BaseCommand struct {
	Desc string
}

func (BaseCommand) Arguments(arg ArgFunc) {}

func (c BaseCommand) Description() string { return c.Desc }

func (BaseCommand) Run(args *Args) error { return ErrNotImplemented }

// makeCommand normalizes commandish into a proper Command instance, allowing
// for easier to read client code while remaining quite strict on what is
// supported: a Command value is used as-is, a func() Command constructor is
// called exactly once and its instance reused for both argument declaration
// and dispatch. Vanilla functions are deliberately rejected.
func makeCommand(commandish any) Command {
	switch c := commandish.(type) {
	case Command:
		return c
	case func() Command:
		return c()
	}

	if reflect.ValueOf(commandish).Kind() == reflect.Func {
		panic(fmt.Errorf("%w: can not yet work with vanilla callables", ErrNotYetSupported))
	}

	panic(fmt.Errorf("unsupported commandish %T", commandish))
}

// describe reads the command description, failing fast when it is empty.
func describe(cmd Command) string {
	description := cmd.Description()
	if strings.TrimSpace(description) == "" {
		panic(fmt.Errorf("%w: %T", ErrEmptyDescription, cmd))
	}

	return description
}
