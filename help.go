package cliscape

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/nekomeowww/fo"
	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func (p *Parser) colored(c color.Color, s string) string {
	if p.opts.noColor {
		return s
	}

	return c.Render(s)
}

// PrintHelp writes this context's help text to the configured output writer.
// It is the default action when dispatch selects no command at this level.
func (p *Parser) PrintHelp() {
	p.writeHelp(p.opts.output)
}

func (p *Parser) writeHelp(w io.Writer) {
	may := fo.NewMay[int]().Use(func(err error, _ ...any) {
		if p.opts.logger != nil {
			p.opts.logger.Error("failed to write help",
				zap.String("path", p.path),
				zap.Error(err),
			)
		}
	})

	may.Invoke(fmt.Fprint(w, p.renderHelp()))
}

func (p *Parser) renderHelp() string {
	var b strings.Builder

	if p.description != "" {
		b.WriteString(p.description + "\n\n")
	}

	b.WriteString(p.colored(color.Bold, "Usage:") + "\n  " + p.usageLine() + "\n")

	if p.scope != nil && len(p.scope.order) > 0 {
		b.WriteString("\n" + p.colored(color.Bold, "Commands:") + "\n")

		width := lo.Max(lo.Map(p.scope.order, func(name string, _ int) int { return len(name) }))
		for _, name := range p.scope.order {
			b.WriteString(fmt.Sprintf("  %-*s  %s\n", width, name, p.scope.children[name].title))
		}
	}

	if len(p.positionals) > 0 {
		b.WriteString("\n" + p.colored(color.Bold, "Arguments:") + "\n")

		width := lo.Max(lo.Map(p.positionals, func(s *argSpec, _ int) int { return len(s.name) }))
		for _, pos := range p.positionals {
			b.WriteString(fmt.Sprintf("  %-*s  %s\n", width, pos.name, pos.enrichedHelp()))
		}
	}

	if p.flags.HasAvailableFlags() {
		b.WriteString("\n" + p.colored(color.Bold, "Flags:") + "\n")
		b.WriteString(p.renderFlags())
	}

	return b.String()
}

func (p *Parser) usageLine() string {
	parts := []string{p.path}

	if p.flags.HasAvailableFlags() {
		parts = append(parts, "[flags]")
	}

	for _, pos := range p.positionals {
		switch {
		case pos.variadic:
			parts = append(parts, fmt.Sprintf("[%s...]", pos.name))
		case pos.hasDefault:
			parts = append(parts, fmt.Sprintf("[%s]", pos.name))
		default:
			parts = append(parts, fmt.Sprintf("<%s>", pos.name))
		}
	}

	if p.scope != nil && len(p.scope.order) > 0 {
		parts = append(parts, "<command>")
	}

	return strings.Join(parts, " ")
}

func (p *Parser) renderFlags() string {
	type flagLine struct {
		left  string
		usage string
	}

	lines := make([]flagLine, 0)

	p.flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}

		left := "    --" + f.Name
		if f.Shorthand != "" {
			left = "-" + f.Shorthand + ", --" + f.Name
		}

		lines = append(lines, flagLine{left: left, usage: f.Usage})
	})

	if len(lines) == 0 {
		return ""
	}

	width := lo.Max(lo.Map(lines, func(l flagLine, _ int) int { return len(l.left) }))

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(fmt.Sprintf("  %-*s  %s\n", width, l.left, l.usage))
	}

	return b.String()
}
