package cliscape

import (
	"github.com/samber/mo"
	"github.com/spf13/pflag"
)

// Args is the parsed-arguments record handed to a command's Run: the bound
// positionals of the selected context plus the flag values of every context
// on the matched path, so flags declared on a parent stay readable from the
// leaf. It is created fresh per Dispatch call and discarded after the action
// returns.
type Args struct {
	flagSets []*pflag.FlagSet
	values   map[string]any
}

// Get returns a positional's raw value by name.
func (a *Args) Get(name string) mo.Option[any] {
	v, ok := a.values[name]
	if !ok {
		return mo.None[any]()
	}

	return mo.Some(v)
}

// Flags exposes the selected context's own flag set for advanced use.
func (a *Args) Flags() *pflag.FlagSet { return a.flagSets[0] }

// lookupFlags finds the nearest context on the matched path that declares
// the named flag. A declaration on a deeper context shadows its ancestors'.
func (a *Args) lookupFlags(name string) (*pflag.FlagSet, bool) {
	for _, fs := range a.flagSets {
		if fs.Lookup(name) != nil {
			return fs, true
		}
	}

	return nil, false
}

func (a *Args) String(name string) string {
	if v, ok := a.values[name]; ok {
		s, _ := v.(string)
		return s
	}

	fs, ok := a.lookupFlags(name)
	if !ok {
		return ""
	}

	v, _ := fs.GetString(name)

	return v
}

func (a *Args) Int(name string) int {
	if v, ok := a.values[name]; ok {
		n, _ := v.(int)
		return n
	}

	fs, ok := a.lookupFlags(name)
	if !ok {
		return 0
	}

	v, _ := fs.GetInt(name)

	return v
}

func (a *Args) Bool(name string) bool {
	if v, ok := a.values[name]; ok {
		b, _ := v.(bool)
		return b
	}

	fs, ok := a.lookupFlags(name)
	if !ok {
		return false
	}

	v, _ := fs.GetBool(name)

	return v
}

func (a *Args) Float64(name string) float64 {
	if v, ok := a.values[name]; ok {
		f, _ := v.(float64)
		return f
	}

	fs, ok := a.lookupFlags(name)
	if !ok {
		return 0
	}

	v, _ := fs.GetFloat64(name)

	return v
}

func (a *Args) Strings(name string) []string {
	if v, ok := a.values[name]; ok {
		s, _ := v.([]string)
		return s
	}

	fs, ok := a.lookupFlags(name)
	if !ok {
		return nil
	}

	v, _ := fs.GetStringSlice(name)

	return v
}

func (a *Args) Count(name string) int {
	fs, ok := a.lookupFlags(name)
	if !ok {
		return 0
	}

	v, _ := fs.GetCount(name)

	return v
}
