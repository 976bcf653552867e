package cliscape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgDeclaration(t *testing.T) {
	t.Run("DefaultShowsUpInHelp", func(t *testing.T) {
		h := newTestParser("repoctl")
		h.parser.Arg("--format", WithHelp("output format"), WithDefault("short"))

		require.NoError(t, h.parser.Dispatch(nil))
		assert.Contains(t, h.out.String(), "output format (default: short)")
	})

	t.Run("PositionalDefaultShowsUpInHelp", func(t *testing.T) {
		h := newTestParser("repoctl")
		h.parser.Arg("name", WithHelp("remote name"), WithDefault("origin"))

		require.NoError(t, h.parser.Dispatch(nil))
		assert.Contains(t, h.out.String(), "remote name (default: origin)")
		assert.Contains(t, h.out.String(), "[name]")
	})

	t.Run("CallbackRunsWithParserItself", func(t *testing.T) {
		h := newTestParser("repoctl")

		var got *Parser
		h.parser.Arg(func(p *Parser) { got = p })

		assert.Same(t, h.parser, got)
	})

	t.Run("NeitherNameNorCallbackPanics", func(t *testing.T) {
		h := newTestParser("repoctl")

		assert.Panics(t, func() { h.parser.Arg(42) })
	})

	t.Run("ChoicesRequireStringKind", func(t *testing.T) {
		h := newTestParser("repoctl")

		assert.Panics(t, func() {
			h.parser.Arg("--level", WithKind(KindInt), WithChoices("1", "2"))
		})
	})

	t.Run("VariadicFlagPanics", func(t *testing.T) {
		h := newTestParser("repoctl")

		assert.Panics(t, func() { h.parser.Arg("--rest", WithVariadic()) })
	})

	t.Run("PositionalAfterVariadicPanics", func(t *testing.T) {
		h := newTestParser("repoctl")
		h.parser.Arg("rest", WithVariadic())

		assert.Panics(t, func() { h.parser.Arg("more") })
	})

	t.Run("SliceKindPositionalPanics", func(t *testing.T) {
		h := newTestParser("repoctl")

		assert.Panics(t, func() { h.parser.Arg("items", WithKind(KindStrings)) })
	})

	t.Run("CountKindPositionalPanics", func(t *testing.T) {
		h := newTestParser("repoctl")

		assert.Panics(t, func() { h.parser.Arg("level", WithKind(KindCount)) })
	})

	t.Run("TypedVariadicPanics", func(t *testing.T) {
		h := newTestParser("repoctl")

		assert.Panics(t, func() { h.parser.Arg("counts", WithKind(KindInt), WithVariadic()) })
	})

	t.Run("MismatchedDefaultKindPanics", func(t *testing.T) {
		h := newTestParser("repoctl")

		assert.Panics(t, func() {
			h.parser.Arg("--port", WithKind(KindInt), WithDefault("eighty"))
		})
	})
}

func TestBinding(t *testing.T) {
	declareAndDispatch := func(t *testing.T, declare func(arg ArgFunc), argv ...string) (*testHarness, *captureCommand, error) {
		t.Helper()

		h := newTestParser("repoctl")
		cmd := &captureCommand{BaseCommand: BaseCommand{Desc: "Some command."}, declare: declare}
		h.parser.Command("do", cmd, "do something")

		err := h.parser.Dispatch(append([]string{"do"}, argv...))

		return h, cmd, err
	}

	t.Run("IntPositionalCoercion", func(t *testing.T) {
		_, cmd, err := declareAndDispatch(t, func(arg ArgFunc) {
			arg("count", WithKind(KindInt), WithHelp("how many"))
		}, "42")

		require.NoError(t, err)
		assert.Equal(t, 42, cmd.got.Int("count"))
	})

	t.Run("InvalidIntIsUserError", func(t *testing.T) {
		h, cmd, err := declareAndDispatch(t, func(arg ArgFunc) {
			arg("count", WithKind(KindInt))
		}, "many")

		require.Error(t, err)
		assert.Zero(t, cmd.runs)
		assert.Equal(t, []int{2}, h.exits)
	})

	t.Run("MissingRequiredPositionalIsUserError", func(t *testing.T) {
		h, cmd, err := declareAndDispatch(t, func(arg ArgFunc) {
			arg("name")
		})

		require.Error(t, err)
		assert.Zero(t, cmd.runs)
		assert.Equal(t, []int{2}, h.exits)
		assert.Contains(t, h.errOut.String(), "missing required argument <name>")
	})

	t.Run("PositionalDefaultApplies", func(t *testing.T) {
		_, cmd, err := declareAndDispatch(t, func(arg ArgFunc) {
			arg("name", WithDefault("origin"))
		})

		require.NoError(t, err)
		assert.Equal(t, "origin", cmd.got.String("name"))
	})

	t.Run("VariadicCollectsRest", func(t *testing.T) {
		_, cmd, err := declareAndDispatch(t, func(arg ArgFunc) {
			arg("first")
			arg("rest", WithVariadic())
		}, "a", "b", "c")

		require.NoError(t, err)
		assert.Equal(t, "a", cmd.got.String("first"))
		assert.Equal(t, []string{"b", "c"}, cmd.got.Strings("rest"))
	})

	t.Run("UnexpectedArgumentIsUserError", func(t *testing.T) {
		h, cmd, err := declareAndDispatch(t, func(arg ArgFunc) {
			arg("name")
		}, "origin", "extra")

		require.Error(t, err)
		assert.Zero(t, cmd.runs)
		assert.Equal(t, []int{2}, h.exits)
	})

	t.Run("MissingRequiredFlagIsUserError", func(t *testing.T) {
		h, cmd, err := declareAndDispatch(t, func(arg ArgFunc) {
			arg("--url", WithRequired())
		})

		require.Error(t, err)
		assert.Zero(t, cmd.runs)
		assert.Equal(t, []int{2}, h.exits)
	})

	t.Run("RequiredFlagProvided", func(t *testing.T) {
		_, cmd, err := declareAndDispatch(t, func(arg ArgFunc) {
			arg("--url", WithRequired())
		}, "--url", "https://x")

		require.NoError(t, err)
		assert.Equal(t, "https://x", cmd.got.String("url"))
	})

	t.Run("InvalidChoiceIsUserError", func(t *testing.T) {
		h, cmd, err := declareAndDispatch(t, func(arg ArgFunc) {
			arg("--format", WithDefault("short"), WithChoices("short", "full"))
		}, "--format", "yaml")

		require.Error(t, err)
		assert.Zero(t, cmd.runs)
		assert.Equal(t, []int{2}, h.exits)
		assert.Contains(t, h.errOut.String(), "invalid choice")
	})

	t.Run("CountFlag", func(t *testing.T) {
		_, cmd, err := declareAndDispatch(t, func(arg ArgFunc) {
			arg("--verbose", WithKind(KindCount), WithShorthand("v"))
		}, "-vvv")

		require.NoError(t, err)
		assert.Equal(t, 3, cmd.got.Count("verbose"))
	})

	t.Run("FlagsAfterPositionalsAtLeaf", func(t *testing.T) {
		_, cmd, err := declareAndDispatch(t, func(arg ArgFunc) {
			arg("name")
			arg("--fetch", WithKind(KindBool), WithDefault(false))
		}, "origin", "--fetch")

		require.NoError(t, err)
		assert.Equal(t, "origin", cmd.got.String("name"))
		assert.True(t, cmd.got.Bool("fetch"))
	})

	t.Run("GetReturnsPositionalsOnly", func(t *testing.T) {
		_, cmd, err := declareAndDispatch(t, func(arg ArgFunc) {
			arg("name")
			arg("--fetch", WithKind(KindBool), WithDefault(false))
		}, "origin")

		require.NoError(t, err)
		assert.Equal(t, "origin", cmd.got.Get("name").MustGet())
		assert.True(t, cmd.got.Get("fetch").IsAbsent())
	})
}

func TestParentFlags(t *testing.T) {
	t.Run("RootFlagReadableFromCommand", func(t *testing.T) {
		h := newTestParser("repoctl")
		h.parser.Arg("--verbose", WithKind(KindBool), WithDefault(false))
		cmd := &captureCommand{BaseCommand: BaseCommand{Desc: "Some command."}}
		h.parser.Command("do", cmd, "do something")

		require.NoError(t, h.parser.Dispatch([]string{"--verbose", "do"}))
		assert.Equal(t, 1, cmd.runs)
		assert.True(t, cmd.got.Bool("verbose"))
	})

	t.Run("GroupFlagReadableFromNestedCommand", func(t *testing.T) {
		h := newTestParser("repoctl")
		remote := h.parser.Group("remote", "manage remotes", "Manage remotes.")
		remote.Arg("--dry-run", WithKind(KindBool), WithDefault(false))
		cmd := &captureCommand{BaseCommand: BaseCommand{Desc: "Some command."}}
		remote.Command("prune", cmd, "prune stale refs")

		require.NoError(t, h.parser.Dispatch([]string{"remote", "--dry-run", "prune"}))
		assert.True(t, cmd.got.Bool("dry-run"))
	})

	t.Run("RootRequiredFlagEnforcedOnDescent", func(t *testing.T) {
		h := newTestParser("repoctl")
		h.parser.Arg("--token", WithRequired())
		cmd := &captureCommand{BaseCommand: BaseCommand{Desc: "Some command."}}
		h.parser.Command("do", cmd, "do something")

		err := h.parser.Dispatch([]string{"do"})

		require.Error(t, err)
		assert.Zero(t, cmd.runs)
		assert.Equal(t, []int{2}, h.exits)
		assert.Contains(t, h.errOut.String(), "missing required flag --token")
	})

	t.Run("RootChoicesEnforcedOnDescent", func(t *testing.T) {
		h := newTestParser("repoctl")
		h.parser.Arg("--color", WithDefault("auto"), WithChoices("auto", "always", "never"))
		cmd := &captureCommand{BaseCommand: BaseCommand{Desc: "Some command."}}
		h.parser.Command("do", cmd, "do something")

		err := h.parser.Dispatch([]string{"--color", "sometimes", "do"})

		require.Error(t, err)
		assert.Zero(t, cmd.runs)
		assert.Equal(t, []int{2}, h.exits)
	})

	t.Run("CommandFlagShadowsRootFlag", func(t *testing.T) {
		h := newTestParser("repoctl")
		h.parser.Arg("--format", WithDefault("short"))
		cmd := &captureCommand{BaseCommand: BaseCommand{Desc: "Some command."}, declare: func(arg ArgFunc) {
			arg("--format", WithDefault("full"))
		}}
		h.parser.Command("do", cmd, "do something")

		require.NoError(t, h.parser.Dispatch([]string{"do"}))
		assert.Equal(t, "full", cmd.got.String("format"))
	})
}
