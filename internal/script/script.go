// Package script runs Lua generator scripts. A script emits text for
// one manifest piece through a small global API instead of printing:
// everything emitted is collected into a builder, so script output
// streams through the same pipeline as every other piece.
//
// Script API:
//
//	emit(s)           append a string
//	emitln(s?)        append a string and a newline
//	emit_rune(cp)     append a single code point
//	emit_repeat(s, n) append n copies of a string
//	flush()           force a chunk boundary
package script

import (
	"context"
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/loom/lazytext"
)

// DefaultTimeout bounds one script execution. Generator scripts are
// expected to terminate; a stuck script fails the build rather than
// hanging it.
const DefaultTimeout = 10 * time.Second

// Runner executes Lua generator scripts. A Runner is stateless and
// may be reused; each run gets a fresh Lua state.
type Runner struct {
	timeout time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout sets the per-script execution timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// NewRunner creates a script runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{timeout: DefaultTimeout}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run executes the script file at path and returns the builder holding
// everything it emitted, in emission order.
func (r *Runner) Run(ctx context.Context, path string) (lazytext.Builder, error) {
	return r.run(ctx, path, func(L *lua.LState) error {
		return L.DoFile(path)
	})
}

// RunSource executes script source directly; name appears in Lua
// error messages.
func (r *Runner) RunSource(ctx context.Context, name, source string) (lazytext.Builder, error) {
	return r.run(ctx, name, func(L *lua.LState) error {
		return L.DoString(source)
	})
}

func (r *Runner) run(ctx context.Context, name string, exec func(*lua.LState) error) (lazytext.Builder, error) {
	L := lua.NewState()
	defer L.Close()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	L.SetContext(ctx)

	var b lazytext.Builder
	register(L, &b)

	if err := exec(L); err != nil {
		return lazytext.Empty(), fmt.Errorf("script %s: %w", name, err)
	}
	return b, nil
}

// register installs the emit API. The emitted builder accumulates in
// *out; Lua execution is single-threaded so plain mutation is safe.
func register(L *lua.LState, out *lazytext.Builder) {
	L.SetGlobal("emit", L.NewFunction(func(L *lua.LState) int {
		*out = out.Append(lazytext.FromString(L.CheckString(1)))
		return 0
	}))

	L.SetGlobal("emitln", L.NewFunction(func(L *lua.LState) int {
		s := L.OptString(1, "")
		*out = out.Append(lazytext.FromString(s)).Append(lazytext.FromRune('\n'))
		return 0
	}))

	L.SetGlobal("emit_rune", L.NewFunction(func(L *lua.LState) int {
		*out = out.Append(lazytext.FromRune(rune(L.CheckInt(1))))
		return 0
	}))

	L.SetGlobal("emit_repeat", L.NewFunction(func(L *lua.LState) int {
		s := L.CheckString(1)
		n := L.CheckInt(2)
		if n < 0 {
			L.ArgError(2, "repeat count must not be negative")
			return 0
		}
		*out = out.Append(lazytext.Repeat(lazytext.FromString(s), n))
		return 0
	}))

	L.SetGlobal("flush", L.NewFunction(func(L *lua.LState) int {
		*out = out.Append(lazytext.Flush())
		return 0
	}))
}
