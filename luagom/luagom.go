// Package luagom binds the object model to Lua, using gopher-lua.
//
// Objects reach Lua as userdata sharing the "gom_object" metatable, whose
// metamethods route attribute access, indexing, calls and comparisons to
// the object protocol. Lua functions reach native code as Closures. The
// interpreter itself is bound to the global "gom".
package luagom

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"sort"
	"strings"

	gom "github.com/podhmo/go-gom"
	"github.com/podhmo/go-gom/interpreter"
	lua "github.com/yuin/gopher-lua"
)

const (
	// Language is the language name of the Lua interpreter.
	Language = "lua"

	objectTypeName   = "gom_object"
	targetsTableName = "gom_lua_targets"
	tag              = "GOMLua"
)

// Interpreter runs Lua chunks against the object model. It is not safe for
// concurrent use: every call must come from the goroutine owning it.
type Interpreter struct {
	interpreter.Core

	L        *lua.LState
	releases *interpreter.ReleaseQueue
	targets  *lua.LTable
	nextID   int
	closed   bool
}

// New creates a Lua interpreter with the standard libraries opened and the
// object model bound.
func New(options ...interpreter.Option) *Interpreter {
	in := &Interpreter{
		L:        lua.NewState(),
		releases: &interpreter.ReleaseQueue{},
	}
	in.Init(in, in, Language, "lua", options...)

	mt := in.L.NewTypeMetatable(objectTypeName)
	in.L.SetFuncs(mt, map[string]lua.LGFunction{
		"__index":    in.index,
		"__newindex": in.newIndex,
		"__len":      in.length,
		"__call":     in.call,
		"__eq":       in.compareWith(func(c int) bool { return c == 0 }),
		"__lt":       in.compareWith(func(c int) bool { return c < 0 }),
		"__le":       in.compareWith(func(c int) bool { return c <= 0 }),
		"__tostring": in.toString,
	})
	in.targets = in.L.NewTable()
	in.L.G.Registry.RawSetString(targetsTableName, in.targets)

	in.L.SetGlobal("print", in.L.NewFunction(in.print))
	in.L.SetGlobal("gom", in.wrap(in, gom.NonOwning))
	return in
}

// Close releases the Lua state. The interpreter cannot be used afterwards.
// Closing twice is a no-op.
func (in *Interpreter) Close() {
	if in.closed {
		return
	}
	in.closed = true
	interpreter.Remove(in)
	in.CollectGarbage()
	in.L.Close()
}

// Execute runs one chunk in the global environment.
func (in *Interpreter) Execute(command string, saveInHistory, log bool) error {
	in.releases.Drain()
	if log {
		in.Logger().Info("execute", "command", command)
	}
	err := gom.Guard(tag, func() error {
		return in.L.DoString(command)
	})
	if saveInHistory {
		in.AddToHistory(command)
	}
	if err != nil {
		err = in.engineError(err)
		in.DisplayError(err)
		return err
	}
	return nil
}

// Eval evaluates a Lua expression.
func (in *Interpreter) Eval(expr string) (gom.Any, error) {
	in.releases.Drain()
	var result gom.Any
	err := gom.Guard(tag, func() error {
		fn, err := in.L.LoadString("return " + expr)
		if err != nil {
			return err
		}
		in.L.Push(fn)
		if err := in.L.PCall(0, 1, nil); err != nil {
			return err
		}
		result = in.fromLua(in.L.Get(-1))
		in.L.Pop(1)
		return nil
	})
	if err != nil {
		err = in.engineError(err)
		in.DisplayError(err)
		return gom.Any{}, err
	}
	return result, nil
}

// Bind sets the global id.
func (in *Interpreter) Bind(id string, v gom.Any) {
	err := gom.Guard(tag, func() error {
		in.L.SetGlobal(id, in.toLua(v))
		return nil
	})
	if err != nil {
		in.Logger().Warn("bind failed", "id", id, "error", err)
	}
}

// Resolve returns the global id, or an empty value.
func (in *Interpreter) Resolve(id string) gom.Any {
	if v, ok := in.ResolveGlobalID(id); ok {
		return v
	}
	return in.fromLua(in.L.GetGlobal(id))
}

// ListNames returns the names of the globals, sorted.
func (in *Interpreter) ListNames() []string {
	var names []string
	in.L.G.Global.ForEach(func(k, _ lua.LValue) {
		if s, ok := k.(lua.LString); ok {
			names = append(names, string(s))
		}
	})
	sort.Strings(names)
	return names
}

// Complete reports whether src parses. A chunk failing to parse before its
// end is complete as well: it is executed so that the error is reported.
func (in *Interpreter) Complete(src string) bool {
	_, err := in.L.LoadString(src)
	if err == nil {
		return true
	}
	return !strings.Contains(err.Error(), "at EOF")
}

// Continues returns false: Lua statements are delimited by keywords, not by
// indentation.
func (in *Interpreter) Continues(string) bool { return false }

// CollectGarbage runs the Go collector and performs the releases queued by
// the proxies and closures found unreachable. It returns the number of
// releases performed.
func (in *Interpreter) CollectGarbage() int {
	runtime.GC()
	return in.releases.Drain()
}

func (in *Interpreter) engineError(err error) error {
	var pe *gom.PanicError
	if errors.As(err, &pe) {
		return &interpreter.Error{Language: Language, Message: pe.Error()}
	}
	msg := err.Error()
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) && apiErr.Object != nil {
		msg = apiErr.Object.String()
	}
	return &interpreter.Error{Language: Language, Message: strings.TrimSpace(msg)}
}

func (in *Interpreter) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	fmt.Fprintln(in.Stdout(), strings.Join(parts, "\t"))
	return 0
}

// Register binds the LuaInterpreter and LuaClosure classes, and the
// Interpreter class they derive from.
func Register(r *gom.Registry) error {
	if err := interpreter.Register(r); err != nil {
		return err
	}
	c, err := r.DeclareClass(gom.ClassDecl{Name: "LuaInterpreter", Super: "Interpreter", GoType: reflect.TypeFor[*Interpreter]()})
	if err != nil {
		return err
	}
	c.Slot("collect_garbage", "index_t", func(target gom.Object, _ *gom.ArgList) (gom.Any, bool) {
		return gom.AnyOf(gom.Index(target.(*Interpreter).CollectGarbage())), true
	})
	_, err = r.DeclareClass(gom.ClassDecl{Name: "LuaClosure", Super: "Callable", GoType: reflect.TypeFor[*Closure]()})
	return err
}
