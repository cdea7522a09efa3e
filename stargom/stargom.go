// Package stargom binds the object model to Starlark.
//
// Objects reach Starlark as Proxy values (CallableProxy for requests,
// closures and classes); Starlark functions reach native code as Closures.
// Globals persist across Execute calls, as in a REPL. The interpreter itself
// is bound to the global "gom".
package stargom

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"sort"
	"strings"

	gom "github.com/podhmo/go-gom"
	"github.com/podhmo/go-gom/interpreter"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Language is the language name of the Starlark interpreter.
const Language = "starlark"

const tag = "GOMStarlark"

// fileOptions enables the statements a shell needs: top-level control flow,
// global reassignment, while loops and recursion.
var fileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
	Recursion:       true,
}

// Interpreter runs Starlark chunks against the object model. It is not safe
// for concurrent use.
type Interpreter struct {
	interpreter.Core

	thread   *starlark.Thread
	globals  starlark.StringDict
	releases *interpreter.ReleaseQueue
}

// New creates a Starlark interpreter.
func New(options ...interpreter.Option) *Interpreter {
	in := &Interpreter{
		globals:  starlark.StringDict{},
		releases: &interpreter.ReleaseQueue{},
	}
	in.Init(in, in, Language, "star", options...)
	in.thread = &starlark.Thread{
		Name: tag,
		Print: func(_ *starlark.Thread, msg string) {
			fmt.Fprintln(in.Stdout(), msg)
		},
	}
	in.globals["gom"] = in.wrap(in, gom.NonOwning)
	return in
}

// Close drops the globals and performs the pending releases.
func (in *Interpreter) Close() {
	interpreter.Remove(in)
	in.globals = starlark.StringDict{}
	in.CollectGarbage()
}

// Execute runs one chunk. Its top-level bindings become globals.
func (in *Interpreter) Execute(command string, saveInHistory, log bool) error {
	in.releases.Drain()
	if log {
		in.Logger().Info("execute", "command", command)
	}
	err := gom.Guard(tag, func() error {
		f, err := fileOptions.Parse("<exec>", command, 0)
		if err != nil {
			return err
		}
		return starlark.ExecREPLChunk(f, in.thread, in.globals)
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

// Eval evaluates a Starlark expression against the globals.
func (in *Interpreter) Eval(expr string) (gom.Any, error) {
	in.releases.Drain()
	var result gom.Any
	err := gom.Guard(tag, func() error {
		v, err := starlark.EvalOptions(fileOptions, in.thread, "<eval>", expr, in.globals)
		if err != nil {
			return err
		}
		result = in.fromStarlark(v)
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
		in.globals[id] = in.toStarlark(v)
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
	v, ok := in.globals[id]
	if !ok {
		return gom.Any{}
	}
	return in.fromStarlark(v)
}

// ListNames returns the names of the globals, sorted.
func (in *Interpreter) ListNames() []string {
	names := in.globals.Keys()
	sort.Strings(names)
	return names
}

// Complete reports whether src parses. A chunk failing to parse before its
// end is complete as well.
func (in *Interpreter) Complete(src string) bool {
	_, err := fileOptions.Parse("<exec>", src, 0)
	if err == nil {
		return true
	}
	return !strings.Contains(err.Error(), "end of file")
}

// Continues reports whether line continues the statement being read: an
// indented line or an else/elif clause.
func (in *Interpreter) Continues(line string) bool {
	if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
		return true
	}
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "else") || strings.HasPrefix(trimmed, "elif")
}

// CollectGarbage runs the Go collector and performs the releases queued by
// the proxies found unreachable. It returns the number of releases.
func (in *Interpreter) CollectGarbage() int {
	runtime.GC()
	return in.releases.Drain()
}

func (in *Interpreter) engineError(err error) error {
	var pe *gom.PanicError
	if errors.As(err, &pe) {
		return &interpreter.Error{Language: Language, Message: pe.Error()}
	}
	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		e := &interpreter.Error{Language: Language, Message: evalErr.Msg}
		if len(evalErr.CallStack) > 0 {
			e.Source = evalErr.CallStack.At(0).Pos.String()
		}
		return e
	}
	return &interpreter.Error{Language: Language, Message: err.Error()}
}

// Register binds the StarlarkInterpreter and StarlarkClosure classes, and
// the Interpreter class they derive from.
func Register(r *gom.Registry) error {
	if err := interpreter.Register(r); err != nil {
		return err
	}
	c, err := r.DeclareClass(gom.ClassDecl{Name: "StarlarkInterpreter", Super: "Interpreter", GoType: reflect.TypeFor[*Interpreter]()})
	if err != nil {
		return err
	}
	c.Slot("collect_garbage", "index_t", func(target gom.Object, _ *gom.ArgList) (gom.Any, bool) {
		return gom.AnyOf(gom.Index(target.(*Interpreter).CollectGarbage())), true
	})
	_, err = r.DeclareClass(gom.ClassDecl{Name: "StarlarkClosure", Super: "Callable", GoType: reflect.TypeFor[*Closure]()})
	return err
}

var _ interpreter.Interpreter = (*Interpreter)(nil)
