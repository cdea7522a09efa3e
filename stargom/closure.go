package stargom

import (
	"fmt"

	gom "github.com/podhmo/go-gom"
	"go.starlark.net/starlark"
)

// Closure is a Starlark callable seen from native code. The function value
// is held directly; it lives as long as the Closure.
type Closure struct {
	gom.ObjectBase
	in *Interpreter
	fn starlark.Callable
}

func (in *Interpreter) newClosure(fn starlark.Callable) *Closure {
	c := &Closure{in: in, fn: fn}
	gom.InitTransient(c)
	return c
}

// Function returns the Starlark callable.
func (c *Closure) Function() starlark.Callable { return c.fn }

// Call calls the function. A name/value argument list is passed as keyword
// arguments.
func (c *Closure) Call(args *gom.ArgList) (gom.Any, bool) {
	in := c.in
	in.releases.Drain()
	if args == nil {
		args = gom.NewArgList()
	}
	positional, kwargs := in.callArgs(args)
	var result gom.Any
	err := gom.Guard(tag, func() error {
		v, err := starlark.Call(in.thread, c.fn, positional, kwargs)
		if err != nil {
			return err
		}
		result = in.fromStarlark(v)
		return nil
	})
	if err != nil {
		err = in.engineError(err)
		in.DisplayError(fmt.Errorf("%s: %w", c.fn.Name(), err))
		return gom.Any{}, false
	}
	return result, true
}

var _ gom.Callable = (*Closure)(nil)
