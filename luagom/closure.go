package luagom

import (
	"fmt"
	"runtime"

	gom "github.com/podhmo/go-gom"
	"github.com/podhmo/go-gom/interpreter"
	lua "github.com/yuin/gopher-lua"
)

// Closure is a Lua function seen from native code. The function is kept in
// the registry table gom_lua_targets under a per-interpreter increasing id,
// and removed when the Closure is destroyed or collected.
type Closure struct {
	gom.ObjectBase
	in *Interpreter
	id int
}

func (in *Interpreter) newClosure(fn *lua.LFunction) *Closure {
	in.nextID++
	c := &Closure{in: in, id: in.nextID}
	gom.InitTransient(c)
	in.targets.RawSetInt(c.id, fn)

	q, targets := in.releases, in.targets
	runtime.AddCleanup(c, func(id int) {
		q.Push(func() { targets.RawSetInt(id, lua.LNil) })
	}, c.id)
	return c
}

// TargetID returns the key of the function in gom_lua_targets.
func (c *Closure) TargetID() int { return c.id }

func (c *Closure) function() lua.LValue {
	return c.in.targets.RawGetInt(c.id)
}

// Call calls the function with args and returns its first result. A
// name/value argument list is passed as a single table.
func (c *Closure) Call(args *gom.ArgList) (gom.Any, bool) {
	in := c.in
	in.releases.Drain()
	fn := c.function()
	if fn == lua.LNil {
		in.Logger().Warn("call of a released closure", "id", c.id)
		return gom.Any{}, false
	}
	if args == nil {
		args = gom.NewArgList()
	}
	var result gom.Any
	err := gom.Guard(tag, func() error {
		if err := in.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, in.argsToLua(args)...); err != nil {
			return err
		}
		result = in.fromLua(in.L.Get(-1))
		in.L.Pop(1)
		return nil
	})
	if err != nil {
		err = in.engineError(err)
		in.DisplayError(fmt.Errorf("closure #%d: %w", c.id, err))
		return gom.Any{}, false
	}
	return result, true
}

// Destroy removes the function from gom_lua_targets.
func (c *Closure) Destroy() {
	c.in.targets.RawSetInt(c.id, lua.LNil)
}

var _ gom.Callable = (*Closure)(nil)
var _ interpreter.Interpreter = (*Interpreter)(nil)
