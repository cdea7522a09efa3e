package luagom

import (
	"fmt"
	"math"
	"runtime"

	gom "github.com/podhmo/go-gom"
	"github.com/podhmo/go-gom/interpreter"
	"github.com/podhmo/go-gom/scope"
	lua "github.com/yuin/gopher-lua"
)

// proxy is the Go value of an object userdata.
type proxy struct {
	object    gom.Object
	ownership gom.Ownership
}

// wrap returns a userdata for o. An owning proxy holds a reference on o,
// released on the interpreter goroutine once the proxy is collected.
func (in *Interpreter) wrap(o gom.Object, ownership gom.Ownership) lua.LValue {
	if o == nil {
		return lua.LNil
	}
	p := &proxy{object: o, ownership: ownership.Resolve()}
	if p.ownership == gom.Owning {
		o.Ref()
		q := in.releases
		runtime.AddCleanup(p, func(o gom.Object) {
			q.Push(o.Unref)
		}, o)
	}
	ud := in.L.NewUserData()
	ud.Value = p
	in.L.SetMetatable(ud, in.L.GetTypeMetatable(objectTypeName))
	return ud
}

func toProxy(v lua.LValue) (*proxy, bool) {
	ud, ok := v.(*lua.LUserData)
	if !ok {
		return nil, false
	}
	p, ok := ud.Value.(*proxy)
	return p, ok
}

func checkProxy(L *lua.LState, n int) *proxy {
	p, ok := toProxy(L.Get(n))
	if !ok {
		L.ArgError(n, "gom object expected")
	}
	return p
}

// guard runs fn across the boundary and turns its error into a Lua error.
func (in *Interpreter) guard(L *lua.LState, fn func() error) {
	if err := gom.Guard(tag, fn); err != nil {
		L.RaiseError("%s", err.Error())
	}
}

func (in *Interpreter) index(L *lua.LState) int {
	p := checkProxy(L, 1)
	key := L.Get(2)
	var result lua.LValue = lua.LNil
	in.guard(L, func() error {
		switch key := key.(type) {
		case lua.LNumber:
			i, err := elementIndex(p.object, key)
			if err != nil {
				return err
			}
			v, ok := p.object.GetElement(i)
			if !ok {
				return fmt.Errorf("%s[%d]: %w", gom.ObjectString(p.object), i, gom.ErrNotFound)
			}
			result = in.toLua(v)
		case lua.LString:
			v, err := in.attribute(p.object, string(key))
			if err != nil {
				return err
			}
			result = v
		default:
			return fmt.Errorf("invalid key %s for %s", key.String(), gom.ObjectString(p.object))
		}
		return nil
	})
	L.Push(result)
	return 1
}

// attribute resolves name on o: a property, then a method (as a Request),
// then a name of a Scope, then a member of a MetaClass, then the interface
// scope "I".
func (in *Interpreter) attribute(o gom.Object, name string) (lua.LValue, error) {
	c := o.MetaClass()
	if c == nil {
		return nil, fmt.Errorf("%s has no meta class", gom.ObjectString(o))
	}
	if c.FindProperty(name) != nil {
		v, _ := o.GetProperty(name)
		return in.toLua(v), nil
	}
	if m := c.FindMethod(name); m != nil && m.Kind() != gom.ConstructorKind {
		ownership := gom.Owning
		if _, ok := o.(interpreter.Interpreter); ok {
			ownership = gom.NonOwning
		}
		return in.wrap(gom.NewRequest(o, m, ownership), gom.Owning), nil
	}
	if s, ok := o.(gom.Scope); ok {
		if v := s.Resolve(name); !v.IsEmpty() {
			return in.toLua(v), nil
		}
	}
	if mc, ok := o.(*gom.MetaClass); ok {
		if m := mc.FindMember(name); m != nil {
			return in.wrap(m, gom.Owning), nil
		}
	}
	if name == "I" {
		return in.wrap(scope.NewInterfaceScope(o), gom.Owning), nil
	}
	if _, ok := o.(gom.Scope); ok {
		return lua.LNil, nil
	}
	return nil, fmt.Errorf("%s has no attribute %q: %w", gom.ObjectString(o), name, gom.ErrNotFound)
}

func (in *Interpreter) newIndex(L *lua.LState) int {
	p := checkProxy(L, 1)
	key := L.Get(2)
	value := L.Get(3)
	in.guard(L, func() error {
		v := in.fromLua(value)
		switch key := key.(type) {
		case lua.LNumber:
			i, err := elementIndex(p.object, key)
			if err != nil {
				return err
			}
			if !p.object.SetElement(i, v) {
				return fmt.Errorf("cannot set %s[%d]", gom.ObjectString(p.object), i)
			}
		case lua.LString:
			if !p.object.SetProperty(string(key), v) {
				return fmt.Errorf("cannot set %s.%s", gom.ObjectString(p.object), string(key))
			}
		default:
			return fmt.Errorf("invalid key %s for %s", key.String(), gom.ObjectString(p.object))
		}
		return nil
	})
	return 0
}

// elementIndex returns key as an element index; it must be integral.
func elementIndex(o gom.Object, key lua.LNumber) (int, error) {
	f := float64(key)
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid index %s for %s", key.String(), gom.ObjectString(o))
	}
	return int(f), nil
}

func (in *Interpreter) length(L *lua.LState) int {
	p := checkProxy(L, 1)
	var n int
	in.guard(L, func() error {
		n = p.object.NbElements()
		return nil
	})
	L.Push(lua.LNumber(n))
	return 1
}

// call calls a Callable (Request, closure), or creates an instance when the
// object is a MetaClass. A Request is already bound to its target, so methods
// are called with dot syntax: obj.method(...).
func (in *Interpreter) call(L *lua.LState) int {
	p := checkProxy(L, 1)
	args := in.argsFromLua(L, 2)

	var result lua.LValue = lua.LNil
	in.guard(L, func() error {
		switch o := p.object.(type) {
		case gom.Callable:
			v, ok := o.Call(args)
			if !ok {
				return fmt.Errorf("call to %s failed", gom.ObjectString(o))
			}
			result = in.toLua(v)
		case *gom.MetaClass:
			created := o.Create(args)
			if created == nil {
				return fmt.Errorf("cannot create %s", o.Name())
			}
			result = in.wrap(created, gom.Owning)
		default:
			return fmt.Errorf("%s is not callable", gom.ObjectString(o))
		}
		return nil
	})
	L.Push(result)
	return 1
}

func (in *Interpreter) compareWith(test func(c int) bool) lua.LGFunction {
	return func(L *lua.LState) int {
		a := checkProxy(L, 1)
		b, ok := toProxy(L.Get(2))
		if !ok {
			L.RaiseError("cannot compare %s with %s", gom.ObjectString(a.object), L.Get(2).Type().String())
			return 0
		}
		L.Push(lua.LBool(test(a.object.Compare(b.object))))
		return 1
	}
}

func (in *Interpreter) toString(L *lua.LState) int {
	p := checkProxy(L, 1)
	L.Push(lua.LString(gom.ObjectString(p.object)))
	return 1
}
