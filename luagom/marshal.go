package luagom

import (
	gom "github.com/podhmo/go-gom"
	lua "github.com/yuin/gopher-lua"
)

// fromLua returns the generic value of v. Numbers become int or double,
// functions become Closures and tables become argument lists.
func (in *Interpreter) fromLua(v lua.LValue) gom.Any {
	switch v := v.(type) {
	case *lua.LNilType:
		return gom.Any{}
	case lua.LBool:
		return gom.AnyOf(bool(v))
	case lua.LNumber:
		return gom.FromNumber(float64(v))
	case lua.LString:
		return gom.AnyOf(string(v))
	case *lua.LUserData:
		if p, ok := v.Value.(*proxy); ok {
			return gom.ObjectAny(p.object)
		}
	case *lua.LFunction:
		return gom.ObjectAny(in.newClosure(v))
	case *lua.LTable:
		return gom.MakeAny(gom.ArgListType, in.tableToArgs(v))
	}
	in.Logger().Warn("unsupported Lua value", "type", v.Type().String())
	return gom.Any{}
}

// toLua returns the Lua value of a. Closures of this interpreter give back
// their function.
func (in *Interpreter) toLua(a gom.Any) lua.LValue {
	switch v := gom.Generic(a).(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(v)
	case int64:
		return lua.LNumber(v)
	case float64:
		return lua.LNumber(v)
	case string:
		return lua.LString(v)
	case *Closure:
		if v.in == in {
			return v.function()
		}
		return in.wrap(v, gom.Owning)
	case gom.Object:
		return in.wrap(v, gom.Owning)
	case *gom.ArgList:
		return in.argsToTable(v)
	}
	return lua.LNil
}

// tableToArgs converts a table: the array part gives unnamed arguments, the
// string keys named ones.
func (in *Interpreter) tableToArgs(t *lua.LTable) *gom.ArgList {
	args := gom.NewArgList()
	n := t.Len()
	for i := 1; i <= n; i++ {
		args.AddUnnamed(in.fromLua(t.RawGetInt(i)))
	}
	t.ForEach(func(k, v lua.LValue) {
		if s, ok := k.(lua.LString); ok {
			args.Set(string(s), in.fromLua(v))
		}
	})
	return args
}

func (in *Interpreter) argsToTable(args *gom.ArgList) *lua.LTable {
	t := in.L.NewTable()
	for i := 0; i < args.Len(); i++ {
		name := args.Name(i)
		if gom.IsUnnamedArgName(name) {
			t.Append(in.toLua(args.Value(i)))
		} else {
			t.RawSetString(name, in.toLua(args.Value(i)))
		}
	}
	return t
}

// isNameValueTable reports whether t has only string keys.
func isNameValueTable(t *lua.LTable) bool {
	named := true
	t.ForEach(func(k, _ lua.LValue) {
		if _, ok := k.(lua.LString); !ok {
			named = false
		}
	})
	return named
}

// argsFromLua collects the call arguments from stack index first on. A
// single table with string keys only is a name/value call.
func (in *Interpreter) argsFromLua(L *lua.LState, first int) *gom.ArgList {
	top := L.GetTop()
	if top == first {
		if t, ok := L.Get(first).(*lua.LTable); ok && isNameValueTable(t) {
			args := gom.NewArgList()
			t.ForEach(func(k, v lua.LValue) {
				args.Set(string(k.(lua.LString)), in.fromLua(v))
			})
			return args
		}
	}
	args := gom.NewArgList()
	for i := first; i <= top; i++ {
		args.AddUnnamed(in.fromLua(L.Get(i)))
	}
	return args
}

// argsToLua is the converse of argsFromLua for native-to-Lua calls.
func (in *Interpreter) argsToLua(args *gom.ArgList) []lua.LValue {
	if gom.IsNameValueCall(args) {
		return []lua.LValue{in.argsToTable(args)}
	}
	values := make([]lua.LValue, 0, args.Len())
	for i := 0; i < args.Len(); i++ {
		values = append(values, in.toLua(args.Value(i)))
	}
	return values
}
