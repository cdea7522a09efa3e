package stargom

import (
	gom "github.com/podhmo/go-gom"
	"go.starlark.net/starlark"
)

// fromStarlark returns the generic value of v. Ints become int, floats
// double, callables Closures, dicts named argument lists and lists or
// tuples unnamed ones.
func (in *Interpreter) fromStarlark(v starlark.Value) gom.Any {
	switch v := v.(type) {
	case nil, starlark.NoneType:
		return gom.Any{}
	case starlark.Bool:
		return gom.AnyOf(bool(v))
	case starlark.Int:
		if n, ok := v.Int64(); ok {
			return gom.AnyOf(int(n))
		}
		f, _ := starlark.AsFloat(v)
		return gom.AnyOf(f)
	case starlark.Float:
		return gom.AnyOf(float64(v))
	case starlark.String:
		return gom.AnyOf(string(v))
	case *Proxy:
		return gom.ObjectAny(v.object)
	case CallableProxy:
		return gom.ObjectAny(v.object)
	case *starlark.Dict:
		args := gom.NewArgList()
		for _, item := range v.Items() {
			name, ok := starlark.AsString(item[0])
			if !ok {
				name = item[0].String()
			}
			args.Set(name, in.fromStarlark(item[1]))
		}
		return gom.MakeAny(gom.ArgListType, args)
	case starlark.Indexable:
		args := gom.NewArgList()
		for i := 0; i < v.Len(); i++ {
			args.AddUnnamed(in.fromStarlark(v.Index(i)))
		}
		return gom.MakeAny(gom.ArgListType, args)
	case starlark.Callable:
		return gom.ObjectAny(in.newClosure(v))
	}
	in.Logger().Warn("unsupported Starlark value", "type", v.Type())
	return gom.Any{}
}

// toStarlark returns the Starlark value of a. Closures give back their
// function. Argument lists become lists when all values are unnamed and
// dicts otherwise.
func (in *Interpreter) toStarlark(a gom.Any) starlark.Value {
	switch v := gom.Generic(a).(type) {
	case nil:
		return starlark.None
	case bool:
		return starlark.Bool(v)
	case int64:
		return starlark.MakeInt64(v)
	case float64:
		return starlark.Float(v)
	case string:
		return starlark.String(v)
	case *Closure:
		if v.in == in {
			return v.fn
		}
		return in.wrap(v, gom.Owning)
	case gom.Object:
		return in.wrap(v, gom.Owning)
	case *gom.ArgList:
		return in.argsToStarlark(v)
	}
	return starlark.None
}

func (in *Interpreter) argsToStarlark(args *gom.ArgList) starlark.Value {
	unnamed := true
	for _, name := range args.Names() {
		if !gom.IsUnnamedArgName(name) {
			unnamed = false
			break
		}
	}
	if unnamed {
		elems := make([]starlark.Value, 0, args.Len())
		for i := 0; i < args.Len(); i++ {
			elems = append(elems, in.toStarlark(args.Value(i)))
		}
		return starlark.NewList(elems)
	}
	d := starlark.NewDict(args.Len())
	for i := 0; i < args.Len(); i++ {
		d.SetKey(starlark.String(args.Name(i)), in.toStarlark(args.Value(i)))
	}
	return d
}

// argsFromStarlark builds the argument list of a call: positional values
// unnamed, keyword arguments named. A single dict with string keys only is
// a name/value call.
func (in *Interpreter) argsFromStarlark(args starlark.Tuple, kwargs []starlark.Tuple) *gom.ArgList {
	list := gom.NewArgList()
	if len(args) == 1 && len(kwargs) == 0 {
		if d, ok := args[0].(*starlark.Dict); ok && isNameValueDict(d) {
			for _, item := range d.Items() {
				name, _ := starlark.AsString(item[0])
				list.Set(name, in.fromStarlark(item[1]))
			}
			return list
		}
	}
	for _, v := range args {
		list.AddUnnamed(in.fromStarlark(v))
	}
	for _, kv := range kwargs {
		name, _ := starlark.AsString(kv[0])
		list.Set(name, in.fromStarlark(kv[1]))
	}
	return list
}

func isNameValueDict(d *starlark.Dict) bool {
	for _, k := range d.Keys() {
		if _, ok := k.(starlark.String); !ok {
			return false
		}
	}
	return true
}

// callArgs is the converse of argsFromStarlark for native-to-script
// calls: a name/value list is passed as keyword arguments.
func (in *Interpreter) callArgs(args *gom.ArgList) (starlark.Tuple, []starlark.Tuple) {
	if gom.IsNameValueCall(args) {
		kwargs := make([]starlark.Tuple, 0, args.Len())
		for i := 0; i < args.Len(); i++ {
			kwargs = append(kwargs, starlark.Tuple{starlark.String(args.Name(i)), in.toStarlark(args.Value(i))})
		}
		return nil, kwargs
	}
	positional := make(starlark.Tuple, 0, args.Len())
	for i := 0; i < args.Len(); i++ {
		positional = append(positional, in.toStarlark(args.Value(i)))
	}
	return positional, nil
}
