package gom

import (
	"reflect"
	"strings"
)

// registerCore binds the classes of the object model itself, so that
// scripts can inspect objects, requests, connections and meta types.
func registerCore(r *Registry) error {
	decls := []ClassDecl{
		{Name: "Object"},
		{Name: "Callable", Abstract: true},
		{Name: "Request", Super: "Callable", GoType: reflect.TypeFor[*Request]()},
		{Name: "NativeCallable", Super: "Callable", GoType: reflect.TypeFor[*FuncCallable]()},
		{Name: "Connection", GoType: reflect.TypeFor[*Connection]()},
		{Name: "Scope", Abstract: true},
		{Name: "MetaType", Abstract: true},
		{Name: "MetaBuiltinType", Super: "MetaType", GoType: reflect.TypeFor[*MetaBuiltinType]()},
		{Name: "MetaEnum", Super: "MetaType", GoType: reflect.TypeFor[*MetaEnum]()},
		{Name: "MetaStruct", Super: "MetaType", GoType: reflect.TypeFor[*MetaStruct]()},
		{Name: "MetaClass", Super: "MetaType", GoType: reflect.TypeFor[*MetaClass]()},
		{Name: "MetaMember", Abstract: true},
		{Name: "MetaProperty", Super: "MetaMember", GoType: reflect.TypeFor[*MetaProperty]()},
		{Name: "MetaMethod", Super: "MetaMember", Abstract: true, GoType: reflect.TypeFor[*MetaMethod]()},
		{Name: "MetaSlot", Super: "MetaMethod"},
		{Name: "MetaSignal", Super: "MetaMethod"},
		{Name: "MetaConstructor", Super: "MetaMethod"},
	}
	classes := make(map[string]*MetaClass, len(decls))
	for _, d := range decls {
		c, err := r.DeclareClass(d)
		if err != nil {
			return err
		}
		classes[d.Name] = c
	}

	registerObjectMembers(classes["Object"])
	registerCallableMembers(classes["Callable"], classes["Request"])
	registerConnectionMembers(classes["Connection"])

	classes["Scope"].Slot("resolve", AnyValueType.Name(), func(target Object, args *ArgList) (Any, bool) {
		name, _ := ArgAs[string](args, "name")
		return target.(Scope).Resolve(name), true
	}, Arg("name", "string"))

	registerAttributeSlots(classes["MetaType"])
	registerAttributeSlots(classes["MetaMember"])
	registerMetaTypeMembers(classes)
	return nil
}

func registerObjectMembers(c *MetaClass) {
	c.Property("meta_class", "MetaClass", func(o Object) (Any, bool) {
		return ObjectAny(o.MetaClass()), true
	}, nil)
	c.Property("string_id", "string", func(o Object) (Any, bool) {
		return AnyOf(ObjectString(o)), true
	}, nil)
	c.Property("nb_elements", "index_t", func(o Object) (Any, bool) {
		return AnyOf(Index(o.NbElements())), true
	}, nil)
	c.Slot("is_a", "bool", func(target Object, args *ArgList) (Any, bool) {
		other, _ := ArgAs[*MetaClass](args, "type")
		return AnyOf(target.MetaClass().IsA(other)), true
	}, Arg("type", "MetaClass"))
	c.Slot("get_property", "string", func(target Object, args *ArgList) (Any, bool) {
		name, _ := ArgAs[string](args, "name")
		v, ok := target.GetProperty(name)
		return AnyOf(v.AsString()), ok
	}, Arg("name", "string"))
	c.Slot("set_property", "bool", func(target Object, args *ArgList) (Any, bool) {
		name, _ := ArgAs[string](args, "name")
		v, _ := args.Get("value")
		return AnyOf(target.SetProperty(name, v)), true
	}, Arg("name", "string"), Arg("value", "string"))
}

func registerCallableMembers(callable, request *MetaClass) {
	callable.Slot("call", AnyValueType.Name(), func(target Object, args *ArgList) (Any, bool) {
		inner, _ := ArgAs[*ArgList](args, "args")
		return target.(Callable).Call(inner)
	}, Arg("args", ArgListType.Name()))

	request.Property("object", "Object", func(o Object) (Any, bool) {
		return ObjectAny(o.(*Request).Object()), true
	}, nil)
	request.Property("method", "MetaMethod", func(o Object) (Any, bool) {
		return ObjectAny(o.(*Request).Method()), true
	}, nil)
}

func registerConnectionMembers(c *MetaClass) {
	chain := func(fn func(conn *Connection, args *ArgList)) MethodAdapter {
		return func(target Object, args *ArgList) (Any, bool) {
			conn := target.(*Connection)
			fn(conn, args)
			return ObjectAny(conn), true
		}
	}
	str := func(args *ArgList, name string) string {
		s, _ := ArgAs[string](args, name)
		return s
	}
	c.Property("signal", "string", func(o Object) (Any, bool) {
		return AnyOf(o.(*Connection).Signal()), true
	}, nil)
	c.Property("source", "Object", func(o Object) (Any, bool) {
		return ObjectAny(o.(*Connection).Source()), true
	}, nil)
	c.Slot("if_arg", "Connection", chain(func(conn *Connection, args *ArgList) {
		conn.IfArg(str(args, "name"), str(args, "condition"))
	}), Arg("name", "string"), Arg("condition", "string"))
	c.Slot("add_arg", "Connection", chain(func(conn *Connection, args *ArgList) {
		v, _ := args.Get("value")
		conn.AddArg(str(args, "name"), v)
	}), Arg("name", "string"), Arg("value", "any"))
	c.Slot("rename_arg", "Connection", chain(func(conn *Connection, args *ArgList) {
		conn.RenameArg(str(args, "old_name"), str(args, "new_name"))
	}), Arg("old_name", "string"), Arg("new_name", "string"))
	c.Slot("discard_arg", "Connection", chain(func(conn *Connection, args *ArgList) {
		conn.DiscardArg(str(args, "name"))
	}), Arg("name", "string"))
	c.Slot("remove", "void", func(target Object, _ *ArgList) (Any, bool) {
		target.(*Connection).Remove()
		return Any{}, true
	})
}

type attributed interface {
	Attribute(name string) (string, bool)
	AttributeNames() []string
}

func registerAttributeSlots(c *MetaClass) {
	c.Property("name", "string", func(o Object) (Any, bool) {
		return AnyOf(o.(interface{ Name() string }).Name()), true
	}, nil)
	c.Slot("custom_attribute_value", "string", func(target Object, args *ArgList) (Any, bool) {
		name, _ := ArgAs[string](args, "name")
		v, _ := target.(attributed).Attribute(name)
		return AnyOf(v), true
	}, Arg("name", "string"))
	c.Slot("has_custom_attribute", "bool", func(target Object, args *ArgList) (Any, bool) {
		name, _ := ArgAs[string](args, "name")
		_, ok := target.(attributed).Attribute(name)
		return AnyOf(ok), true
	}, Arg("name", "string"))
	c.Slot("custom_attribute_names", "string", func(target Object, _ *ArgList) (Any, bool) {
		return AnyOf(strings.Join(target.(attributed).AttributeNames(), ";")), true
	})
}

func registerMetaTypeMembers(classes map[string]*MetaClass) {
	enum := classes["MetaEnum"]
	enum.Slot("value", "int64", func(target Object, args *ArgList) (Any, bool) {
		name, _ := ArgAs[string](args, "name")
		v, ok := target.(*MetaEnum).FindValue(name)
		return AnyOf(v), ok
	}, Arg("name", "string"))

	class := classes["MetaClass"]
	class.Property("super_class", "MetaClass", func(o Object) (Any, bool) {
		return ObjectAny(o.(*MetaClass).SuperClass()), true
	}, nil)
	class.Property("is_abstract", "bool", func(o Object) (Any, bool) {
		return AnyOf(o.(*MetaClass).IsAbstract()), true
	}, nil)
	class.Slot("create", "Object", func(target Object, args *ArgList) (Any, bool) {
		inner, _ := ArgAs[*ArgList](args, "args")
		o := target.(*MetaClass).Create(inner)
		return ObjectAny(o), o != nil
	}, Arg("args", ArgListType.Name()))
	class.Slot("is_a", "bool", func(target Object, args *ArgList) (Any, bool) {
		other, _ := ArgAs[*MetaClass](args, "other")
		return AnyOf(target.(*MetaClass).IsA(other)), true
	}, Arg("other", "MetaClass"))
	class.Slot("find_member", "MetaMember", func(target Object, args *ArgList) (Any, bool) {
		name, _ := ArgAs[string](args, "name")
		m := target.(*MetaClass).FindMember(name)
		if m == nil {
			return Any{}, true
		}
		return ObjectAny(m), true
	}, Arg("name", "string"))
	class.Slot("doc", "string", func(target Object, _ *ArgList) (Any, bool) {
		return AnyOf(target.(*MetaClass).Doc()), true
	})
	class.Slot("create_subclass", "MetaClass", func(target Object, args *ArgList) (Any, bool) {
		name, _ := ArgAs[string](args, "name")
		sub, err := target.(*MetaClass).CreateSubclass(name)
		if err != nil {
			TagLogger(target.(*MetaClass).Name()).Warn("cannot create subclass", "error", err)
			return Any{}, false
		}
		return ObjectAny(sub), true
	}, Arg("name", "string"))
	class.Slot("add_slot", "MetaSlot", func(target Object, args *ArgList) (Any, bool) {
		name, _ := ArgAs[string](args, "name")
		action, _ := ArgAs[Callable](args, "action")
		if action == nil {
			return Any{}, false
		}
		m, err := target.(*MetaClass).AddSlot(name, action)
		if err != nil {
			TagLogger(target.(*MetaClass).Name()).Warn("cannot add slot", "error", err)
			return Any{}, false
		}
		return ObjectAny(m), true
	}, Arg("name", "string"), Arg("action", CallableValueType.Name()))
	class.Slot("add_property", "MetaProperty", func(target Object, args *ArgList) (Any, bool) {
		name, _ := ArgAs[string](args, "name")
		typeName, _ := ArgAs[string](args, "type")
		def, _ := args.Get("default")
		c := target.(*MetaClass)
		if t, ok := c.resolveType(typeName); ok && !def.IsEmpty() {
			def, _ = Convert(def, t)
		}
		p, err := c.AddProperty(name, typeName, def)
		if err != nil {
			TagLogger(c.Name()).Warn("cannot add property", "error", err)
			return Any{}, false
		}
		return ObjectAny(p), true
	}, Arg("name", "string"), Arg("type", "string"), ArgWithDefault("default", "any", nil))

	member := classes["MetaMember"]
	member.Property("container", "MetaClass", func(o Object) (Any, bool) {
		return ObjectAny(o.(MetaMember).Container()), true
	}, nil)
	member.Slot("signature", "string", func(target Object, _ *ArgList) (Any, bool) {
		return AnyOf(MemberSignature(target.(MetaMember))), true
	})

	property := classes["MetaProperty"]
	property.Property("type_name", "string", func(o Object) (Any, bool) {
		return AnyOf(o.(*MetaProperty).TypeName()), true
	}, nil)
	property.Property("read_only", "bool", func(o Object) (Any, bool) {
		return AnyOf(o.(*MetaProperty).IsReadOnly()), true
	}, nil)

	method := classes["MetaMethod"]
	method.Property("return_type", "string", func(o Object) (Any, bool) {
		return AnyOf(o.(*MetaMethod).ReturnType()), true
	}, nil)
	method.Property("nb_args", "index_t", func(o Object) (Any, bool) {
		return AnyOf(Index(o.(*MetaMethod).NbArgs())), true
	}, nil)
	argAt := func(fn func(a MetaArg) Any) MethodAdapter {
		return func(target Object, args *ArgList) (Any, bool) {
			i, _ := ArgAs[Index](args, "index")
			m := target.(*MetaMethod)
			if int(i) >= len(m.args) {
				return Any{}, false
			}
			return fn(m.args[i]), true
		}
	}
	method.Slot("arg_name", "string", argAt(func(a MetaArg) Any { return AnyOf(a.Name) }), Arg("index", "index_t"))
	method.Slot("arg_type_name", "string", argAt(func(a MetaArg) Any { return AnyOf(a.TypeName) }), Arg("index", "index_t"))
	method.Slot("arg_has_default", "bool", argAt(func(a MetaArg) Any { return AnyOf(a.HasDefault()) }), Arg("index", "index_t"))
	method.Slot("arg_default", "string", argAt(func(a MetaArg) Any { return AnyOf(a.Default.AsString()) }), Arg("index", "index_t"))
}
