package interpreter

import (
	"strings"

	gom "github.com/podhmo/go-gom"
	"github.com/podhmo/go-gom/scope"
)

// Register binds the Interpreter class and the scope classes. Bridges
// declare their concrete classes with Interpreter as superclass and call
// it first; registering twice is a no-op.
func Register(r *gom.Registry) error {
	if _, ok := r.ResolveClass("Interpreter"); ok {
		return nil
	}
	if err := scope.Register(r); err != nil {
		return err
	}
	c, err := r.DeclareClass(gom.ClassDecl{Name: "Interpreter", Abstract: true})
	if err != nil {
		return err
	}

	self := func(o gom.Object) Interpreter { return o.(Interpreter) }
	core := func(o gom.Object) *Core { return o.(interface{ core() *Core }).core() }
	str := func(args *gom.ArgList, name string) string {
		s, _ := gom.ArgAs[string](args, name)
		return s
	}

	c.Property("language", "string", func(o gom.Object) (gom.Any, bool) {
		return gom.AnyOf(self(o).Language()), true
	}, nil)
	c.Property("filename_extension", "string", func(o gom.Object) (gom.Any, bool) {
		return gom.AnyOf(self(o).FilenameExtension()), true
	}, nil)
	c.Property("history", "string", func(o gom.Object) (gom.Any, bool) {
		return gom.AnyOf(strings.Join(self(o).History(), "\n")), true
	}, nil)
	c.Property("globals", "Scope", func(o gom.Object) (gom.Any, bool) {
		return gom.ObjectAny(self(o).Globals()), true
	}, nil)
	c.Property("meta_types", "Scope", func(o gom.Object) (gom.Any, bool) {
		return gom.ObjectAny(self(o).MetaTypes()), true
	}, nil)

	c.Slot("execute", "bool", func(target gom.Object, args *gom.ArgList) (gom.Any, bool) {
		save, _ := gom.ArgAs[bool](args, "save_in_history")
		log, _ := gom.ArgAs[bool](args, "log")
		return gom.AnyOf(self(target).Execute(str(args, "command"), save, log) == nil), true
	}, gom.Arg("command", "string"), gom.ArgWithDefault("save_in_history", "bool", true), gom.ArgWithDefault("log", "bool", false))
	c.Slot("execute_file", "bool", func(target gom.Object, args *gom.ArgList) (gom.Any, bool) {
		err := self(target).ExecuteFile(str(args, "file_name"))
		if err != nil {
			core(target).DisplayError(err)
		}
		return gom.AnyOf(err == nil), true
	}, gom.Arg("file_name", "string"))
	c.Slot("eval", "any", func(target gom.Object, args *gom.ArgList) (gom.Any, bool) {
		v, err := self(target).Eval(str(args, "expression"))
		return v, err == nil
	}, gom.Arg("expression", "string"))
	c.Slot("resolve", "any", func(target gom.Object, args *gom.ArgList) (gom.Any, bool) {
		return self(target).Resolve(str(args, "name")), true
	}, gom.Arg("name", "string"))
	c.Slot("bind", "void", func(target gom.Object, args *gom.ArgList) (gom.Any, bool) {
		v, _ := args.Get("value")
		self(target).Bind(str(args, "name"), v)
		return gom.Any{}, true
	}, gom.Arg("name", "string"), gom.Arg("value", "any"))
	c.Slot("create", "Object", func(target gom.Object, args *gom.ArgList) (gom.Any, bool) {
		inner, _ := gom.ArgAs[*gom.ArgList](args, "args")
		o := core(target).Create(inner)
		return gom.ObjectAny(o), o != nil
	}, gom.Arg("args", gom.ArgListType.Name()))
	c.Slot("inspect", "string", func(target gom.Object, args *gom.ArgList) (gom.Any, bool) {
		o, _ := gom.ArgAs[gom.Object](args, "object")
		if o == nil {
			return gom.AnyOf("nil"), true
		}
		return gom.AnyOf(core(target).Inspect(o)), true
	}, gom.Arg("object", gom.ObjectValueType.Name()))
	c.Slot("list_classes", "string", func(target gom.Object, _ *gom.ArgList) (gom.Any, bool) {
		return gom.AnyOf(strings.Join(core(target).ListClasses(), ";")), true
	})
	c.Slot("list_names", "string", func(target gom.Object, _ *gom.ArgList) (gom.Any, bool) {
		return gom.AnyOf(strings.Join(self(target).ListNames(), ";")), true
	})
	c.Slot("connect", "Connection", func(target gom.Object, args *gom.ArgList) (gom.Any, bool) {
		from, _ := gom.ArgAs[*gom.Request](args, "from")
		to, _ := gom.ArgAs[gom.Callable](args, "to")
		if from == nil || to == nil {
			return gom.Any{}, false
		}
		conn, err := core(target).Connect(from, to)
		if err != nil {
			core(target).Logger().Warn("connect failed", "error", err)
			return gom.Any{}, false
		}
		return gom.ObjectAny(conn), true
	}, gom.Arg("from", "Request"), gom.Arg("to", gom.CallableValueType.Name()))
	c.Slot("save_history", "bool", func(target gom.Object, args *gom.ArgList) (gom.Any, bool) {
		err := self(target).SaveHistory(str(args, "file_name"))
		if err != nil {
			core(target).Logger().Warn("cannot save history", "error", err)
		}
		return gom.AnyOf(err == nil), true
	}, gom.Arg("file_name", "string"))
	c.Slot("clear_history", "void", func(target gom.Object, _ *gom.ArgList) (gom.Any, bool) {
		self(target).ClearHistory()
		return gom.Any{}, true
	})
	c.Slot("resolve_object_by_global_id", "Object", func(target gom.Object, args *gom.ArgList) (gom.Any, bool) {
		v, _ := core(target).ResolveGlobalID(str(args, "id"))
		return v, true
	}, gom.Arg("id", "string"))
	c.Slot("interpreter", "Interpreter", func(_ gom.Object, args *gom.ArgList) (gom.Any, bool) {
		in, ok := ByLanguage(str(args, "language"))
		if !ok {
			return gom.Any{}, true
		}
		return gom.ObjectAny(in), true
	}, gom.Arg("language", "string"))
	return nil
}

func (b *Core) core() *Core { return b }
