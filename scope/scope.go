// Package scope provides the namespaces scripts resolve names in: the live
// globals of an interpreter, the meta type registry, and the interfaces
// discovered by naming convention for an object.
package scope

import (
	"reflect"
	"sort"
	"strings"

	gom "github.com/podhmo/go-gom"
)

// Globals is what GlobalScope forwards to.
type Globals interface {
	Resolve(name string) gom.Any
	ListNames() []string
}

// GlobalScope exposes the globals of an interpreter.
type GlobalScope struct {
	gom.ObjectBase
	globals Globals
}

// NewGlobalScope returns a scope forwarding to globals.
func NewGlobalScope(globals Globals) *GlobalScope {
	s := &GlobalScope{globals: globals}
	gom.InitObject(s)
	return s
}

// Resolve returns the global called name.
func (s *GlobalScope) Resolve(name string) gom.Any {
	return s.globals.Resolve(name)
}

// ListNames returns the global names.
func (s *GlobalScope) ListNames() []string {
	return s.globals.ListNames()
}

// MetaTypesScope exposes the registry as a "::"-qualified tree. Sub-scopes
// are created explicitly.
type MetaTypesScope struct {
	gom.ObjectBase
	prefix    string
	subscopes map[string]*MetaTypesScope
	order     []string
}

// NewMetaTypesScope returns the scope of the names starting with prefix
// ("" for the root, "OGF::" for a namespace).
func NewMetaTypesScope(prefix string) *MetaTypesScope {
	s := &MetaTypesScope{prefix: prefix, subscopes: make(map[string]*MetaTypesScope)}
	gom.InitObject(s)
	return s
}

// NewRootMetaTypesScope returns the root scope with the conventional
// namespaces of the registry.
func NewRootMetaTypesScope() *MetaTypesScope {
	root := NewMetaTypesScope("")
	ogf := root.CreateSubscope("OGF")
	ogf.CreateSubscope("NL")
	ogf.CreateSubscope("Numeric")
	ogf.CreateSubscope("Memory")
	root.CreateSubscope("std")
	return root
}

// Prefix returns the qualified prefix of the scope.
func (s *MetaTypesScope) Prefix() string { return s.prefix }

// CreateSubscope creates (or returns) the sub-scope name, qualified as
// prefix+name+"::".
func (s *MetaTypesScope) CreateSubscope(name string) *MetaTypesScope {
	if sub, ok := s.subscopes[name]; ok {
		return sub
	}
	sub := NewMetaTypesScope(s.prefix + name + "::")
	sub.Ref()
	s.subscopes[name] = sub
	s.order = append(s.order, name)
	return sub
}

// Resolve returns the sub-scope name or the meta type prefix+name.
func (s *MetaTypesScope) Resolve(name string) gom.Any {
	if sub, ok := s.subscopes[name]; ok {
		return gom.ObjectAny(sub)
	}
	r := gom.Meta()
	if r == nil {
		return gom.Any{}
	}
	t, ok := r.ResolveMetaType(s.prefix + name)
	if !ok {
		gom.TagLogger("MetaTypesScope").Debug("no such meta type", "name", s.prefix+name)
		return gom.Any{}
	}
	return gom.ObjectAny(t)
}

// ListNames returns the sub-scopes followed by the types directly under the
// prefix. Names containing spaces or ending with '*' (pointer and template
// spellings) are skipped.
func (s *MetaTypesScope) ListNames() []string {
	names := append([]string(nil), s.order...)
	r := gom.Meta()
	if r == nil {
		return names
	}
	for _, full := range r.ListTypeNames() {
		if !strings.HasPrefix(full, s.prefix) {
			continue
		}
		name := full[len(s.prefix):]
		if name == "" || strings.Contains(name, "::") || strings.Contains(name, " ") || strings.HasSuffix(name, "*") {
			continue
		}
		if _, isSub := s.subscopes[name]; isSub {
			continue
		}
		names = append(names, name)
	}
	return names
}

// InterfaceScope discovers the interfaces of an object by naming
// convention: for an object of class C, the interface "Foo" is the class
// CFooInterface, CFooCommands or CFoo.
type InterfaceScope struct {
	gom.ObjectBase
	object gom.Object
}

// NewInterfaceScope returns the interface scope of o. The scope holds a
// reference on o.
func NewInterfaceScope(o gom.Object) *InterfaceScope {
	s := &InterfaceScope{object: o}
	gom.InitObject(s)
	o.Ref()
	return s
}

// Destroy releases the object.
func (s *InterfaceScope) Destroy() {
	s.object.Unref()
}

// Object returns the object whose interfaces are resolved.
func (s *InterfaceScope) Object() gom.Object { return s.object }

// Candidates returns the class names probed for name, in order.
func Candidates(className, name string) []string {
	var candidates []string
	if !strings.HasSuffix(name, "Interface") {
		candidates = append(candidates, className+name+"Interface")
		if !strings.HasSuffix(name, "Commands") {
			candidates = append(candidates, className+name+"Commands")
		}
	}
	return append(candidates, className+name)
}

// Resolve creates the interface name of the object. If the interface class
// has a "grob" property, the object is injected through it. No matching
// class gives an empty value; this is not an error.
func (s *InterfaceScope) Resolve(name string) gom.Any {
	r := gom.Meta()
	c := s.object.MetaClass()
	if r == nil || c == nil {
		return gom.Any{}
	}
	for _, candidate := range Candidates(c.Name(), name) {
		ic, ok := r.ResolveClass(candidate)
		if !ok {
			continue
		}
		o := ic.Create(gom.NewArgList())
		if o == nil {
			return gom.Any{}
		}
		if ic.FindProperty("grob") != nil {
			o.SetProperty("grob", gom.ObjectAny(s.object))
		}
		return gom.ObjectAny(o)
	}
	return gom.Any{}
}

// ListNames returns the interface names available for the object's class.
func (s *InterfaceScope) ListNames() []string {
	r := gom.Meta()
	c := s.object.MetaClass()
	if r == nil || c == nil {
		return nil
	}
	seen := make(map[string]bool)
	var names []string
	for _, full := range r.ListTypeNames() {
		if !strings.HasPrefix(full, c.Name()) || full == c.Name() {
			continue
		}
		name := full[len(c.Name()):]
		if _, ok := r.ResolveClass(full); !ok {
			continue
		}
		for _, suffix := range []string{"Interface", "Commands"} {
			if trimmed, found := strings.CutSuffix(name, suffix); found && trimmed != "" {
				name = trimmed
				break
			}
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Register binds the scope classes. Registering twice is a no-op.
func Register(r *gom.Registry) error {
	if _, ok := r.ResolveClass("GlobalScope"); ok {
		return nil
	}
	decls := []gom.ClassDecl{
		{Name: "GlobalScope", Super: "Scope", GoType: reflect.TypeFor[*GlobalScope]()},
		{Name: "MetaTypesScope", Super: "Scope", GoType: reflect.TypeFor[*MetaTypesScope]()},
		{Name: "InterfaceScope", Super: "Scope", GoType: reflect.TypeFor[*InterfaceScope]()},
	}
	for _, d := range decls {
		c, err := r.DeclareClass(d)
		if err != nil {
			return err
		}
		if d.Name == "MetaTypesScope" {
			c.Property("prefix", "string", func(o gom.Object) (gom.Any, bool) {
				return gom.AnyOf(o.(*MetaTypesScope).Prefix()), true
			}, nil)
		}
	}
	return nil
}
