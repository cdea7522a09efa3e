package gom

import (
	"fmt"
	"reflect"
	"strings"
)

const rootClassName = "Object"

// Factory creates a new instance of a class.
type Factory func(args *ArgList) Object

// MetaClass describes a class: its single superclass, its members and how
// to create instances.
type MetaClass struct {
	metaInfo
	registry  *Registry
	superName string
	abstract  bool
	dynamic   bool
	goType    reflect.Type
	members   []MetaMember
	factory   Factory
}

func (c *MetaClass) GoType() reflect.Type { return c.goType }

// Registry returns the registry the class is bound to.
func (c *MetaClass) Registry() *Registry { return c.registry }

// SuperClassName returns the name of the superclass, "" for the root.
func (c *MetaClass) SuperClassName() string { return c.superName }

// SuperClass returns the superclass, nil for the root.
func (c *MetaClass) SuperClass() *MetaClass {
	if c.superName == "" || c.registry == nil {
		return nil
	}
	super, _ := c.registry.ResolveClass(c.superName)
	return super
}

// IsAbstract reports whether the class cannot be instantiated.
func (c *MetaClass) IsAbstract() bool { return c.abstract }

// IsDynamic reports whether the class was created by CreateSubclass.
func (c *MetaClass) IsDynamic() bool { return c.dynamic }

// IsA reports whether other is c or one of its ancestors.
func (c *MetaClass) IsA(other *MetaClass) bool {
	if other == nil {
		return false
	}
	for k := c; k != nil; k = k.SuperClass() {
		if k == other {
			return true
		}
	}
	return false
}

// OwnMembers returns the members declared by c itself.
func (c *MetaClass) OwnMembers() []MetaMember {
	return append([]MetaMember(nil), c.members...)
}

// Members returns the members of c and its ancestors, own members first.
func (c *MetaClass) Members() []MetaMember {
	var all []MetaMember
	for k := c; k != nil; k = k.SuperClass() {
		all = append(all, k.members...)
	}
	return all
}

// FindMember returns the member called name, searching the superclass
// chain.
func (c *MetaClass) FindMember(name string) MetaMember {
	for k := c; k != nil; k = k.SuperClass() {
		for _, m := range k.members {
			if m.Name() == name {
				return m
			}
		}
	}
	return nil
}

// FindProperty returns the property called name.
func (c *MetaClass) FindProperty(name string) *MetaProperty {
	for k := c; k != nil; k = k.SuperClass() {
		for _, m := range k.members {
			if p, ok := m.(*MetaProperty); ok && p.name == name {
				return p
			}
		}
	}
	return nil
}

// FindMethod returns the slot, signal or constructor called name. The
// names get_<p> and set_<p> reach the accessors of property p.
func (c *MetaClass) FindMethod(name string) *MetaMethod {
	for k := c; k != nil; k = k.SuperClass() {
		for _, m := range k.members {
			switch m := m.(type) {
			case *MetaMethod:
				if m.name == name {
					return m
				}
			case *MetaProperty:
				if name == "get_"+m.name {
					return m.getterMethod()
				}
				if name == "set_"+m.name && !m.readOnly {
					return m.setterMethod()
				}
			}
		}
	}
	return nil
}

// FindSlot returns the slot called name.
func (c *MetaClass) FindSlot(name string) *MetaMethod {
	if m := c.FindMethod(name); m != nil && m.kind == SlotKind {
		return m
	}
	return nil
}

// FindSignal returns the signal called name.
func (c *MetaClass) FindSignal(name string) *MetaMethod {
	if m := c.FindMethod(name); m != nil && m.kind == SignalKind {
		return m
	}
	return nil
}

// Constructors returns the constructors declared by c (not inherited).
func (c *MetaClass) Constructors() []*MetaMethod {
	var ctors []*MetaMethod
	for _, m := range c.members {
		if m, ok := m.(*MetaMethod); ok && m.kind == ConstructorKind {
			ctors = append(ctors, m)
		}
	}
	return ctors
}

// Create instantiates the class. The constructor whose arguments are
// satisfied by args is used; remaining named arguments are then assigned to
// writable properties of the new object. Failures are logged with the class
// name as tag and return nil.
func (c *MetaClass) Create(args *ArgList) Object {
	log := TagLogger(c.Name())
	if args == nil {
		args = NewArgList()
	}
	if c.abstract {
		log.Warn("cannot create an instance", "error", ErrAbstract)
		return nil
	}

	var (
		o    Object
		used *MetaMethod
	)
	switch ctors := c.Constructors(); {
	case len(ctors) > 0:
		used = c.bestConstructor(ctors, args)
		if used == nil {
			log.Warn("no constructor matches the arguments", "args", args.String())
			return nil
		}
		result, ok := used.InvokeOn(nil, args)
		if !ok {
			return nil
		}
		o = result.Object()
	case c.factory != nil:
		o = c.factory(args)
	default:
		log.Warn("class has no constructor")
		return nil
	}
	if isNilObject(o) {
		log.Warn("constructor returned no object")
		return nil
	}

	for _, name := range args.Names() {
		if IsUnnamedArgName(name) || (used != nil && used.argIndex(name) >= 0) {
			continue
		}
		p := c.FindProperty(name)
		if p == nil || p.readOnly {
			log.Warn("argument is neither a constructor argument nor a writable property", "arg", name)
			continue
		}
		v, _ := args.Get(name)
		p.Set(o, v)
	}
	return o
}

// bestConstructor picks, among the constructors whose arguments can be
// bound, the one that uses the most supplied arguments. With unnamed
// arguments the first bindable constructor of matching arity wins.
func (c *MetaClass) bestConstructor(ctors []*MetaMethod, args *ArgList) *MetaMethod {
	if args.HasUnnamedArgs() {
		var fallback *MetaMethod
		for _, m := range ctors {
			if _, err := m.Bind(args); err != nil {
				continue
			}
			if len(m.args) == args.Len() {
				return m
			}
			if fallback == nil {
				fallback = m
			}
		}
		return fallback
	}

	var (
		best     *MetaMethod
		bestUsed = -1
	)
	for _, m := range ctors {
		if _, err := m.Bind(args); err != nil {
			continue
		}
		used := 0
		for _, a := range m.args {
			if args.Has(a.Name) {
				used++
			}
		}
		if used > bestUsed {
			best, bestUsed = m, used
		}
	}
	return best
}

// WithAttribute sets a custom attribute on the class and returns the class.
func (c *MetaClass) WithAttribute(name, value string) *MetaClass {
	c.SetAttribute(name, value)
	return c
}

// Property declares a writable property. A nil setter declares a
// read-only one.
func (c *MetaClass) Property(name, typeName string, get PropertyGetter, set PropertySetter) *MetaProperty {
	p := &MetaProperty{
		memberInfo: memberInfo{metaInfo: metaInfo{name: name}, container: c},
		typeName:   typeName,
		readOnly:   set == nil,
		getter:     get,
		setter:     set,
	}
	InitTransient(p)
	c.members = append(c.members, p)
	return p
}

// Slot declares a slot.
func (c *MetaClass) Slot(name, returnType string, adapter MethodAdapter, args ...MetaArg) *MetaMethod {
	return c.addMethod(SlotKind, name, returnType, adapter, args)
}

// Signal declares a signal. Invoking a signal emits it.
func (c *MetaClass) Signal(name string, args ...MetaArg) *MetaMethod {
	adapter := func(target Object, args *ArgList) (Any, bool) {
		return Any{}, target.EmitSignal(name, args)
	}
	return c.addMethod(SignalKind, name, VoidType.Name(), adapter, args)
}

// Constructor declares a constructor. The adapter receives a nil target
// and returns the new object.
func (c *MetaClass) Constructor(adapter MethodAdapter, args ...MetaArg) *MetaMethod {
	return c.addMethod(ConstructorKind, c.Name(), c.Name(), adapter, args)
}

func (c *MetaClass) addMethod(kind MethodKind, name, returnType string, adapter MethodAdapter, args []MetaArg) *MetaMethod {
	m := &MetaMethod{
		memberInfo: memberInfo{metaInfo: metaInfo{name: name}, container: c},
		kind:       kind,
		returnType: returnType,
		args:       args,
		adapter:    adapter,
	}
	InitTransient(m)
	c.members = append(c.members, m)
	return m
}

// resolveType returns the meta type called name in the class registry.
func (c *MetaClass) resolveType(name string) (MetaType, bool) {
	if c == nil || c.registry == nil {
		if r := Meta(); r != nil {
			return r.ResolveMetaType(name)
		}
		return nil, false
	}
	return c.registry.ResolveMetaType(name)
}

// Doc returns a one-line description of the class and its members, used by
// interpreters to inspect objects.
func (c *MetaClass) Doc() string {
	var b strings.Builder
	fmt.Fprintf(&b, "class %s", c.Name())
	if c.superName != "" {
		fmt.Fprintf(&b, " : %s", c.superName)
	}
	if c.abstract {
		b.WriteString(" (abstract)")
	}
	for _, m := range c.Members() {
		b.WriteString("\n  ")
		b.WriteString(MemberSignature(m))
	}
	return b.String()
}
