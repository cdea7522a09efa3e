package gom

import (
	"fmt"
	"strings"
)

// MetaMember is a member of a MetaClass: a property or a method.
type MetaMember interface {
	Object
	Name() string
	Container() *MetaClass
	Attribute(name string) (string, bool)
	SetAttribute(name, value string)
	AttributeNames() []string
}

type memberInfo struct {
	metaInfo
	container *MetaClass
}

// Container returns the class declaring the member.
func (m *memberInfo) Container() *MetaClass { return m.container }

// Tag returns "Class::member", the tag of log records about this member.
func (m *memberInfo) Tag() string {
	if m.container == nil {
		return m.name
	}
	return m.container.Name() + "::" + m.name
}

// PropertyGetter reads a property of o.
type PropertyGetter func(o Object) (Any, bool)

// PropertySetter writes a property of o. The value already has the
// declared type.
type PropertySetter func(o Object, v Any) bool

// MetaProperty describes a property reachable through a getter and, unless
// read-only, a setter.
type MetaProperty struct {
	memberInfo
	typeName string
	readOnly bool
	getter   PropertyGetter
	setter   PropertySetter

	getMethod *MetaMethod
	setMethod *MetaMethod
}

// TypeName returns the name of the declared type.
func (p *MetaProperty) TypeName() string { return p.typeName }

// Type returns the declared type.
func (p *MetaProperty) Type() (MetaType, bool) { return p.container.resolveType(p.typeName) }

// IsReadOnly reports whether the property has no setter.
func (p *MetaProperty) IsReadOnly() bool { return p.readOnly }

// WithAttribute sets a custom attribute and returns the property.
func (p *MetaProperty) WithAttribute(name, value string) *MetaProperty {
	p.SetAttribute(name, value)
	return p
}

// Get reads the property of o.
func (p *MetaProperty) Get(o Object) (Any, bool) {
	if p.getter == nil {
		TagLogger(p.Tag()).Warn("property has no getter")
		return Any{}, false
	}
	return p.getter(o)
}

// Set converts v to the declared type and writes the property of o.
func (p *MetaProperty) Set(o Object, v Any) bool {
	log := TagLogger(p.Tag())
	if p.readOnly || p.setter == nil {
		log.Warn("cannot set property", "error", ErrReadOnly)
		return false
	}
	t, ok := p.Type()
	if !ok {
		log.Warn("unknown property type", "type", p.typeName)
		return false
	}
	cv, ok := Convert(v, t)
	if !ok {
		log.Warn("cannot set property", "error", fmt.Errorf("%w: %q to %s", ErrConversion, v.AsString(), p.typeName))
		return false
	}
	return p.setter(o, cv)
}

// getterMethod returns the get_<name> slot of the property.
func (p *MetaProperty) getterMethod() *MetaMethod {
	if p.getMethod == nil {
		p.getMethod = &MetaMethod{
			memberInfo: memberInfo{metaInfo: metaInfo{name: "get_" + p.name}, container: p.container},
			kind:       SlotKind,
			returnType: p.typeName,
			adapter: func(target Object, _ *ArgList) (Any, bool) {
				return p.Get(target)
			},
		}
		InitTransient(p.getMethod)
	}
	return p.getMethod
}

// setterMethod returns the set_<name> slot of the property. Its single
// argument is named "value".
func (p *MetaProperty) setterMethod() *MetaMethod {
	if p.setMethod == nil {
		p.setMethod = &MetaMethod{
			memberInfo: memberInfo{metaInfo: metaInfo{name: "set_" + p.name}, container: p.container},
			kind:       SlotKind,
			returnType: VoidType.Name(),
			args:       []MetaArg{Arg("value", p.typeName)},
			adapter: func(target Object, args *ArgList) (Any, bool) {
				v, _ := args.Get("value")
				return Any{}, p.setter(target, v)
			},
		}
		InitTransient(p.setMethod)
	}
	return p.setMethod
}

// MethodKind tells slots, signals and constructors apart.
type MethodKind int

const (
	SlotKind MethodKind = iota
	SignalKind
	ConstructorKind
)

func (k MethodKind) String() string {
	switch k {
	case SignalKind:
		return "MetaSignal"
	case ConstructorKind:
		return "MetaConstructor"
	default:
		return "MetaSlot"
	}
}

// MethodAdapter calls the native method. Its arguments are already bound:
// named after the declared arguments, converted, with defaults filled in.
type MethodAdapter func(target Object, args *ArgList) (Any, bool)

// MetaArg is a declared method argument.
type MetaArg struct {
	Name     string
	TypeName string
	// Default is used when the caller omits the argument.
	Default    Any
	hasDefault bool
}

// Arg declares a required argument.
func Arg(name, typeName string) MetaArg {
	return MetaArg{Name: name, TypeName: typeName}
}

// ArgWithDefault declares an optional argument.
func ArgWithDefault(name, typeName string, def any) MetaArg {
	return MetaArg{Name: name, TypeName: typeName, Default: NewAny(def), hasDefault: true}
}

// HasDefault reports whether the argument is optional.
func (a MetaArg) HasDefault() bool { return a.hasDefault }

// MetaMethod describes a slot, a signal or a constructor.
type MetaMethod struct {
	memberInfo
	kind       MethodKind
	returnType string
	args       []MetaArg
	adapter    MethodAdapter
}

// MetaClass returns MetaSlot, MetaSignal or MetaConstructor.
func (m *MetaMethod) MetaClass() *MetaClass {
	if m.class == nil {
		if r := Meta(); r != nil {
			m.class, _ = r.ResolveClass(m.kind.String())
		}
	}
	return m.class
}

// Kind returns the kind of method.
func (m *MetaMethod) Kind() MethodKind { return m.kind }

// ReturnType returns the name of the return type.
func (m *MetaMethod) ReturnType() string { return m.returnType }

// Args returns the declared arguments.
func (m *MetaMethod) Args() []MetaArg { return append([]MetaArg(nil), m.args...) }

// NbArgs returns the number of declared arguments.
func (m *MetaMethod) NbArgs() int { return len(m.args) }

// WithAttribute sets a custom attribute and returns the method.
func (m *MetaMethod) WithAttribute(name, value string) *MetaMethod {
	m.SetAttribute(name, value)
	return m
}

// TakesArgList reports whether the method receives the caller's whole
// argument list.
func (m *MetaMethod) TakesArgList() bool {
	return len(m.args) == 1 && m.args[0].TypeName == ArgListType.Name()
}

func (m *MetaMethod) argIndex(name string) int {
	for i, a := range m.args {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// Bind matches args against the declared arguments: unnamed values by
// position, named values by name. Values are converted to the declared
// types and omitted optional arguments get their defaults. Extra
// positional values, values given twice and missing required arguments
// are errors. Named values that match no argument are ignored.
func (m *MetaMethod) Bind(args *ArgList) (*ArgList, error) {
	if m.TakesArgList() {
		bound := NewArgList()
		bound.Set(m.args[0].Name, MakeAny(ArgListType, args))
		return bound, nil
	}

	values := make([]Any, len(m.args))
	set := make([]bool, len(m.args))
	pos := 0
	for _, name := range args.Names() {
		v, _ := args.Get(name)
		idx := -1
		if IsUnnamedArgName(name) {
			if pos >= len(m.args) {
				return nil, fmt.Errorf("%w: expected at most %d arguments, got %d", ErrArity, len(m.args), args.Len())
			}
			idx = pos
			pos++
		} else if idx = m.argIndex(name); idx < 0 {
			continue
		}
		if set[idx] {
			return nil, fmt.Errorf("%w: argument %s given twice", ErrArity, m.args[idx].Name)
		}
		cv, err := m.convertArg(idx, v)
		if err != nil {
			return nil, err
		}
		values[idx], set[idx] = cv, true
	}

	bound := NewArgList()
	for i, a := range m.args {
		if !set[i] {
			if !a.hasDefault {
				return nil, fmt.Errorf("%w: missing argument %s", ErrArity, a.Name)
			}
			cv, err := m.convertArg(i, a.Default)
			if err != nil {
				return nil, err
			}
			values[i] = cv
		}
		bound.Set(a.Name, values[i])
	}
	return bound, nil
}

func (m *MetaMethod) convertArg(i int, v Any) (Any, error) {
	a := m.args[i]
	t, ok := m.container.resolveType(a.TypeName)
	if !ok {
		return Any{}, fmt.Errorf("argument %s: type %s: %w", a.Name, a.TypeName, ErrNotFound)
	}
	cv, ok := Convert(v, t)
	if !ok {
		return Any{}, fmt.Errorf("argument %s: %w: %q to %s", a.Name, ErrConversion, v.AsString(), a.TypeName)
	}
	return cv, nil
}

// InvokeOn binds args and calls the method on target. It never panics: on
// failure it logs under "Class::method" and returns an empty Any and false.
func (m *MetaMethod) InvokeOn(target Object, args *ArgList) (Any, bool) {
	log := TagLogger(m.Tag())
	if args == nil {
		args = NewArgList()
	}
	if m.kind != ConstructorKind {
		if isNilObject(target) {
			log.Warn("no target object")
			return Any{}, false
		}
		if tc := target.MetaClass(); tc == nil || !tc.IsA(m.container) {
			log.Warn("target is not an instance of the declaring class", "target", ObjectString(target))
			return Any{}, false
		}
	}
	bound, err := m.Bind(args)
	if err != nil {
		log.Warn("invalid arguments", "error", err, "args", args.String())
		return Any{}, false
	}
	if !m.TakesArgList() {
		for _, name := range args.Names() {
			if !IsUnnamedArgName(name) && m.argIndex(name) < 0 {
				log.Debug("ignoring unknown argument", "arg", name)
			}
		}
	}
	if m.adapter == nil {
		log.Warn("method has no implementation")
		return Any{}, false
	}
	result, ok := m.adapter(target, bound)
	if !ok {
		log.Warn("invocation failed")
		return Any{}, false
	}
	return result, true
}

// MemberSignature returns a readable declaration of m.
func MemberSignature(m MetaMember) string {
	switch m := m.(type) {
	case *MetaProperty:
		s := fmt.Sprintf("property %s: %s", m.name, m.typeName)
		if m.readOnly {
			s += " (read-only)"
		}
		return s
	case *MetaMethod:
		args := make([]string, len(m.args))
		for i, a := range m.args {
			args[i] = a.Name + ": " + a.TypeName
			if a.hasDefault {
				args[i] += " = " + a.Default.AsString()
			}
		}
		kind := map[MethodKind]string{SlotKind: "slot", SignalKind: "signal", ConstructorKind: "constructor"}[m.kind]
		s := fmt.Sprintf("%s %s(%s)", kind, m.name, strings.Join(args, ", "))
		if m.kind == SlotKind && m.returnType != VoidType.Name() {
			s += ": " + m.returnType
		}
		return s
	}
	return m.Name()
}
