package gom

import (
	"fmt"
	"reflect"
)

// Object is the capability of every introspectable instance: reference
// counting, name-keyed property and method access through its MetaClass,
// an optional array-like protocol and three-way comparison.
//
// Implementations embed ObjectBase and call InitObject once constructed.
type Object interface {
	Base() *ObjectBase
	MetaClass() *MetaClass
	ID() uint64

	Ref()
	Unref()
	RefCount() int

	GetProperty(name string) (Any, bool)
	SetProperty(name string, v Any) bool
	Invoke(method string, args *ArgList) (Any, bool)

	NbElements() int
	GetElement(i int) (Any, bool)
	SetElement(i int, v Any) bool

	Compare(other Object) int

	EmitSignal(signal string, args *ArgList) bool
}

// Destroyer is implemented by objects that release resources when their
// reference count drops to zero.
type Destroyer interface {
	Destroy()
}

// Scope is implemented by objects that resolve names, such as the globals of
// an interpreter or the meta type registry.
type Scope interface {
	Object
	Resolve(name string) Any
	ListNames() []string
}

// ObjectBase implements Object. Embed it and call InitObject (or
// InitTransient) with the embedding value.
type ObjectBase struct {
	self      Object
	class     *MetaClass
	id        uint64
	refs      int
	destroyed bool

	signalsBlocked bool
	connections    []*Connection
}

// InitObject binds self to its embedded ObjectBase and gives it a live
// instance id, making it reachable as "@Class::#id".
func InitObject(self Object) {
	b := self.Base()
	b.self = self
	b.id = instances.add(b)
}

// InitTransient binds self to its embedded ObjectBase without giving it an
// instance id. Requests, connections and meta types are transient.
func InitTransient(self Object) {
	self.Base().self = self
}

// Base returns the embedded ObjectBase.
func (b *ObjectBase) Base() *ObjectBase { return b }

// Self returns the Object embedding b.
func (b *ObjectBase) Self() Object { return b.self }

// SetMetaClass overrides the class found from the Go type. Dynamic objects
// and objects of detached registries use it.
func (b *ObjectBase) SetMetaClass(c *MetaClass) {
	b.class = c
}

// MetaClass returns the class of the object, looked up from its Go type in
// the process-wide registry on first use.
func (b *ObjectBase) MetaClass() *MetaClass {
	if b.class == nil && b.self != nil {
		if r := Meta(); r != nil {
			b.class = r.ClassOf(reflect.TypeOf(b.self))
		}
	}
	return b.class
}

// ID returns the live instance id, 0 for transient objects.
func (b *ObjectBase) ID() uint64 { return b.id }

// Ref increments the reference count.
func (b *ObjectBase) Ref() {
	b.refs++
}

// Unref decrements the reference count. The object is destroyed when it
// drops to zero.
func (b *ObjectBase) Unref() {
	if b.refs <= 0 {
		TagLogger(b.className()).Error("unref on an object without references", "object", b.String())
		return
	}
	b.refs--
	if b.refs == 0 {
		b.destroy()
	}
}

// RefCount returns the reference count.
func (b *ObjectBase) RefCount() int { return b.refs }

// Destroyed reports whether the reference count has dropped to zero.
func (b *ObjectBase) Destroyed() bool { return b.destroyed }

func (b *ObjectBase) destroy() {
	if b.destroyed {
		return
	}
	b.destroyed = true
	if b.id != 0 {
		instances.remove(b.id)
	}
	for _, c := range b.connections {
		c.release()
	}
	b.connections = nil
	if d, ok := b.self.(Destroyer); ok {
		d.Destroy()
	}
}

// GetProperty reads a property through the MetaClass.
func (b *ObjectBase) GetProperty(name string) (Any, bool) {
	c := b.metaClass()
	if c == nil {
		return Any{}, false
	}
	p := c.FindProperty(name)
	if p == nil {
		TagLogger(c.Name()).Warn("no such property", "property", name)
		return Any{}, false
	}
	return p.Get(b.self)
}

// SetProperty writes a property through the MetaClass. Read-only
// properties and values not convertible to the property type fail.
func (b *ObjectBase) SetProperty(name string, v Any) bool {
	c := b.metaClass()
	if c == nil {
		return false
	}
	p := c.FindProperty(name)
	if p == nil {
		TagLogger(c.Name()).Warn("no such property", "property", name)
		return false
	}
	return p.Set(b.self, v)
}

// Invoke calls a method by name. If no method matches but a property does,
// the call sets the property from its single argument.
func (b *ObjectBase) Invoke(method string, args *ArgList) (Any, bool) {
	c := b.metaClass()
	if c == nil {
		return Any{}, false
	}
	if args == nil {
		args = NewArgList()
	}
	if m := c.FindMethod(method); m != nil {
		return m.InvokeOn(b.self, args)
	}
	if p := c.FindProperty(method); p != nil {
		if args.Len() != 1 {
			TagLogger(c.Name()+"::"+method).Warn("property setter expects one argument", "args", args.String())
			return Any{}, false
		}
		return Any{}, p.Set(b.self, args.Value(0))
	}
	TagLogger(c.Name()).Warn("no such method", "method", method)
	return Any{}, false
}

// NbElements returns 0; sequence-like objects override it.
func (b *ObjectBase) NbElements() int { return 0 }

// GetElement fails; sequence-like objects override it.
func (b *ObjectBase) GetElement(i int) (Any, bool) {
	TagLogger(b.className()).Warn("object is not a sequence", "index", i)
	return Any{}, false
}

// SetElement fails; sequence-like objects override it.
func (b *ObjectBase) SetElement(i int, v Any) bool {
	TagLogger(b.className()).Warn("object is not a sequence", "index", i)
	return false
}

// Compare orders objects by instance id, then by address for transient
// objects. It returns 0 only for the same object.
func (b *ObjectBase) Compare(other Object) int {
	if isNilObject(other) {
		return 1
	}
	o := other.Base()
	switch {
	case b == o:
		return 0
	case b.id != o.id:
		if b.id < o.id {
			return -1
		}
		return 1
	case reflect.ValueOf(b).Pointer() < reflect.ValueOf(o).Pointer():
		return -1
	default:
		return 1
	}
}

// SignalsEnabled reports whether EmitSignal invokes connections.
func (b *ObjectBase) SignalsEnabled() bool { return !b.signalsBlocked }

// SetSignalsEnabled blocks or unblocks signal emission.
func (b *ObjectBase) SetSignalsEnabled(on bool) { b.signalsBlocked = !on }

// EmitSignal invokes, in connection order, every connection of signal.
// It fails if the class declares no such signal.
func (b *ObjectBase) EmitSignal(signal string, args *ArgList) bool {
	c := b.metaClass()
	if c == nil {
		return false
	}
	if c.FindSignal(signal) == nil {
		TagLogger(c.Name()).Warn("no such signal", "signal", signal)
		return false
	}
	if b.signalsBlocked {
		return true
	}
	if args == nil {
		args = NewArgList()
	}
	result := true
	for _, conn := range append([]*Connection(nil), b.connections...) {
		if conn.signal == signal && !conn.invoke(args) {
			result = false
		}
	}
	return result
}

// Connections returns the connections whose source is this object.
func (b *ObjectBase) Connections() []*Connection {
	return append([]*Connection(nil), b.connections...)
}

// String returns the global id of the object.
func (b *ObjectBase) String() string {
	if b.self == nil {
		return "@<uninitialized>"
	}
	return ObjectString(b.self)
}

func (b *ObjectBase) metaClass() *MetaClass {
	if b.self == nil {
		Logger().Error("object used before InitObject")
		return nil
	}
	c := b.self.MetaClass()
	if c == nil {
		Logger().Error("object has no meta class", "type", fmt.Sprintf("%T", b.self))
	}
	return c
}

func (b *ObjectBase) className() string {
	if b.self == nil {
		return "Object"
	}
	if c := b.self.MetaClass(); c != nil {
		return c.Name()
	}
	return fmt.Sprintf("%T", b.self)
}

// ObjectString returns the stable textual identity of o: "@Class::#id" for
// live instances, "@Class::0x..." for transient ones.
func ObjectString(o Object) string {
	if isNilObject(o) {
		return ""
	}
	name := o.Base().className()
	if id := o.ID(); id != 0 {
		return fmt.Sprintf("@%s::#%d", name, id)
	}
	return fmt.Sprintf("@%s::%p", name, o)
}
