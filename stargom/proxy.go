package stargom

import (
	"fmt"
	"hash/fnv"
	"runtime"
	"sort"

	gom "github.com/podhmo/go-gom"
	"github.com/podhmo/go-gom/interpreter"
	"github.com/podhmo/go-gom/scope"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

const proxyType = "gom_object"

// Proxy is an Object seen from Starlark. Attribute access, indexing,
// iteration and comparisons go through the object protocol.
type Proxy struct {
	in        *Interpreter
	object    gom.Object
	ownership gom.Ownership
}

// CallableProxy is the Proxy of a Callable or of a MetaClass (calling a
// class creates an instance).
type CallableProxy struct {
	*Proxy
}

var (
	_ starlark.HasSetField = (*Proxy)(nil)
	_ starlark.HasSetIndex = (*Proxy)(nil)
	_ starlark.Iterable    = (*Proxy)(nil)
	_ starlark.Comparable  = (*Proxy)(nil)
	_ starlark.Callable    = CallableProxy{}
)

// wrap returns the Starlark value of o. An owning proxy holds a reference
// on o, released on the interpreter goroutine once the proxy is collected.
func (in *Interpreter) wrap(o gom.Object, ownership gom.Ownership) starlark.Value {
	if o == nil {
		return starlark.None
	}
	p := &Proxy{in: in, object: o, ownership: ownership.Resolve()}
	if p.ownership == gom.Owning {
		o.Ref()
		q := in.releases
		runtime.AddCleanup(p, func(o gom.Object) {
			q.Push(o.Unref)
		}, o)
	}
	switch o.(type) {
	case gom.Callable, *gom.MetaClass:
		return CallableProxy{p}
	}
	return p
}

func proxyOf(v starlark.Value) (*Proxy, bool) {
	switch v := v.(type) {
	case *Proxy:
		return v, true
	case CallableProxy:
		return v.Proxy, true
	}
	return nil, false
}

// Object returns the wrapped object.
func (p *Proxy) Object() gom.Object { return p.object }

// Ownership tells whether the proxy holds a reference on its object.
func (p *Proxy) Ownership() gom.Ownership { return p.ownership }

func (p *Proxy) String() string       { return gom.ObjectString(p.object) }
func (p *Proxy) Type() string         { return proxyType }
func (p *Proxy) Freeze()              {}
func (p *Proxy) Truth() starlark.Bool { return starlark.True }

// Hash is identity based.
func (p *Proxy) Hash() (uint32, error) {
	h := fnv.New32a()
	h.Write([]byte(gom.ObjectString(p.object)))
	return h.Sum32(), nil
}

// Attr resolves name: a property, then a method (as a Request), then a name
// of a Scope, then a member of a MetaClass, then the interface scope "I".
// Unknown names give (nil, nil), Starlark's "no such attribute".
func (p *Proxy) Attr(name string) (starlark.Value, error) {
	var result starlark.Value
	err := gom.Guard(tag, func() error {
		o := p.object
		c := o.MetaClass()
		if c == nil {
			return fmt.Errorf("%s has no meta class", gom.ObjectString(o))
		}
		if c.FindProperty(name) != nil {
			v, _ := o.GetProperty(name)
			result = p.in.toStarlark(v)
			return nil
		}
		if m := c.FindMethod(name); m != nil && m.Kind() != gom.ConstructorKind {
			ownership := gom.Owning
			if _, ok := o.(interpreter.Interpreter); ok {
				ownership = gom.NonOwning
			}
			result = p.in.wrap(gom.NewRequest(o, m, ownership), gom.Owning)
			return nil
		}
		if s, ok := o.(gom.Scope); ok {
			if v := s.Resolve(name); !v.IsEmpty() {
				result = p.in.toStarlark(v)
				return nil
			}
		}
		if mc, ok := o.(*gom.MetaClass); ok {
			if m := mc.FindMember(name); m != nil {
				result = p.in.wrap(m, gom.Owning)
				return nil
			}
		}
		if name == "I" {
			result = p.in.wrap(scope.NewInterfaceScope(o), gom.Owning)
		}
		return nil
	})
	return result, err
}

// AttrNames lists the members of the class, and the names of a Scope.
func (p *Proxy) AttrNames() []string {
	var names []string
	if c := p.object.MetaClass(); c != nil {
		for _, m := range c.Members() {
			if mm, ok := m.(*gom.MetaMethod); ok && mm.Kind() == gom.ConstructorKind {
				continue
			}
			names = append(names, m.Name())
		}
	}
	if s, ok := p.object.(gom.Scope); ok {
		names = append(names, s.ListNames()...)
	}
	sort.Strings(names)
	return names
}

// SetField sets a property.
func (p *Proxy) SetField(name string, val starlark.Value) error {
	return gom.Guard(tag, func() error {
		if !p.object.SetProperty(name, p.in.fromStarlark(val)) {
			return fmt.Errorf("cannot set %s.%s", gom.ObjectString(p.object), name)
		}
		return nil
	})
}

// Len returns the number of elements. Starlark checks indices against it
// before calling Index.
func (p *Proxy) Len() int {
	var n int
	err := gom.Guard(tag, func() error {
		n = p.object.NbElements()
		return nil
	})
	if err != nil {
		p.in.Logger().Warn("cannot count elements", "object", gom.ObjectString(p.object), "error", err)
	}
	return n
}

// Index returns element i. Indexable has no error result, so an element the
// object cannot read is logged and gives None.
func (p *Proxy) Index(i int) starlark.Value {
	var result starlark.Value = starlark.None
	err := gom.Guard(tag, func() error {
		v, ok := p.object.GetElement(i)
		if !ok {
			return fmt.Errorf("%s[%d]: %w", gom.ObjectString(p.object), i, gom.ErrNotFound)
		}
		result = p.in.toStarlark(v)
		return nil
	})
	if err != nil {
		p.in.Logger().Warn("cannot read element", "error", err)
	}
	return result
}

// SetIndex sets element i.
func (p *Proxy) SetIndex(i int, v starlark.Value) error {
	return gom.Guard(tag, func() error {
		if !p.object.SetElement(i, p.in.fromStarlark(v)) {
			return fmt.Errorf("cannot set %s[%d]", gom.ObjectString(p.object), i)
		}
		return nil
	})
}

// Iterate iterates over the elements.
func (p *Proxy) Iterate() starlark.Iterator {
	return &elementIterator{p: p}
}

type elementIterator struct {
	p *Proxy
	i int
}

func (it *elementIterator) Next(v *starlark.Value) bool {
	if it.i >= it.p.Len() {
		return false
	}
	*v = it.p.Index(it.i)
	it.i++
	return true
}

func (it *elementIterator) Done() {}

// CompareSameType orders proxies with Object.Compare.
func (p *Proxy) CompareSameType(op syntax.Token, y starlark.Value, _ int) (bool, error) {
	other, ok := proxyOf(y)
	if !ok {
		return false, fmt.Errorf("cannot compare %s with %s", p.Type(), y.Type())
	}
	c := p.object.Compare(other.object)
	switch op {
	case syntax.EQL:
		return c == 0, nil
	case syntax.NEQ:
		return c != 0, nil
	case syntax.LT:
		return c < 0, nil
	case syntax.LE:
		return c <= 0, nil
	case syntax.GT:
		return c > 0, nil
	case syntax.GE:
		return c >= 0, nil
	}
	return false, fmt.Errorf("unsupported comparison %s", op)
}

// Name returns the name of the called method or class.
func (p CallableProxy) Name() string {
	switch o := p.object.(type) {
	case *gom.Request:
		return o.Method().Name()
	case *gom.MetaClass:
		return o.Name()
	}
	return gom.ObjectString(p.object)
}

// CallInternal calls the Callable, or creates an instance of the class.
// Keyword arguments are named arguments; a single dict with string keys is
// a name/value call.
func (p CallableProxy) CallInternal(_ *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	list := p.in.argsFromStarlark(args, kwargs)
	var result starlark.Value = starlark.None
	err := gom.Guard(tag, func() error {
		switch o := p.object.(type) {
		case gom.Callable:
			v, ok := o.Call(list)
			if !ok {
				return fmt.Errorf("call to %s failed", gom.ObjectString(o))
			}
			result = p.in.toStarlark(v)
		case *gom.MetaClass:
			created := o.Create(list)
			if created == nil {
				return fmt.Errorf("cannot create %s", o.Name())
			}
			result = p.in.wrap(created, gom.Owning)
		}
		return nil
	})
	return result, err
}
