package gom

import "fmt"

// DynamicObject is the instance type of classes created at run time by
// CreateSubclass. Its dynamic properties live in a map.
type DynamicObject struct {
	ObjectBase
	values map[string]Any
}

// CreateSubclass creates and binds a class deriving from c whose members are
// added at run time with AddSlot and AddProperty. Its instances are
// DynamicObjects.
func (c *MetaClass) CreateSubclass(name string) (*MetaClass, error) {
	r := c.registry
	if r == nil {
		return nil, fmt.Errorf("class %s is not bound: %w", c.Name(), ErrNotFound)
	}
	sub, err := r.DeclareClass(ClassDecl{Name: name, Super: c.Name()})
	if err != nil {
		return nil, err
	}
	sub.dynamic = true
	sub.factory = func(*ArgList) Object {
		o := &DynamicObject{values: make(map[string]Any)}
		o.SetMetaClass(sub)
		InitObject(o)
		return o
	}
	return sub, nil
}

// AddProperty adds a property stored in the DynamicObject itself. def is
// the initial value.
func (c *MetaClass) AddProperty(name, typeName string, def Any) (*MetaProperty, error) {
	if !c.dynamic {
		return nil, fmt.Errorf("class %s is not dynamic", c.Name())
	}
	if _, ok := c.resolveType(typeName); !ok {
		return nil, fmt.Errorf("property %s: type %s: %w", name, typeName, ErrNotFound)
	}
	get := func(o Object) (Any, bool) {
		d, ok := o.(*DynamicObject)
		if !ok {
			return Any{}, false
		}
		if v, ok := d.values[name]; ok {
			return v, true
		}
		return def, true
	}
	set := func(o Object, v Any) bool {
		d, ok := o.(*DynamicObject)
		if !ok {
			return false
		}
		d.values[name] = v
		return true
	}
	return c.Property(name, typeName, get, set), nil
}

// AddSlot adds a slot implemented by action. The target object is passed to
// action as the argument "self", after the declared arguments. Without
// declared arguments the slot receives the caller's whole argument list.
func (c *MetaClass) AddSlot(name string, action Callable, args ...MetaArg) (*MetaMethod, error) {
	if !c.dynamic {
		return nil, fmt.Errorf("class %s is not dynamic", c.Name())
	}
	passThrough := len(args) == 0
	if passThrough {
		args = []MetaArg{Arg("args", ArgListType.Name())}
	}
	action.Ref()
	adapter := func(target Object, bound *ArgList) (Any, bool) {
		call := bound
		if passThrough {
			inner, _ := ArgAs[*ArgList](bound, "args")
			call = inner
		}
		call = call.Clone()
		call.Set("self", ObjectAny(target))
		return action.Call(call)
	}
	return c.Slot(name, AnyValueType.Name(), adapter, args...), nil
}
