package gom

// Callable is an Object that can be called with an argument list: a bound
// Request, a wrapped script closure or a Go function.
type Callable interface {
	Object
	Call(args *ArgList) (Any, bool)
}

// Request binds an object and one of its methods. It is a deferred call:
// it can be stored, passed to scripts and connected to signals before being
// called.
type Request struct {
	ObjectBase
	object    Object
	method    *MetaMethod
	ownership Ownership
}

// NewRequest binds o and m. An owning request keeps a reference on o until
// the request itself is destroyed.
func NewRequest(o Object, m *MetaMethod, ownership Ownership) *Request {
	r := &Request{object: o, method: m, ownership: ownership.Resolve()}
	InitTransient(r)
	if r.ownership == Owning {
		o.Ref()
	}
	return r
}

// Object returns the target object.
func (r *Request) Object() Object { return r.object }

// Method returns the target method.
func (r *Request) Method() *MetaMethod { return r.method }

// Ownership returns whether the request holds a reference on its target.
func (r *Request) Ownership() Ownership { return r.ownership }

// Call invokes the method on the target through Object.Invoke, so that the
// usual argument binding rules apply. A destroyed request fails.
func (r *Request) Call(args *ArgList) (Any, bool) {
	if isNilObject(r.object) {
		TagLogger(r.method.Tag()).Warn("call on a destroyed request")
		return Any{}, false
	}
	return r.object.Invoke(r.method.Name(), args)
}

// Destroy releases the target when the request is owning.
func (r *Request) Destroy() {
	if r.ownership == Owning && r.object != nil {
		r.object.Unref()
	}
	r.object = nil
}

// FuncCallable adapts a Go function to Callable.
type FuncCallable struct {
	ObjectBase
	fn func(args *ArgList) (Any, bool)
}

// NewFuncCallable wraps fn.
func NewFuncCallable(fn func(args *ArgList) (Any, bool)) *FuncCallable {
	c := &FuncCallable{fn: fn}
	InitTransient(c)
	return c
}

// Call calls the wrapped function.
func (c *FuncCallable) Call(args *ArgList) (Any, bool) {
	if args == nil {
		args = NewArgList()
	}
	return c.fn(args)
}
