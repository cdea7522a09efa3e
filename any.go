package gom

import (
	"fmt"
	"reflect"
	"strconv"
)

// Any is a generic tagged value. It holds nothing, a scalar of one of the
// builtin meta types, an enum value, or an Object together with its exact
// MetaClass.
//
// The tag is exact: an Any built from an Index does not yield a uint32, even
// though both have the same width.
type Any struct {
	typ MetaType
	val any
}

// NewAny wraps v, tagging it with the meta type registered for its Go type.
// Values of unregistered types produce an empty Any.
func NewAny(v any) Any {
	switch v := v.(type) {
	case nil:
		return Any{}
	case Any:
		return v
	case Object:
		return ObjectAny(v)
	}
	t := typeForGo(reflect.TypeOf(v))
	if t == nil {
		Logger().Debug("no meta type for Go value", "type", fmt.Sprintf("%T", v))
		return Any{}
	}
	return Any{typ: t, val: v}
}

// AnyOf is the typed form of NewAny.
func AnyOf[T any](v T) Any {
	return NewAny(v)
}

// MakeAny tags v with t, converting v to t's Go type when they differ.
func MakeAny(t MetaType, v any) Any {
	if t == nil || v == nil {
		return Any{typ: t, val: v}
	}
	if gt := t.GoType(); gt != nil {
		rv := reflect.ValueOf(v)
		if rv.Type() != gt && rv.Type().ConvertibleTo(gt) {
			v = rv.Convert(gt).Interface()
		}
	}
	return Any{typ: t, val: v}
}

// ObjectAny wraps an Object. A nil Object gives an empty Any.
func ObjectAny(o Object) Any {
	if isNilObject(o) {
		return Any{}
	}
	var t MetaType = ObjectValueType
	if c := o.MetaClass(); c != nil {
		t = c
	}
	return Any{typ: t, val: o}
}

// IsEmpty reports whether a holds no value.
func (a Any) IsEmpty() bool { return a.typ == nil }

// MetaType returns the tag of a, nil when empty.
func (a Any) MetaType() MetaType { return a.typ }

// Value returns the raw held value.
func (a Any) Value() any { return a.val }

// IsObject reports whether a holds an Object.
func (a Any) IsObject() bool {
	_, ok := a.val.(Object)
	return ok
}

// Object returns the held Object or nil.
func (a Any) Object() Object {
	o, _ := a.val.(Object)
	return o
}

// Get returns the value held by a as a T. It fails unless the tag of a is
// exactly the meta type registered for T; for Object types it is a type
// assertion.
func Get[T any](a Any) (T, bool) {
	var zero T
	if a.typ == nil {
		return zero, false
	}
	if t := typeForGo(reflect.TypeFor[T]()); t != nil {
		if _, isClass := t.(*MetaClass); !isClass && t != a.typ {
			return zero, false
		}
	}
	v, ok := a.val.(T)
	return v, ok
}

// As is Get, except that an empty value yields the zero value for pointer
// and interface types (an empty object reference).
func As[T any](a Any) (T, bool) {
	var zero T
	if a.IsEmpty() {
		k := reflect.TypeFor[T]().Kind()
		return zero, k == reflect.Pointer || k == reflect.Interface
	}
	return Get[T](a)
}

// AsString returns the canonical string form of a. It always succeeds:
// doubles are printed with full precision and objects as "@Class::#id".
func (a Any) AsString() string {
	switch v := a.val.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case Object:
		return ObjectString(v)
	case *ArgList:
		return v.String()
	}
	if e, ok := a.typ.(*MetaEnum); ok {
		if name, ok := e.NameOf(a.val); ok {
			return name
		}
	}
	return fmt.Sprint(a.val)
}

// String implements fmt.Stringer.
func (a Any) String() string {
	return a.AsString()
}

// Equal reports whether a and b have the same tag and value. Objects compare
// by identity.
func (a Any) Equal(b Any) bool {
	if a.typ != b.typ {
		return false
	}
	if a.val == nil || b.val == nil {
		return a.val == nil && b.val == nil
	}
	if !reflect.TypeOf(a.val).Comparable() {
		return false
	}
	return a.val == b.val
}

// typeForGo returns the meta type registered for a Go type: the builtins
// first, then the process-wide registry.
func typeForGo(rt reflect.Type) MetaType {
	if rt == nil {
		return nil
	}
	if t, ok := builtinByGoType[rt]; ok {
		return t
	}
	if r := Meta(); r != nil {
		if t, ok := r.byGoType[rt]; ok {
			return t
		}
	}
	return nil
}

func isNilObject(o Object) bool {
	if o == nil {
		return true
	}
	rv := reflect.ValueOf(o)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
