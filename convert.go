package gom

import (
	"math"
	"reflect"
	"strconv"
	"strings"
)

// This file holds the scalar conversion table shared by the script bridges.
// A bridge turns an engine value into a generic Any (nil, bool, int, double,
// string, Object) and back; Convert then turns a generic Any into the
// declared type of a property or argument.

// scalarConversion converts a generic value to one scalar kind.
type scalarConversion struct {
	fromBool   func(bool) (any, bool)
	fromInt    func(int64) (any, bool)
	fromUint   func(uint64) (any, bool)
	fromFloat  func(float64) (any, bool)
	fromString func(string) (any, bool)
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func signedConversion(bits int) scalarConversion {
	fits := func(n int64) bool {
		return bits == 64 || (n >= -1<<(bits-1) && n <= 1<<(bits-1)-1)
	}
	fromInt := func(n int64) (any, bool) { return n, fits(n) }
	return scalarConversion{
		fromBool: func(b bool) (any, bool) { return boolToInt(b), true },
		fromInt:  fromInt,
		fromUint: func(n uint64) (any, bool) {
			if n > math.MaxInt64 {
				return nil, false
			}
			return fromInt(int64(n))
		},
		fromFloat: func(f float64) (any, bool) {
			if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
				return nil, false
			}
			return fromInt(int64(f))
		},
		fromString: func(s string) (any, bool) {
			n, err := strconv.ParseInt(strings.TrimSpace(s), 10, bits)
			return n, err == nil
		},
	}
}

func unsignedConversion(bits int) scalarConversion {
	fits := func(n uint64) bool {
		return bits == 64 || n <= 1<<bits-1
	}
	fromUint := func(n uint64) (any, bool) { return n, fits(n) }
	return scalarConversion{
		fromBool: func(b bool) (any, bool) { return uint64(boolToInt(b)), true },
		fromInt: func(n int64) (any, bool) {
			if n < 0 {
				return nil, false
			}
			return fromUint(uint64(n))
		},
		fromUint: fromUint,
		fromFloat: func(f float64) (any, bool) {
			if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
				return nil, false
			}
			return fromUint(uint64(f))
		},
		fromString: func(s string) (any, bool) {
			n, err := strconv.ParseUint(strings.TrimSpace(s), 10, bits)
			return n, err == nil
		},
	}
}

func floatConversion(bits int) scalarConversion {
	return scalarConversion{
		fromBool:  func(b bool) (any, bool) { return float64(boolToInt(b)), true },
		fromInt:   func(n int64) (any, bool) { return float64(n), true },
		fromUint:  func(n uint64) (any, bool) { return float64(n), true },
		fromFloat: func(f float64) (any, bool) { return f, true },
		fromString: func(s string) (any, bool) {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), bits)
			return f, err == nil
		},
	}
}

var conversions = map[reflect.Kind]scalarConversion{
	reflect.Bool: {
		fromBool:  func(b bool) (any, bool) { return b, true },
		fromInt:   func(n int64) (any, bool) { return n != 0, true },
		fromUint:  func(n uint64) (any, bool) { return n != 0, true },
		fromFloat: func(f float64) (any, bool) { return f != 0, true },
		fromString: func(s string) (any, bool) {
			b, err := strconv.ParseBool(strings.TrimSpace(s))
			return b, err == nil
		},
	},
	reflect.Int:     signedConversion(strconv.IntSize),
	reflect.Int8:    signedConversion(8),
	reflect.Int16:   signedConversion(16),
	reflect.Int32:   signedConversion(32),
	reflect.Int64:   signedConversion(64),
	reflect.Uint:    unsignedConversion(strconv.IntSize),
	reflect.Uint8:   unsignedConversion(8),
	reflect.Uint16:  unsignedConversion(16),
	reflect.Uint32:  unsignedConversion(32),
	reflect.Uint64:  unsignedConversion(64),
	reflect.Float32: floatConversion(32),
	reflect.Float64: floatConversion(64),
}

// convertScalar applies the table entry of kind to the generic value v.
func convertScalar(c scalarConversion, v any) (any, bool) {
	switch v := v.(type) {
	case bool:
		return c.fromBool(v)
	case string:
		return c.fromString(v)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return c.fromInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return c.fromUint(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return c.fromFloat(rv.Float())
	}
	return nil, false
}

// Convert returns v as a value of type t. Scalars convert between each
// other when no information is lost, strings are parsed, anything converts
// to string, objects convert to any class they are an instance of, and an
// empty value converts to an empty object reference.
func Convert(v Any, t MetaType) (Any, bool) {
	if t == nil || t == AnyValueType || v.typ == t {
		return v, true
	}
	switch t := t.(type) {
	case *MetaClass:
		if v.IsEmpty() {
			return Any{}, true
		}
		o := v.Object()
		if o == nil || o.MetaClass() == nil || !o.MetaClass().IsA(t) {
			return Any{}, false
		}
		return v, true
	case *MetaEnum:
		return convertEnum(v, t)
	}

	switch t {
	case StringType:
		return Any{typ: StringType, val: v.AsString()}, true
	case ObjectValueType:
		if v.IsEmpty() || v.IsObject() {
			return v, true
		}
		return Any{}, false
	case CallableValueType:
		if v.IsEmpty() {
			return v, true
		}
		if _, ok := v.val.(Callable); ok {
			return v, true
		}
		return Any{}, false
	case ArgListType:
		if _, ok := v.val.(*ArgList); ok {
			return Any{typ: ArgListType, val: v.val}, true
		}
		return Any{}, false
	case VoidType:
		return Any{}, true
	}

	gt := t.GoType()
	if gt == nil || v.IsEmpty() {
		return Any{}, false
	}
	c, ok := conversions[gt.Kind()]
	if !ok {
		return Any{}, false
	}
	raw := v.val
	if e, isEnum := v.typ.(*MetaEnum); isEnum {
		if n, ok := integerOf(raw); ok {
			raw = n
		} else if name, ok := raw.(string); ok {
			n, _ := e.FindValue(name)
			raw = n
		}
	}
	out, ok := convertScalar(c, raw)
	if !ok {
		return Any{}, false
	}
	return MakeAny(t, out), true
}

func convertEnum(v Any, e *MetaEnum) (Any, bool) {
	switch raw := v.val.(type) {
	case string:
		if n, ok := e.FindValue(strings.TrimSpace(raw)); ok {
			return Any{typ: e, val: e.valueOf(n)}, true
		}
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return Any{}, false
		}
		return convertEnum(NewAny(n), e)
	case float64:
		if raw != math.Trunc(raw) {
			return Any{}, false
		}
		return convertEnum(NewAny(int64(raw)), e)
	}
	n, ok := integerOf(v.val)
	if !ok {
		return Any{}, false
	}
	if _, ok := e.NameOf(n); !ok {
		return Any{}, false
	}
	return Any{typ: e, val: e.valueOf(n)}, true
}

// Generic returns the engine-neutral form of a, as consumed by the script
// bridges: nil, bool, int64, float64, string, Object or *ArgList. Enums and
// structs are given by their string form.
func Generic(a Any) any {
	switch v := a.val.(type) {
	case nil:
		return nil
	case bool, string, Object, *ArgList:
		return v
	case float64:
		return v
	case float32:
		return float64(v)
	}
	if _, isEnum := a.typ.(*MetaEnum); isEnum {
		return a.AsString()
	}
	rv := reflect.ValueOf(a.val)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if n := rv.Uint(); n <= math.MaxInt64 {
			return int64(n)
		}
		return float64(rv.Uint())
	}
	return a.AsString()
}

// FromNumber returns the generic Any of a script number: an int when it is
// integral and in range, a double otherwise.
func FromNumber(f float64) Any {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && f >= math.MinInt && f < math.MaxInt {
		return Any{typ: IntType, val: int(f)}
	}
	return Any{typ: DoubleType, val: f}
}
