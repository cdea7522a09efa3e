package gom

import (
	"reflect"
	"strconv"

	"github.com/iancoleman/orderedmap"
)

// MetaType is the registry entry of a type. Its identity is its globally
// unique name. Meta types are Objects themselves so that scripts can inspect
// them.
type MetaType interface {
	Object
	Name() string
	// GoType is the Go representation of values of this type, nil for
	// types without one (pseudo types, dynamic classes).
	GoType() reflect.Type
	Attribute(name string) (string, bool)
	SetAttribute(name, value string)
	AttributeNames() []string
}

// metaInfo holds what every meta type and meta member has: a name and
// custom attributes used by tooling (help text, visibility conditions...).
type metaInfo struct {
	ObjectBase
	name  string
	attrs *orderedmap.OrderedMap
}

func (m *metaInfo) Name() string { return m.name }

// Attribute returns the value of a custom attribute.
func (m *metaInfo) Attribute(name string) (string, bool) {
	if m.attrs == nil {
		return "", false
	}
	v, ok := m.attrs.Get(name)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, true
}

// HasAttribute reports whether the custom attribute is set.
func (m *metaInfo) HasAttribute(name string) bool {
	_, ok := m.Attribute(name)
	return ok
}

// SetAttribute sets a custom attribute, keeping the declaration order.
func (m *metaInfo) SetAttribute(name, value string) {
	if m.attrs == nil {
		m.attrs = orderedmap.New()
	}
	m.attrs.Set(name, value)
}

// AttributeNames returns the custom attribute names in declaration order.
func (m *metaInfo) AttributeNames() []string {
	if m.attrs == nil {
		return nil
	}
	return append([]string(nil), m.attrs.Keys()...)
}

// Index is the unsigned integer type used for element indices and counts.
// It has the same width as uint32 but is a distinct meta type ("index_t").
type Index uint32

// SignedIndex is the signed counterpart of Index ("signed_index_t").
type SignedIndex int32

// MetaBuiltinType describes a scalar or pseudo type.
type MetaBuiltinType struct {
	metaInfo
	goType reflect.Type
}

func (t *MetaBuiltinType) GoType() reflect.Type { return t.goType }

func newBuiltin(name string, goType reflect.Type) *MetaBuiltinType {
	t := &MetaBuiltinType{metaInfo: metaInfo{name: name}, goType: goType}
	InitTransient(t)
	return t
}

// Builtin meta types.
var (
	BoolType        = newBuiltin("bool", reflect.TypeFor[bool]())
	IntType         = newBuiltin("int", reflect.TypeFor[int]())
	Int32Type       = newBuiltin("int32", reflect.TypeFor[int32]())
	Int64Type       = newBuiltin("int64", reflect.TypeFor[int64]())
	UintType        = newBuiltin("uint", reflect.TypeFor[uint]())
	Uint32Type      = newBuiltin("uint32", reflect.TypeFor[uint32]())
	Uint64Type      = newBuiltin("uint64", reflect.TypeFor[uint64]())
	IndexType       = newBuiltin("index_t", reflect.TypeFor[Index]())
	SignedIndexType = newBuiltin("signed_index_t", reflect.TypeFor[SignedIndex]())
	FloatType       = newBuiltin("float", reflect.TypeFor[float32]())
	DoubleType      = newBuiltin("double", reflect.TypeFor[float64]())
	StringType      = newBuiltin("string", reflect.TypeFor[string]())

	// ArgListType is the type of an argument that receives the whole
	// argument list of a call.
	ArgListType = newBuiltin("ArgList", reflect.TypeFor[*ArgList]())
	// VoidType is the return type of methods without a result.
	VoidType = newBuiltin("void", nil)
	// AnyValueType accepts any value without conversion.
	AnyValueType = newBuiltin("any", nil)
	// ObjectValueType accepts any Object.
	ObjectValueType = newBuiltin("Object*", nil)
	// CallableValueType accepts any Callable.
	CallableValueType = newBuiltin("Callable*", nil)
)

var builtinTypes = []*MetaBuiltinType{
	BoolType, IntType, Int32Type, Int64Type, UintType, Uint32Type, Uint64Type,
	IndexType, SignedIndexType, FloatType, DoubleType, StringType,
	ArgListType, VoidType, AnyValueType, ObjectValueType, CallableValueType,
}

var builtinByGoType = func() map[reflect.Type]MetaType {
	m := make(map[reflect.Type]MetaType, len(builtinTypes))
	for _, t := range builtinTypes {
		if t.goType != nil {
			m[t.goType] = t
		}
	}
	return m
}()

// EnumValue is one named value of a MetaEnum.
type EnumValue struct {
	Name  string
	Value int64
}

// MetaEnum describes an enumeration. Values of an enum are held in Any as
// the enum's Go type (or int64 when it has none).
type MetaEnum struct {
	metaInfo
	goType reflect.Type
	values []EnumValue
}

// NewMetaEnum creates an enum meta type; bind it with Registry.BindMetaType.
func NewMetaEnum(name string, goType reflect.Type) *MetaEnum {
	e := &MetaEnum{metaInfo: metaInfo{name: name}, goType: goType}
	InitTransient(e)
	return e
}

func (e *MetaEnum) GoType() reflect.Type { return e.goType }

// AddValue declares a named value.
func (e *MetaEnum) AddValue(name string, value int64) *MetaEnum {
	e.values = append(e.values, EnumValue{Name: name, Value: value})
	return e
}

// Values returns the declared values in order.
func (e *MetaEnum) Values() []EnumValue {
	return append([]EnumValue(nil), e.values...)
}

// FindValue returns the value declared under name.
func (e *MetaEnum) FindValue(name string) (int64, bool) {
	for _, v := range e.values {
		if v.Name == name {
			return v.Value, true
		}
	}
	return 0, false
}

// NameOf returns the name of an enum value given as the enum's Go type or
// any integer.
func (e *MetaEnum) NameOf(v any) (string, bool) {
	n, ok := integerOf(v)
	if !ok {
		return "", false
	}
	for _, ev := range e.values {
		if ev.Value == n {
			return ev.Name, true
		}
	}
	return "", false
}

// valueOf returns the representation held in Any for the value n.
func (e *MetaEnum) valueOf(n int64) any {
	if e.goType == nil {
		return n
	}
	return reflect.ValueOf(n).Convert(e.goType).Interface()
}

// StructField is one field of a MetaStruct.
type StructField struct {
	Name     string
	TypeName string
}

// MetaStruct describes a builtin value struct (vectors, colors...). Struct
// values are exchanged with scripts in their string form.
type MetaStruct struct {
	metaInfo
	goType reflect.Type
	fields []StructField
}

// NewMetaStruct creates a struct meta type; bind it with
// Registry.BindMetaType.
func NewMetaStruct(name string, goType reflect.Type, fields ...StructField) *MetaStruct {
	s := &MetaStruct{metaInfo: metaInfo{name: name}, goType: goType, fields: fields}
	InitTransient(s)
	return s
}

func (s *MetaStruct) GoType() reflect.Type { return s.goType }

// Fields returns the declared fields.
func (s *MetaStruct) Fields() []StructField {
	return append([]StructField(nil), s.fields...)
}

func integerOf(v any) (int64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint()), true
	case reflect.String:
		n, err := strconv.ParseInt(rv.String(), 10, 64)
		return n, err == nil
	}
	return 0, false
}
