package gom

import (
	"strconv"
	"strings"

	"github.com/iancoleman/orderedmap"
)

const unnamedArgPrefix = "arg#"

// UnnamedArgName returns the synthetic name of the i-th unnamed argument.
func UnnamedArgName(i int) string {
	return unnamedArgPrefix + strconv.Itoa(i)
}

// IsUnnamedArgName reports whether name is a synthetic argument name.
func IsUnnamedArgName(name string) bool {
	return strings.HasPrefix(name, unnamedArgPrefix)
}

// ArgList is an insertion-ordered list of named arguments.
type ArgList struct {
	m *orderedmap.OrderedMap
}

// NewArgList returns an empty ArgList.
func NewArgList() *ArgList {
	return &ArgList{m: orderedmap.New()}
}

// Args builds an ArgList of unnamed arguments.
func Args(values ...any) *ArgList {
	args := NewArgList()
	for _, v := range values {
		args.AddUnnamed(NewAny(v))
	}
	return args
}

// NamedArgs builds an ArgList from alternating names and values.
func NamedArgs(kv ...any) *ArgList {
	args := NewArgList()
	for i := 0; i+1 < len(kv); i += 2 {
		name, _ := kv[i].(string)
		args.Set(name, NewAny(kv[i+1]))
	}
	return args
}

// Len returns the number of arguments.
func (a *ArgList) Len() int {
	if a == nil {
		return 0
	}
	return len(a.m.Keys())
}

// Set sets the argument name. An existing argument keeps its position and
// gets the new value. An empty name adds an unnamed argument.
func (a *ArgList) Set(name string, v Any) {
	if name == "" {
		a.AddUnnamed(v)
		return
	}
	a.m.Set(name, v)
}

// SetValue is Set with a Go value.
func (a *ArgList) SetValue(name string, v any) {
	a.Set(name, NewAny(v))
}

// AddUnnamed appends an argument under the synthetic name arg#N, N being
// the current number of arguments.
func (a *ArgList) AddUnnamed(v Any) {
	a.m.Set(UnnamedArgName(a.Len()), v)
}

// Get returns the argument name.
func (a *ArgList) Get(name string) (Any, bool) {
	if a == nil {
		return Any{}, false
	}
	v, ok := a.m.Get(name)
	if !ok {
		return Any{}, false
	}
	return v.(Any), true
}

// Has reports whether the argument name is present.
func (a *ArgList) Has(name string) bool {
	_, ok := a.Get(name)
	return ok
}

// Name returns the name of the i-th argument.
func (a *ArgList) Name(i int) string {
	return a.m.Keys()[i]
}

// Value returns the value of the i-th argument.
func (a *ArgList) Value(i int) Any {
	v, _ := a.Get(a.Name(i))
	return v
}

// Names returns the argument names in order.
func (a *ArgList) Names() []string {
	if a == nil {
		return nil
	}
	return append([]string(nil), a.m.Keys()...)
}

// Remove deletes the argument name.
func (a *ArgList) Remove(name string) {
	a.m.Delete(name)
}

// Rename renames an argument in place. It fails if from is missing or to is
// already used.
func (a *ArgList) Rename(from, to string) bool {
	if !a.Has(from) || a.Has(to) {
		return false
	}
	renamed := orderedmap.New()
	for _, k := range a.m.Keys() {
		v, _ := a.m.Get(k)
		if k == from {
			k = to
		}
		renamed.Set(k, v)
	}
	a.m = renamed
	return true
}

// Clone returns a copy of a.
func (a *ArgList) Clone() *ArgList {
	c := NewArgList()
	for _, k := range a.Names() {
		v, _ := a.m.Get(k)
		c.m.Set(k, v)
	}
	return c
}

// HasUnnamedArgs reports whether any argument has a synthetic name.
func (a *ArgList) HasUnnamedArgs() bool {
	for _, k := range a.Names() {
		if IsUnnamedArgName(k) {
			return true
		}
	}
	return false
}

// String returns "(name=value, ...)".
func (a *ArgList) String() string {
	var b strings.Builder
	b.WriteString("(")
	for i, k := range a.Names() {
		if i > 0 {
			b.WriteString(", ")
		}
		v, _ := a.Get(k)
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(v.AsString())
	}
	b.WriteString(")")
	return b.String()
}

// IsNameValueCall reports whether a native call should reach a script
// function as a single table of name/value pairs rather than as positional
// values. A single argument named "value" (a property setter) stays
// positional.
func IsNameValueCall(args *ArgList) bool {
	switch args.Len() {
	case 0:
		return false
	case 1:
		if args.Name(0) == "value" {
			return false
		}
	}
	return !args.HasUnnamedArgs()
}

// ArgAs returns the argument name as a T. Arguments bound by
// MetaMethod.Invoke already carry their declared type. A present but empty
// argument yields the zero value for pointer and interface types.
func ArgAs[T any](args *ArgList, name string) (T, bool) {
	v, ok := args.Get(name)
	if !ok {
		var zero T
		return zero, false
	}
	return As[T](v)
}
