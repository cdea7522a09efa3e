package codegen

import "go/token"

// Member kinds, as used by the template.
const (
	PropertyMember    = "property"
	SlotMember        = "slot"
	SignalMember      = "signal"
	ConstructorMember = "constructor"
)

// Package is the scanned form of an annotated Go package.
type Package struct {
	Name       string
	Dir        string
	ImportPath string
	Enums      []*Enum
	// Classes are ordered so that a superclass of the package comes
	// before its subclasses.
	Classes []*Class
	// Imports maps the import paths needed by the generated code to their
	// names.
	Imports map[string]string
}

// Enum is a //gom:enum named integer type.
type Enum struct {
	Name   string
	Values []EnumValue
}

// EnumValue is one constant of an enum.
type EnumValue struct {
	Name  string // script name, e.g. "wireframe"
	Const string // Go constant, e.g. "DrawWireframe"
}

// Class is a //gom:class struct type.
type Class struct {
	Name     string
	Super    string
	Bases    []string
	Abstract bool
	// Attributes are the //gom:attribute key/value pairs, in order.
	Attributes [][2]string
	Members    []*Member

	pos    token.Pos
	embeds []embedded
}

// HasConstructor reports whether a //gom:constructor creates the class.
func (c *Class) HasConstructor() bool {
	for _, m := range c.Members {
		if m.Kind == ConstructorMember {
			return true
		}
	}
	return false
}

// NeedsFactory reports whether the class is created by a default factory.
func (c *Class) NeedsFactory() bool {
	return !c.Abstract && !c.HasConstructor()
}

// Member is a property, slot, signal or constructor of a class.
type Member struct {
	Kind string
	Name string
	// Type is the meta type name of a property, or the return type of a
	// slot.
	Type string

	// GoType is the Go type of a property.
	GoType      string
	Getter      string
	GetterIface string
	Setter      string
	SetterIface string

	// Method is the Go method of a slot, or the function of a
	// constructor.
	Method string
	Iface  string
	Params []Param
	Void   bool

	pos token.Pos
}

// CallArgs returns the variables passed to the Go method.
func (m *Member) CallArgs() string {
	s := ""
	for i, p := range m.Params {
		if i > 0 {
			s += ", "
		}
		s += p.Var
	}
	return s
}

// Param is a declared argument.
type Param struct {
	Var        string
	Name       string
	GoType     string
	TypeName   string
	Default    string
	HasDefault bool
}

type embedded struct {
	pkgPath string // "" for the scanned package
	name    string
}
