package gom

import (
	"fmt"
	"reflect"
	"sort"
)

// Registry binds meta types by name. The process-wide registry is created
// once by Init and is read-only afterwards.
type Registry struct {
	types    map[string]MetaType
	byGoType map[reflect.Type]MetaType
}

// Registration populates a registry. Generated registration code provides
// one per package.
type Registration func(r *Registry) error

var meta *Registry

// Meta returns the process-wide registry, nil before Init.
func Meta() *Registry {
	return meta
}

// Init creates the process-wide registry: it binds the builtin types and
// the core classes, then runs regs in order. It must be called once, before
// any script bridge is created. An error (a duplicate name or an ambiguous
// superclass) leaves the process without a registry and must abort the
// program.
func Init(cfg Config, regs ...Registration) error {
	if meta != nil {
		return ErrAlreadyInitialized
	}
	if cfg.Logger != nil {
		SetLogger(cfg.Logger)
	}
	EnableFPTraps(cfg.FPTraps)

	r, err := NewRegistry()
	if err != nil {
		return err
	}
	meta = r
	for _, reg := range regs {
		if err := reg(r); err != nil {
			meta = nil
			return fmt.Errorf("registering meta types: %w", err)
		}
	}
	Logger().Debug("meta type registry initialized", "tag", "Meta", "types", len(r.types))
	return nil
}

// NewRegistry returns a registry holding the builtin types and the core
// classes.
func NewRegistry() (*Registry, error) {
	r := &Registry{
		types:    make(map[string]MetaType),
		byGoType: make(map[reflect.Type]MetaType),
	}
	for _, t := range builtinTypes {
		if err := r.BindMetaType(t); err != nil {
			return nil, err
		}
	}
	if err := registerCore(r); err != nil {
		return nil, fmt.Errorf("registering core classes: %w", err)
	}
	return r, nil
}

// BindMetaType registers t under its name. Binding a name twice is an
// error.
func (r *Registry) BindMetaType(t MetaType) error {
	name := t.Name()
	if _, ok := r.types[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateType, name)
	}
	r.types[name] = t
	if gt := t.GoType(); gt != nil {
		if _, ok := r.byGoType[gt]; !ok {
			r.byGoType[gt] = t
		}
	}
	if c, ok := t.(*MetaClass); ok {
		c.registry = r
	}
	return nil
}

// ResolveMetaType returns the type bound under name. Absence is not an
// error; callers log it and go on.
func (r *Registry) ResolveMetaType(name string) (MetaType, bool) {
	t, ok := r.types[name]
	return t, ok
}

// ResolveClass returns the class bound under name.
func (r *Registry) ResolveClass(name string) (*MetaClass, bool) {
	t, ok := r.types[name]
	if !ok {
		return nil, false
	}
	c, ok := t.(*MetaClass)
	return c, ok
}

// ClassOf returns the class registered for a Go type.
func (r *Registry) ClassOf(rt reflect.Type) *MetaClass {
	c, _ := r.byGoType[rt].(*MetaClass)
	return c
}

// TypeOf returns the meta type registered for a Go type.
func (r *Registry) TypeOf(rt reflect.Type) (MetaType, bool) {
	if t, ok := builtinByGoType[rt]; ok {
		return t, true
	}
	t, ok := r.byGoType[rt]
	return t, ok
}

// ListTypes returns every bound type, ordered by name.
func (r *Registry) ListTypes() []MetaType {
	types := make([]MetaType, 0, len(r.types))
	for _, name := range r.ListTypeNames() {
		types = append(types, r.types[name])
	}
	return types
}

// ListTypeNames returns every bound name, sorted.
func (r *Registry) ListTypeNames() []string {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClassDecl declares a class.
type ClassDecl struct {
	Name string
	// Super is the explicit superclass annotation. When empty, the
	// superclass is the single entry of Bases bound to a class.
	Super string
	// Bases are the embedded (native) base types in declaration order.
	Bases    []string
	Abstract bool
	GoType   reflect.Type
	// Factory creates instances when the class declares no constructor.
	Factory Factory
}

// DeclareClass creates and binds a class. More than one base bound to a
// class with no explicit Super is the fatal ErrAmbiguousSuperclass.
func (r *Registry) DeclareClass(d ClassDecl) (*MetaClass, error) {
	super := d.Super
	if super == "" {
		var candidates []string
		for _, b := range d.Bases {
			if _, ok := r.ResolveClass(b); ok {
				candidates = append(candidates, b)
			}
		}
		switch len(candidates) {
		case 0:
			if d.Name != rootClassName {
				super = rootClassName
			}
		case 1:
			super = candidates[0]
		default:
			return nil, fmt.Errorf("class %s: %w: candidates %v need an explicit superclass annotation", d.Name, ErrAmbiguousSuperclass, candidates)
		}
	} else if _, ok := r.ResolveClass(super); !ok {
		return nil, fmt.Errorf("class %s: superclass %s: %w", d.Name, super, ErrNotFound)
	}

	c := &MetaClass{
		metaInfo:  metaInfo{name: d.Name},
		superName: super,
		abstract:  d.Abstract,
		goType:    d.GoType,
		factory:   d.Factory,
	}
	InitTransient(c)
	if err := r.BindMetaType(c); err != nil {
		return nil, err
	}
	return c, nil
}

// BindEnum declares and binds an enum.
func (r *Registry) BindEnum(name string, goType reflect.Type, values ...EnumValue) (*MetaEnum, error) {
	e := NewMetaEnum(name, goType)
	for _, v := range values {
		e.AddValue(v.Name, v.Value)
	}
	if err := r.BindMetaType(e); err != nil {
		return nil, err
	}
	return e, nil
}
