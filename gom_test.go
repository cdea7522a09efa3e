package gom

import (
	"io"
	"log/slog"
	"os"
	"reflect"
	"testing"
)

func TestMain(m *testing.M) {
	cfg := Config{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	if err := Init(cfg, registerFixtures); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type shade int

const (
	shadeLight shade = iota
	shadeDark
)

var widgetsDestroyed int

type widget struct {
	ObjectBase
	name  string
	size  int
	shade shade
}

func newWidget(name string, size int) *widget {
	w := &widget{name: name, size: size}
	InitObject(w)
	return w
}

func (w *widget) asWidget() *widget { return w }

func (w *widget) Destroy() { widgetsDestroyed++ }

type gadget struct {
	widget
	power float64
}

func newGadget(name string, power float64) *gadget {
	g := &gadget{widget: widget{name: name, size: 1}, power: power}
	InitObject(g)
	return g
}

type hasWidget interface{ asWidget() *widget }

func widgetOf(o Object) *widget { return o.(hasWidget).asWidget() }

// registerFixtures binds Shade, Widget, Gadget (a Widget) and the abstract
// Shape, written the way generated registration code is.
func registerFixtures(r *Registry) error {
	if _, err := r.BindEnum("Shade", reflect.TypeFor[shade](),
		EnumValue{Name: "light", Value: int64(shadeLight)},
		EnumValue{Name: "dark", Value: int64(shadeDark)},
	); err != nil {
		return err
	}

	w, err := r.DeclareClass(ClassDecl{Name: "Widget", GoType: reflect.TypeFor[*widget]()})
	if err != nil {
		return err
	}
	w.WithAttribute("help", "a widget")
	w.Constructor(func(_ Object, args *ArgList) (Any, bool) {
		name, _ := ArgAs[string](args, "name")
		size, _ := ArgAs[int](args, "size")
		return ObjectAny(newWidget(name, size)), true
	}, Arg("name", "string"), ArgWithDefault("size", "int", 1))
	w.Property("name", "string", func(o Object) (Any, bool) {
		return AnyOf(widgetOf(o).name), true
	}, func(o Object, v Any) bool {
		s, ok := As[string](v)
		widgetOf(o).name = s
		return ok
	})
	w.Property("size", "int", func(o Object) (Any, bool) {
		return AnyOf(widgetOf(o).size), true
	}, func(o Object, v Any) bool {
		n, ok := As[int](v)
		widgetOf(o).size = n
		return ok
	})
	w.Property("area", "int", func(o Object) (Any, bool) {
		s := widgetOf(o).size
		return AnyOf(s * s), true
	}, nil)
	w.Property("shade", "Shade", func(o Object) (Any, bool) {
		return AnyOf(widgetOf(o).shade), true
	}, func(o Object, v Any) bool {
		s, ok := As[shade](v)
		widgetOf(o).shade = s
		return ok
	})
	w.Slot("grow", "int", func(target Object, args *ArgList) (Any, bool) {
		by, _ := ArgAs[int](args, "by")
		wd := widgetOf(target)
		wd.size += by
		return AnyOf(wd.size), true
	}, ArgWithDefault("by", "int", 1))
	w.Slot("describe", "string", func(_ Object, args *ArgList) (Any, bool) {
		inner, _ := ArgAs[*ArgList](args, "args")
		return AnyOf(inner.String()), true
	}, Arg("args", ArgListType.Name()))
	w.Signal("resized", Arg("size", "int"))

	g, err := r.DeclareClass(ClassDecl{Name: "Gadget", Bases: []string{"Widget", "fmt.Stringer"}, GoType: reflect.TypeFor[*gadget]()})
	if err != nil {
		return err
	}
	g.Constructor(func(_ Object, args *ArgList) (Any, bool) {
		power, _ := ArgAs[float64](args, "power")
		return ObjectAny(newGadget("", power)), true
	}, Arg("power", "double"))
	g.Constructor(func(_ Object, args *ArgList) (Any, bool) {
		name, _ := ArgAs[string](args, "name")
		power, _ := ArgAs[float64](args, "power")
		return ObjectAny(newGadget(name, power)), true
	}, Arg("name", "string"), Arg("power", "double"))
	g.Property("power", "double", func(o Object) (Any, bool) {
		return AnyOf(o.(*gadget).power), true
	}, nil)

	if _, err := r.DeclareClass(ClassDecl{Name: "Shape", Abstract: true}); err != nil {
		return err
	}
	return nil
}

func mustClass(t *testing.T, name string) *MetaClass {
	t.Helper()
	c, ok := Meta().ResolveClass(name)
	if !ok {
		t.Fatalf("class %s is not registered", name)
	}
	return c
}

func mustInvoke(t *testing.T, o Object, method string, args *ArgList) Any {
	t.Helper()
	v, ok := o.Invoke(method, args)
	if !ok {
		t.Fatalf("Invoke(%q, %v) failed", method, args)
	}
	return v
}
