package scope

import (
	"io"
	"log/slog"
	"os"
	"reflect"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	gom "github.com/podhmo/go-gom"
)

type mesh struct {
	gom.ObjectBase
}

func newMesh() *mesh {
	m := &mesh{}
	gom.InitObject(m)
	return m
}

// editor stands for every interface fixture: it holds a reference on the
// object it operates on.
type editor struct {
	gom.ObjectBase
	target gom.Object
}

func newEditor() *editor {
	e := &editor{}
	gom.InitObject(e)
	return e
}

func (e *editor) setTarget(o gom.Object) {
	if o != nil {
		o.Ref()
	}
	if e.target != nil {
		e.target.Unref()
	}
	e.target = o
}

func (e *editor) Destroy() { e.setTarget(nil) }

type shapeCommands struct{ editor }

type stats struct {
	gom.ObjectBase
}

func registerFixtures(r *gom.Registry) error {
	if err := Register(r); err != nil {
		return err
	}
	if _, err := r.DeclareClass(gom.ClassDecl{Name: "Mesh", GoType: reflect.TypeFor[*mesh](), Factory: func(*gom.ArgList) gom.Object { return newMesh() }}); err != nil {
		return err
	}

	grob := func(c *gom.MetaClass) {
		c.Property("grob", "Object", func(o gom.Object) (gom.Any, bool) {
			return gom.ObjectAny(o.(interface{ base() *editor }).base().target), true
		}, func(o gom.Object, v gom.Any) bool {
			target, ok := gom.As[gom.Object](v)
			if !ok {
				return false
			}
			o.(interface{ base() *editor }).base().setTarget(target)
			return true
		})
	}

	c, err := r.DeclareClass(gom.ClassDecl{
		Name:    "MeshEditorInterface",
		GoType:  reflect.TypeFor[*editor](),
		Factory: func(*gom.ArgList) gom.Object { return newEditor() },
	})
	if err != nil {
		return err
	}
	grob(c)

	c, err = r.DeclareClass(gom.ClassDecl{Name: "MeshShapeCommands", GoType: reflect.TypeFor[*shapeCommands]()})
	if err != nil {
		return err
	}
	c.Constructor(func(gom.Object, *gom.ArgList) (gom.Any, bool) {
		s := &shapeCommands{}
		gom.InitObject(s)
		return gom.ObjectAny(s), true
	})
	grob(c)

	c, err = r.DeclareClass(gom.ClassDecl{Name: "MeshStats", GoType: reflect.TypeFor[*stats]()})
	if err != nil {
		return err
	}
	c.Constructor(func(gom.Object, *gom.ArgList) (gom.Any, bool) {
		s := &stats{}
		gom.InitObject(s)
		return gom.ObjectAny(s), true
	})

	if _, err := r.DeclareClass(gom.ClassDecl{Name: "MeshBrokenInterface", Abstract: true}); err != nil {
		return err
	}
	_, err = r.DeclareClass(gom.ClassDecl{Name: "OGF::Thing"})
	return err
}

func (e *editor) base() *editor { return e }

func TestMain(m *testing.M) {
	cfg := gom.Config{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	if err := gom.Init(cfg, registerFixtures); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestRegisterTwice(t *testing.T) {
	if err := Register(gom.Meta()); err != nil {
		t.Errorf("second Register() returned an error: %v", err)
	}
	c, ok := gom.Meta().ResolveClass("InterfaceScope")
	if !ok {
		t.Fatalf("InterfaceScope is not registered")
	}
	if got := c.SuperClassName(); got != "Scope" {
		t.Errorf("InterfaceScope superclass = %q, want Scope", got)
	}
}

type fakeGlobals map[string]gom.Any

func (g fakeGlobals) Resolve(name string) gom.Any { return g[name] }

func (g fakeGlobals) ListNames() []string {
	var names []string
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func TestGlobalScope(t *testing.T) {
	s := NewGlobalScope(fakeGlobals{"x": gom.AnyOf(1), "y": gom.AnyOf("two")})
	if got := s.Resolve("x"); !got.Equal(gom.AnyOf(1)) {
		t.Errorf("Resolve(x) = %v, want 1", got)
	}
	if got := s.Resolve("z"); !got.IsEmpty() {
		t.Errorf("Resolve(z) = %v, want empty", got)
	}
	if diff := cmp.Diff([]string{"x", "y"}, s.ListNames()); diff != "" {
		t.Errorf("ListNames() mismatch (-want +got):\n%s", diff)
	}
	got, ok := s.Invoke("resolve", gom.Args("y"))
	if !ok || got.AsString() != "two" {
		t.Errorf("resolve(y) = %v, %v", got, ok)
	}
	if s.MetaClass().Name() != "GlobalScope" {
		t.Errorf("MetaClass() = %s", s.MetaClass().Name())
	}
}

func TestMetaTypesScope(t *testing.T) {
	root := NewRootMetaTypesScope()
	ogf, ok := gom.Get[*MetaTypesScope](root.Resolve("OGF"))
	if !ok {
		t.Fatalf("Resolve(OGF) is not a scope")
	}
	if got := ogf.Prefix(); got != "OGF::" {
		t.Errorf("Prefix() = %q, want OGF::", got)
	}
	if root.CreateSubscope("OGF") != ogf {
		t.Errorf("CreateSubscope() of an existing name created a new scope")
	}

	if diff := cmp.Diff([]string{"NL", "Numeric", "Memory", "Thing"}, ogf.ListNames()); diff != "" {
		t.Errorf("OGF ListNames() mismatch (-want +got):\n%s", diff)
	}
	thing := ogf.Resolve("Thing")
	if c, ok := gom.Get[*gom.MetaClass](thing); !ok || c.Name() != "OGF::Thing" {
		t.Errorf("Resolve(Thing) = %v", thing)
	}
	nl, _ := gom.Get[*MetaTypesScope](ogf.Resolve("NL"))
	if nl == nil || nl.Prefix() != "OGF::NL::" {
		t.Errorf("Resolve(NL) = %v", nl)
	}

	names := root.ListNames()
	if diff := cmp.Diff([]string{"OGF", "std"}, names[:2]); diff != "" {
		t.Errorf("root ListNames() does not start with the sub-scopes (-want +got):\n%s", diff)
	}
	for _, name := range names[2:] {
		switch name {
		case "Object*", "Callable*", "OGF::Thing", "Thing", "OGF":
			t.Errorf("root ListNames() contains %q", name)
		}
	}
	if !sort.StringsAreSorted(names[2:]) {
		t.Errorf("root type names are not sorted: %v", names[2:])
	}
	found := false
	for _, name := range names {
		found = found || name == "Mesh"
	}
	if !found {
		t.Errorf("root ListNames() does not contain Mesh")
	}

	if got := root.Resolve("Missing"); !got.IsEmpty() {
		t.Errorf("Resolve(Missing) = %v, want empty", got)
	}
	if got, ok := root.GetProperty("prefix"); !ok || got.AsString() != "" {
		t.Errorf("prefix = %v, %v", got, ok)
	}
}

func TestCandidates(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{"Editor", []string{"MeshEditorInterface", "MeshEditorCommands", "MeshEditor"}},
		{"EditorInterface", []string{"MeshEditorInterface"}},
		{"ShapeCommands", []string{"MeshShapeCommandsInterface", "MeshShapeCommands"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Candidates("Mesh", tt.name)); diff != "" {
				t.Errorf("Candidates() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInterfaceScope(t *testing.T) {
	m := newMesh()
	m.Ref()
	defer m.Unref()

	s := NewInterfaceScope(m)
	s.Ref()
	if got := m.RefCount(); got != 2 {
		t.Fatalf("scope holds %d references, want 1", got-1)
	}
	if s.Object() != gom.Object(m) {
		t.Errorf("Object() = %v", s.Object())
	}

	if diff := cmp.Diff([]string{"Broken", "Editor", "Shape", "Stats"}, s.ListNames()); diff != "" {
		t.Errorf("ListNames() mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		name      string
		wantClass string
		wantGrob  bool
	}{
		{"Editor", "MeshEditorInterface", true},
		{"EditorInterface", "MeshEditorInterface", true},
		{"Shape", "MeshShapeCommands", true},
		{"Stats", "MeshStats", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Resolve(tt.name)
			o := got.Object()
			if o == nil {
				t.Fatalf("Resolve(%s) = %v", tt.name, got)
			}
			if o.MetaClass().Name() != tt.wantClass {
				t.Errorf("Resolve(%s) class = %s, want %s", tt.name, o.MetaClass().Name(), tt.wantClass)
			}
			if !tt.wantGrob {
				return
			}
			if g, _ := o.GetProperty("grob"); g.Object() != gom.Object(m) {
				t.Errorf("grob = %v, want the mesh", g)
			}
			o.Ref()
			o.Unref()
		})
	}
	if got := m.RefCount(); got != 2 {
		t.Errorf("RefCount() after the interfaces are destroyed = %d, want 2", got)
	}

	for _, name := range []string{"Broken", "Missing"} {
		if got := s.Resolve(name); !got.IsEmpty() {
			t.Errorf("Resolve(%s) = %v, want empty", name, got)
		}
	}

	s.Unref()
	if got := m.RefCount(); got != 1 {
		t.Errorf("RefCount() after the scope is destroyed = %d, want 1", got)
	}
}
