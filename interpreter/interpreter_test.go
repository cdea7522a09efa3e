package interpreter

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	gom "github.com/podhmo/go-gom"
)

// fake is an engine whose statements are lines; parentheses must balance
// and indented lines continue the previous statement.
type fake struct {
	Core
	executed []string
	globals  map[string]gom.Any
}

func newFake(options ...Option) *fake {
	f := &fake{globals: make(map[string]gom.Any)}
	options = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, options...)
	f.Init(f, f, "fake", "fk", options...)
	return f
}

func (f *fake) Execute(command string, saveInHistory, _ bool) error {
	if saveInHistory {
		f.AddToHistory(command)
	}
	if strings.Contains(command, "fail") {
		err := &Error{Language: f.Language(), Message: "failed"}
		f.DisplayError(err)
		return err
	}
	f.executed = append(f.executed, command)
	return nil
}

func (f *fake) Complete(src string) bool {
	return strings.Count(src, "(") <= strings.Count(src, ")")
}

func (f *fake) Continues(line string) bool {
	return strings.HasPrefix(line, " ")
}

func (f *fake) Eval(expr string) (gom.Any, error) {
	v, ok := f.globals[expr]
	if !ok {
		return gom.Any{}, &Error{Language: f.Language(), Message: "undefined " + expr}
	}
	return v, nil
}

func (f *fake) Bind(id string, v gom.Any) { f.globals[id] = v }

func (f *fake) Resolve(id string) gom.Any {
	if v, ok := f.ResolveGlobalID(id); ok {
		return v
	}
	return f.globals[id]
}

func (f *fake) ListNames() []string {
	var names []string
	for name := range f.globals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type counter struct {
	gom.ObjectBase
	count int
}

func registerFixtures(r *gom.Registry) error {
	if err := Register(r); err != nil {
		return err
	}
	if _, err := r.DeclareClass(gom.ClassDecl{Name: "FakeInterpreter", Super: "Interpreter", GoType: reflect.TypeFor[*fake]()}); err != nil {
		return err
	}
	c, err := r.DeclareClass(gom.ClassDecl{
		Name:   "Counter",
		GoType: reflect.TypeFor[*counter](),
		Factory: func(*gom.ArgList) gom.Object {
			c := &counter{}
			gom.InitObject(c)
			return c
		},
	})
	if err != nil {
		return err
	}
	c.Property("count", "int", func(o gom.Object) (gom.Any, bool) {
		return gom.AnyOf(o.(*counter).count), true
	}, func(o gom.Object, v gom.Any) bool {
		n, ok := gom.Get[int](v)
		o.(*counter).count = n
		return ok
	})
	c.Signal("changed", gom.Arg("count", "int"))
	return nil
}

func TestMain(m *testing.M) {
	cfg := gom.Config{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	if err := gom.Init(cfg, registerFixtures); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func mustInvoke(t *testing.T, o gom.Object, method string, args *gom.ArgList) gom.Any {
	t.Helper()
	v, ok := o.Invoke(method, args)
	if !ok {
		t.Fatalf("Invoke(%s, %v) failed", method, args)
	}
	return v
}

func TestHistory(t *testing.T) {
	f := newFake()
	f.AddToHistory("a\n")
	f.AddToHistory("")
	f.AddToHistory("\n")
	f.AddToHistory("b\n\n")
	want := []string{"a", "b\n"}
	if diff := cmp.Diff(want, f.History()); diff != "" {
		t.Errorf("History() mismatch (-want +got):\n%s", diff)
	}

	f.History()[0] = "changed"
	if f.History()[0] != "a" {
		t.Errorf("History() exposes the recorded commands")
	}

	path := filepath.Join(t.TempDir(), "history.fk")
	if err := f.SaveHistory(path); err != nil {
		t.Fatalf("SaveHistory() returned an error: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read the history: %v", err)
	}
	if diff := cmp.Diff("a\nb\n\n", string(b)); diff != "" {
		t.Errorf("saved history mismatch (-want +got):\n%s", diff)
	}
	if err := f.SaveHistory(filepath.Join(t.TempDir(), "missing", "history.fk")); err == nil {
		t.Errorf("SaveHistory() into a missing directory succeeded")
	}

	f.ClearHistory()
	if len(f.History()) != 0 {
		t.Errorf("History() after ClearHistory = %v", f.History())
	}
}

func TestExecuteReader(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"one per line", "a\nb\n", []string{"a", "b"}},
		{"incomplete", "f(\n1)\nb", []string{"f(\n1)", "b"}},
		{"continued", "block\n  inner\n\n  more\nnext", []string{"block\n  inner\n\n  more", "next"}},
		{"blank lines", "a\n\n\nb\n\n", []string{"a", "b"}},
		{"leading blank lines", "\n\na", []string{"a"}},
		{"blank line in an incomplete statement", "f(\n\nx)", []string{"f(\n\nx)"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFake()
			if err := f.ExecuteReader(strings.NewReader(tt.src)); err != nil {
				t.Fatalf("ExecuteReader() returned an error: %v", err)
			}
			if diff := cmp.Diff(tt.want, f.executed); diff != "" {
				t.Errorf("statements mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.want, f.History()); diff != "" {
				t.Errorf("History() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExecuteFile(t *testing.T) {
	var displayed []error
	f := newFake(WithErrorDisplay(func(err error) { displayed = append(displayed, err) }))

	path := filepath.Join(t.TempDir(), "script.fk")
	if err := os.WriteFile(path, []byte("a\nfail\nb\n"), 0o644); err != nil {
		t.Fatalf("Failed to write the script: %v", err)
	}
	err := f.ExecuteFile(path)
	var ierr *Error
	if !errors.As(err, &ierr) {
		t.Fatalf("ExecuteFile() error = %v, want an interpreter error", err)
	}
	if diff := cmp.Diff([]string{"a"}, f.executed); diff != "" {
		t.Errorf("execution did not stop at the failure (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "fail"}, f.History()); diff != "" {
		t.Errorf("History() mismatch (-want +got):\n%s", diff)
	}
	if len(displayed) != 1 {
		t.Errorf("%d errors displayed, want 1", len(displayed))
	}

	if err := f.ExecuteFile(filepath.Join(t.TempDir(), "missing.fk")); err == nil {
		t.Errorf("ExecuteFile() of a missing file succeeded")
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{&Error{Language: "lua", Message: "boom"}, "lua: boom"},
		{&Error{Language: "starlark", Source: "<exec>:1:1", Message: "boom"}, "starlark: <exec>:1:1: boom"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestOptions(t *testing.T) {
	var sb strings.Builder
	f := newFake(WithStdout(&sb))
	if f.Stdout() != io.Writer(&sb) {
		t.Errorf("Stdout() is not the configured writer")
	}
	if newFake().Stdout() != io.Writer(os.Stdout) {
		t.Errorf("default Stdout() is not os.Stdout")
	}
	if f.Logger() == nil {
		t.Errorf("Logger() = nil")
	}
	if f.Language() != "fake" || f.FilenameExtension() != "fk" {
		t.Errorf("Language(), FilenameExtension() = %q, %q", f.Language(), f.FilenameExtension())
	}
	if f.MetaClass().Name() != "FakeInterpreter" {
		t.Errorf("MetaClass() = %s", f.MetaClass().Name())
	}
}

func TestDirectory(t *testing.T) {
	first, second := newFake(), newFake()
	Add(first)
	Add(second)
	defer Remove(second)

	if got, ok := ByLanguage("fake"); !ok || got != Interpreter(second) {
		t.Errorf("ByLanguage(fake) = %v, %v, want the last added", got, ok)
	}
	for _, ext := range []string{"fk", ".fk"} {
		if got, ok := ByExtension(ext); !ok || got != Interpreter(second) {
			t.Errorf("ByExtension(%s) = %v, %v", ext, got, ok)
		}
	}
	found := false
	for _, l := range Languages() {
		found = found || l == "fake"
	}
	if !found {
		t.Errorf("Languages() = %v, want fake", Languages())
	}

	Remove(first)
	if _, ok := ByLanguage("fake"); !ok {
		t.Errorf("Remove() of a replaced interpreter removed its replacement")
	}
	Remove(second)
	if _, ok := ByLanguage("fake"); ok {
		t.Errorf("ByLanguage(fake) found a removed interpreter")
	}
	if _, ok := ByExtension("fk"); ok {
		t.Errorf("ByExtension(fk) found a removed interpreter")
	}
}

func TestReleaseQueue(t *testing.T) {
	var q ReleaseQueue
	var (
		mu    sync.Mutex
		count int
		wg    sync.WaitGroup
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Push(func() {
				mu.Lock()
				count++
				mu.Unlock()
			})
		}()
	}
	wg.Wait()
	if got := q.Len(); got != 10 {
		t.Errorf("Len() = %d, want 10", got)
	}
	if got := q.Drain(); got != 10 || count != 10 {
		t.Errorf("Drain() = %d with %d releases performed, want 10", got, count)
	}
	if got := q.Drain(); got != 0 {
		t.Errorf("second Drain() = %d, want 0", got)
	}

	var order []int
	for i := range 3 {
		q.Push(func() { order = append(order, i) })
	}
	q.Drain()
	if diff := cmp.Diff([]int{0, 1, 2}, order); diff != "" {
		t.Errorf("release order mismatch (-want +got):\n%s", diff)
	}
}

func TestCreate(t *testing.T) {
	f := newFake()
	tests := []struct {
		name      string
		args      *gom.ArgList
		wantCount int
		wantNil   bool
	}{
		{"named class", gom.NamedArgs("classname", "Counter", "count", 3), 3, false},
		{"first unnamed argument", gom.Args("Counter"), 0, false},
		{"no class", gom.NamedArgs("count", 1), 0, true},
		{"unknown class", gom.NamedArgs("classname", "Missing"), 0, true},
		{"nothing", nil, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := f.Create(tt.args)
			if tt.wantNil {
				if o != nil {
					t.Errorf("Create(%v) = %v, want nil", tt.args, o)
				}
				return
			}
			c, ok := o.(*counter)
			if !ok || c.count != tt.wantCount {
				t.Errorf("Create(%v) = %v, want a counter of %d", tt.args, o, tt.wantCount)
			}
		})
	}

	args := gom.NamedArgs("classname", "Counter")
	f.Create(args)
	if !args.Has("classname") {
		t.Errorf("Create() modified its arguments")
	}
}

func TestInspect(t *testing.T) {
	f := newFake()
	o := f.Create(gom.NamedArgs("classname", "Counter", "count", 7))
	got := f.Inspect(o)
	for _, want := range []string{gom.ObjectString(o), "class Counter : Object", "count = 7", "string_id = " + gom.ObjectString(o)} {
		if !strings.Contains(got, want) {
			t.Errorf("Inspect() does not contain %q:\n%s", want, got)
		}
	}

	classes := f.ListClasses()
	contains := func(name string) bool {
		for _, c := range classes {
			if c == name {
				return true
			}
		}
		return false
	}
	if !contains("Counter") || !contains("Interpreter") || contains("int") {
		t.Errorf("ListClasses() = %v", classes)
	}
}

func TestInterpreterClass(t *testing.T) {
	f := newFake()
	f.Ref()
	defer f.Unref()

	t.Run("properties", func(t *testing.T) {
		for name, want := range map[string]string{"language": "fake", "filename_extension": "fk"} {
			if got, ok := f.GetProperty(name); !ok || got.AsString() != want {
				t.Errorf("%s = %v, %v, want %s", name, got, ok, want)
			}
		}
		mustInvoke(t, f, "clear_history", nil)
		mustInvoke(t, f, "execute", gom.Args("x"))
		mustInvoke(t, f, "execute", gom.NamedArgs("command", "y", "save_in_history", false))
		if got, _ := f.GetProperty("history"); got.AsString() != "x" {
			t.Errorf("history = %q, want x", got.AsString())
		}
		if got := mustInvoke(t, f, "execute", gom.Args("fail")); !got.Equal(gom.AnyOf(false)) {
			t.Errorf("execute(fail) = %v, want false", got)
		}
	})

	t.Run("bindings", func(t *testing.T) {
		mustInvoke(t, f, "bind", gom.Args("k", 5))
		if got := mustInvoke(t, f, "resolve", gom.Args("k")); !got.Equal(gom.AnyOf(5)) {
			t.Errorf("resolve(k) = %v, want 5", got)
		}
		if got := mustInvoke(t, f, "eval", gom.Args("k")); !got.Equal(gom.AnyOf(5)) {
			t.Errorf("eval(k) = %v, want 5", got)
		}
		if _, ok := f.Invoke("eval", gom.Args("missing")); ok {
			t.Errorf("eval(missing) succeeded")
		}
		if got := mustInvoke(t, f, "list_names", nil); got.AsString() != "k" {
			t.Errorf("list_names() = %v", got)
		}
		globals, _ := f.GetProperty("globals")
		if s, ok := globals.Object().(gom.Scope); !ok || !s.Resolve("k").Equal(gom.AnyOf(5)) {
			t.Errorf("globals = %v", globals)
		}
		metaTypes, _ := f.GetProperty("meta_types")
		if s, ok := metaTypes.Object().(gom.Scope); !ok || s.Resolve("Counter").IsEmpty() {
			t.Errorf("meta_types = %v", metaTypes)
		}
	})

	t.Run("objects", func(t *testing.T) {
		created := mustInvoke(t, f, "create", gom.NamedArgs("classname", "Counter", "count", 2))
		c, ok := gom.Get[*counter](created)
		if !ok || c.count != 2 {
			t.Fatalf("create() = %v", created)
		}
		if _, ok := f.Invoke("create", gom.Args("Missing")); ok {
			t.Errorf("create(Missing) succeeded")
		}
		got := mustInvoke(t, f, "resolve_object_by_global_id", gom.Args(gom.ObjectString(c)))
		if got.Object() != gom.Object(c) {
			t.Errorf("resolve_object_by_global_id() = %v", got)
		}
		if got := mustInvoke(t, f, "resolve", gom.Args("@Counter::#999999999")); !got.IsEmpty() {
			t.Errorf("resolve() of an unknown id = %v", got)
		}
		if got := mustInvoke(t, f, "inspect", gom.Args(created)); !strings.Contains(got.AsString(), "count = 2") {
			t.Errorf("inspect() = %v", got)
		}
		if got := mustInvoke(t, f, "list_classes", nil); !strings.Contains(got.AsString(), "Counter") {
			t.Errorf("list_classes() = %v", got)
		}
	})

	t.Run("connect", func(t *testing.T) {
		o := f.Create(gom.NamedArgs("classname", "Counter"))
		o.Ref()
		defer o.Unref()
		var calls []string
		fn := gom.NewFuncCallable(func(args *gom.ArgList) (gom.Any, bool) {
			calls = append(calls, args.String())
			return gom.Any{}, true
		})
		req := gom.NewRequest(o, o.MetaClass().FindSignal("changed"), gom.NonOwning)
		conn := mustInvoke(t, f, "connect", gom.Args(gom.ObjectAny(req), gom.ObjectAny(fn)))
		if _, ok := gom.Get[*gom.Connection](conn); !ok {
			t.Fatalf("connect() = %v", conn)
		}
		o.EmitSignal("changed", gom.NamedArgs("count", 1))
		if diff := cmp.Diff([]string{"(count=1)"}, calls); diff != "" {
			t.Errorf("calls mismatch (-want +got):\n%s", diff)
		}

		slot := gom.NewRequest(f, f.MetaClass().FindSlot("eval"), gom.NonOwning)
		if _, ok := f.Invoke("connect", gom.Args(gom.ObjectAny(slot), gom.ObjectAny(fn))); ok {
			t.Errorf("connect() from a slot succeeded")
		}
	})

	t.Run("files", func(t *testing.T) {
		f.ClearHistory()
		mustInvoke(t, f, "execute", gom.Args("a"))
		mustInvoke(t, f, "execute", gom.Args("b"))
		path := filepath.Join(t.TempDir(), "history.fk")
		if got := mustInvoke(t, f, "save_history", gom.Args(path)); !got.Equal(gom.AnyOf(true)) {
			t.Errorf("save_history() = %v", got)
		}
		other := newFake()
		other.Ref()
		defer other.Unref()
		if got := mustInvoke(t, other, "execute_file", gom.Args(path)); !got.Equal(gom.AnyOf(true)) {
			t.Errorf("execute_file() = %v", got)
		}
		if diff := cmp.Diff(f.History(), other.History()); diff != "" {
			t.Errorf("replayed history mismatch (-want +got):\n%s", diff)
		}
		if got := mustInvoke(t, other, "execute_file", gom.Args(path+".missing")); !got.Equal(gom.AnyOf(false)) {
			t.Errorf("execute_file(missing) = %v", got)
		}
	})

	t.Run("replay stops at a failing command", func(t *testing.T) {
		f.ClearHistory()
		for _, command := range []string{"a", "fail here", "b"} {
			f.Execute(command, true, false)
		}
		path := filepath.Join(t.TempDir(), "history.fk")
		if err := f.SaveHistory(path); err != nil {
			t.Fatalf("SaveHistory() returned an error: %v", err)
		}
		other := newFake()
		other.Ref()
		defer other.Unref()
		if got := mustInvoke(t, other, "execute_file", gom.Args(path)); !got.Equal(gom.AnyOf(false)) {
			t.Errorf("execute_file() = %v, want false", got)
		}
		if diff := cmp.Diff([]string{"a", "fail here"}, other.History()); diff != "" {
			t.Errorf("replayed history mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"a"}, other.executed); diff != "" {
			t.Errorf("executed mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("directory", func(t *testing.T) {
		Add(f)
		defer Remove(f)
		if got := mustInvoke(t, f, "interpreter", gom.Args("fake")); got.Object() != gom.Object(f) {
			t.Errorf("interpreter(fake) = %v", got)
		}
		if got := mustInvoke(t, f, "interpreter", gom.Args("cobol")); !got.IsEmpty() {
			t.Errorf("interpreter(cobol) = %v", got)
		}
	})
}
