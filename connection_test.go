package gom

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// recorder is a Callable collecting the argument lists it is called with.
type recorder struct {
	calls []string
	fail  bool
}

func (r *recorder) callable() *FuncCallable {
	return NewFuncCallable(func(args *ArgList) (Any, bool) {
		r.calls = append(r.calls, args.String())
		return Any{}, !r.fail
	})
}

func TestConnect(t *testing.T) {
	w := newWidget("w", 1)
	rec := &recorder{}
	target := rec.callable()

	conn, err := Connect(w, "resized", target)
	if err != nil {
		t.Fatalf("Connect() returned an error: %v", err)
	}
	if target.RefCount() != 1 {
		t.Errorf("connection holds %d references on its target, want 1", target.RefCount())
	}
	if conn.Source() != Object(w) || conn.Signal() != "resized" || conn.Target() != Callable(target) {
		t.Errorf("connection fields mismatch")
	}

	if !w.EmitSignal("resized", NamedArgs("size", 3)) {
		t.Errorf("EmitSignal() failed")
	}
	mustInvoke(t, w, "resized", Args("4"))
	want := []string{"(size=3)", "(size=4)"}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}

	w.SetSignalsEnabled(false)
	if !w.EmitSignal("resized", NamedArgs("size", 5)) {
		t.Errorf("EmitSignal() with blocked signals failed")
	}
	w.SetSignalsEnabled(true)
	if len(rec.calls) != 2 {
		t.Errorf("blocked emission reached the target: %v", rec.calls)
	}

	if w.EmitSignal("exploded", nil) {
		t.Errorf("EmitSignal() of an unknown signal succeeded")
	}

	conn.Remove()
	if len(w.Connections()) != 0 {
		t.Errorf("Connections() after Remove = %d", len(w.Connections()))
	}
	if !target.Destroyed() {
		t.Errorf("target not released by Remove")
	}
	w.EmitSignal("resized", NamedArgs("size", 6))
	if len(rec.calls) != 2 {
		t.Errorf("removed connection was called: %v", rec.calls)
	}
	conn.Remove()
}

func TestConnectErrors(t *testing.T) {
	w := newWidget("w", 1)
	target := (&recorder{}).callable()
	if _, err := Connect(w, "grow", target); !errors.Is(err, ErrNotFound) {
		t.Errorf("Connect() to a slot error = %v, want ErrNotFound", err)
	}
	if _, err := Connect(w, "missing", target); !errors.Is(err, ErrNotFound) {
		t.Errorf("Connect() to a missing signal error = %v, want ErrNotFound", err)
	}

	slot := NewRequest(w, w.MetaClass().FindSlot("grow"), NonOwning)
	if _, err := ConnectRequest(slot, target); err == nil {
		t.Errorf("ConnectRequest() from a slot succeeded")
	}
	signal := NewRequest(w, w.MetaClass().FindSignal("resized"), NonOwning)
	conn, err := ConnectRequest(signal, target)
	if err != nil {
		t.Fatalf("ConnectRequest() returned an error: %v", err)
	}
	conn.Remove()
}

func TestConnectionArguments(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(c *Connection)
		emitted []*ArgList
		want    []string
	}{
		{
			name:    "condition",
			setup:   func(c *Connection) { c.IfArg("size", "!=0") },
			emitted: []*ArgList{NamedArgs("size", 0), NamedArgs("size", 2)},
			want:    []string{"(size=2)"},
		},
		{
			name:    "equality condition",
			setup:   func(c *Connection) { c.IfArg("size", "==2").IfArg("size", "2") },
			emitted: []*ArgList{NamedArgs("size", 1), NamedArgs("size", 2)},
			want:    []string{"(size=2)"},
		},
		{
			name:    "condition on a missing argument",
			setup:   func(c *Connection) { c.IfArg("other", "1") },
			emitted: []*ArgList{NamedArgs("size", 1)},
			want:    nil,
		},
		{
			name: "rewrite",
			setup: func(c *Connection) {
				c.RenameArg("size", "new_size").AddArg("who", AnyOf("w"))
			},
			emitted: []*ArgList{NamedArgs("size", 4)},
			want:    []string{"(new_size=4, who=w)"},
		},
		{
			name:    "discard",
			setup:   func(c *Connection) { c.DiscardArg("size") },
			emitted: []*ArgList{NamedArgs("size", 4)},
			want:    []string{"()"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWidget("w", 1)
			rec := &recorder{}
			conn, err := Connect(w, "resized", rec.callable())
			if err != nil {
				t.Fatalf("Connect() returned an error: %v", err)
			}
			defer conn.Remove()
			tt.setup(conn)
			for _, args := range tt.emitted {
				w.EmitSignal("resized", args)
			}
			if diff := cmp.Diff(tt.want, rec.calls); diff != "" {
				t.Errorf("calls mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]string{"size"}, tt.emitted[0].Names()); diff != "" {
				t.Errorf("emitted arguments were modified (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConnectionOrderAndFailure(t *testing.T) {
	w := newWidget("w", 1)
	var order []string
	for _, name := range []string{"first", "second"} {
		conn, err := Connect(w, "resized", NewFuncCallable(func(*ArgList) (Any, bool) {
			order = append(order, name)
			return Any{}, name == "first"
		}))
		if err != nil {
			t.Fatalf("Connect() returned an error: %v", err)
		}
		defer conn.Remove()
	}
	if w.EmitSignal("resized", NamedArgs("size", 1)) {
		t.Errorf("EmitSignal() succeeded although a target failed")
	}
	if diff := cmp.Diff([]string{"first", "second"}, order); diff != "" {
		t.Errorf("call order mismatch (-want +got):\n%s", diff)
	}
}

func TestDestroyReleasesConnections(t *testing.T) {
	w := newWidget("w", 1)
	w.Ref()
	target := (&recorder{}).callable()
	target.Ref()
	if _, err := Connect(w, "resized", target); err != nil {
		t.Fatalf("Connect() returned an error: %v", err)
	}
	if target.RefCount() != 2 {
		t.Fatalf("target refs = %d, want 2", target.RefCount())
	}
	w.Unref()
	if target.RefCount() != 1 || target.Destroyed() {
		t.Errorf("destroying the source left target refs %d", target.RefCount())
	}
}

func TestConnectionSlots(t *testing.T) {
	w := newWidget("w", 1)
	rec := &recorder{}
	conn, err := Connect(w, "resized", rec.callable())
	if err != nil {
		t.Fatalf("Connect() returned an error: %v", err)
	}
	got := mustInvoke(t, conn, "rename_arg", Args("size", "n"))
	if got.Object() != Object(conn) {
		t.Errorf("rename_arg() = %v, want the connection", got)
	}
	mustInvoke(t, conn, "add_arg", NamedArgs("name", "k", "value", 1.5))
	w.EmitSignal("resized", NamedArgs("size", 2))
	if diff := cmp.Diff([]string{"(n=2, k=1.5)"}, rec.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if v, ok := conn.GetProperty("signal"); !ok || v.AsString() != "resized" {
		t.Errorf("signal = %v, %v", v, ok)
	}
	mustInvoke(t, conn, "remove", nil)
	if len(w.Connections()) != 0 {
		t.Errorf("remove() left %d connections", len(w.Connections()))
	}
}
