package gom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestArgListOrder(t *testing.T) {
	args := NamedArgs("x", 1, "y", "two")
	args.Set("x", AnyOf(3))
	args.Set("", AnyOf(true))
	args.SetValue("z", 2.5)

	if diff := cmp.Diff([]string{"x", "y", "arg#2", "z"}, args.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("(x=3, y=two, arg#2=true, z=2.5)", args.String()); diff != "" {
		t.Errorf("String() mismatch (-want +got):\n%s", diff)
	}
	if got := args.Value(0); !got.Equal(AnyOf(3)) {
		t.Errorf("Value(0) = %v, want 3", got)
	}
	if got := args.Name(1); got != "y" {
		t.Errorf("Name(1) = %q, want y", got)
	}
	if !args.HasUnnamedArgs() {
		t.Errorf("HasUnnamedArgs() = false")
	}

	args.Remove("y")
	if diff := cmp.Diff([]string{"x", "arg#2", "z"}, args.Names()); diff != "" {
		t.Errorf("Names() after Remove mismatch (-want +got):\n%s", diff)
	}
	if args.Has("y") {
		t.Errorf("Has(y) after Remove")
	}
}

func TestArgsUnnamed(t *testing.T) {
	args := Args(1, "a", nil)
	if diff := cmp.Diff([]string{"arg#0", "arg#1", "arg#2"}, args.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if !args.Value(2).IsEmpty() {
		t.Errorf("Value(2) = %v, want empty", args.Value(2))
	}
	if !IsUnnamedArgName(args.Name(0)) || IsUnnamedArgName("arg") {
		t.Errorf("IsUnnamedArgName() mismatch")
	}
	var nilArgs *ArgList
	if nilArgs.Len() != 0 || nilArgs.Names() != nil {
		t.Errorf("a nil ArgList is not empty")
	}
}

func TestArgListRename(t *testing.T) {
	args := NamedArgs("a", 1, "b", 2, "c", 3)
	if !args.Rename("b", "z") {
		t.Fatalf("Rename(b, z) failed")
	}
	if diff := cmp.Diff([]string{"a", "z", "c"}, args.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if got, _ := args.Get("z"); !got.Equal(AnyOf(2)) {
		t.Errorf("Get(z) = %v, want 2", got)
	}
	if args.Rename("missing", "w") {
		t.Errorf("Rename of a missing argument succeeded")
	}
	if args.Rename("a", "c") {
		t.Errorf("Rename onto an existing argument succeeded")
	}
}

func TestArgListClone(t *testing.T) {
	args := NamedArgs("a", 1)
	clone := args.Clone()
	clone.SetValue("a", 5)
	clone.SetValue("b", 6)
	if diff := cmp.Diff("(a=1)", args.String()); diff != "" {
		t.Errorf("original changed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("(a=5, b=6)", clone.String()); diff != "" {
		t.Errorf("clone mismatch (-want +got):\n%s", diff)
	}
}

func TestIsNameValueCall(t *testing.T) {
	mixed := NamedArgs("x", 1)
	mixed.AddUnnamed(AnyOf(2))
	tests := []struct {
		name string
		args *ArgList
		want bool
	}{
		{"empty", NewArgList(), false},
		{"single value", NamedArgs("value", 1), false},
		{"single named", NamedArgs("x", 1), true},
		{"named", NamedArgs("x", 1, "value", 2), true},
		{"unnamed", Args(1, 2), false},
		{"mixed", mixed, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNameValueCall(tt.args); got != tt.want {
				t.Errorf("IsNameValueCall(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}

func TestArgAs(t *testing.T) {
	args := NamedArgs("n", Index(2), "o", nil)
	if got, ok := ArgAs[Index](args, "n"); !ok || got != 2 {
		t.Errorf("ArgAs[Index](n) = %v, %v", got, ok)
	}
	if _, ok := ArgAs[int](args, "n"); ok {
		t.Errorf("ArgAs[int] of an index_t succeeded")
	}
	if _, ok := ArgAs[string](args, "missing"); ok {
		t.Errorf("ArgAs of a missing argument succeeded")
	}
	if got, ok := ArgAs[*widget](args, "o"); !ok || got != nil {
		t.Errorf("ArgAs[*widget](o) = %v, %v, want nil, true", got, ok)
	}
}
