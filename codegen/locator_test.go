package codegen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeModule creates a temporary module holding files (slash separated
// paths relative to the module root) and returns its root directory.
func writeModule(t *testing.T, files map[string]string) string {
	t.Helper()
	rootDir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(rootDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create dir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return rootDir
}

func TestNewLocator(t *testing.T) {
	rootDir := writeModule(t, map[string]string{
		"go.mod":              "module example.com/myproject\n\ngo 1.24\n",
		"internal/api/api.go": "package api\n",
	})

	t.Run("from_subdirectory", func(t *testing.T) {
		l, err := NewLocator(filepath.Join(rootDir, "internal", "api"))
		if err != nil {
			t.Fatalf("NewLocator() returned an error: %v", err)
		}
		if l.RootDir() != rootDir {
			t.Errorf("Expected root dir %q, got %q", rootDir, l.RootDir())
		}
		if got, want := l.ModulePath(), "example.com/myproject"; got != want {
			t.Errorf("Expected module path %q, got %q", want, got)
		}
	})

	t.Run("no_go_mod", func(t *testing.T) {
		_, err := NewLocator(t.TempDir())
		if err == nil || !strings.Contains(err.Error(), "go.mod not found") {
			t.Errorf("Expected a go.mod not found error, got %v", err)
		}
	})

	t.Run("no_module_directive", func(t *testing.T) {
		dir := writeModule(t, map[string]string{"go.mod": "go 1.24\n"})
		if _, err := NewLocator(dir); err == nil {
			t.Errorf("Expected an error for a go.mod without module directive")
		}
	})
}

func TestFindPackageDir(t *testing.T) {
	rootDir := writeModule(t, map[string]string{
		"go.mod": `module example.com/myproject

go 1.24

require example.com/shared v1.0.0

replace example.com/shared => ./third_party/shared
`,
		"internal/api/api.go":                "package api\n",
		"third_party/shared/models/model.go": "package models\n",
	})
	l, err := NewLocator(rootDir)
	if err != nil {
		t.Fatalf("NewLocator() returned an error: %v", err)
	}

	cases := []struct {
		importPath string
		want       string
		wantErr    bool
	}{
		{importPath: "example.com/myproject", want: rootDir},
		{importPath: "example.com/myproject/internal/api", want: filepath.Join(rootDir, "internal", "api")},
		{importPath: "example.com/shared/models", want: filepath.Join(rootDir, "third_party", "shared", "models")},
		{importPath: "example.com/myproject/missing", wantErr: true},
		{importPath: "example.com/myprojectother/api", wantErr: true},
		{importPath: "github.com/another/project", wantErr: true},
	}
	for _, c := range cases {
		t.Run(c.importPath, func(t *testing.T) {
			got, err := l.FindPackageDir(c.importPath)
			if c.wantErr {
				if err == nil {
					t.Errorf("FindPackageDir(%q) = %q, want an error", c.importPath, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("FindPackageDir(%q) returned an error: %v", c.importPath, err)
			}
			if got != c.want {
				t.Errorf("FindPackageDir(%q) = %q, want %q", c.importPath, got, c.want)
			}
		})
	}
}

func TestImportPath(t *testing.T) {
	rootDir := writeModule(t, map[string]string{
		"go.mod":         "module example.com/myproject\n",
		"pkg/a/a.go":     "package a\n",
		"pkg/a/b/b.go":   "package b\n",
		"other/other.go": "package other\n",
	})
	l, err := NewLocator(rootDir)
	if err != nil {
		t.Fatalf("NewLocator() returned an error: %v", err)
	}
	cases := []struct {
		dir  string
		want string
	}{
		{dir: rootDir, want: "example.com/myproject"},
		{dir: filepath.Join(rootDir, "pkg", "a"), want: "example.com/myproject/pkg/a"},
		{dir: filepath.Join(rootDir, "pkg", "a", "b"), want: "example.com/myproject/pkg/a/b"},
	}
	for _, c := range cases {
		got, err := l.ImportPath(c.dir)
		if err != nil {
			t.Fatalf("ImportPath(%q) returned an error: %v", c.dir, err)
		}
		if got != c.want {
			t.Errorf("ImportPath(%q) = %q, want %q", c.dir, got, c.want)
		}
	}
	if _, err := l.ImportPath(filepath.Dir(rootDir)); err == nil {
		t.Errorf("ImportPath outside of the module succeeded")
	}
	if !l.InModule("example.com/myproject/pkg/a") || l.InModule("example.com/myprojectx") {
		t.Errorf("InModule() mismatch")
	}
}
