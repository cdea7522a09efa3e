package codegen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

// Locator finds the module root of a directory and maps import paths of
// that module to directories.
type Locator struct {
	modulePath string
	rootDir    string
	replaces   []*modfile.Replace
}

// NewLocator searches for a go.mod file from startPath upwards.
func NewLocator(startPath string) (*Locator, error) {
	absPath, err := filepath.Abs(startPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for %s: %w", startPath, err)
	}
	rootDir, err := findModuleRoot(absPath)
	if err != nil {
		return nil, err
	}

	goModPath := filepath.Join(rootDir, "go.mod")
	content, err := os.ReadFile(goModPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read go.mod at %s: %w", goModPath, err)
	}
	f, err := modfile.Parse(goModPath, content, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", goModPath, err)
	}
	if f.Module == nil {
		return nil, fmt.Errorf("module path not found in %s", goModPath)
	}
	return &Locator{
		modulePath: f.Module.Mod.Path,
		rootDir:    rootDir,
		replaces:   f.Replace,
	}, nil
}

// RootDir returns the directory holding go.mod.
func (l *Locator) RootDir() string { return l.rootDir }

// ModulePath returns the module path declared in go.mod.
func (l *Locator) ModulePath() string { return l.modulePath }

// InModule reports whether importPath belongs to the module.
func (l *Locator) InModule(importPath string) bool {
	return importPath == l.modulePath || strings.HasPrefix(importPath, l.modulePath+"/")
}

// FindPackageDir returns the directory of importPath. Local replace
// directives are honoured; other packages must belong to the module.
func (l *Locator) FindPackageDir(importPath string) (string, error) {
	for _, r := range l.replaces {
		rest, ok := cutPathPrefix(importPath, r.Old.Path)
		if !ok || !modfile.IsDirectoryPath(r.New.Path) {
			continue
		}
		dir := r.New.Path
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(l.rootDir, dir)
		}
		dir = filepath.Join(dir, filepath.FromSlash(rest))
		if isDir(dir) {
			return dir, nil
		}
	}
	if rest, ok := cutPathPrefix(importPath, l.modulePath); ok {
		dir := filepath.Join(l.rootDir, filepath.FromSlash(rest))
		if isDir(dir) {
			return dir, nil
		}
	}
	return "", fmt.Errorf("import path %q could not be resolved. Current module is %q (root: %s)", importPath, l.modulePath, l.rootDir)
}

// ImportPath returns the import path of dir, which must be inside the
// module.
func (l *Locator) ImportPath(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(l.rootDir, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside of module %s", dir, l.modulePath)
	}
	if rel == "." {
		return l.modulePath, nil
	}
	return l.modulePath + "/" + filepath.ToSlash(rel), nil
}

func cutPathPrefix(importPath, prefix string) (string, bool) {
	if importPath == prefix {
		return "", true
	}
	rest, ok := strings.CutPrefix(importPath, prefix+"/")
	return rest, ok
}

func isDir(path string) bool {
	stat, err := os.Stat(path)
	return err == nil && stat.IsDir()
}

// findModuleRoot searches for any go.mod starting from a given directory and moving upwards.
func findModuleRoot(dir string) (string, error) {
	currentDir := dir
	for {
		if _, err := os.Stat(filepath.Join(currentDir, "go.mod")); err == nil {
			return currentDir, nil
		}
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", fmt.Errorf("go.mod not found in or above %s", dir)
		}
		currentDir = parentDir
	}
}
