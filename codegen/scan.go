package codegen

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/iancoleman/strcase"
	gom "github.com/podhmo/go-gom"
	"golang.org/x/sync/errgroup"
)

const (
	// OutputFile is the name of the generated file.
	OutputFile = "zz_gom_register.go"

	gomImportPath    = "github.com/podhmo/go-gom"
	annotationPrefix = "//gom:"
)

// ErrNoAnnotations is returned for a package without //gom: annotations.
var ErrNoAnnotations = errors.New("no //gom: annotations")

var builtinTypeNames = map[string]string{
	"bool":    "bool",
	"int":     "int",
	"int32":   "int32",
	"int64":   "int64",
	"uint":    "uint",
	"uint32":  "uint32",
	"uint64":  "uint64",
	"float32": "float",
	"float64": "double",
	"string":  "string",
}

var gomTypeNames = map[string]string{
	"Index":       "index_t",
	"SignedIndex": "signed_index_t",
	"Object":      "Object",
	"Callable":    "Callable*",
	"Any":         "any",
}

// reserved are the identifiers used by the generated adapters.
var reserved = map[string]bool{
	"args": true, "target": true, "o": true, "v": true, "ok": true,
	"c": true, "r": true, "err": true, "gom": true, "reflect": true,
}

type annotation struct {
	key   string
	value string
}

type annotations []annotation

func parseAnnotations(groups ...*ast.CommentGroup) annotations {
	var as annotations
	for _, g := range groups {
		if g == nil {
			continue
		}
		for _, c := range g.List {
			text, ok := strings.CutPrefix(c.Text, annotationPrefix)
			if !ok {
				continue
			}
			key, value, _ := strings.Cut(text, " ")
			as = append(as, annotation{key: strings.TrimSpace(key), value: strings.TrimSpace(value)})
		}
	}
	return as
}

func (as annotations) has(key string) bool {
	_, ok := as.get(key)
	return ok
}

func (as annotations) get(key string) (string, bool) {
	for _, a := range as {
		if a.key == key {
			return a.value, true
		}
	}
	return "", false
}

func (as annotations) all(key string) []string {
	var values []string
	for _, a := range as {
		if a.key == key {
			values = append(values, a.value)
		}
	}
	return values
}

type file struct {
	ast *ast.File
	// imports maps the names used in the file to import paths.
	imports map[string]string
}

type method struct {
	decl *ast.FuncDecl
	file *file
}

type scanner struct {
	fset    *token.FileSet
	loc     *Locator
	pkg     *Package
	files   []*file
	enums   map[string]*Enum
	classes map[string]*Class
	methods map[string]map[string]method

	mu       sync.Mutex
	external map[string]map[string]bool
}

// Scan parses the package in dir and collects its annotated enums and
// classes. Embedded classes of other packages of the module are found
// through go.mod.
func Scan(ctx context.Context, dir string) (*Package, error) {
	loc, err := NewLocator(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to create locator: %w", err)
	}
	importPath, err := loc.ImportPath(dir)
	if err != nil {
		return nil, err
	}
	s := &scanner{
		fset:     token.NewFileSet(),
		loc:      loc,
		pkg:      &Package{Dir: dir, ImportPath: importPath, Imports: make(map[string]string)},
		enums:    make(map[string]*Enum),
		classes:  make(map[string]*Class),
		methods:  make(map[string]map[string]method),
		external: make(map[string]map[string]bool),
	}
	if err := s.parseDir(dir); err != nil {
		return nil, err
	}
	if err := s.collectTypes(); err != nil {
		return nil, err
	}
	s.collectEnumValues()
	if err := s.collectFuncs(); err != nil {
		return nil, err
	}
	if len(s.pkg.Enums) == 0 && len(s.pkg.Classes) == 0 {
		return nil, fmt.Errorf("package %s: %w", importPath, ErrNoAnnotations)
	}
	if err := s.scanExternal(ctx); err != nil {
		return nil, err
	}
	if err := s.resolveBases(); err != nil {
		return nil, err
	}
	if err := s.sortClasses(); err != nil {
		return nil, err
	}
	return s.pkg, nil
}

func (s *scanner) parseDir(dir string) error {
	files, err := parseFiles(s.fset, dir)
	if err != nil {
		return err
	}
	for _, f := range files {
		if s.pkg.Name == "" {
			s.pkg.Name = f.Name.Name
		} else if f.Name.Name != s.pkg.Name {
			return fmt.Errorf("%s: found packages %s and %s", dir, s.pkg.Name, f.Name.Name)
		}
		s.files = append(s.files, &file{ast: f, imports: fileImports(f)})
	}
	if len(s.files) == 0 {
		return fmt.Errorf("no Go files in %s", dir)
	}
	return nil
}

// parseFiles parses the non-test Go files of dir, in name order. The
// generated file is skipped.
func parseFiles(fset *token.FileSet, dir string) ([]*ast.File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []*ast.File
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") || name == OutputFile {
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ParseComments)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func fileImports(f *ast.File) map[string]string {
	imports := make(map[string]string, len(f.Imports))
	for _, spec := range f.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		var name string
		switch {
		case spec.Name != nil:
			name = spec.Name.Name
		case p == gomImportPath:
			name = "gom"
		default:
			name = defaultImportName(p)
		}
		imports[name] = p
	}
	return imports
}

func defaultImportName(importPath string) string {
	base := path.Base(importPath)
	if len(base) > 1 && base[0] == 'v' && strings.Trim(base[1:], "0123456789") == "" {
		base = path.Base(path.Dir(importPath))
	}
	return strings.TrimPrefix(base, "go-")
}

func typeAnnotations(decl *ast.GenDecl, spec *ast.TypeSpec) annotations {
	if decl.Lparen.IsValid() {
		return parseAnnotations(spec.Doc)
	}
	return parseAnnotations(decl.Doc, spec.Doc)
}

func (s *scanner) collectTypes() error {
	for _, f := range s.files {
		for _, d := range f.ast.Decls {
			decl, ok := d.(*ast.GenDecl)
			if !ok || decl.Tok != token.TYPE {
				continue
			}
			for _, spec := range decl.Specs {
				ts := spec.(*ast.TypeSpec)
				anns := typeAnnotations(decl, ts)
				switch {
				case anns.has("enum"):
					if _, ok := ts.Type.(*ast.Ident); !ok {
						return fmt.Errorf("enum %s: underlying type must be an integer type", ts.Name.Name)
					}
					e := &Enum{Name: ts.Name.Name}
					s.enums[e.Name] = e
					s.pkg.Enums = append(s.pkg.Enums, e)
				case anns.has("class"):
					st, ok := ts.Type.(*ast.StructType)
					if !ok {
						return fmt.Errorf("class %s: must be a struct type", ts.Name.Name)
					}
					c, err := s.newClass(ts.Name.Name, anns, st, f)
					if err != nil {
						return err
					}
					c.pos = ts.Pos()
					s.classes[c.Name] = c
					s.pkg.Classes = append(s.pkg.Classes, c)
				}
			}
		}
	}
	return nil
}

func (s *scanner) newClass(name string, anns annotations, st *ast.StructType, f *file) (*Class, error) {
	c := &Class{Name: name, Abstract: anns.has("abstract")}
	c.Super, _ = anns.get("super")
	for _, attr := range anns.all("attribute") {
		key, value, _ := strings.Cut(attr, " ")
		value = strings.TrimSpace(value)
		if strings.HasPrefix(value, `"`) {
			v, err := strconv.Unquote(value)
			if err != nil {
				return nil, fmt.Errorf("class %s: attribute %s: %w", name, key, err)
			}
			value = v
		}
		c.Attributes = append(c.Attributes, [2]string{key, value})
	}
	for _, field := range st.Fields.List {
		if len(field.Names) != 0 {
			continue
		}
		t := field.Type
		if star, ok := t.(*ast.StarExpr); ok {
			t = star.X
		}
		switch t := t.(type) {
		case *ast.Ident:
			c.embeds = append(c.embeds, embedded{name: t.Name})
		case *ast.SelectorExpr:
			x, ok := t.X.(*ast.Ident)
			if !ok {
				continue
			}
			if p, ok := f.imports[x.Name]; ok && p != gomImportPath {
				c.embeds = append(c.embeds, embedded{pkgPath: p, name: t.Sel.Name})
			}
		}
	}
	return c, nil
}

// collectEnumValues finds the constants of each enum, following the
// implicit repetition of typed iota blocks.
func (s *scanner) collectEnumValues() {
	consts := make(map[string][]string)
	for _, f := range s.files {
		for _, d := range f.ast.Decls {
			decl, ok := d.(*ast.GenDecl)
			if !ok || decl.Tok != token.CONST {
				continue
			}
			var current string
			for _, spec := range decl.Specs {
				vs := spec.(*ast.ValueSpec)
				if vs.Type != nil {
					current = types.ExprString(vs.Type)
				} else if len(vs.Values) > 0 {
					current = ""
				}
				if _, ok := s.enums[current]; !ok {
					continue
				}
				for _, n := range vs.Names {
					if n.Name != "_" {
						consts[current] = append(consts[current], n.Name)
					}
				}
			}
		}
	}
	for _, e := range s.pkg.Enums {
		names := enumValueNames(e.Name, consts[e.Name])
		for i, c := range consts[e.Name] {
			e.Values = append(e.Values, EnumValue{Name: names[i], Const: c})
		}
	}
}

// enumValueNames strips the common CamelCase prefix of the constants and
// snake-cases the rest: DrawPlain, DrawSmooth give plain, smooth.
func enumValueNames(enumName string, consts []string) []string {
	words := make([][]string, len(consts))
	for i, c := range consts {
		words[i] = strings.Split(strcase.ToSnake(c), "_")
	}
	prefix := 0
	switch len(consts) {
	case 0:
		return nil
	case 1:
		typeWords := strings.Split(strcase.ToSnake(enumName), "_")
		for prefix < len(typeWords) && prefix < len(words[0])-1 && words[0][prefix] == typeWords[prefix] {
			prefix++
		}
	default:
	loop:
		for {
			for _, w := range words {
				if prefix >= len(w)-1 || w[prefix] != words[0][prefix] {
					break loop
				}
			}
			prefix++
		}
	}
	names := make([]string, len(consts))
	for i, w := range words {
		names[i] = strings.Join(w[prefix:], "_")
	}
	return names
}

func receiverName(decl *ast.FuncDecl) string {
	if decl.Recv == nil || len(decl.Recv.List) == 0 {
		return ""
	}
	t := decl.Recv.List[0].Type
	if star, ok := t.(*ast.StarExpr); ok {
		t = star.X
	}
	if id, ok := t.(*ast.Ident); ok {
		return id.Name
	}
	return ""
}

func (s *scanner) collectFuncs() error {
	for _, f := range s.files {
		for _, d := range f.ast.Decls {
			decl, ok := d.(*ast.FuncDecl)
			if !ok {
				continue
			}
			if recv := receiverName(decl); recv != "" {
				if s.methods[recv] == nil {
					s.methods[recv] = make(map[string]method)
				}
				s.methods[recv][decl.Name.Name] = method{decl: decl, file: f}
			}
		}
	}

	for _, f := range s.files {
		for _, d := range f.ast.Decls {
			decl, ok := d.(*ast.FuncDecl)
			if !ok {
				continue
			}
			anns := parseAnnotations(decl.Doc)
			if len(anns) == 0 {
				continue
			}
			m, class, err := s.member(decl, anns, f)
			if err != nil {
				return fmt.Errorf("%s: %w", s.fset.Position(decl.Pos()), err)
			}
			if m == nil {
				continue
			}
			for _, other := range class.Members {
				if m.Kind != ConstructorMember && other.Kind != ConstructorMember && other.Name == m.Name {
					return fmt.Errorf("%s: %s.%s is declared twice", s.fset.Position(decl.Pos()), class.Name, m.Name)
				}
			}
			class.Members = append(class.Members, m)
		}
	}
	for _, c := range s.classes {
		sort.SliceStable(c.Members, func(i, j int) bool { return c.Members[i].pos < c.Members[j].pos })
	}
	return nil
}

// member builds the member declared by the annotations of decl.
func (s *scanner) member(decl *ast.FuncDecl, anns annotations, f *file) (*Member, *Class, error) {
	defaults, err := parseDefaults(anns.all("default"))
	if err != nil {
		return nil, nil, err
	}
	name := decl.Name.Name

	if decl.Recv == nil {
		if !anns.has("constructor") {
			return nil, nil, nil
		}
		class, err := s.constructedClass(decl)
		if err != nil {
			return nil, nil, err
		}
		params, err := s.params(decl.Type, f, defaults)
		if err != nil {
			return nil, nil, err
		}
		return &Member{Kind: ConstructorMember, Method: name, Params: params, pos: decl.Pos()}, class, nil
	}

	recv := receiverName(decl)
	var kind string
	for _, k := range []string{PropertyMember, SlotMember, SignalMember} {
		if anns.has(k) {
			kind = k
		}
	}
	if kind == "" {
		return nil, nil, nil
	}
	class, ok := s.classes[recv]
	if !ok {
		return nil, nil, fmt.Errorf("method %s.%s is annotated but %s is not a //gom:class", recv, name, recv)
	}
	scriptName, _ := anns.get(kind)
	if scriptName == "" {
		scriptName = strcase.ToSnake(name)
	}

	if kind == PropertyMember {
		m, err := s.property(recv, scriptName, decl, anns, f)
		return m, class, err
	}

	params, err := s.params(decl.Type, f, defaults)
	if err != nil {
		return nil, nil, err
	}
	m := &Member{Kind: kind, Name: scriptName, Method: name, Params: params, pos: decl.Pos()}
	if kind == SlotMember {
		goType, typeName, void, err := s.result(decl.Type, f)
		if err != nil {
			return nil, nil, err
		}
		m.Type, m.Void = typeName, void
		m.Iface = iface(name, paramTypes(params), goType)
	}
	return m, class, nil
}

func (s *scanner) property(recv, name string, decl *ast.FuncDecl, anns annotations, f *file) (*Member, error) {
	if decl.Type.Params.NumFields() != 0 {
		return nil, fmt.Errorf("property getter %s.%s takes arguments", recv, decl.Name.Name)
	}
	goType, typeName, void, err := s.result(decl.Type, f)
	if err != nil {
		return nil, err
	}
	if void {
		return nil, fmt.Errorf("property getter %s.%s returns nothing", recv, decl.Name.Name)
	}
	getter := decl.Name.Name
	m := &Member{
		Kind:        PropertyMember,
		Name:        name,
		Type:        typeName,
		GoType:      goType,
		Getter:      getter,
		GetterIface: iface(getter, nil, goType),
		pos:         decl.Pos(),
	}
	if anns.has("readonly") {
		return m, nil
	}
	set, ok := s.methods[recv]["Set"+getter]
	if !ok || set.decl.Type.Params.NumFields() != 1 || set.decl.Type.Results.NumFields() != 0 {
		return m, nil
	}
	setType, _, err := s.typeOf(set.decl.Type.Params.List[0].Type, set.file)
	if err != nil || setType != goType {
		return m, nil
	}
	m.Setter = "Set" + getter
	m.SetterIface = iface(m.Setter, []string{goType}, "")
	return m, nil
}

func (s *scanner) constructedClass(decl *ast.FuncDecl) (*Class, error) {
	results := decl.Type.Results
	if results.NumFields() == 1 {
		if star, ok := results.List[0].Type.(*ast.StarExpr); ok {
			if id, ok := star.X.(*ast.Ident); ok {
				if c, ok := s.classes[id.Name]; ok {
					return c, nil
				}
			}
		}
	}
	return nil, fmt.Errorf("constructor %s must return a pointer to a //gom:class of the package", decl.Name.Name)
}

func parseDefaults(values []string) (map[string]string, error) {
	defaults := make(map[string]string, len(values))
	for _, v := range values {
		name, value, ok := strings.Cut(v, "=")
		if !ok {
			return nil, fmt.Errorf("malformed //gom:default %q, want name=value", v)
		}
		defaults[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return defaults, nil
}

func (s *scanner) params(ft *ast.FuncType, f *file, defaults map[string]string) ([]Param, error) {
	var params []Param
	i := 0
	for _, field := range ft.Params.List {
		if _, ok := field.Type.(*ast.Ellipsis); ok {
			return nil, fmt.Errorf("variadic arguments are not supported")
		}
		goType, typeName, err := s.typeOf(field.Type, f)
		if err != nil {
			return nil, err
		}
		names := field.Names
		if len(names) == 0 {
			names = []*ast.Ident{nil}
		}
		for _, n := range names {
			name := fmt.Sprintf("arg%d", i)
			if n != nil && n.Name != "_" {
				name = n.Name
			}
			p := Param{Var: varName(name), Name: name, GoType: goType, TypeName: typeName}
			if d, ok := defaults[name]; ok {
				def, err := renderDefault(d, goType)
				if err != nil {
					return nil, fmt.Errorf("default of %s: %w", name, err)
				}
				p.Default, p.HasDefault = def, true
				delete(defaults, name)
			}
			params = append(params, p)
			i++
		}
	}
	if len(defaults) > 0 {
		unknown := make([]string, 0, len(defaults))
		for name := range defaults {
			unknown = append(unknown, name)
		}
		sort.Strings(unknown)
		return nil, fmt.Errorf("//gom:default names unknown arguments %v", unknown)
	}
	return params, nil
}

func varName(name string) string {
	if reserved[name] {
		return name + "_"
	}
	return name
}

// renderDefault returns the Go expression of a default argument value.
func renderDefault(raw, goType string) (string, error) {
	switch {
	case goType == "string":
		if strings.HasPrefix(raw, `"`) || strings.HasPrefix(raw, "`") {
			v, err := strconv.Unquote(raw)
			if err != nil {
				return "", err
			}
			raw = v
		}
		return strconv.Quote(raw), nil
	case goType == "bool":
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(b), nil
	case goType == "gom.Any":
		return raw, nil
	case raw == "nil":
		return "nil", nil
	case strings.HasPrefix(goType, "*") || strings.HasPrefix(goType, "gom.") && goType != "gom.Index" && goType != "gom.SignedIndex":
		return "", fmt.Errorf("%s arguments only default to nil", goType)
	}
	return goType + "(" + raw + ")", nil
}

func (s *scanner) result(ft *ast.FuncType, f *file) (goType, typeName string, void bool, err error) {
	switch ft.Results.NumFields() {
	case 0:
		return "", gom.VoidType.Name(), true, nil
	case 1:
		goType, typeName, err = s.typeOf(ft.Results.List[0].Type, f)
		return goType, typeName, false, err
	}
	return "", "", false, fmt.Errorf("multiple results are not supported")
}

// typeOf returns the Go type to use in generated code and the meta type
// name of expr.
func (s *scanner) typeOf(expr ast.Expr, f *file) (goType, typeName string, err error) {
	switch t := expr.(type) {
	case *ast.Ident:
		if name, ok := builtinTypeNames[t.Name]; ok {
			return t.Name, name, nil
		}
		if _, ok := s.enums[t.Name]; ok {
			return t.Name, t.Name, nil
		}
		if _, ok := s.classes[t.Name]; ok {
			return "", "", fmt.Errorf("class %s must be used through a pointer", t.Name)
		}
	case *ast.StarExpr:
		switch x := t.X.(type) {
		case *ast.Ident:
			if _, ok := s.classes[x.Name]; ok {
				return "*" + x.Name, x.Name, nil
			}
		case *ast.SelectorExpr:
			name, p, ok := selector(x, f)
			if !ok {
				break
			}
			if p == gomImportPath {
				if x.Sel.Name == "ArgList" {
					return "*gom.ArgList", gom.ArgListType.Name(), nil
				}
				break
			}
			s.pkg.Imports[p] = name
			return "*" + name + "." + x.Sel.Name, x.Sel.Name, nil
		}
	case *ast.SelectorExpr:
		if _, p, ok := selector(t, f); ok && p == gomImportPath {
			if name, ok := gomTypeNames[t.Sel.Name]; ok {
				return "gom." + t.Sel.Name, name, nil
			}
		}
	}
	return "", "", fmt.Errorf("unsupported type %s", types.ExprString(expr))
}

func selector(x *ast.SelectorExpr, f *file) (name, importPath string, ok bool) {
	id, ok := x.X.(*ast.Ident)
	if !ok {
		return "", "", false
	}
	importPath, ok = f.imports[id.Name]
	return id.Name, importPath, ok
}

func paramTypes(params []Param) []string {
	ts := make([]string, len(params))
	for i, p := range params {
		ts[i] = p.GoType
	}
	return ts
}

// iface returns the single-method interface used to call a method on any
// subclass instance.
func iface(method string, params []string, result string) string {
	sig := method + "(" + strings.Join(params, ", ") + ")"
	if result != "" {
		sig += " " + result
	}
	return "interface{ " + sig + " }"
}

// scanExternal collects, in parallel, the class names of the packages of
// the module whose types are embedded by classes.
func (s *scanner) scanExternal(ctx context.Context) error {
	seen := make(map[string]bool)
	var paths []string
	for _, c := range s.pkg.Classes {
		for _, e := range c.embeds {
			if e.pkgPath == "" || seen[e.pkgPath] || !s.loc.InModule(e.pkgPath) {
				continue
			}
			seen[e.pkgPath] = true
			paths = append(paths, e.pkgPath)
		}
	}
	sort.Strings(paths)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			dir, err := s.loc.FindPackageDir(p)
			if err != nil {
				return err
			}
			names, err := classNames(dir)
			if err != nil {
				return fmt.Errorf("scanning %s: %w", p, err)
			}
			s.mu.Lock()
			s.external[p] = names
			s.mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}

// classNames returns the //gom:class types declared in dir.
func classNames(dir string) (map[string]bool, error) {
	files, err := parseFiles(token.NewFileSet(), dir)
	if err != nil {
		return nil, err
	}
	names := make(map[string]bool)
	for _, f := range files {
		for _, d := range f.Decls {
			decl, ok := d.(*ast.GenDecl)
			if !ok || decl.Tok != token.TYPE {
				continue
			}
			for _, spec := range decl.Specs {
				ts := spec.(*ast.TypeSpec)
				if typeAnnotations(decl, ts).has("class") {
					names[ts.Name.Name] = true
				}
			}
		}
	}
	return names, nil
}

// resolveBases keeps the embedded types that are classes. More than one
// without //gom:super is ambiguous.
func (s *scanner) resolveBases() error {
	for _, c := range s.pkg.Classes {
		for _, e := range c.embeds {
			if e.pkgPath == "" {
				if _, ok := s.classes[e.name]; ok {
					c.Bases = append(c.Bases, e.name)
				}
			} else if s.external[e.pkgPath][e.name] {
				c.Bases = append(c.Bases, e.name)
			}
		}
		if c.Super == "" && len(c.Bases) > 1 {
			return fmt.Errorf("class %s: %w: candidates %v need a //gom:super annotation", c.Name, gom.ErrAmbiguousSuperclass, c.Bases)
		}
	}
	return nil
}

// sortClasses orders the classes so that superclasses of the package come
// first, keeping the source order otherwise.
func (s *scanner) sortClasses() error {
	sort.SliceStable(s.pkg.Classes, func(i, j int) bool { return s.pkg.Classes[i].pos < s.pkg.Classes[j].pos })
	const (
		visiting = 1
		done     = 2
	)
	state := make(map[string]int)
	sorted := make([]*Class, 0, len(s.pkg.Classes))
	var visit func(c *Class) error
	visit = func(c *Class) error {
		switch state[c.Name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("class %s: inheritance cycle", c.Name)
		}
		state[c.Name] = visiting
		super := c.Super
		if super == "" && len(c.Bases) == 1 {
			super = c.Bases[0]
		}
		if sc, ok := s.classes[super]; ok && sc != c {
			if err := visit(sc); err != nil {
				return err
			}
		}
		state[c.Name] = done
		sorted = append(sorted, c)
		return nil
	}
	for _, c := range s.pkg.Classes {
		if err := visit(c); err != nil {
			return err
		}
	}
	s.pkg.Classes = sorted
	return nil
}
