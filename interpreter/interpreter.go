// Package interpreter defines the contract shared by the script bridges:
// statement execution with an engine-independent history, global
// bindings, evaluation, name listing for completion, and the script-visible
// Interpreter class through which scripts reach the object model.
package interpreter

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	gom "github.com/podhmo/go-gom"
	"github.com/podhmo/go-gom/scope"
)

// Interpreter is a script engine bound to the object model.
type Interpreter interface {
	gom.Object

	Language() string
	FilenameExtension() string

	// Execute runs one statement in the global scope. Unless saveInHistory
	// is false, the command text is appended to the history.
	Execute(command string, saveInHistory, log bool) error
	// ExecuteFile runs the statements of a file one by one, recording each
	// in the history.
	ExecuteFile(path string) error
	// Eval evaluates an expression.
	Eval(expr string) (gom.Any, error)

	Bind(id string, v gom.Any)
	Resolve(id string) gom.Any
	ListNames() []string

	History() []string
	AddToHistory(command string)
	ClearHistory()
	SaveHistory(path string) error

	Globals() gom.Scope
	MetaTypes() gom.Scope
}

// Engine is implemented by each bridge for the parts of Core that depend on
// the language.
type Engine interface {
	Execute(command string, saveInHistory, log bool) error
	// Complete reports whether src parses as complete statements.
	Complete(src string) bool
	// Continues reports whether line belongs to the statement being read
	// regardless of completeness (indented blocks).
	Continues(line string) bool
}

// Error is an engine failure (syntax error or script exception). Bridges
// never return engine-specific error types.
type Error struct {
	Language string
	Source   string
	Message  string
}

func (e *Error) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("%s: %s", e.Language, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Language, e.Source, e.Message)
}

// Option configures a Core.
type Option func(*Core)

// WithLogger sets the logger of the interpreter.
func WithLogger(l *slog.Logger) Option {
	return func(b *Core) {
		b.logger = l
	}
}

// WithStdout sets where scripts print.
func WithStdout(w io.Writer) Option {
	return func(b *Core) {
		b.stdout = w
	}
}

// WithErrorDisplay sets the routine showing engine failures to the user.
// By default they are only logged.
func WithErrorDisplay(fn func(err error)) Option {
	return func(b *Core) {
		b.display = fn
	}
}

// Core implements the language-independent part of Interpreter. Bridges
// embed it and call Init.
type Core struct {
	gom.ObjectBase
	self      Interpreter
	engine    Engine
	language  string
	extension string

	history   []string
	globals   *scope.GlobalScope
	metaTypes *scope.MetaTypesScope

	logger  *slog.Logger
	stdout  io.Writer
	display func(err error)
}

// Init binds the base to the bridge embedding it.
func (b *Core) Init(self Interpreter, engine Engine, language, extension string, options ...Option) {
	b.self = self
	b.engine = engine
	b.language = language
	b.extension = extension
	b.stdout = os.Stdout
	for _, opt := range options {
		opt(b)
	}
	gom.InitObject(self)
	b.globals = scope.NewGlobalScope(self)
	b.globals.Ref()
	b.metaTypes = scope.NewRootMetaTypesScope()
	b.metaTypes.Ref()
}

// Language returns the name of the language, e.g. "lua".
func (b *Core) Language() string { return b.language }

// FilenameExtension returns the extension of script files, e.g. "lua".
func (b *Core) FilenameExtension() string { return b.extension }

// Logger returns the logger of the interpreter, tagged with its language.
func (b *Core) Logger() *slog.Logger {
	l := b.logger
	if l == nil {
		l = gom.Logger()
	}
	return l.With("tag", b.language)
}

// Stdout returns where scripts print.
func (b *Core) Stdout() io.Writer { return b.stdout }

// Globals returns the scope of the globals.
func (b *Core) Globals() gom.Scope { return b.globals }

// MetaTypes returns the scope of the registry.
func (b *Core) MetaTypes() gom.Scope { return b.metaTypes }

// DisplayError reports an engine failure.
func (b *Core) DisplayError(err error) {
	b.Logger().Error(err.Error())
	if b.display != nil {
		b.display(err)
	}
}

// AddToHistory appends a command to the history. One trailing newline is
// removed; empty commands are ignored.
func (b *Core) AddToHistory(command string) {
	command = strings.TrimSuffix(command, "\n")
	if command == "" {
		return
	}
	b.history = append(b.history, command)
}

// History returns the recorded commands.
func (b *Core) History() []string {
	return append([]string(nil), b.history...)
}

// ClearHistory empties the history.
func (b *Core) ClearHistory() {
	b.history = nil
}

// SaveHistory writes the history, one command per line. The file can be
// replayed with ExecuteFile.
func (b *Core) SaveHistory(path string) error {
	var sb strings.Builder
	for _, command := range b.history {
		sb.WriteString(command)
		sb.WriteString("\n")
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	return nil
}

// ExecuteFile reads path and executes its statements one at a time. It
// stops at the first failure.
func (b *Core) ExecuteFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening script: %w", err)
	}
	defer f.Close()
	return b.ExecuteReader(f)
}

// ExecuteReader is ExecuteFile on a reader. A statement ends when the next
// non-blank line neither continues it nor leaves it incomplete.
func (b *Core) ExecuteReader(r io.Reader) error {
	var lines []string
	flush := func() error {
		src := statement(lines)
		lines = nil
		if src == "" {
			return nil
		}
		return b.engine.Execute(src, true, false)
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			if len(lines) > 0 {
				lines = append(lines, line)
			}
			continue
		}
		if len(lines) > 0 && !b.engine.Continues(line) && b.engine.Complete(statement(lines)) {
			if err := flush(); err != nil {
				return err
			}
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading script: %w", err)
	}
	return flush()
}

// statement joins lines, dropping the trailing blank ones.
func statement(lines []string) string {
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// ResolveGlobalID resolves "@Class::#N" names.
func (b *Core) ResolveGlobalID(id string) (gom.Any, bool) {
	if !strings.HasPrefix(id, "@") {
		return gom.Any{}, false
	}
	o, ok := gom.ResolveGlobalID(id)
	if !ok {
		b.Logger().Warn("no such object", "id", id)
		return gom.Any{}, true
	}
	return gom.ObjectAny(o), true
}

// Create creates an object of the class given as the named argument
// "classname" or as the first unnamed argument. The other arguments go to
// the constructor and to properties.
func (b *Core) Create(args *gom.ArgList) gom.Object {
	args = args.Clone()
	var className string
	if v, ok := args.Get("classname"); ok {
		className = v.AsString()
		args.Remove("classname")
	} else if args.Len() > 0 && gom.IsUnnamedArgName(args.Name(0)) {
		className = args.Value(0).AsString()
		args.Remove(args.Name(0))
	}
	r := gom.Meta()
	if r == nil || className == "" {
		b.Logger().Warn("create: missing class name")
		return nil
	}
	c, ok := r.ResolveClass(className)
	if !ok {
		b.Logger().Warn("create: no such class", "class", className)
		return nil
	}
	return c.Create(args)
}

// Inspect returns a description of o: its identity, class and the values
// of its properties.
func (b *Core) Inspect(o gom.Object) string {
	c := o.MetaClass()
	if c == nil {
		return gom.ObjectString(o)
	}
	var sb strings.Builder
	sb.WriteString(gom.ObjectString(o))
	sb.WriteString("\n")
	sb.WriteString(c.Doc())
	for _, m := range c.Members() {
		p, ok := m.(*gom.MetaProperty)
		if !ok {
			continue
		}
		v, ok := p.Get(o)
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "\n%s = %s", p.Name(), v.AsString())
	}
	return sb.String()
}

// ListClasses returns the names of the registered classes.
func (b *Core) ListClasses() []string {
	r := gom.Meta()
	if r == nil {
		return nil
	}
	var names []string
	for _, name := range r.ListTypeNames() {
		if _, ok := r.ResolveClass(name); ok {
			names = append(names, name)
		}
	}
	return names
}

// Connect connects the signal referenced by from to to.
func (b *Core) Connect(from *gom.Request, to gom.Callable) (*gom.Connection, error) {
	return gom.ConnectRequest(from, to)
}

var directory = struct {
	byLanguage  map[string]Interpreter
	byExtension map[string]Interpreter
}{
	byLanguage:  make(map[string]Interpreter),
	byExtension: make(map[string]Interpreter),
}

// Add makes in reachable by language and filename extension.
func Add(in Interpreter) {
	directory.byLanguage[in.Language()] = in
	directory.byExtension[in.FilenameExtension()] = in
}

// Remove undoes Add.
func Remove(in Interpreter) {
	if directory.byLanguage[in.Language()] == in {
		delete(directory.byLanguage, in.Language())
	}
	if directory.byExtension[in.FilenameExtension()] == in {
		delete(directory.byExtension, in.FilenameExtension())
	}
}

// ByLanguage returns the interpreter added for language.
func ByLanguage(language string) (Interpreter, bool) {
	in, ok := directory.byLanguage[language]
	return in, ok
}

// ByExtension returns the interpreter added for a filename extension
// (with or without the leading dot).
func ByExtension(ext string) (Interpreter, bool) {
	in, ok := directory.byExtension[strings.TrimPrefix(ext, ".")]
	return in, ok
}

// Languages returns the languages of the added interpreters.
func Languages() []string {
	var names []string
	for name := range directory.byLanguage {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
