package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/muesli/termenv"
	gom "github.com/podhmo/go-gom"
	"github.com/podhmo/go-gom/internal/scenegraph"
	"github.com/podhmo/go-gom/interpreter"
	"github.com/podhmo/go-gom/luagom"
	"github.com/podhmo/go-gom/scope"
	"github.com/podhmo/go-gom/stargom"
)

// registrations populate the registry of the shell.
var registrations = []gom.Registration{
	scope.Register,
	luagom.Register,
	stargom.Register,
	scenegraph.Register,
}

// engine is what the shell needs from a script bridge.
type engine interface {
	interpreter.Interpreter
	interpreter.Engine
	CollectGarbage() int
	Close()
}

// Shell hosts one interpreter per language, all bound to the same scene
// graph.
type Shell struct {
	engines map[string]engine
	current engine
	graph   *scenegraph.SceneGraph

	out    io.Writer
	errOut *termenv.Output
	logger *slog.Logger
}

// NewShell creates the interpreters. The registry must be initialized.
func NewShell(cfg *Config, stdout, stderr io.Writer, logger *slog.Logger) (*Shell, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	s := &Shell{
		engines: make(map[string]engine),
		out:     stdout,
		logger:  logger,
	}
	if cfg.NoColor {
		s.errOut = termenv.NewOutput(stderr, termenv.WithProfile(termenv.Ascii))
	} else {
		s.errOut = termenv.NewOutput(stderr)
	}

	options := []interpreter.Option{
		interpreter.WithLogger(logger),
		interpreter.WithStdout(stdout),
		interpreter.WithErrorDisplay(s.displayError),
	}
	s.graph = scenegraph.NewSceneGraph()
	s.graph.Ref()
	for _, in := range []engine{luagom.New(options...), stargom.New(options...)} {
		in.Bind("scene_graph", gom.ObjectAny(s.graph))
		interpreter.Add(in)
		s.engines[in.Language()] = in
	}
	s.current = s.engines[cfg.Lang]
	return s, nil
}

func (s *Shell) displayError(err error) {
	fmt.Fprintln(s.errOut, s.errOut.String(err.Error()).Foreground(s.errOut.Color("1")))
}

// Current returns the interpreter of the interactive loop.
func (s *Shell) Current() interpreter.Interpreter { return s.current }

// SetLanguage switches the interactive loop to another interpreter.
func (s *Shell) SetLanguage(lang string) error {
	in, ok := s.engines[lang]
	if !ok {
		return fmt.Errorf("unsupported language %q", lang)
	}
	s.current = in
	return nil
}

// RunFiles executes scripts, picking the interpreter from the file
// extension. It stops at the first failure.
func (s *Shell) RunFiles(paths ...string) error {
	for _, path := range paths {
		in := s.Current()
		if found, ok := interpreter.ByExtension(filepath.Ext(path)); ok {
			in = found
		}
		s.logger.Debug("running script", "file", path, "language", in.Language())
		if err := in.ExecuteFile(path); err != nil {
			return fmt.Errorf("running %s: %w", path, err)
		}
	}
	return nil
}

// Run is the interactive loop: it reads statements from r until EOF or
// :quit. Engine failures are displayed and the loop goes on. Lines
// starting with ':' outside of a statement are shell commands.
func (s *Shell) Run(r io.Reader) error {
	var lines []string
	flush := func() {
		if len(lines) == 0 {
			return
		}
		src := strings.Join(lines, "\n")
		lines = nil
		// failures are displayed through the error display routine
		_ = s.current.Execute(src, true, false)
	}

	sc := bufio.NewScanner(r)
	s.prompt(false)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case len(lines) == 0 && strings.HasPrefix(line, ":"):
			quit, err := s.command(line)
			if err != nil {
				s.displayError(err)
			}
			if quit {
				return nil
			}
		case len(lines) == 0 && strings.TrimSpace(line) == "":
		case len(lines) > 0 && strings.TrimSpace(line) == "":
			flush()
		default:
			lines = append(lines, line)
			if !opensBlock(lines[0]) && s.current.Complete(strings.Join(lines, "\n")) {
				flush()
			}
		}
		s.prompt(len(lines) > 0)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	flush()
	return nil
}

// opensBlock reports whether a statement starting with line is ended by an
// empty line (a Starlark def, if or for).
func opensBlock(line string) bool {
	return strings.HasSuffix(strings.TrimSpace(line), ":")
}

func (s *Shell) prompt(continuation bool) {
	if continuation {
		fmt.Fprint(s.out, "... ")
		return
	}
	fmt.Fprintf(s.out, "%s> ", s.current.Language())
}

// command runs a shell command and reports whether the loop must stop.
func (s *Shell) command(line string) (bool, error) {
	fields := strings.Fields(strings.TrimPrefix(line, ":"))
	if len(fields) == 0 {
		return false, nil
	}
	switch fields[0] {
	case "quit", "q":
		return true, nil
	case "lang":
		if len(fields) != 2 {
			return false, fmt.Errorf(":lang takes one of %s", strings.Join(interpreter.Languages(), ", "))
		}
		return false, s.SetLanguage(fields[1])
	case "history":
		for _, command := range s.current.History() {
			fmt.Fprintln(s.out, command)
		}
	case "names":
		fmt.Fprintln(s.out, strings.Join(s.current.ListNames(), " "))
	case "classes":
		names := gom.Meta().ListTypeNames()
		sort.Strings(names)
		fmt.Fprintln(s.out, strings.Join(names, " "))
	case "gc":
		fmt.Fprintf(s.out, "%d released\n", s.current.CollectGarbage())
	default:
		return false, fmt.Errorf("unknown command :%s", fields[0])
	}
	return false, nil
}

// Close saves the history of the current interpreter to path, if not
// empty, and releases the interpreters and the scene graph.
func (s *Shell) Close(path string) error {
	var err error
	if path != "" {
		err = s.current.SaveHistory(path)
	}
	for _, lang := range []string{luagom.Language, stargom.Language} {
		s.engines[lang].Close()
	}
	s.graph.Clear()
	s.graph.Unref()
	return err
}
