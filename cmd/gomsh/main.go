// Command gomsh is an interactive shell on the object model. It hosts a
// Lua and a Starlark interpreter sharing a scene graph bound to the global
// scene_graph.
//
//	gomsh [--lang lua|starlark] [--config gomsh.toml] [--history FILE] [FILE...]
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	gom "github.com/podhmo/go-gom"
	"github.com/spf13/pflag"
)

type options struct {
	Config   string
	Lang     string
	History  string
	NoColor  bool
	LogLevel string
	Files    []string
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		log.Fatalf("!! %+v", err)
	}
}

func parseFlags(args []string, stderr io.Writer) (*options, *pflag.FlagSet, error) {
	opts := &options{}
	fs := pflag.NewFlagSet("gomsh", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.Config, "config", "c", defaultConfigFile, "configuration file")
	fs.StringVarP(&opts.Lang, "lang", "l", "", "language of the interactive loop (lua, starlark)")
	fs.StringVar(&opts.History, "history", "", "file the history is saved to on exit")
	fs.BoolVar(&opts.NoColor, "no-color", false, "do not colour errors")
	fs.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	opts.Files = fs.Args()
	return opts, fs, nil
}

// configure loads the configuration file and applies the flags set on the
// command line over it.
func configure(opts *options, fs *pflag.FlagSet) (*Config, error) {
	cfg, err := loadConfig(opts.Config, fs.Changed("config"))
	if err != nil {
		return nil, err
	}
	if fs.Changed("lang") {
		cfg.Lang = opts.Lang
	}
	if fs.Changed("history") {
		cfg.History = opts.History
	}
	if fs.Changed("no-color") {
		cfg.NoColor = opts.NoColor
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = opts.LogLevel
	}
	return cfg, cfg.validate()
}

func newLogger(level string, w io.Writer) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("unknown log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})), nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts, fs, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	cfg, err := configure(opts, fs)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.LogLevel, stderr)
	if err != nil {
		return err
	}
	if err := gom.Init(gom.Config{Logger: logger}, registrations...); err != nil {
		return fmt.Errorf("initializing the object model: %w", err)
	}
	return session(cfg, opts.Files, stdin, stdout, stderr, logger)
}

// session runs the startup scripts, then the files or, without files, the
// interactive loop. The history is saved even when a script fails.
func session(cfg *Config, files []string, stdin io.Reader, stdout, stderr io.Writer, logger *slog.Logger) (err error) {
	sh, err := NewShell(cfg, stdout, stderr, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sh.Close(cfg.History); err == nil {
			err = cerr
		}
	}()

	if err := sh.RunFiles(cfg.Startup...); err != nil {
		return err
	}
	if len(files) > 0 {
		return sh.RunFiles(files...)
	}
	return sh.Run(stdin)
}
