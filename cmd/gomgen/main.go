// Command gomgen writes the registration code of a package annotated with
// //gom: comments.
//
//	gomgen --dir ./internal/scenegraph
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/podhmo/go-gom/codegen"
	"github.com/spf13/pflag"
)

type options struct {
	Dir      string
	Output   string
	LogLevel string
}

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		log.Fatalf("!! %+v", err)
	}
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := pflag.NewFlagSet("gomgen", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.Dir, "dir", "d", ".", "directory of the package to scan")
	fs.StringVarP(&opts.Output, "output", "o", "", "output file (default: <dir>/"+codegen.OutputFile+")")
	fs.StringVar(&opts.LogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

func run(args []string, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(opts.LogLevel)); err != nil {
		return fmt.Errorf("unknown log level %q: %w", opts.LogLevel, err)
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	ctx := context.Background()
	logger.DebugContext(ctx, "scanning", "dir", opts.Dir)
	path, err := codegen.Run(ctx, opts.Dir, opts.Output)
	if err != nil {
		return fmt.Errorf("generating %s: %w", opts.Dir, err)
	}
	logger.InfoContext(ctx, "generated", "file", path)
	return nil
}
