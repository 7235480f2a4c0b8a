// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Command resourceform reads classic Mac OS resource files.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/elliotnunn/resourceform/internal/config"
	"github.com/elliotnunn/resourceform/internal/dcmpcache"
	"github.com/elliotnunn/resourceform/internal/forks"
	"github.com/elliotnunn/resourceform/internal/logging"
	"github.com/elliotnunn/resourceform/internal/resourcefork"
)

const description = `resourceform is a tool for working with Classic Mac OS resource files.
It can only read resource files. Compressed resources are decompressed
as needed.

Input files may be plain resource files, AppleDouble or AppleSingle files,
or any file whose resource fork the operating system exposes. Inputs
compressed with gzip, bzip2 or xz are unwrapped first.`

// app holds the state shared by every subcommand of one run.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg   config.Config
	log   *slog.Logger
	cache *dcmpcache.Cache // nil when disabled
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.Command {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr, log: slog.Default()}

	var (
		configPath   string
		logLevel     string
		logFormat    string
		cacheDir     string
		cacheEntries int64
	)

	return &cli.Command{
		Name:        "resourceform",
		Usage:       "Read classic Mac OS resource files",
		Description: description,
		Reader:      stdin,
		Writer:      stdout,
		ErrWriter:   stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Usage:       "configuration file (default " + config.Path() + ")",
				Destination: &configPath,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "debug, info, warn or error",
				Value:       "warn",
				Destination: &logLevel,
			},
			&cli.StringFlag{
				Name:        "log-format",
				Usage:       "text or json",
				Value:       "text",
				Destination: &logFormat,
			},
			&cli.StringFlag{
				Name:        "cache-dir",
				Usage:       "keep decompressed resources in a database in this directory",
				Destination: &cacheDir,
			},
			&cli.Int64Flag{
				Name:        "cache-entries",
				Usage:       "decompressed resources kept in memory (0 = no cache)",
				Value:       256,
				Destination: &cacheEntries,
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			var err error
			if cmd.IsSet("config") {
				a.cfg, err = config.LoadFile(configPath)
			} else {
				a.cfg, err = config.Load()
			}
			if err != nil {
				return ctx, err
			}

			if !cmd.IsSet("log-level") && a.cfg.LogLevel != "" {
				logLevel = a.cfg.LogLevel
			}
			if !cmd.IsSet("log-format") && a.cfg.LogFormat != "" {
				logFormat = a.cfg.LogFormat
			}
			if !cmd.IsSet("cache-dir") && a.cfg.CacheDir != "" {
				cacheDir = a.cfg.CacheDir
			}
			if !cmd.IsSet("cache-entries") && a.cfg.CacheEntries != nil {
				cacheEntries = int64(*a.cfg.CacheEntries)
			}

			a.log, err = logging.New(stderr, logFormat, logLevel)
			if err != nil {
				return ctx, err
			}
			slog.SetDefault(a.log)

			switch {
			case cacheEntries < 0:
				return ctx, fmt.Errorf("--cache-entries cannot be negative: %d", cacheEntries)
			case cacheDir != "":
				a.cache, err = dcmpcache.Open(int(cacheEntries), cacheDir)
				if err != nil {
					return ctx, fmt.Errorf("opening cache: %w", err)
				}
			case cacheEntries > 0:
				a.cache = dcmpcache.New(int(cacheEntries))
			}
			return logging.WithContext(ctx, a.log), nil
		},
		After: func(ctx context.Context, cmd *cli.Command) error {
			if a.cache != nil {
				return a.cache.Close()
			}
			return nil
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			a.readHeaderCmd(),
			a.infoCmd(),
			a.listCmd(),
			a.resourceInfoCmd(),
			a.readCmd(),
			a.rawCompressInfoCmd(),
			a.rawDecompressCmd(),
			a.serveCmd(),
		},
	}
}

func main() {
	app := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := execute(context.Background(), app, os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// options are passed to every resource file opened.
func (a *app) options() []resourcefork.Option {
	opts := []resourcefork.Option{resourcefork.WithLogger(a.log)}
	if a.cache != nil {
		opts = append(opts, resourcefork.WithCache(a.cache))
	}
	return opts
}

// forkFlag is shared by every subcommand reading a resource file.
func forkFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "fork",
		Usage: "the fork from which to read the resource file data: auto, data or rsrc",
		Value: "auto",
	}
}

// fork takes --fork, then the config file.
func (a *app) fork(cmd *cli.Command) (forks.Fork, error) {
	s := cmd.String("fork")
	if !cmd.IsSet("fork") && a.cfg.Fork != "" {
		s = a.cfg.Fork
	}
	return forks.ParseFork(s)
}

// open opens the FILE argument, where "-" is standard input.
func (a *app) open(cmd *cli.Command) (*resourcefork.File, error) {
	if cmd.NArg() < 1 {
		return nil, errors.New("missing FILE argument")
	}
	name := cmd.Args().First()
	fork, err := a.fork(cmd)
	if err != nil {
		return nil, err
	}
	if name == "-" {
		if fork != forks.Auto {
			return nil, errors.New("cannot specify an explicit fork when reading from stdin")
		}
		return forks.OpenReader(a.stdin, a.options()...)
	}
	return forks.Open(name, fork, a.options()...)
}

func noDecompressFlag(usage string) cli.Flag {
	return &cli.BoolFlag{Name: "no-decompress", Usage: usage}
}

func noSortFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "no-sort",
		Usage: "output resources in the order in which they are stored in the file, instead of sorting them by type and ID",
	}
}

func globFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:  "glob",
		Usage: "select resources whose TYPE/ID path matches this pattern",
	}
}

func (a *app) decompress(cmd *cli.Command) bool {
	if !cmd.IsSet("no-decompress") && a.cfg.Decompress != nil {
		return *a.cfg.Decompress
	}
	return !cmd.Bool("no-decompress")
}

func (a *app) sort(cmd *cli.Command) bool {
	if !cmd.IsSet("no-sort") && a.cfg.Sort != nil {
		return *a.cfg.Sort
	}
	return !cmd.Bool("no-sort")
}

// selected applies the filter arguments that follow FILE.
func (a *app) selected(cmd *cli.Command, f *resourcefork.File) ([]*resourcefork.Resource, error) {
	sel, err := newSelection(cmd.Args().Tail(), cmd.StringSlice("glob"))
	if err != nil {
		return nil, err
	}
	return sel.resources(f, a.sort(cmd)), nil
}

// oneOf checks the value of a flag with fixed choices.
func oneOf(cmd *cli.Command, flag string, choices ...string) (string, error) {
	v := cmd.String(flag)
	for _, c := range choices {
		if v == c {
			return v, nil
		}
	}
	return "", fmt.Errorf("--%s must be one of %q, not %q", flag, choices, v)
}
