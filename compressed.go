// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/elliotnunn/resourceform/internal/dcmp"
	"github.com/elliotnunn/resourceform/internal/logging"
)

func (a *app) rawCompressInfoCmd() *cli.Command {
	return &cli.Command{
		Name:  "raw-compress-info",
		Usage: "Display technical information about raw compressed resource data",
		Description: `Display technical information about raw compressed resource data that is stored
in a standalone file and not as a resource in a resource file.`,
		ArgsUsage: "INPUT",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return errors.New("expected one INPUT argument")
			}
			in, err := a.input(cmd.Args().First())
			if err != nil {
				return err
			}
			defer in.Close()

			h, err := dcmp.ParseHeader(in)
			if err != nil {
				return err
			}
			for _, line := range compressedInfoLines(h) {
				fmt.Fprintln(a.stdout, line)
			}
			return nil
		},
	}
}

func (a *app) rawDecompressCmd() *cli.Command {
	return &cli.Command{
		Name:  "raw-decompress",
		Usage: "Decompress raw compressed resource data",
		Description: `Decompress raw compressed resource data that is stored in a standalone file
and not as a resource in a resource file. Either file may be - for a pipeline.

The other subcommands decompress resources as needed. This one is for data
that was read from a resource file in compressed form, e.g. using
--no-decompress.`,
		ArgsUsage: "INPUT OUTPUT",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Usage: "log every decoded operation to standard error"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 2 {
				return errors.New("expected INPUT and OUTPUT arguments")
			}
			in, err := a.input(cmd.Args().Get(0))
			if err != nil {
				return err
			}
			defer in.Close()

			h, err := dcmp.ParseHeader(in)
			if err != nil {
				return err
			}
			var opts []dcmp.Option
			if cmd.Bool("debug") {
				l, err := logging.New(a.stderr, "text", "debug")
				if err != nil {
					return err
				}
				opts = append(opts, dcmp.WithLogger(l))
			}
			s, err := dcmp.NewStream(h, in, opts...)
			if err != nil {
				return err
			}

			// Only now is the input known to be worth creating the output for
			out, err := a.output(cmd.Args().Get(1))
			if err != nil {
				return err
			}
			if _, err := s.WriteTo(out); err != nil {
				out.Close()
				return err
			}
			return out.Close()
		},
	}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func (a *app) input(name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(a.stdin), nil
	}
	return os.Open(name)
}

func (a *app) output(name string) (io.WriteCloser, error) {
	if name == "-" {
		return nopCloser{a.stdout}, nil
	}
	return os.Create(name)
}
