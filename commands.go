// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/elliotnunn/resourceform/internal/forks"
	"github.com/elliotnunn/resourceform/internal/resourcefork"
)

func (a *app) readHeaderCmd() *cli.Command {
	return &cli.Command{
		Name:      "read-header",
		Usage:     "Read the header data from a resource file",
		ArgsUsage: "FILE",
		Description: `The header data consists of two parts:

The system-reserved data is 112 bytes long and used by the Classic Mac OS
Finder as temporary storage space. It usually contains parts of the
file metadata (name, type/creator code, etc.).

The application-specific data is 128 bytes long and is available for use by
applications. In practice it usually contains junk data that happened to be in
memory when the resource file was written.`,
		Flags: []cli.Flag{
			forkFlag(),
			&cli.StringFlag{Name: "format", Value: "dump", Usage: "dump, dump-text, hex or raw"},
			&cli.StringFlag{Name: "part", Value: "all", Usage: "system, application or all"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := oneOf(cmd, "format", "dump", "dump-text", "hex", "raw")
			if err != nil {
				return err
			}
			part, err := oneOf(cmd, "part", "system", "application", "all")
			if err != nil {
				return err
			}
			f, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer f.Close()
			w := a.stdout

			switch format {
			case "dump", "dump-text":
				dump := func(data []byte) error {
					if format == "dump" {
						return hexdump(w, bytes.NewReader(data))
					}
					_, err := fmt.Fprintln(w, translateText(data))
					return err
				}
				if part != "application" {
					fmt.Fprintln(w, "System-reserved header data:")
					if err := dump(f.SystemData[:]); err != nil {
						return err
					}
				}
				if part != "system" {
					fmt.Fprintln(w, "Application-specific header data:")
					if err := dump(f.AppData[:]); err != nil {
						return err
					}
				}
				return nil

			default:
				var data []byte
				switch part {
				case "system":
					data = f.SystemData[:]
				case "application":
					data = f.AppData[:]
				default:
					data = slices.Concat(f.SystemData[:], f.AppData[:])
				}
				if format == "hex" {
					return rawHexdump(w, bytes.NewReader(data))
				}
				_, err := w.Write(data)
				return err
			}
		},
	}
}

func (a *app) infoCmd() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "Display technical information about the resource file",
		ArgsUsage: "FILE",
		Flags:     []cli.Flag{forkFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			f, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer f.Close()
			w := a.stdout

			fmt.Fprintln(w, "System-reserved header data:")
			hexdump(w, bytes.NewReader(f.SystemData[:]))
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Application-specific header data:")
			hexdump(w, bytes.NewReader(f.AppData[:]))
			fmt.Fprintln(w)

			fmt.Fprintf(w, "Resource data starts at %#x and is %#x bytes long\n", f.DataOffset, f.DataLength)
			fmt.Fprintf(w, "Resource map starts at %#x and is %#x bytes long\n", f.MapOffset, f.MapLength)
			fmt.Fprintf(w, "Resource map attributes: %s\n", f.Attributes)
			fmt.Fprintf(w, "Resource map type list starts at %#x (relative to map start) and contains %d types\n", f.TypeListOffset, f.Len())
			fmt.Fprintf(w, "Resource map name list starts at %#x (relative to map start)\n", f.NameListOffset)
			fmt.Fprintf(w, "Total resources: %d\n", f.Count())
			if f.Streaming() {
				fmt.Fprintln(w, "The input was read in a single pass")
			}

			if name := cmd.Args().First(); name != "-" {
				if ad, c, err := forks.AppleDouble(name); err == nil {
					defer c.Close()
					fmt.Fprintln(w)
					fmt.Fprintln(w, ad.Describe())
				}
			}
			return nil
		},
	}
}

func (a *app) listCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List the resources in a file",
		Description: `Each resource's type, ID, name (if any), attributes (if any), and data length
are displayed. For compressed resources, the compressed and decompressed data
length are displayed.

` + filterHelp,
		ArgsUsage: "FILE [FILTER...]",
		Flags: []cli.Flag{
			forkFlag(),
			noDecompressFlag("do not parse the data header of compressed resources and only output their compressed length"),
			&cli.StringFlag{Name: "group", Value: "type", Usage: "group resources by type or id, or not at all (none)"},
			noSortFlag(),
			globFlag(),
			&cli.StringFlag{Name: "format", Value: "text", Usage: "text or json"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			group, err := oneOf(cmd, "group", "none", "type", "id")
			if err != nil {
				return err
			}
			format, err := oneOf(cmd, "format", "text", "json")
			if err != nil {
				return err
			}
			f, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer f.Close()
			list, err := a.selected(cmd, f)
			if err != nil {
				return err
			}
			decompress := a.decompress(cmd)

			if format == "json" {
				out := make([]resourceJSON, len(list))
				for i, r := range list {
					out[i] = newResourceJSON(r, decompress)
				}
				return writeJSON(a.stdout, out)
			}
			if f.Len() == 0 {
				fmt.Fprintln(a.stdout, "No resources (empty resource file)")
				return nil
			}
			listResources(a.stdout, list, group, decompress)
			return nil
		},
	}
}

// listResources expects list to be grouped by type already.
func listResources(w io.Writer, list []*resourcefork.Resource, group string, decompress bool) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No resources matched the filter")
		return
	}

	switch group {
	case "none":
		fmt.Fprintf(w, "%d resources:\n", len(list))
		for _, r := range list {
			fmt.Fprintln(w, describe(r, true, decompress))
		}

	case "type":
		groups := chunkBy(list, func(r *resourcefork.Resource) resourcefork.Type { return r.Type })
		fmt.Fprintf(w, "%d resource types:\n", len(groups))
		for _, g := range groups {
			fmt.Fprintf(w, "%s: %d resources:\n", quoteBytes(g[0].Type[:], '\''), len(g))
			for _, r := range g {
				fmt.Fprintln(w, describe(r, false, decompress))
			}
			fmt.Fprintln(w)
		}

	case "id":
		byID := slices.Clone(list)
		slices.SortStableFunc(byID, func(a, b *resourcefork.Resource) int { return int(a.ID) - int(b.ID) })
		groups := chunkBy(byID, func(r *resourcefork.Resource) int16 { return r.ID })
		fmt.Fprintf(w, "%d resource IDs:\n", len(groups))
		for _, g := range groups {
			fmt.Fprintf(w, "(%d): %d resources:\n", g[0].ID, len(g))
			for _, r := range g {
				fmt.Fprintln(w, describe(r, true, decompress))
			}
			fmt.Fprintln(w)
		}
	}
}

// chunkBy splits list into runs sharing a key.
func chunkBy[K comparable](list []*resourcefork.Resource, key func(*resourcefork.Resource) K) [][]*resourcefork.Resource {
	var groups [][]*resourcefork.Resource
	for i, r := range list {
		if i == 0 || key(r) != key(list[i-1]) {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], r)
	}
	return groups
}

func (a *app) resourceInfoCmd() *cli.Command {
	return &cli.Command{
		Name:        "resource-info",
		Usage:       "Display technical information about resources",
		Description: filterHelp,
		ArgsUsage:   "FILE [FILTER...]",
		Flags: []cli.Flag{
			forkFlag(),
			noDecompressFlag("do not parse the contents of compressed resources, only output regular resource information"),
			noSortFlag(),
			globFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			f, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer f.Close()
			list, err := a.selected(cmd, f)
			if err != nil {
				return err
			}
			w := a.stdout
			if len(list) == 0 {
				fmt.Fprintln(w, "No resources matched the filter")
				return nil
			}

			for _, r := range list {
				fmt.Fprintf(w, "Resource %s (%d):\n", quoteBytes(r.Type[:], '\''), r.ID)
				if !r.HasName() {
					fmt.Fprintln(w, "\tName: none (unnamed)")
				} else if name, err := r.Name(); err != nil {
					fmt.Fprintf(w, "\tName: unreadable (at offset %d in name list): %v\n", r.NameOffset(), err)
				} else {
					fmt.Fprintf(w, "\tName: %s (at offset %d in name list)\n", quoteBytes(name, '"'), r.NameOffset())
				}
				fmt.Fprintf(w, "\tAttributes: %s\n", r.Attributes)
				if n, err := r.RawLength(); err != nil {
					fmt.Fprintf(w, "\tData: unreadable at offset %d in resource file data: %v\n", r.DataOffset(), err)
				} else {
					fmt.Fprintf(w, "\tData: %d bytes stored at offset %d in resource file data\n", n, r.DataOffset())
				}

				if r.Compressed() && a.decompress(cmd) {
					fmt.Fprintln(w)
					fmt.Fprintln(w, "\tCompressed resource header info:")
					if h, err := r.CompressedInfo(); err != nil {
						fmt.Fprintln(w, "\t\t(failed to parse compressed resource header)")
					} else {
						for _, line := range compressedInfoLines(h) {
							fmt.Fprintf(w, "\t\t%s\n", line)
						}
					}
				}
				fmt.Fprintln(w)
			}
			return nil
		},
	}
}

func (a *app) readCmd() *cli.Command {
	return &cli.Command{
		Name:        "read",
		Usage:       "Read data from resources",
		Description: filterHelp,
		ArgsUsage:   "FILE [FILTER...]",
		Flags: []cli.Flag{
			forkFlag(),
			noDecompressFlag("do not decompress compressed resources, output the raw compressed resource data"),
			&cli.StringFlag{Name: "format", Value: "dump", Usage: "dump, dump-text, hex, raw, derez or json"},
			noSortFlag(),
			globFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := oneOf(cmd, "format", "dump", "dump-text", "hex", "raw", "derez", "json")
			if err != nil {
				return err
			}
			f, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer f.Close()
			list, err := a.selected(cmd, f)
			if err != nil {
				return err
			}
			return showResources(a.stdout, list, format, a.decompress(cmd))
		},
	}
}

func showResources(w io.Writer, list []*resourcefork.Resource, format string, decompress bool) error {
	switch {
	case format == "json":
		out := make([]resourceJSON, len(list))
		for i, r := range list {
			out[i] = newResourceJSON(r, decompress)
			out[i].withData(r, decompress)
		}
		return writeJSON(w, out)
	case len(list) == 0:
		switch format {
		case "hex", "raw":
			return fmt.Errorf("no resources matched the filter")
		case "derez":
			fmt.Fprintln(w, "/* No resources matched the filter */")
		default:
			fmt.Fprintln(w, "No resources matched the filter")
		}
		return nil
	case (format == "hex" || format == "raw") && len(list) != 1:
		return fmt.Errorf("format %s can only output a single resource, but the filter matched %d resources", format, len(list))
	}

	for _, r := range list {
		data, err := openResource(r, decompress)
		if err != nil {
			return fmt.Errorf("%v: %w", r, err)
		}
		switch format {
		case "dump":
			fmt.Fprintf(w, "Resource %s:\n", describe(r, true, decompress))
			err = hexdump(w, data)
			fmt.Fprintln(w)
		case "dump-text":
			fmt.Fprintf(w, "Resource %s:\n", describe(r, true, decompress))
			var buf []byte
			if buf, err = io.ReadAll(data); err == nil {
				fmt.Fprintln(w, translateText(buf))
			}
			fmt.Fprintln(w)
		case "hex":
			err = rawHexdump(w, data)
		case "raw":
			_, err = io.Copy(w, data)
		case "derez":
			err = derez(w, r, data, decompress)
		}
		if err != nil {
			return fmt.Errorf("%v: %w", r, err)
		}
	}
	return nil
}

func openResource(r *resourcefork.Resource, decompress bool) (io.Reader, error) {
	if decompress {
		return r.Open()
	}
	return r.OpenRaw()
}

type resourceJSON struct {
	Type             string   `json:"type"`
	ID               int16    `json:"id"`
	Name             *string  `json:"name,omitempty"`
	Attributes       []string `json:"attributes"`
	Length           *uint32  `json:"length,omitempty"`
	CompressedLength *uint32  `json:"compressedLength,omitempty"`
	Data             []byte   `json:"data,omitempty"`
	Error            string   `json:"error,omitempty"`
}

func newResourceJSON(r *resourcefork.Resource, decompress bool) resourceJSON {
	j := resourceJSON{
		Type:       r.Type.String(),
		ID:         r.ID,
		Attributes: r.Attributes.Names(),
	}
	if j.Attributes == nil {
		j.Attributes = []string{}
	}
	if r.HasName() {
		if name, err := r.Name(); err == nil {
			s := resourcefork.MacRoman(name)
			j.Name = &s
		} else {
			j.Error = err.Error()
		}
	}

	raw, err := r.RawLength()
	if err != nil {
		j.Error = err.Error()
		return j
	}
	if decompress && r.Compressed() {
		j.CompressedLength = &raw
		if n, err := r.Length(); err == nil {
			j.Length = &n
		} else {
			j.Error = err.Error()
		}
	} else {
		j.Length = &raw
	}
	return j
}

func (j *resourceJSON) withData(r *resourcefork.Resource, decompress bool) {
	var err error
	if decompress {
		j.Data, err = r.Data()
	} else {
		j.Data, err = r.RawData()
	}
	if err != nil {
		j.Error = err.Error()
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
