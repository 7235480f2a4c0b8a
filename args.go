// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package main

import (
	"context"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"
)

// execute runs the command tree with every positional argument moved after
// a "--" terminator. Without one, the argument parser stops at a lone "-"
// and trims spaces from type codes such as "snd ".
func execute(ctx context.Context, root *cli.Command, args []string) error {
	return root.Run(ctx, terminateFlags(root, args))
}

// terminateFlags returns args with flags (and their values) first,
// then "--", then the positional arguments in their original order.
func terminateFlags(root *cli.Command, args []string) []string {
	if len(args) == 0 {
		return args
	}
	out := []string{args[0]}
	chain := []*cli.Command{root}
	var positional []string

scan:
	for i := 1; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			positional = append(positional, args[i+1:]...)
			break scan
		case len(arg) > 1 && arg[0] == '-':
			out = append(out, arg)
			name := strings.TrimLeft(arg, "-")
			if !strings.Contains(name, "=") && takesValue(chain, name) && i+1 < len(args) {
				i++
				out = append(out, args[i])
			}
		default:
			cmd := chain[len(chain)-1]
			if len(positional) == 0 {
				if sub := cmd.Command(arg); sub != nil {
					out = append(out, arg)
					chain = append(chain, sub)
					continue
				}
			}
			positional = append(positional, arg)
		}
	}

	if len(positional) == 0 {
		return out
	}
	out = append(out, "--")
	return append(out, positional...)
}

// takesValue reports whether the named flag of any command in chain
// consumes the following argument.
func takesValue(chain []*cli.Command, name string) bool {
	for _, cmd := range slices.Backward(chain) {
		for _, f := range cmd.Flags {
			if slices.Contains(f.Names(), name) {
				b, ok := f.(interface{ IsBoolFlag() bool })
				return !ok || !b.IsBoolFlag()
			}
		}
	}
	return false
}
