package main

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reconcile/internal/config"
	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/internal/treefile"
	"github.com/vango-dev/reconcile/pkg/protocol"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

func diffCmd(g *globals) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Print the patches that turn OLD into NEW",
		Long: `Diff two tree files and print the resulting patch list.

The text format prints one patch per line, with the patches nested in
reorders, moved keyed children and thunks indented below their parent.
Indices address nodes of OLD in pre-order; patches under a thunk are
relative to the thunk's content.

The binary format writes the encoded patch list to stdout.

Examples:
  reconcile diff before.html after.html
  reconcile diff old.yaml new.yaml --format binary > patches.bin`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = g.cfg.Output.Format
			}
			return runDiff(g, cmd.OutOrStdout(), args[0], args[1], format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text or binary (default from reconcile.json)")

	return cmd
}

func runDiff(g *globals, out io.Writer, oldPath, newPath, format string) error {
	if format != config.FormatText && format != config.FormatBinary {
		return errors.New(errors.CodeConfigValidation).
			WithDetail("--format must be text or binary, got \"" + format + "\"")
	}

	loader := treefile.NewLoader()
	prev, err := loader.Load(oldPath)
	if err != nil {
		return err
	}
	next, err := loader.Load(newPath)
	if err != nil {
		return err
	}

	patches := vdom.Diff(prev, next)
	g.logger.Debug("diff complete", "old", oldPath, "new", newPath, "patches", len(vdom.Flatten(patches)))

	if format == config.FormatBinary {
		_, err := out.Write(protocol.EncodePatches(patches))
		return err
	}
	writePatches(out, patches, 0)
	return nil
}

// writePatches prints one patch per line with nested patches indented.
func writePatches(out io.Writer, patches []vdom.Patch, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, p := range patches {
		printf(out, "%s%s", indent, p)
		switch p.Op {
		case vdom.PatchReorder:
			writePatches(out, p.Reorder.Local, depth+1)
			for _, ins := range p.Reorder.Inserts {
				printf(out, "%s  insert key=%q at=%d %s", indent, ins.Entry.Key, ins.Position, ins.Entry.State)
			}
			for _, ins := range p.Reorder.EndInserts {
				printf(out, "%s  append key=%q %s", indent, ins.Entry.Key, ins.Entry.State)
			}
		case vdom.PatchRemove:
			if p.Entry.State == vdom.EntryMove {
				writePatches(out, p.Entry.Sub, depth+1)
			}
		case vdom.PatchThunk:
			writePatches(out, p.Sub, depth+1)
		}
	}
}
