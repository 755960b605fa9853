package main

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/joshuapare/metakit/meta/assets"
	"github.com/joshuapare/metakit/meta/resource"
)

var resolveOutput string

func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <collection> <path>",
		Short: "Write the table a collection resolves for a path",
		Long: `The resolve command reads the table at a logical path, applies the
collection's manipulations and writes the result.

Example:
  metactl resolve default chara/xls/charadb/extra_met.est
  metactl resolve default chara/equipment/e0001/e0001.imc -o e0001.imc`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				return runResolve(ctx, cmd, e, args[0], args[1])
			})
		},
	}
	cmd.Flags().StringVarP(&resolveOutput, "output", "o", "", "Output file (default: base name of the path)")
	return cmd
}

func runResolve(ctx context.Context, cmd *cobra.Command, e *env, name, logicalPath string) error {
	clean, err := assets.Clean(logicalPath)
	if err != nil {
		return err
	}
	c, err := e.manager.LoadByName(ctx, name)
	if err != nil {
		return err
	}
	h, err := e.loader.LoadResolved(ctx, resource.KeyFor(clean), c.Resolution())
	if err != nil {
		return err
	}
	defer h.Release()

	dest := resolveOutput
	if dest == "" {
		dest = path.Base(clean)
	}
	data := h.Data()
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}

	out := cmd.OutOrStdout()
	applied := len(c.Set().ForTable(clean))
	if jsonOut {
		return printJSON(out, map[string]any{
			"path":          clean,
			"output":        dest,
			"bytes":         len(data),
			"manipulations": applied,
			"generation":    c.Generation(),
		})
	}
	printInfo(out, "Wrote %s (%s, %d manipulations applied)\n", dest, humanize.Bytes(uint64(len(data))), applied)
	return nil
}
