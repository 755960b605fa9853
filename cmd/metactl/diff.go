package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/metakit/meta/edit"
)

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <collection>",
		Short: "Compare a collection's manipulations with table defaults",
		Long: `The diff command lists every committed manipulation of a collection next
to the default it replaces.

Example:
  metactl diff default
  metactl diff default --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				return runDiff(ctx, cmd, e, args[0])
			})
		},
	}
}

type diffRow struct {
	Kind      string `json:"kind"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	Default   string `json:"default"`
	Direction string `json:"direction"`
}

func runDiff(ctx context.Context, cmd *cobra.Command, e *env, name string) error {
	c, err := e.manager.LoadByName(ctx, name)
	if err != nil {
		return err
	}
	diffs, err := e.manager.Editor(c).Diffs(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		rows := make([]diffRow, 0, len(diffs))
		for _, d := range diffs {
			rows = append(rows, diffRow{
				Kind:      d.Manipulation.Kind().String(),
				Key:       keyLabel(d.Manipulation),
				Value:     valueLabel(d.Manipulation),
				Default:   valueLabel(d.Default),
				Direction: d.Direction.String(),
			})
		}
		return printJSON(out, rows)
	}

	if len(diffs) == 0 {
		printInfo(out, "Collection %q has no manipulations\n", name)
		return nil
	}
	colorize := shouldColorize(out)
	rows := make([][]string, 0, len(diffs))
	changed := 0
	for _, d := range diffs {
		if d.Direction != edit.Unchanged {
			changed++
		}
		rows = append(rows, []string{
			d.Manipulation.Kind().String(),
			keyLabel(d.Manipulation),
			valueLabel(d.Manipulation),
			valueLabel(d.Default),
			directionLabel(d.Direction, colorize),
		})
	}
	fmt.Fprintln(out, renderTable([]string{"Kind", "Key", "Value", "Default", "Direction"}, rows, nil))
	printInfo(out, "%d manipulations, %d differ from defaults (generation %d)\n", len(diffs), changed, c.Generation())
	return nil
}
