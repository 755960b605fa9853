package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/metakit/meta/edit"
	"github.com/joshuapare/metakit/meta/manip"
)

var (
	importDryRun  bool
	importReplace bool
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <collection> <file>",
		Short: "Stage an edit file into a collection and apply it",
		Long: `The import command reads a JSON or YAML edit file and stages its
manipulations through the collection's editor. Keys already present are
changed, new keys added. With --replace, keys missing from the file are
deleted. The collection is created when it does not exist.

Example:
  metactl import default edits.json
  metactl import default edits.yaml --replace
  metactl import default edits.json --dry-run`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				return runImport(ctx, cmd, e, args[0], args[1])
			})
		},
	}
	cmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Show what would change without applying")
	cmd.Flags().BoolVar(&importReplace, "replace", false, "Delete manipulations missing from the file")
	return cmd
}

func readEditFile(path string) (manip.Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return manip.Set{}, fmt.Errorf("read %s: %w", path, err)
	}
	set, err := manip.Decode(data, manip.FormatForPath(path))
	if err != nil {
		return manip.Set{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return set, nil
}

func runImport(ctx context.Context, cmd *cobra.Command, e *env, name, path string) error {
	set, err := readEditFile(path)
	if err != nil {
		return err
	}
	c, err := e.manager.Open(ctx, name)
	if err != nil {
		return err
	}
	editor := e.manager.Editor(c)

	plan := edit.PlanFromSet(set)
	if importReplace {
		plan = edit.PlanReplace(c.Set(), set)
	}
	stats, err := editor.ApplyPlan(ctx, plan)
	if err != nil {
		editor.RevertManipulations()
		return err
	}

	out := cmd.OutOrStdout()
	if importDryRun || !editor.Changes() {
		if jsonOut {
			return printJSON(out, importResult(stats, editor.Changes(), false, c.Generation()))
		}
		printInfo(out, "%d added, %d changed, %d deleted\n", stats.Added, stats.Changed, stats.Deleted)
		if !editor.Changes() {
			printInfo(out, "No pending changes\n")
		} else {
			printInfo(out, "Dry run: nothing applied\n")
		}
		editor.RevertManipulations()
		return nil
	}

	if err := editor.ApplyManipulations(ctx); err != nil {
		return fmt.Errorf("apply: %w", err)
	}
	if jsonOut {
		return printJSON(out, importResult(stats, true, true, c.Generation()))
	}
	printInfo(out, "%d added, %d changed, %d deleted\n", stats.Added, stats.Changed, stats.Deleted)
	printInfo(out, "Applied generation %d to %q\n", c.Generation(), name)
	return nil
}

func importResult(stats edit.Applied, pending, applied bool, generation uint64) map[string]any {
	return map[string]any{
		"added":      stats.Added,
		"changed":    stats.Changed,
		"deleted":    stats.Deleted,
		"pending":    pending,
		"applied":    applied,
		"generation": generation,
	}
}
