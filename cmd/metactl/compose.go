package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/metakit/meta/collection"
	"github.com/joshuapare/metakit/meta/edit"
)

var composeMods []string

// modEditFiles are looked up, in order, inside each mod folder.
var modEditFiles = []string{"meta.json", "meta.yaml", "meta.yml"}

func newComposeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compose <collection> --mod folder:priority[:disabled]...",
		Short: "Merge mod edit sets into a collection",
		Long: `The compose command merges the edit files of several mod folders and
replaces the collection's manipulations with the result. Each folder holds a
meta.json or meta.yaml file. When two mods edit the same key the higher
priority wins; equal priorities are ordered by folder name.

Example:
  metactl compose default --mod mods/bodies:10 --mod mods/hats:5
  metactl compose default --mod mods/old:1:disabled --mod mods/new:2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				return runCompose(ctx, cmd, e, args[0])
			})
		},
	}
	cmd.Flags().StringArrayVar(&composeMods, "mod", nil, "Mod folder with priority, e.g. mods/hats:5 or mods/hats:5:disabled")
	return cmd
}

// parseModFlag splits folder:priority[:disabled].
func parseModFlag(value string) (string, collection.ModInfo, error) {
	parts := strings.Split(value, ":")
	if len(parts) < 2 || len(parts) > 3 || parts[0] == "" {
		return "", collection.ModInfo{}, fmt.Errorf("mod %q: want folder:priority[:disabled]", value)
	}
	priority, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", collection.ModInfo{}, fmt.Errorf("mod %q: priority: %w", value, err)
	}
	info := collection.ModInfo{FolderName: filepath.Base(parts[0]), Enabled: true, Priority: priority}
	if len(parts) == 3 {
		switch strings.ToLower(parts[2]) {
		case "disabled", "off":
			info.Enabled = false
		case "enabled", "on":
		default:
			return "", collection.ModInfo{}, fmt.Errorf("mod %q: unknown state %q", value, parts[2])
		}
	}
	return parts[0], info, nil
}

func loadMod(folder string, info collection.ModInfo) (collection.Mod, error) {
	for _, name := range modEditFiles {
		path := filepath.Join(folder, name)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		set, err := readEditFile(path)
		if err != nil {
			return collection.Mod{}, err
		}
		return collection.Mod{Info: info, Set: set}, nil
	}
	return collection.Mod{}, fmt.Errorf("mod %s: no edit file (%s)", folder, strings.Join(modEditFiles, ", "))
}

func runCompose(ctx context.Context, cmd *cobra.Command, e *env, name string) error {
	if len(composeMods) == 0 {
		return errors.New("at least one --mod is required")
	}
	mods := make([]collection.Mod, 0, len(composeMods))
	for _, value := range composeMods {
		folder, info, err := parseModFlag(value)
		if err != nil {
			return err
		}
		mod, err := loadMod(folder, info)
		if err != nil {
			return err
		}
		mods = append(mods, mod)
	}
	merged := collection.Compose(mods)

	c, err := e.manager.Open(ctx, name)
	if err != nil {
		return err
	}
	editor := e.manager.Editor(c)
	stats, err := editor.ApplyPlan(ctx, edit.PlanReplace(c.Set(), merged))
	if err != nil {
		editor.RevertManipulations()
		return err
	}
	if err := editor.ApplyManipulations(ctx); err != nil {
		return fmt.Errorf("apply: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		winners := collection.Winners(mods)
		perMod := make(map[string]int)
		for _, folder := range winners {
			perMod[folder]++
		}
		return printJSON(out, map[string]any{
			"manipulations": merged.Len(),
			"generation":    c.Generation(),
			"by_mod":        perMod,
		})
	}
	printInfo(out, "%d added, %d changed, %d deleted\n", stats.Added, stats.Changed, stats.Deleted)
	printInfo(out, "Collection %q now holds %d manipulations (generation %d)\n", name, merged.Len(), c.Generation())
	return nil
}
