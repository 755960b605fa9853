package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/metakit/meta/manip"
)

var (
	exportFormat string
	exportOutput string
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <collection>",
		Short: "Write a collection's committed manipulations",
		Long: `The export command writes the committed edit set of a collection as JSON
or YAML, to stdout or a file.

Example:
  metactl export default
  metactl export default --format yaml
  metactl export default --output edits.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				return runExport(ctx, cmd, e, args[0])
			})
		},
	}
	cmd.Flags().StringVar(&exportFormat, "format", "", "Output format (json, yaml); default from --output extension")
	cmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")
	return cmd
}

func exportFormatFor() (manip.Format, error) {
	switch strings.ToLower(exportFormat) {
	case "":
		return manip.FormatForPath(exportOutput), nil
	case "json":
		return manip.FormatJSON, nil
	case "yaml", "yml":
		return manip.FormatYAML, nil
	default:
		return 0, fmt.Errorf("unknown format %q", exportFormat)
	}
}

func runExport(ctx context.Context, cmd *cobra.Command, e *env, name string) error {
	f, err := exportFormatFor()
	if err != nil {
		return err
	}
	c, err := e.manager.LoadByName(ctx, name)
	if err != nil {
		return err
	}
	data, err := manip.Encode(c.Set(), f)
	if err != nil {
		return err
	}
	if exportOutput == "" {
		if len(data) > 0 && data[len(data)-1] != '\n' {
			data = append(data, '\n')
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(exportOutput, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", exportOutput, err)
	}
	printInfo(cmd.ErrOrStderr(), "Wrote %d manipulations to %s\n", c.Set().Len(), exportOutput)
	return nil
}
