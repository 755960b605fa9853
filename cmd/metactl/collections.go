package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newCollectionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "collections",
		Short: "List stored collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				return runCollections(ctx, cmd, e)
			})
		},
	}
}

type collectionRow struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Generation    uint64 `json:"generation"`
	Manipulations int    `json:"manipulations"`
	UpdatedAt     string `json:"updated_at"`
}

func runCollections(ctx context.Context, cmd *cobra.Command, e *env) error {
	infos, err := e.store.Collections(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if jsonOut {
		rows := make([]collectionRow, 0, len(infos))
		for _, info := range infos {
			rows = append(rows, collectionRow{
				ID:            info.ID.String(),
				Name:          info.Name,
				Generation:    info.Generation,
				Manipulations: info.Count,
				UpdatedAt:     info.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
			})
		}
		return printJSON(out, rows)
	}
	if len(infos) == 0 {
		printInfo(out, "No collections\n")
		return nil
	}
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{
			info.Name,
			info.ID.String(),
			strconv.FormatUint(info.Generation, 10),
			strconv.Itoa(info.Count),
			humanize.Time(info.UpdatedAt),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Name", "ID", "Generation", "Manipulations", "Updated"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	))
	return nil
}
