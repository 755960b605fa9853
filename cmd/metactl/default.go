package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/metakit/meta/manip"
)

func newDefaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "default <kind> key=value...",
		Short: "Print the table default for one key",
		Long: `The default command reads the value a table holds for a key before any
manipulation applies.

Example:
  metactl default eqp set=5 slot=body
  metactl default eqdp set=1 slot=head gender=male race=midlander
  metactl default imc type=equipment primary=1 variant=1 slot=body
  metactl default imc type=weapon primary=201 secondary=1 variant=1
  metactl default est type=head gender=female race=aura set=3
  metactl default gmp set=12
  metactl default rsp subrace=raen attribute=FemaleMaxSize`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				return runDefault(ctx, cmd, e, args)
			})
		},
	}
}

func runDefault(ctx context.Context, cmd *cobra.Command, e *env, args []string) error {
	candidate, err := parseCandidate(args[0], args[1:])
	if err != nil {
		return err
	}
	if err := candidate.Validate(); err != nil {
		return err
	}
	def, err := e.defaults.For(ctx, candidate)
	if err != nil {
		return fmt.Errorf("read default: %w", err)
	}
	out := cmd.OutOrStdout()
	if jsonOut {
		return printJSON(out, manip.Envelope{Manipulation: def})
	}
	printVerbose(out, "%s\n", def.TablePath())
	fmt.Fprintf(out, "%s: %s\n", keyLabel(def), valueLabel(def))
	return nil
}
