package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/inodb/tcrconvert/internal/builder"
)

func newBuildCmd(a *app) *cobra.Command {
	var species string

	cmd := &cobra.Command{
		Use:   "build <reference-dir>",
		Short: "Build lookup tables from IMGT reference FASTA files",
		Long: `Build lookup tables from a directory of IMGT reference FASTA files
(.fa, .fasta, optionally gzipped). Tables are written to the data directory
under the species name, replacing any earlier build.`,
		Example: `  tcrconvert build ~/imgt/mouse --species mouse
  tcrconvert build ./fastas --species rhesus --data-dir ./tables`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := builder.New(a.store())
			b.SetLogger(a.logger)

			dir, err := b.Build(args[0], species)
			if err != nil {
				return err
			}

			color.New(color.FgGreen).Fprint(a.stderr, "Lookup tables written to ")
			fmt.Fprintln(a.stderr, dir)
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&species, "species", "s", "", "Species label for the tables (required)")
	_ = cmd.MarkFlagRequired("species")

	return cmd
}
