package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/inodb/tcrconvert/internal/lookup"
	"github.com/inodb/tcrconvert/internal/reference"
	"github.com/inodb/tcrconvert/internal/store"
)

func newSpeciesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "species [name]",
		Short: "List species with lookup tables",
		Long: `List species with lookup tables.

With a species name, show how its built tables were made: row counts per
table and the reference files they were built from.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.store()
			if len(args) == 1 {
				return showSpecies(cmd.OutOrStdout(), s, args[0])
			}
			return listSpecies(cmd.OutOrStdout(), s)
		},
	}
}

func listSpecies(w io.Writer, s *store.Store) error {
	list, err := s.Species()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SPECIES\tSOURCE\tGENES\tLOCATION")
	for _, sp := range list {
		source, location, genes := "built", sp.Dir, "-"
		switch {
		case sp.Bundled && sp.Dir != "":
			source = "built (overrides bundled)"
		case sp.Bundled:
			source, location = "bundled", "-"
		}
		if sp.Dir != "" {
			m, err := s.Manifest(sp.Name)
			switch {
			case err == nil:
				genes = strconv.Itoa(m.Rows(lookup.KindIMGT))
			case !errors.Is(err, fs.ErrNotExist):
				return fmt.Errorf("read %s manifest: %w", sp.Name, err)
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", sp.Name, source, genes, location)
	}
	return tw.Flush()
}

func showSpecies(w io.Writer, s *store.Store, species string) error {
	if err := store.ValidateSpecies(species); err != nil {
		return err
	}
	m, err := s.Manifest(species)
	if errors.Is(err, fs.ErrNotExist) {
		return showBundled(w, s, species)
	}
	if err != nil {
		return fmt.Errorf("read %s manifest: %w", species, err)
	}

	fmt.Fprintf(w, "Species:  %s\n", m.Species)
	fmt.Fprintf(w, "Location: %s\n\n", s.Dir(species))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TABLE\tROWS")
	for _, t := range m.Tables {
		fmt.Fprintf(tw, "%s\t%d\n", t.File, t.Rows)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "REFERENCE\tSIZE")
	for _, src := range m.Sources {
		fmt.Fprintf(tw, "%s\t%s\n", src.Name, reference.FormatSize(src.Size))
	}
	return tw.Flush()
}

// showBundled prints row counts of tables built in memory from a bundled
// reference. Species that are not bundled yield a TablesNotFoundError.
func showBundled(w io.Writer, s *store.Store, species string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Species:  %s (bundled)\n\n", species)
	fmt.Fprintln(tw, "TABLE\tROWS")
	for _, k := range lookup.Kinds() {
		t, err := s.Load(species, k)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%d\n", k.FileName(), t.Len())
	}
	return tw.Flush()
}
