package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/inodb/tcrconvert/internal/builder"
	"github.com/inodb/tcrconvert/internal/reference"
)

type downloadOptions struct {
	output  string
	baseURL string
	species string
}

func newDownloadCmd(a *app) *cobra.Command {
	var opts downloadOptions

	cmd := &cobra.Command{
		Use:   "download <imgt-species>",
		Short: "Download IMGT reference FASTA files for a species",
		Long: `Download the TR reference FASTA files for a species from the IMGT V-QUEST
reference directory. The species is IMGT's directory name, e.g. Homo_sapiens
or Mus_musculus. With --species the lookup tables are built right away.

Constant genes are not part of the V-QUEST directory; add their FASTA files
to the download directory before building if C genes should convert.`,
		Example: `  tcrconvert download Mus_musculus
  tcrconvert download Mus_musculus --species mouse
  tcrconvert download Macaca_mulatta --output ./imgt/rhesus`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			imgtSpecies := args[0]
			dest := opts.output
			if dest == "" {
				dest = reference.DefaultDownloadDir(imgtSpecies)
			}

			d := reference.NewDownloader()
			d.SetLogger(a.logger)
			d.Progress = a.stderr
			if opts.baseURL != "" {
				d.BaseURL = opts.baseURL
			}

			fmt.Fprintf(a.stderr, "Downloading IMGT reference for %s...\n", imgtSpecies)
			fmt.Fprintf(a.stderr, "Destination: %s\n\n", dest)

			paths, err := d.Download(cmd.Context(), imgtSpecies, dest)
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(a.stderr, "\nDownloaded %d reference files\n", len(paths))

			if opts.species == "" {
				fmt.Fprintf(a.stderr, "To build lookup tables, run:\n  tcrconvert build %s --species <name>\n", dest)
				fmt.Fprintln(cmd.OutOrStdout(), dest)
				return nil
			}

			b := builder.New(a.store())
			b.SetLogger(a.logger)
			dir, err := b.Build(dest, opts.species)
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprint(a.stderr, "Lookup tables written to ")
			fmt.Fprintln(a.stderr, dir)
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "", "Download directory (default: user cache directory)")
	flags.StringVarP(&opts.species, "species", "s", "", "Build lookup tables under this species label")
	flags.StringVar(&opts.baseURL, "base-url", "", "Reference directory URL (default "+reference.DefaultBaseURL+")")

	return cmd
}
