package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/tcrconvert/internal/convert"
	"github.com/inodb/tcrconvert/internal/dataset"
	"github.com/inodb/tcrconvert/internal/diag"
	"github.com/inodb/tcrconvert/internal/duckdb"
	"github.com/inodb/tcrconvert/internal/lookup"
)

type convertOptions struct {
	infile  string
	outfile string
	frm     string
	to      string
	columns []string
	rename  bool
	quiet   bool
}

func newConvertCmd(a *app) *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert gene names in a CSV or TSV file",
		Long: `Convert the V, D, J and C gene columns of a .csv or .tsv file from one
naming convention to another. Conventions: imgt, tenx, adaptive, adaptivev2.

Gene columns default to the source platform's export format. Override them
with -c, either as plain column names or by role (v=col). With --rename,
plain columns take the segment their converted genes share.
Genes that cannot be converted are written as empty cells and reported.`,
		Example: `  tcrconvert convert -i airr.csv -o adaptive.csv -f tenx -t adaptive
  tcrconvert convert -i adaptive.tsv -o imgt.tsv -f adaptivev2 -t imgt --species rhesus
  tcrconvert convert -i data.csv -o out.csv -f imgt -t tenx -c v=myV -c j=myJ`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConvert(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.infile, "infile", "i", "", "Input .csv or .tsv file (required)")
	flags.StringVarP(&opts.outfile, "outfile", "o", "", "Output .csv or .tsv file (required)")
	flags.StringVarP(&opts.frm, "frm", "f", "", "Source convention: imgt, tenx, adaptive, adaptivev2 (required)")
	flags.StringVarP(&opts.to, "to", "t", "", "Target convention: imgt, tenx, adaptive, adaptivev2 (required)")
	flags.StringP("species", "s", "human", "Species of the lookup tables")
	flags.StringSliceVarP(&opts.columns, "column", "c", nil, "Gene column, positional or role=name (repeatable)")
	flags.BoolVar(&opts.rename, "rename", false, "Rename converted columns to the target platform's names")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Only report warnings")
	flags.String("engine", "memory", "Join engine: memory, duckdb")
	_ = viper.BindPFlag("species", flags.Lookup("species"))
	_ = viper.BindPFlag("engine", flags.Lookup("engine"))

	for _, name := range []string{"infile", "outfile", "frm", "to"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func (a *app) runConvert(cmd *cobra.Command, opts convertOptions) error {
	// Validate everything before touching any file.
	if err := checkTableFile("infile", opts.infile); err != nil {
		return err
	}
	if err := checkTableFile("outfile", opts.outfile); err != nil {
		return err
	}
	from, err := lookup.ParseConvention(opts.frm)
	if err != nil {
		return &usageError{err: err}
	}
	to, err := lookup.ParseConvention(opts.to)
	if err != nil {
		return &usageError{err: err}
	}
	columns, err := convert.ParseColumnSet(opts.columns)
	if err != nil {
		return &usageError{err: err}
	}

	ds, err := dataset.ReadFile(opts.infile)
	if err != nil {
		return err
	}

	conv := convert.New(a.store())
	conv.SetLogger(a.logger)
	closeJoiner, err := a.setJoiner(conv, viper.GetString("engine"))
	if err != nil {
		return err
	}
	defer closeJoiner()

	d := diag.New(a.logger, diag.LevelInfo)
	if opts.quiet {
		d.SetMinLevel(diag.LevelWarn)
	}

	out, err := conv.Convert(ds, convert.Request{
		From:    from,
		To:      to,
		Species: viper.GetString("species"),
		Columns: columns,
		Rename:  opts.rename,
	}, d)
	if err != nil {
		return err
	}

	if err := dataset.WriteFile(opts.outfile, out); err != nil {
		return err
	}

	if !opts.quiet {
		color.New(color.FgGreen).Fprintf(a.stderr, "Converted %d rows from %s to %s", out.Len(), from.Label(), to.Label())
		fmt.Fprintf(a.stderr, ": %s\n", opts.outfile)
		if n := len(d.Unmapped()); n > 0 {
			color.New(color.FgYellow).Fprintf(a.stderr, "%d gene names could not be converted\n", n)
		}
	}
	return nil
}

// checkTableFile rejects paths without a .csv or .tsv extension.
func checkTableFile(flag, path string) error {
	if _, ok := dataset.FormatFromPath(path); !ok {
		return usagef("%q must be a .csv or .tsv file", flag)
	}
	return nil
}

// setJoiner installs the configured join engine and returns its cleanup.
func (a *app) setJoiner(conv *convert.Converter, engine string) (func(), error) {
	switch strings.ToLower(engine) {
	case "", "memory":
		return func() {}, nil
	case "duckdb":
		s, err := duckdb.Open()
		if err != nil {
			return nil, err
		}
		conv.SetJoiner(s)
		return func() { s.Close() }, nil
	}
	return nil, usagef("unknown engine %q (expected memory or duckdb)", engine)
}
