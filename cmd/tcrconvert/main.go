// Package main provides the tcrconvert command-line tool.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/tcrconvert/internal/logging"
	"github.com/inodb/tcrconvert/internal/lookup"
	"github.com/inodb/tcrconvert/internal/store"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const configName = ".tcrconvert"

// usageError marks bad command-line usage.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// app holds state shared by all subcommands.
type app struct {
	cfgFile string
	logger  *zap.Logger
	stderr  io.Writer
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	a := &app{logger: zap.NewNop(), stderr: stderr}
	defer func() { _ = a.logger.Sync() }()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		printError(stderr, err)
		var ue *usageError
		if errors.As(err, &ue) {
			return ExitUsage
		}
		return ExitError
	}
	return ExitSuccess
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tcrconvert",
		Short: "Convert TCR gene names between IMGT, 10X and Adaptive",
		Long: `tcrconvert converts T-cell receptor gene names between the naming
conventions of IMGT, 10X Genomics and Adaptive Biotechnologies.

Lookup tables are built from IMGT reference FASTA files. Human tables are
bundled; other species are built once with "tcrconvert build".`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	cmd.SetVersionTemplate("tcrconvert version {{.Version}}\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "Config file (default ~/"+configName+".yaml)")
	flags.String("data-dir", "", "Directory for built lookup tables (default "+store.DefaultRoot()+")")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("log-format", "console", "Log format: console, json")
	_ = viper.BindPFlag("data_dir", flags.Lookup("data-dir"))
	_ = viper.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", flags.Lookup("log-format"))

	cmd.AddCommand(newBuildCmd(a))
	cmd.AddCommand(newConvertCmd(a))
	cmd.AddCommand(newDownloadCmd(a))
	cmd.AddCommand(newSpeciesCmd(a))
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// init reads the config file and environment and builds the logger.
func (a *app) init() error {
	if err := initConfig(a.cfgFile); err != nil {
		return err
	}

	logger, err := logging.New(viper.GetString("log.level"), viper.GetString("log.format"))
	if err != nil {
		return &usageError{err: err}
	}
	a.logger = logger
	return nil
}

func initConfig(cfgFile string) error {
	viper.SetDefault("species", "human")
	viper.SetDefault("engine", "memory")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("TCRCONVERT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// store opens the lookup table store at the configured data directory.
func (a *app) store() *store.Store {
	s := store.New(viper.GetString("data_dir"))
	s.SetLogger(a.logger)
	return s
}

// configPath returns the config file in use, or the default location.
func configPath() (string, error) {
	if f := viper.ConfigFileUsed(); f != "" {
		return f, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, configName+".yaml"), nil
}

func printError(w io.Writer, err error) {
	red := color.New(color.FgRed, color.Bold)
	red.Fprint(w, "Error: ")
	fmt.Fprintln(w, err)

	hint := ""
	switch {
	case errors.Is(err, lookup.ErrTablesNotFound):
		hint = "List available species with: tcrconvert species"
	case errors.Is(err, fs.ErrNotExist):
		hint = "Check that the file path is correct"
	case errors.As(err, new(*usageError)):
		hint = "Run with --help for usage"
	}
	if hint != "" {
		color.New(color.FgYellow).Fprint(w, "Hint: ")
		fmt.Fprintln(w, hint)
	}
}
