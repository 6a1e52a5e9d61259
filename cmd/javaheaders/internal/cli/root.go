// Package cli implements the javaheaders command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/albertocavalcante/srcheaders/cmd/javaheaders/internal/langs"
	"github.com/albertocavalcante/srcheaders/internal/log"
	"github.com/albertocavalcante/srcheaders/pkg/config"
	"github.com/spf13/cobra"
)

// Version information (set via ldflags)
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// globalOptions holds persistent flags and the configuration they resolve to.
type globalOptions struct {
	verbosity     int
	logFormat     string
	configPath    string
	strictPackage bool
	languages     []string

	cfg *config.Config
}

// newRootCmd builds the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "javaheaders <file.java>",
		Short: "Extract the header comments of a Java source file",
		Long: `Extracts the header comments of a Java source file.

The header is the run of // and /* */ comments at the top of the file.
Blank lines and a single leading package statement may appear among them;
the first other line ends the header. Comment delimiters are stripped.

Use 'javaheaders scan' to extract headers from a whole source tree and
'javaheaders watch' to follow header changes as files are edited.`,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.resolve(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, opts, args[0])
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.IntVarP(&opts.verbosity, "verbosity", "v", log.VerbosityWarn,
		"Verbosity level (0=error, 1=warn, 2=info, 3=debug, 4=trace)")
	flags.StringVar(&opts.logFormat, "log-format", "text",
		"Log format (text, json)")
	flags.StringVar(&opts.configPath, "config", "",
		"Path to a config file (default: discover srcheaders.toml)")
	flags.BoolVar(&opts.strictPackage, "strict-package", false,
		"Only skip a leading statement that starts with the full 'package' keyword")
	flags.StringSliceVar(&opts.languages, "languages", nil,
		"Accept files of these languages instead of the configured extensions (java, groovy, kotlin, scala)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newScanCmd(opts),
		newWatchCmd(opts),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "javaheaders %s (%s)\n", Version, GitCommit)
		},
	}
}

// resolve resolves configuration and logging. Flags override config values only
// when set explicitly.
func (o *globalOptions) resolve(cmd *cobra.Command) error {
	var cfg *config.Config
	if o.configPath != "" {
		loaded, err := config.LoadFile(o.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	} else {
		cfg = config.Load()
	}

	flags := cmd.Flags()

	verbosity := log.VerbosityWarn
	if cfg.Log.Verbosity != nil {
		verbosity = *cfg.Log.Verbosity
	}
	if flags.Changed("verbosity") {
		verbosity = o.verbosity
	}
	format := cfg.Log.Format
	if flags.Changed("log-format") || format == "" {
		format = o.logFormat
	}
	log.InitWithOutput(verbosity, format, cmd.ErrOrStderr())

	if flags.Changed("strict-package") {
		cfg.StrictPackage = &o.strictPackage
	}
	if len(o.languages) > 0 {
		exts, err := langs.ExtensionsFor(o.languages)
		if err != nil {
			return err
		}
		cfg.Extensions = exts
	}

	log.Debug("configuration resolved",
		"extensions", cfg.Extensions,
		"strict_package", cfg.IsStrictPackage(),
	)
	o.cfg = cfg
	return nil
}

// Execute runs the command line and exits with its status.
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes args and returns the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return report(cmd.Execute(), stdout, stderr)
}

// RootCmd returns a fresh root command for testing.
func RootCmd() *cobra.Command {
	return newRootCmd()
}
