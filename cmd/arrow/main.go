// Command arrow generates dependency registration code for arrow modules.
package main

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/toyz/arrow/internal/cli"
	"github.com/toyz/arrow/internal/utils"
)

var version = "dev"

// errReported is returned after the reporter already printed the details
var errReported = errors.New("arrow: generation failed")

// rootOptions are the flags shared by every command
type rootOptions struct {
	configPath string
	verbose    bool
	quiet      bool
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "arrow",
		Short: "Compile-time dependency injection for Go",
		Long: `arrow scans Go packages for modules embedding arrow.SingletonScope or
arrow.TransientScope, orders their provider methods by dependency and writes a
RegisterDependencies function that wires them into an arrow.Container.

Directory arguments support Go-style patterns like './...' for recursive scanning.`,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ./"+cli.DefaultConfigFile+" when present)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output and detailed error reporting")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "only show errors")
	flags.StringVar(&opts.logLevel, "log-level", "", "structured log level (debug, info, warn, error); debug with --verbose")

	cmd.AddCommand(newGenerateCmd(opts), newGraphCmd(opts), newCleanCmd(opts))
	return cmd
}

// loadConfig reads the config file and applies the positional directories
func (o *rootOptions) loadConfig(args []string) (*cli.Config, error) {
	path := o.configPath
	if path == "" {
		if found, ok := cli.FindConfig("."); ok {
			path = found
		}
	}

	cfg := cli.DefaultConfig()
	if path != "" {
		loaded, err := cli.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	cfg.Directories = args
	if len(cfg.Directories) == 0 {
		cfg.Directories = []string{"./..."}
	}
	cfg.Verbose = o.verbose
	return cfg, nil
}

func (o *rootOptions) diagnostics(out, errOut io.Writer) *utils.DiagnosticSystem {
	level := utils.DiagnosticInfo
	switch {
	case o.quiet:
		level = utils.DiagnosticError
	case o.verbose:
		level = utils.DiagnosticVerbose
	}
	return utils.NewDiagnosticSystemWithWriters(level, out, errOut)
}

// logger builds the console logger for pipeline tracing. Without --log-level
// only warnings are logged, or everything with --verbose.
func (o *rootOptions) logger(w io.Writer) (zerolog.Logger, error) {
	level := zerolog.WarnLevel
	if o.verbose {
		level = zerolog.DebugLevel
	}
	if o.logLevel != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(o.logLevel))
		if err != nil {
			return zerolog.Nop(), err
		}
		level = parsed
	}

	console := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	return zerolog.New(console).Level(level).With().Timestamp().Logger(), nil
}

func main() {
	if err := fang.Execute(
		context.Background(),
		newRootCmd(),
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
