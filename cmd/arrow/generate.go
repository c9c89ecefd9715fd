package main

import (
	"github.com/spf13/cobra"

	"github.com/toyz/arrow/internal/cli"
	"github.com/toyz/arrow/internal/models"
)

type generateOptions struct {
	module string
	out    string
	pkg    string
	file   string
	strict bool
	watch  bool
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate [directories...]",
		Short: "Write the dependency registration file",
		Example: `  arrow generate ./...
  arrow generate --out ./internal/wiring ./internal/...
  arrow generate --strict --watch ./...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(args)
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runGenerate(cmd, root, cfg, opts.watch)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.module, "module", "", "module path for imports (defaults to the go.mod module)")
	flags.StringVar(&opts.out, "out", "", "output directory (defaults to the first directory argument)")
	flags.StringVar(&opts.pkg, "package", "", "package name of the generated file")
	flags.StringVar(&opts.file, "file", "", "generated file name (default autogen_dependencies.go)")
	flags.BoolVar(&opts.strict, "strict", false, "fail on unresolved dependencies and duplicate keys")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "regenerate whenever a scanned Go file changes")
	return cmd
}

// apply lets explicitly set flags win over the config file
func (o *generateOptions) apply(cmd *cobra.Command, cfg *cli.Config) {
	flags := cmd.Flags()
	if flags.Changed("module") {
		cfg.Module = o.module
	}
	if flags.Changed("out") {
		cfg.Output.Dir = o.out
	}
	if flags.Changed("package") {
		cfg.Output.Package = o.pkg
	}
	if flags.Changed("file") {
		cfg.Output.File = o.file
	}
	if flags.Changed("strict") {
		cfg.Strict = o.strict
	}
}

func runGenerate(cmd *cobra.Command, root *rootOptions, cfg *cli.Config, watch bool) error {
	logger, err := root.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	diagnostics := root.diagnostics(cmd.OutOrStdout(), cmd.ErrOrStderr())
	reporter := cli.NewDiagnosticReporterWithWriters(cfg.Verbose, cmd.OutOrStdout(), cmd.ErrOrStderr())

	g := cli.NewGenerator(cfg,
		cli.WithLogger(logger),
		cli.WithDiagnostics(diagnostics),
		cli.WithReporter(reporter),
	)

	diagnostics.Header("generating dependencies")
	_, err = g.Run(cmd.Context())
	switch {
	case err != nil && !watch:
		reporter.ReportError(err)
		return errReported
	case err != nil:
		reporter.ReportError(err)
	case !root.quiet:
		reporter.ReportSuccess(g.Summary())
	}

	if !watch {
		return nil
	}

	w, err := cli.NewWatcher(g, cli.OnRun(func(file *models.GeneratedFile, err error) {
		if err != nil {
			reporter.ReportError(err)
			return
		}
		summary := g.Summary()
		if summary.Unchanged {
			diagnostics.Verbose("%s unchanged", file.FilePath)
			return
		}
		diagnostics.Complete("regenerated " + file.FilePath)
	}))
	if err != nil {
		return err
	}
	defer w.Close()

	diagnostics.Info("Watching for changes, press Ctrl+C to stop")
	return w.Watch(cmd.Context())
}
