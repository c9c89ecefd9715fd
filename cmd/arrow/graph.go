package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toyz/arrow/internal/cli"
)

func newGraphCmd(root *rootOptions) *cobra.Command {
	var module string
	var strict bool

	cmd := &cobra.Command{
		Use:   "graph [directories...]",
		Short: "Print the registration order without writing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(args)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("module") {
				cfg.Module = module
			}
			if cmd.Flags().Changed("strict") {
				cfg.Strict = strict
			}

			logger, err := root.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			reporter := cli.NewDiagnosticReporterWithWriters(cfg.Verbose, cmd.OutOrStdout(), cmd.ErrOrStderr())
			g := cli.NewGenerator(cfg, cli.WithLogger(logger), cli.WithReporter(reporter))

			plan, err := g.Plan(cmd.Context())
			if err != nil {
				reporter.ReportError(err)
				return errReported
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "package %s (%s)\n\n", plan.Target.PackageName, plan.Target.ImportPath)
			for i, d := range plan.Order {
				fmt.Fprintf(out, "%3d. %s <- %s.%s [%s]\n", i+1, d.Key(), d.Module, d.MemberName, d.Scope)
				if len(d.Dependencies) > 0 {
					fmt.Fprintf(out, "       needs %s\n", strings.Join(d.Dependencies, ", "))
				}
			}
			reporter.ReportGraph(plan.Report, plan.Parsed.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&module, "module", "", "module path for imports (defaults to the go.mod module)")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on unresolved dependencies and duplicate keys")
	return cmd
}
