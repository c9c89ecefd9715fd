package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toyz/arrow/internal/cli"
)

func newCleanCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clean [directories...]",
		Short: "Delete generated dependency files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(args)
			if err != nil {
				return err
			}
			diagnostics := root.diagnostics(cmd.OutOrStdout(), cmd.ErrOrStderr())

			removed, err := cli.NewCleaner(cfg.Output.File, cfg.Exclude).CleanGeneratedFiles(cfg.Directories)
			for _, path := range removed {
				diagnostics.List("removed %s", path)
			}
			if err != nil {
				return err
			}
			diagnostics.Complete(fmt.Sprintf("removed %d generated files", len(removed)))
			return nil
		},
	}
}
