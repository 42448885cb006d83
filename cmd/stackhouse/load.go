// Load command: run the full derive-validate-commit pipeline.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stackhouse/internal/pipeline"
)

var loadCmd = &cobra.Command{
	Use:   "load [work-dir]",
	Short: "Validate a dump and commit it to the warehouse",
	Long: `Load reads Posts and Tags XML from the working directory (default
"uncommitted"), derives posts_tags, writes parquet snapshots, and runs every
validation constraint. The SQLite entity tables are replaced only when all
constraints pass; the check_results table is rewritten either way.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(resolveWorkDir(args))
		if err != nil {
			return err
		}

		report, runErr := pipeline.New(cfg, logger).Run(cmd.Context())
		if report != nil {
			for _, f := range report.Failures() {
				fmt.Printf("%s | %s | %s\n", f.CheckName, f.Constraint, f.Message)
			}
		}
		if runErr != nil {
			return runErr
		}

		fmt.Printf("Data loaded successfully: %d constraints passed, database at %s\n",
			len(report.Results), cfg.DatabasePath())
		return nil
	},
}
