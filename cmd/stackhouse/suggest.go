// Suggest command: profile a dataset and propose validation constraints.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stackhouse/internal/dataset"
	"github.com/mesh-intelligence/stackhouse/internal/engine"
	"github.com/mesh-intelligence/stackhouse/internal/suggest"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <posts|tags> [work-dir]",
	Short: "Profile a dataset and print suggested constraints",
	Long: `Suggest materializes one of the source datasets and prints a fluent
builder fragment for each constraint the data currently satisfies, with the
observation that motivated it. Useful when tuning thresholds for a new dump.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(resolveWorkDir(args[1:]))
		if err != nil {
			return err
		}

		var tbl *engine.Table
		switch args[0] {
		case "posts":
			tbl = dataset.LoadPosts(cfg).Table
		case "tags":
			tbl = dataset.LoadTags(cfg).Table
		default:
			return fmt.Errorf("unknown dataset %q (want posts or tags)", args[0])
		}

		suggestions, err := suggest.Profile(tbl)
		if err != nil {
			return err
		}
		for _, s := range suggestions {
			fmt.Printf("%-60s // %s\n", s.Code, s.Reason)
		}
		return nil
	},
}
