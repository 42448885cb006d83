// Root command and global flags for the stackhouse CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Global flag values.
var (
	flagConfig    string
	flagPostsFile string
	flagTagsFile  string
	flagDatabase  string
	flagVerbose   bool
)

// logger is initialized by PersistentPreRunE so every subcommand can use it.
var logger *zap.Logger

var rootCmd = &cobra.Command{
	Use:   "stackhouse",
	Short: "Stackhouse loads Stack Exchange dumps into a validated warehouse",
	Long: `Stackhouse reads the Posts and Tags XML files of a Stack Exchange data
dump, derives the posts_tags association, snapshots every table to parquet,
and commits to a SQLite warehouse only when the full validation battery
passes. On failure the warehouse keeps its previous contents and the
check_results table records the outcome of every constraint.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if flagVerbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: <work-dir>/stackhouse.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagPostsFile, "posts-file", "", "posts XML file name inside the work directory")
	rootCmd.PersistentFlags().StringVar(&flagTagsFile, "tags-file", "", "tags XML file name inside the work directory")
	rootCmd.PersistentFlags().StringVar(&flagDatabase, "database", "", "SQLite database file name inside the work directory")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(versionCmd)
}
