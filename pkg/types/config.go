// Package types defines the pipeline configuration, check threshold
// settings, and standard errors shared across the stackhouse packages.
package types

import (
	"errors"
	"path/filepath"
)

// Default file names inside the working directory.
const (
	DefaultPostsFile = "Posts.xml"
	DefaultTagsFile  = "Tags.xml"
	DefaultDatabase  = "warehouse.db"
)

// Config holds the pipeline parameters for a single run. WorkDir is the one
// externally required parameter: input XML files are read from it, parquet
// snapshots are written to it, and the SQLite database file is created in it.
type Config struct {
	WorkDir   string       `mapstructure:"work_dir" yaml:"work_dir"`
	PostsFile string       `mapstructure:"posts_file" yaml:"posts_file"`
	TagsFile  string       `mapstructure:"tags_file" yaml:"tags_file"`
	Database  string       `mapstructure:"database" yaml:"database"`
	Checks    ChecksConfig `mapstructure:"checks" yaml:"checks"`
}

// ChecksConfig carries the per-table validation thresholds. The rule lists
// themselves (which columns are checked and how) are fixed; only row-count
// minimums and completeness fractions are tunable.
type ChecksConfig struct {
	Posts     SuiteConfig `mapstructure:"posts" yaml:"posts"`
	Tags      SuiteConfig `mapstructure:"tags" yaml:"tags"`
	PostsTags SuiteConfig `mapstructure:"posts_tags" yaml:"posts_tags"`
}

// SuiteConfig holds the tunable thresholds for one table's check suite.
// Completeness maps column name to the minimum fraction of non-null values.
type SuiteConfig struct {
	MinRows      int64              `mapstructure:"min_rows" yaml:"min_rows"`
	Completeness map[string]float64 `mapstructure:"completeness" yaml:"completeness"`
}

// MinFraction returns the completeness threshold for column, falling back to
// def when the column has no configured override.
func (s SuiteConfig) MinFraction(column string, def float64) float64 {
	if v, ok := s.Completeness[column]; ok {
		return v
	}
	return def
}

// Config validation errors.
var (
	ErrWorkDirEmpty = errors.New("work dir must not be empty")
	ErrMinRows      = errors.New("min rows must not be negative")
)

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.WorkDir == "" {
		return ErrWorkDirEmpty
	}
	for _, s := range []SuiteConfig{c.Checks.Posts, c.Checks.Tags, c.Checks.PostsTags} {
		if s.MinRows < 0 {
			return ErrMinRows
		}
	}
	return nil
}

// DatabasePath returns the location of the SQLite database file.
func (c Config) DatabasePath() string {
	return filepath.Join(c.WorkDir, c.Database)
}

// PostsPath returns the location of the posts XML input.
func (c Config) PostsPath() string {
	return filepath.Join(c.WorkDir, c.PostsFile)
}

// TagsPath returns the location of the tags XML input.
func (c Config) TagsPath() string {
	return filepath.Join(c.WorkDir, c.TagsFile)
}

// DefaultConfig returns a Config for the given working directory with the
// standard file names and the stock check thresholds.
func DefaultConfig(workDir string) Config {
	return Config{
		WorkDir:   workDir,
		PostsFile: DefaultPostsFile,
		TagsFile:  DefaultTagsFile,
		Database:  DefaultDatabase,
		Checks:    DefaultChecks(),
	}
}

// DefaultChecks returns the stock validation thresholds, calibrated against
// a full Stack Exchange site dump.
func DefaultChecks() ChecksConfig {
	return ChecksConfig{
		Posts: SuiteConfig{
			MinRows: 20000,
			Completeness: map[string]float64{
				"AnswerCount":      0.44,
				"Title":            0.44,
				"ParentId":         0.45,
				"LastEditDate":     0.59,
				"LastEditorUserId": 0.58,
				"ViewCount":        0.44,
				"Tags":             0.44,
				"OwnerUserId":      0.98,
			},
		},
		Tags: SuiteConfig{
			MinRows: 900,
			Completeness: map[string]float64{
				"ExcerptPostId": 0.77,
				"WikiPostId":    0.77,
			},
		},
		PostsTags: SuiteConfig{
			MinRows: 30000,
		},
	}
}
