// Config resolution for the stackhouse CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/stackhouse/pkg/types"
)

const (
	configFileName = "stackhouse"
	configFileType = "yaml"

	envPrefix  = "STACKHOUSE"
	envWorkDir = "STACKHOUSE_WORKDIR"

	// defaultWorkDir holds freshly extracted dump files awaiting a commit.
	defaultWorkDir = "uncommitted"
)

// resolveWorkDir picks the working directory: positional argument, then the
// STACKHOUSE_WORKDIR environment variable, then the default.
func resolveWorkDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	if dir := os.Getenv(envWorkDir); dir != "" {
		return dir
	}
	return defaultWorkDir
}

// resolveConfig builds the effective configuration for workDir. Precedence
// is flags over environment over the YAML file over built-in defaults. A
// missing stackhouse.yaml is not an error; a missing --config file is.
func resolveConfig(workDir string) (types.Config, error) {
	cfg := types.DefaultConfig(workDir)

	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(workDir)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	if flagConfig != "" {
		v.SetConfigFile(flagConfig)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if flagConfig != "" || !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.WorkDir = workDir
	if flagPostsFile != "" {
		cfg.PostsFile = flagPostsFile
	}
	if flagTagsFile != "" {
		cfg.TagsFile = flagTagsFile
	}
	if flagDatabase != "" {
		cfg.Database = flagDatabase
	}

	return cfg, cfg.Validate()
}
