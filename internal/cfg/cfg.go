// Package cfg provides configuration and command-line interface setup for movvify.
package cfg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"movvify/internal/domain/consts"
	"movvify/internal/domain/keys"
	"movvify/internal/utils/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCmd builds the movvify command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           consts.ProgramName,
		Short:         "movvify downloads videos and playlists through yt-dlp with live progress.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if err := loadConfigFile(viper.GetString(keys.ConfigFile)); err != nil {
				return err
			}
			return logging.Setup(logging.Config{
				Console:     os.Stdout,
				LogFilePath: viper.GetString(keys.LogFile),
				DebugLevel:  viper.GetInt(keys.DebugLevel),
			})
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			logging.Close()
		},
	}

	initProgramFlags(rootCmd)
	rootCmd.AddCommand(newServeCmd(), newFetchCmd())
	return rootCmd
}

// Execute runs the command line with ctx, which is cancelled on shutdown signals.
func Execute(ctx context.Context) error {
	initEnv()
	return NewRootCmd().ExecuteContext(ctx)
}

// initEnv lets every key be set as MOVVIFY_<KEY> (dashes become underscores).
func initEnv() {
	viper.SetEnvPrefix(keys.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// loadConfigFile merges a config file of any viper-supported format.
// An empty path is not an error.
func loadConfigFile(path string) error {
	if path == "" {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed check for config file path: %w", err)
	}
	if info.IsDir() {
		return errors.New("config file entered is a directory, should be a file")
	}

	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed loading config file %q: %w", path, err)
	}
	return nil
}

// bind registers a flag's value with viper under the same key.
func bind(cmd *cobra.Command, key string, persistent bool) {
	flags := cmd.Flags()
	if persistent {
		flags = cmd.PersistentFlags()
	}
	if err := viper.BindPFlag(key, flags.Lookup(key)); err != nil {
		panic(fmt.Sprintf("failed to bind flag %q: %v", key, err))
	}
}
