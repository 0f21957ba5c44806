package cfg

import (
	"fmt"
	"path/filepath"

	"movvify/internal/auth"
	"movvify/internal/blocking"
	"movvify/internal/command/execute"
	"movvify/internal/domain/keys"
	"movvify/internal/downloads"
	"movvify/internal/server"
	"movvify/internal/utils/logging"
	"movvify/internal/validation"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := filepath.Abs(viper.GetString(keys.DownloadsDir))
			if err != nil {
				return fmt.Errorf("invalid downloads directory: %w", err)
			}
			if _, err := validation.ValidateDirectory(dir, true); err != nil {
				return err
			}

			cookies := auth.NewCookieResolver(viper.GetString(keys.CookiesFile), viper.GetString(keys.CookiesBrowser))
			if viper.GetBool(keys.ProbeBrowserCookies) {
				cookies.Probe = auth.KookyProbe{}
			}

			svc := downloads.NewService(
				execute.NewRunner(viper.GetString(keys.YtdlpPath)),
				cookies,
				dir,
				downloads.Options{
					MetadataTimeout: viper.GetDuration(keys.MetadataTimeout),
					PlaylistTimeout: viper.GetDuration(keys.PlaylistTimeout),
					DownloadTimeout: viper.GetDuration(keys.DownloadTimeout),
				},
			)

			logging.I("Downloads directory: %q, cookie file: %q (browser fallback %q)",
				dir, cookies.CookieFile, cookies.Browser)

			s := server.New(svc, svc.Files, blocking.NewTracker(viper.GetDuration(keys.BlockCooldown)), viper.GetDuration(keys.CleanupDelay))
			return s.Run(cmd.Context(), ":"+viper.GetString(keys.Port))
		},
	}

	initServerFlags(cmd)
	return cmd
}
