package cfg

import (
	"movvify/internal/domain/consts"
	"movvify/internal/domain/keys"
	"movvify/internal/models"

	"github.com/spf13/cobra"
)

// initProgramFlags initializes flags shared by every command.
func initProgramFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String(keys.ConfigFile, "", "Config file (any format viper reads, e.g. yaml, toml, json)")
	bind(cmd, keys.ConfigFile, true)

	cmd.PersistentFlags().Int(keys.DebugLevel, 0, "Debug level (0-5)")
	bind(cmd, keys.DebugLevel, true)

	cmd.PersistentFlags().String(keys.LogFile, "", "Also write logs to this file")
	bind(cmd, keys.LogFile, true)
}

// initServerFlags initializes flags for the web server.
func initServerFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(keys.Port, "p", consts.DefaultPort, "Port to listen on")
	bind(cmd, keys.Port, false)

	cmd.Flags().StringP(keys.DownloadsDir, "d", consts.DefaultDownloadsDir, "Directory for in-flight downloads")
	bind(cmd, keys.DownloadsDir, false)

	cmd.Flags().String(keys.YtdlpPath, "", "Path to the yt-dlp executable (default: yt-dlp on PATH)")
	bind(cmd, keys.YtdlpPath, false)

	// Cookies
	cmd.Flags().String(keys.CookiesFile, consts.DefaultCookieFile, "Netscape cookie file, used while fresh")
	bind(cmd, keys.CookiesFile, false)

	cmd.Flags().String(keys.CookiesBrowser, consts.DefaultBrowser, "Browser to read cookies from when the cookie file is unusable")
	bind(cmd, keys.CookiesBrowser, false)

	cmd.Flags().Bool(keys.ProbeBrowserCookies, false, "Warn when the fallback browser holds no cookies for the video host")
	bind(cmd, keys.ProbeBrowserCookies, false)

	// Timeouts
	cmd.Flags().Duration(keys.MetadataTimeout, consts.MetadataTimeout, "Timeout for title lookups")
	bind(cmd, keys.MetadataTimeout, false)

	cmd.Flags().Duration(keys.PlaylistTimeout, consts.PlaylistTimeout, "Timeout for playlist listings")
	bind(cmd, keys.PlaylistTimeout, false)

	cmd.Flags().Duration(keys.DownloadTimeout, consts.DownloadTimeout, "Timeout for a single download")
	bind(cmd, keys.DownloadTimeout, false)

	cmd.Flags().Duration(keys.CleanupDelay, consts.CleanupDelay, "Delay before a sent file is deleted")
	bind(cmd, keys.CleanupDelay, false)

	cmd.Flags().Duration(keys.BlockCooldown, consts.BlockCooldown, "Retry-After window after the site blocks a request")
	bind(cmd, keys.BlockCooldown, false)
}

// initFetchFlags initializes flags for the command-line client.
func initFetchFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(keys.ServerURL, "s", "http://localhost:"+consts.DefaultPort, "movvify server to download through")
	bind(cmd, keys.ServerURL, false)

	cmd.Flags().StringP(keys.Quality, "q", string(models.QualityBest), "Quality: 144, 240, 360, 480, 720, 1080, 1440, 2160 or best")
	bind(cmd, keys.Quality, false)

	cmd.Flags().StringP(keys.OutputDir, "o", ".", "Directory to save downloads into")
	bind(cmd, keys.OutputDir, false)
}
