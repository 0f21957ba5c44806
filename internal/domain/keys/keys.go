// Package keys holds the configuration keys shared by flags, config files and the environment.
package keys

// Server
const (
	Port                = "port"
	DownloadsDir        = "downloads-dir"
	CookiesFile         = "cookies-file"
	CookiesBrowser      = "cookies-browser"
	ProbeBrowserCookies = "probe-browser-cookies"
	YtdlpPath           = "ytdlp-path"
)

// Timeouts and delays
const (
	MetadataTimeout = "metadata-timeout"
	PlaylistTimeout = "playlist-timeout"
	DownloadTimeout = "download-timeout"
	CleanupDelay    = "cleanup-delay"
	BlockCooldown   = "block-cooldown"
)

// Fetch (client driver)
const (
	ServerURL = "server"
	Quality   = "quality"
	OutputDir = "output-dir"
)

// Program
const (
	ConfigFile = "config"
	DebugLevel = "debug"
	LogFile    = "log-file"
	EnvPrefix  = "MOVVIFY"
)
