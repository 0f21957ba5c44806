package consts

// Program identity.
const (
	ProgramName   = "movvify"
	DefaultPort   = "6464"
	FilePrefix    = "movvify_"
	OutputExt     = ".mp4"
	DefaultTitle  = "video"
	MaxTitleRunes = 80
)

// Playlist defaults.
const (
	UntitledVideo   = "Untitled Video"
	DefaultPlaylist = "YouTube Playlist"
	WatchURLFormat  = "https://www.youtube.com/watch?v=%s"
)

// Cookie file freshness.
const (
	CookieFileMinBytes = 100
	CookieFileMaxAge   = 168 // hours
	DefaultCookieFile  = "cookies.txt"
	DefaultBrowser     = "chrome"
)

// Directories.
const (
	DefaultDownloadsDir = "downloads"
)
