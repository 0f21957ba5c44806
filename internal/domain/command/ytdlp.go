package command

// General
const (
	CookiesFromBrowser   = "--cookies-from-browser"
	CookiePath           = "--cookies"
	EndOfOptions         = "--"
	Format               = "-f"
	NoPlaylist           = "--no-playlist"
	NoWarnings           = "--no-warnings"
	Newline              = "--newline"
	Output               = "-o"
	Print                = "--print"
	YTDLP                = "yt-dlp"
	YtDLPOutputExtension = "--merge-output-format"
	MergeContainer       = "mp4"
)

// Scrape
const (
	YtDLPFlatPlaylist = "--flat-playlist"
)

// JSON / metadata only
const (
	SkipVideo  = "--skip-download"
	OutputJSON = "-J"
	PrintTitle = "%(title)s"
)

// Bot avoidance
const (
	UserAgent     = "--user-agent"
	ExtractorArgs = "--extractor-args"
	ThrottledRate = "--throttled-rate"
	DesktopUA     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	PlayerClient  = "youtube:player_client=web"
	ThrottleCap   = "1M"
)

// Format selection
const (
	BestMerged = "bv*+ba"
	Best       = "best"
)
