package consts

// Permissions for files and directories movvify creates.
const (
	PermsDownloadsDir = 0o755
	PermsLogFile      = 0o644
)
