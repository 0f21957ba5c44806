package consts

import "time"

// External tool wall-clock caps.
const (
	MetadataTimeout = 20 * time.Second
	PlaylistTimeout = 60 * time.Second
	DownloadTimeout = 300 * time.Second
)

// File lifecycle.
const (
	CleanupDelay     = 3 * time.Second
	UnclaimedFileTTL = 30 * time.Minute
)

// Bot detection.
const (
	BlockCooldown = 3 * time.Minute
)

// Process teardown.
const (
	ProcessWaitDelay = 2 * time.Second
)
