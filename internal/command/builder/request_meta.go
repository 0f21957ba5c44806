package builder

import (
	"movvify/internal/domain/command"
	"movvify/internal/models"
)

// TitleArgs builds a metadata-only invocation printing the video title.
func TitleArgs(c models.CredentialArgs, url string) []string {
	args := baseArgs(c, 16)
	return append(args,
		command.SkipVideo,
		command.NoPlaylist,
		command.NoWarnings,
		command.Print, command.PrintTitle,
		command.EndOfOptions, url,
	)
}

// PlaylistArgs builds a flat-listing invocation dumping playlist JSON.
func PlaylistArgs(c models.CredentialArgs, url string) []string {
	args := baseArgs(c, 16)
	return append(args,
		command.YtDLPFlatPlaylist,
		command.OutputJSON,
		command.EndOfOptions, url,
	)
}
