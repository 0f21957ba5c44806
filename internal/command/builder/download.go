package builder

import (
	"strings"

	"movvify/internal/domain/command"
	"movvify/internal/models"
	"movvify/internal/utils/logging"
)

// FormatSelector builds a fallback chain for the quality tier, most specific first.
//
// The chain always ends in "best", so a selection exists whenever any stream does.
func FormatSelector(q models.Quality) string {
	broad := []string{command.BestMerged, command.Best}
	if !q.IsHeight() {
		return strings.Join(broad, "/")
	}

	h := string(q)
	chain := []string{
		"bv*[height=" + h + "]+ba",
		"b[height<=" + h + "]",
		"bv*[height<=" + h + "]+ba",
	}
	return strings.Join(append(chain, broad...), "/")
}

// VideoArgs builds the full download invocation for one URL.
//
// withProgress adds --newline so each progress update arrives as its own line.
func VideoArgs(c models.CredentialArgs, q models.Quality, outPath, url string, withProgress bool) []string {
	args := baseArgs(c, 24)

	if withProgress {
		args = append(args, command.Newline)
	}

	args = append(args,
		command.Format, FormatSelector(q),
		command.NoPlaylist,
		command.YtDLPOutputExtension, command.MergeContainer,
		command.Output, OutputTemplate(outPath),
	)

	// Target URL [ MUST GO LAST !! ]
	args = append(args, command.EndOfOptions, url)

	logging.D(1, "Built video download arguments for URL %q: %v", url, args)
	return args
}

// OutputTemplate escapes a literal path for use as an output template, where
// "%" introduces a field reference.
func OutputTemplate(path string) string {
	return strings.ReplaceAll(path, "%", "%%")
}
