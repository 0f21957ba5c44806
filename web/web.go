// Package web embeds the browser front-end.
package web

import "embed"

// Static holds the files under static/.
//
//go:embed static
var Static embed.FS
