package ui

import "embed"

// Static embeds the public results page served at the site root.
//
//go:embed all:static
var Static embed.FS
