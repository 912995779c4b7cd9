// Package gamedata provides the embedded balance tables, enemy name pools and
// message palette, plus the generic loader used to read them.
package gamedata

import "embed"

// dataFS embeds all JSON files from this directory at build time.
//
//go:embed *.json
var dataFS embed.FS
