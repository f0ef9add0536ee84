// ABOUTME: Embeds HTML templates and markdown pages into the binary using go:embed
// ABOUTME: Provides templateFS and pagesFS for loading at startup

package web

import "embed"

//go:embed templates/*.html
var templateFS embed.FS

//go:embed pages/*.md
var pagesFS embed.FS
