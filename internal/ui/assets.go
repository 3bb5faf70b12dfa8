// Package ui holds the browser assets served next to the dashboard page.
package ui

import "embed"

// Static is served under /static/.
//
//go:embed static
var Static embed.FS
