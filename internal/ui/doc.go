// Package ui provides the color themes of the CLI output and the dashboard.
//
// A theme is selected with --theme (dark, light or none) and overridden by
// --no-color or the NO_COLOR environment variable. Units get a cycling
// per-index color; colors are cosmetic only.
package ui
