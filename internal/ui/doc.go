// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for the discovery and curation pipeline:
//  1. [SeedListView] : Browse the seed artists detected in the music library
//  2. [ConfirmView] : Confirm the pipeline run
//  3. [RunView] : Monitor real-time progress across the pipeline phases
//  4. [ResultView] : Display created playlists and failures
//
// The [Model] implements bubbletea's standard Init/Update/View pattern.
// Progress updates flow through a channel from the [tasks.Pipeline], providing
// non-blocking status reporting during the run.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
