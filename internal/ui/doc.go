// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI is a read-only browser over the library:
//  1. [SongListView] : Browse every stored song
//  2. [LikeListView] : Browse one user's liked songs (when a user id is given)
//  3. [DetailView] : Full fields of the selected record
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, tab, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
