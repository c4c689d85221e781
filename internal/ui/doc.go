// Package ui implements the terminal dashboard using bubbletea's Elm architecture.
//
// The TUI has three views:
//  1. [BrowseView] : the catalog, narrowed by the search input and the selected category
//  2. [FavoritesView] : the videos favorited in the current profile
//  3. [DetailView] : one video with its share text; opening it counts a view
//
// The search input filters on every keystroke. tab cycles categories, f toggles the favorite of the selected
// video through [session.Manager], so favorites persist in the same store the web dashboard uses.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
