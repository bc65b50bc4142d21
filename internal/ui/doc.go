// Package ui implements interactive terminal views using bubbletea's Elm architecture.
//
// Two views are provided:
//  1. [Picker] : a list of search candidates; choosing one resolves a name to an id. It satisfies the selector
//     interface so commands can swap it in for the numbered prompt.
//  2. [BatchModel] : real-time progress for a batch song fetch, fed by the task engine's progress channel.
//
// Each (view) model implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg
// union type. Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via
// charmbracelet/bubbles/help.
package ui
