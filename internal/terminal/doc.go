// Package terminal embeds an interactive process behind a pseudo-terminal
// and emulates its output into a grid of styled cells.
//
// Architecture:
//   - Session owns one pty pair and exactly one background reader goroutine
//   - The reader is the sole writer of the Emulator, behind a short-held lock
//   - Snapshot hands the render path a copy-out view, at most one update
//     behind real time
//   - Manager tracks sessions and mirrors their lifecycle into the process
//     registry
//
// Resizing clips or pads the grid to the new dimensions; scrollback reflow
// is out of scope.
package terminal
