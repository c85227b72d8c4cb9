// Package app provides the interactive pixelyear terminal client.
//
// It wires configuration, local storage, the session identity provider and
// the sync engine into an interactive prompt. The app owns the year canvas:
// every local edit persists to sqlite and notifies the engine, and the
// engine's wholesale replacements flow back through the same bridge.
//
// Key features:
//   - Login / Logout via pasted session tokens (hidden terminal read)
//   - Paint / Erase day annotations with colors and notes
//   - Year and month views rendered with lipgloss
//   - Year switching with per-year remote partitions
//   - Manual sync on top of the automatic pull/push cycle
//
// The prompt is started via App.Run(ctx), which blocks until the user
// exits. See Canvas, runREPL and the command methods for details.
package app
