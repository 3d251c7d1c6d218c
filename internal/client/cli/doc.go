// Package cli provides the interactive My Passion Path terminal client.
//
// It wires configuration, the record-store gateway, the session holder and
// the page shell into a REPL. The prompt shows the signed-in email, the
// connectivity mode and the current location; every command ends by showing
// the current page again.
//
// Key features:
//   - Sign up / Login / Logout
//   - Dashboard: add, search, filter and open hobbies
//   - Hobby board: goals with progress, notes, link and file resources
//   - Profile: display name
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
