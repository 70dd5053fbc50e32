// Package cli provides the interactive news client.
//
// It wires configuration, local session storage, the REST API services and
// a line-oriented REPL. A background watcher pings the API and the prompt
// shows the signed-in user and whether the API is reachable.
//
// Key features:
//   - Login with an emailed one-time code, whoami, token re-validation, logout
//   - Category listing and admin category management
//   - Article comments
//   - An e-paper viewer with page navigation, thumbnails, zoom and pan,
//     fullscreen via the terminal's alternate screen, download, share and print
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
