// Package cli provides the interactive filedesk command-line client.
//
// It wires configuration, the local session store, the backend and identity
// clients, and an interactive REPL. On start the persisted credential is
// validated; the user then logs in or registers and works with the files,
// profile and dashboard views.
//
// Key features:
//   - Login (identity provider with backend fallback) / Register / Logout
//   - Files: list, upload, download, delete
//   - Profile and addresses: show, edit, add, delete
//   - Dashboard statistics
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
