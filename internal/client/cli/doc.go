// Package cli provides the interactive TaskMaster command-line client.
//
// It wires configuration, local credential storage, the REST API services,
// and an interactive REPL. Typical flow: restore any stored session at
// start, prompt for commands, and mirror the server's task and category
// collections after every change.
//
// Key features:
//   - Register / Login / Logout with a persisted token pair
//   - List, filter, and paginate tasks
//   - Create, edit, complete, delete, and share tasks
//   - Manage categories
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
