// Package cli provides the interactive notekeeper command-line client.
//
// It wires configuration, the local note store, the sharing service client
// and the application services into a REPL. Typical flow: open or create
// the local database, optionally resolve a shared-note address passed on
// the command line, then execute user commands until exit.
//
// Key features:
//   - Write, edit, list, search and delete Markdown notes
//   - Share a note behind a captcha and print its share link
//   - Open a shared note by code or by address
//   - Export notes as a JSON bundle and import such bundles
//
// The REPL is started via App.Run(ctx, startURL), which blocks until the user exits.
// See App and runREPL for details.
package cli
