// Package services contains the application services of the notekeeper
// client.
//
// NoteService owns note identity: it derives titles and plain text from the
// Markdown source, allocates random ids and refuses to overwrite an occupied
// id. ShareService drives the captcha-gated sharing flow on top of a Session,
// the explicit holder of the cached challenge, the active note and the
// backpressure latches. RetrievalService opens notes by reference, local
// store first. BundleService moves collections of notes in and out as JSON.
//
// Every operation accepts a context.Context and returns its outcome; UI code
// (see internal/client/cli) only renders the result.
package services
