// Package cli is responsible for the command tree, parsing flags, validating
// user input, and handling process-level concerns like exit codes. It
// translates flags into the application's configuration and drives the app.
package cli
