// Package cli translates command-line arguments into an app.Config, keeping
// argument parsing concerns out of the application core.
package cli
