// Package app wires configuration, logging, the API client and the TUI
// together and owns the background poller.
package app
