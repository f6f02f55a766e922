// Package tui provides a Bubble Tea progress view for a resolution pass.
package tui

import "github.com/imamik/appstack/internal/provisioning"

// EventMsg carries one resolution event.
type EventMsg struct {
	Event provisioning.Event
}

// TickMsg is sent periodically to refresh the display.
type TickMsg struct{}

// ErrMsg carries an error.
type ErrMsg struct{ Err error }

// DoneMsg signals that the operation is complete.
type DoneMsg struct{}
