package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/appstack/internal/provisioning"
)

// Observer forwards resolution events to a running program.
type Observer struct {
	send func(tea.Msg)
}

var _ provisioning.Observer = (*Observer)(nil)

// NewObserver creates an observer sending EventMsg through send.
func NewObserver(send func(tea.Msg)) *Observer {
	return &Observer{send: send}
}

// Event implements provisioning.Observer.
func (o *Observer) Event(event provisioning.Event) {
	o.send(EventMsg{Event: event})
}

// WithFields implements provisioning.Observer. Fields are not displayed.
func (o *Observer) WithFields(map[string]string) provisioning.Observer {
	return o
}

// RunApplyTUI runs resolve in the background while rendering its events.
// resolve receives the observer to pass to the resolver.
func RunApplyTUI(ctx context.Context, stack string, resolve func(ctx context.Context, observer provisioning.Observer) error) error {
	p := tea.NewProgram(NewApplyModel(stack), tea.WithContext(ctx))
	observer := NewObserver(p.Send)

	go func() {
		if err := resolve(ctx, observer); err != nil {
			p.Send(ErrMsg{Err: err})
			return
		}
		p.Send(DoneMsg{})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	fm := finalModel.(Model)
	if fm.Err != nil {
		return fm.Err
	}
	return nil
}
