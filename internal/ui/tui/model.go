package tui

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/appstack/internal/provisioning"
)

// Status is the display state of one kind.
type Status int

const (
	StatusPending Status = iota
	StatusActive
	StatusCreated
	StatusExists
	StatusSkipped
	StatusFailed
)

// Row is one kind of the stack graph.
type Row struct {
	Kind     provisioning.Kind
	Status   Status
	Resource string
	Detail   string
}

// Model is the Bubble Tea model for the apply progress view.
type Model struct {
	Stack     string
	Rows      []Row
	StartTime time.Time
	Elapsed   time.Duration

	SpinnerFrame int
	Width        int
	Err          error
	Done         bool
}

// NewApplyModel creates a model with one pending row per rule.
func NewApplyModel(stack string) Model {
	rules := provisioning.Rules()
	rows := make([]Row, 0, len(rules))
	for _, r := range rules {
		rows = append(rows, Row{Kind: r.Kind})
	}
	return Model{Stack: stack, Rows: rows, StartTime: time.Now()}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width

	case EventMsg:
		m.applyEvent(msg.Event)

	case TickMsg:
		m.SpinnerFrame++
		m.Elapsed = time.Since(m.StartTime)
		return m, tickCmd()

	case ErrMsg:
		m.Err = msg.Err
		return m, tea.Quit

	case DoneMsg:
		m.Done = true
		m.Elapsed = time.Since(m.StartTime)
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) applyEvent(e provisioning.Event) {
	if e.Type == provisioning.EventStackFailed && m.Err == nil {
		m.Err = errors.New(e.Message)
	}
	idx := m.rowIndex(e.Kind)
	if idx < 0 {
		return
	}
	row := &m.Rows[idx]
	if e.Resource != "" {
		row.Resource = e.Resource
	}
	switch e.Type {
	case provisioning.EventResourceCreating:
		row.Status = StatusActive
	case provisioning.EventResourceCreated:
		row.Status = StatusCreated
	case provisioning.EventResourceExists:
		row.Status = StatusExists
		row.Detail = e.Fields["reason"]
	case provisioning.EventResourceSkipped:
		row.Status = StatusSkipped
		row.Detail = e.Fields["reason"]
	case provisioning.EventResourceFailed:
		row.Status = StatusFailed
		row.Detail = e.Message
	}
}

func (m *Model) rowIndex(kind provisioning.Kind) int {
	if kind == "" {
		return -1
	}
	for i, r := range m.Rows {
		if r.Kind == kind {
			return i
		}
	}
	return -1
}

// Progress is the fraction of rows that reached a final status.
func (m Model) Progress() float64 {
	if m.Done {
		return 1.0
	}
	if len(m.Rows) == 0 {
		return 0
	}
	var settled int
	for _, r := range m.Rows {
		if r.Status >= StatusCreated {
			settled++
		}
	}
	return float64(settled) / float64(len(m.Rows))
}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}
