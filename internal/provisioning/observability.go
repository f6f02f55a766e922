package provisioning

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/go-logr/logr"
)

// Observer receives structured events during resolution.
type Observer interface {
	// Event emits a structured event
	Event(event Event)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured resolution event.
type Event struct {
	Type      EventType         // Type of event
	Kind      Kind              // Resource kind if applicable
	Message   string            // Human-readable message
	Resource  string            // Resource name if applicable
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of resolution event.
type EventType string

const (
	// EventStackStarted indicates a resolution pass has started.
	EventStackStarted EventType = "stack.started"
	// EventStackCompleted indicates every rule was evaluated successfully.
	EventStackCompleted EventType = "stack.completed"
	// EventStackFailed indicates a composer error aborted the pass.
	EventStackFailed EventType = "stack.failed"

	// EventResourceCreating indicates a resource is being composed.
	EventResourceCreating EventType = "resource.creating"
	// EventResourceCreated indicates a resource was composed successfully.
	EventResourceCreated EventType = "resource.created"
	// EventResourceExists indicates a resource was taken as given.
	EventResourceExists EventType = "resource.exists"
	// EventResourceSkipped indicates a precondition was not met.
	EventResourceSkipped EventType = "resource.skipped"
	// EventResourceFailed indicates a composer returned an error.
	EventResourceFailed EventType = "resource.failed"

	// EventValidationWarning indicates a validation warning.
	EventValidationWarning EventType = "validation.warning"
	// EventValidationError indicates a validation error.
	EventValidationError EventType = "validation.error"
)

// LogObserver implements Observer on a logr.Logger.
type LogObserver struct {
	logger        logr.Logger
	contextFields map[string]string
}

// NewLogObserver creates an observer writing to logger.
func NewLogObserver(logger logr.Logger) *LogObserver {
	return &LogObserver{
		logger:        logger,
		contextFields: make(map[string]string),
	}
}

// Event implements Observer interface.
func (o *LogObserver) Event(event Event) {
	keysAndValues := []any{"event", string(event.Type)}
	if event.Kind != "" {
		keysAndValues = append(keysAndValues, "kind", string(event.Kind))
	}
	if event.Resource != "" {
		keysAndValues = append(keysAndValues, "resource", event.Resource)
	}

	fields := make(map[string]string, len(o.contextFields)+len(event.Fields))
	maps.Copy(fields, o.contextFields)
	for k, v := range event.Fields {
		if _, exists := fields[k]; !exists {
			fields[k] = v
		}
	}
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		keysAndValues = append(keysAndValues, k, fields[k])
	}

	switch event.Type {
	case EventStackFailed, EventResourceFailed, EventValidationError:
		o.logger.Error(nil, event.Message, keysAndValues...)
	case EventResourceSkipped:
		o.logger.V(1).Info(event.Message, keysAndValues...)
	default:
		o.logger.Info(event.Message, keysAndValues...)
	}
}

// WithFields implements Observer interface.
func (o *LogObserver) WithFields(fields map[string]string) Observer {
	newFields := make(map[string]string, len(o.contextFields)+len(fields))
	maps.Copy(newFields, o.contextFields)
	maps.Copy(newFields, fields)

	return &LogObserver{
		logger:        o.logger,
		contextFields: newFields,
	}
}

// Helper functions for common events

// LogStackStart logs a stack start event.
func LogStackStart(observer Observer, stack string) {
	observer.Event(Event{
		Type:     EventStackStarted,
		Resource: stack,
		Message:  "resolving stack",
	})
}

// LogStackComplete logs a stack completion event.
func LogStackComplete(observer Observer, stack string, present int, duration time.Duration) {
	observer.Event(Event{
		Type:     EventStackCompleted,
		Resource: stack,
		Message:  fmt.Sprintf("stack resolved in %v", duration.Round(time.Millisecond)),
		Fields: map[string]string{
			"present": fmt.Sprint(present),
		},
	})
}

// LogStackFailed logs a stack failure event.
func LogStackFailed(observer Observer, stack string, kind Kind, err error) {
	observer.Event(Event{
		Type:     EventStackFailed,
		Kind:     kind,
		Resource: stack,
		Message:  fmt.Sprintf("stack aborted: %v", err),
	})
}

// LogResourceCreating logs a resource composition start event.
func LogResourceCreating(observer Observer, kind Kind) {
	observer.Event(Event{
		Type:    EventResourceCreating,
		Kind:    kind,
		Message: fmt.Sprintf("creating %s", kind),
	})
}

// LogResourceCreated logs a successful resource composition event.
func LogResourceCreated(observer Observer, kind Kind, name string) {
	observer.Event(Event{
		Type:     EventResourceCreated,
		Kind:     kind,
		Resource: name,
		Message:  fmt.Sprintf("%s created", kind),
	})
}

// LogResourceExists logs when a resource was supplied rather than composed.
func LogResourceExists(observer Observer, kind Kind, name, reason string) {
	observer.Event(Event{
		Type:     EventResourceExists,
		Kind:     kind,
		Resource: name,
		Message:  fmt.Sprintf("%s already exists", kind),
		Fields: map[string]string{
			"reason": reason,
		},
	})
}

// LogResourceSkipped logs an unmet precondition.
func LogResourceSkipped(observer Observer, kind Kind, reason string) {
	observer.Event(Event{
		Type:    EventResourceSkipped,
		Kind:    kind,
		Message: fmt.Sprintf("%s absent", kind),
		Fields: map[string]string{
			"reason": reason,
		},
	})
}

// LogResourceFailed logs a composer failure event.
func LogResourceFailed(observer Observer, kind Kind, name string, err error) {
	observer.Event(Event{
		Type:     EventResourceFailed,
		Kind:     kind,
		Resource: name,
		Message:  fmt.Sprintf("%s failed: %v", kind, err),
	})
}

// LogValidationWarning logs a validation warning.
func LogValidationWarning(observer Observer, field, message string) {
	observer.Event(Event{
		Type:    EventValidationWarning,
		Message: message,
		Fields: map[string]string{
			"field": field,
		},
	})
}
