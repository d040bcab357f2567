package interfaces

import "github.com/ternarybob/peto/internal/models"

// EventSink receives structured observability events from the workflow
// engine. Injected rather than global so tests can record events directly.
type EventSink interface {
	Emit(event models.Event)
}
