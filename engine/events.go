package engine

import (
	"time"

	"github.com/ldpworks/ldprepo/services"
)

// emitEvents implements §4.8 Event Dispatch: one event for the resource
// itself, one more when it is contained (for the container), and one more
// still when a Direct/IndirectContainer's membership resource is distinct
// from the container. Dispatch is fire-and-forget; the Event Service's own
// failures never affect the HTTP response.
func (h *handlerContext) emitEvents(eventType, resourceIRI, parentIRI, membershipIRI string, at time.Time) {
	events := []services.Event{{Type: eventType, Resource: resourceIRI, AgentIRI: h.agentIRI, Timestamp: at}}
	if parentIRI != "" {
		events = append(events, services.Event{Type: eventType, Resource: parentIRI, AgentIRI: h.agentIRI, Timestamp: at})
		if membershipIRI != "" && membershipIRI != parentIRI {
			events = append(events, services.Event{Type: eventType, Resource: membershipIRI, AgentIRI: h.agentIRI, Timestamp: at})
		}
	}
	for _, e := range events {
		h.engine.events.Emit(h.ctx, e)
	}
}
