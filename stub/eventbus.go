package stub

import (
	"github.com/asaskevich/EventBus"
)

const (
	// EventCancelled fires when an in-flight Event is abandoned (context cancelled, or the
	// caller's chain depth was exceeded). Parameter: the Event's owner name.
	EventCancelled = "event.cancelled"

	// EventCompleted fires when an Event reaches DONE. Parameters: owner name, validator.AuthenticationResult.
	EventCompleted = "event.completed"
)

var bus = EventBus.New()

// Bus returns the package-wide event bus. Cancellation and completion are published here rather
// than threaded through a parent-event pointer, so anything interested can subscribe without
// Event needing to know about it. Nothing in this module subscribes.
func Bus() EventBus.Bus {
	return bus
}
