package events

import "github.com/rc-foods/courier-client/internal/domain"

// EventType enumerates the client-layer events.
type EventType string

const (
	// EventOrderMarkedPaid fires after the server accepts a payment-status
	// change to paid.
	EventOrderMarkedPaid EventType = "order.marked_paid"
	// EventSessionCleared fires after local session state is torn down.
	EventSessionCleared EventType = "session.cleared"
)

// Event carries an occurrence and its payload.
type Event struct {
	Type   EventType
	AreaID int
	Order  *domain.DeliveryOrder
}

// OrderMarkedPaid builds the paid-order event.
func OrderMarkedPaid(areaID int, order domain.DeliveryOrder) Event {
	return Event{Type: EventOrderMarkedPaid, AreaID: areaID, Order: &order}
}

// SessionCleared builds the session teardown event.
func SessionCleared() Event {
	return Event{Type: EventSessionCleared}
}
