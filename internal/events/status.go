package events

import "context"

// StatusPublisher publishes transfer_update messages on a bus.
type StatusPublisher struct {
	bus *Bus
}

// NewStatusPublisher creates a publisher for bus.
func NewStatusPublisher(bus *Bus) *StatusPublisher {
	return &StatusPublisher{bus: bus}
}

// Publish sends message to transfer_update subscribers. Delivery is best effort.
func (p *StatusPublisher) Publish(message string) {
	_ = p.bus.Publish(context.Background(), &TransferUpdate{
		BaseEvent: NewBaseEvent(EventTransferUpdate, EntityBatch, 0),
		Message:   message,
	})
}
