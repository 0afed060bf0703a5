package interfaces

// EventPublisher emits domain events after a transaction commits.
// Publishing is best-effort: a failed publish never rolls back or fails the
// operation that produced the event.
type EventPublisher interface {
	Publish(topic string, event any) error
}
