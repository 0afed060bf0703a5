package events

import "github.com/sheikh-saqib/account-ledger-service/internal/interfaces"

// NopPublisher discards every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(string, any) error { return nil }

var _ interfaces.EventPublisher = NopPublisher{}
