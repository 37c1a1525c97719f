// Package events publishes the store's success signals (login, add-to-cart)
// so other tooling can observe what the client is doing.
package events

import (
	"context"
	"log"
	"time"
)

type Type string

const (
	TypeLoginSucceeded Type = "login_succeeded"
	TypeItemAdded      Type = "item_added"
)

type Event struct {
	Type       Type      `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	ProductID  int64     `json:"productId,omitempty"`
	Quantity   int       `json:"quantity,omitempty"`
}

// Log prints events with the standard logger. The default emitter for local
// runs.
type Log struct{}

func (Log) Emit(_ context.Context, e Event) error {
	log.Printf("event %s product=%d quantity=%d", e.Type, e.ProductID, e.Quantity)
	return nil
}

// Nop discards events.
type Nop struct{}

func (Nop) Emit(context.Context, Event) error { return nil }
