package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type InteractionEventKind string

const (
	InteractionCreated InteractionEventKind = "created"
	InteractionUpdated InteractionEventKind = "updated"
)

// InteractionEvent is broadcast after an interaction is written.
type InteractionEvent struct {
	ID          uuid.UUID            `json:"id"`
	Kind        InteractionEventKind `json:"kind"`
	Interaction *Interaction         `json:"interaction"`
	OccurredAt  time.Time            `json:"occurred_at"`
}

func NewInteractionEvent(kind InteractionEventKind, it *Interaction) *InteractionEvent {
	return &InteractionEvent{
		ID:          uuid.New(),
		Kind:        kind,
		Interaction: it,
		OccurredAt:  time.Now().UTC(),
	}
}

type InteractionEventPublisher interface {
	PublishInteraction(ctx context.Context, event *InteractionEvent) error
}
