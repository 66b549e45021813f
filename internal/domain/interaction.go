package domain

import (
	"context"
	"time"
)

// Interaction types accepted for InteractionFields.InteractionType.
const (
	InteractionTypeScheduledVisit   = "Scheduled Visit"
	InteractionTypeUnscheduledVisit = "Unscheduled Visit"
	InteractionTypePhoneCall        = "Phone Call"
	InteractionTypeEmail            = "Email"
	InteractionTypeConference       = "Conference"
)

// Sentiments accepted for InteractionFields.ObservedSentiment.
const (
	SentimentPositive    = "Positive"
	SentimentNeutral     = "Neutral"
	SentimentNegative    = "Negative"
	SentimentInquisitive = "Inquisitive"
)

// ValidInteractionTypes is the canonical set of interaction types.
var ValidInteractionTypes = []string{ //nolint:gochecknoglobals // canonical enum list
	InteractionTypeScheduledVisit,
	InteractionTypeUnscheduledVisit,
	InteractionTypePhoneCall,
	InteractionTypeEmail,
	InteractionTypeConference,
}

// ValidSentiments is the canonical set of observed sentiments.
var ValidSentiments = []string{ //nolint:gochecknoglobals // canonical enum list
	SentimentPositive,
	SentimentNeutral,
	SentimentNegative,
	SentimentInquisitive,
}

// InteractionFields holds the ten user-editable fields of an interaction.
// Optional fields are nil when unknown; an empty string is a stored value.
type InteractionFields struct {
	HCPName           string  `json:"hcp_name"`
	InteractionType   *string `json:"interaction_type"`
	InteractionDate   *string `json:"interaction_date"` // YYYY-MM-DD
	InteractionTime   *string `json:"interaction_time"` // HH:mm, 24h
	Attendees         *string `json:"attendees"`
	TopicsDiscussed   *string `json:"topics_discussed"`
	MaterialsShared   *string `json:"materials_shared"`
	ObservedSentiment *string `json:"observed_sentiment"`
	Outcomes          *string `json:"outcomes"`
	FollowUpActions   *string `json:"follow_up_actions"`
}

// Interaction is a persisted record of one rep/HCP touchpoint.
type Interaction struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	InteractionFields
}

// InteractionFilter narrows List. Results are always ordered by id descending.
type InteractionFilter struct {
	HCPName string // case-insensitive substring; empty matches all
	Limit   int
	Offset  int
}

type InteractionRepository interface {
	Create(ctx context.Context, fields *InteractionFields) (*Interaction, error)
	GetByID(ctx context.Context, id int64) (*Interaction, error)
	List(ctx context.Context, filter InteractionFilter) ([]*Interaction, error)
	// Update applies patch in a single statement and returns the updated row.
	Update(ctx context.Context, id int64, patch InteractionPatch) (*Interaction, error)
}
