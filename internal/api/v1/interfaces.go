package v1

import (
	"context"

	"github.com/gosuda/aicrm/internal/dispatch"
	"github.com/gosuda/aicrm/internal/domain"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// store.Backend satisfies this interface.
type DataStore interface {
	Interactions() domain.InteractionRepository
}

// Planner turns a chat message into a dispatch decision.
// *agent.Planner satisfies this interface.
type Planner interface {
	Classify(ctx context.Context, text, contextHint string) (*domain.DispatchDecision, error)
}

// Extractor turns free-form notes into a candidate interaction record.
// *agent.Extractor satisfies this interface.
type Extractor interface {
	Extract(ctx context.Context, rawText, contextHint string) (*domain.InteractionFields, error)
}

// Dispatcher executes a decision. *dispatch.Dispatcher satisfies this interface.
type Dispatcher interface {
	Dispatch(ctx context.Context, decision *domain.DispatchDecision) (*dispatch.Response, error)
}
