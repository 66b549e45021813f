// Package dispatch executes the planner's decision against the interaction
// store and renders the reply envelope.
package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/aicrm/internal/domain"
	"github.com/gosuda/aicrm/internal/metrics"
)

// Fixed replies.
const (
	MsgUnknownAction = "I'm not sure how to handle that."
	MsgNoReply       = "I'm not sure how to respond to that."
)

type LogMode string

const (
	// LogCommit inserts the record and returns it.
	LogCommit LogMode = "commit"
	// LogReview returns the validated candidate for the user to confirm.
	LogReview LogMode = "review"
)

type Option func(*Dispatcher)

func WithLogMode(m LogMode) Option {
	return func(d *Dispatcher) { d.logMode = m }
}

func WithCatalog(c *ClinicalCatalog) Option {
	return func(d *Dispatcher) { d.catalog = c }
}

// Dispatcher runs exactly one action per decision. It holds no per-request
// state and is safe for concurrent use.
type Dispatcher struct {
	repo     domain.InteractionRepository
	catalog  *ClinicalCatalog
	logMode  LogMode
	registry *Registry
}

func New(repo domain.InteractionRepository, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		repo:     repo,
		catalog:  DefaultClinicalCatalog(),
		logMode:  LogCommit,
		registry: NewRegistry(),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.registry.Register(domain.ActionLogInteraction, d.logInteraction)
	d.registry.Register(domain.ActionEditInteraction, d.editInteraction)
	d.registry.Register(domain.ActionQueryHCPHistory, d.queryHistory)
	d.registry.Register(domain.ActionSuggestNextBest, d.suggestNextBest)
	d.registry.Register(domain.ActionFetchClinicalData, d.fetchClinicalData)

	return d
}

// Actions lists the tool-backed actions this dispatcher handles.
func (d *Dispatcher) Actions() []string {
	return d.registry.Available()
}

// Dispatch handles one decision. Validation problems and missing records
// come back as text messages; only unexpected faults return an error, always
// an *InternalError.
func (d *Dispatcher) Dispatch(ctx context.Context, decision *domain.DispatchDecision) (resp *Response, err error) {
	if decision == nil {
		metrics.DispatchFailures.WithLabelValues(metrics.FailureUnknown).Inc()
		return TextMessage(MsgUnknownAction), nil
	}

	action := decision.Action
	if action == domain.ActionDirectReply {
		metrics.DispatchActions.WithLabelValues(action).Inc()
		if decision.Reply == "" {
			return TextMessage(MsgNoReply), nil
		}
		return TextMessage(decision.Reply), nil
	}

	h, ok := d.registry.Lookup(action)
	if !ok {
		log.Warn().Str("action", action).Msg("dispatch: unknown action")
		metrics.DispatchFailures.WithLabelValues(metrics.FailureUnknown).Inc()
		return TextMessage(MsgUnknownAction), nil
	}

	defer func() {
		if r := recover(); r != nil {
			resp, err = nil, d.internal(action, fmt.Errorf("panic: %v", r))
		}
	}()

	log.Debug().Str("action", action).Msg("dispatch: executing action")

	resp, err = h(ctx, Arguments(decision.Arguments))
	if err != nil {
		return nil, d.internal(action, err)
	}

	metrics.DispatchActions.WithLabelValues(action).Inc()
	return resp, nil
}

func (d *Dispatcher) internal(action string, err error) error {
	log.Error().Err(err).Str("action", action).Msg("dispatch: action failed")
	metrics.DispatchFailures.WithLabelValues(metrics.FailureInternal).Inc()

	var ie *InternalError
	if errors.As(err, &ie) {
		return ie
	}
	return &InternalError{Action: action, Err: err}
}
