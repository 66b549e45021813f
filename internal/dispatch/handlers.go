package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/aicrm/internal/domain"
	"github.com/gosuda/aicrm/internal/metrics"
)

// Argument names used by the action tools.
const (
	ArgInteractionID = "interaction_id"
	ArgUpdates       = "updates"
	ArgProductName   = "product_name"

	// Single field/value edit form, folded into updates.
	argField = "field"
	argValue = "value"
)

func (d *Dispatcher) logInteraction(ctx context.Context, args Arguments) (*Response, error) {
	fields, ignored, err := domain.NewInteractionFields(args)
	if err != nil {
		return validationFailure("Could not log interaction", err)
	}
	if len(ignored) > 0 {
		log.Debug().Strs("ignored", ignored).Msg("dispatch: log ignored unknown fields")
	}

	if d.logMode == LogReview {
		return FormData(fields), nil
	}

	it, err := d.repo.Create(ctx, fields)
	if err != nil {
		return nil, fmt.Errorf("dispatch.logInteraction: %w", err)
	}

	return FormData(it), nil
}

func (d *Dispatcher) editInteraction(ctx context.Context, args Arguments) (*Response, error) {
	id, ok := args.Int(ArgInteractionID)
	if !ok {
		metrics.DispatchFailures.WithLabelValues(metrics.FailureValidation).Inc()
		return TextMessage("Please tell me which interaction to edit by its ID."), nil
	}

	updates, ok := args.Object(ArgUpdates)
	if !ok {
		if field, hasField := args.String(argField); hasField {
			updates = map[string]any{field: args[argValue]}
		}
	}

	patch, ignored, err := domain.ParsePatch(updates)
	if err != nil {
		return validationFailure(fmt.Sprintf("Could not update interaction %d", id), err)
	}
	if len(ignored) > 0 {
		log.Debug().Int64("interaction_id", id).Strs("ignored", ignored).Msg("dispatch: edit ignored unknown fields")
	}

	if len(patch) == 0 {
		_, err := d.repo.GetByID(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			return notFound(id), nil
		}
		if err != nil {
			return nil, fmt.Errorf("dispatch.editInteraction: %w", err)
		}
		metrics.DispatchFailures.WithLabelValues(metrics.FailureValidation).Inc()
		return TextMessagef("No valid fields to update for interaction %d.", id), nil
	}

	it, err := d.repo.Update(ctx, id, patch)
	if errors.Is(err, domain.ErrNotFound) {
		return notFound(id), nil
	}
	if err != nil {
		return nil, fmt.Errorf("dispatch.editInteraction: %w", err)
	}

	return FormData(it), nil
}

func (d *Dispatcher) queryHistory(ctx context.Context, args Arguments) (*Response, error) {
	name, ok := args.String(domain.FieldHCPName)
	if !ok {
		return missingHCPName(), nil
	}

	latest, err := d.repo.List(ctx, domain.InteractionFilter{HCPName: name, Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("dispatch.queryHistory: %w", err)
	}
	if len(latest) == 0 {
		metrics.DispatchFailures.WithLabelValues(metrics.FailureNotFound).Inc()
		return TextMessagef("No history found for '%s'.", name), nil
	}

	return FormData(latest[0]), nil
}

func (d *Dispatcher) suggestNextBest(ctx context.Context, args Arguments) (*Response, error) {
	name, ok := args.String(domain.FieldHCPName)
	if !ok {
		return missingHCPName(), nil
	}

	// The rules only look at the most recent interaction.
	history, err := d.repo.List(ctx, domain.InteractionFilter{HCPName: name, Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("dispatch.suggestNextBest: %w", err)
	}

	return TextMessage(SuggestNextAction(name, history)), nil
}

func (d *Dispatcher) fetchClinicalData(_ context.Context, args Arguments) (*Response, error) {
	product, _ := args.String(ArgProductName)
	summary, ok := d.catalog.Lookup(product)
	if !ok {
		metrics.DispatchFailures.WithLabelValues(metrics.FailureNotFound).Inc()
		return TextMessage(MsgNoClinicalData), nil
	}
	return TextMessage(summary), nil
}

func validationFailure(prefix string, err error) (*Response, error) {
	var fe *domain.FieldError
	if !errors.As(err, &fe) {
		return nil, err
	}
	metrics.DispatchFailures.WithLabelValues(metrics.FailureValidation).Inc()
	return TextMessagef("%s: %s.", prefix, fe.Error()), nil
}

func notFound(id int64) *Response {
	metrics.DispatchFailures.WithLabelValues(metrics.FailureNotFound).Inc()
	return TextMessagef("Error: Interaction %d not found.", id)
}

func missingHCPName() *Response {
	metrics.DispatchFailures.WithLabelValues(metrics.FailureValidation).Inc()
	return TextMessage("Please tell me which HCP you mean.")
}
