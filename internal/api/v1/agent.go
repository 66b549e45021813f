package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/aicrm/internal/agent"
	"github.com/gosuda/aicrm/internal/dispatch"
	"github.com/gosuda/aicrm/internal/domain"
)

// ChatContext carries what the UI is currently showing.
type ChatContext struct {
	CurrentInteractionID *int64 `json:"current_interaction_id,omitempty" doc:"Interaction open in the UI, used for 'this interaction'"`
}

type AgentRequestBody struct {
	Text    string       `json:"text" minLength:"1" maxLength:"8000" doc:"User message"`
	Context *ChatContext `json:"context,omitempty" doc:"UI context"`
}

func (b *AgentRequestBody) hint() string {
	if b.Context == nil {
		return ""
	}
	return agent.ContextHint(b.Context.CurrentInteractionID)
}

type InvokeAgentInput struct {
	Body AgentRequestBody
}

type InvokeAgentOutput struct {
	Body *dispatch.Response
}

type ExtractInteractionInput struct {
	Body AgentRequestBody
}

type ExtractInteractionOutput struct {
	Body *domain.InteractionFields
}

func RegisterAgentRoutes(api huma.API, planner Planner, extractor Extractor, dispatcher Dispatcher) {
	huma.Register(api, huma.Operation{
		OperationID: "invoke-agent",
		Method:      http.MethodPost,
		Path:        "/agent/invoke",
		Summary:     "Run one chat message through the agent",
		Tags:        []string{"Agent"},
	}, func(ctx context.Context, input *InvokeAgentInput) (*InvokeAgentOutput, error) {
		decision, err := planner.Classify(ctx, input.Body.Text, input.Body.hint())
		if err != nil {
			if errors.Is(err, domain.ErrExtractionFailed) {
				log.Warn().Err(err).Msg("api: agent could not classify message")
				return nil, huma.Error400BadRequest("AI could not understand the request.")
			}
			log.Error().Err(err).Msg("api: classify failed")
			return nil, huma.Error500InternalServerError(dispatch.ErrCodeInternal)
		}

		resp, err := dispatcher.Dispatch(ctx, decision)
		if err != nil {
			// The dispatcher already logged the cause.
			return nil, huma.Error500InternalServerError(dispatch.ErrCodeInternal)
		}

		return &InvokeAgentOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "extract-interaction",
		Method:      http.MethodPost,
		Path:        "/agent/extract",
		Summary:     "Extract interaction fields from free-form notes",
		Description: "Nothing is saved. The result is meant for review before POST /interactions.",
		Tags:        []string{"Agent"},
	}, func(ctx context.Context, input *ExtractInteractionInput) (*ExtractInteractionOutput, error) {
		fields, err := extractor.Extract(ctx, input.Body.Text, input.Body.hint())
		if err != nil {
			if errors.Is(err, domain.ErrExtractionFailed) {
				log.Warn().Err(err).Msg("api: extraction failed")
				return nil, huma.Error400BadRequest("AI could not extract details.")
			}
			log.Error().Err(err).Msg("api: extract failed")
			return nil, huma.Error500InternalServerError(dispatch.ErrCodeInternal)
		}

		return &ExtractInteractionOutput{Body: fields}, nil
	})
}
