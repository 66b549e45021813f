package agent

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/aicrm/internal/domain"
)

// Planner asks the model to choose one action tool for a user message.
type Planner struct {
	c *caller
}

func NewPlanner(cm model.ToolCallingChatModel, opts ...Option) (*Planner, error) {
	c, err := newCaller("classify", cm, ActionTools(), plannerSystemPrompt, opts)
	if err != nil {
		return nil, fmt.Errorf("agent.NewPlanner: %w", err)
	}
	return &Planner{c: c}, nil
}

// Classify returns the model's decision for text. The context hint is
// prepended verbatim. A reply without a tool call becomes a direct reply.
// Model failures and malformed arguments wrap domain.ErrExtractionFailed.
func (p *Planner) Classify(ctx context.Context, text, contextHint string) (*domain.DispatchDecision, error) {
	out, err := p.c.generate(ctx, contextHint+text)
	if err != nil {
		return nil, fmt.Errorf("agent.Planner.Classify: %w: %w", domain.ErrExtractionFailed, err)
	}

	if len(out.ToolCalls) == 0 {
		return &domain.DispatchDecision{Action: domain.ActionDirectReply, Reply: out.Content}, nil
	}
	if len(out.ToolCalls) > 1 {
		log.Debug().Int("tool_calls", len(out.ToolCalls)).Msg("agent: using first of several tool calls")
	}

	call := out.ToolCalls[0]
	args, err := decodeArguments(call.Function.Arguments)
	if err != nil {
		return nil, fmt.Errorf("agent.Planner.Classify(%s): %w: %w", call.Function.Name, domain.ErrExtractionFailed, err)
	}

	return &domain.DispatchDecision{Action: call.Function.Name, Arguments: args}, nil
}
