package agent

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/gosuda/aicrm/internal/domain"
)

// Extractor turns free-text notes into a candidate interaction record.
type Extractor struct {
	c *caller
}

func NewExtractor(cm model.ToolCallingChatModel, opts ...Option) (*Extractor, error) {
	c, err := newCaller("extract", cm, []*schema.ToolInfo{ExtractionTool()}, extractorSystemPrompt, opts)
	if err != nil {
		return nil, fmt.Errorf("agent.NewExtractor: %w", err)
	}
	return &Extractor{c: c}, nil
}

// Extract returns all ten fields; anything the model left out is nil.
// No retries are attempted. Every failure wraps domain.ErrExtractionFailed.
func (e *Extractor) Extract(ctx context.Context, rawText, contextHint string) (*domain.InteractionFields, error) {
	out, err := e.c.generate(ctx, contextHint+rawText)
	if err != nil {
		return nil, fmt.Errorf("agent.Extractor.Extract: %w: %w", domain.ErrExtractionFailed, err)
	}

	var raw string
	switch {
	case len(out.ToolCalls) > 0:
		raw = out.ToolCalls[0].Function.Arguments
	default:
		s, ok := jsonFromContent(out.Content)
		if !ok {
			return nil, fmt.Errorf("agent.Extractor.Extract: %w: %w", domain.ErrExtractionFailed, errNoToolCall)
		}
		raw = s
	}

	args, err := decodeArguments(raw)
	if err != nil {
		return nil, fmt.Errorf("agent.Extractor.Extract: %w: %w", domain.ErrExtractionFailed, err)
	}

	fields, _, err := domain.NewInteractionFields(args)
	if err != nil {
		return nil, fmt.Errorf("agent.Extractor.Extract: %w: %w", domain.ErrExtractionFailed, err)
	}

	return fields, nil
}
