// Package agent turns free text into structured decisions with a tool
// calling chat model.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/gosuda/aicrm/internal/metrics"
)

var errNoToolCall = errors.New("model returned no tool call")

type options struct {
	timeout time.Duration
	now     func() time.Time
}

type Option func(*options)

// WithTimeout bounds every model call. Zero leaves only the caller's deadline.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithClock overrides the source of today's date in prompts.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// caller runs one templated request against a model bound to a tool set.
type caller struct {
	name     string
	model    model.ToolCallingChatModel
	template prompt.ChatTemplate
	opts     options
}

func newCaller(name string, cm model.ToolCallingChatModel, tools []*schema.ToolInfo, system string, opts []Option) (*caller, error) {
	if cm == nil {
		return nil, errors.New("nil chat model")
	}
	bound, err := cm.WithTools(tools)
	if err != nil {
		return nil, fmt.Errorf("bind tools: %w", err)
	}

	return &caller{
		name:     name,
		model:    bound,
		template: newTemplate(system),
		opts:     buildOptions(opts),
	}, nil
}

func (c *caller) generate(ctx context.Context, input string) (*schema.Message, error) {
	msgs, err := c.template.Format(ctx, map[string]any{
		varToday: c.opts.now().Format(time.DateOnly),
		varInput: input,
	})
	if err != nil {
		return nil, fmt.Errorf("format prompt: %w", err)
	}

	if c.opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := c.model.Generate(ctx, msgs)
	metrics.ObserveLLM(c.name, start, err)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	if out == nil {
		return nil, errors.New("generate: empty response")
	}

	return out, nil
}

// decodeArguments parses a tool call's JSON arguments. Empty input is an
// empty object.
func decodeArguments(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]any{}, nil
	}

	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("decode tool arguments: %w", err)
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

// jsonFromContent recovers a JSON object from a plain-text reply, with or
// without a markdown code fence.
func jsonFromContent(content string) (string, bool) {
	s := strings.TrimSpace(content)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		return s, true
	}
	return "", false
}
