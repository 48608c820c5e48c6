package agent

import (
	"context"

	"go.uber.org/zap"

	"resumeforge/internal/llmclient"
)

// LLMInvoker bridges agent specs to an LLMClient. The raw response is
// emitted as the final event's text output; parsing belongs downstream.
type LLMInvoker struct {
	Client  llmclient.LLMClient
	Prompts *PromptCache
	Logger  *zap.Logger
}

func NewLLMInvoker(client llmclient.LLMClient, prompts *PromptCache, log *zap.Logger) *LLMInvoker {
	if log == nil {
		log = zap.NewNop()
	}
	return &LLMInvoker{Client: client, Prompts: prompts, Logger: log}
}

func (i *LLMInvoker) Invoke(ctx context.Context, spec Spec, input map[string]any) (<-chan Event, error) {
	ch := make(chan Event, 1)
	prompt := i.Prompts.Render(spec)
	callCtx := llmclient.WithAgent(ctx, spec.Name)

	go func() {
		defer close(ch)
		raw, err := i.Client.GenerateJSON(callCtx, prompt, input)
		if err != nil {
			// Closing without a final event marks the invocation failed;
			// the orchestrator isolates it from sibling tasks.
			i.Logger.Warn("agent invocation failed",
				zap.String("agent", spec.Name), zap.Error(err))
			return
		}
		select {
		case ch <- Event{Final: true, Text: string(raw)}:
		case <-ctx.Done():
		}
	}()
	return ch, nil
}
