package llmclient

import "context"

type ctxKey int

const agentKey ctxKey = iota

// WithAgent tags the context with the agent name driving the current call.
// Backends and middleware use it for routing and log fields.
func WithAgent(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, agentKey, name)
}

// AgentFrom returns the agent name set by WithAgent, or "".
func AgentFrom(ctx context.Context) string {
	if v, ok := ctx.Value(agentKey).(string); ok {
		return v
	}
	return ""
}
