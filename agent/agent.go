package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/petasbytes/stock-agent/console"
	"github.com/petasbytes/stock-agent/internal/metrics"
	"github.com/petasbytes/stock-agent/internal/provider"
	"github.com/petasbytes/stock-agent/internal/telemetry"
	"github.com/petasbytes/stock-agent/memory"
	"github.com/petasbytes/stock-agent/tools"
)

// DefaultSystemPrompt frames the model as a stock assistant and names its
// tool repertoire.
const DefaultSystemPrompt = `You are a helpful stock information assistant. You have access to tools that can:
1. Get current stock prices
2. Find company CEOs
3. Find ticker symbols for company names
4. Ask users for clarification when needed

Use these tools to help answer user questions about stocks and companies. If information is ambiguous, ask for clarification.`

// ErrTurnLimit is returned by ProcessQuery when the configured maximum
// number of model rounds is exhausted before a terminal answer arrives.
var ErrTurnLimit = errors.New("turn limit reached")

// noResultText stands in for tools that ran but produced nothing.
const noResultText = "No result found"

// Agent drives the query loop: model call, tool dispatch, repeat until the
// model answers in plain text. One Agent holds one conversation; queries
// processed on it share that transcript.
type Agent struct {
	llm          provider.Client
	registry     *tools.Registry
	console      *console.Console
	conv         *memory.Conversation
	systemPrompt string
	maxTurns     int
	rec          *metrics.Recorder
}

// Option adjusts Agent construction.
type Option func(*Agent)

// WithSystemPrompt replaces DefaultSystemPrompt.
func WithSystemPrompt(prompt string) Option {
	return func(a *Agent) { a.systemPrompt = prompt }
}

// WithMaxTurns caps the number of model rounds per query. Zero or negative
// means unbounded, which is the default.
func WithMaxTurns(n int) Option {
	return func(a *Agent) { a.maxTurns = n }
}

// WithMetrics attaches a Prometheus recorder. A nil recorder is fine.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(a *Agent) { a.rec = rec }
}

func New(llm provider.Client, registry *tools.Registry, cons *console.Console, opts ...Option) *Agent {
	a := &Agent{
		llm:          llm,
		registry:     registry,
		console:      cons,
		conv:         memory.NewConversation(),
		systemPrompt: DefaultSystemPrompt,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Transcript returns a copy of the conversation so far.
func (a *Agent) Transcript() []memory.Message {
	return a.conv.Messages()
}

// SetOutputSink routes the agent's console output (tool traces, diagnostics,
// clarification prompts) to fn. A nil fn drops output.
func (a *Agent) SetOutputSink(fn func(string)) {
	a.console.SetOutput(fn)
}

// ProvideAnswer feeds a user reply to a pending clarification.
func (a *Agent) ProvideAnswer(text string) {
	a.console.ProvideAnswer(text)
}

// AwaitingClarification reports whether a query is blocked on the user.
func (a *Agent) AwaitingClarification() bool {
	return a.console.Pending()
}

// ProcessQuery appends the user query to the conversation and loops until
// the model returns a plain-text answer. Each round sends the full
// transcript; when the model requests tools, only the first request is
// honored and the rest are dropped. Tool dispatch failures, undecodable
// tool arguments, and model errors abort the query with an error.
func (a *Agent) ProcessQuery(ctx context.Context, query string) (string, error) {
	turnID, ok := telemetry.TurnIDFromContext(ctx)
	if !ok {
		turnID = telemetry.NewTurnID()
		ctx = telemetry.WithTurnID(ctx, turnID)
	}
	telemetry.EmitQueryFeatures(ctx, query)

	finish := func(rounds int, outcome string) {
		a.rec.QueryProcessed(outcome)
		telemetry.Emit("query_completed", map[string]any{
			"turn_id": turnID,
			"rounds":  rounds,
			"outcome": outcome,
		})
	}

	a.conv.Append(memory.UserMessage(query))

	for round := 0; ; round++ {
		if a.maxTurns > 0 && round >= a.maxTurns {
			finish(round, metrics.OutcomeTurnLimit)
			return "", ErrTurnLimit
		}

		msgs := a.conv.Messages()
		specs := a.registry.Specs()
		start := time.Now()
		resp, err := a.llm.Complete(ctx, provider.Request{
			System:   a.systemPrompt,
			Messages: msgs,
			Tools:    specs,
		})
		emitModelCall := func(toolCalls int, errStr string) {
			fields := map[string]any{
				"turn_id":     turnID,
				"duration_ms": time.Since(start).Milliseconds(),
				"messages":    len(msgs),
				"tools":       len(specs),
				"tool_calls":  toolCalls,
			}
			if errStr != "" {
				fields["error"] = errStr
			} else {
				fields["error"] = nil
			}
			telemetry.Emit("model_call", fields)
		}
		if err != nil {
			emitModelCall(0, "model error")
			a.rec.ModelCall(metrics.OutcomeError)
			finish(round, metrics.OutcomeError)
			return "", fmt.Errorf("model completion: %w", err)
		}
		emitModelCall(len(resp.ToolCalls), "")
		a.rec.ModelCall(metrics.OutcomeOK)

		if len(resp.ToolCalls) == 0 {
			a.conv.Append(memory.AssistantMessage(resp.Content))
			finish(round+1, metrics.OutcomeOK)
			return resp.Content, nil
		}

		// Only the first requested call is honored.
		call := resp.ToolCalls[0]

		// Arguments must decode before anything lands in the transcript.
		var args map[string]any
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			finish(round+1, metrics.OutcomeError)
			return "", fmt.Errorf("decode arguments for %s: %w", call.Name, err)
		}

		a.conv.Append(memory.AssistantToolCall(call))
		a.console.Printf("Executing tool: %s with args: %s", call.Name, call.Arguments)
		if call.Name == tools.NameAskUser {
			a.rec.Clarification()
			telemetry.Emit("clarification", map[string]any{"turn_id": turnID, "phase": "asked"})
		}

		content, err := a.runTool(ctx, turnID, call)
		if err != nil {
			finish(round+1, metrics.OutcomeError)
			return "", err
		}
		if call.Name == tools.NameAskUser {
			telemetry.Emit("clarification", map[string]any{"turn_id": turnID, "phase": "answered"})
		}
		a.conv.Append(memory.ToolResult(call.ID, call.Name, content))
	}
}

// runTool dispatches one call and renders the transcript content for its
// result. A nil result reads as noResultText; a tool error aborts.
func (a *Agent) runTool(ctx context.Context, turnID string, call memory.ToolCall) (string, error) {
	emit := func(durationMs int64, outputSize int, errStr string) {
		fields := map[string]any{
			"tool_name":   call.Name,
			"duration_ms": durationMs,
			"input_size":  len(call.Arguments),
			"output_size": outputSize,
			"turn_id":     turnID,
		}
		if errStr != "" {
			fields["error"] = errStr
		} else {
			fields["error"] = nil
		}
		telemetry.Emit("tool_exec", fields)
	}

	start := time.Now()
	result, err := a.registry.Dispatch(ctx, call.Name, json.RawMessage(call.Arguments))
	if err != nil {
		// Generic error string in telemetry; the detailed message goes to the caller.
		emit(time.Since(start).Milliseconds(), 0, "tool error")
		a.rec.ToolExecution(call.Name, metrics.OutcomeError)
		return "", fmt.Errorf("tool %s: %w", call.Name, err)
	}
	if result == nil {
		emit(time.Since(start).Milliseconds(), 0, "")
		a.rec.ToolExecution(call.Name, metrics.OutcomeNoResult)
		return noResultText, nil
	}
	emit(time.Since(start).Milliseconds(), len(*result), "")
	a.rec.ToolExecution(call.Name, metrics.OutcomeOK)
	return *result, nil
}
