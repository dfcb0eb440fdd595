// Package agent runs the query loop that turns user questions into
// answers.
//
// Each query appends a user message to the shared conversation and then
// alternates between model completions and tool executions until the model
// replies without requesting a tool. The transcript grows in strict order:
// the user message, then for every tool round an assistant message carrying
// the invocation followed by its result message, then the final assistant
// answer.
//
// The loop is synchronous throughout. A clarification tool that waits on
// console input blocks the whole query until an answer is provided.
package agent
