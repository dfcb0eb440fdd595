// Package memory holds the in-memory conversation transcript.
//
// Transcript model:
//   - Messages are appended in exchange order and never pruned or persisted.
//   - An assistant message carries either text content or one tool
//     invocation, not both.
//   - Every tool message answers the invocation id of the assistant message
//     immediately before it.
package memory
