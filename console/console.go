// Package console mediates between the agent and whoever is driving it.
// Output lines go to a replaceable sink; clarification answers come back
// through a buffered channel so they can arrive before anyone is waiting.
package console

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// answerBuffer is how many answers can queue up ahead of a matching Ask.
const answerBuffer = 16

// Console is safe for concurrent use. A nil sink drops output silently;
// that is not an error, asking still blocks until an answer arrives.
type Console struct {
	mu      sync.Mutex
	sink    func(string)
	answers chan string
	waiting atomic.Int32
}

func New() *Console {
	return &Console{answers: make(chan string, answerBuffer)}
}

// SetOutput installs fn as the output sink, replacing any previous one.
// Passing nil clears the sink. A pending Ask is not disturbed.
func (c *Console) SetOutput(fn func(string)) {
	c.mu.Lock()
	c.sink = fn
	c.mu.Unlock()
}

// Print delivers msg to the current sink, if any.
func (c *Console) Print(msg string) {
	c.mu.Lock()
	sink := c.sink
	c.mu.Unlock()
	if sink != nil {
		sink(msg)
	}
}

func (c *Console) Printf(format string, args ...any) {
	c.Print(fmt.Sprintf(format, args...))
}

// Ask emits prompt through the sink and blocks the calling goroutine until
// an answer arrives via ProvideAnswer. An in-flight Ask cannot be cancelled.
// Pending turns true before the prompt is emitted, so a caller that reacts
// to the prompt always sees the ask as pending.
func (c *Console) Ask(prompt string) string {
	c.waiting.Add(1)
	defer c.waiting.Add(-1)
	c.Print(prompt)
	return <-c.answers
}

// ProvideAnswer hands text to the oldest outstanding Ask, or buffers it in
// FIFO order for the next one. Callable from any goroutine.
func (c *Console) ProvideAnswer(text string) {
	c.answers <- text
}

// Pending reports whether an Ask is currently blocked. Frontends use this
// to route incoming lines between answers and fresh queries.
func (c *Console) Pending() bool {
	return c.waiting.Load() > 0
}
