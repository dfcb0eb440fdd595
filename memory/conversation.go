package memory

// Roles as they appear on the chat wire.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ToolCall records one tool invocation requested by the model.
// Arguments is the serialized JSON argument object exactly as the model
// produced it.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Message is one entry of the conversation transcript.
// An assistant message carrying ToolCalls has empty Content; a tool message
// names the invocation it answers via ToolCallID and ToolName.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolName   string     `json:"tool_name,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
}

func UserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

func AssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Content: text}
}

// AssistantToolCall builds the assistant message for a tool invocation.
// Content stays empty: the turn's content is the invocation itself.
func AssistantToolCall(call ToolCall) Message {
	return Message{Role: RoleAssistant, ToolCalls: []ToolCall{call}}
}

// ToolResult builds the tool message answering the invocation callID.
func ToolResult(callID, name, content string) Message {
	return Message{Role: RoleTool, ToolCallID: callID, ToolName: name, Content: content}
}

// Conversation is an append-only transcript. It grows for the lifetime of
// the agent and is never pruned.
type Conversation struct {
	msgs []Message
}

func NewConversation() *Conversation {
	return &Conversation{}
}

func (c *Conversation) Append(m Message) {
	c.msgs = append(c.msgs, m)
}

// Messages returns a copy of the transcript in append order. Mutating the
// returned slice does not affect the conversation.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.msgs))
	copy(out, c.msgs)
	return out
}

func (c *Conversation) Len() int {
	return len(c.msgs)
}
