package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/petasbytes/stock-agent/console"
)

// AskUserInput defines the input schema for the ask_user_for_clarification tool.
type AskUserInput struct {
	QuestionToUser string `json:"question_to_user" jsonschema_description:"The question to ask the user"`
}

var AskUserInputSchema = GenerateSchema[AskUserInput]()

// NewAskUser returns the ask_user_for_clarification tool bound to out.
// The function blocks until an answer is provided; there is no timeout.
func NewAskUser(out *console.Console) ToolDefinition {
	return ToolDefinition{
		Name:        NameAskUser,
		Description: "Poses a question to the user and returns their response",
		InputSchema: AskUserInputSchema,
		Function: func(ctx context.Context, input json.RawMessage) (*string, error) {
			var in AskUserInput
			if err := json.Unmarshal(input, &in); err != nil {
				return nil, err
			}
			if in.QuestionToUser == "" {
				return nil, fmt.Errorf("question_to_user is required")
			}
			out.Printf("Agent needs clarification: %s", in.QuestionToUser)
			answer := out.Ask("Your response: ")
			return &answer, nil
		},
	}
}
