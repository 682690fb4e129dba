// Package agentclient defines the AgentClient contract — the opaque
// language-model collaborator spec.md §1 treats as external — and a
// concrete implementation backed by github.com/sashabaranov/go-openai,
// grounded on the teacher's OpenAICompletionExecutor/OpenAIResponsesExecutor
// (internal/application/executor/node_executors.go).
package agentclient

import "context"

// ContentBlockType distinguishes text from tool-use content within an
// assistant message (spec.md §4.4).
type ContentBlockType string

const (
	ContentText    ContentBlockType = "text"
	ContentToolUse ContentBlockType = "tool_use"
)

// ContentBlock is one piece of an assistant message.
type ContentBlock struct {
	Type ContentBlockType
	Text string

	ToolName  string
	ToolInput map[string]any
}

// ResultSubtype reports whether the terminal message signals success.
type ResultSubtype string

const (
	ResultSuccess ResultSubtype = "success"
	ResultError   ResultSubtype = "error"
)

// Message is the sum type streamed back from one agent invocation
// (spec.md §4.4): either an AssistantMessage or a terminal ResultMessage.
type Message interface {
	isAgentMessage()
}

// AssistantMessage carries one assistant turn's content blocks.
type AssistantMessage struct {
	ContentBlocks []ContentBlock
}

func (AssistantMessage) isAgentMessage() {}

// LastText returns the text of the last text-typed content block, if
// any (spec.md §4.4: "take the last text block of the last assistant
// message").
func (m AssistantMessage) LastText() (string, bool) {
	for i := len(m.ContentBlocks) - 1; i >= 0; i-- {
		if m.ContentBlocks[i].Type == ContentText {
			return m.ContentBlocks[i].Text, true
		}
	}
	return "", false
}

// ResultMessage is the terminal message of one invocation, carrying
// cost/duration/outcome (spec.md §4.4).
type ResultMessage struct {
	TotalCost float64
	DurationS float64
	Subtype   ResultSubtype
}

func (ResultMessage) isAgentMessage() {}

// StepRequest is one agent invocation request (spec.md §4.4).
type StepRequest struct {
	Model        string
	Prompt       string
	AllowedTools []string
}

// AgentClient drives one model invocation for one step, yielding an
// asynchronous stream of messages terminated by exactly one
// ResultMessage (spec.md §1, §4.4). It is an external collaborator;
// only its contract is covered by this design.
type AgentClient interface {
	RunStep(ctx context.Context, req StepRequest) (<-chan Message, error)
}
