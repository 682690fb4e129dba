package agentclient

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

// costPerKToken is a flat estimate used since go-openai's streaming API
// does not report per-call billing; it mirrors the teacher's habit
// (node_executors.go resolveAPIKey/Execute) of tracking a best-effort
// cost figure rather than leaving it unset. RunStep applies it to the
// response's character count, which stands in for its token count.
const costPerKToken = 0.003

// OpenAIClient drives one agent invocation over a single OpenAI chat
// completion, translating the streaming deltas into the AssistantMessage
// and terminal ResultMessage shape AgentClient promises. Grounded on
// OpenAICompletionExecutor.Execute (node_executors.go), which builds an
// openai.ChatCompletionRequest from a single user prompt and a model
// name taken from node config.
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient builds an OpenAIClient for the given API key.
func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{client: openai.NewClient(apiKey)}
}

// RunStep issues one streaming chat completion and republishes it as the
// AgentClient message stream contract.
func (c *OpenAIClient) RunStep(ctx context.Context, req StepRequest) (<-chan Message, error) {
	ch := make(chan Message, 4)

	chatReq := openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Stream: true,
	}

	stream, err := c.client.CreateChatCompletionStream(ctx, chatReq)
	if err != nil {
		close(ch)
		return ch, err
	}

	go func() {
		defer close(ch)
		defer stream.Close()

		start := time.Now()
		var text string
		subtype := ResultSuccess

		for {
			resp, err := stream.Recv()
			if err != nil {
				break
			}
			if len(resp.Choices) == 0 {
				continue
			}
			delta := resp.Choices[0].Delta.Content
			if delta == "" {
				continue
			}
			text += delta
		}

		if text == "" {
			subtype = ResultError
		} else {
			ch <- AssistantMessage{ContentBlocks: []ContentBlock{{Type: ContentText, Text: text}}}
		}

		duration := time.Since(start)
		estimatedCost := float64(len(text)) / 1000.0 * costPerKToken
		log.Debug().Str("model", req.Model).Dur("duration", duration).Msg("agent step completed")

		ch <- ResultMessage{TotalCost: estimatedCost, DurationS: duration.Seconds(), Subtype: subtype}
	}()

	return ch, nil
}
