package voting

import (
	"context"
	"fmt"
	"time"

	"github.com/Bitsy-Chuck/maker-with-rlm/internal/agentclient"
	"github.com/Bitsy-Chuck/maker-with-rlm/internal/domain"
	"github.com/Bitsy-Chuck/maker-with-rlm/internal/yamlrepair"
)

// askUserQuestionTool is the implicit "Tier 3" last-resort tool every
// step's allowed-tools set carries (spec.md §4.4).
const askUserQuestionTool = "AskUserQuestion"

// Runner drives one model invocation for one step and returns a
// structured or flagged AgentResult (spec.md §4.4). Grounded on the
// teacher's OpenAICompletionExecutor.Execute (node_executors.go), which
// builds a single prompt, calls the model, and classifies the response.
type Runner struct {
	client   agentclient.AgentClient
	pipeline *yamlrepair.Pipeline
}

// NewRunner builds a Runner over the given AgentClient and YAML repair
// pipeline.
func NewRunner(client agentclient.AgentClient, pipeline *yamlrepair.Pipeline) *Runner {
	return &Runner{client: client, pipeline: pipeline}
}

// Run invokes the agent once for the given step and context.
func (r *Runner) Run(ctx context.Context, step domain.PlanStep, stepContext string, cfg domain.TaskConfig) domain.AgentResult {
	prompt := buildPrompt(step, stepContext)
	allowedTools := allowedToolSet(step)

	ch, err := r.client.RunStep(ctx, agentclient.StepRequest{
		Model:        cfg.ModelName,
		Prompt:       prompt,
		AllowedTools: allowedTools,
	})
	if err != nil {
		return domain.AgentResult{Error: fmt.Sprintf("agent client error: %v", err)}
	}

	var lastAssistant *agentclient.AssistantMessage
	var result *agentclient.ResultMessage

	for msg := range ch {
		switch m := msg.(type) {
		case agentclient.AssistantMessage:
			am := m
			lastAssistant = &am
		case agentclient.ResultMessage:
			rm := m
			result = &rm
		}
	}

	cost, duration := 0.0, time.Duration(0)
	if result != nil {
		cost = result.TotalCost
		duration = time.Duration(result.DurationS * float64(time.Second))
	}

	if lastAssistant == nil {
		return domain.AgentResult{Error: "No assistant messages received", Cost: cost, Duration: duration}
	}

	if result != nil && result.Subtype == agentclient.ResultError {
		return domain.AgentResult{Error: "Agent returned an error result", Cost: cost, Duration: duration}
	}

	text, ok := lastAssistant.LastText()
	if !ok {
		return domain.AgentResult{Error: "No text block in last assistant message", Cost: cost, Duration: duration}
	}

	value, wasRepaired, err := r.pipeline.Parse(ctx, text)
	if err != nil {
		return domain.AgentResult{
			Error:       fmt.Sprintf("YAML parse error: %v", err),
			RawResponse: text,
			Cost:        cost,
			Duration:    duration,
		}
	}

	return domain.AgentResult{
		Output:      value,
		RawResponse: text,
		WasRepaired: wasRepaired,
		Cost:        cost,
		Duration:    duration,
	}
}

// buildPrompt templates the step's task description, context, and
// output schema into the agent's instructions (spec.md §4.4).
func buildPrompt(step domain.PlanStep, stepContext string) string {
	ctxText := stepContext
	if ctxText == "" {
		ctxText = "None"
	}
	return fmt.Sprintf(
		"Task: %s\n\nContext:\n%s\n\nRespond with YAML matching this output schema:\n%s\n",
		step.TaskDescription, ctxText, step.OutputSchema,
	)
}

// allowedToolSet is primary_tools ∪ fallback_tools ∪ {AskUserQuestion},
// with AskUserQuestion implicitly added if absent (spec.md §4.4).
func allowedToolSet(step domain.PlanStep) []string {
	seen := make(map[string]bool)
	var tools []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			tools = append(tools, name)
		}
	}
	for _, t := range step.PrimaryTools {
		add(t)
	}
	for _, t := range step.FallbackTools {
		add(t)
	}
	add(askUserQuestionTool)
	return tools
}
