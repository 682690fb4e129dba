package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/Bitsy-Chuck/maker-with-rlm/internal/agentclient"
	"github.com/Bitsy-Chuck/maker-with-rlm/internal/domain"
	domerrors "github.com/Bitsy-Chuck/maker-with-rlm/internal/domain/errors"
	"github.com/Bitsy-Chuck/maker-with-rlm/internal/toolregistry"
	"github.com/Bitsy-Chuck/maker-with-rlm/internal/yamlrepair"
)

// systemPrompt is the static decomposition-rules prelude every planner
// call carries (spec.md §4.8). Grounded on the teacher's static
// prompt-template constants in internal/application/executor/conditions.go
// and node_executors.go, which likewise inline a fixed instructional
// preamble ahead of per-call specifics.
const systemPrompt = `You are a task planner. Decompose the user's instruction into the
smallest set of steps that can each be completed by a single focused
agent invocation. Prefer many small steps over few large ones. Each
step must declare its tools by tier: primary_tools first, fallback_tools
only if primary tools are unavailable or fail. Chain step outputs
explicitly through input_variables and output_variable; never assume
an agent remembers a prior step's output unless it is passed in. Do
not invent tools that are not in the registry below. Respond with a
single YAML document with top-level keys 'reasoning' and 'plan'.`

// Planner drives the plan-model to produce a Plan, optionally
// feeding back a prior validation failure on retry (spec.md §4.8).
// Grounded on the teacher's ConditionEvaluator/OpenAICompletionExecutor
// prompt-assembly pattern (node_executors.go): static prelude + dynamic
// payload + tool listing, one model call, last-text-block extraction.
type Planner struct {
	client             agentclient.AgentClient
	registry           *toolregistry.Registry
	pipeline           *yamlrepair.Pipeline
	validationFeedback []domain.CheckResult
}

// NewPlanner builds a Planner over the given model client, tool
// registry, and YAML repair pipeline.
func NewPlanner(client agentclient.AgentClient, registry *toolregistry.Registry, pipeline *yamlrepair.Pipeline) *Planner {
	return &Planner{client: client, registry: registry, pipeline: pipeline}
}

// SetValidationFeedback records the failed checks of a prior attempt,
// to be folded into the next prompt and cleared after one emit
// (spec.md §4.8).
func (p *Planner) SetValidationFeedback(failures []domain.CheckResult) {
	p.validationFeedback = failures
}

// Plan drives one planner attempt: builds the prompt, calls the model,
// and decodes the response into a Plan.
func (p *Planner) Plan(ctx context.Context, instruction, modelName string) (*domain.Plan, error) {
	prompt := p.buildPrompt(instruction)
	p.validationFeedback = nil // cleared after one emit, regardless of outcome

	ch, err := p.client.RunStep(ctx, agentclient.StepRequest{Model: modelName, Prompt: prompt})
	if err != nil {
		return nil, domerrors.NewPlanParseError("agent client error", err)
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

	if lastAssistant == nil {
		return nil, domerrors.NewPlanParseError("no assistant messages received", nil)
	}
	if result != nil && result.Subtype == agentclient.ResultError {
		return nil, domerrors.NewPlanParseError("agent returned an error result", nil)
	}

	text, ok := lastAssistant.LastText()
	if !ok {
		return nil, domerrors.NewPlanParseError("no text block in last assistant message", nil)
	}

	value, _, err := p.pipeline.Parse(ctx, text)
	if err != nil {
		return nil, domerrors.NewPlanParseError("YAML repair pipeline failed", err)
	}

	return domain.DecodePlan(value)
}

// buildPrompt assembles the static system prompt, the user instruction,
// the alphabetical tool listing, and (if set) the prior validation
// feedback (spec.md §4.8).
func (p *Planner) buildPrompt(instruction string) string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\nInstruction:\n")
	b.WriteString(instruction)
	b.WriteString("\n\nAvailable tools:\n")
	for _, line := range p.registry.FormatAlphabetical() {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if len(p.validationFeedback) > 0 {
		b.WriteString("\nThe previous plan failed validation:\n")
		for _, f := range p.validationFeedback {
			fmt.Fprintf(&b, "- %s: %s\n", f.Check, f.Message)
		}
	}
	return b.String()
}
