// Package quality runs the informational plan-quality scoring pass
// the CLI's --quality-checks flag enables (spec.md §6, supplemented
// from the pack's QualityChecker). Every result is advisory: it never
// gates validation or execution, and its only consumer is the CLI's
// printed summary.
package quality

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Bitsy-Chuck/maker-with-rlm/internal/agentclient"
	"github.com/Bitsy-Chuck/maker-with-rlm/internal/domain"
)

// Check names one quality dimension an LLM is asked to score 0.0-1.0.
type Check string

const (
	SinglePurpose        Check = "single_purpose"
	SelfContained        Check = "self_contained"
	MaxKTools            Check = "max_k_tools"
	NonOverlapping       Check = "non_overlapping"
	MaximallyDecomposed  Check = "maximally_decomposed"
	AppropriatelyMerged  Check = "appropriately_merged"
)

// Checks is every dimension RunAll scores, in run order.
var Checks = []Check{
	SinglePurpose,
	SelfContained,
	MaxKTools,
	NonOverlapping,
	MaximallyDecomposed,
	AppropriatelyMerged,
}

// planLevel holds the checks that judge the plan as a whole rather
// than step-by-step.
var planLevel = map[Check]bool{
	NonOverlapping:      true,
	AppropriatelyMerged: true,
}

// defaultMaxK bounds how many tools a single step may list before
// max_k_tools marks it down, matching the pack's default.
const defaultMaxK = 5

// Result is one check's score and the model's justification for it.
type Result struct {
	Check   Check
	Score   float64
	Details string
}

// Checker scores a validated Plan against every Check by asking an
// AgentClient to judge it, one model call per check.
type Checker struct {
	client agentclient.AgentClient
}

// NewChecker builds a Checker over the given AgentClient.
func NewChecker(client agentclient.AgentClient) *Checker {
	return &Checker{client: client}
}

// RunAll scores plan against every Check and returns one Result per
// check, in Checks order.
func (c *Checker) RunAll(ctx context.Context, model string, plan *domain.Plan) ([]Result, error) {
	results := make([]Result, 0, len(Checks))
	for _, check := range Checks {
		prompt := buildPrompt(check, plan)
		ch, err := c.client.RunStep(ctx, agentclient.StepRequest{Model: model, Prompt: prompt})
		if err != nil {
			return nil, fmt.Errorf("quality check %s: %w", check, err)
		}

		var lastText string
		for msg := range ch {
			if am, ok := msg.(agentclient.AssistantMessage); ok {
				if text, ok := am.LastText(); ok {
					lastText = text
				}
			}
		}

		score, details := parseScore(lastText)
		results = append(results, Result{Check: check, Score: score, Details: details})
	}
	return results, nil
}

// AggregateScore is the equally-weighted average of every result's
// score, or 0 for an empty slice.
func AggregateScore(results []Result) float64 {
	if len(results) == 0 {
		return 0
	}
	var sum float64
	for _, r := range results {
		sum += r.Score
	}
	return sum / float64(len(results))
}

// buildPrompt assembles the scoring prompt for check over plan: plan-
// level checks see the whole plan, per-step checks are still given the
// full plan text since steps are judged relative to their neighbors.
func buildPrompt(check Check, plan *domain.Plan) string {
	planText := planToText(plan)

	var instruction string
	switch check {
	case SinglePurpose:
		instruction = "Does every step serve exactly one purpose, with no step doing two unrelated jobs?"
	case SelfContained:
		instruction = "Does every step's task_description carry everything the step needs, without silently assuming undeclared context?"
	case MaxKTools:
		instruction = fmt.Sprintf("Does every step list at most %d primary_tools?", defaultMaxK)
	case NonOverlapping:
		instruction = "Do any two steps duplicate each other's work?"
	case MaximallyDecomposed:
		instruction = "Is the plan broken down as far as it reasonably can be, with no step that should be split into two?"
	case AppropriatelyMerged:
		instruction = "Are any adjacent steps so tightly coupled they should be merged into one?"
	default:
		instruction = string(check)
	}

	label := "step_yaml"
	if planLevel[check] {
		label = "plan_yaml"
	}

	return fmt.Sprintf(
		"Quality check: %s\n\n%s\n\n%s:\n%s\n\nRespond with exactly two lines:\nscore: <0.0-1.0>\ndetails: <one sentence>\n",
		check, instruction, label, planText,
	)
}

// planToText renders a plan to the flat text representation quality
// prompts score against.
func planToText(plan *domain.Plan) string {
	lines := []string{fmt.Sprintf("Reasoning: %s", plan.Reasoning)}
	for _, step := range plan.Steps {
		lines = append(lines, stepToText(step))
	}
	return strings.Join(lines, "\n")
}

// stepToText renders one step to the same text shape planToText uses
// for the whole plan.
func stepToText(step domain.PlanStep) string {
	return fmt.Sprintf(
		"Step %d: [%s] %s\n  Description: %s\n  Tools: %v (fallback: %v)\n  Output: %s (%s)",
		step.Step, step.TaskType, step.Title, step.TaskDescription,
		step.PrimaryTools, step.FallbackTools, step.OutputVariable, step.OutputSchema,
	)
}

// parseScore pulls the "score: <float>" / "details: <text>" lines out
// of a scoring response. An unparsable or missing score scores 0 and
// carries the raw response as its details, so a misbehaving model
// degrades the aggregate rather than aborting the run.
func parseScore(response string) (float64, string) {
	var score float64
	var details string
	var sawScore bool

	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(strings.ToLower(line), "score:"):
			raw := strings.TrimSpace(line[strings.Index(line, ":")+1:])
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				score = v
				sawScore = true
			}
		case strings.HasPrefix(strings.ToLower(line), "details:"):
			details = strings.TrimSpace(line[strings.Index(line, ":")+1:])
		}
	}

	if !sawScore {
		return 0, response
	}
	if details == "" {
		details = fmt.Sprintf("score: %g", score)
	}
	return score, details
}
