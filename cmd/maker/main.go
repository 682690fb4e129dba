// Command maker drives one natural-language task through the plan→
// validate→execute pipeline from the command line (spec.md §6, "CLI
// surface"). Grounded on the teacher's cmd/server/main.go: flag-based
// configuration layered over env-loaded defaults, structured startup
// logging, and a clean top-level exit-code contract.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/Bitsy-Chuck/maker-with-rlm/internal/agentclient"
	"github.com/Bitsy-Chuck/maker-with-rlm/internal/domain"
	"github.com/Bitsy-Chuck/maker-with-rlm/internal/infrastructure/config"
	"github.com/Bitsy-Chuck/maker-with-rlm/internal/infrastructure/logging"
	"github.com/Bitsy-Chuck/maker-with-rlm/internal/orchestrator"
	"github.com/Bitsy-Chuck/maker-with-rlm/internal/quality"
	"github.com/Bitsy-Chuck/maker-with-rlm/internal/toolregistry"
	"github.com/Bitsy-Chuck/maker-with-rlm/internal/voting"
	"github.com/Bitsy-Chuck/maker-with-rlm/internal/yamlrepair"
)

func main() {
	var (
		model              = flag.String("model", "", "Model name (overrides config default)")
		votingStrategy     = flag.String("voting", "none", "Voting strategy: none, majority, first_to_k")
		votingN            = flag.Int("voting-n", 3, "Target valid sample count for majority voting")
		votingK            = flag.Int("voting-k", 2, "Lead threshold for first_to_k voting")
		maxVotingSamples   = flag.Int("max-voting-samples", 10, "Hard cap on samples per step vote")
		stepMaxRetries     = flag.Int("step-max-retries", -1, "Retries in NoVoter (overrides config default)")
		maxPlannerRetries  = flag.Int("max-planner-retries", -1, "Planner retry attempts after validation failure (overrides config default)")
		enableQualityFlag  = flag.Bool("quality-checks", false, "Enable informational plan quality scoring")
	)
	flag.Parse()

	instruction := flag.Arg(0)
	if instruction == "" {
		fmt.Fprintln(os.Stderr, "usage: maker [flags] <instruction>")
		os.Exit(2)
	}

	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	modelName := cfg.DefaultModel
	if *model != "" {
		modelName = *model
	}
	maxPlanner := cfg.MaxPlannerRetries
	if *maxPlannerRetries >= 0 {
		maxPlanner = *maxPlannerRetries
	}
	stepRetries := cfg.StepMaxRetries
	if *stepMaxRetries >= 0 {
		stepRetries = *stepMaxRetries
	}

	taskConfig := domain.TaskConfig{
		Instruction:         instruction,
		ModelName:           modelName,
		VotingStrategy:      domain.VotingStrategy(*votingStrategy),
		VotingN:             *votingN,
		VotingK:             *votingK,
		MaxVotingSamples:    *maxVotingSamples,
		StepMaxRetries:      stepRetries,
		MaxPlannerRetries:   maxPlanner,
		EnableQualityChecks: *enableQualityFlag,
	}
	if err := taskConfig.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}

	registry := toolregistry.New()
	for name, desc := range defaultBuiltinTools() {
		if err := registry.RegisterBuiltin(name, desc); err != nil {
			fmt.Fprintf(os.Stderr, "failed to register builtin tool %q: %v\n", name, err)
			os.Exit(1)
		}
	}

	client := agentclient.NewOpenAIClient(cfg.OpenAIAPIKey)
	pipeline := yamlrepair.New(nil)
	runner := voting.NewRunner(client, pipeline)
	planner := orchestrator.NewPlanner(client, registry, pipeline)
	validator := orchestrator.NewValidator(registry)

	orch := orchestrator.New(planner, validator, registry, runner)
	orch.SetIDGenerator(uuid.NewString)

	ctx := context.Background()
	taskFailed := false
	var lastPlan *domain.Plan
	var validatedPlan *domain.Plan
	err := orch.Run(ctx, instruction, taskConfig, func(event domain.Event) {
		printEvent(os.Stdout, event)
		switch e := event.(type) {
		case domain.PlanCreatedEvent:
			lastPlan = e.Plan
		case domain.ValidationPassedEvent:
			validatedPlan = lastPlan
		case domain.TaskFailedEvent:
			taskFailed = true
		}
	})

	if taskConfig.EnableQualityChecks && validatedPlan != nil {
		checker := quality.NewChecker(client)
		results, qErr := checker.RunAll(ctx, taskConfig.ModelName, validatedPlan)
		if qErr != nil {
			fmt.Fprintf(os.Stderr, "quality checks failed: %v\n", qErr)
		} else {
			printQualityResults(os.Stdout, results)
		}
	}

	if err != nil || taskFailed {
		os.Exit(1)
	}
}

// defaultBuiltinTools lists the built-in tools available to every plan
// step before any MCP server is registered (spec.md §4.8, the
// "AskUserQuestion" Tier-3 tool plus the pack's BUILTIN_TOOLS set).
// Grounded on the teacher's default node-type registrations in
// internal/node/registry.go, with names and descriptions taken from
// original_source/'s src/maker/tools/builtin.py.
func defaultBuiltinTools() map[string]string {
	return map[string]string{
		"Read":            "Read files (text, images, PDFs, notebooks)",
		"Write":           "Write files",
		"Edit":            "Edit file content",
		"Bash":            "Execute shell commands",
		"Glob":            "File pattern matching",
		"Grep":            "Search with regex",
		"WebSearch":       "Search the web",
		"WebFetch":        "Fetch and analyze web content",
		"AskUserQuestion": "Get user input (Tier-3 implicit tool)",
	}
}
