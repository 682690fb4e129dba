package domain

// TaskType distinguishes the two kinds of plan step (spec.md §3).
type TaskType string

const (
	ActionStep      TaskType = "action_step"
	ConditionalStep TaskType = "conditional_step"
)

// Sentinel values for PlanStep.NextStepSequenceNumber.
const (
	NextStepTerminal    = -1
	NextStepConditional = -2
)

// PlanStep is one unit of work in a Plan (spec.md §3).
type PlanStep struct {
	Step                     int      `yaml:"step"`
	TaskType                 TaskType `yaml:"task_type"`
	Title                    string   `yaml:"title"`
	TaskDescription          string   `yaml:"task_description"`
	OutputSchema             string   `yaml:"output_schema"`
	PrimaryTools             []string `yaml:"primary_tools"`
	FallbackTools            []string `yaml:"fallback_tools"`
	PrimaryToolInstructions  string   `yaml:"primary_tool_instructions"`
	FallbackToolInstructions string   `yaml:"fallback_tool_instructions"`
	InputVariables           []string `yaml:"input_variables"`
	OutputVariable           string   `yaml:"output_variable"`
	NextStepSequenceNumber   int      `yaml:"next_step_sequence_number"`
}

// Plan is the model-produced, statically validated, task decomposition
// (spec.md §3 and §6, wire format).
type Plan struct {
	Reasoning string     `yaml:"reasoning"`
	Steps     []PlanStep `yaml:"-"`
}

// planWireFormat mirrors the YAML wire shape from spec.md §6: the step
// sequence may arrive under either `plan` or `steps`.
type planWireFormat struct {
	Reasoning string     `yaml:"reasoning"`
	Plan      []PlanStep `yaml:"plan"`
	Steps     []PlanStep `yaml:"steps"`
}

// StepByID returns a lookup from step id to PlanStep.
func (p *Plan) StepByID() map[int]PlanStep {
	byID := make(map[int]PlanStep, len(p.Steps))
	for _, s := range p.Steps {
		byID[s.Step] = s
	}
	return byID
}
