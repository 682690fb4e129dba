// Package yamlrepair implements the four-stage YAML recovery pipeline
// (spec.md §4.2): fence strip, direct parse, deterministic fixes, and
// model-assisted repair. It is purely functional over its input and
// owns no state between calls, grounded on the teacher's tolerant
// parse-then-fallback idiom for agent/LLM output (node_executors.go's
// JSONParserExecutor) and on gopkg.in/yaml.v3 for the actual parsing.
package yamlrepair

import (
	"context"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	domerrors "github.com/Bitsy-Chuck/maker-with-rlm/internal/domain/errors"
)

// Repairer calls an external model to fix malformed YAML given the
// original text and the parser's error message (spec.md §4.2, Stage 4).
// It is an opaque collaborator, out of scope per spec.md §1.
type Repairer interface {
	Repair(ctx context.Context, text string, parseErr string) (string, error)
}

// Pipeline runs the four ordered stages over raw model output.
type Pipeline struct {
	repairer Repairer
}

// New builds a Pipeline. repairer may be nil: Stage 4 is then skipped
// and a failure there simply means "no model repair attempted".
func New(repairer Repairer) *Pipeline {
	return &Pipeline{repairer: repairer}
}

var fenceRe = regexp.MustCompile("(?s)```(?:yaml|yml)?\\s*\\n?(.*?)(?:```|\\z)")

// Parse runs all four stages and returns the parsed value plus whether
// any repair stage (3 or 4) was needed to obtain it.
func (p *Pipeline) Parse(ctx context.Context, text string) (any, bool, error) {
	// Stage 0 — reject empty.
	if strings.TrimSpace(text) == "" {
		return nil, false, domerrors.NewYAMLParseError(errEmptyInput{}, nil)
	}

	// Stage 1 — fence strip. Never sets was_repaired on its own.
	stripped := stripFence(text)

	// Stage 2 — direct parse.
	value, parseErr := tryParse(stripped)
	if parseErr == nil {
		return value, false, nil
	}
	firstErr := parseErr

	// Stage 3 — deterministic fixes, re-parsing after each mutation.
	fixed := stripped
	for _, fix := range []func(string) string{detabLeading, stripTrailingCommas} {
		next := fix(fixed)
		if next == fixed {
			continue
		}
		fixed = next
		if value, err := tryParse(fixed); err == nil {
			return value, true, nil
		}
	}

	// Stage 4 — model-assisted repair.
	if p.repairer != nil {
		repaired, err := p.repairer.Repair(ctx, stripped, firstErr.Error())
		if err == nil {
			var value any
			if value, err = tryParse(repaired); err == nil {
				return value, true, nil
			}
		}
		return nil, false, domerrors.NewYAMLParseError(firstErr, err)
	}

	return nil, false, domerrors.NewYAMLParseError(firstErr, nil)
}

// stripFence extracts the first fenced ```yaml/```yml/``` block's
// contents if present; otherwise returns the text unchanged
// (spec.md §4.2, Stage 1).
func stripFence(text string) string {
	if !strings.Contains(text, "```") {
		return text
	}
	m := fenceRe.FindStringSubmatch(text)
	if m == nil {
		return text
	}
	return m[1]
}

// tryParse attempts a direct YAML parse. A nil result is treated as
// failure unless the stripped text is literally "null", "~", or
// empty-after-trim (spec.md §4.2, Stage 2).
func tryParse(text string) (any, error) {
	var value any
	if err := yaml.Unmarshal([]byte(text), &value); err != nil {
		return nil, err
	}
	if value == nil {
		trimmed := strings.TrimSpace(text)
		if trimmed == "null" || trimmed == "~" || trimmed == "" {
			return nil, nil
		}
		return nil, errNullResult{}
	}
	return value, nil
}

// detabLeading replaces leading hard tabs with two spaces per tab, on
// every line (spec.md §4.2, Stage 3a).
func detabLeading(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		j := 0
		for j < len(line) && line[j] == '\t' {
			j++
		}
		if j > 0 {
			lines[i] = strings.Repeat("  ", j) + line[j:]
		}
	}
	return strings.Join(lines, "\n")
}

var trailingCommaRe = regexp.MustCompile(`,[ \t]*\n`)

// stripTrailingCommas removes lone trailing commas at end-of-line
// (spec.md §4.2, Stage 3b).
func stripTrailingCommas(text string) string {
	return trailingCommaRe.ReplaceAllString(text, "\n")
}

type errEmptyInput struct{}

func (errEmptyInput) Error() string { return "empty input" }

type errNullResult struct{}

func (errNullResult) Error() string { return "yaml parsed to null" }
