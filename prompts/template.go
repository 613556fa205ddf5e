// Package prompts holds the prompt templates used across the pipeline.
package prompts

import (
	"regexp"
	"strings"
)

var templateVarRegex = regexp.MustCompile(`\{(\w+)\}`)

// Template is a string prompt template with {variable} placeholders.
type Template struct {
	// Text is the raw template string.
	Text string
	// Vars are the variable names extracted from the template.
	Vars []string
	// partialVars are pre-filled variables.
	partialVars map[string]string
}

// New creates a Template from a raw template string.
func New(text string) *Template {
	return &Template{
		Text: text,
		Vars: extractVars(text),
	}
}

func extractVars(text string) []string {
	matches := templateVarRegex.FindAllStringSubmatch(text, -1)
	vars := make([]string, 0, len(matches))
	seen := make(map[string]bool)
	for _, match := range matches {
		if len(match) > 1 && !seen[match[1]] {
			vars = append(vars, match[1])
			seen[match[1]] = true
		}
	}
	return vars
}

// Format substitutes variables into the template. Missing variables are
// left in place so they are visible in the rendered prompt.
func (t *Template) Format(vars map[string]string) string {
	result := t.Text
	for k, v := range t.partialVars {
		result = strings.ReplaceAll(result, "{"+k+"}", v)
	}
	for k, v := range vars {
		result = strings.ReplaceAll(result, "{"+k+"}", v)
	}
	return result
}

// Partial returns a new Template with some variables pre-filled.
func (t *Template) Partial(vars map[string]string) *Template {
	merged := make(map[string]string, len(t.partialVars)+len(vars))
	for k, v := range t.partialVars {
		merged[k] = v
	}
	for k, v := range vars {
		merged[k] = v
	}
	return &Template{Text: t.Text, Vars: t.Vars, partialVars: merged}
}
