package script

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var templateExpression = regexp.MustCompile(`\$\{([^}]+)\}`)

// Template is a string with embedded ${...} expressions.
type Template struct {
	raw   string
	parts []string
	codes []Script
	slots []int // index into parts for each code
}

// NewTemplate compiles every ${...} expression in raw with engine.
func NewTemplate(ctx context.Context, engine Compiler, raw string) (*Template, error) {
	t := &Template{raw: raw}

	// First validate that all ${...} expressions are properly closed
	openCount := strings.Count(raw, "${")
	closeCount := strings.Count(raw, "}")
	if openCount > closeCount {
		return nil, fmt.Errorf("unclosed template expression in string: %q", raw)
	}
	if openCount == 0 {
		return t, nil
	}

	matches := templateExpression.FindAllStringSubmatchIndex(raw, -1)
	if len(matches) == 0 {
		return t, nil
	}

	var lastEnd int
	for _, match := range matches {
		if match[0] > lastEnd {
			t.parts = append(t.parts, raw[lastEnd:match[0]])
		}

		expr := raw[match[2]:match[3]]
		code, err := engine.Compile(ctx, expr)
		if err != nil {
			return nil, fmt.Errorf("failed to compile template expression %q: %w", expr, err)
		}

		t.codes = append(t.codes, code)
		t.slots = append(t.slots, len(t.parts))
		t.parts = append(t.parts, "")
		lastEnd = match[1]
	}
	if lastEnd < len(raw) {
		t.parts = append(t.parts, raw[lastEnd:])
	}
	return t, nil
}

// Raw returns the template source.
func (t *Template) Raw() string {
	return t.raw
}

// IsStatic reports whether the template has no expressions.
func (t *Template) IsStatic() bool {
	return len(t.codes) == 0
}

// Eval evaluates every expression and joins the results with the literal
// text around them.
func (t *Template) Eval(ctx context.Context, globals map[string]any) (string, error) {
	if len(t.codes) == 0 {
		return t.raw, nil
	}

	parts := make([]string, len(t.parts))
	copy(parts, t.parts)

	for i, code := range t.codes {
		result, err := code.Evaluate(ctx, globals)
		if err != nil {
			return "", fmt.Errorf("failed to evaluate template expression: %w", err)
		}
		parts[t.slots[i]] = result.String()
	}
	return strings.Join(parts, ""), nil
}
