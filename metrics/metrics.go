// Package metrics loads sectioned key/value settings whose values may be
// script expressions.
//
// A value starting with "@" is evaluated once, at load time, and replaced by
// its string result. Numeric and boolean getters evaluate the stored text on
// every call after rewriting legacy syntax with scripthost.PrepareExpression.
package metrics

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/deepnoodle-ai/scripthost"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned for a missing section or key.
var ErrNotFound = errors.New("metric not found")

// Evaluator evaluates metric expressions. *scripthost.Manager implements it.
type Evaluator interface {
	EvalBool(text string) (bool, error)
	EvalFloat(text string) (float64, error)
	EvalAtPrefixed(s *string) (bool, error)
}

// Metrics holds loaded metric sections.
type Metrics struct {
	eval     Evaluator
	sections map[string]map[string]string
}

// LoadFile loads metrics from a YAML file
func LoadFile(eval Evaluator, path string) (*Metrics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metrics file: %w", err)
	}
	return LoadString(eval, string(data))
}

// LoadString loads metrics from a YAML string of the form
// section -> key -> value.
func LoadString(eval Evaluator, data string) (*Metrics, error) {
	var sections map[string]map[string]string
	if err := yaml.Unmarshal([]byte(data), &sections); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metrics: %w", err)
	}
	if sections == nil {
		sections = map[string]map[string]string{}
	}
	m := &Metrics{eval: eval, sections: sections}
	for _, section := range m.Sections() {
		values := sections[section]
		for _, key := range sortedKeys(values) {
			value := values[key]
			if _, err := eval.EvalAtPrefixed(&value); err != nil {
				return nil, fmt.Errorf("failed to evaluate metric %s::%s: %w", section, key, err)
			}
			values[key] = value
		}
	}
	return m, nil
}

// Sections returns the section names, sorted.
func (m *Metrics) Sections() []string {
	return sortedKeys(m.sections)
}

// Keys returns the keys of a section, sorted.
func (m *Metrics) Keys(section string) []string {
	return sortedKeys(m.sections[section])
}

// GetString returns the stored value of a metric.
func (m *Metrics) GetString(section, key string) (string, error) {
	values, ok := m.sections[section]
	if !ok {
		return "", fmt.Errorf("%s::%s: %w", section, key, ErrNotFound)
	}
	value, ok := values[key]
	if !ok {
		return "", fmt.Errorf("%s::%s: %w", section, key, ErrNotFound)
	}
	return value, nil
}

// GetFloat evaluates a metric as a number.
func (m *Metrics) GetFloat(section, key string) (float64, error) {
	value, err := m.GetString(section, key)
	if err != nil {
		return 0, err
	}
	return m.eval.EvalFloat(scripthost.PrepareExpression(value))
}

// GetInt evaluates a metric as a number and truncates it.
func (m *Metrics) GetInt(section, key string) (int, error) {
	f, err := m.GetFloat(section, key)
	return int(f), err
}

// GetBool evaluates a metric for truthiness.
func (m *Metrics) GetBool(section, key string) (bool, error) {
	value, err := m.GetString(section, key)
	if err != nil {
		return false, err
	}
	return m.eval.EvalBool(scripthost.PrepareExpression(value))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
