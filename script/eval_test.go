package script_test

import (
	"context"
	"testing"

	"github.com/deepnoodle-ai/scripthost"
	"github.com/deepnoodle-ai/scripthost/script"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) *scripthost.Manager {
	t.Helper()
	m, err := scripthost.New(scripthost.Options{
		Registry:  scripthost.NewRegistry(),
		Presenter: scripthost.NewNullPresenter(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestTemplate(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		globals     map[string]any
		wantErr     bool
		want        string
		errContains string
	}{
		{
			name:    "plain string without template variables",
			input:   "Hello World",
			globals: nil,
			want:    "Hello World",
		},
		{
			name:  "string with single template variable",
			input: "Hello ${state.name}",
			globals: map[string]any{
				"state": map[string]any{
					"name": "Alice",
				},
			},
			want: "Hello Alice",
		},
		{
			name:  "string with multiple template variables",
			input: "${state.greeting} ${state.name}! The answer is ${40 + 2}",
			globals: map[string]any{
				"state": map[string]any{
					"greeting": "Hello",
					"name":     "Bob",
				},
			},
			want: "Hello Bob! The answer is 42",
		},
		{
			name:    "string with nested expressions",
			input:   "Result: ${1 + (2 * 3)}",
			globals: nil,
			want:    "Result: 7",
		},
		{
			name:    "boolean expression",
			input:   "Is it true? ${1 < 2}",
			globals: nil,
			want:    "Is it true? true",
		},
		{
			name:    "float expression",
			input:   "Pi is approximately ${3.14159}",
			globals: nil,
			want:    "Pi is approximately 3.14159",
		},
		{
			name:    "adjacent expressions",
			input:   "${''}${'x'}${'y'}",
			globals: nil,
			want:    "xy",
		},
		{
			name:    "undefined variable renders empty",
			input:   "Hello ${undefined_var}",
			globals: nil,
			want:    "Hello ",
		},
		{
			name:        "invalid template syntax - unclosed brace",
			input:       "Hello ${name",
			globals:     map[string]any{"name": "Alice"},
			wantErr:     true,
			errContains: "unclosed template expression",
		},
		{
			name:        "invalid expression inside template",
			input:       "Hello ${1 +}",
			globals:     nil,
			wantErr:     true,
			errContains: "invalid expression",
		},
	}

	m := newManager(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s, err := script.NewTemplate(ctx, m, tt.input)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errContains != "" {
					require.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			require.NotNil(t, s)
			require.Equal(t, tt.input, s.Raw())
			got, err := s.Eval(ctx, tt.globals)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTemplateEvalError(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	s, err := script.NewTemplate(ctx, m, "value: ${error('broken')}")
	require.NoError(t, err)

	_, err = s.Eval(ctx, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to evaluate template expression")
	require.Contains(t, err.Error(), "broken")
}

func TestStaticTemplate(t *testing.T) {
	s, err := script.NewTemplate(context.Background(), newManager(t), "no expressions here")
	require.NoError(t, err)
	require.True(t, s.IsStatic())

	got, err := s.Eval(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, "no expressions here", got)
}
