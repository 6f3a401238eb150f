package llm

import (
	"testing"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "code block with language",
			input:    "```javascript\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "plain JSON",
			input:    `{"key": "value"}`,
			expected: `{"key": "value"}`,
		},
		{
			name:     "surrounding whitespace",
			input:    "\n  {\"key\": \"value\"}  \n",
			expected: `{"key": "value"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanJSONBlock(tt.input)
			if result != tt.expected {
				t.Errorf("CleanJSONBlock() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "fenced block",
			input:    "```json\n{\"summary\": \"Perfil técnico\"}\n```",
			expected: `{"summary": "Perfil técnico"}`,
		},
		{
			name:     "preamble before object",
			input:    "Aquí tienes el CV solicitado:\n{\"summary\": \"Perfil\"}",
			expected: `{"summary": "Perfil"}`,
		},
		{
			name:     "object with trailing text",
			input:    "{\"key\": \"value\"}\n\n¿Necesitas algo más?",
			expected: `{"key": "value"}`,
		},
		{
			name:     "nested objects",
			input:    `Output: {"personalInfo": {"fullName": "Juan"}}`,
			expected: `{"personalInfo": {"fullName": "Juan"}}`,
		},
		{
			name:     "no object at all",
			input:    "no pude generar nada",
			expected: "no pude generar nada",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractJSON(tt.input)
			if result != tt.expected {
				t.Errorf("ExtractJSON() = %q, want %q", result, tt.expected)
			}
		})
	}
}
