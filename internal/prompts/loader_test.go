package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("convert.json", "structure_resume")
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "Curriculum Vitae en ESPAÑOL")
	assert.Contains(t, prompt, "{{.Transcript}}")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("convert.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestMustGet_ValidPrompt(t *testing.T) {
	ClearCache()

	assert.NotPanics(t, func() {
		prompt := MustGet("convert.json", "structure_resume")
		assert.NotEmpty(t, prompt)
	})
}

func TestFormat(t *testing.T) {
	template := "Transcripción:\n{{.Transcript}}"
	data := map[string]string{
		"Transcript": "Me llamo Juan Pérez.",
	}

	result := Format(template, data)
	assert.Equal(t, "Transcripción:\nMe llamo Juan Pérez.", result)
}

func TestFormat_NoPlaceholders(t *testing.T) {
	template := "No placeholders here"
	data := map[string]string{"Key": "Value"}

	result := Format(template, data)
	assert.Equal(t, template, result)
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Hola {{.Name}}"
	data := map[string]string{}

	result := Format(template, data)
	assert.Equal(t, template, result) // Placeholder remains
}

func TestList(t *testing.T) {
	ClearCache()

	keys, err := List("convert.json")
	require.NoError(t, err)
	assert.Contains(t, keys, "structure_resume")
}

func TestCaching(t *testing.T) {
	ClearCache()

	prompt1, err := Get("convert.json", "structure_resume")
	require.NoError(t, err)

	prompt2, err := Get("convert.json", "structure_resume")
	require.NoError(t, err)

	assert.Equal(t, prompt1, prompt2)
}
