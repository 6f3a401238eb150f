package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeHTML_EmptyString(t *testing.T) {
	result := EscapeHTML("")
	assert.Equal(t, "", result)
}

func TestEscapeHTML_NoSpecialCharacters(t *testing.T) {
	text := "Profesional orientado a resultados"
	result := EscapeHTML(text)
	assert.Equal(t, text, result)
}

func TestEscapeHTML_Ampersand(t *testing.T) {
	result := EscapeHTML("I+D & Calidad")
	assert.Equal(t, "I+D &amp; Calidad", result)
}

func TestEscapeHTML_AngleBrackets(t *testing.T) {
	result := EscapeHTML("<script>alert(1)</script>")
	assert.Equal(t, "&lt;script&gt;alert(1)&lt;/script&gt;", result)
}

func TestEscapeHTML_Quotes(t *testing.T) {
	result := EscapeHTML(`empresa "La Única"`)
	assert.Equal(t, "empresa &quot;La Única&quot;", result)
}

func TestEscapeHTML_SingleQuote(t *testing.T) {
	result := EscapeHTML("O'Brien")
	assert.Equal(t, "O&#039;Brien", result)
}

func TestEscapeHTML_PreservesAccents(t *testing.T) {
	text := "Comunicación, Logística y Educación"
	result := EscapeHTML(text)
	assert.Equal(t, text, result)
}
