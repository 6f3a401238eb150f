package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/javier/voice-cv/internal/types"
)

func TestPrintGateStatus(t *testing.T) {
	tests := []struct {
		name   string
		record types.PaymentRecord
		state  string
	}{
		{"zero record is locked", types.PaymentRecord{}, "LOCKED"},
		{"unlocked after payment", types.PaymentRecord{Paid: true, CanRecord: true}, "UNLOCKED"},
		{"consumed after recording", types.PaymentRecord{Paid: true, Used: true}, "CONSUMED"},
		{"paid but spent", types.PaymentRecord{Paid: true}, "CONSUMED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewPrinter(&buf).PrintGateStatus(tt.record)

			output := buf.String()
			assert.Contains(t, output, "PAYMENT STATUS")
			assert.Contains(t, output, tt.state)
		})
	}
}

func TestPrintTranscript(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintTranscript("Me llamo Juan y soy enfermero")
	output := buf.String()

	assert.Contains(t, output, "CAPTURED TRANSCRIPT")
	assert.Contains(t, output, "Me llamo Juan y soy enfermero")
	assert.Contains(t, output, "29 characters")
}

func TestPrintTranscript_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintTranscript("   ")

	assert.Empty(t, buf.String())
}

func TestPrintTranscript_TruncatesLongText(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintTranscript(strings.Repeat("a", 500))
	output := buf.String()

	assert.Contains(t, output, "500 characters")
	assert.Contains(t, output, "...")
}

func TestPrintResume(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	resume := types.DefaultResume()
	resume.PersonalInfo.FullName = "Juan Pérez"
	resume.Experience = []types.Experience{
		{Position: "Enfermero", Company: "Hospital La Paz", Duration: "2018 - 2024"},
	}
	resume.Skills = []string{"Comunicación", "Atención al Paciente"}

	p.PrintResume(&resume)
	output := buf.String()

	assert.Contains(t, output, "STRUCTURED RESUME")
	assert.Contains(t, output, "Juan Pérez")
	assert.Contains(t, output, "Enfermero")
	assert.Contains(t, output, "Hospital La Paz")
	assert.Contains(t, output, "Skills (2)")
}

func TestPrintResume_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResume(nil)

	assert.Empty(t, buf.String())
}

func TestPrintResume_TruncatesLongLists(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	resume := types.DefaultResume()
	resume.Experience = make([]types.Experience, 8)
	for i := range resume.Experience {
		resume.Experience[i] = types.Experience{Position: "Puesto", Company: "Empresa", Duration: "Año"}
	}

	p.PrintResume(&resume)

	assert.Contains(t, buf.String(), "... and 3 more")
}

func TestPrintConversionSource(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintConversionSource("local")

	output := buf.String()
	assert.Contains(t, output, "STRUCTURING")
	assert.Contains(t, output, "Source: local")
}

func TestPrintOutputFiles(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintOutputFiles("/tmp/Juan_Perez_CV.html", "", "/tmp/Juan_Perez_CV.pdf")

	output := buf.String()
	assert.Contains(t, output, "OUTPUT FILES")
	assert.Contains(t, output, "Juan_Perez_CV.html")
	assert.Contains(t, output, "Juan_Perez_CV.pdf")
}

func TestPrintOutputFiles_AllEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintOutputFiles("", "")

	assert.Empty(t, buf.String())
}
