package rendering

import (
	_ "embed"
	"strings"
	"text/template"

	"github.com/javier/voice-cv/internal/types"
)

//go:embed cv.html.tmpl
var cvTemplateText string

// The template escapes every interpolated field explicitly, the profile
// image data URI included (escaping leaves valid base64 untouched).
var cvTemplate = template.Must(
	template.New("cv").Funcs(template.FuncMap{
		"escape": EscapeHTML,
	}).Parse(cvTemplateText),
)

// RenderHTML renders the printable HTML résumé.
func RenderHTML(data types.Resume) (string, error) {
	var result strings.Builder
	if err := cvTemplate.Execute(&result, data); err != nil {
		return "", &TemplateError{
			Message: "failed to execute template",
			Cause:   err,
		}
	}
	return result.String(), nil
}

// DocumentFilename returns the download filename for a rendered résumé,
// e.g. "Juan_Pérez_CV.html".
func DocumentFilename(data types.Resume, ext string) string {
	name := strings.Join(strings.Fields(data.PersonalInfo.FullName), "_")
	if name == "" {
		return "CV." + ext
	}
	return name + "_CV." + ext
}
