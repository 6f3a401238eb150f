package convert

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/javier/voice-cv/internal/types"
)

// Regexes are tuned for Spanish dictation cues ("me llamo", "trabajé en",
// "estudié"). Compiled once; the extractor runs on every fallback conversion.
var (
	nameCueRe  = regexp.MustCompile(`(?i)(?:me llamo|mi nombre es|soy)\s+([A-ZÁÉÍÓÚÑ][a-záéíóúñ]+(?:\s+[A-ZÁÉÍÓÚÑ][a-záéíóúñ]+){0,3})`)
	nameLeadRe = regexp.MustCompile(`^[A-ZÁÉÍÓÚÑ][a-záéíóúñ]+\s+[A-ZÁÉÍÓÚÑ][a-záéíóúñ]+`)
	emailRe    = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRe    = regexp.MustCompile(`\+?\d[\d\s-]{6,}\d`)
	phoneESRe  = regexp.MustCompile(`(?:\+?34\s?)?[6-9]\d{2}\s?\d{3}\s?\d{3}`)
	spacesRe   = regexp.MustCompile(`\s+`)
	addrCueRe  = regexp.MustCompile(`(?i)(?:vivo en|resido en|dirección|direccion|ubicado en)\s+([^.;\n]+)`)
	addrCityRe = regexp.MustCompile(`(?i)\b(Barcelona|Madrid|Valencia|Sevilla|Bilbao)\b`)
	linkedinRe = regexp.MustCompile(`(?i)linkedin\.com/in/[A-Za-z0-9-]+`)
	summaryRe  = regexp.MustCompile(`(?i)(soy|me considero|mi perfil|mi experiencia|mi objetivo)\s+([^.;]{20,})`)
	workRe     = regexp.MustCompile(`(?i)(trabaj[ée]|experiencia|puesto|cargo|como)\s+([^.;\n]+)\s+(en|para)\s+([^.;\n]+)`)
	studyRe    = regexp.MustCompile(`(?i)(estudi[ée]|grado|licenciatura|máster|master|título|titulo)\s+(en|de)?\s*([^.;\n]+)\s+(en|de)\s+([^.;\n]+)`)
	schoolRe   = regexp.MustCompile(`(?i)(universidad|instituto|colegio)\s+([^.;\n]+)`)
)

// baseSkills are always suggested; sectorSkills are added when the transcript
// mentions the sector. Capped at maxLocalSkills.
var baseSkills = []string{
	"Comunicación",
	"Trabajo en Equipo",
	"Organización",
	"Resolución de Problemas",
	"Planificación",
	"Atención al Cliente",
	"Adaptabilidad",
	"Aprendizaje Rápido",
}

var sectorSkills = []struct {
	re    *regexp.Regexp
	skill string
}{
	{regexp.MustCompile(`(?i)ventas|comercial`), "Ventas"},
	{regexp.MustCompile(`(?i)marketing|redes`), "Marketing"},
	{regexp.MustCompile(`(?i)gesti[óo]n|coordinaci[óo]n`), "Gestión"},
	{regexp.MustCompile(`(?i)calidad|procedimientos`), "Calidad"},
	{regexp.MustCompile(`(?i)formaci[óo]n|docencia`), "Docencia"},
	{regexp.MustCompile(`(?i)log[íi]stica|almac[ée]n`), "Logística"},
	{regexp.MustCompile(`(?i)sanidad|paciente`), "Atención Sanitaria"},
	{regexp.MustCompile(`(?i)hosteler[íi]a|restaurante|cocina`), "Hostelería"},
	{regexp.MustCompile(`(?i)administraci[óo]n|oficina`), "Administración"},
	{regexp.MustCompile(`(?i)finanzas|contabilidad`), "Finanzas"},
	{regexp.MustCompile(`(?i)proyecto`), "Gestión de Proyectos"},
	{regexp.MustCompile(`(?i)atenci[óo]n telef[óo]nica|call center`), "Atención Telefónica"},
	{regexp.MustCompile(`(?i)excel|office|ofim[áa]tica`), "Ofimática"},
	{regexp.MustCompile(`(?i)idioma|ingl[ée]s|franc[ée]s|alem[áa]n`), "Idiomas"},
}

const maxLocalSkills = 12

// ExtractLocal builds a draft résumé from a transcript using regex cues
// alone. Fields the transcript does not mention fall back to the Spanish
// placeholders, so the result is always complete and editable.
func ExtractLocal(transcript string) types.Resume {
	d := types.DefaultResume()

	return types.Resume{
		PersonalInfo: types.PersonalInfo{
			FullName: firstNonEmpty(extractName(transcript), d.PersonalInfo.FullName),
			Email:    firstNonEmpty(extractEmail(transcript), d.PersonalInfo.Email),
			Phone:    firstNonEmpty(extractPhone(transcript), d.PersonalInfo.Phone),
			Address:  firstNonEmpty(extractAddress(transcript), d.PersonalInfo.Address),
			LinkedIn: firstNonEmpty(extractLinkedIn(transcript), d.PersonalInfo.LinkedIn),
		},
		Summary:    firstNonEmpty(extractSummary(transcript), d.Summary),
		Experience: extractExperience(transcript, d.Experience),
		Education:  extractEducation(transcript, d.Education),
		Skills:     extractSkills(transcript),
	}
}

func extractName(t string) string {
	if m := nameCueRe.FindStringSubmatch(t); m != nil {
		return m[1]
	}
	return nameLeadRe.FindString(t)
}

func extractEmail(t string) string {
	return emailRe.FindString(t)
}

func extractPhone(t string) string {
	m := phoneRe.FindString(t)
	if m == "" {
		m = phoneESRe.FindString(t)
	}
	return strings.TrimSpace(spacesRe.ReplaceAllString(m, " "))
}

func extractAddress(t string) string {
	if m := addrCueRe.FindStringSubmatch(t); m != nil {
		return strings.TrimSpace(m[1])
	}
	return addrCityRe.FindString(t)
}

func extractLinkedIn(t string) string {
	return linkedinRe.FindString(t)
}

func extractSummary(t string) string {
	if m := summaryRe.FindStringSubmatch(t); m != nil {
		return capitalize(strings.TrimSpace(m[2]))
	}
	return ""
}

func extractExperience(t string, fallback []types.Experience) []types.Experience {
	m := workRe.FindStringSubmatch(t)
	if m == nil {
		return fallback
	}
	return []types.Experience{{
		Position:    capitalize(strings.TrimSpace(m[2])),
		Company:     capitalize(strings.TrimSpace(m[4])),
		Duration:    "Año - Año",
		Description: "Responsabilidades clave, logros medibles y contribución al equipo/negocio.",
	}}
}

func extractEducation(t string, fallback []types.Education) []types.Education {
	if m := studyRe.FindStringSubmatch(t); m != nil {
		return []types.Education{{
			Degree:      capitalize(firstNonEmpty(strings.TrimSpace(m[3]), "Titulación")),
			Institution: capitalize(firstNonEmpty(strings.TrimSpace(m[5]), "Institución")),
			Year:        "Año",
		}}
	}
	if m := schoolRe.FindStringSubmatch(t); m != nil {
		return []types.Education{{
			Degree:      "Titulación",
			Institution: capitalize(strings.TrimSpace(m[2])),
			Year:        "Año",
		}}
	}
	return fallback
}

func extractSkills(t string) []string {
	skills := make([]string, 0, maxLocalSkills)
	skills = append(skills, baseSkills...)

	for _, sector := range sectorSkills {
		if len(skills) >= maxLocalSkills {
			break
		}
		if sector.re.MatchString(t) && !containsSkill(skills, sector.skill) {
			skills = append(skills, sector.skill)
		}
	}
	return skills
}

func containsSkill(skills []string, skill string) bool {
	for _, s := range skills {
		if s == skill {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

func firstNonEmpty(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
