// Package types provides type definitions for structured data used throughout the voice-cv system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"
)

// MaxSkills is the hard cap applied to the skills list after merging.
const MaxSkills = 14

// Resume is the canonical structured résumé produced by the converter and
// owned by the edit/preview model. After MergeWithDefaults every string
// field is non-empty and every list has at least one entry.
type Resume struct {
	PersonalInfo PersonalInfo `json:"personalInfo"`
	Summary      string       `json:"summary"`
	Experience   []Experience `json:"experience"`
	Education    []Education  `json:"education"`
	Skills       []string     `json:"skills"`
}

// PersonalInfo holds the contact block of a résumé.
type PersonalInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	LinkedIn string `json:"linkedin"`
	// ProfileImage is an optional inline data URI set by the edit model.
	ProfileImage string `json:"profileImage,omitempty"`
}

// Experience represents one work history entry.
type Experience struct {
	Position    string `json:"position"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// Education represents one education entry.
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}

// DefaultResume returns the placeholder template used to fill any field the
// converter could not populate.
func DefaultResume() Resume {
	return Resume{
		PersonalInfo: PersonalInfo{
			FullName: "Tu Nombre Completo",
			Email:    "tu.email@ejemplo.com",
			Phone:    "+34 000 000 000",
			Address:  "Ciudad, País",
			LinkedIn: "linkedin.com/in/tu-perfil",
		},
		Summary: "Profesional orientado/a a resultados, con capacidad de adaptación y aprendizaje continuo. " +
			"Enfocado/a en aportar valor, comunicar con claridad y ejecutar con calidad.",
		Experience: []Experience{
			{
				Position:    "Tu Puesto",
				Company:     "Nombre de la Empresa",
				Duration:    "Año - Año",
				Description: "Responsabilidades, logros medibles e impacto en resultados.",
			},
		},
		Education: []Education{
			{
				Degree:      "Tu Titulación",
				Institution: "Institución/Universidad",
				Year:        "Año",
			},
		},
		Skills: []string{"Comunicación", "Trabajo en Equipo", "Planificación", "Análisis"},
	}
}

// PartialResume mirrors Resume but tolerates loosely typed skill entries, as
// generative models occasionally emit numbers or objects in the skills list.
type PartialResume struct {
	PersonalInfo PersonalInfo `json:"personalInfo"`
	Summary      string       `json:"summary"`
	Experience   []Experience `json:"experience"`
	Education    []Education  `json:"education"`
	Skills       []any        `json:"skills"`
}

// MergeWithDefaults normalizes a partially populated résumé: blank string
// fields are replaced by the template placeholder, missing lists fall back to
// the single-item template default, and skills are coerced to strings and
// truncated to MaxSkills.
func MergeWithDefaults(partial PartialResume) Resume {
	d := DefaultResume()

	merged := Resume{
		PersonalInfo: PersonalInfo{
			FullName: stringOr(partial.PersonalInfo.FullName, d.PersonalInfo.FullName),
			Email:    stringOr(partial.PersonalInfo.Email, d.PersonalInfo.Email),
			Phone:    stringOr(partial.PersonalInfo.Phone, d.PersonalInfo.Phone),
			Address:  stringOr(partial.PersonalInfo.Address, d.PersonalInfo.Address),
			LinkedIn: stringOr(partial.PersonalInfo.LinkedIn, d.PersonalInfo.LinkedIn),
		},
		Summary: stringOr(partial.Summary, d.Summary),
	}

	if len(partial.Experience) > 0 {
		merged.Experience = make([]Experience, 0, len(partial.Experience))
		for _, e := range partial.Experience {
			merged.Experience = append(merged.Experience, Experience{
				Position:    stringOr(e.Position, d.Experience[0].Position),
				Company:     stringOr(e.Company, d.Experience[0].Company),
				Duration:    stringOr(e.Duration, d.Experience[0].Duration),
				Description: stringOr(e.Description, d.Experience[0].Description),
			})
		}
	} else {
		merged.Experience = d.Experience
	}

	if len(partial.Education) > 0 {
		merged.Education = make([]Education, 0, len(partial.Education))
		for _, e := range partial.Education {
			merged.Education = append(merged.Education, Education{
				Degree:      stringOr(e.Degree, d.Education[0].Degree),
				Institution: stringOr(e.Institution, d.Education[0].Institution),
				Year:        stringOr(e.Year, d.Education[0].Year),
			})
		}
	} else {
		merged.Education = d.Education
	}

	if len(partial.Skills) > 0 {
		skills := make([]string, 0, len(partial.Skills))
		for _, s := range partial.Skills {
			switch v := s.(type) {
			case string:
				if strings.TrimSpace(v) != "" {
					skills = append(skills, strings.TrimSpace(v))
				}
			case float64, int, bool:
				skills = append(skills, fmt.Sprint(v))
			default:
				// null, objects and arrays carry no usable skill text
			}
		}
		if len(skills) > MaxSkills {
			skills = skills[:MaxSkills]
		}
		if len(skills) == 0 {
			skills = d.Skills
		}
		merged.Skills = skills
	} else {
		merged.Skills = d.Skills
	}

	return merged
}

// stringOr returns the trimmed value when non-blank, otherwise the fallback.
func stringOr(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}
