// Package resume holds the editable résumé document between conversion and
// rendering. Every edit the dictation flow allows on the draft lives here:
// field updates, skill management and the profile photo.
package resume

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"

	"github.com/javier/voice-cv/internal/rendering"
	"github.com/javier/voice-cv/internal/schemas"
	"github.com/javier/voice-cv/internal/types"
)

// MaxPhotoSize is the profile photo size limit in bytes.
const MaxPhotoSize = 5 << 20 // 5MB

var (
	// ErrPhotoTooLarge indicates the photo exceeds MaxPhotoSize.
	ErrPhotoTooLarge = errors.New("photo exceeds the 5MB limit")

	// ErrNotAnImage indicates the attached data is not an image.
	ErrNotAnImage = errors.New("attached file is not an image")
)

// Document is an editable résumé. Safe for concurrent use.
type Document struct {
	mu   sync.RWMutex
	data types.Resume
}

// NewDocument wraps a structured résumé for editing.
func NewDocument(data types.Resume) *Document {
	return &Document{data: data}
}

// NewDefaultDocument creates a document with the placeholder résumé.
func NewDefaultDocument() *Document {
	return NewDocument(types.DefaultResume())
}

// Data returns a copy of the current résumé.
func (d *Document) Data() types.Resume {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := d.data
	out.Experience = append([]types.Experience(nil), d.data.Experience...)
	out.Education = append([]types.Education(nil), d.data.Education...)
	out.Skills = append([]string(nil), d.data.Skills...)
	return out
}

// SetPersonalInfo replaces the personal details, keeping the current photo.
func (d *Document) SetPersonalInfo(info types.PersonalInfo) {
	d.mu.Lock()
	defer d.mu.Unlock()

	info.ProfileImage = d.data.PersonalInfo.ProfileImage
	d.data.PersonalInfo = info
}

// SetSummary replaces the professional summary.
func (d *Document) SetSummary(summary string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.data.Summary = summary
}

// AddExperience appends an experience entry.
func (d *Document) AddExperience(exp types.Experience) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.data.Experience = append(d.data.Experience, exp)
}

// UpdateExperience replaces the entry at index.
func (d *Document) UpdateExperience(index int, exp types.Experience) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if index < 0 || index >= len(d.data.Experience) {
		return fmt.Errorf("experience index %d out of range", index)
	}
	d.data.Experience[index] = exp
	return nil
}

// RemoveExperience removes the entry at index.
func (d *Document) RemoveExperience(index int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if index < 0 || index >= len(d.data.Experience) {
		return fmt.Errorf("experience index %d out of range", index)
	}
	d.data.Experience = append(d.data.Experience[:index], d.data.Experience[index+1:]...)
	return nil
}

// AddEducation appends an education entry.
func (d *Document) AddEducation(edu types.Education) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.data.Education = append(d.data.Education, edu)
}

// UpdateEducation replaces the entry at index.
func (d *Document) UpdateEducation(index int, edu types.Education) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if index < 0 || index >= len(d.data.Education) {
		return fmt.Errorf("education index %d out of range", index)
	}
	d.data.Education[index] = edu
	return nil
}

// RemoveEducation removes the entry at index.
func (d *Document) RemoveEducation(index int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if index < 0 || index >= len(d.data.Education) {
		return fmt.Errorf("education index %d out of range", index)
	}
	d.data.Education = append(d.data.Education[:index], d.data.Education[index+1:]...)
	return nil
}

// AddSkill adds a skill if it is non-empty, not already present, and the
// skill list has room. Reports whether the skill was added.
func (d *Document) AddSkill(skill string) bool {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.data.Skills) >= types.MaxSkills {
		return false
	}
	for _, s := range d.data.Skills {
		if s == skill {
			return false
		}
	}
	d.data.Skills = append(d.data.Skills, skill)
	return true
}

// RemoveSkill removes the skill at index. Reports whether anything changed.
func (d *Document) RemoveSkill(index int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if index < 0 || index >= len(d.data.Skills) {
		return false
	}
	d.data.Skills = append(d.data.Skills[:index], d.data.Skills[index+1:]...)
	return true
}

// AttachPhoto sets the profile photo from raw image bytes. The content type
// is sniffed from the data; non-images and photos over MaxPhotoSize are
// rejected. The photo is stored as a base64 data URI.
func (d *Document) AttachPhoto(data []byte) error {
	if len(data) == 0 {
		return ErrNotAnImage
	}
	if len(data) > MaxPhotoSize {
		return ErrPhotoTooLarge
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return ErrNotAnImage
	}

	uri := "data:" + mtype.String() + ";base64," + base64.StdEncoding.EncodeToString(data)

	d.mu.Lock()
	d.data.PersonalInfo.ProfileImage = uri
	d.mu.Unlock()
	return nil
}

// RemovePhoto clears the profile photo.
func (d *Document) RemovePhoto() {
	d.mu.Lock()
	d.data.PersonalInfo.ProfileImage = ""
	d.mu.Unlock()
}

// HasPhoto reports whether a profile photo is attached.
func (d *Document) HasPhoto() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.data.PersonalInfo.ProfileImage != ""
}

// Validate checks the document against the résumé schema.
func (d *Document) Validate() error {
	return schemas.ValidateResume(d.Data())
}

// Render produces the printable HTML document for the current state.
func (d *Document) Render() ([]byte, error) {
	html, err := rendering.RenderHTML(d.Data())
	if err != nil {
		return nil, err
	}
	return []byte(html), nil
}
