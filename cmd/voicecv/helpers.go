package main

import (
	"fmt"
	"os"

	"github.com/javier/voice-cv/internal/client"
	"github.com/javier/voice-cv/internal/resume"
	"github.com/javier/voice-cv/internal/types"
)

// statusToRecord maps the API status response onto a payment record for
// display purposes.
func statusToRecord(status *client.PaymentStatus) types.PaymentRecord {
	if status == nil {
		return types.PaymentRecord{}
	}
	return types.PaymentRecord{
		Paid:      status.Paid,
		Used:      status.Used,
		CanRecord: status.CanRecord,
	}
}

// attachPhoto embeds an image file into the résumé as an inline data URI.
func attachPhoto(data types.Resume, path string) (types.Resume, error) {
	photo, err := os.ReadFile(path)
	if err != nil {
		return types.Resume{}, fmt.Errorf("failed to read photo: %w", err)
	}

	doc := resume.NewDocument(data)
	if err := doc.AttachPhoto(photo); err != nil {
		return types.Resume{}, err
	}
	return doc.Data(), nil
}
