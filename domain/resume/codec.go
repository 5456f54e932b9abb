package resume

import (
	"fmt"
	"strings"

	"github.com/jobvault/jobvault/domain/record"
)

// contentPreviewChars caps how much resume content ends up in the embedded
// text. Full content stays in the structured data.
const contentPreviewChars = 500

// Text renders the resume as searchable text.
func Text(r Resume) string {
	kind := "Tailored Resume"
	if r.IsMaster {
		kind = "Master Resume"
	}

	parts := []string{
		fmt.Sprintf("Resume: %s", r.Name),
		fmt.Sprintf("Type: %s", kind),
	}

	if r.TailoredFor != "" {
		parts = append(parts, fmt.Sprintf("Tailored for: %s", r.TailoredFor))
	}
	if r.FullText != "" {
		parts = append(parts, fmt.Sprintf("Content: %s", preview(r.FullText)))
	}
	if len(r.Skills) > 0 {
		parts = append(parts, fmt.Sprintf("Skills: %s", strings.Join(r.Skills, ", ")))
	}
	if r.ExperienceYears > 0 {
		parts = append(parts, fmt.Sprintf("Experience: %d years", r.ExperienceYears))
	}
	if len(r.Education) > 0 {
		parts = append(parts, fmt.Sprintf("Education: %s", strings.Join(r.Education, ", ")))
	}

	return strings.Join(parts, "\n")
}

// VersionText renders a version snapshot as searchable text.
func VersionText(v Version) string {
	parts := []string{
		fmt.Sprintf("Resume Version: %s", v.Version),
		fmt.Sprintf("Resume ID: %s", v.ResumeID),
		fmt.Sprintf("Changes: %s", v.ChangesSummary),
		fmt.Sprintf("Changed by: %s", v.ChangedBy),
	}
	if v.FullText != "" {
		parts = append(parts, fmt.Sprintf("Content: %s", preview(v.FullText)))
	}
	return strings.Join(parts, "\n")
}

func preview(text string) string {
	if len(text) > contentPreviewChars {
		return text[:contentPreviewChars] + "..."
	}
	return text
}

// Encode wraps the resume in a storage envelope.
func Encode(r Resume) (record.Envelope, error) {
	return record.NewEnvelope(RecordType, r.ID, r, Text(r))
}

// Decode rebuilds a resume from a stored envelope.
func Decode(env record.Envelope) (Resume, error) {
	var r Resume
	if err := env.DecodeData(&r); err != nil {
		return Resume{}, err
	}
	return r, nil
}

// EncodeVersion wraps a version snapshot in a storage envelope.
func EncodeVersion(v Version) (record.Envelope, error) {
	return record.NewEnvelope(VersionRecordType, v.ID, v, VersionText(v))
}

// DecodeVersion rebuilds a version snapshot from a stored envelope.
func DecodeVersion(env record.Envelope) (Version, error) {
	var v Version
	if err := env.DecodeData(&v); err != nil {
		return Version{}, err
	}
	return v, nil
}
