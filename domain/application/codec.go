package application

import (
	"fmt"
	"strings"

	"github.com/jobvault/jobvault/domain/record"
)

// Text renders the application as searchable text. This rendering is what
// gets embedded, so it front-loads the fields a person would query on.
func Text(a Application) string {
	parts := []string{
		fmt.Sprintf("Job Application: %s - %s", a.Company, a.Role),
		fmt.Sprintf("Status: %s", a.Status),
		fmt.Sprintf("Applied Date: %s", a.AppliedDate),
	}

	if a.Location != "" {
		parts = append(parts, fmt.Sprintf("Location: %s", a.Location))
	}
	if a.SalaryRange != "" {
		parts = append(parts, fmt.Sprintf("Salary Range: %s", a.SalaryRange))
	}
	if a.JobDescription != "" {
		parts = append(parts, fmt.Sprintf("Job Description: %s", a.JobDescription))
	}
	if a.Notes != "" {
		parts = append(parts, fmt.Sprintf("Notes: %s", a.Notes))
	}

	if a.JobRequirements != nil {
		if len(a.JobRequirements.Skills) > 0 {
			parts = append(parts, fmt.Sprintf("Required Skills: %s", strings.Join(a.JobRequirements.Skills, ", ")))
		}
		if a.JobRequirements.Experience != "" {
			parts = append(parts, fmt.Sprintf("Experience Required: %s", a.JobRequirements.Experience))
		}
	}

	if len(a.Timeline) > 0 {
		recent := a.Timeline
		if len(recent) > 3 {
			recent = recent[len(recent)-3:]
		}
		events := make([]string, len(recent))
		for i, e := range recent {
			events[i] = fmt.Sprintf("%s on %s", e.EventType, e.Date)
		}
		parts = append(parts, fmt.Sprintf("Recent Timeline: %s", strings.Join(events, ", ")))
	}

	return strings.Join(parts, "\n")
}

// Encode wraps the application in a storage envelope.
func Encode(a Application) (record.Envelope, error) {
	return record.NewEnvelope(RecordType, a.ID, a, Text(a))
}

// Decode rebuilds an application from a stored envelope.
func Decode(env record.Envelope) (Application, error) {
	var a Application
	if err := env.DecodeData(&a); err != nil {
		return Application{}, err
	}
	return a, nil
}
