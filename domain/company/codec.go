package company

import (
	"fmt"
	"strings"

	"github.com/jobvault/jobvault/domain/record"
)

// Text renders the company as searchable text.
func Text(c Company) string {
	parts := []string{fmt.Sprintf("Company: %s", c.Name)}

	if c.Industry != "" {
		parts = append(parts, fmt.Sprintf("Industry: %s", c.Industry))
	}
	if c.Size != "" {
		parts = append(parts, fmt.Sprintf("Size: %s", c.Size))
	}
	if c.Location != "" {
		parts = append(parts, fmt.Sprintf("Location: %s", c.Location))
	}
	if c.Description != "" {
		parts = append(parts, fmt.Sprintf("Description: %s", c.Description))
	}
	if c.Notes != "" {
		parts = append(parts, fmt.Sprintf("Notes: %s", c.Notes))
	}
	if c.CultureNotes != "" {
		parts = append(parts, fmt.Sprintf("Culture: %s", c.CultureNotes))
	}
	if len(c.TechStack) > 0 {
		parts = append(parts, fmt.Sprintf("Tech Stack: %s", strings.Join(c.TechStack, ", ")))
	}

	return strings.Join(parts, "\n")
}

// Encode wraps the company in a storage envelope.
func Encode(c Company) (record.Envelope, error) {
	return record.NewEnvelope(RecordType, c.ID, c, Text(c))
}

// Decode rebuilds a company from a stored envelope.
func Decode(env record.Envelope) (Company, error) {
	var c Company
	if err := env.DecodeData(&c); err != nil {
		return Company{}, err
	}
	return c, nil
}
