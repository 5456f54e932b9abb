// Package company models target and applied-to companies.
package company

import (
	"fmt"
	"time"

	"github.com/jobvault/jobvault/domain/record"
)

// RecordType is the stored record type for companies.
const RecordType = "company"

// Collection is the storage partition for companies.
const Collection = "companies"

// Company tracks one company. Status is target, applied, interviewing,
// offer, rejected, or accepted.
type Company struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Status         string   `json:"status"`
	Website        string   `json:"website,omitempty"`
	Industry       string   `json:"industry,omitempty"`
	Size           string   `json:"size,omitempty"`
	Location       string   `json:"location,omitempty"`
	Description    string   `json:"description,omitempty"`
	CultureNotes   string   `json:"culture_notes,omitempty"`
	TechStack      []string `json:"tech_stack,omitempty"`
	Pros           []string `json:"pros,omitempty"`
	Cons           []string `json:"cons,omitempty"`
	ApplicationIDs []string `json:"application_ids,omitempty"`
	Notes          string   `json:"notes,omitempty"`
	Priority       int      `json:"priority"`
	Tags           []string `json:"tags,omitempty"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

// New creates a company. An empty status defaults to "target"; priority
// defaults to 5.
func New(name, status, industry string) (Company, error) {
	if name == "" {
		return Company{}, fmt.Errorf("company name is required")
	}
	if status == "" {
		status = "target"
	}
	now := time.Now().UTC().Format(time.RFC3339)
	return Company{
		ID:        record.NewID("comp"),
		Name:      name,
		Status:    status,
		Industry:  industry,
		Priority:  5,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// LinkApplication associates an application with the company.
func (c *Company) LinkApplication(appID string) {
	for _, id := range c.ApplicationIDs {
		if id == appID {
			return
		}
	}
	c.ApplicationIDs = append(c.ApplicationIDs, appID)
	c.Touch()
}

// SetPriority clamps priority to 1-10 and updates the company.
func (c *Company) SetPriority(priority int) {
	if priority < 1 {
		priority = 1
	}
	if priority > 10 {
		priority = 10
	}
	c.Priority = priority
	c.Touch()
}

// Touch refreshes the updated timestamp.
func (c *Company) Touch() {
	c.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
}
