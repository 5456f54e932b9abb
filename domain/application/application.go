// Package application models job applications: status lifecycle, timeline
// events, and contacts.
package application

import (
	"fmt"
	"strings"
	"time"

	"github.com/jobvault/jobvault/domain/record"
)

// RecordType is the stored record type for applications.
const RecordType = "application"

// Collection is the storage partition for applications.
const Collection = "applications"

// Status is an application's position in the pipeline.
type Status string

// Application statuses.
const (
	StatusTracking  Status = "tracking"
	StatusApplied   Status = "applied"
	StatusScreening Status = "screening"
	StatusInterview Status = "interview"
	StatusOffer     Status = "offer"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusWithdrawn Status = "withdrawn"
)

// Statuses lists all valid statuses in pipeline order.
func Statuses() []Status {
	return []Status{
		StatusTracking, StatusApplied, StatusScreening, StatusInterview,
		StatusOffer, StatusAccepted, StatusRejected, StatusWithdrawn,
	}
}

// ParseStatus normalises and validates a status string.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range Statuses() {
		if status == valid {
			return status, nil
		}
	}
	return "", fmt.Errorf("invalid status %q", s)
}

// Terminal reports whether the status ends the application's lifecycle.
func (s Status) Terminal() bool {
	switch s {
	case StatusAccepted, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

// Active reports whether the application still needs attention.
func (s Status) Active() bool {
	return !s.Terminal() && s != ""
}

// Display returns the status formatted for display.
func (s Status) Display() string {
	words := strings.Split(strings.ReplaceAll(string(s), "_", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Contact is a reference to a single contact person.
type Contact struct {
	Name  string `json:"name,omitempty"`
	URL   string `json:"url,omitempty"`
	Email string `json:"email,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// Event is a timeline entry for an application.
type Event struct {
	Date      string `json:"date"`
	EventType string `json:"event_type"`
	Notes     string `json:"notes,omitempty"`
}

// Requirements holds extracted job requirements.
type Requirements struct {
	Skills     []string `json:"skills,omitempty"`
	Experience string   `json:"experience,omitempty"`
}

// Application tracks one job application. Dates are stored as strings:
// applied_date as YYYY-MM-DD, timestamps as RFC 3339.
type Application struct {
	ID                   string        `json:"id"`
	Company              string        `json:"company"`
	Role                 string        `json:"role"`
	Status               Status        `json:"status"`
	AppliedDate          string        `json:"applied_date"`
	JobURL               string        `json:"job_url,omitempty"`
	JobDescription       string        `json:"job_description,omitempty"`
	Location             string        `json:"location,omitempty"`
	SalaryRange          string        `json:"salary_range,omitempty"`
	MatchScore           float64       `json:"match_score,omitempty"`
	Notes                string        `json:"notes,omitempty"`
	CoverLetter          string        `json:"cover_letter,omitempty"`
	Timeline             []Event       `json:"timeline"`
	JobRequirements      *Requirements `json:"job_requirements,omitempty"`
	RecruiterContact     *Contact      `json:"recruiter_contact,omitempty"`
	HiringManagerContact *Contact      `json:"hiring_manager_contact,omitempty"`
	CreatedAt            string        `json:"created_at"`
	UpdatedAt            string        `json:"updated_at"`
}

// Option customises a new Application.
type Option func(*Application)

// WithJobURL sets the job posting URL.
func WithJobURL(url string) Option {
	return func(a *Application) { a.JobURL = url }
}

// WithJobDescription sets the job description.
func WithJobDescription(desc string) Option {
	return func(a *Application) { a.JobDescription = desc }
}

// WithLocation sets the job location.
func WithLocation(location string) Option {
	return func(a *Application) { a.Location = location }
}

// WithSalaryRange sets the salary range.
func WithSalaryRange(r string) Option {
	return func(a *Application) { a.SalaryRange = r }
}

// WithNotes sets free-form notes.
func WithNotes(notes string) Option {
	return func(a *Application) { a.Notes = notes }
}

// WithRequirements sets extracted job requirements.
func WithRequirements(r Requirements) Option {
	return func(a *Application) { a.JobRequirements = &r }
}

// WithRecruiterContact sets the recruiter contact.
func WithRecruiterContact(c Contact) Option {
	return func(a *Application) { a.RecruiterContact = &c }
}

// New creates an application. The status string is validated and normalised;
// an empty appliedDate defaults to today. The timeline is seeded with an
// initial event describing how tracking started.
func New(company, role, status, appliedDate string, opts ...Option) (Application, error) {
	if company == "" {
		return Application{}, fmt.Errorf("company is required")
	}
	if role == "" {
		return Application{}, fmt.Errorf("role is required")
	}

	parsed, err := ParseStatus(status)
	if err != nil {
		return Application{}, err
	}

	now := time.Now().UTC()
	if appliedDate == "" {
		appliedDate = now.Format("2006-01-02")
	}

	app := Application{
		ID:          record.NewID("app"),
		Company:     company,
		Role:        role,
		Status:      parsed,
		AppliedDate: appliedDate,
		CreatedAt:   now.Format(time.RFC3339),
		UpdatedAt:   now.Format(time.RFC3339),
	}

	for _, opt := range opts {
		opt(&app)
	}

	var initialNote string
	if parsed == StatusTracking {
		initialNote = fmt.Sprintf("Tracking opportunity at %s for %s", company, role)
	} else {
		initialNote = fmt.Sprintf("Applied to %s for %s", company, role)
	}
	app.Timeline = []Event{{
		Date:      appliedDate,
		EventType: string(parsed),
		Notes:     initialNote,
	}}

	return app, nil
}

// AddEvent appends a timeline event dated today.
func (a *Application) AddEvent(eventType, notes string) {
	now := time.Now().UTC()
	a.Timeline = append(a.Timeline, Event{
		Date:      now.Format("2006-01-02"),
		EventType: eventType,
		Notes:     notes,
	})
	a.UpdatedAt = now.Format(time.RFC3339)
}

// UpdateStatus moves the application to a new status and records a timeline
// event. When notes is empty a default transition note is written.
func (a *Application) UpdateStatus(newStatus, notes string) error {
	parsed, err := ParseStatus(newStatus)
	if err != nil {
		return err
	}

	old := a.Status
	a.Status = parsed
	if notes == "" {
		notes = fmt.Sprintf("Status changed from %s to %s", old, parsed)
	}
	a.AddEvent(string(parsed), notes)
	return nil
}

// AppendNote adds a timestamped line to the application's notes.
func (a *Application) AppendNote(note string) {
	now := time.Now().UTC()
	line := fmt.Sprintf("[%s] %s", now.Format("2006-01-02 15:04"), note)
	if a.Notes != "" {
		a.Notes = a.Notes + "\n" + line
	} else {
		a.Notes = line
	}
	a.UpdatedAt = now.Format(time.RFC3339)
}

// Active reports whether the application is still in flight.
func (a Application) Active() bool {
	return a.Status.Active()
}

// DaysSinceApplied returns whole days between the applied date and now.
// Returns 0 when the applied date cannot be parsed.
func (a Application) DaysSinceApplied() int {
	applied, err := time.Parse("2006-01-02", a.AppliedDate)
	if err != nil {
		return 0
	}
	return int(time.Since(applied).Hours() / 24)
}

// Touch refreshes the updated timestamp.
func (a *Application) Touch() {
	a.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
}
