// Package service provides the collection facades: typed CRUD and search
// over the shared document store, one facade per collection.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/jobvault/jobvault/domain/application"
	"github.com/jobvault/jobvault/domain/record"
	"github.com/jobvault/jobvault/infrastructure/persistence"
)

// topCompaniesLimit caps the top-companies list in stats.
const topCompaniesLimit = 5

// Applications manages the job applications collection.
type Applications struct {
	store  *persistence.DocumentStore
	logger *slog.Logger

	// createMu serializes creates so the active-duplicate check and the
	// insert act as one step within this process.
	createMu sync.Mutex
}

// NewApplications creates the applications facade.
func NewApplications(store *persistence.DocumentStore, logger *slog.Logger) *Applications {
	if logger == nil {
		logger = slog.Default()
	}
	return &Applications{store: store, logger: logger}
}

func (s *Applications) scope(userID string) record.Scope {
	return record.NewScope(userID, application.Collection)
}

// Create stores a new application. Rejects a duplicate when another
// application for the same company and role is still active; terminal
// applications (accepted, rejected, withdrawn) do not block re-applying.
func (s *Applications) Create(ctx context.Context, userID string, app application.Application) (application.Application, error) {
	s.createMu.Lock()
	defer s.createMu.Unlock()

	existing, err := s.List(ctx, userID, ListApplicationsQuery{Company: app.Company})
	if err != nil {
		return application.Application{}, err
	}
	for _, e := range existing {
		if e.Role == app.Role && e.Status.Active() {
			return application.Application{}, fmt.Errorf("%w: active application for %s - %s",
				record.ErrDuplicateRecord, app.Company, app.Role)
		}
	}

	if err := s.sync(ctx, userID, app); err != nil {
		return application.Application{}, err
	}

	s.logger.InfoContext(ctx, "application created",
		"application_id", app.ID, "company", app.Company, "role", app.Role)
	return app, nil
}

// Get retrieves one application by id.
func (s *Applications) Get(ctx context.Context, userID, appID string) (application.Application, error) {
	stored, err := s.store.Get(ctx, s.scope(userID), application.RecordType, appID)
	if err != nil {
		return application.Application{}, err
	}
	return application.Decode(stored.Envelope)
}

// ListApplicationsQuery filters and orders a listing.
type ListApplicationsQuery struct {
	Status  string
	Company string
	SortBy  string
	Asc     bool
}

// List returns applications, filtered and sorted. The default order is
// applied_date, newest first.
func (s *Applications) List(ctx context.Context, userID string, q ListApplicationsQuery) ([]application.Application, error) {
	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = "applied_date"
	}

	opts := []record.ListOption{record.WithSort(sortBy, !q.Asc)}
	if q.Status != "" {
		status, err := application.ParseStatus(q.Status)
		if err != nil {
			return nil, err
		}
		opts = append(opts, record.WithFilter("status", string(status)))
	}
	if q.Company != "" {
		opts = append(opts, record.WithFilter("company", q.Company))
	}

	envelopes, err := s.store.List(ctx, s.scope(userID), application.RecordType, opts...)
	if err != nil {
		return nil, err
	}

	apps := make([]application.Application, 0, len(envelopes))
	for _, env := range envelopes {
		app, err := application.Decode(env)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, nil
}

// Save re-syncs an application after external mutation.
func (s *Applications) Save(ctx context.Context, userID string, app application.Application) error {
	if _, err := s.Get(ctx, userID, app.ID); err != nil {
		return err
	}
	app.Touch()
	return s.sync(ctx, userID, app)
}

// UpdateStatus moves an application to a new status and records a timeline
// event.
func (s *Applications) UpdateStatus(ctx context.Context, userID, appID, status, notes string) (application.Application, error) {
	app, err := s.Get(ctx, userID, appID)
	if err != nil {
		return application.Application{}, err
	}

	old := app.Status
	if err := app.UpdateStatus(status, notes); err != nil {
		return application.Application{}, err
	}
	if err := s.sync(ctx, userID, app); err != nil {
		return application.Application{}, err
	}

	s.logger.InfoContext(ctx, "application status updated",
		"application_id", appID, "from", old, "to", app.Status)
	return app, nil
}

// AddNote appends a timestamped note to an application.
func (s *Applications) AddNote(ctx context.Context, userID, appID, note string) (application.Application, error) {
	app, err := s.Get(ctx, userID, appID)
	if err != nil {
		return application.Application{}, err
	}
	app.AppendNote(note)
	if err := s.sync(ctx, userID, app); err != nil {
		return application.Application{}, err
	}
	return app, nil
}

// AddTimelineEvent appends a timeline event with an explicit date.
func (s *Applications) AddTimelineEvent(ctx context.Context, userID, appID, eventType, date, notes string) (application.Application, error) {
	app, err := s.Get(ctx, userID, appID)
	if err != nil {
		return application.Application{}, err
	}

	app.Timeline = append(app.Timeline, application.Event{
		Date:      date,
		EventType: eventType,
		Notes:     notes,
	})
	app.Touch()

	if err := s.sync(ctx, userID, app); err != nil {
		return application.Application{}, err
	}
	return app, nil
}

// UpdateTimelineEvent edits an event in place. Empty fields keep their
// current value.
func (s *Applications) UpdateTimelineEvent(ctx context.Context, userID, appID string, index int, eventType, date, notes string) (application.Application, error) {
	app, err := s.Get(ctx, userID, appID)
	if err != nil {
		return application.Application{}, err
	}
	if index < 0 || index >= len(app.Timeline) {
		return application.Application{}, fmt.Errorf("timeline event index %d out of range", index)
	}

	event := &app.Timeline[index]
	if eventType != "" {
		event.EventType = eventType
	}
	if date != "" {
		event.Date = date
	}
	if notes != "" {
		event.Notes = notes
	}
	app.Touch()

	if err := s.sync(ctx, userID, app); err != nil {
		return application.Application{}, err
	}
	return app, nil
}

// DeleteTimelineEvent removes an event. The initial event (index 0) records
// how tracking started and cannot be deleted.
func (s *Applications) DeleteTimelineEvent(ctx context.Context, userID, appID string, index int) (application.Application, error) {
	app, err := s.Get(ctx, userID, appID)
	if err != nil {
		return application.Application{}, err
	}
	if index < 0 || index >= len(app.Timeline) {
		return application.Application{}, fmt.Errorf("timeline event index %d out of range", index)
	}
	if index == 0 {
		return application.Application{}, fmt.Errorf("cannot delete the initial timeline event")
	}

	app.Timeline = append(app.Timeline[:index], app.Timeline[index+1:]...)
	app.Touch()

	if err := s.sync(ctx, userID, app); err != nil {
		return application.Application{}, err
	}
	return app, nil
}

// Delete removes an application.
func (s *Applications) Delete(ctx context.Context, userID, appID string) error {
	return s.store.Delete(ctx, s.scope(userID), application.RecordType, appID)
}

// ApplicationMatch is a semantic search hit.
type ApplicationMatch struct {
	Application application.Application
	Score       float64
}

// Search ranks applications by semantic similarity to the query.
func (s *Applications) Search(ctx context.Context, userID, query string, limit int) ([]ApplicationMatch, error) {
	found, err := s.store.Search(ctx, s.scope(userID), query, limit, nil)
	if err != nil {
		return nil, err
	}

	matches := make([]ApplicationMatch, 0, len(found))
	for _, m := range found {
		if m.Envelope.RecordType != application.RecordType {
			continue
		}
		app, err := application.Decode(m.Envelope)
		if err != nil {
			return nil, err
		}
		matches = append(matches, ApplicationMatch{Application: app, Score: m.Score})
	}
	return matches, nil
}

// CompanyCount pairs a company name with its application count.
type CompanyCount struct {
	Company string `json:"company"`
	Count   int    `json:"count"`
}

// Stats summarises the pipeline.
type Stats struct {
	Total             int            `json:"total"`
	Active            int            `json:"active"`
	ByStatus          map[string]int `json:"by_status"`
	ResponseRate      float64        `json:"response_rate"`
	AvgDaysToResponse float64        `json:"avg_days_to_response"`
	TopCompanies      []CompanyCount `json:"top_companies"`
}

// Stats aggregates the user's applications: totals, a status histogram,
// the response rate, average days to first response, and the companies
// with the most applications. An application counts as responded once its
// status moves beyond tracking or applied; days-to-response measures the
// gap between the applied date and the second timeline event.
func (s *Applications) Stats(ctx context.Context, userID string) (Stats, error) {
	apps, err := s.List(ctx, userID, ListApplicationsQuery{})
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		ByStatus:     map[string]int{},
		TopCompanies: []CompanyCount{},
	}
	stats.Total = len(apps)
	if stats.Total == 0 {
		return stats, nil
	}

	responded := 0
	var responseDays []float64
	companyCounts := map[string]int{}

	for _, app := range apps {
		stats.ByStatus[string(app.Status)]++
		companyCounts[app.Company]++

		if app.Active() {
			stats.Active++
		}

		if app.Status != application.StatusTracking && app.Status != application.StatusApplied {
			responded++
			if len(app.Timeline) > 1 {
				applied, err1 := time.Parse("2006-01-02", app.AppliedDate)
				response, err2 := time.Parse("2006-01-02", app.Timeline[1].Date)
				if err1 == nil && err2 == nil {
					responseDays = append(responseDays, response.Sub(applied).Hours()/24)
				}
			}
		}
	}

	stats.ResponseRate = round1(float64(responded) / float64(stats.Total) * 100)
	if len(responseDays) > 0 {
		var sum float64
		for _, d := range responseDays {
			sum += d
		}
		stats.AvgDaysToResponse = round1(sum / float64(len(responseDays)))
	}

	for company, count := range companyCounts {
		stats.TopCompanies = append(stats.TopCompanies, CompanyCount{Company: company, Count: count})
	}
	sort.SliceStable(stats.TopCompanies, func(i, j int) bool {
		if stats.TopCompanies[i].Count != stats.TopCompanies[j].Count {
			return stats.TopCompanies[i].Count > stats.TopCompanies[j].Count
		}
		return stats.TopCompanies[i].Company < stats.TopCompanies[j].Company
	})
	if len(stats.TopCompanies) > topCompaniesLimit {
		stats.TopCompanies = stats.TopCompanies[:topCompaniesLimit]
	}

	return stats, nil
}

// CollectionStats exposes partition-level row statistics.
func (s *Applications) CollectionStats(ctx context.Context, userID string) (record.CollectionStats, error) {
	return s.store.Stats(ctx, s.scope(userID))
}

func (s *Applications) sync(ctx context.Context, userID string, app application.Application) error {
	env, err := application.Encode(app)
	if err != nil {
		return err
	}
	return s.store.Upsert(ctx, s.scope(userID), env)
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
