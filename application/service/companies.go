package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/jobvault/jobvault/domain/company"
	"github.com/jobvault/jobvault/domain/record"
	"github.com/jobvault/jobvault/infrastructure/persistence"
)

// semanticCandidates is how many semantic hits hybrid search pulls before
// merging with substring matches.
const semanticCandidates = 20

// Companies manages the companies collection.
type Companies struct {
	store  *persistence.DocumentStore
	logger *slog.Logger

	createMu sync.Mutex
}

// NewCompanies creates the companies facade.
func NewCompanies(store *persistence.DocumentStore, logger *slog.Logger) *Companies {
	if logger == nil {
		logger = slog.Default()
	}
	return &Companies{store: store, logger: logger}
}

func (s *Companies) scope(userID string) record.Scope {
	return record.NewScope(userID, company.Collection)
}

// Create stores a new company. Names are unique per user, compared
// case-insensitively.
func (s *Companies) Create(ctx context.Context, userID string, c company.Company) (company.Company, error) {
	s.createMu.Lock()
	defer s.createMu.Unlock()

	existing, err := s.List(ctx, userID, "")
	if err != nil {
		return company.Company{}, err
	}
	for _, e := range existing {
		if strings.EqualFold(e.Name, c.Name) {
			return company.Company{}, fmt.Errorf("%w: company %q", record.ErrDuplicateRecord, e.Name)
		}
	}

	if err := s.sync(ctx, userID, c); err != nil {
		return company.Company{}, err
	}

	s.logger.InfoContext(ctx, "company created", "company_id", c.ID, "name", c.Name)
	return c, nil
}

// Get retrieves one company by id.
func (s *Companies) Get(ctx context.Context, userID, companyID string) (company.Company, error) {
	stored, err := s.store.Get(ctx, s.scope(userID), company.RecordType, companyID)
	if err != nil {
		return company.Company{}, err
	}
	return company.Decode(stored.Envelope)
}

// GetByName retrieves a company by name, compared case-insensitively.
func (s *Companies) GetByName(ctx context.Context, userID, name string) (company.Company, error) {
	companies, err := s.List(ctx, userID, "")
	if err != nil {
		return company.Company{}, err
	}
	for _, c := range companies {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return company.Company{}, fmt.Errorf("%w: company %q", record.ErrNotFound, name)
}

// List returns companies, optionally filtered by status, ordered by
// priority, highest first.
func (s *Companies) List(ctx context.Context, userID, status string) ([]company.Company, error) {
	opts := []record.ListOption{record.WithSort("priority", true)}
	if status != "" {
		opts = append(opts, record.WithFilter("status", status))
	}

	envelopes, err := s.store.List(ctx, s.scope(userID), company.RecordType, opts...)
	if err != nil {
		return nil, err
	}

	companies := make([]company.Company, 0, len(envelopes))
	for _, env := range envelopes {
		c, err := company.Decode(env)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, nil
}

// Save re-syncs a company after external mutation.
func (s *Companies) Save(ctx context.Context, userID string, c company.Company) error {
	if _, err := s.Get(ctx, userID, c.ID); err != nil {
		return err
	}
	c.Touch()
	return s.sync(ctx, userID, c)
}

// LinkApplication associates an application with a company.
func (s *Companies) LinkApplication(ctx context.Context, userID, companyID, appID string) (company.Company, error) {
	c, err := s.Get(ctx, userID, companyID)
	if err != nil {
		return company.Company{}, err
	}
	c.LinkApplication(appID)
	if err := s.sync(ctx, userID, c); err != nil {
		return company.Company{}, err
	}
	return c, nil
}

// Delete removes a company.
func (s *Companies) Delete(ctx context.Context, userID, companyID string) error {
	return s.store.Delete(ctx, s.scope(userID), company.RecordType, companyID)
}

// CompanyMatch is a hybrid search hit. Score is zero for matches found only
// by substring.
type CompanyMatch struct {
	Company company.Company
	Score   float64
}

// Search combines semantic similarity with plain substring matching over
// name, industry, description, and notes. Semantic hits come first in score
// order; substring-only hits follow.
func (s *Companies) Search(ctx context.Context, userID, query string, limit int) ([]CompanyMatch, error) {
	found, err := s.store.Search(ctx, s.scope(userID), query, semanticCandidates, nil)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	matches := make([]CompanyMatch, 0, len(found))
	for _, m := range found {
		if m.Envelope.RecordType != company.RecordType {
			continue
		}
		c, err := company.Decode(m.Envelope)
		if err != nil {
			return nil, err
		}
		seen[c.ID] = true
		matches = append(matches, CompanyMatch{Company: c, Score: m.Score})
	}

	companies, err := s.List(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(query)
	for _, c := range companies {
		if seen[c.ID] {
			continue
		}
		haystack := strings.ToLower(strings.Join([]string{
			c.Name, c.Industry, c.Description, c.Notes,
		}, "\n"))
		if strings.Contains(haystack, needle) {
			matches = append(matches, CompanyMatch{Company: c})
		}
	}

	if limit > 0 && limit < len(matches) {
		matches = matches[:limit]
	}
	return matches, nil
}

func (s *Companies) sync(ctx context.Context, userID string, c company.Company) error {
	env, err := company.Encode(c)
	if err != nil {
		return err
	}
	return s.store.Upsert(ctx, s.scope(userID), env)
}
