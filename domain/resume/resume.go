// Package resume models resumes, tailored variants, and version snapshots.
package resume

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jobvault/jobvault/domain/record"
)

// Record types stored in the resumes collection.
const (
	RecordType        = "resume"
	VersionRecordType = "resume_version"
)

// Collection is the storage partition for resumes and their versions.
const Collection = "resumes"

// Resume is a resume with tailoring support. A master resume is the
// template; tailored copies point back at it via ParentID.
type Resume struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	FullText         string            `json:"full_text"`
	OriginalFilename string            `json:"original_filename,omitempty"`
	FileType         string            `json:"file_type,omitempty"`
	Sections         map[string]string `json:"sections,omitempty"`
	Skills           []string          `json:"skills,omitempty"`
	ExperienceYears  int               `json:"experience_years,omitempty"`
	Education        []string          `json:"education,omitempty"`
	Certifications   []string          `json:"certifications,omitempty"`
	Version          string            `json:"version"`
	IsMaster         bool              `json:"is_master"`
	ParentID         string            `json:"parent_id,omitempty"`
	TailoredForJob   string            `json:"tailored_for_job,omitempty"`
	TailoredFor      string            `json:"tailored_for_company,omitempty"`
	TailoringNotes   string            `json:"tailoring_notes,omitempty"`
	IsActive         bool              `json:"is_active"`
	LastUsed         string            `json:"last_used,omitempty"`
	UseCount         int               `json:"applications_count"`
	CreatedAt        string            `json:"created_at"`
	UpdatedAt        string            `json:"updated_at"`
}

// Version is a point-in-time snapshot of a resume's content.
type Version struct {
	ID             string            `json:"id"`
	ResumeID       string            `json:"resume_id"`
	Version        string            `json:"version"`
	FullText       string            `json:"full_text"`
	Sections       map[string]string `json:"sections,omitempty"`
	ChangesSummary string            `json:"changes_summary"`
	ChangedBy      string            `json:"changed_by"`
	CreatedAt      string            `json:"created_at"`
}

// New creates a master resume.
func New(name, fullText string, skills []string) (Resume, error) {
	if name == "" {
		return Resume{}, fmt.Errorf("resume name is required")
	}
	now := time.Now().UTC().Format(time.RFC3339)
	return Resume{
		ID:        record.NewID("res"),
		Name:      name,
		FullText:  fullText,
		Skills:    skills,
		Version:   "1.0",
		IsMaster:  true,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Tailor creates a tailored copy of a master resume for a specific job.
// The minor version number is incremented.
func Tailor(master Resume, jobID, company, notes string) Resume {
	now := time.Now().UTC().Format(time.RFC3339)
	return Resume{
		ID:              record.NewID("res"),
		Name:            fmt.Sprintf("%s - %s", master.Name, company),
		FullText:        master.FullText,
		Sections:        copyMap(master.Sections),
		Skills:          append([]string(nil), master.Skills...),
		ExperienceYears: master.ExperienceYears,
		Education:       append([]string(nil), master.Education...),
		Certifications:  append([]string(nil), master.Certifications...),
		Version:         bumpMinor(master.Version),
		IsMaster:        false,
		ParentID:        master.ID,
		TailoredForJob:  jobID,
		TailoredFor:     company,
		TailoringNotes:  notes,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Snapshot creates a version record from the resume's current content.
func Snapshot(r Resume, changesSummary, changedBy string) Version {
	return Version{
		ID:             record.NewID("rv"),
		ResumeID:       r.ID,
		Version:        r.Version,
		FullText:       r.FullText,
		Sections:       copyMap(r.Sections),
		ChangesSummary: changesSummary,
		ChangedBy:      changedBy,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	}
}

// MarkUsed records that the resume was used for an application.
func (r *Resume) MarkUsed() {
	now := time.Now().UTC().Format(time.RFC3339)
	r.LastUsed = now
	r.UseCount++
	r.UpdatedAt = now
}

// Touch refreshes the updated timestamp.
func (r *Resume) Touch() {
	r.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
}

// Summary returns a one-line description.
func (r Resume) Summary() string {
	s := fmt.Sprintf("%s (v%s)", r.Name, r.Version)
	if r.TailoredFor != "" {
		s += fmt.Sprintf(" - Tailored for %s", r.TailoredFor)
	}
	if r.IsMaster {
		s += " [Master]"
	}
	return s
}

func bumpMinor(version string) string {
	major, minor, ok := strings.Cut(version, ".")
	if !ok {
		return version
	}
	n, err := strconv.Atoi(minor)
	if err != nil {
		return version
	}
	return fmt.Sprintf("%s.%d", major, n+1)
}

func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
