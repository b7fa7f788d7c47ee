// Package history lists past research results and replays them
// through the same render pipeline used for fresh submissions.
package history

import (
	"context"
	"fmt"

	"github.com/InforeaTech/intelligent-research-agent/internal/api"
)

// Backend is the slice of the API client the history manager consumes.
type Backend interface {
	Profiles(ctx context.Context, skip, limit int, sort string) (api.ProfilePage, error)
	SearchProfiles(ctx context.Context, query string) ([]api.ProfileSummary, error)
	Profile(ctx context.Context, id string) (api.ProfileDetail, error)
	DeleteProfile(ctx context.Context, id string) error
}

// DefaultPageSize is the number of records fetched per page.
const DefaultPageSize = 25

// defaultModuleID owns records written before module IDs were stored.
const defaultModuleID = "person-research"

// Replay is a historical result mapped back onto its owning module.
// Result flows through the module's Render exactly like a fresh
// submission; nothing downstream can tell replay from submit.
type Replay struct {
	ModuleID string
	Result   any
}

// Manager fetches and replays history records.
type Manager struct {
	backend  Backend
	pageSize int
}

// NewManager creates a history Manager.
func NewManager(b Backend) *Manager {
	return &Manager{backend: b, pageSize: DefaultPageSize}
}

// List fetches one page of history, newest first.
func (m *Manager) List(ctx context.Context, page int) (api.ProfilePage, error) {
	if page < 0 {
		page = 0
	}
	return m.backend.Profiles(ctx, page*m.pageSize, m.pageSize, "-created_at")
}

// Search runs a text search over the history.
func (m *Manager) Search(ctx context.Context, query string) ([]api.ProfileSummary, error) {
	return m.backend.SearchProfiles(ctx, query)
}

// Delete removes one history record.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.backend.DeleteProfile(ctx, id)
}

// Load fetches a record and maps it onto its owning module's result
// type for replay. Records from before module IDs were stored belong
// to person research.
func (m *Manager) Load(ctx context.Context, id string) (Replay, error) {
	rec, err := m.backend.Profile(ctx, id)
	if err != nil {
		return Replay{}, err
	}

	moduleID := rec.ModuleID
	if moduleID == "" {
		moduleID = defaultModuleID
	}

	switch moduleID {
	case defaultModuleID:
		return Replay{
			ModuleID: moduleID,
			Result: api.ResearchResponse{
				ID:           rec.ID,
				Profile:      rec.Profile,
				ResearchData: rec.ResearchData,
				CachedNote:   rec.CachedNote,
				FromCache:    true,
			},
		}, nil
	case "company-research":
		return Replay{
			ModuleID: moduleID,
			Result:   api.CompanyResponse{Analysis: rec.Profile},
		}, nil
	case "deep-research":
		return Replay{
			ModuleID: moduleID,
			Result:   api.DeepResearchResponse{Report: rec.Profile},
		}, nil
	default:
		return Replay{}, fmt.Errorf("history: record %s belongs to unknown module %q", id, moduleID)
	}
}
