package api

import "time"

// ResearchRequest is the body for POST /api/research.
type ResearchRequest struct {
	Name           string `json:"name"`
	Company        string `json:"company,omitempty"`
	AdditionalInfo string `json:"additional_info,omitempty"`
	APIKey         string `json:"api_key,omitempty"`
	ModelProvider  string `json:"model_provider"`
	SearchProvider string `json:"search_provider"`
	SearchMode     string `json:"search_mode"`
	BypassCache    bool   `json:"bypass_cache"`
}

// ResearchResponse is the result of a person research run.
type ResearchResponse struct {
	ID           string         `json:"id,omitempty"`
	Profile      string         `json:"profile"`
	ResearchData map[string]any `json:"research_data,omitempty"`
	CachedNote   string         `json:"cached_note,omitempty"`
	FromCache    bool           `json:"from_cache"`
}

// NoteRequest is the body for POST /api/generate-note.
type NoteRequest struct {
	ProfileText   string `json:"profile_text"`
	Length        int    `json:"length"`
	Tone          string `json:"tone"`
	Context       string `json:"context,omitempty"`
	ProfileID     string `json:"profile_id,omitempty"`
	ModelProvider string `json:"model_provider"`
	BypassCache   bool   `json:"bypass_cache"`
}

// NoteResponse is the result of note generation.
type NoteResponse struct {
	Note      string `json:"note"`
	FromCache bool   `json:"from_cache"`
}

// DeepResearchRequest is the body for POST /api/deep-research.
type DeepResearchRequest struct {
	Topic          string `json:"topic"`
	SearchMode     string `json:"search_mode"`
	ModelProvider  string `json:"model_provider"`
	SearchProvider string `json:"search_provider"`
}

// DeepResearchResponse is the result of a deep research run.
type DeepResearchResponse struct {
	Report string `json:"report"`
}

// CompanyRequest is the body for POST /api/research/company.
type CompanyRequest struct {
	CompanyName    string   `json:"company_name"`
	Industry       string   `json:"industry,omitempty"`
	FocusAreas     []string `json:"focus_areas,omitempty"`
	APIKey         string   `json:"api_key,omitempty"`
	ModelProvider  string   `json:"model_provider"`
	SearchProvider string   `json:"search_provider"`
	BypassCache    bool     `json:"bypass_cache"`
}

// CompanyResponse is the result of a company research run.
type CompanyResponse struct {
	Analysis string `json:"analysis"`
}

// ProfileSummary is one row of the paginated history listing.
type ProfileSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Company   string    `json:"company,omitempty"`
	ModuleID  string    `json:"module_id,omitempty"`
	FromCache bool      `json:"from_cache,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileDetail is a full historical result record.
type ProfileDetail struct {
	ProfileSummary
	Profile      string         `json:"profile"`
	ResearchData map[string]any `json:"research_data,omitempty"`
	CachedNote   string         `json:"cached_note,omitempty"`
}

// ProfilePage is the paginated response of GET /api/profiles.
type ProfilePage struct {
	Profiles []ProfileSummary `json:"profiles"`
	Total    int              `json:"total"`
	Skip     int              `json:"skip"`
	Limit    int              `json:"limit"`
}

// User is the authenticated session user from GET /auth/user.
type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Picture   string    `json:"picture,omitempty"`
	Provider  string    `json:"provider,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	LastLogin time.Time `json:"last_login,omitempty"`
}

// Status is the generic status/message envelope some endpoints return.
type Status struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Secret is a stored backend secret, from GET /api/secrets/get/{key}.
type Secret struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
