package module

import (
	"context"

	"github.com/InforeaTech/intelligent-research-agent/internal/api"
)

// Backend is the slice of the API client the modules consume.
// *api.Client satisfies it; tests substitute stubs.
type Backend interface {
	Research(ctx context.Context, req api.ResearchRequest) (api.ResearchResponse, error)
	GenerateNote(ctx context.Context, req api.NoteRequest) (api.NoteResponse, error)
	DeepResearch(ctx context.Context, req api.DeepResearchRequest) (api.DeepResearchResponse, error)
	CompanyResearch(ctx context.Context, req api.CompanyRequest) (api.CompanyResponse, error)
}

// Defaults seeds module field defaults from configuration.
type Defaults struct {
	ModelProvider  string
	SearchProvider string
	SearchMode     string
}

// modelProviderOptions are the LLM backends the service supports.
func modelProviderOptions() []Option {
	return []Option{
		{Value: "gemini", Label: "Gemini"},
		{Value: "openai", Label: "OpenAI"},
		{Value: "grok", Label: "Grok"},
	}
}

// searchProviderOptions are the web search backends.
func searchProviderOptions() []Option {
	return []Option{
		{Value: "duckduckgo", Label: "DuckDuckGo"},
		{Value: "serper", Label: "Serper"},
	}
}

// searchModeOptions control search depth on the backend.
func searchModeOptions() []Option {
	return []Option{
		{Value: "standard", Label: "Standard"},
		{Value: "extended", Label: "Extended"},
	}
}
