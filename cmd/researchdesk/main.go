package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/InforeaTech/intelligent-research-agent/internal/api"
	"github.com/InforeaTech/intelligent-research-agent/internal/app"
	"github.com/InforeaTech/intelligent-research-agent/internal/config"
	"github.com/InforeaTech/intelligent-research-agent/internal/history"
	"github.com/InforeaTech/intelligent-research-agent/internal/module"
	"github.com/InforeaTech/intelligent-research-agent/internal/panel"
	"github.com/InforeaTech/intelligent-research-agent/internal/session"
	"github.com/InforeaTech/intelligent-research-agent/internal/toast"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// sessionCookieName is the backend's session middleware cookie.
const sessionCookieName = "session"

// CLI is the top-level command structure for researchdesk.
type CLI struct {
	Version   kong.VersionFlag `help:"Show version." short:"V"`
	Dashboard DashboardCmd     `cmd:"" default:"1" help:"Open the interactive research dashboard."`
	Run       RunCmd           `cmd:"" help:"Run one research module and print the results."`
	Login     LoginCmd         `cmd:"" help:"Sign in to the research backend."`
	Logout    LogoutCmd        `cmd:"" help:"Sign out and clear the stored session."`
	Whoami    WhoamiCmd        `cmd:"" help:"Show the signed-in user."`
	History   HistoryCmd       `cmd:"" help:"Browse past research results."`
	Export    ExportCmd        `cmd:"" help:"Export a stored result as printable HTML."`
	Secrets   SecretsCmd       `cmd:"" help:"Manage backend API keys."`
}

// loadConfig loads layered config from user and project paths with env overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadLayered(config.DefaultPaths()...)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// sessionDir returns the directory holding the persisted session.
func sessionDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".researchdesk"
	}
	return filepath.Join(home, ".config", "researchdesk")
}

// debugLogger opens an append-only debug log in the config dir. The TUI
// owns the terminal, so diagnostics go to a file instead of stderr.
// Returns a no-op logger if the file cannot be opened.
func debugLogger() (*log.Logger, func()) {
	dir := sessionDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return log.New(io.Discard, "", 0), func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return log.New(io.Discard, "", 0), func() {}
	}
	return log.New(f, "", log.LstdFlags), func() { _ = f.Close() }
}

// buildClient creates the API client and attaches any stored session.
func buildClient(cfg *config.Config) (*api.Client, *session.Store, error) {
	client, err := api.New(cfg.Backend.BaseURL, api.WithTimeout(cfg.Backend.Timeout))
	if err != nil {
		return nil, nil, err
	}
	store := session.NewStore(sessionDir())
	sess, found, err := store.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading session: %w", err)
	}
	if found {
		if err := session.Attach(client.Jar(), sess); err != nil {
			return nil, nil, fmt.Errorf("attaching session: %w", err)
		}
	}
	return client, store, nil
}

// saveSession snapshots the client's cookies back to disk. Best-effort:
// a failed save only means the next invocation has to sign in again.
func saveSession(w io.Writer, client *api.Client, store *session.Store, baseURL, email string) {
	sess, err := session.Snapshot(client.Jar(), baseURL)
	if err != nil {
		_, _ = fmt.Fprintf(w, "warning: session snapshot failed: %v\n", err)
		return
	}
	sess.UserEmail = email
	if err := store.Save(sess); err != nil {
		_, _ = fmt.Fprintf(w, "warning: session save failed: %v\n", err)
	}
}

// buildRegistry registers all research modules with config-seeded defaults.
func buildRegistry(backend module.Backend, cfg *config.Config, logf func(string, ...any)) *module.Registry {
	defaults := module.Defaults{
		ModelProvider:  cfg.Providers.Model,
		SearchProvider: cfg.Providers.Search,
		SearchMode:     cfg.Providers.SearchMode,
	}

	reg := module.NewRegistry(logf)
	reg.Register(module.NewPersonResearch(backend, defaults))
	reg.Register(module.NewCompanyResearch(backend, defaults))
	reg.Register(module.NewDeepResearch(backend, defaults))
	reg.Register(module.NewMarketResearch())
	return reg
}

// --- Dashboard command ---

// DashboardCmd opens the interactive TUI.
type DashboardCmd struct{}

// teaRunner abstracts Bubble Tea program execution for testing.
type teaRunner interface {
	Run() (tea.Model, error)
}

// Run builds real dependencies and launches the dashboard TUI.
func (d *DashboardCmd) Run() error {
	isTTY := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}

	client, store, err := buildClient(cfg)
	if err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}

	logger, closeLog := debugLogger()
	defer closeLog()

	reg := buildRegistry(client, cfg, logger.Printf)
	hist := history.NewManager(client)

	m := app.New(app.Options{
		Registry:  reg,
		History:   hist,
		ExportDir: cfg.Export.Dir,
		LoginURL:  client.LoginURL("google"),
		Logf:      logger.Printf,
	})

	prog := tea.NewProgram(m, tea.WithAltScreen())
	if err := d.run(isTTY, prog); err != nil {
		return err
	}
	saveSession(os.Stderr, client, store, cfg.Backend.BaseURL, "")
	return nil
}

// run executes the tea program, enabling testable wiring.
func (d *DashboardCmd) run(isTTY bool, prog teaRunner) error {
	if !isTTY {
		return fmt.Errorf("dashboard: requires a terminal (TTY)")
	}
	_, err := prog.Run()
	return err
}

// --- Run command ---

// RunCmd submits one research module from the command line and prints
// every output tab as plain text.
type RunCmd struct {
	ModuleID string            `arg:"" help:"Module ID to run (e.g. person-research)."`
	Set      map[string]string `help:"Field values as key=value pairs." short:"s"`
	Timeout  int               `help:"Timeout in seconds." default:"300"`
	JSON     bool              `help:"Print the raw backend result as JSON instead of rendered tabs."`
}

// Run executes the run command.
func (r *RunCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	cfg.Backend.Timeout = time.Duration(r.Timeout) * time.Second

	client, store, err := buildClient(cfg)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	sink := toast.WriterSink{W: os.Stderr}
	reg := buildRegistry(client, cfg, func(format string, args ...any) {
		sink.Notify(fmt.Sprintf(format, args...), toast.Warning, 0)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := r.run(ctx, os.Stdout, reg); err != nil {
		return err
	}
	saveSession(os.Stderr, client, store, cfg.Backend.BaseURL, "")
	return nil
}

// run executes the module against the registry, enabling testable wiring.
func (r *RunCmd) run(ctx context.Context, w io.Writer, reg *module.Registry) error {
	mod, ok := reg.Get(r.ModuleID)
	if !ok {
		var ids []string
		for _, m := range reg.All() {
			ids = append(ids, m.ID())
		}
		return fmt.Errorf("run: unknown module %q (available: %s)", r.ModuleID, strings.Join(ids, ", "))
	}

	vals, err := collectValues(mod.Fields(), r.Set)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	result, err := mod.Submit(ctx, vals)
	if err != nil {
		if errors.Is(err, api.ErrAuthRequired) {
			return fmt.Errorf("run: not signed in (try: researchdesk login)")
		}
		return fmt.Errorf("run: %w", err)
	}

	if r.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("run: encoding result: %w", err)
		}
		return nil
	}

	p := panel.New(panel.PlainRenderer{})
	for _, tab := range mod.OutputTabs() {
		p.AddTab(tab.ID, tab.Label, tab.Icon)
	}
	mod.Render(result, p)

	for _, tab := range p.Tabs() {
		if !tab.HasContent() {
			continue
		}
		p.ActivateTab(tab.ID)
		content, err := p.ViewActive()
		if err != nil {
			content = p.ActiveContent()
		}
		_, _ = fmt.Fprintf(w, "## %s\n\n%s\n\n", tab.Label, panel.StripTags(content))
	}
	return nil
}

// collectValues converts --set key=value flags into typed module values,
// seeding declared defaults first.
func collectValues(fields []module.FieldSpec, set map[string]string) (module.Values, error) {
	byID := make(map[string]module.FieldSpec, len(fields))
	vals := module.Values{}
	for _, f := range fields {
		byID[f.ID] = f
		switch f.Type {
		case module.FieldCheckbox:
			vals[f.ID] = f.Default == "true"
		case module.FieldMultiSelect:
			// no default selection
		default:
			vals[f.ID] = f.Default
		}
	}

	for key, raw := range set {
		f, ok := byID[key]
		if !ok {
			return nil, fmt.Errorf("unknown field %q", key)
		}
		switch f.Type {
		case module.FieldCheckbox:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, fmt.Errorf("field %q wants true/false, got %q", key, raw)
			}
			vals[key] = b
		case module.FieldMultiSelect:
			vals[key] = strings.Split(raw, ",")
		default:
			vals[key] = raw
		}
	}

	for _, f := range fields {
		if f.Required && vals.String(f.ID) == "" {
			return nil, fmt.Errorf("field %q is required (--set %s=...)", f.ID, f.ID)
		}
	}
	return vals, nil
}

// --- Auth commands ---

// LoginCmd starts a browser sign-in or stores a pasted session token.
type LoginCmd struct {
	Provider string `help:"OAuth provider." default:"google"`
	Token    string `help:"Session cookie value copied from the browser after signing in."`
}

// Run executes the login command.
func (l *LoginCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	client, store, err := buildClient(cfg)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	if l.Token == "" {
		fmt.Printf("Open this URL in a browser and complete the sign-in:\n\n  %s\n\n", client.LoginURL(l.Provider))
		fmt.Printf("Then copy the %q cookie value and run:\n\n  researchdesk login --token <value>\n", sessionCookieName)
		return nil
	}

	sess := session.Session{
		BaseURL: cfg.Backend.BaseURL,
		Cookies: []session.Cookie{{Name: sessionCookieName, Value: l.Token, Path: "/"}},
	}
	if err := session.Attach(client.Jar(), sess); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user, err := client.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, api.ErrAuthRequired) {
			return fmt.Errorf("login: token rejected by the backend")
		}
		return fmt.Errorf("login: %w", err)
	}

	sess.UserEmail = user.Email
	if err := store.Save(sess); err != nil {
		return fmt.Errorf("login: saving session: %w", err)
	}
	fmt.Printf("Signed in as %s\n", user.Email)
	return nil
}

// LogoutCmd signs out and removes the stored session.
type LogoutCmd struct{}

// Run executes the logout command.
func (l *LogoutCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	client, store, err := buildClient(cfg)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Backend logout is best-effort; the local session clears regardless.
	if err := client.Logout(ctx); err != nil && !errors.Is(err, api.ErrAuthRequired) {
		fmt.Fprintf(os.Stderr, "warning: backend logout failed: %v\n", err)
	}

	if err := store.Clear(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	fmt.Println("Signed out")
	return nil
}

// WhoamiCmd shows the signed-in user.
type WhoamiCmd struct{}

// Run executes the whoami command.
func (w *WhoamiCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("whoami: %w", err)
	}

	client, _, err := buildClient(cfg)
	if err != nil {
		return fmt.Errorf("whoami: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user, err := client.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, api.ErrAuthRequired) {
			return fmt.Errorf("whoami: not signed in (try: researchdesk login)")
		}
		return fmt.Errorf("whoami: %w", err)
	}

	fmt.Printf("%s (%s)\n", user.Name, user.Email)
	return nil
}

// --- History commands ---

// HistoryCmd browses stored research results.
type HistoryCmd struct {
	List   HistoryListCmd   `cmd:"" default:"1" help:"List past research results."`
	Search HistorySearchCmd `cmd:"" help:"Search past results by name."`
	Show   HistoryShowCmd   `cmd:"" help:"Print one stored result."`
	Delete HistoryDeleteCmd `cmd:"" help:"Delete one stored result."`
}

// HistoryListCmd lists one page of history.
type HistoryListCmd struct {
	Page int `help:"Page number, starting at 0." default:"0"`
}

// Run executes the history list command.
func (h *HistoryListCmd) Run() error {
	mgr, err := historyManager()
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	page, err := mgr.List(ctx, h.Page)
	if err != nil {
		return historyErr(err)
	}
	printSummaries(os.Stdout, page.Profiles)
	if page.Total > 0 {
		fmt.Printf("\n%d record(s) total\n", page.Total)
	}
	return nil
}

// HistorySearchCmd searches history by name.
type HistorySearchCmd struct {
	Query string `arg:"" help:"Name fragment to search for."`
}

// Run executes the history search command.
func (h *HistorySearchCmd) Run() error {
	mgr, err := historyManager()
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	records, err := mgr.Search(ctx, h.Query)
	if err != nil {
		return historyErr(err)
	}
	printSummaries(os.Stdout, records)
	return nil
}

// HistoryShowCmd prints one stored result as plain text.
type HistoryShowCmd struct {
	ID string `arg:"" help:"Record ID."`
}

// Run executes the history show command.
func (h *HistoryShowCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	client, _, err := buildClient(cfg)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}

	mgr := history.NewManager(client)
	reg := buildRegistry(client, cfg, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	replay, err := mgr.Load(ctx, h.ID)
	if err != nil {
		return historyErr(err)
	}

	mod, ok := reg.Get(replay.ModuleID)
	if !ok {
		return fmt.Errorf("history: record belongs to unknown module %q", replay.ModuleID)
	}

	p := panel.New(panel.PlainRenderer{})
	for _, tab := range mod.OutputTabs() {
		p.AddTab(tab.ID, tab.Label, tab.Icon)
	}
	mod.Render(replay.Result, p)

	for _, tab := range p.Tabs() {
		if !tab.HasContent() {
			continue
		}
		p.ActivateTab(tab.ID)
		fmt.Printf("## %s\n\n%s\n\n", tab.Label, panel.StripTags(p.ActiveContent()))
	}
	return nil
}

// HistoryDeleteCmd deletes one stored result.
type HistoryDeleteCmd struct {
	ID string `arg:"" help:"Record ID."`
}

// Run executes the history delete command.
func (h *HistoryDeleteCmd) Run() error {
	mgr, err := historyManager()
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := mgr.Delete(ctx, h.ID); err != nil {
		return historyErr(err)
	}
	fmt.Printf("Deleted %s\n", h.ID)
	return nil
}

// historyManager builds a history manager from config and session.
func historyManager() (*history.Manager, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	client, _, err := buildClient(cfg)
	if err != nil {
		return nil, err
	}
	return history.NewManager(client), nil
}

// historyErr rewrites auth failures into an actionable message.
func historyErr(err error) error {
	if errors.Is(err, api.ErrAuthRequired) {
		return fmt.Errorf("history: not signed in (try: researchdesk login)")
	}
	return fmt.Errorf("history: %w", err)
}

// printSummaries prints history records one per line.
func printSummaries(w io.Writer, records []api.ProfileSummary) {
	if len(records) == 0 {
		_, _ = fmt.Fprintln(w, "No records")
		return
	}
	for _, rec := range records {
		line := rec.ID + "  " + rec.Name
		if rec.Company != "" {
			line += " @ " + rec.Company
		}
		if !rec.CreatedAt.IsZero() {
			line += "  " + rec.CreatedAt.Format("2006-01-02 15:04")
		}
		_, _ = fmt.Fprintln(w, line)
	}
}

// --- Export command ---

// ExportCmd exports a stored result's filled tabs as HTML files.
type ExportCmd struct {
	ID  string `arg:"" help:"Record ID."`
	Dir string `help:"Output directory (defaults to the configured export dir)."`
}

// Run executes the export command.
func (e *ExportCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	client, _, err := buildClient(cfg)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	dir := e.Dir
	if dir == "" {
		dir = cfg.Export.Dir
	}

	mgr := history.NewManager(client)
	reg := buildRegistry(client, cfg, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	replay, err := mgr.Load(ctx, e.ID)
	if err != nil {
		if errors.Is(err, api.ErrAuthRequired) {
			return fmt.Errorf("export: not signed in (try: researchdesk login)")
		}
		return fmt.Errorf("export: %w", err)
	}

	mod, ok := reg.Get(replay.ModuleID)
	if !ok {
		return fmt.Errorf("export: record belongs to unknown module %q", replay.ModuleID)
	}

	p := panel.New(panel.PlainRenderer{})
	for _, tab := range mod.OutputTabs() {
		p.AddTab(tab.ID, tab.Label, tab.Icon)
	}
	mod.Render(replay.Result, p)

	exported := 0
	for _, tab := range p.Tabs() {
		if !tab.HasContent() {
			continue
		}
		p.ActivateTab(tab.ID)
		path, err := p.ExportActive(dir)
		if err != nil {
			return fmt.Errorf("export: tab %s: %w", tab.ID, err)
		}
		fmt.Printf("Exported %s -> %s\n", tab.Label, path)
		exported++
	}
	if exported == 0 {
		return fmt.Errorf("export: record %s has no content to export", e.ID)
	}
	return nil
}

// --- Secrets commands ---

// SecretsCmd manages backend-stored API keys.
type SecretsCmd struct {
	Set SecretsSetCmd `cmd:"" help:"Store an API key on the backend."`
	Get SecretsGetCmd `cmd:"" help:"Read a stored API key."`
}

// SecretsSetCmd stores one API key.
type SecretsSetCmd struct {
	Key   string `arg:"" help:"Secret name (e.g. serper_api_key)."`
	Value string `arg:"" help:"Secret value."`
}

// Run executes the secrets set command.
func (s *SecretsSetCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("secrets: %w", err)
	}
	client, _, err := buildClient(cfg)
	if err != nil {
		return fmt.Errorf("secrets: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := client.SetSecret(ctx, s.Key, s.Value); err != nil {
		if errors.Is(err, api.ErrAuthRequired) {
			return fmt.Errorf("secrets: not signed in (try: researchdesk login)")
		}
		return fmt.Errorf("secrets: %w", err)
	}
	fmt.Printf("Stored %s\n", s.Key)
	return nil
}

// SecretsGetCmd reads one API key.
type SecretsGetCmd struct {
	Key string `arg:"" help:"Secret name."`
}

// Run executes the secrets get command.
func (s *SecretsGetCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("secrets: %w", err)
	}
	client, _, err := buildClient(cfg)
	if err != nil {
		return fmt.Errorf("secrets: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	secret, err := client.GetSecret(ctx, s.Key)
	if err != nil {
		if errors.Is(err, api.ErrAuthRequired) {
			return fmt.Errorf("secrets: not signed in (try: researchdesk login)")
		}
		return fmt.Errorf("secrets: %w", err)
	}
	fmt.Println(secret.Value)
	return nil
}

// Exit codes.
const (
	exitSuccess = 0
	exitRequest = 1
	exitSetup   = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var re *api.RequestError
	if errors.As(err, &re) || errors.Is(err, api.ErrAuthRequired) {
		return exitRequest
	}
	return exitSetup
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli, kong.Vars{"version": version + " " + commit + " " + date})
	err := ctx.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
