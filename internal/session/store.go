// Package session persists the backend session cookies to the filesystem
// so separate CLI invocations stay authenticated.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Cookie is the serializable subset of http.Cookie the session needs.
type Cookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path,omitempty"`
	Domain  string    `json:"domain,omitempty"`
	Expires time.Time `json:"expires,omitempty"`
}

// Session is the persisted authentication state for one backend.
type Session struct {
	BaseURL   string    `json:"base_url"`
	Cookies   []Cookie  `json:"cookies"`
	SavedAt   time.Time `json:"saved_at"`
	UserEmail string    `json:"user_email,omitempty"`
}

// Store saves session state as a JSON file under a base directory.
type Store struct {
	baseDir string
}

// NewStore creates a Store that saves sessions under baseDir.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Save writes the session to disk. The file is mode 0600 since it
// holds the authentication token.
func (s *Store) Save(sess Session) error {
	if sess.BaseURL == "" {
		return fmt.Errorf("session: base URL is required")
	}
	if err := os.MkdirAll(s.baseDir, 0o700); err != nil {
		return fmt.Errorf("session: creating directory: %w", err)
	}

	sess.SavedAt = time.Now().UTC()
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("session: marshaling: %w", err)
	}

	p := s.path()
	if err := os.WriteFile(p, data, 0o600); err != nil {
		return fmt.Errorf("session: writing %s: %w", p, err)
	}
	return nil
}

// Load reads the persisted session.
// Returns (session, true, nil) if found, (zero, false, nil) if not found.
func (s *Store) Load() (Session, bool, error) {
	p := s.path()
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Session{}, false, nil
		}
		return Session{}, false, fmt.Errorf("session: reading %s: %w", p, err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, false, fmt.Errorf("session: parsing %s: %w", p, err)
	}
	return sess, true, nil
}

// Clear deletes the persisted session. Missing file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: removing %s: %w", s.path(), err)
	}
	return nil
}

func (s *Store) path() string {
	return filepath.Join(s.baseDir, "session.json")
}

// Attach installs the session's cookies into a cookie jar for its base URL.
func Attach(jar http.CookieJar, sess Session) error {
	u, err := url.Parse(sess.BaseURL)
	if err != nil {
		return fmt.Errorf("session: parsing base URL %q: %w", sess.BaseURL, err)
	}
	cookies := make([]*http.Cookie, 0, len(sess.Cookies))
	for _, c := range sess.Cookies {
		cookies = append(cookies, &http.Cookie{
			Name:    c.Name,
			Value:   c.Value,
			Path:    c.Path,
			Domain:  c.Domain,
			Expires: c.Expires,
		})
	}
	jar.SetCookies(u, cookies)
	return nil
}

// Snapshot captures the jar's cookies for the base URL into a Session.
func Snapshot(jar http.CookieJar, baseURL string) (Session, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return Session{}, fmt.Errorf("session: parsing base URL %q: %w", baseURL, err)
	}
	sess := Session{BaseURL: baseURL}
	for _, c := range jar.Cookies(u) {
		sess.Cookies = append(sess.Cookies, Cookie{
			Name:    c.Name,
			Value:   c.Value,
			Path:    c.Path,
			Domain:  c.Domain,
			Expires: c.Expires,
		})
	}
	return sess, nil
}
