// Package session persists named profiles (backend URL + bearer token) and
// inspects tokens for display purposes.
package session

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// Profile is one saved backend identity.
type Profile struct {
	Name     string `yaml:"name"`
	APIURL   string `yaml:"api_url"`
	Username string `yaml:"username,omitempty"`
	Token    string `yaml:"token,omitempty"`
}

type profileFile struct {
	Current  string    `yaml:"current"`
	Profiles []Profile `yaml:"profiles"`
}

// Store reads and writes the profile file. Writes are atomic so a crash
// mid-save never leaves a truncated file behind.
type Store struct {
	path string
	file profileFile
}

// Open loads the profile file at path, tolerating a missing file (first
// run).
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}

	if err := yaml.Unmarshal(data, &s.file); err != nil {
		return nil, fmt.Errorf("failed to parse profiles file %s: %w", path, err)
	}
	return s, nil
}

// DefaultPath returns the profile file location under the state directory.
func DefaultPath(stateDir string) string {
	return filepath.Join(stateDir, "profiles.yaml")
}

func (s *Store) save() error {
	data, err := yaml.Marshal(&s.file)
	if err != nil {
		return fmt.Errorf("failed to marshal profiles: %w", err)
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write profiles: %w", err)
	}
	// Tokens live in this file
	return os.Chmod(s.path, 0600)
}

// Current returns the active profile, or nil when none is selected.
func (s *Store) Current() *Profile {
	return s.find(s.file.Current)
}

func (s *Store) find(name string) *Profile {
	for i := range s.file.Profiles {
		if s.file.Profiles[i].Name == name {
			return &s.file.Profiles[i]
		}
	}
	return nil
}

// Profiles lists all saved profiles.
func (s *Store) Profiles() []Profile {
	return append([]Profile(nil), s.file.Profiles...)
}

// Use selects an existing profile as current.
func (s *Store) Use(name string) error {
	if s.find(name) == nil {
		return fmt.Errorf("profile %q does not exist", name)
	}
	s.file.Current = name
	return s.save()
}

// Put creates or replaces a profile and makes it current.
func (s *Store) Put(p Profile) error {
	if p.Name == "" {
		return fmt.Errorf("profile name cannot be empty")
	}
	if existing := s.find(p.Name); existing != nil {
		*existing = p
	} else {
		s.file.Profiles = append(s.file.Profiles, p)
	}
	s.file.Current = p.Name
	return s.save()
}

// SetToken stores a fresh token on the named profile (created on demand
// when logging in against a URL with no saved profile yet).
func (s *Store) SetToken(name, apiURL, username, token string) error {
	p := s.find(name)
	if p == nil {
		return s.Put(Profile{Name: name, APIURL: apiURL, Username: username, Token: token})
	}
	p.APIURL = apiURL
	p.Username = username
	p.Token = token
	s.file.Current = name
	return s.save()
}

// ClearToken logs the named profile out, keeping the profile itself.
func (s *Store) ClearToken(name string) error {
	p := s.find(name)
	if p == nil {
		return fmt.Errorf("profile %q does not exist", name)
	}
	p.Token = ""
	return s.save()
}

// TokenSource resolves the bearer token for requests, in precedence order:
// explicit override (--token flag), environment variable, current profile.
// It is consulted at call time, so a login in the same process is visible
// to the next request.
type TokenSource struct {
	Override string
	EnvVar   string
	Store    *Store
	Profile  string
}

func (t *TokenSource) Token() (string, error) {
	if t.Override != "" {
		return t.Override, nil
	}
	if t.EnvVar != "" {
		if v := os.Getenv(t.EnvVar); v != "" {
			return v, nil
		}
	}
	if t.Store != nil {
		p := t.Store.find(t.Profile)
		if p == nil {
			p = t.Store.Current()
		}
		if p != nil {
			return p.Token, nil
		}
	}
	return "", nil
}
