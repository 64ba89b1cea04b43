package app

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// SessionStore holds the process-wide credential. It is loaded synchronously
// from disk at construction and persisted on every mutation, so a restart
// picks up where the last run left off. No validation round-trip happens at
// load time: a stale token stays "authenticated" until the first request
// bounces with a 401.
type SessionStore struct {
	path string

	mu    sync.RWMutex
	token string
	user  *User
}

type sessionFile struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}

// DefaultSessionPath places the session file next to the config, under the
// user config dir.
func DefaultSessionPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "oratio", "session.json")
	}
	return filepath.Join(base, "oratio", "session.json")
}

func NewSessionStore(path string) *SessionStore {
	if strings.TrimSpace(path) == "" {
		path = DefaultSessionPath()
	}
	s := &SessionStore{path: path}
	s.load()
	return s
}

func (s *SessionStore) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var f sessionFile
	if err := json.Unmarshal(data, &f); err != nil {
		return
	}
	s.token = f.Token
	s.user = f.User
}

func (s *SessionStore) persist() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(sessionFile{Token: s.token, User: s.user})
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Login stores the credential. The caller already obtained the token; no
// server round-trip happens here.
func (s *SessionStore) Login(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return s.persist()
}

// Logout clears the credential and the persisted file. Safe to call when
// already logged out.
func (s *SessionStore) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// SetUser replaces the account info without touching the credential.
func (s *SessionStore) SetUser(u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
	return s.persist()
}

// Token is read by the auth transport on every outbound request, so a logout
// is observed by any request issued after it.
func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *SessionStore) IsAuthenticated() bool {
	return s.Token() != ""
}

func (s *SessionStore) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}
