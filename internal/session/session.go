// Package session holds the authenticated user's durable state: token,
// identity and role flags. It is the client-side analogue of the web client's
// localStorage keys, persisted as a small JSON file and injected into every
// component that needs it rather than read ambiently.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"ideahub/internal/apperr"
)

// Session is the authenticated user's state for the lifetime of a login.
type Session struct {
	Token       string
	UserID      string
	UserName    string
	IsModerator bool
	IsAdmin     bool
}

// Expired reports whether the session token's exp claim has passed. The
// client holds no signing key, so the claim is read unverified; the backend
// remains the authority and will reject a forged token anyway.
func (s *Session) Expired() bool {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(s.Token, claims); err != nil {
		// An unparseable token is treated as usable; the backend decides.
		return false
	}
	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return false
	}
	return expiry.Before(time.Now())
}

// Store is the injected session provider. Current returns
// apperr.ErrNoSession when no session is stored.
type Store interface {
	Current() (*Session, error)
	Save(*Session) error
	Clear() error
}

// The stored keys mirror the web client's localStorage entries, all strings,
// cleared together on logout.
type fileState struct {
	AuthToken   string `json:"authToken"`
	UserID      string `json:"userId"`
	UserName    string `json:"userName"`
	IsAdmin     string `json:"is_admin"`
	IsModerator string `json:"is_moderator"`
}

// FileStore persists the session as a mode-0600 JSON file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (fs *FileStore) Current() (*Session, error) {
	data, err := os.ReadFile(fs.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, apperr.NewNoSessionError()
	}
	if err != nil {
		return nil, apperr.New(apperr.ErrSessionError, "reading session file", err)
	}

	var state fileState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, apperr.New(apperr.ErrSessionError, "decoding session file", err)
	}
	if state.AuthToken == "" {
		return nil, apperr.NewNoSessionError()
	}

	return &Session{
		Token:       state.AuthToken,
		UserID:      state.UserID,
		UserName:    state.UserName,
		IsAdmin:     state.IsAdmin == "true",
		IsModerator: state.IsModerator == "true",
	}, nil
}

func (fs *FileStore) Save(s *Session) error {
	state := fileState{
		AuthToken:   s.Token,
		UserID:      s.UserID,
		UserName:    s.UserName,
		IsAdmin:     boolString(s.IsAdmin),
		IsModerator: boolString(s.IsModerator),
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return apperr.New(apperr.ErrSessionError, "encoding session", err)
	}
	if err := os.MkdirAll(filepath.Dir(fs.path), 0o700); err != nil {
		return apperr.New(apperr.ErrSessionError, "creating session dir", err)
	}
	if err := os.WriteFile(fs.path, data, 0o600); err != nil {
		return apperr.New(apperr.ErrSessionError, "writing session file", err)
	}
	return nil
}

func (fs *FileStore) Clear() error {
	err := os.Remove(fs.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return apperr.New(apperr.ErrSessionError, "clearing session file", err)
	}
	return nil
}

// Token implements the API client's token source: it reads the store
// synchronously immediately before each call, so a logout between two calls
// is always observed. A missing session blocks the request.
func (fs *FileStore) Token() (string, error) {
	current, err := fs.Current()
	if err != nil {
		return "", err
	}
	if current.Expired() {
		return "", apperr.New(apperr.ErrNoSession, "session expired, log in again", nil)
	}
	return current.Token, nil
}

var _ Store = (*FileStore)(nil)

func boolString(v bool) string {
	return fmt.Sprintf("%t", v)
}
