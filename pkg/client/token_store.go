package client

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
)

// TokenStore persistencia de la sesión del cliente.
type TokenStore interface {
	// Load devuelve nil si no hay sesión guardada.
	Load() (*entity.Session, error)
	Save(sess *entity.Session) error
	Clear() error
}

type noopStore struct{}

func (noopStore) Load() (*entity.Session, error) { return nil, nil }
func (noopStore) Save(*entity.Session) error     { return nil }
func (noopStore) Clear() error                   { return nil }

// FileTokenStore guarda la sesión como JSON en un archivo con permisos 0600.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore construye el store sobre path.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

type storedSession struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
}

func (s *FileTokenStore) Load() (*entity.Session, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var st storedSession
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, err
	}
	return &entity.Session{
		AccessToken:  st.AccessToken,
		RefreshToken: st.RefreshToken,
		ExpiresAt:    st.ExpiresAt,
		User:         entity.Identity{ID: st.UserID, Email: st.Email},
	}, nil
}

func (s *FileTokenStore) Save(sess *entity.Session) error {
	if sess == nil {
		return s.Clear()
	}
	raw, err := json.MarshalIndent(storedSession{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		ExpiresAt:    sess.ExpiresAt,
		UserID:       sess.User.ID,
		Email:        sess.User.Email,
	}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}

func (s *FileTokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
