package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/model"
	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/pkg/token"
)

// Identity is the session context threaded through every authorized
// operation: the opaque token plus the display name, nothing else. There is
// no ambient per-connection state.
type Identity struct {
	Token string
	Name  string
}

type SessionStore interface {
	Create(session *model.Session) error
	GetByToken(token string) (*model.Session, error)
	UpdateName(token, name string) error
	TouchLastActive(token string, at time.Time) error
	AppendSpaceID(token string, spaceID uint) error
}

type SessionService struct {
	sessions SessionStore
}

func NewSessionService(sessions SessionStore) *SessionService {
	return &SessionService{sessions: sessions}
}

// Register mints a fresh session token and creates the Session record with
// an empty space list.
func (s *SessionService) Register(name string) (*Identity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	tok, err := token.New()
	if err != nil {
		return nil, fmt.Errorf("mint session token failed: %w", err)
	}

	session := &model.Session{
		Token:      tok,
		Name:       name,
		SpaceIDs:   []uint{},
		LastActive: time.Now(),
	}
	if err := s.sessions.Create(session); err != nil {
		return nil, err
	}
	return &Identity{Token: tok, Name: name}, nil
}

// Resume looks up an existing session by token and bumps its last-active
// timestamp.
func (s *SessionService) Resume(tok string) (*Identity, error) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return nil, ErrInvalidInput
	}

	session, err := s.sessions.GetByToken(tok)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if err := s.sessions.TouchLastActive(tok, time.Now()); err != nil {
		return nil, err
	}
	return &Identity{Token: session.Token, Name: session.Name}, nil
}

// Profile re-reads the Session row for the context token; a token that no
// longer resolves (deleted out-of-band) surfaces as not found.
func (s *SessionService) Profile(tok string) (*model.Session, error) {
	session, err := s.sessions.GetByToken(tok)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionService) UpdateName(tok, name string) (*Identity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	session, err := s.sessions.GetByToken(tok)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if err := s.sessions.UpdateName(tok, name); err != nil {
		return nil, err
	}
	return &Identity{Token: tok, Name: name}, nil
}
