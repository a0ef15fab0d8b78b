package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/model"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(session *model.Session) error {
	if err := r.db.Create(session).Error; err != nil {
		return fmt.Errorf("create session failed: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetByToken(token string) (*model.Session, error) {
	var session model.Session
	if err := r.db.Where("token = ?", token).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query session by token failed: %w", err)
	}
	return &session, nil
}

func (r *SessionRepository) UpdateName(token, name string) error {
	if err := r.db.Model(&model.Session{}).Where("token = ?", token).Update("name", name).Error; err != nil {
		return fmt.Errorf("update session name failed: %w", err)
	}
	return nil
}

func (r *SessionRepository) TouchLastActive(token string, at time.Time) error {
	if err := r.db.Model(&model.Session{}).Where("token = ?", token).Update("last_active", at).Error; err != nil {
		return fmt.Errorf("touch session last active failed: %w", err)
	}
	return nil
}

// AppendSpaceID adds a space reference to the session's owned list. The row
// is locked for the duration of the read-modify-write so two concurrent
// space creations cannot lose a reference.
func (r *SessionRepository) AppendSpaceID(token string, spaceID uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var session model.Session
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("token = ?", token).First(&session).Error; err != nil {
			return err
		}
		session.SpaceIDs = append(session.SpaceIDs, spaceID)
		return tx.Model(&session).Select("space_ids").
			Updates(model.Session{SpaceIDs: session.SpaceIDs}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("append space to session failed: %w", err)
	}
	return nil
}
