package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/model"
)

type SpaceRepository struct {
	db *gorm.DB
}

func NewSpaceRepository(db *gorm.DB) *SpaceRepository {
	return &SpaceRepository{db: db}
}

func (r *SpaceRepository) Create(space *model.Space) error {
	if err := r.db.Create(space).Error; err != nil {
		return fmt.Errorf("create space failed: %w", err)
	}
	return nil
}

func (r *SpaceRepository) GetByID(id uint) (*model.Space, error) {
	var space model.Space
	if err := r.db.First(&space, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query space by id failed: %w", err)
	}
	return &space, nil
}

func (r *SpaceRepository) ListByOwnerToken(token string) ([]model.Space, error) {
	var spaces []model.Space
	if err := r.db.Where("owner_token = ?", token).Order("updated_at DESC").Find(&spaces).Error; err != nil {
		return nil, fmt.Errorf("list spaces failed: %w", err)
	}
	return spaces, nil
}

// AppendFilepaths appends paths to the space's filepath list as an atomic
// read-modify-write: the row is locked, the status check runs inside the same
// transaction, and the write is all-or-nothing. Returns (nil, false, nil)
// when the space does not exist and (space, false, nil) untouched when its
// status is processing.
func (r *SpaceRepository) AppendFilepaths(id uint, paths []string) (*model.Space, bool, error) {
	var (
		space    model.Space
		appended bool
	)
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&space, id).Error; err != nil {
			return err
		}
		if space.Status == model.SpaceStatusProcessing {
			return nil
		}
		space.Filepaths = append(space.Filepaths, paths...)
		space.Status = model.SpaceStatusReady
		if err := tx.Model(&space).Select("filepaths", "status").
			Updates(model.Space{Filepaths: space.Filepaths, Status: space.Status}).Error; err != nil {
			return err
		}
		appended = true
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("append filepaths failed: %w", err)
	}
	return &space, appended, nil
}
