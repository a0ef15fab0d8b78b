package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/model"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(doc *model.Document) error {
	if err := r.db.Create(doc).Error; err != nil {
		return fmt.Errorf("create document failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) ListBySpaceID(spaceID uint) ([]model.Document, error) {
	var docs []model.Document
	if err := r.db.Where("space_id = ?", spaceID).Order("created_at ASC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("list documents failed: %w", err)
	}
	return docs, nil
}
