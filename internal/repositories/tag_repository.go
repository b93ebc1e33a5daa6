package repositories

import (
	"errors"

	"github.com/anonto42/foodgram/backend/internal/apperrors"
	"github.com/anonto42/foodgram/backend/internal/models"
	"gorm.io/gorm"
)

// TagRepository defines the interface for tag lookups
type TagRepository interface {
	GetTags() ([]models.Tag, error)
	GetTagByID(id uint) (*models.Tag, error)
}

// PostgresTagRepository implements TagRepository for PostgreSQL
type PostgresTagRepository struct {
	db *gorm.DB
}

func NewPostgresTagRepository(db *gorm.DB) *PostgresTagRepository {
	return &PostgresTagRepository{db: db}
}

func (r *PostgresTagRepository) GetTags() ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.Order("id").Find(&tags).Error
	return tags, err
}

func (r *PostgresTagRepository) GetTagByID(id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("tag not found")
		}
		return nil, err
	}
	return &tag, nil
}
