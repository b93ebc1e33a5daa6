package repositories

import (
	"errors"

	"github.com/anonto42/foodgram/backend/internal/apperrors"
	"github.com/anonto42/foodgram/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUsers(offset, limit int) ([]models.User, int64, error)
	GetSubscribedAuthors(userID uint, offset, limit int) ([]models.User, int64, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *PostgresUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUsers(offset, limit int) ([]models.User, int64, error) {
	var total int64
	if err := r.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []models.User
	err := r.db.Order("id").Offset(offset).Limit(limit).Find(&users).Error
	return users, total, err
}

// GetSubscribedAuthors returns the authors the given user follows,
// ordered by id for stable pagination.
func (r *PostgresUserRepository) GetSubscribedAuthors(userID uint, offset, limit int) ([]models.User, int64, error) {
	authorIDs := r.db.Table("subscriptions").Select("author_id").Where("user_id = ?", userID)

	var total int64
	if err := r.db.Model(&models.User{}).Where("id IN (?)", authorIDs).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var authors []models.User
	err := r.db.Where("id IN (?)", authorIDs).Order("id").Offset(offset).Limit(limit).Find(&authors).Error
	return authors, total, err
}
