package repository

import (
	"github.com/CragHerk/accounts-api/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByVerificationToken(token string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("verification_token = ?", token).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// UpdateSessionToken writes the current session token; nil logs the
// user out.
func (r *UserRepository) UpdateSessionToken(id uint, token *string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("token", token).Error
}

func (r *UserRepository) UpdateAvatarURL(id uint, avatarURL string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("avatar_url", avatarURL).Error
}

func (r *UserRepository) UpdateSubscription(id uint, subscription string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("subscription", subscription).Error
}

// MarkVerified flips the verification flag and clears the one-time
// token in a single update.
func (r *UserRepository) MarkVerified(id uint) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"verify":             true,
		"verification_token": nil,
	}).Error
}

// SetVerificationToken persists a freshly minted verification token.
func (r *UserRepository) SetVerificationToken(id uint, token string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("verification_token", token).Error
}
