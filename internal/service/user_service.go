package service

import (
	"fmt"
	"mime/multipart"
	"path/filepath"

	"github.com/CragHerk/accounts-api/internal/models"
	"github.com/CragHerk/accounts-api/internal/repository"
	"github.com/CragHerk/accounts-api/pkg/avatar"
)

type UserService struct {
	userRepo *repository.UserRepository
	avatars  *avatar.Storage
}

func NewUserService(userRepo *repository.UserRepository, avatars *avatar.Storage) *UserService {
	return &UserService{
		userRepo: userRepo,
		avatars:  avatars,
	}
}

func (s *UserService) GetUserByID(id uint) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// UpdateAvatar stores the uploaded image under a name derived from the
// user ID, so a re-upload replaces the previous avatar.
func (s *UserService) UpdateAvatar(user *models.User, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := fmt.Sprintf("%d%s", user.ID, filepath.Ext(file.Filename))
	avatarURL, err := s.avatars.Store(src, name)
	if err != nil {
		return "", err
	}

	if err := s.userRepo.UpdateAvatarURL(user.ID, avatarURL); err != nil {
		return "", err
	}

	user.AvatarURL = avatarURL
	return avatarURL, nil
}

func (s *UserService) UpdateSubscription(user *models.User, subscription string) error {
	if err := s.userRepo.UpdateSubscription(user.ID, subscription); err != nil {
		return err
	}
	user.Subscription = subscription
	return nil
}
