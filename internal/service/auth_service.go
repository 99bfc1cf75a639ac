package service

import (
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/CragHerk/accounts-api/internal/apperror"
	"github.com/CragHerk/accounts-api/internal/models"
	"github.com/CragHerk/accounts-api/internal/repository"
	"github.com/CragHerk/accounts-api/pkg/bcrypt"
	"github.com/CragHerk/accounts-api/pkg/gravatar"
	jwtPkg "github.com/CragHerk/accounts-api/pkg/jwt"
)

// EmailSender delivers verification mail. Satisfied by
// email.EmailService.
type EmailSender interface {
	SendVerificationEmail(to, token string) error
}

type AuthService struct {
	userRepo *repository.UserRepository
	email    EmailSender
	tokens   *jwtPkg.TokenManager
	logger   *zap.Logger
}

func NewAuthService(userRepo *repository.UserRepository, email EmailSender, tokens *jwtPkg.TokenManager, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		email:    email,
		tokens:   tokens,
		logger:   logger,
	}
}

func (s *AuthService) Signup(req models.SignupRequest) (*models.User, error) {
	exists, err := s.userRepo.EmailExists(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("Email in use")
	}

	hashedPassword, err := bcrypt.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	verificationToken := uuid.NewString()
	user := &models.User{
		Email:             req.Email,
		Password:          hashedPassword,
		Subscription:      models.SubscriptionStarter,
		AvatarURL:         gravatar.URL(req.Email),
		VerificationToken: &verificationToken,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	// Fire-and-forget: the account is already created, a failed
	// send only gets logged. Resend is the recovery path.
	go func() {
		if err := s.email.SendVerificationEmail(user.Email, verificationToken); err != nil {
			s.logger.Error("verification email failed",
				zap.String("email", user.Email),
				zap.Error(err),
			)
		}
	}()

	return user, nil
}

func (s *AuthService) Login(req models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same message as a bad password so the response
			// never reveals which field was wrong.
			return nil, apperror.Unauthorized("Email or password is wrong")
		}
		return nil, err
	}

	if err := bcrypt.ComparePassword(user.Password, req.Password); err != nil {
		return nil, apperror.Unauthorized("Email or password is wrong")
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, err
	}

	// The signed token is kept on the row so logout can revoke it.
	if err := s.userRepo.UpdateSessionToken(user.ID, &token); err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		Token: token,
		User: models.LoginUser{
			Email:        user.Email,
			Subscription: user.Subscription,
		},
	}, nil
}

func (s *AuthService) Logout(user *models.User) error {
	return s.userRepo.UpdateSessionToken(user.ID, nil)
}

func (s *AuthService) VerifyEmail(token string) error {
	user, err := s.userRepo.GetByVerificationToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Verification user Not Found")
		}
		return err
	}

	return s.userRepo.MarkVerified(user.ID)
}

func (s *AuthService) ResendVerificationEmail(email string) error {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("User not found")
		}
		return err
	}

	if user.Verify {
		return apperror.BadRequest("Verification has already been passed")
	}

	minted := false
	verificationToken := ""
	if user.VerificationToken != nil {
		verificationToken = *user.VerificationToken
	} else {
		verificationToken = uuid.NewString()
		minted = true
	}

	// Unlike signup, the send is the whole point of this operation,
	// so a transport failure surfaces to the caller.
	if err := s.email.SendVerificationEmail(user.Email, verificationToken); err != nil {
		return err
	}

	if minted {
		return s.userRepo.SetVerificationToken(user.ID, verificationToken)
	}
	return nil
}
