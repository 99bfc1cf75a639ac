package service

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/CragHerk/accounts-api/internal/apperror"
	"github.com/CragHerk/accounts-api/internal/models"
	"github.com/CragHerk/accounts-api/internal/repository"
	"github.com/CragHerk/accounts-api/pkg/bcrypt"
	"github.com/CragHerk/accounts-api/pkg/gravatar"
	jwtPkg "github.com/CragHerk/accounts-api/pkg/jwt"
)

type sentEmail struct {
	To    string
	Token string
}

type fakeEmailSender struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (f *fakeEmailSender) SendVerificationEmail(to, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentEmail{To: to, Token: token})
	return nil
}

func (f *fakeEmailSender) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeEmailSender) sentEmails() []sentEmail {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentEmail, len(f.sent))
	copy(out, f.sent)
	return out
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func newAuthFixture(t *testing.T) (*AuthService, *repository.UserRepository, *fakeEmailSender, *jwtPkg.TokenManager) {
	t.Helper()

	userRepo := repository.NewUserRepository(newTestDB(t))
	emails := &fakeEmailSender{}
	tokens := jwtPkg.NewTokenManager("test-secret")
	svc := NewAuthService(userRepo, emails, tokens, zap.NewNop())
	return svc, userRepo, emails, tokens
}

func TestSignup_CreatesUnverifiedUser(t *testing.T) {
	svc, userRepo, emails, _ := newAuthFixture(t)

	user, err := svc.Signup(models.SignupRequest{Email: "a@x.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStarter, user.Subscription)

	stored, err := userRepo.GetByEmail("a@x.com")
	require.NoError(t, err)
	assert.False(t, stored.Verify)
	require.NotNil(t, stored.VerificationToken)
	assert.Equal(t, gravatar.URL("a@x.com"), stored.AvatarURL)
	assert.NoError(t, bcrypt.ComparePassword(stored.Password, "secret"))

	// dispatched in a goroutine
	require.Eventually(t, func() bool {
		return len(emails.sentEmails()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, sentEmail{To: "a@x.com", Token: *stored.VerificationToken}, emails.sentEmails()[0])
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, err := svc.Signup(models.SignupRequest{Email: "a@x.com", Password: "secret"})
	require.NoError(t, err)

	_, err = svc.Signup(models.SignupRequest{Email: "a@x.com", Password: "different"})
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Status)
	assert.Equal(t, "Email in use", appErr.Message)
}

func TestSignup_EmailFailureDoesNotSurface(t *testing.T) {
	svc, userRepo, emails, _ := newAuthFixture(t)
	emails.setErr(errors.New("smtp down"))

	_, err := svc.Signup(models.SignupRequest{Email: "a@x.com", Password: "secret"})
	require.NoError(t, err)

	_, err = userRepo.GetByEmail("a@x.com")
	assert.NoError(t, err)
}

func TestLogin_Success(t *testing.T) {
	svc, userRepo, _, tokens := newAuthFixture(t)

	_, err := svc.Signup(models.SignupRequest{Email: "a@x.com", Password: "secret"})
	require.NoError(t, err)

	resp, err := svc.Login(models.LoginRequest{Email: "a@x.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", resp.User.Email)
	assert.Equal(t, models.SubscriptionStarter, resp.User.Subscription)

	stored, err := userRepo.GetByEmail("a@x.com")
	require.NoError(t, err)

	userID, err := tokens.Validate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, userID)

	// token persisted for logout revocation
	require.NotNil(t, stored.Token)
	assert.Equal(t, resp.Token, *stored.Token)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, err := svc.Signup(models.SignupRequest{Email: "a@x.com", Password: "secret"})
	require.NoError(t, err)

	_, wrongPassErr := svc.Login(models.LoginRequest{Email: "a@x.com", Password: "wrong"})
	_, unknownErr := svc.Login(models.LoginRequest{Email: "nobody@x.com", Password: "secret"})

	var wrongPass, unknown *apperror.Error
	require.ErrorAs(t, wrongPassErr, &wrongPass)
	require.ErrorAs(t, unknownErr, &unknown)

	assert.Equal(t, 401, wrongPass.Status)
	assert.Equal(t, *wrongPass, *unknown)
	assert.Equal(t, "Email or password is wrong", wrongPass.Message)
}

func TestLogout_ClearsSessionToken(t *testing.T) {
	svc, userRepo, _, _ := newAuthFixture(t)

	_, err := svc.Signup(models.SignupRequest{Email: "a@x.com", Password: "secret"})
	require.NoError(t, err)
	_, err = svc.Login(models.LoginRequest{Email: "a@x.com", Password: "secret"})
	require.NoError(t, err)

	user, err := userRepo.GetByEmail("a@x.com")
	require.NoError(t, err)
	require.NotNil(t, user.Token)

	require.NoError(t, svc.Logout(user))

	user, err = userRepo.GetByEmail("a@x.com")
	require.NoError(t, err)
	assert.Nil(t, user.Token)
}

func TestVerifyEmail(t *testing.T) {
	svc, userRepo, _, _ := newAuthFixture(t)

	_, err := svc.Signup(models.SignupRequest{Email: "a@x.com", Password: "secret"})
	require.NoError(t, err)

	stored, err := userRepo.GetByEmail("a@x.com")
	require.NoError(t, err)
	token := *stored.VerificationToken

	require.NoError(t, svc.VerifyEmail(token))

	stored, err = userRepo.GetByEmail("a@x.com")
	require.NoError(t, err)
	assert.True(t, stored.Verify)
	assert.Nil(t, stored.VerificationToken)

	// the token is single-use; a second attempt is a 404
	err = svc.VerifyEmail(token)
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
}

func TestVerifyEmail_UnknownToken(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	err := svc.VerifyEmail("no-such-token")
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
	assert.Equal(t, "Verification user Not Found", appErr.Message)
}

func TestResend_UnknownUser(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	err := svc.ResendVerificationEmail("nobody@x.com")
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
	assert.Equal(t, "User not found", appErr.Message)
}

func TestResend_AlreadyVerified(t *testing.T) {
	svc, userRepo, _, _ := newAuthFixture(t)

	_, err := svc.Signup(models.SignupRequest{Email: "a@x.com", Password: "secret"})
	require.NoError(t, err)

	stored, err := userRepo.GetByEmail("a@x.com")
	require.NoError(t, err)
	require.NoError(t, svc.VerifyEmail(*stored.VerificationToken))

	err = svc.ResendVerificationEmail("a@x.com")
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "Verification has already been passed", appErr.Message)
}

func TestResend_ReusesExistingToken(t *testing.T) {
	svc, userRepo, emails, _ := newAuthFixture(t)

	_, err := svc.Signup(models.SignupRequest{Email: "a@x.com", Password: "secret"})
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return len(emails.sentEmails()) == 1
	}, time.Second, 10*time.Millisecond)

	before, err := userRepo.GetByEmail("a@x.com")
	require.NoError(t, err)

	require.NoError(t, svc.ResendVerificationEmail("a@x.com"))

	sent := emails.sentEmails()
	require.Len(t, sent, 2)
	assert.Equal(t, *before.VerificationToken, sent[1].Token)

	after, err := userRepo.GetByEmail("a@x.com")
	require.NoError(t, err)
	assert.Equal(t, *before.VerificationToken, *after.VerificationToken)
}

func TestResend_MintsTokenWhenMissing(t *testing.T) {
	svc, userRepo, emails, _ := newAuthFixture(t)

	// unverified user that somehow has no token on record
	require.NoError(t, userRepo.Create(&models.User{
		Email:        "a@x.com",
		Password:     "hashed",
		Subscription: models.SubscriptionStarter,
	}))

	require.NoError(t, svc.ResendVerificationEmail("a@x.com"))

	sent := emails.sentEmails()
	require.Len(t, sent, 1)

	stored, err := userRepo.GetByEmail("a@x.com")
	require.NoError(t, err)
	require.NotNil(t, stored.VerificationToken)
	assert.Equal(t, *stored.VerificationToken, sent[0].Token)
}

func TestResend_SendFailurePropagates(t *testing.T) {
	svc, userRepo, emails, _ := newAuthFixture(t)

	_, err := svc.Signup(models.SignupRequest{Email: "a@x.com", Password: "secret"})
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return len(emails.sentEmails()) == 1
	}, time.Second, 10*time.Millisecond)

	emails.setErr(errors.New("smtp down"))
	err = svc.ResendVerificationEmail("a@x.com")
	require.Error(t, err)

	var appErr *apperror.Error
	assert.False(t, errors.As(err, &appErr), "transport failures are not contract errors")

	_, err = userRepo.GetByEmail("a@x.com")
	assert.NoError(t, err)
}
