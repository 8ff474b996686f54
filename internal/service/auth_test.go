package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/festpass/festpass-api/internal/domain"
	"github.com/festpass/festpass-api/internal/repository"
)

type fakeUserRepo struct {
	users  map[uint]domain.User
	legacy map[string]domain.LegacyUser
	nextID uint

	tokens  map[uint]string
	expires map[uint]time.Time
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:   make(map[uint]domain.User),
		legacy:  make(map[string]domain.LegacyUser),
		tokens:  make(map[uint]string),
		expires: make(map[uint]time.Time),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	for _, existing := range f.users {
		if existing.WhatsappNumber == user.WhatsappNumber || existing.Email == user.Email {
			return domain.User{}, repository.ErrUserExists
		}
	}

	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = user

	return user, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

func (f *fakeUserRepo) FindByIdentifier(_ context.Context, identifier string) (domain.User, error) {
	for _, user := range f.users {
		if user.WhatsappNumber == identifier || user.Email == identifier {
			return user, nil
		}
	}

	return domain.User{}, repository.ErrUserNotFound
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}

	return domain.User{}, repository.ErrUserNotFound
}

func (f *fakeUserRepo) FindByResetToken(_ context.Context, token string, now time.Time) (domain.User, error) {
	for id, stored := range f.tokens {
		if stored == token && f.expires[id].After(now) {
			return f.users[id], nil
		}
	}

	return domain.User{}, repository.ErrUserNotFound
}

func (f *fakeUserRepo) SetResetToken(_ context.Context, userID uint, token string, expires time.Time) error {
	f.tokens[userID] = token
	f.expires[userID] = expires

	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, userID uint, hashedPassword string) error {
	user := f.users[userID]
	user.Password = hashedPassword
	f.users[userID] = user
	delete(f.tokens, userID)
	delete(f.expires, userID)

	return nil
}

func (f *fakeUserRepo) FindLegacyByUsername(_ context.Context, username string) (domain.LegacyUser, error) {
	legacy, ok := f.legacy[username]
	if !ok {
		return domain.LegacyUser{}, repository.ErrUserNotFound
	}

	return legacy, nil
}

func signupTestUser(t *testing.T, svc *AuthService) domain.User {
	t.Helper()

	user, err := svc.Signup(context.Background(), domain.User{
		Name:           "Asha",
		WhatsappNumber: "9998887777",
		Email:          "asha@example.com",
		Password:       "secret1",
	})
	require.NoError(t, err)

	return user
}

func TestAuthService_Signup(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, &fakeMailPublisher{})

	user := signupTestUser(t, svc)

	// The stored password is a bcrypt hash, never the plaintext.
	stored := repo.users[user.ID]
	assert.NotEqual(t, "secret1", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret1")))

	_, err := svc.Signup(context.Background(), domain.User{
		Name:           "Asha Again",
		WhatsappNumber: "9998887777",
		Email:          "asha@example.com",
		Password:       "secret1",
	})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestAuthService_Login(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, &fakeMailPublisher{})

	signupTestUser(t, svc)

	user, err := svc.Login(context.Background(), "9998887777", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Asha", user.Name)

	user, err = svc.Login(context.Background(), "asha@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Asha", user.Name)

	_, err = svc.Login(context.Background(), "asha@example.com", "wrong")
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, err = svc.Login(context.Background(), "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_Login_LegacyFallback(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, &fakeMailPublisher{})

	hash, err := bcrypt.GenerateFromPassword([]byte("oldpass1"), bcrypt.DefaultCost)
	require.NoError(t, err)
	repo.legacy["ravi"] = domain.LegacyUser{ID: 42, Username: "ravi", Password: string(hash)}

	user, err := svc.Login(context.Background(), "ravi", "oldpass1")
	require.NoError(t, err)
	assert.Equal(t, uint(42), user.ID)
	assert.Equal(t, "ravi", user.Name)

	_, err = svc.Login(context.Background(), "ravi", "wrong")
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestAuthService_ForgotPassword(t *testing.T) {
	repo := newFakeUserRepo()
	mail := &fakeMailPublisher{}
	svc := NewAuthService(repo, mail)

	user := signupTestUser(t, svc)

	err := svc.ForgotPassword(context.Background(), "asha@example.com", "https://fest.example.com")
	require.NoError(t, err)

	token := repo.tokens[user.ID]
	require.NotEmpty(t, token)

	// The reset link goes out by mail only, never back to the caller.
	require.Len(t, mail.sent, 1)
	assert.Equal(t, []string{"asha@example.com"}, mail.sent[0].To)
	assert.Contains(t, mail.sent[0].Body, "https://fest.example.com/reset-password.html?token="+token)
}

func TestAuthService_ForgotPassword_Errors(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, &fakeMailPublisher{})

	err := svc.ForgotPassword(context.Background(), "nobody@example.com", "https://fest.example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	repo.legacy["ravi"] = domain.LegacyUser{ID: 42, Username: "ravi"}
	err = svc.ForgotPassword(context.Background(), "ravi", "https://fest.example.com")
	assert.ErrorIs(t, err, ErrLegacyNoEmail)
}

func TestAuthService_ResetPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, &fakeMailPublisher{})

	user := signupTestUser(t, svc)

	require.NoError(t, svc.ForgotPassword(context.Background(), "asha@example.com", "https://fest.example.com"))
	token := repo.tokens[user.ID]

	require.NoError(t, svc.ResetPassword(context.Background(), token, "fresh42pass"))

	_, err := svc.Login(context.Background(), "asha@example.com", "fresh42pass")
	require.NoError(t, err)

	// Tokens are single use.
	err = svc.ResetPassword(context.Background(), token, "another1")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestAuthService_ResetPassword_ExpiredToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, &fakeMailPublisher{})

	user := signupTestUser(t, svc)

	repo.tokens[user.ID] = "expiredtoken"
	repo.expires[user.ID] = time.Now().Add(-time.Minute)

	err := svc.ResetPassword(context.Background(), "expiredtoken", "fresh42pass")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}
