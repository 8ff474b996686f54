package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/festpass/festpass-api/internal/domain"
	"github.com/festpass/festpass-api/internal/mailer"
	"github.com/festpass/festpass-api/internal/repository"
)

var (
	ErrUserExists        = repository.ErrUserExists
	ErrUserNotFound      = repository.ErrUserNotFound
	ErrWrongPassword     = errors.New("wrong password")
	ErrLegacyNoEmail     = errors.New("legacy account without email")
	ErrResetTokenInvalid = errors.New("password reset token is invalid or has expired")
)

const resetTokenTTL = time.Hour

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByIdentifier(ctx context.Context, identifier string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByResetToken(ctx context.Context, token string, now time.Time) (domain.User, error)
	SetResetToken(ctx context.Context, userID uint, token string, expires time.Time) error
	UpdatePassword(ctx context.Context, userID uint, hashedPassword string) error
	FindLegacyByUsername(ctx context.Context, username string) (domain.LegacyUser, error)
}

type MailPublisher interface {
	Publish(input mailer.SendMailInput) error
}

type AuthService struct {
	repo AuthUserRepository
	mail MailPublisher
}

func NewAuthService(repo AuthUserRepository, mail MailPublisher) *AuthService {
	return &AuthService{
		repo: repo,
		mail: mail,
	}
}

func (s *AuthService) Signup(ctx context.Context, user domain.User) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}
	user.Password = string(hash)

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *AuthService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

// Login accepts a WhatsApp number or an email as identifier. Accounts from the
// legacy users table still work through the username fallback.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (domain.User, error) {
	user, err := s.repo.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return s.loginLegacy(ctx, identifier, password)
		}

		return domain.User{}, fmt.Errorf("s.repo.FindByIdentifier -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, ErrWrongPassword
	}

	return user, nil
}

func (s *AuthService) loginLegacy(ctx context.Context, username, password string) (domain.User, error) {
	legacy, err := s.repo.FindLegacyByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("s.repo.FindLegacyByUsername -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(legacy.Password), []byte(password)); err != nil {
		return domain.User{}, ErrWrongPassword
	}

	return domain.User{
		ID:   legacy.ID,
		Name: legacy.Username,
	}, nil
}

// ForgotPassword stores a fresh reset token on the user and dispatches the
// reset link by mail. The link is never handed back to the caller.
func (s *AuthService) ForgotPassword(ctx context.Context, email, baseURL string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Legacy accounts have no email on file, so a reset mail
			// cannot be delivered.
			if _, legacyErr := s.repo.FindLegacyByUsername(ctx, email); legacyErr == nil {
				return ErrLegacyNoEmail
			}

			return ErrUserNotFound
		}

		return fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	token, err := newResetToken()
	if err != nil {
		return fmt.Errorf("newResetToken -> %w", err)
	}

	if err = s.repo.SetResetToken(ctx, user.ID, token, time.Now().Add(resetTokenTTL)); err != nil {
		return fmt.Errorf("s.repo.SetResetToken -> %w", err)
	}

	resetURL := fmt.Sprintf("%v/reset-password.html?token=%v", baseURL, token)
	err = s.mail.Publish(mailer.SendMailInput{
		To:      []string{user.Email},
		Subject: "Password Reset Request",
		Body: "You are receiving this because you (or someone else) have requested the reset of the password for your account.\n\n" +
			"Please click on the following link, or paste this into your browser to complete the process:\n\n" +
			resetURL + "\n\n" +
			"If you did not request this, please ignore this email and your password will remain unchanged.\n",
	})
	if err != nil {
		return fmt.Errorf("s.mail.Publish -> %w", err)
	}

	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.repo.FindByResetToken(ctx, token, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrResetTokenInvalid
		}

		return fmt.Errorf("s.repo.FindByResetToken -> %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err = s.repo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return fmt.Errorf("s.repo.UpdatePassword -> %w", err)
	}

	return nil
}

func newResetToken() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(buf), nil
}
