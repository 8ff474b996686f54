package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserExists   = errors.New("user with this WhatsApp or Email already exists")
	ErrUserNotFound = errors.New("user not found")
)

type User struct {
	ID uint `gorm:"primaryKey"`

	Name           string `gorm:"not null"`
	WhatsappNumber string `gorm:"unique;not null"`
	Email          string `gorm:"unique;not null"`
	Password       string `gorm:"not null"`

	ResetPasswordToken   *string
	ResetPasswordExpires *time.Time

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (User) TableName() string {
	return "user_details"
}

// LegacyUser holds accounts created before the contact-details signup existed.
type LegacyUser struct {
	ID       uint   `gorm:"primaryKey"`
	Username string `gorm:"unique;not null"`
	Password string `gorm:"not null"`
}

func (LegacyUser) TableName() string {
	return "users"
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	result := d.db.WithContext(ctx).Create(&user)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return User{}, ErrUserExists
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByID(ctx context.Context, id uint) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByIdentifier(ctx context.Context, identifier string) (User, error) {
	var user User

	result := d.db.WithContext(ctx).
		First(&user, "whatsapp_number = ? OR email = ?", identifier, identifier)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

// FindByResetToken matches an unexpired reset token.
func (d *UserDAO) FindByResetToken(ctx context.Context, token string, now time.Time) (User, error) {
	var user User

	result := d.db.WithContext(ctx).
		First(&user, "reset_password_token = ? AND reset_password_expires > ?", token, now)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) SetResetToken(ctx context.Context, userID uint, token string, expires time.Time) error {
	result := d.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"reset_password_token":   token,
			"reset_password_expires": expires,
		})

	return result.Error
}

// UpdatePassword stores the new hash and clears any outstanding reset token.
func (d *UserDAO) UpdatePassword(ctx context.Context, userID uint, hashedPassword string) error {
	result := d.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"password":               hashedPassword,
			"reset_password_token":   nil,
			"reset_password_expires": nil,
		})

	return result.Error
}

func (d *UserDAO) FindLegacyByUsername(ctx context.Context, username string) (LegacyUser, error) {
	var user LegacyUser

	result := d.db.WithContext(ctx).First(&user, "username = ?", username)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return LegacyUser{}, ErrUserNotFound
		}

		return LegacyUser{}, result.Error
	}

	return user, nil
}
