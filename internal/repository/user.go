package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/festpass/festpass-api/internal/domain"
	"github.com/festpass/festpass-api/internal/repository/dao"
)

var (
	ErrUserExists   = dao.ErrUserExists
	ErrUserNotFound = dao.ErrUserNotFound
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	FindByID(ctx context.Context, id uint) (dao.User, error)
	FindByIdentifier(ctx context.Context, identifier string) (dao.User, error)
	FindByEmail(ctx context.Context, email string) (dao.User, error)
	FindByResetToken(ctx context.Context, token string, now time.Time) (dao.User, error)
	SetResetToken(ctx context.Context, userID uint, token string, expires time.Time) error
	UpdatePassword(ctx context.Context, userID uint, hashedPassword string) error
	FindLegacyByUsername(ctx context.Context, username string) (dao.LegacyUser, error)
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	created, err := r.dao.Insert(ctx, dao.User{
		Name:           user.Name,
		WhatsappNumber: user.WhatsappNumber,
		Email:          user.Email,
		Password:       user.Password,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindByIdentifier(ctx context.Context, identifier string) (domain.User, error) {
	found, err := r.dao.FindByIdentifier(ctx, identifier)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByIdentifier -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindByResetToken(ctx context.Context, token string, now time.Time) (domain.User, error) {
	found, err := r.dao.FindByResetToken(ctx, token, now)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByResetToken -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) SetResetToken(ctx context.Context, userID uint, token string, expires time.Time) error {
	if err := r.dao.SetResetToken(ctx, userID, token, expires); err != nil {
		return fmt.Errorf("r.dao.SetResetToken -> %w", err)
	}

	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID uint, hashedPassword string) error {
	if err := r.dao.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return fmt.Errorf("r.dao.UpdatePassword -> %w", err)
	}

	return nil
}

func (r *UserRepository) FindLegacyByUsername(ctx context.Context, username string) (domain.LegacyUser, error) {
	found, err := r.dao.FindLegacyByUsername(ctx, username)
	if err != nil {
		return domain.LegacyUser{}, fmt.Errorf("r.dao.FindLegacyByUsername -> %w", err)
	}

	return domain.LegacyUser{
		ID:       found.ID,
		Username: found.Username,
		Password: found.Password,
	}, nil
}

func (r *UserRepository) daoToDomain(u dao.User) domain.User {
	return domain.User{
		ID:             u.ID,
		Name:           u.Name,
		WhatsappNumber: u.WhatsappNumber,
		Email:          u.Email,
		Password:       u.Password,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
