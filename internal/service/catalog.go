package service

import (
	"context"
	"fmt"

	"github.com/festpass/festpass-api/internal/domain"
	"github.com/festpass/festpass-api/internal/repository"
)

var ErrItemNotFound = repository.ErrItemNotFound

const (
	defaultItemImage       = "https://images.unsplash.com/photo-1546069901-ba9599a7e63c?w=500&auto=format&fit=crop&q=60&ixlib=rb-4.0.3"
	defaultItemDescription = "Tasty and delicious!"
)

type ItemRepository interface {
	Create(ctx context.Context, item domain.Item) (domain.Item, error)
	FindAll(ctx context.Context) ([]domain.Item, error)
	Delete(ctx context.Context, id uint) error
}

type CatalogService struct {
	repo ItemRepository
}

func NewCatalogService(repo ItemRepository) *CatalogService {
	return &CatalogService{
		repo: repo,
	}
}

func (s *CatalogService) ListItems(ctx context.Context) ([]domain.Item, error) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return items, nil
}

func (s *CatalogService) AddItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	if item.Image == "" {
		item.Image = defaultItemImage
	}
	if item.Description == "" {
		item.Description = defaultItemDescription
	}

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return domain.Item{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *CatalogService) DeleteItem(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
