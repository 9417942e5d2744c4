package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"yourrest-api/media"
	"yourrest-api/models"
	"yourrest-api/repository"
)

type MenuInput struct {
	Name  string `json:"name" validate:"required"`
	Price decimal.Decimal
	Image *Image
}

type CatalogService struct {
	menu   repository.MenuRepository
	media  media.Uploader
	preset string
}

func NewCatalogService(menu repository.MenuRepository, uploader media.Uploader, preset string) *CatalogService {
	return &CatalogService{menu: menu, media: uploader, preset: preset}
}

// List returns the menu, narrowed to items whose name contains query (case-insensitive).
func (s *CatalogService) List(ctx context.Context, query string) ([]models.MenuItem, error) {
	items, err := s.menu.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch menu: %w", err)
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items, nil
	}
	out := make([]models.MenuItem, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Name), q) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *CatalogService) validate(in *MenuInput, imageRequired bool) error {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return err
	}
	if !in.Price.IsPositive() {
		return fmt.Errorf("%w: price must be greater than zero", ErrValidation)
	}
	if imageRequired && in.Image == nil {
		return fmt.Errorf("%w: an image is required", ErrValidation)
	}
	return nil
}

func (s *CatalogService) upload(ctx context.Context, img *Image) (string, error) {
	url, err := s.media.Upload(ctx, img.File, img.Filename, s.preset)
	if err != nil {
		log.WithError(err).WithField("file", img.Filename).Error("uploading menu image")
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return url, nil
}

// Create uploads the image first; the record is written only when that succeeds.
func (s *CatalogService) Create(ctx context.Context, in MenuInput) (*models.MenuItem, error) {
	if err := s.validate(&in, true); err != nil {
		return nil, err
	}
	url, err := s.upload(ctx, in.Image)
	if err != nil {
		return nil, err
	}
	item := &models.MenuItem{Name: in.Name, Price: in.Price, Img: url}
	if err := s.menu.Create(ctx, item); err != nil {
		log.WithError(err).WithField("image", url).Error("menu item not stored after upload")
		return nil, fmt.Errorf("failed to add item: %w", err)
	}
	return item, nil
}

// Update overwrites name and price; the image URL changes only when a new image is given.
func (s *CatalogService) Update(ctx context.Context, id string, in MenuInput) (*models.MenuItem, error) {
	if err := s.validate(&in, false); err != nil {
		return nil, err
	}
	item, err := s.menu.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("menu item %s: %w", id, err)
	}
	if in.Image != nil {
		url, err := s.upload(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		item.Img = url
	}
	item.Name = in.Name
	item.Price = in.Price
	if err := s.menu.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	return item, nil
}

// Delete removes an item for good. Existing orders keep their copied item data.
func (s *CatalogService) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	if err := s.menu.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete item %s: %w", id, err)
	}
	return nil
}
