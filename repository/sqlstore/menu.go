package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"yourrest-api/models"
	"yourrest-api/repository"
)

type MenuRepo struct {
	db *gorm.DB
}

func (r *MenuRepo) Create(ctx context.Context, item *models.MenuItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("create menu item: %w", translate(err))
	}
	return nil
}

func (r *MenuRepo) Get(ctx context.Context, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *MenuRepo) List(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}
	return items, nil
}

func (r *MenuRepo) Update(ctx context.Context, item *models.MenuItem) error {
	item.UpdatedAt = time.Now()
	res := r.db.WithContext(ctx).Model(&models.MenuItem{}).Where("id = ?", item.ID).Updates(map[string]any{
		"name":       item.Name,
		"price":      item.Price,
		"img":        item.Img,
		"updated_at": item.UpdatedAt,
	})
	if res.Error != nil {
		return fmt.Errorf("update menu item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MenuRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.MenuItem{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete menu item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
