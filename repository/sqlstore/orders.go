package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"yourrest-api/models"
	"yourrest-api/repository"
)

type OrderRepo struct {
	db *gorm.DB
}

func (r *OrderRepo) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.Version == 0 {
		order.Version = 1
	}
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("create order: %w", translate(err))
	}
	return nil
}

func (r *OrderRepo) Get(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *OrderRepo) List(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at asc").Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders of %s: %w", userID, err)
	}
	return orders, nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, from models.OrderStatus, expectedVersion int64, to models.OrderStatus) (*models.Order, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ? AND version = ?", id, from, expectedVersion).
		Updates(map[string]any{
			"status":     to,
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := r.Get(ctx, id); errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, repository.ErrConflict
	}
	return r.Get(ctx, id)
}

type CheckoutRepo struct {
	db *gorm.DB
}

func (r *CheckoutRepo) Create(ctx context.Context, checkout *models.Checkout) error {
	if checkout.ID == "" {
		checkout.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(checkout).Error; err != nil {
		return fmt.Errorf("create checkout: %w", translate(err))
	}
	return nil
}

func (r *CheckoutRepo) Get(ctx context.Context, id string) (*models.Checkout, error) {
	var checkout models.Checkout
	if err := r.db.WithContext(ctx).First(&checkout, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &checkout, nil
}

func (r *CheckoutRepo) Close(ctx context.Context, id string, status models.CheckoutStatus, orderID string) error {
	res := r.db.WithContext(ctx).Model(&models.Checkout{}).
		Where("id = ? AND status = ?", id, models.CheckoutOpen).
		Updates(map[string]any{"status": status, "order_id": orderID, "updated_at": time.Now()})
	if res.Error != nil {
		return fmt.Errorf("close checkout: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := r.Get(ctx, id); errors.Is(err, repository.ErrNotFound) {
			return repository.ErrNotFound
		}
		return repository.ErrConflict
	}
	return nil
}

type HistoryRepo struct {
	db *gorm.DB
}

func (r *HistoryRepo) Append(ctx context.Context, entry *models.OrderStatusHistory) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func (r *HistoryRepo) ListByOrder(ctx context.Context, orderID string) ([]models.OrderStatusHistory, error) {
	var entries []models.OrderStatusHistory
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("created_at asc").Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}
