// Package repository declares the document-store contract the services use.
// Adapters live in sqlstore (gorm) and mongostore (MongoDB).
package repository

import (
	"context"
	"errors"

	"yourrest-api/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrConflict  = errors.New("record changed concurrently")
	ErrDuplicate = errors.New("record already exists")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Get(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, fields models.ProfileFields) error
	MarkEmailVerified(ctx context.Context, id string) error
}

type MenuRepository interface {
	Create(ctx context.Context, item *models.MenuItem) error
	Get(ctx context.Context, id string) (*models.MenuItem, error)
	List(ctx context.Context) ([]models.MenuItem, error)
	Update(ctx context.Context, item *models.MenuItem) error
	Delete(ctx context.Context, id string) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	// UpdateStatus succeeds only while the stored order still has status from
	// and version expectedVersion; otherwise it returns ErrConflict.
	UpdateStatus(ctx context.Context, id string, from models.OrderStatus, expectedVersion int64, to models.OrderStatus) (*models.Order, error)
}

type CheckoutRepository interface {
	Create(ctx context.Context, checkout *models.Checkout) error
	Get(ctx context.Context, id string) (*models.Checkout, error)
	// Close moves an open checkout to status; a checkout that is no longer
	// open yields ErrConflict.
	Close(ctx context.Context, id string, status models.CheckoutStatus, orderID string) error
}

type HistoryRepository interface {
	Append(ctx context.Context, entry *models.OrderStatusHistory) error
	ListByOrder(ctx context.Context, orderID string) ([]models.OrderStatusHistory, error)
}

// Store bundles the collections one backend serves.
type Store struct {
	Users     UserRepository
	Menu      MenuRepository
	Orders    OrderRepository
	Checkouts CheckoutRepository
	History   HistoryRepository
	Close     func(ctx context.Context) error
	Ping      func(ctx context.Context) error
}
