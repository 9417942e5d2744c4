package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the closed lifecycle label of an order
type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusInProgress OrderStatus = "In Progress"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

// AllStatuses lists the lifecycle in display order.
var AllStatuses = []OrderStatus{StatusPending, StatusInProgress, StatusDelivered, StatusCancelled}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "COD"
	PaymentOnline PaymentMethod = "OnlinePayment"
)

// CreatedTimeLayout formats the clock time captured when an order is placed.
const CreatedTimeLayout = "3:04:05 PM"

// Order is a record of the `Orders` collection. Item name, price and image are
// copied from the menu item when the order is placed; customer contact details
// are captured from the intake form, not from the user record.
type Order struct {
	ID            string          `json:"id" gorm:"primaryKey;size:36"`
	UserID        string          `json:"userId" gorm:"index;not null"`
	Email         string          `json:"email"`
	Item          string          `json:"item" gorm:"not null"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Img           string          `json:"img"`
	Name          string          `json:"name" gorm:"not null"`
	Phone         string          `json:"phone" gorm:"not null"`
	Address       string          `json:"address" gorm:"not null"`
	PaymentMethod PaymentMethod   `json:"paymentMethod" gorm:"not null"`
	PaymentID     string          `json:"paymentId,omitempty"`
	Status        OrderStatus     `json:"status" gorm:"not null;default:'Pending'"`
	Version       int64           `json:"version" gorm:"not null;default:1"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedTime   string          `json:"createdTime"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// OrderStatusHistory tracks every status change of an order
type OrderStatusHistory struct {
	ID         string      `json:"id" gorm:"primaryKey;size:36"`
	OrderID    string      `json:"orderId" gorm:"index;not null"`
	FromStatus OrderStatus `json:"fromStatus"`
	ToStatus   OrderStatus `json:"toStatus" gorm:"not null"`
	ChangedBy  string      `json:"changedBy"`
	Actor      string      `json:"actor"`
	CreatedAt  time.Time   `json:"createdAt"`
}
