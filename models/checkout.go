package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CheckoutStatus string

const (
	CheckoutOpen      CheckoutStatus = "open"
	CheckoutCompleted CheckoutStatus = "completed"
	CheckoutCancelled CheckoutStatus = "cancelled"
)

// Checkout holds an online-payment order draft between the gateway order
// request and the checkout callback. No Order exists until it completes.
type Checkout struct {
	ID             string          `json:"id" gorm:"primaryKey;size:36"`
	UserID         string          `json:"userId" gorm:"index;not null"`
	Email          string          `json:"email"`
	GatewayOrderID string          `json:"gatewayOrderId" gorm:"not null"`
	Amount         int64           `json:"amount"`
	Currency       string          `json:"currency"`
	Item           string          `json:"item"`
	Price          decimal.Decimal `json:"price" gorm:"type:decimal(12,2)"`
	Img            string          `json:"img"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	Address        string          `json:"address"`
	Status         CheckoutStatus  `json:"status" gorm:"not null"`
	OrderID        string          `json:"orderId,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}
