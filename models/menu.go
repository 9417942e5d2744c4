package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// prices travel as JSON numbers, matching the stored record shape
	decimal.MarshalJSONWithoutQuotes = true
}

// MenuItem is an entry of the `AvailableMenu` collection. Edits overwrite in place.
type MenuItem struct {
	ID        string          `json:"id" gorm:"primaryKey;size:36"`
	Name      string          `json:"name" gorm:"not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Img       string          `json:"img"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (MenuItem) TableName() string { return "available_menu" }
