package mongostore

import (
	"time"

	"github.com/shopspring/decimal"

	"yourrest-api/models"
)

// Stored shapes. Prices are kept as plain numbers so other readers of the
// collections see the same record as before.

type userDoc struct {
	ID                   string    `bson:"_id"`
	UID                  string    `bson:"uid"`
	DisplayName          string    `bson:"displayName"`
	Email                string    `bson:"email"`
	PasswordHash         string    `bson:"passwordHash"`
	Address              string    `bson:"address"`
	ProfilePic           string    `bson:"profilePic"`
	Role                 string    `bson:"role"`
	EmailVerified        bool      `bson:"emailVerified"`
	NotificationsEnabled bool      `bson:"notificationsEnabled"`
	CreatedAt            time.Time `bson:"createdAt"`
}

func toUserDoc(u *models.User) userDoc {
	return userDoc{
		ID: u.ID, UID: u.ID, DisplayName: u.DisplayName, Email: u.Email, PasswordHash: u.PasswordHash,
		Address: u.Address, ProfilePic: u.ProfilePic, Role: string(u.Role), EmailVerified: u.EmailVerified,
		NotificationsEnabled: u.NotificationsEnabled, CreatedAt: u.CreatedAt,
	}
}

func (d userDoc) model() *models.User {
	return &models.User{
		ID: d.ID, DisplayName: d.DisplayName, Email: d.Email, PasswordHash: d.PasswordHash,
		Address: d.Address, ProfilePic: d.ProfilePic, Role: models.UserRole(d.Role), EmailVerified: d.EmailVerified,
		NotificationsEnabled: d.NotificationsEnabled, CreatedAt: d.CreatedAt,
	}
}

type menuDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Price     float64   `bson:"price"`
	Img       string    `bson:"img"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func toMenuDoc(m *models.MenuItem) menuDoc {
	return menuDoc{ID: m.ID, Name: m.Name, Price: m.Price.InexactFloat64(), Img: m.Img, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

func (d menuDoc) model() models.MenuItem {
	return models.MenuItem{ID: d.ID, Name: d.Name, Price: decimal.NewFromFloat(d.Price), Img: d.Img, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
}

type orderDoc struct {
	ID            string    `bson:"_id"`
	UserID        string    `bson:"userId"`
	Email         string    `bson:"email"`
	Item          string    `bson:"item"`
	Price         float64   `bson:"price"`
	Img           string    `bson:"img"`
	Name          string    `bson:"name"`
	Phone         string    `bson:"phone"`
	Address       string    `bson:"address"`
	PaymentMethod string    `bson:"paymentMethod"`
	PaymentID     string    `bson:"paymentId,omitempty"`
	Status        string    `bson:"status"`
	Version       int64     `bson:"version"`
	CreatedAt     time.Time `bson:"createdAt"`
	CreatedTime   string    `bson:"createdTime"`
	UpdatedAt     time.Time `bson:"updatedAt"`
}

func toOrderDoc(o *models.Order) orderDoc {
	return orderDoc{
		ID: o.ID, UserID: o.UserID, Email: o.Email, Item: o.Item, Price: o.Price.InexactFloat64(), Img: o.Img,
		Name: o.Name, Phone: o.Phone, Address: o.Address, PaymentMethod: string(o.PaymentMethod), PaymentID: o.PaymentID,
		Status: string(o.Status), Version: o.Version, CreatedAt: o.CreatedAt, CreatedTime: o.CreatedTime, UpdatedAt: o.UpdatedAt,
	}
}

func (d orderDoc) model() models.Order {
	return models.Order{
		ID: d.ID, UserID: d.UserID, Email: d.Email, Item: d.Item, Price: decimal.NewFromFloat(d.Price), Img: d.Img,
		Name: d.Name, Phone: d.Phone, Address: d.Address, PaymentMethod: models.PaymentMethod(d.PaymentMethod), PaymentID: d.PaymentID,
		Status: models.OrderStatus(d.Status), Version: d.Version, CreatedAt: d.CreatedAt, CreatedTime: d.CreatedTime, UpdatedAt: d.UpdatedAt,
	}
}

type checkoutDoc struct {
	ID             string    `bson:"_id"`
	UserID         string    `bson:"userId"`
	Email          string    `bson:"email"`
	GatewayOrderID string    `bson:"gatewayOrderId"`
	Amount         int64     `bson:"amount"`
	Currency       string    `bson:"currency"`
	Item           string    `bson:"item"`
	Price          float64   `bson:"price"`
	Img            string    `bson:"img"`
	Name           string    `bson:"name"`
	Phone          string    `bson:"phone"`
	Address        string    `bson:"address"`
	Status         string    `bson:"status"`
	OrderID        string    `bson:"orderId"`
	CreatedAt      time.Time `bson:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt"`
}

func toCheckoutDoc(c *models.Checkout) checkoutDoc {
	return checkoutDoc{
		ID: c.ID, UserID: c.UserID, Email: c.Email, GatewayOrderID: c.GatewayOrderID, Amount: c.Amount, Currency: c.Currency,
		Item: c.Item, Price: c.Price.InexactFloat64(), Img: c.Img, Name: c.Name, Phone: c.Phone, Address: c.Address,
		Status: string(c.Status), OrderID: c.OrderID, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
	}
}

func (d checkoutDoc) model() *models.Checkout {
	return &models.Checkout{
		ID: d.ID, UserID: d.UserID, Email: d.Email, GatewayOrderID: d.GatewayOrderID, Amount: d.Amount, Currency: d.Currency,
		Item: d.Item, Price: decimal.NewFromFloat(d.Price), Img: d.Img, Name: d.Name, Phone: d.Phone, Address: d.Address,
		Status: models.CheckoutStatus(d.Status), OrderID: d.OrderID, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

type historyDoc struct {
	ID         string    `bson:"_id"`
	OrderID    string    `bson:"orderId"`
	FromStatus string    `bson:"fromStatus"`
	ToStatus   string    `bson:"toStatus"`
	ChangedBy  string    `bson:"changedBy"`
	Actor      string    `bson:"actor"`
	CreatedAt  time.Time `bson:"createdAt"`
}
