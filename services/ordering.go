package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"yourrest-api/events"
	"yourrest-api/models"
	"yourrest-api/orderquery"
	"yourrest-api/payment"
	"yourrest-api/repository"
	"yourrest-api/statemachine"
)

// Intake is the delivery form submitted for one menu item.
type Intake struct {
	MenuItemID    string               `json:"menuItemId" validate:"required"`
	Name          string               `json:"name" validate:"required"`
	Phone         string               `json:"phone" validate:"required"`
	Address       string               `json:"address" validate:"required"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod" validate:"required,oneof=COD OnlinePayment"`
}

// CheckoutHandle is what the client needs to open the hosted checkout.
type CheckoutHandle struct {
	CheckoutID     string `json:"checkoutId"`
	GatewayOrderID string `json:"orderId"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	KeyID          string `json:"key"`
}

// PlaceResult carries either the created order (COD) or the checkout to open.
type PlaceResult struct {
	Order    *models.Order   `json:"order,omitempty"`
	Checkout *CheckoutHandle `json:"checkout,omitempty"`
}

// AdminOrders is the management view: the pipeline result plus per-status counts.
type AdminOrders struct {
	Orders  []models.Order             `json:"orders"`
	Summary map[models.OrderStatus]int `json:"order_summary"`
}

type OrderingService struct {
	store    *repository.Store
	gateway  payment.Gateway
	events   events.Publisher
	currency string
	now      func() time.Time
}

func NewOrderingService(store *repository.Store, gateway payment.Gateway, publisher events.Publisher, currency string) *OrderingService {
	return &OrderingService{store: store, gateway: gateway, events: publisher, currency: currency, now: time.Now}
}

// MinorUnits converts a price into the gateway's smallest currency unit.
func MinorUnits(price decimal.Decimal) int64 {
	return price.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func (s *OrderingService) PlaceOrder(ctx context.Context, caller *Claims, in Intake) (*PlaceResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	item, err := s.store.Menu.Get(ctx, in.MenuItemID)
	if err != nil {
		return nil, fmt.Errorf("menu item %s: %w", in.MenuItemID, err)
	}

	if in.PaymentMethod == models.PaymentCOD {
		order, err := s.createOrder(ctx, caller, item.Name, item.Price, item.Img, in, "")
		if err != nil {
			return nil, err
		}
		return &PlaceResult{Order: order}, nil
	}

	amount := MinorUnits(item.Price)
	gwOrder, err := s.gateway.CreateOrder(ctx, amount, s.currency)
	if err != nil {
		log.WithError(err).WithField("user_id", caller.UserID).Error("creating payment order")
		return nil, err
	}

	checkout := &models.Checkout{
		UserID:         caller.UserID,
		Email:          caller.Email,
		GatewayOrderID: gwOrder.ID,
		Amount:         gwOrder.Amount,
		Currency:       gwOrder.Currency,
		Item:           item.Name,
		Price:          item.Price,
		Img:            item.Img,
		Name:           in.Name,
		Phone:          in.Phone,
		Address:        in.Address,
		Status:         models.CheckoutOpen,
	}
	if err := s.store.Checkouts.Create(ctx, checkout); err != nil {
		return nil, fmt.Errorf("failed to store checkout: %w", err)
	}

	return &PlaceResult{Checkout: &CheckoutHandle{
		CheckoutID:     checkout.ID,
		GatewayOrderID: gwOrder.ID,
		Amount:         gwOrder.Amount,
		Currency:       gwOrder.Currency,
		KeyID:          s.gateway.KeyID(),
	}}, nil
}

func (s *OrderingService) createOrder(ctx context.Context, caller *Claims, item string, price decimal.Decimal, img string, in Intake, paymentID string) (*models.Order, error) {
	return s.insertOrder(ctx, &models.Order{
		UserID:        caller.UserID,
		Email:         caller.Email,
		Item:          item,
		Price:         price,
		Img:           img,
		Name:          in.Name,
		Phone:         in.Phone,
		Address:       in.Address,
		PaymentMethod: in.PaymentMethod,
		PaymentID:     paymentID,
	}, caller.UserID)
}

func (s *OrderingService) insertOrder(ctx context.Context, order *models.Order, changedBy string) (*models.Order, error) {
	if err := statemachine.CanTransition("", models.StatusPending, statemachine.ActorSystem); err != nil {
		return nil, err
	}
	now := s.now()
	order.Status = models.StatusPending
	order.CreatedAt = now
	order.CreatedTime = now.Format(models.CreatedTimeLayout)

	if err := s.store.Orders.Create(ctx, order); err != nil {
		log.WithError(err).WithField("user_id", order.UserID).Error("creating order")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	s.recordTransition(ctx, order, "", changedBy, statemachine.ActorSystem)
	s.publish(ctx, events.TopicOrderCreated, order, "", statemachine.ActorSystem)
	return order, nil
}

// CompleteCheckout turns a paid checkout into its order. It succeeds at most
// once per checkout. A completed checkout whose order was never stored accepts
// the same confirmation again and retries the insert under the recorded order id.
func (s *OrderingService) CompleteCheckout(ctx context.Context, caller *Claims, checkoutID string, conf payment.Confirmation) (*models.Order, error) {
	checkout, err := s.ownedCheckout(ctx, caller, checkoutID)
	if err != nil {
		return nil, err
	}
	retry := checkout.Status == models.CheckoutCompleted && s.orderMissing(ctx, checkout.OrderID)
	if checkout.Status != models.CheckoutOpen && !retry {
		return nil, fmt.Errorf("checkout is %s: %w", checkout.Status, repository.ErrConflict)
	}
	if conf.OrderID != checkout.GatewayOrderID {
		return nil, fmt.Errorf("confirmation for %s: %w", conf.OrderID, payment.ErrBadSignature)
	}
	if err := s.gateway.VerifySignature(conf); err != nil {
		log.WithError(err).WithField("checkout_id", checkoutID).Warn("rejected checkout confirmation")
		return nil, err
	}

	orderID := checkout.OrderID
	if retry {
		log.WithFields(log.Fields{"checkout_id": checkoutID, "order_id": orderID}).Warn("retrying order of completed checkout")
	} else {
		orderID = uuid.NewString()
		if err := s.store.Checkouts.Close(ctx, checkoutID, models.CheckoutCompleted, orderID); err != nil {
			return nil, fmt.Errorf("failed to close checkout: %w", err)
		}
	}

	order, err := s.insertOrder(ctx, &models.Order{
		ID:            orderID,
		UserID:        checkout.UserID,
		Email:         checkout.Email,
		Item:          checkout.Item,
		Price:         checkout.Price,
		Img:           checkout.Img,
		Name:          checkout.Name,
		Phone:         checkout.Phone,
		Address:       checkout.Address,
		PaymentMethod: models.PaymentOnline,
		PaymentID:     conf.PaymentID,
	}, caller.UserID)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, fmt.Errorf("order %s already stored: %w", orderID, repository.ErrConflict)
	}
	if err != nil {
		log.WithFields(log.Fields{"checkout_id": checkoutID, "order_id": orderID, "payment_id": conf.PaymentID}).
			Error("checkout completed but order was not stored")
		return nil, err
	}
	return order, nil
}

// orderMissing reports whether a completed checkout's order id has no stored order.
func (s *OrderingService) orderMissing(ctx context.Context, orderID string) bool {
	if orderID == "" {
		return false
	}
	_, err := s.store.Orders.Get(ctx, orderID)
	return errors.Is(err, repository.ErrNotFound)
}

// CancelCheckout records a dismissed checkout. No order is created.
func (s *OrderingService) CancelCheckout(ctx context.Context, caller *Claims, checkoutID string) error {
	if _, err := s.ownedCheckout(ctx, caller, checkoutID); err != nil {
		return err
	}
	if err := s.store.Checkouts.Close(ctx, checkoutID, models.CheckoutCancelled, ""); err != nil {
		return fmt.Errorf("failed to cancel checkout: %w", err)
	}
	return nil
}

func (s *OrderingService) ownedCheckout(ctx context.Context, caller *Claims, id string) (*models.Checkout, error) {
	checkout, err := s.store.Checkouts.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("checkout %s: %w", id, err)
	}
	if checkout.UserID != caller.UserID {
		return nil, fmt.Errorf("checkout %s: %w", id, ErrForbidden)
	}
	return checkout, nil
}

// CancelOrder lets the owner cancel an order that has not been delivered.
func (s *OrderingService) CancelOrder(ctx context.Context, caller *Claims, orderID string) (*models.Order, error) {
	order, err := s.store.Orders.Get(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", orderID, err)
	}
	if order.UserID != caller.UserID {
		return nil, fmt.Errorf("order %s: %w", orderID, ErrForbidden)
	}
	return s.transition(ctx, caller, order, models.StatusCancelled, order.Version, statemachine.ActorCustomer)
}

// AdvanceOrder moves an order one step forward. A non-zero expectedVersion pins
// the transition to the view the admin acted on.
func (s *OrderingService) AdvanceOrder(ctx context.Context, caller *Claims, orderID string, expectedVersion int64) (*models.Order, error) {
	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}
	order, err := s.store.Orders.Get(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", orderID, err)
	}
	if expectedVersion == 0 {
		expectedVersion = order.Version
	}
	next, ok := statemachine.NextForward(order.Status)
	if !ok {
		return nil, statemachine.CanTransition(order.Status, models.StatusDelivered, statemachine.ActorAdmin)
	}
	return s.transition(ctx, caller, order, next, expectedVersion, statemachine.ActorAdmin)
}

func (s *OrderingService) transition(ctx context.Context, caller *Claims, order *models.Order, to models.OrderStatus, version int64, actor statemachine.Actor) (*models.Order, error) {
	if err := statemachine.CanTransition(order.Status, to, actor); err != nil {
		return nil, err
	}
	from := order.Status
	updated, err := s.store.Orders.UpdateStatus(ctx, order.ID, from, version, to)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"order_id": order.ID, "to": to}).Warn("status update failed")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	s.recordTransition(ctx, updated, from, caller.UserID, actor)
	s.publish(ctx, events.TopicOrderStatus, updated, from, actor)
	return updated, nil
}

func (s *OrderingService) recordTransition(ctx context.Context, order *models.Order, from models.OrderStatus, changedBy string, actor statemachine.Actor) {
	entry := &models.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: from,
		ToStatus:   order.Status,
		ChangedBy:  changedBy,
		Actor:      string(actor),
		CreatedAt:  s.now(),
	}
	if err := s.store.History.Append(ctx, entry); err != nil {
		log.WithError(err).WithField("order_id", order.ID).Error("recording status history")
	}
}

func (s *OrderingService) publish(ctx context.Context, topic string, order *models.Order, from models.OrderStatus, actor statemachine.Actor) {
	notify := false
	if owner, err := s.store.Users.Get(ctx, order.UserID); err == nil {
		notify = owner.NotificationsEnabled
	}
	if err := events.PublishJSON(ctx, s.events, topic, events.NewOrderEvent(order, from, string(actor), notify)); err != nil {
		log.WithError(err).WithFields(log.Fields{"order_id": order.ID, "topic": topic}).Error("publishing order event")
	}
}

// ListOrders returns the caller's own orders through the search/filter/sort pipeline.
func (s *OrderingService) ListOrders(ctx context.Context, caller *Claims, params orderquery.Params) ([]models.Order, error) {
	orders, err := s.store.Orders.ListByUser(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	return orderquery.Apply(orders, params), nil
}

func (s *OrderingService) ListAllOrders(ctx context.Context, caller *Claims, params orderquery.Params) (*AdminOrders, error) {
	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}
	orders, err := s.store.Orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	result := orderquery.Apply(orders, params)
	return &AdminOrders{Orders: result, Summary: orderquery.Summary(result)}, nil
}

// History returns the audit trail of one order, visible to its owner and admins.
func (s *OrderingService) History(ctx context.Context, caller *Claims, orderID string) ([]models.OrderStatusHistory, error) {
	order, err := s.store.Orders.Get(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", orderID, err)
	}
	if order.UserID != caller.UserID && !caller.IsAdmin() {
		return nil, ErrForbidden
	}
	entries, err := s.store.History.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}
	return entries, nil
}
