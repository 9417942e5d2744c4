package mongostore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"yourrest-api/models"
	"yourrest-api/repository"
)

type UserRepo struct {
	collection *mongo.Collection
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.Email = strings.ToLower(user.Email)
	if _, err := r.collection.InsertOne(ctx, toUserDoc(user)); err != nil {
		return fmt.Errorf("create user: %w", translate(err))
	}
	return nil
}

func (r *UserRepo) Get(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *UserRepo) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDoc
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.model(), nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id string, fields models.ProfileFields) error {
	update := bson.M{"$set": bson.M{
		"displayName": fields.DisplayName,
		"address":     fields.Address,
		"profilePic":  fields.ProfilePic,
	}}
	return r.updateOne(ctx, id, update)
}

func (r *UserRepo) MarkEmailVerified(ctx context.Context, id string) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"emailVerified": true}})
}

func (r *UserRepo) updateOne(ctx context.Context, id string, update bson.M) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update user: %w", translate(err))
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type MenuRepo struct {
	collection *mongo.Collection
}

func (r *MenuRepo) Create(ctx context.Context, item *models.MenuItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now()
	item.CreatedAt, item.UpdatedAt = now, now
	if _, err := r.collection.InsertOne(ctx, toMenuDoc(item)); err != nil {
		return fmt.Errorf("create menu item: %w", translate(err))
	}
	return nil
}

func (r *MenuRepo) Get(ctx context.Context, id string) (*models.MenuItem, error) {
	var doc menuDoc
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	item := doc.model()
	return &item, nil
}

func (r *MenuRepo) List(ctx context.Context) ([]models.MenuItem, error) {
	docs, err := findAll[menuDoc](ctx, r.collection, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}
	items := make([]models.MenuItem, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.model())
	}
	return items, nil
}

func (r *MenuRepo) Update(ctx context.Context, item *models.MenuItem) error {
	item.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"name":      item.Name,
		"price":     item.Price.InexactFloat64(),
		"img":       item.Img,
		"updatedAt": item.UpdatedAt,
	}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": item.ID}, update)
	if err != nil {
		return fmt.Errorf("update menu item: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MenuRepo) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type OrderRepo struct {
	collection *mongo.Collection
}

func (r *OrderRepo) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.Version == 0 {
		order.Version = 1
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	order.UpdatedAt = order.CreatedAt
	if _, err := r.collection.InsertOne(ctx, toOrderDoc(order)); err != nil {
		return fmt.Errorf("create order: %w", translate(err))
	}
	return nil
}

func (r *OrderRepo) Get(ctx context.Context, id string) (*models.Order, error) {
	var doc orderDoc
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	order := doc.model()
	return &order, nil
}

func (r *OrderRepo) List(ctx context.Context) ([]models.Order, error) {
	return r.list(ctx, bson.M{})
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return r.list(ctx, bson.M{"userId": userID})
}

func (r *OrderRepo) list(ctx context.Context, filter bson.M) ([]models.Order, error) {
	docs, err := findAll[orderDoc](ctx, r.collection, filter)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	orders := make([]models.Order, 0, len(docs))
	for _, d := range docs {
		orders = append(orders, d.model())
	}
	return orders, nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, from models.OrderStatus, expectedVersion int64, to models.OrderStatus) (*models.Order, error) {
	filter := bson.M{"_id": id, "status": string(from), "version": expectedVersion}
	update := bson.M{
		"$set": bson.M{"status": string(to), "updatedAt": time.Now()},
		"$inc": bson.M{"version": 1},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc orderDoc
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, getErr := r.Get(ctx, id); errors.Is(getErr, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, repository.ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	order := doc.model()
	return &order, nil
}

type CheckoutRepo struct {
	collection *mongo.Collection
}

func (r *CheckoutRepo) Create(ctx context.Context, checkout *models.Checkout) error {
	if checkout.ID == "" {
		checkout.ID = uuid.NewString()
	}
	now := time.Now()
	checkout.CreatedAt, checkout.UpdatedAt = now, now
	if _, err := r.collection.InsertOne(ctx, toCheckoutDoc(checkout)); err != nil {
		return fmt.Errorf("create checkout: %w", translate(err))
	}
	return nil
}

func (r *CheckoutRepo) Get(ctx context.Context, id string) (*models.Checkout, error) {
	var doc checkoutDoc
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.model(), nil
}

func (r *CheckoutRepo) Close(ctx context.Context, id string, status models.CheckoutStatus, orderID string) error {
	filter := bson.M{"_id": id, "status": string(models.CheckoutOpen)}
	update := bson.M{"$set": bson.M{"status": string(status), "orderId": orderID, "updatedAt": time.Now()}}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("close checkout: %w", err)
	}
	if res.MatchedCount == 0 {
		if _, err := r.Get(ctx, id); errors.Is(err, repository.ErrNotFound) {
			return repository.ErrNotFound
		}
		return repository.ErrConflict
	}
	return nil
}

type HistoryRepo struct {
	collection *mongo.Collection
}

func (r *HistoryRepo) Append(ctx context.Context, entry *models.OrderStatusHistory) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	doc := historyDoc{
		ID: entry.ID, OrderID: entry.OrderID, FromStatus: string(entry.FromStatus), ToStatus: string(entry.ToStatus),
		ChangedBy: entry.ChangedBy, Actor: entry.Actor, CreatedAt: entry.CreatedAt,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func (r *HistoryRepo) ListByOrder(ctx context.Context, orderID string) ([]models.OrderStatusHistory, error) {
	docs, err := findAll[historyDoc](ctx, r.collection, bson.M{"orderId": orderID})
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	entries := make([]models.OrderStatusHistory, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, models.OrderStatusHistory{
			ID: d.ID, OrderID: d.OrderID, FromStatus: models.OrderStatus(d.FromStatus), ToStatus: models.OrderStatus(d.ToStatus),
			ChangedBy: d.ChangedBy, Actor: d.Actor, CreatedAt: d.CreatedAt,
		})
	}
	return entries, nil
}
