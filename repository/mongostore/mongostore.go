// Package mongostore serves the document collections from MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"yourrest-api/repository"
)

// Collection names shared with every other reader and writer of the store.
const (
	UsersCollection     = "users"
	MenuCollection      = "AvailableMenu"
	OrdersCollection    = "Orders"
	CheckoutsCollection = "Checkouts"
	HistoryCollection   = "OrderStatusHistory"
)

// Connect opens a client, pings it and ensures the indexes the repos rely on.
func Connect(ctx context.Context, url, dbName string) (*mongo.Client, *mongo.Database, error) {
	clientOptions := options.Client().ApplyURI(url).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("cannot ping MongoDB: %w", err)
	}

	db := client.Database(dbName)
	if err := EnsureIndexes(ctx, db); err != nil {
		return nil, nil, err
	}

	log.WithFields(log.Fields{"url": url, "database": dbName}).Info("connected to MongoDB")
	return client, db, nil
}

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	emailIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := db.Collection(UsersCollection).Indexes().CreateOne(ctx, emailIndex); err != nil {
		return fmt.Errorf("cannot create email index: %w", err)
	}

	ownerIndex := mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}}}
	if _, err := db.Collection(OrdersCollection).Indexes().CreateOne(ctx, ownerIndex); err != nil {
		return fmt.Errorf("cannot create userId index: %w", err)
	}
	return nil
}

// New wires every repository onto db. client may be nil in tests.
func New(client *mongo.Client, db *mongo.Database) *repository.Store {
	return &repository.Store{
		Users:     &UserRepo{collection: db.Collection(UsersCollection)},
		Menu:      &MenuRepo{collection: db.Collection(MenuCollection)},
		Orders:    &OrderRepo{collection: db.Collection(OrdersCollection)},
		Checkouts: &CheckoutRepo{collection: db.Collection(CheckoutsCollection)},
		History:   &HistoryRepo{collection: db.Collection(HistoryCollection)},
		Close: func(ctx context.Context) error {
			if client == nil {
				return nil
			}
			if err := client.Disconnect(ctx); err != nil {
				return fmt.Errorf("cannot disconnect from MongoDB: %w", err)
			}
			log.Info("disconnected from MongoDB")
			return nil
		},
		Ping: func(ctx context.Context) error {
			if client == nil {
				return nil
			}
			return client.Ping(ctx, nil)
		},
	}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
	}
	return err
}

func findAll[D any](ctx context.Context, coll *mongo.Collection, filter bson.M) ([]D, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []D
	for cursor.Next(ctx) {
		var d D
		if err := cursor.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
		}
		docs = append(docs, d)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return docs, nil
}
