package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const databaseName = "staffing-portal"

// DB bundles the per-collection stores. Handlers and services receive the
// interfaces, never the mongo collections themselves.
type DB struct {
	client *mongo.Client

	Users        UserStore
	Clients      ClientStore
	Shows        ShowStore
	Staff        StaffStore
	Availability AvailabilityStore
	Bookings     BookingStore
	Intents      IntentStore
}

func Connect(ctx context.Context, connString string) (*DB, error) {
	clientOptions := options.Client().ApplyURI(connString)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to the db: %v", err)
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("db is not available: %v", err)
	}

	db := client.Database(databaseName)

	return &DB{
		client:       client,
		Users:        &mongoUsers{col: db.Collection("users")},
		Clients:      &mongoClients{col: db.Collection("clients")},
		Shows:        &mongoShows{col: db.Collection("shows")},
		Staff:        &mongoStaff{col: db.Collection("staff")},
		Availability: &mongoAvailability{col: db.Collection("availability")},
		Bookings:     &mongoBookings{col: db.Collection("bookings")},
		Intents:      &mongoIntents{col: db.Collection("booking_intents")},
	}, nil
}

func (db *DB) Close(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}

func WriteToCollection(ctx context.Context, item interface{}, collection *mongo.Collection) error {
	_, err := collection.InsertOne(ctx, item)
	if err != nil {
		return fmt.Errorf("db error while writing item to collection: %v", err)
	}
	return nil
}

func UpdateCollectionItem(ctx context.Context, id primitive.ObjectID, item interface{}, collection *mongo.Collection) error {
	_, err := collection.ReplaceOne(ctx, bson.D{primitive.E{Key: "_id", Value: id}}, item)
	if err != nil {
		return fmt.Errorf("db error while updating collection item: %v", err)
	}
	return nil
}

func DeleteFromCollection(ctx context.Context, id primitive.ObjectID, collection *mongo.Collection) error {
	_, err := collection.DeleteOne(ctx, bson.D{primitive.E{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("db error while deleting collection item: %v", err)
	}
	return nil
}

func findByID(ctx context.Context, id primitive.ObjectID, collection *mongo.Collection, out interface{}) error {
	err := collection.FindOne(ctx, bson.D{primitive.E{Key: "_id", Value: id}}).Decode(out)
	if err == mongo.ErrNoDocuments {
		return ErrNoDocument
	}
	if err != nil {
		return fmt.Errorf("server side problem occured while reading from database: %v", err)
	}
	return nil
}
