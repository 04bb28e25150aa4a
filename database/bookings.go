package database

import (
	"context"
	"fmt"

	"staffing-portal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoBookings struct {
	col *mongo.Collection
}

func (s *mongoBookings) GetByID(ctx context.Context, id primitive.ObjectID) (model.Booking, error) {
	var booking model.Booking
	if err := findByID(ctx, id, s.col, &booking); err != nil {
		return model.Booking{}, err
	}
	return booking, nil
}

func (s *mongoBookings) ListByClient(ctx context.Context, clientID primitive.ObjectID) ([]model.Booking, error) {
	return s.list(ctx, bson.D{primitive.E{Key: "client_id", Value: clientID}})
}

func (s *mongoBookings) ListAll(ctx context.Context) ([]model.Booking, error) {
	return s.list(ctx, bson.D{})
}

func (s *mongoBookings) list(ctx context.Context, filter bson.D) ([]model.Booking, error) {
	bookings := []model.Booking{}

	cur, err := s.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("server side problem occured while reading bookings from database: %v", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var booking model.Booking
		if err := cur.Decode(&booking); err != nil {
			return nil, fmt.Errorf("server side problem occured while reading bookings from database: %v", err)
		}
		bookings = append(bookings, booking)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("server side problem occured while reading bookings from database: %v", err)
	}

	return bookings, nil
}

func (s *mongoBookings) Insert(ctx context.Context, booking model.Booking) error {
	return WriteToCollection(ctx, booking, s.col)
}

func (s *mongoBookings) Update(ctx context.Context, booking model.Booking) error {
	return UpdateCollectionItem(ctx, booking.Id, booking, s.col)
}
