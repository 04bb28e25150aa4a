package database

import (
	"context"
	"fmt"
	"time"

	"staffing-portal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoIntents struct {
	col *mongo.Collection
}

func (s *mongoIntents) GetByID(ctx context.Context, id primitive.ObjectID) (model.BookingIntent, error) {
	var intent model.BookingIntent
	if err := findByID(ctx, id, s.col, &intent); err != nil {
		return model.BookingIntent{}, err
	}
	return intent, nil
}

func (s *mongoIntents) GetBySessionID(ctx context.Context, sessionID string) (model.BookingIntent, error) {
	var intent model.BookingIntent
	err := s.col.FindOne(ctx,
		bson.D{primitive.E{Key: "stripe_checkout_session_id", Value: sessionID}}).Decode(&intent)
	if err == mongo.ErrNoDocuments {
		return model.BookingIntent{}, ErrNoDocument
	}
	if err != nil {
		return model.BookingIntent{}, fmt.Errorf("server side problem occured while reading intent from database: %v", err)
	}
	return intent, nil
}

func (s *mongoIntents) Insert(ctx context.Context, intent model.BookingIntent) error {
	return WriteToCollection(ctx, intent, s.col)
}

// Consume stamps consumed_at and booking_id in a single conditional update.
// The filter requires consumed_at to still be unset, so of two concurrent
// callers exactly one matches; the loser gets the already-consumed document
// back and won=false.
func (s *mongoIntents) Consume(ctx context.Context, id, bookingID primitive.ObjectID, at time.Time) (model.BookingIntent, bool, error) {
	update := bson.D{primitive.E{Key: "$set", Value: bson.D{
		primitive.E{Key: "consumed_at", Value: at.Format(time.RFC3339)},
		primitive.E{Key: "booking_id", Value: bookingID},
	}}}
	filter := bson.D{
		primitive.E{Key: "_id", Value: id},
		primitive.E{Key: "consumed_at", Value: nil},
	}

	var consumed model.BookingIntent
	err := s.col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&consumed)
	if err == nil {
		return consumed, true, nil
	}
	if err != mongo.ErrNoDocuments {
		return model.BookingIntent{}, false, fmt.Errorf("db error while consuming intent: %v", err)
	}

	// Either the intent does not exist or it was consumed first by the
	// concurrent path. Re-read to tell the two apart.
	existing, geterr := s.GetByID(ctx, id)
	if geterr != nil {
		return model.BookingIntent{}, false, geterr
	}
	return existing, false, nil
}

func (s *mongoIntents) Unconsume(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.UpdateOne(ctx,
		bson.D{primitive.E{Key: "_id", Value: id}},
		bson.D{primitive.E{Key: "$set", Value: bson.D{
			primitive.E{Key: "consumed_at", Value: nil},
			primitive.E{Key: "booking_id", Value: nil},
		}}})
	if err != nil {
		return fmt.Errorf("db error while releasing intent: %v", err)
	}
	return nil
}

func (s *mongoIntents) Delete(ctx context.Context, id primitive.ObjectID) error {
	return DeleteFromCollection(ctx, id, s.col)
}
