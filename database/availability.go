package database

import (
	"context"
	"fmt"

	"staffing-portal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoStaff struct {
	col *mongo.Collection
}

func (s *mongoStaff) GetByID(ctx context.Context, id primitive.ObjectID) (model.Staff, error) {
	var staff model.Staff
	if err := findByID(ctx, id, s.col, &staff); err != nil {
		return model.Staff{}, err
	}
	return staff, nil
}

func (s *mongoStaff) List(ctx context.Context) ([]model.Staff, error) {
	staff := []model.Staff{}

	cur, err := s.col.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("server side problem occured while reading staff from database: %v", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var member model.Staff
		if err := cur.Decode(&member); err != nil {
			return nil, fmt.Errorf("server side problem occured while reading staff from database: %v", err)
		}
		staff = append(staff, member)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("server side problem occured while reading staff from database: %v", err)
	}

	return staff, nil
}

type mongoAvailability struct {
	col *mongo.Collection
}

// Upsert keeps one availability record per staff member and show; a repeat
// submission replaces the previous set of dates.
func (s *mongoAvailability) Upsert(ctx context.Context, availability model.Availability) error {
	filter := bson.D{
		primitive.E{Key: "staff_id", Value: availability.StaffId},
		primitive.E{Key: "show_id", Value: availability.ShowId},
	}
	update := bson.D{
		primitive.E{Key: "$set", Value: bson.D{
			primitive.E{Key: "dates", Value: availability.Dates},
			primitive.E{Key: "updated_at", Value: availability.UpdatedAt},
		}},
		primitive.E{Key: "$setOnInsert", Value: bson.D{
			primitive.E{Key: "_id", Value: availability.Id},
			primitive.E{Key: "staff_id", Value: availability.StaffId},
			primitive.E{Key: "show_id", Value: availability.ShowId},
			primitive.E{Key: "submitted_at", Value: availability.SubmittedAt},
		}},
	}
	_, err := s.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("db error while saving availability: %v", err)
	}
	return nil
}

func (s *mongoAvailability) List(ctx context.Context, staffID, showID *primitive.ObjectID) ([]model.Availability, error) {
	filter := bson.D{}
	if staffID != nil {
		filter = append(filter, primitive.E{Key: "staff_id", Value: *staffID})
	}
	if showID != nil {
		filter = append(filter, primitive.E{Key: "show_id", Value: *showID})
	}

	records := []model.Availability{}

	cur, err := s.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("server side problem occured while reading availability from database: %v", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var record model.Availability
		if err := cur.Decode(&record); err != nil {
			return nil, fmt.Errorf("server side problem occured while reading availability from database: %v", err)
		}
		records = append(records, record)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("server side problem occured while reading availability from database: %v", err)
	}

	return records, nil
}
