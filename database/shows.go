package database

import (
	"context"
	"fmt"

	"staffing-portal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoShows struct {
	col *mongo.Collection
}

func (s *mongoShows) GetByID(ctx context.Context, id primitive.ObjectID) (model.Show, error) {
	var show model.Show
	if err := findByID(ctx, id, s.col, &show); err != nil {
		return model.Show{}, err
	}
	return show, nil
}

func (s *mongoShows) List(ctx context.Context) ([]model.Show, error) {
	shows := []model.Show{}

	cur, err := s.col.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("server side problem occured while reading shows from database: %v", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var show model.Show
		if err := cur.Decode(&show); err != nil {
			return nil, fmt.Errorf("server side problem occured while reading shows from database: %v", err)
		}
		shows = append(shows, show)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("server side problem occured while reading shows from database: %v", err)
	}

	return shows, nil
}

func (s *mongoShows) Insert(ctx context.Context, show model.Show) error {
	return WriteToCollection(ctx, show, s.col)
}

func (s *mongoShows) Update(ctx context.Context, show model.Show) error {
	return UpdateCollectionItem(ctx, show.Id, show, s.col)
}

func (s *mongoShows) Delete(ctx context.Context, id primitive.ObjectID) error {
	return DeleteFromCollection(ctx, id, s.col)
}
