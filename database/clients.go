package database

import (
	"context"
	"fmt"

	"staffing-portal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoUsers struct {
	col *mongo.Collection
}

func (s *mongoUsers) GetByLogin(ctx context.Context, userLogin string) (model.UserData, error) {
	var user model.UserData
	err := s.col.FindOne(ctx, bson.D{primitive.E{Key: "login", Value: userLogin}}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return model.UserData{}, ErrNoDocument
	}
	if err != nil {
		return model.UserData{}, fmt.Errorf("server side problem occured while reading user data from database: %v", err)
	}
	return user, nil
}

type mongoClients struct {
	col *mongo.Collection
}

func (s *mongoClients) GetByID(ctx context.Context, id primitive.ObjectID) (model.Client, error) {
	var client model.Client
	if err := findByID(ctx, id, s.col, &client); err != nil {
		return model.Client{}, err
	}
	return client, nil
}

func (s *mongoClients) SetStripeCustomer(ctx context.Context, id primitive.ObjectID, customerID string) error {
	_, err := s.col.UpdateOne(ctx,
		bson.D{primitive.E{Key: "_id", Value: id}},
		bson.D{primitive.E{Key: "$set", Value: bson.D{
			primitive.E{Key: "stripe_customer_id", Value: customerID},
		}}})
	if err != nil {
		return fmt.Errorf("db error while saving stripe customer id: %v", err)
	}
	return nil
}

func (s *mongoClients) Update(ctx context.Context, client model.Client) error {
	return UpdateCollectionItem(ctx, client.Id, client, s.col)
}

func (s *mongoClients) AddContact(ctx context.Context, id primitive.ObjectID, contact model.Contact) error {
	return s.push(ctx, id, "contacts", contact)
}

func (s *mongoClients) AddLocation(ctx context.Context, id primitive.ObjectID, location model.Location) error {
	return s.push(ctx, id, "locations", location)
}

func (s *mongoClients) push(ctx context.Context, id primitive.ObjectID, field string, item interface{}) error {
	_, err := s.col.UpdateOne(ctx,
		bson.D{primitive.E{Key: "_id", Value: id}},
		bson.D{primitive.E{Key: "$push", Value: bson.D{primitive.E{Key: field, Value: item}}}})
	if err != nil {
		return fmt.Errorf("db error while updating client %v: %v", field, err)
	}
	return nil
}
