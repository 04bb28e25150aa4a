package model

import "go.mongodb.org/mongo-driver/bson/primitive"

type Contact struct {
	Id    primitive.ObjectID `json:"_id" bson:"_id"`
	Name  string             `json:"name" bson:"name"`
	Email string             `json:"email" bson:"email"`
	Phone string             `json:"phone" bson:"phone"`
}

type Location struct {
	Id      primitive.ObjectID `json:"_id" bson:"_id"`
	Label   string             `json:"label" bson:"label"`
	Address string             `json:"address" bson:"address"`
	City    string             `json:"city" bson:"city"`
}

type Client struct {
	Id               primitive.ObjectID `json:"_id" bson:"_id"`
	CompanyName      string             `json:"company_name" bson:"company_name"`
	Email            string             `json:"email" bson:"email"`
	StripeCustomerId string             `json:"stripe_customer_id" bson:"stripe_customer_id"`
	Contacts         []Contact          `json:"contacts" bson:"contacts"`
	Locations        []Location         `json:"locations" bson:"locations"`
	CreatedAt        string             `json:"created_at" bson:"created_at"`
	UpdatedAt        string             `json:"updated_at" bson:"updated_at"`
}
