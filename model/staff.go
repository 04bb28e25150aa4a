package model

import "go.mongodb.org/mongo-driver/bson/primitive"

type Staff struct {
	Id        primitive.ObjectID `json:"_id" bson:"_id"`
	FirstName string             `json:"first_name" bson:"first_name"`
	LastName  string             `json:"last_name" bson:"last_name"`
	Email     string             `json:"email" bson:"email"`
	Phone     string             `json:"phone" bson:"phone"`
	Active    bool               `json:"active" bson:"active"`
	CreatedAt string             `json:"created_at" bson:"created_at"`
}

// Availability lists the show dates one staff member can work.
type Availability struct {
	Id          primitive.ObjectID `json:"_id" bson:"_id"`
	StaffId     primitive.ObjectID `json:"staff_id" bson:"staff_id"`
	ShowId      primitive.ObjectID `json:"show_id" bson:"show_id"`
	Dates       []string           `json:"dates" bson:"dates"`
	SubmittedAt string             `json:"submitted_at" bson:"submitted_at"`
	UpdatedAt   string             `json:"updated_at" bson:"updated_at"`
}
