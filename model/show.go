package model

import "go.mongodb.org/mongo-driver/bson/primitive"

type Show struct {
	Id        primitive.ObjectID `json:"_id" bson:"_id"`
	Name      string             `json:"name" bson:"name"`
	Title     string             `json:"title" bson:"title"`
	Location  string             `json:"location" bson:"location"`
	StartDate string             `json:"start_date" bson:"start_date"`
	EndDate   string             `json:"end_date" bson:"end_date"`
	CreatedAt string             `json:"created_at" bson:"created_at"`
	UpdatedAt string             `json:"updated_at" bson:"updated_at"`
}

// ShowSnapshot is the subset of show fields frozen onto intents and bookings
// at checkout time, so later show edits do not rewrite billing history.
type ShowSnapshot struct {
	Name      string `json:"name" bson:"name"`
	Location  string `json:"location" bson:"location"`
	StartDate string `json:"start_date" bson:"start_date"`
	EndDate   string `json:"end_date" bson:"end_date"`
}

const unnamedShow = "(unnamed show)"

// ResolveShowName picks a display name with a fixed precedence: the name
// recorded on the intent, then the snapshot name, then the live show's
// name, then its title, then a placeholder.
func ResolveShowName(intentShowName string, snapshot ShowSnapshot, show *Show) string {
	if intentShowName != "" {
		return intentShowName
	}
	if snapshot.Name != "" {
		return snapshot.Name
	}
	if show != nil {
		if show.Name != "" {
			return show.Name
		}
		if show.Title != "" {
			return show.Title
		}
	}
	return unnamedShow
}
