package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// DateNeed is one show day of a booking request: how many staff the client
// wants on that date.
type DateNeed struct {
	Date       string `json:"date" bson:"date"`
	StaffCount uint   `json:"staff_count" bson:"staff_count"`
}

// BookingIntent is a prospective booking awaiting payment. It is promoted
// into a Booking at most once: ConsumedAt and BookingId are stamped together
// by a single conditional update, never separately.
type BookingIntent struct {
	Id                primitive.ObjectID  `json:"_id" bson:"_id"`
	ClientId          primitive.ObjectID  `json:"client_id" bson:"client_id"`
	ShowId            primitive.ObjectID  `json:"show_id" bson:"show_id"`
	ShowName          string              `json:"show_name" bson:"show_name"`
	ShowData          ShowSnapshot        `json:"show_data" bson:"show_data"`
	DatesNeeded       []DateNeed          `json:"dates_needed" bson:"dates_needed"`
	Notes             string              `json:"notes" bson:"notes"`
	TotalStaffNeeded  uint                `json:"total_staff_needed" bson:"total_staff_needed"`
	BookingFeeCents   int64               `json:"booking_fee_cents" bson:"booking_fee_cents"`
	PrimaryContactId  primitive.ObjectID  `json:"primary_contact_id" bson:"primary_contact_id"`
	PrimaryLocationId primitive.ObjectID  `json:"primary_location_id" bson:"primary_location_id"`
	CheckoutSessionId string              `json:"stripe_checkout_session_id" bson:"stripe_checkout_session_id"`
	CreatedAt         string              `json:"created_at" bson:"created_at"`
	ConsumedAt        *string             `json:"consumed_at" bson:"consumed_at"`
	BookingId         *primitive.ObjectID `json:"booking_id" bson:"booking_id"`
}

func (i BookingIntent) IsConsumed() bool {
	return i.ConsumedAt != nil
}

// TotalStaffDays sums staff counts across all requested dates.
func TotalStaffDays(dates []DateNeed) uint {
	var total uint
	for _, d := range dates {
		total += d.StaffCount
	}
	return total
}
