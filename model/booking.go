package model

import "go.mongodb.org/mongo-driver/bson/primitive"

type BookingStatus string

const (
	StatusPaymentPending BookingStatus = "payment_pending"
	StatusDepositPaid    BookingStatus = "deposit_paid"
	StatusFinalPaid      BookingStatus = "final_paid"
	StatusPaid           BookingStatus = "paid"
	StatusDeclined       BookingStatus = "declined"
	StatusCompleted      BookingStatus = "completed"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "payment_pending"
	PaymentPaid    PaymentStatus = "paid"
)

// statusRank orders the forward-only payment progression. Declined and
// completed sit outside the progression and are not reachable from here.
var statusRank = map[BookingStatus]int{
	StatusPaymentPending: 0,
	StatusDepositPaid:    1,
	StatusFinalPaid:      2,
	StatusPaid:           2,
}

// CanTransition reports whether moving from one payment status to another
// goes forward. Transitions never reverse.
func CanTransition(from, to BookingStatus) bool {
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// BookingDate is one staffed show day: the requested head count plus the
// staff members assigned to it.
type BookingDate struct {
	Date       string               `json:"date" bson:"date"`
	StaffCount uint                 `json:"staff_count" bson:"staff_count"`
	StaffIds   []primitive.ObjectID `json:"staff_ids" bson:"staff_ids"`
}

// FeeAudit is an append-only record of a final-fee computation attempt.
type FeeAudit struct {
	RateCents           int64  `json:"rate_cents" bson:"rate_cents"`
	StaffDays           uint   `json:"staff_days" bson:"staff_days"`
	ComputedTotalCents  int64  `json:"computed_total_cents" bson:"computed_total_cents"`
	ChargedCents        int64  `json:"charged_cents" bson:"charged_cents"`
	RequiresActionCents int64  `json:"requires_action_cents,omitempty" bson:"requires_action_cents,omitempty"`
	CheckoutSessionId   string `json:"checkout_session_id,omitempty" bson:"checkout_session_id,omitempty"`
	PaymentIntentId     string `json:"payment_intent_id,omitempty" bson:"payment_intent_id,omitempty"`
	Actor               string `json:"actor" bson:"actor"`
	At                  string `json:"at" bson:"at"`
}

// Booking is the durable, billable staffing engagement. It is only ever
// created by promoting a BookingIntent.
type Booking struct {
	Id                  primitive.ObjectID `json:"_id" bson:"_id"`
	ClientId            primitive.ObjectID `json:"client_id" bson:"client_id"`
	ShowId              primitive.ObjectID `json:"show_id" bson:"show_id"`
	ShowName            string             `json:"show_name" bson:"show_name"`
	ShowData            ShowSnapshot       `json:"show_data" bson:"show_data"`
	DatesNeeded         []BookingDate      `json:"dates_needed" bson:"dates_needed"`
	Notes               string             `json:"notes" bson:"notes"`
	TotalStaffNeeded    uint               `json:"total_staff_needed" bson:"total_staff_needed"`
	Status              BookingStatus      `json:"status" bson:"status"`
	PaymentStatus       PaymentStatus      `json:"payment_status" bson:"payment_status"`
	BookingFeeCents     int64              `json:"booking_fee_cents" bson:"booking_fee_cents"`
	BookingFeeCentsPaid int64              `json:"booking_fee_cents_paid" bson:"booking_fee_cents_paid"`
	FinalFeeCentsPaid   int64              `json:"final_fee_cents_paid" bson:"final_fee_cents_paid"`
	StripeCustomerId    string             `json:"stripe_customer_id" bson:"stripe_customer_id"`
	CheckoutSessionId   string             `json:"stripe_checkout_session_id" bson:"stripe_checkout_session_id"`
	PaymentIntentId     string             `json:"stripe_payment_intent_id" bson:"stripe_payment_intent_id"`
	PrimaryContactId    primitive.ObjectID `json:"primary_contact_id" bson:"primary_contact_id"`
	PrimaryLocationId   primitive.ObjectID `json:"primary_location_id" bson:"primary_location_id"`
	Audit               []FeeAudit         `json:"audit" bson:"audit"`
	CreatedAt           string             `json:"created_at" bson:"created_at"`
	UpdatedAt           string             `json:"updated_at" bson:"updated_at"`
}

// StaffDays sums the requested staff counts across all booked dates.
func (b Booking) StaffDays() uint {
	var total uint
	for _, d := range b.DatesNeeded {
		total += d.StaffCount
	}
	return total
}
