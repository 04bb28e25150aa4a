package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"staffing-portal/database"
	"staffing-portal/payments"
	"staffing-portal/service"
)

// Handler carries the injected stores, the payment gateway and the booking
// service. Routes are registered against its methods.
type Handler struct {
	svc          *service.Service
	users        database.UserStore
	clients      database.ClientStore
	shows        database.ShowStore
	staff        database.StaffStore
	availability database.AvailabilityStore
	bookings     database.BookingStore
	gateway      payments.Gateway
	jwtSecret    string
	log          *logrus.Logger
}

type Deps struct {
	Service      *service.Service
	Users        database.UserStore
	Clients      database.ClientStore
	Shows        database.ShowStore
	Staff        database.StaffStore
	Availability database.AvailabilityStore
	Bookings     database.BookingStore
	Gateway      payments.Gateway
	JWTSecret    string
	Log          *logrus.Logger
}

func New(deps Deps) *Handler {
	log := deps.Log
	if log == nil {
		log = logrus.New()
	}
	return &Handler{
		svc:          deps.Service,
		users:        deps.Users,
		clients:      deps.Clients,
		shows:        deps.Shows,
		staff:        deps.Staff,
		availability: deps.Availability,
		bookings:     deps.Bookings,
		gateway:      deps.Gateway,
		jwtSecret:    deps.JWTSecret,
		log:          log,
	}
}

func (h *Handler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func tokenClaims(c *fiber.Ctx) jwt.MapClaims {
	token := c.Locals("identity").(*jwt.Token)
	return token.Claims.(jwt.MapClaims)
}

func roleFromToken(c *fiber.Ctx) string {
	role, _ := tokenClaims(c)["role"].(string)
	return role
}

func usernameFromToken(c *fiber.Ctx) string {
	username, _ := tokenClaims(c)["username"].(string)
	return username
}

// entityIDFromToken returns the client or staff document id the logged-in
// user is bound to.
func entityIDFromToken(c *fiber.Ctx) (primitive.ObjectID, error) {
	hex, _ := tokenClaims(c)["entity_id"].(string)
	return primitive.ObjectIDFromHex(hex)
}

func hasAnyRole(c *fiber.Ctx, roles ...string) bool {
	current := roleFromToken(c)
	for _, role := range roles {
		if current == role {
			return true
		}
	}
	return false
}
