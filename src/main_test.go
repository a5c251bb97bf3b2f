package main

import (
	"encoding/json"
	"eventify/src/config"
	"eventify/src/db"
	"eventify/src/middlewares"
	"eventify/src/models"
	"eventify/src/types"
	"eventify/src/utils"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-faker/faker/v4"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type TestSuite struct {
	suite.Suite
	DB         *gorm.DB
	Token      *string
	AdminToken *string
	UserEmail  string
}

func (s *TestSuite) SetupSuite() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("bookabledate", eventDateTimeValidatorFunc)
	}

	d, err := gorm.Open(sqlite.Open("file:maintest?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		log.Fatalf("error opening test database: %s", err.Error())
	}
	db.NewDB(d)
	s.DB = d

	err = d.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Seat{},
		&models.Booking{},
		&models.Payment{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	hash, err := utils.HashPassword("password123")
	if err != nil {
		log.Fatalf("error hashing password: %s", err.Error())
	}
	s.UserEmail = faker.Email()
	user := models.User{
		Name:     "Test User",
		Email:    s.UserEmail,
		Password: hash,
		Role:     types.ROLE_USER,
	}
	admin := models.User{
		Name:     "Test Admin",
		Email:    faker.Email(),
		Password: hash,
		Role:     types.ROLE_ADMIN,
	}
	if err := d.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&admin).Error
	}); err != nil {
		log.Fatalf("Could not create users due to error: %s\n", err.Error())
	}

	token, err := utils.GenerateJWT(user.Email, user.ID, user.Role)
	if err != nil {
		log.Fatalf("Error generating JWT token: %s\n", err.Error())
	}
	s.Token = &token
	adminToken, err := utils.GenerateJWT(admin.Email, admin.ID, admin.Role)
	if err != nil {
		log.Fatalf("Error generating JWT token: %s\n", err.Error())
	}
	s.AdminToken = &adminToken
}

func (s *TestSuite) TearDownSuite() {
	inner, err := s.DB.DB()
	if err != nil {
		log.Printf("Error accessing inner db instance: %s\n", err.Error())
		return
	}
	inner.Close()
}

func (s *TestSuite) newTestRouter() *gin.Engine {
	router := setupRouter()
	guestAuthRoutes(router)
	paymentWebhookRoute(router)
	authorized := router.Group(apiPrefix)
	authorized.Use(middlewares.AuthMiddleware)
	eventHandlers(authorized)
	bookingHandlers(authorized)
	paymentHandlers(authorized)
	adminHandlers(authorized)
	return router
}

func (s *TestSuite) doJSON(router *gin.Engine, method, url, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		assert.Nil(s.T(), err)
		reader = strings.NewReader(string(b))
	}
	req, err := http.NewRequest(method, url, reader)
	assert.Nil(s.T(), err)
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func (s *TestSuite) createEvent(router *gin.Engine, totalSeats, seatsPerRow uint, startsIn time.Duration) uint {
	body := types.CreateEventRequestBody{
		Name:        "Summer Music Night",
		Description: "An open-air concert with live performances.",
		Venue:       "City Arena",
		DateTime:    time.Now().Add(startsIn).Format(config.TIME_PARSE_FORMAT),
		TotalSeats:  totalSeats,
		SeatsPerRow: seatsPerRow,
		SeatPricing: []float64{100, 50},
		Category:    types.CATEGORY_MUSIC,
	}
	w := s.doJSON(router, "POST", "/api/v1/events", *s.AdminToken, body)
	assert.Equal(s.T(), http.StatusCreated, w.Code)
	id := gjson.Get(w.Body.String(), "id").Uint()
	assert.Greater(s.T(), id, uint64(0))
	return uint(id)
}

func (s *TestSuite) eventSeatIDs(router *gin.Engine, eventId uint) []uint {
	w := s.doJSON(router, "GET", fmt.Sprintf("/api/v1/events/%d", eventId), *s.Token, nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	ids := []uint{}
	for _, r := range gjson.Get(w.Body.String(), "data.seats.#.id").Array() {
		ids = append(ids, uint(r.Uint()))
	}
	return ids
}

func (s *TestSuite) TestPingRoute() {
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
}

func (s *TestSuite) TestAuthRoutes() {
	router := s.newTestRouter()

	email := faker.Email()
	registerBody := types.RegisterRequestBody{
		Name:     "New User",
		Email:    email,
		Password: "password123",
	}
	w := s.doJSON(router, "POST", "/api/v1/auth/register", "", registerBody)
	assert.Equal(s.T(), http.StatusCreated, w.Code)
	assert.Greater(s.T(), gjson.Get(w.Body.String(), "id").Uint(), uint64(0))

	s.Run("Should reject duplicate registration with 409", func() {
		w := s.doJSON(router, "POST", "/api/v1/auth/register", "", registerBody)
		assert.Equal(s.T(), http.StatusConflict, w.Code)
	})

	s.Run("Should log in and return a token", func() {
		w := s.doJSON(router, "POST", "/api/v1/auth/login", "", types.LoginRequestBody{
			Email:    email,
			Password: "password123",
		})
		assert.Equal(s.T(), http.StatusOK, w.Code)
		assert.NotEmpty(s.T(), gjson.Get(w.Body.String(), "token").String())
	})

	s.Run("Should reject a wrong password", func() {
		w := s.doJSON(router, "POST", "/api/v1/auth/login", "", types.LoginRequestBody{
			Email:    email,
			Password: "wrong-password",
		})
		assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
	})

	s.Run("Should reject unauthenticated access to bookings", func() {
		w := s.doJSON(router, "GET", "/api/v1/bookings", "", nil)
		assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
	})

	s.Run("Should reject a bare Bearer header without a token", func() {
		req, err := http.NewRequest("GET", "/api/v1/bookings", nil)
		assert.Nil(s.T(), err)
		req.Header.Set("Authorization", "Bearer")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
	})
}

func (s *TestSuite) TestEvents() {
	router := s.newTestRouter()

	eventId := s.createEvent(router, 6, 3, 48*time.Hour)

	s.Run("Should return list of Event with 200 status", func() {
		w := s.doJSON(router, "GET", "/api/v1/events", *s.Token, nil)
		assert.Equal(s.T(), http.StatusOK, w.Code)
		assert.Greater(s.T(), gjson.Get(w.Body.String(), "count").Int(), int64(0))
	})

	s.Run("Should return the event with its full seat grid", func() {
		w := s.doJSON(router, "GET", fmt.Sprintf("/api/v1/events/%d", eventId), *s.Token, nil)
		assert.Equal(s.T(), http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Equal(s.T(), int64(6), gjson.Get(body, "data.seats.#").Int())
		assert.Equal(s.T(), "A1", gjson.Get(body, "data.seats.0.seat_number").String())
	})

	s.Run("Should return 404 for an unknown event", func() {
		w := s.doJSON(router, "GET", "/api/v1/events/999999", *s.Token, nil)
		assert.Equal(s.T(), http.StatusNotFound, w.Code)
	})

	s.Run("Should deny event creation to non-admin users", func() {
		body := types.CreateEventRequestBody{
			Name:        "Another Event",
			Description: "Should never be created by a regular user.",
			Venue:       "City Arena",
			DateTime:    time.Now().Add(48 * time.Hour).Format(config.TIME_PARSE_FORMAT),
			TotalSeats:  4,
			SeatsPerRow: 2,
			SeatPricing: []float64{80},
			Category:    types.CATEGORY_COMEDY,
		}
		w := s.doJSON(router, "POST", "/api/v1/events", *s.Token, body)
		assert.Equal(s.T(), http.StatusForbidden, w.Code)
	})

	s.Run("Should return a 400 error response for invalid payload", func() {
		w := s.doJSON(router, "POST", "/api/v1/events", *s.AdminToken, map[string]any{
			"name": "x",
		})
		assert.Equal(s.T(), http.StatusBadRequest, w.Code)
		assert.NotEmpty(s.T(), gjson.Get(w.Body.String(), "error").String())
	})

	s.Run("Should reject an event date in the past", func() {
		body := types.CreateEventRequestBody{
			Name:        "Past Event",
			Description: "Events cannot be scheduled in the past.",
			Venue:       "City Arena",
			DateTime:    time.Now().Add(-48 * time.Hour).Format(config.TIME_PARSE_FORMAT),
			TotalSeats:  4,
			SeatsPerRow: 2,
			SeatPricing: []float64{80},
			Category:    types.CATEGORY_OTHER,
		}
		w := s.doJSON(router, "POST", "/api/v1/events", *s.AdminToken, body)
		assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	})
}

func (s *TestSuite) TestBookingAndPaymentFlow() {
	router := s.newTestRouter()

	eventId := s.createEvent(router, 6, 3, 48*time.Hour)
	seatIds := s.eventSeatIDs(router, eventId)
	assert.Len(s.T(), seatIds, 6)

	var bookingId uint
	var transactionId string

	s.Run("Should create a PENDING booking and lock the seats", func() {
		w := s.doJSON(router, "POST", "/api/v1/bookings", *s.Token, types.CreateBookingRequestBody{
			EventID: eventId,
			SeatIDs: seatIds[:2],
		})
		assert.Equal(s.T(), http.StatusCreated, w.Code)
		body := w.Body.String()
		bookingId = uint(gjson.Get(body, "data.id").Uint())
		assert.Greater(s.T(), bookingId, uint(0))
		assert.Equal(s.T(), string(types.BOOKING_PENDING), gjson.Get(body, "data.status").String())
		assert.Equal(s.T(), float64(200), gjson.Get(body, "data.total_amount").Float())

		var event models.Event
		assert.Nil(s.T(), s.DB.First(&event, eventId).Error)
		assert.Equal(s.T(), uint(2), event.BookedSeats)
	})

	s.Run("Should reject a second booking for the same seat with 409", func() {
		other := models.User{
			Name:     "Second User",
			Email:    faker.Email(),
			Password: "irrelevant",
			Role:     types.ROLE_USER,
		}
		assert.Nil(s.T(), s.DB.Create(&other).Error)
		otherToken, err := utils.GenerateJWT(other.Email, other.ID, other.Role)
		assert.Nil(s.T(), err)

		w := s.doJSON(router, "POST", "/api/v1/bookings", otherToken, types.CreateBookingRequestBody{
			EventID: eventId,
			SeatIDs: seatIds[:1],
		})
		assert.Equal(s.T(), http.StatusConflict, w.Code)
		assert.Equal(s.T(), types.ErrSeatConflict.Message, gjson.Get(w.Body.String(), "error").String())
	})

	s.Run("Should initiate a payment for the booking", func() {
		w := s.doJSON(router, "POST", fmt.Sprintf("/api/v1/payments/initiate/%d", bookingId), *s.Token, nil)
		assert.Equal(s.T(), http.StatusCreated, w.Code)
		transactionId = gjson.Get(w.Body.String(), "data.transaction_id").String()
		assert.True(s.T(), strings.HasPrefix(transactionId, "txn_"))
	})

	s.Run("Should refuse a second payment initiation", func() {
		w := s.doJSON(router, "POST", fmt.Sprintf("/api/v1/payments/initiate/%d", bookingId), *s.Token, nil)
		assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	})

	s.Run("Should confirm the booking on a COMPLETED outcome", func() {
		w := s.doJSON(router, "POST", "/api/v1/payments/webhook", "", types.PaymentOutcomeRequestBody{
			TransactionID: transactionId,
			PaymentStatus: types.PAYMENT_COMPLETED,
			PaymentMethod: types.PAYMENT_METHOD_CARD,
		})
		assert.Equal(s.T(), http.StatusOK, w.Code)
		assert.Equal(s.T(), string(types.BOOKING_CONFIRMED), gjson.Get(w.Body.String(), "data.status").String())

		var seats []models.Seat
		assert.Nil(s.T(), s.DB.Where("booking_id = ?", bookingId).Find(&seats).Error)
		assert.Len(s.T(), seats, 2)
		for _, seat := range seats {
			assert.Equal(s.T(), types.SEAT_BOOKED, seat.Status)
		}
	})

	s.Run("Should treat a repeated outcome as already processed", func() {
		w := s.doJSON(router, "POST", "/api/v1/payments/webhook", "", types.PaymentOutcomeRequestBody{
			TransactionID: transactionId,
			PaymentStatus: types.PAYMENT_COMPLETED,
			PaymentMethod: types.PAYMENT_METHOD_CARD,
		})
		assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	})

	s.Run("Should return 404 for an unknown transaction", func() {
		w := s.doJSON(router, "POST", "/api/v1/payments/webhook", "", types.PaymentOutcomeRequestBody{
			TransactionID: "txn_does_not_exist",
			PaymentStatus: types.PAYMENT_FAILED,
			PaymentMethod: types.PAYMENT_METHOD_UPI,
		})
		assert.Equal(s.T(), http.StatusNotFound, w.Code)
	})

	s.Run("Should cancel the confirmed booking and refund the payment", func() {
		w := s.doJSON(router, "PATCH", fmt.Sprintf("/api/v1/bookings/%d/cancel", bookingId), *s.Token, nil)
		assert.Equal(s.T(), http.StatusOK, w.Code)
		assert.Equal(s.T(), string(types.BOOKING_CANCELED), gjson.Get(w.Body.String(), "data.status").String())

		var event models.Event
		assert.Nil(s.T(), s.DB.First(&event, eventId).Error)
		assert.Equal(s.T(), uint(0), event.BookedSeats)

		var payment models.Payment
		assert.Nil(s.T(), s.DB.Where("transaction_id = ?", transactionId).First(&payment).Error)
		assert.Equal(s.T(), types.PAYMENT_REFUNDED, payment.Status)
	})

	s.Run("Should list the user's bookings", func() {
		w := s.doJSON(router, "GET", "/api/v1/bookings", *s.Token, nil)
		assert.Equal(s.T(), http.StatusOK, w.Code)
		assert.Greater(s.T(), gjson.Get(w.Body.String(), "count").Int(), int64(0))
	})
}

func (s *TestSuite) TestBookingCutoffWindow() {
	router := s.newTestRouter()

	eventId := s.createEvent(router, 4, 2, 10*time.Minute)
	seatIds := s.eventSeatIDs(router, eventId)

	w := s.doJSON(router, "POST", "/api/v1/bookings", *s.Token, types.CreateBookingRequestBody{
		EventID: eventId,
		SeatIDs: seatIds[:1],
	})
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	assert.Contains(s.T(), gjson.Get(w.Body.String(), "error").String(), "Booking is closed")
}

func (s *TestSuite) TestAdminRoutes() {
	router := s.newTestRouter()

	s.Run("Should deny dashboard stats to regular users", func() {
		w := s.doJSON(router, "GET", "/api/v1/admin/dashboard/stats", *s.Token, nil)
		assert.Equal(s.T(), http.StatusForbidden, w.Code)
	})

	s.Run("Should return dashboard stats for admins", func() {
		w := s.doJSON(router, "GET", "/api/v1/admin/dashboard/stats", *s.AdminToken, nil)
		assert.Equal(s.T(), http.StatusOK, w.Code)
		body := w.Body.String()
		assert.True(s.T(), gjson.Get(body, "data.total_events").Exists())
		assert.True(s.T(), gjson.Get(body, "data.total_revenue").Exists())
	})

	s.Run("Should list users for admins", func() {
		w := s.doJSON(router, "GET", "/api/v1/admin/users", *s.AdminToken, nil)
		assert.Equal(s.T(), http.StatusOK, w.Code)
		assert.Greater(s.T(), gjson.Get(w.Body.String(), "count").Int(), int64(0))
	})
}

func TestRunner(t *testing.T) {
	suite.Run(t, new(TestSuite))
}
