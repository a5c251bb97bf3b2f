package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any
type JSONBArray []any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		s, sok := value.(string)
		if !sok {
			return errors.New("type assertion to []byte failed")
		}
		b = []byte(s)
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

func (a JSONBArray) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONBArray) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		s, sok := value.(string)
		if !sok {
			return errors.New("type assertion to []byte failed")
		}
		b = []byte(s)
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type SeatStatus string

const (
	SEAT_AVAILABLE SeatStatus = "AVAILABLE"
	SEAT_LOCKED    SeatStatus = "LOCKED"
	SEAT_BOOKED    SeatStatus = "BOOKED"
)

type BookingStatus string

const (
	BOOKING_PENDING   BookingStatus = "PENDING"
	BOOKING_CONFIRMED BookingStatus = "CONFIRMED"
	BOOKING_CANCELED  BookingStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PAYMENT_PENDING   PaymentStatus = "PENDING"
	PAYMENT_COMPLETED PaymentStatus = "COMPLETED"
	PAYMENT_FAILED    PaymentStatus = "FAILED"
	PAYMENT_REFUNDED  PaymentStatus = "REFUNDED"
)

type PaymentMethod string

const (
	PAYMENT_METHOD_CARD       PaymentMethod = "CARD"
	PAYMENT_METHOD_UPI        PaymentMethod = "UPI"
	PAYMENT_METHOD_NETBANKING PaymentMethod = "NETBANKING"
	PAYMENT_METHOD_WALLET     PaymentMethod = "WALLET"
)

type EventCategory string

const (
	CATEGORY_MUSIC    EventCategory = "MUSIC"
	CATEGORY_SPORTS   EventCategory = "SPORTS"
	CATEGORY_THEATRE  EventCategory = "THEATRE"
	CATEGORY_COMEDY   EventCategory = "COMEDY"
	CATEGORY_WORKSHOP EventCategory = "WORKSHOP"
	CATEGORY_OTHER    EventCategory = "OTHER"
)

const (
	ROLE_USER  string = "USER"
	ROLE_ADMIN string = "ADMIN"
)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type CreateEventRequestBody struct {
	Name        string        `json:"name" binding:"required,min=3,max=100"`
	Description string        `json:"description" binding:"required,min=10,max=500"`
	Venue       string        `json:"venue" binding:"required,min=3,max=100"`
	DateTime    string        `json:"date_time" binding:"required,bookabledate" time_format:"2006-01-02 15:04:05 -07:00"`
	TotalSeats  uint          `json:"total_seats" binding:"required,min=1"`
	SeatsPerRow uint          `json:"seats_per_row" binding:"required,min=1"`
	SeatPricing []float64     `json:"seat_pricing" binding:"required,min=1"`
	Category    EventCategory `json:"category" binding:"required,oneof=MUSIC SPORTS THEATRE COMEDY WORKSHOP OTHER"`
	ImageURLs   []string      `json:"image_urls,omitempty" binding:"omitempty,max=5"`
}

type UpdateEventRequestBody struct {
	Name        string    `json:"name" binding:"required,min=3,max=100"`
	Description string    `json:"description" binding:"required,min=10,max=500"`
	Venue       string    `json:"venue" binding:"required,min=3,max=100"`
	DateTime    string    `json:"date_time" binding:"required,bookabledate" time_format:"2006-01-02 15:04:05 -07:00"`
	TotalSeats  uint      `json:"total_seats" binding:"required,min=1"`
	SeatsPerRow uint      `json:"seats_per_row" binding:"required,min=1"`
	SeatPricing []float64 `json:"seat_pricing" binding:"required,min=1"`
}

type CreateBookingRequestBody struct {
	EventID uint   `json:"event_id" binding:"required,min=1"`
	SeatIDs []uint `json:"seat_ids" binding:"required,min=1"`
}

type PaymentOutcomeRequestBody struct {
	TransactionID string        `json:"transaction_id" binding:"required"`
	PaymentStatus PaymentStatus `json:"payment_status" binding:"required,oneof=COMPLETED FAILED"`
	PaymentMethod PaymentMethod `json:"payment_method" binding:"required,oneof=CARD UPI NETBANKING WALLET"`
}

// PaymentInitiation is the opaque handle returned to the caller so the
// external payment flow knows where to report its outcome.
type PaymentInitiation struct {
	PaymentID       uint   `json:"payment_id"`
	TransactionID   string `json:"transaction_id"`
	ConfirmationURL string `json:"confirmation_url"`
	Message         string `json:"message"`
}

type RegisterRequestBody struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AdminDashboardStats struct {
	TotalEvents       int64   `json:"total_events"`
	TotalBookings     int64   `json:"total_bookings"`
	PendingBookings   int64   `json:"pending_bookings"`
	ConfirmedBookings int64   `json:"confirmed_bookings"`
	CancelledBookings int64   `json:"cancelled_bookings"`
	TotalRevenue      float64 `json:"total_revenue"`
}
