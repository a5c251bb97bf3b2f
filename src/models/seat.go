package models

import "eventify/src/types"

// Seat rows carry a version column; every status change goes through a
// compare-and-swap on (status, version) so two racing bookings can never
// both claim the same seat.
type Seat struct {
	ID         uint             `gorm:"primarykey" json:"id"`
	SeatNumber string           `json:"seat_number,omitempty"`
	Price      float64          `json:"price"`
	Status     types.SeatStatus `gorm:"default:'AVAILABLE'" json:"status,omitempty"`
	Version    uint             `gorm:"default:1" json:"-"`
	EventID    uint             `json:"event_id,omitempty"`
	BookingID  *uint            `json:"booking_id,omitempty"`

	Event   *Event   `gorm:"foreignKey:event_id" json:"-"`
	Booking *Booking `gorm:"foreignKey:booking_id" json:"-"`

	types.Timestamps
}
