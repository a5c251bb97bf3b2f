package models

import (
	"eventify/src/types"
	"time"
)

type Event struct {
	ID             uint                `gorm:"primarykey" json:"id"`
	Name           string              `json:"name,omitempty"`
	Description    string              `json:"description,omitempty"`
	Venue          string              `json:"venue,omitempty"`
	EventTimestamp time.Time           `json:"event_timestamp,omitempty"`
	TotalSeats     uint                `json:"total_seats"`
	SeatsPerRow    uint                `json:"seats_per_row"`
	BookedSeats    uint                `gorm:"default:0" json:"booked_seats"`
	Category       types.EventCategory `json:"category,omitempty"`
	ImageURLs      *types.JSONBArray   `gorm:"type:jsonb" json:"image_urls,omitempty"`

	Seats    []Seat    `gorm:"foreignKey:event_id;constraint:OnDelete:CASCADE" json:"seats,omitempty"`
	Bookings []Booking `gorm:"foreignKey:event_id;constraint:OnDelete:CASCADE" json:"bookings,omitempty"`

	types.Timestamps
}

func (e *Event) AvailableSeats() uint {
	if e.BookedSeats > e.TotalSeats {
		return 0
	}
	return e.TotalSeats - e.BookedSeats
}
