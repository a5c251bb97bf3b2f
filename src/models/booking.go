package models

import "eventify/src/types"

type Booking struct {
	ID          uint                `gorm:"primarykey" json:"id"`
	TotalAmount float64             `json:"total_amount"`
	Status      types.BookingStatus `gorm:"default:'PENDING'" json:"status,omitempty"`
	UserID      uint                `json:"user_id,omitempty"`
	EventID     uint                `json:"event_id,omitempty"`

	User    *User    `gorm:"foreignKey:user_id" json:"user,omitempty"`
	Event   *Event   `gorm:"foreignKey:event_id" json:"event,omitempty"`
	Seats   []Seat   `gorm:"foreignKey:booking_id" json:"seats,omitempty"`
	Payment *Payment `gorm:"foreignKey:booking_id" json:"payment,omitempty"`

	types.Timestamps
}
