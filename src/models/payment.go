package models

import (
	"eventify/src/types"
	"time"
)

// Payment is the financial ledger row for a booking. At most one exists
// per booking and it is never deleted, only moved to a terminal status.
type Payment struct {
	ID            uint                 `gorm:"primarykey" json:"id"`
	BookingID     *uint                `gorm:"uniqueIndex" json:"booking_id,omitempty"`
	Amount        float64              `json:"amount"`
	Status        types.PaymentStatus  `gorm:"default:'PENDING'" json:"status,omitempty"`
	TransactionID string               `gorm:"uniqueIndex" json:"transaction_id,omitempty"`
	Method        *types.PaymentMethod `json:"method,omitempty"`
	PaymentDate   time.Time            `json:"payment_date,omitempty"`

	Booking *Booking `gorm:"foreignKey:booking_id;constraint:OnDelete:SET NULL" json:"-"`

	types.Timestamps
}
