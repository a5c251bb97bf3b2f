package common

import (
	"eventify/src/config"
	"eventify/src/db"
	"eventify/src/lib"
	"eventify/src/lib/mailer"
	"eventify/src/models"
	"eventify/src/types"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InitiatePayment creates the one-and-only Payment for a PENDING booking
// and hands back the confirmation handle the external payment flow will
// call back on.
func InitiatePayment(bookingId uint) (*types.PaymentInitiation, error) {
	gdb := db.GetDb()
	var payment models.Payment
	err := gdb.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.
			Preload("Payment").
			First(&booking, bookingId).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NotFoundError("Booking not found with id: %d", bookingId)
			}
			return err
		}

		if booking.Status != types.BOOKING_PENDING {
			return types.InvalidStateError("Payment can only be initiated for PENDING bookings.")
		}
		if booking.Payment != nil {
			return types.InvalidStateError("Payment has already been initiated for this booking.")
		}

		bookingID := booking.ID
		payment = models.Payment{
			BookingID:     &bookingID,
			Amount:        booking.TotalAmount,
			Status:        types.PAYMENT_PENDING,
			TransactionID: newTransactionId(),
			PaymentDate:   time.Now(),
		}
		if err := tx.Create(&payment).Error; err != nil {
			// a concurrent initiation can slip past the read guard; the
			// unique index on booking_id is the authority
			if isUniqueViolation(err) {
				return types.InvalidStateError("Payment has already been initiated for this booking.")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &types.PaymentInitiation{
		PaymentID:       payment.ID,
		TransactionID:   payment.TransactionID,
		ConfirmationURL: config.API_HOST + "/api/v1/payments/webhook",
		Message:         "Payment initiated. Use this link to complete the payment process.",
	}, nil
}

// ProcessPaymentOutcome consumes the terminal decision for a transaction.
// This is the single point where a LOCKED seat either becomes BOOKED or is
// fully unwound to AVAILABLE; no seat of the affected booking stays LOCKED
// after it returns.
func ProcessPaymentOutcome(params *types.PaymentOutcomeRequestBody) (*models.Booking, error) {
	gdb := db.GetDb()
	var booking models.Booking
	confirmed := false
	err := gdb.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.
			Where(&models.Payment{TransactionID: params.TransactionID}).
			First(&payment).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NotFoundError("Payment transaction not found with id: %s", params.TransactionID)
			}
			return err
		}

		// Idempotency guard: a second outcome for the same transaction
		// must not touch seats again.
		if payment.Status != types.PAYMENT_PENDING {
			return types.InvalidStateError("Payment %s has already been processed.", params.TransactionID)
		}
		if payment.BookingID == nil {
			return types.InvalidStateError("Payment %s is no longer attached to a booking.", params.TransactionID)
		}

		if err := tx.
			Preload("Seats").
			Preload("Event").
			Preload("User").
			First(&booking, *payment.BookingID).
			Error; err != nil {
			return err
		}
		if booking.Status != types.BOOKING_PENDING {
			return types.InvalidStateError("Booking %d is no longer pending.", booking.ID)
		}

		if params.PaymentStatus == types.PAYMENT_COMPLETED {
			confirmed = true
			return settleSuccessfulPayment(tx, &payment, &booking, params.PaymentMethod)
		}
		return settleFailedPayment(tx, &payment, &booking, params.PaymentMethod)
	})
	if err != nil {
		return nil, err
	}

	lib.InvalidateEventCache(booking.EventID)
	if confirmed {
		booking.Status = types.BOOKING_CONFIRMED
		go mailer.SendBookingConfirmation(&booking)
	} else {
		booking.Status = types.BOOKING_CANCELED
		go mailer.SendPaymentFailed(&booking)
	}
	return &booking, nil
}

func settleSuccessfulPayment(tx *gorm.DB, payment *models.Payment, booking *models.Booking, method types.PaymentMethod) error {
	if err := tx.
		Model(&models.Payment{}).
		Where("id = ?", payment.ID).
		Updates(map[string]any{
			"status": types.PAYMENT_COMPLETED,
			"method": method,
		}).
		Error; err != nil {
		return err
	}

	res := tx.
		Model(&models.Seat{}).
		Where("booking_id = ? AND status = ?", booking.ID, types.SEAT_LOCKED).
		Updates(map[string]any{
			"status":  types.SEAT_BOOKED,
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != int64(len(booking.Seats)) {
		return types.ConflictError("Booking %d seats changed while confirming payment.", booking.ID)
	}

	return tx.
		Model(&models.Booking{}).
		Where("id = ?", booking.ID).
		Update("status", types.BOOKING_CONFIRMED).
		Error
}

func settleFailedPayment(tx *gorm.DB, payment *models.Payment, booking *models.Booking, method types.PaymentMethod) error {
	if err := tx.
		Model(&models.Payment{}).
		Where("id = ?", payment.ID).
		Updates(map[string]any{
			"status": types.PAYMENT_FAILED,
			"method": method,
		}).
		Error; err != nil {
		return err
	}

	if _, err := releaseSeats(tx, booking); err != nil {
		return err
	}

	return tx.
		Model(&models.Booking{}).
		Where("id = ?", booking.ID).
		Update("status", types.BOOKING_CANCELED).
		Error
}

// RefundPayment flips the payment ledger entry to REFUNDED. Booking and
// seat state are untouched; cancellation owns those, and keeping refunds
// independent lets them be retried and audited separately.
func RefundPayment(transactionId string) error {
	gdb := db.GetDb()
	return gdb.Transaction(func(tx *gorm.DB) error {
		return refundPaymentTx(tx, transactionId)
	})
}

func refundPaymentTx(tx *gorm.DB, transactionId string) error {
	res := tx.
		Model(&models.Payment{}).
		Where("transaction_id = ?", transactionId).
		Update("status", types.PAYMENT_REFUNDED)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return types.NotFoundError("Payment transaction not found with id: %s", transactionId)
	}
	return nil
}

func newTransactionId() string {
	return fmt.Sprintf("txn_%s", strings.ReplaceAll(uuid.NewString(), "-", ""))
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
