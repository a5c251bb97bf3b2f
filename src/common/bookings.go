package common

import (
	"eventify/src/config"
	"eventify/src/db"
	"eventify/src/lib"
	"eventify/src/models"
	"eventify/src/types"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
)

// CreateBooking reserves the requested seats for the user in a single
// transaction: the event's booked-seat counter, the new PENDING booking
// row and every seat's LOCKED status commit together or not at all.
func CreateBooking(email string, params *types.CreateBookingRequestBody) (*models.Booking, error) {
	gdb := db.GetDb()
	var booking models.Booking
	err := gdb.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.
			Where(&models.User{Email: email}).
			First(&user).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NotFoundError("User not found with email: %s", email)
			}
			return err
		}

		var event models.Event
		if err := tx.
			Where("id = ?", params.EventID).
			First(&event).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NotFoundError("Event not found with id: %d", params.EventID)
			}
			return err
		}

		cutoff := event.EventTimestamp.Add(-config.BOOKING_CUTOFF_WINDOW)
		if time.Now().After(cutoff) {
			return types.InvalidStateError("Booking is closed. Bookings cannot be made within 15 minutes of the event start time.")
		}

		if len(params.SeatIDs) == 0 {
			return types.InvalidStateError("Seat IDs cannot be empty.")
		}
		seen := make(map[uint]struct{}, len(params.SeatIDs))
		for _, id := range params.SeatIDs {
			if _, ok := seen[id]; ok {
				return types.InvalidStateError("Seat id %d is requested more than once.", id)
			}
			seen[id] = struct{}{}
		}

		var seats []models.Seat
		if err := tx.
			Where("id IN ?", params.SeatIDs).
			Find(&seats).
			Error; err != nil {
			return err
		}
		if len(seats) != len(params.SeatIDs) {
			return types.NotFoundError("One or more seats could not be found.")
		}

		var totalAmount float64
		for _, seat := range seats {
			if seat.EventID != event.ID {
				return types.ConflictError("Seat with id %d does not belong to event %d.", seat.ID, event.ID)
			}
			if seat.Status != types.SEAT_AVAILABLE {
				return types.ErrSeatConflict
			}
			totalAmount += seat.Price
		}

		requested := uint(len(seats))
		if event.AvailableSeats() < requested {
			return types.InvalidStateError("Event has only %d seats left.", event.AvailableSeats())
		}

		// Guarded counter bump: the WHERE clause re-checks capacity at
		// write time so concurrent bookings cannot push the counter past
		// the event's total.
		res := tx.
			Model(&models.Event{}).
			Where("id = ? AND booked_seats + ? <= total_seats", event.ID, requested).
			Update("booked_seats", gorm.Expr("booked_seats + ?", requested))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return types.InvalidStateError("Event has no capacity left for %d seats.", requested)
		}

		booking = models.Booking{
			TotalAmount: totalAmount,
			Status:      types.BOOKING_PENDING,
			UserID:      user.ID,
			EventID:     event.ID,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		for _, seat := range seats {
			// Optimistic claim: someone who grabbed the seat after our
			// read changed its status or version, so the UPDATE matches
			// nothing and the whole transaction rolls back.
			res := tx.
				Model(&models.Seat{}).
				Where("id = ? AND status = ? AND version = ?", seat.ID, types.SEAT_AVAILABLE, seat.Version).
				Updates(map[string]any{
					"status":     types.SEAT_LOCKED,
					"booking_id": booking.ID,
					"version":    gorm.Expr("version + 1"),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return types.ErrSeatConflict
			}
		}

		if err := tx.
			Preload("Seats").
			Preload("Event").
			Preload("User").
			First(&booking, booking.ID).
			Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	lib.InvalidateEventCache(booking.EventID)
	return &booking, nil
}

// CancelBooking cancels on behalf of the booking's owner; the identity is
// the authenticated email supplied by the middleware.
func CancelBooking(bookingId uint, email string) (*models.Booking, error) {
	return cancelBooking(bookingId, &email)
}

// cancelBooking does the shared cancellation work. A nil email is the
// system actor (expiration sweep) and skips the ownership check.
func cancelBooking(bookingId uint, email *string) (*models.Booking, error) {
	gdb := db.GetDb()
	var booking models.Booking
	err := gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Preload("Seats").
			Preload("Payment").
			Preload("User").
			First(&booking, bookingId).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NotFoundError("Booking not found with id: %d", bookingId)
			}
			return err
		}

		if booking.Status == types.BOOKING_CANCELED {
			return types.InvalidStateError("Booking is already cancelled.")
		}
		if email != nil && (booking.User == nil || booking.User.Email != *email) {
			return types.InvalidStateError("Only the booking owner can cancel the booking.")
		}

		if _, err := releaseSeats(tx, &booking); err != nil {
			return err
		}

		if booking.Status == types.BOOKING_CONFIRMED && booking.Payment != nil {
			if err := refundPaymentTx(tx, booking.Payment.TransactionID); err != nil {
				return err
			}
		}

		if err := tx.
			Model(&models.Booking{}).
			Where("id = ?", booking.ID).
			Update("status", types.BOOKING_CANCELED).
			Error; err != nil {
			return err
		}
		booking.Status = types.BOOKING_CANCELED
		return nil
	})
	if err != nil {
		return nil, err
	}
	lib.InvalidateEventCache(booking.EventID)
	return &booking, nil
}

// DeleteBooking is the administrative hard delete: seats are released
// through the same routine as cancellation and the booking row is removed
// for good. No refund is issued; that is a deliberate product decision,
// not an oversight.
func DeleteBooking(bookingId uint) error {
	gdb := db.GetDb()
	var eventId uint
	err := gdb.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.
			Preload("Seats").
			First(&booking, bookingId).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NotFoundError("Booking not found with id: %d", bookingId)
			}
			return err
		}
		eventId = booking.EventID

		if booking.Status != types.BOOKING_CANCELED {
			if _, err := releaseSeats(tx, &booking); err != nil {
				return err
			}
		}

		if err := tx.
			Model(&models.Payment{}).
			Where("booking_id = ?", booking.ID).
			Update("booking_id", nil).
			Error; err != nil {
			return err
		}

		return tx.Unscoped().Delete(&models.Booking{}, booking.ID).Error
	})
	if err != nil {
		return err
	}
	lib.InvalidateEventCache(eventId)
	return nil
}

// releaseSeats returns every seat held by the booking to AVAILABLE and
// symmetrically reverses the counter increment made at creation. The
// decrement amount is exactly the number of rows released here, never the
// event's current totals.
func releaseSeats(tx *gorm.DB, booking *models.Booking) (int64, error) {
	res := tx.
		Model(&models.Seat{}).
		Where("booking_id = ?", booking.ID).
		Updates(map[string]any{
			"status":     types.SEAT_AVAILABLE,
			"booking_id": nil,
			"version":    gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	released := res.RowsAffected
	if released == 0 {
		return 0, nil
	}

	cres := tx.
		Model(&models.Event{}).
		Where("id = ? AND booked_seats >= ?", booking.EventID, released).
		Update("booked_seats", gorm.Expr("booked_seats - ?", released))
	if cres.Error != nil {
		return 0, cres.Error
	}
	if cres.RowsAffected == 0 {
		return 0, types.FatalError("booked seats counter for event %d would underflow by %d", booking.EventID, released)
	}
	log.Printf("Released %d seats for booking %d on event %d\n", released, booking.ID, booking.EventID)
	return released, nil
}

func GetBooking(bookingId uint) (*models.Booking, error) {
	gdb := db.GetDb()
	var booking models.Booking
	if err := gdb.
		Preload("Seats").
		Preload("Event").
		Preload("Payment").
		First(&booking, bookingId).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFoundError("Booking not found with id: %d", bookingId)
		}
		return nil, err
	}
	return &booking, nil
}

func GetBookingsForUser(email string) ([]models.Booking, error) {
	gdb := db.GetDb()
	var user models.User
	if err := gdb.
		Where(&models.User{Email: email}).
		First(&user).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFoundError("User not found with email: %s", email)
		}
		return nil, err
	}
	var bookings []models.Booking
	if err := gdb.
		Where("user_id = ?", user.ID).
		Preload("Seats").
		Preload("Event").
		Order("created_at desc").
		Find(&bookings).
		Error; err != nil {
		return nil, err
	}
	return bookings, nil
}
