package common

import (
	"eventify/src/config"
	"eventify/src/db"
	"eventify/src/lib"
	"eventify/src/models"
	"eventify/src/types"
	"log"
	"time"
)

// CancelExpiredPendingBookings is the recurring reclamation sweep: any
// booking still PENDING past the expiration window is cancelled through
// the same release path as an explicit cancellation, acting as the system
// so the ownership check does not apply. Each booking is processed on its
// own; one failure never aborts the rest of the batch.
func CancelExpiredPendingBookings() {
	log.Println("Running scheduled job to cancel expired PENDING bookings...")

	cutoff := time.Now().Add(-config.PENDING_BOOKING_EXPIRATION)
	gdb := db.GetDb()
	var expired []models.Booking
	if err := gdb.
		Where("status = ? AND created_at < ?", types.BOOKING_PENDING, cutoff).
		Find(&expired).
		Error; err != nil {
		log.Printf("Error querying expired pending bookings: %s\n", err.Error())
		return
	}

	if len(expired) == 0 {
		log.Println("No expired pending bookings found.")
		return
	}
	log.Printf("Found %d expired pending bookings to cancel.\n", len(expired))

	for _, booking := range expired {
		if _, err := cancelBooking(booking.ID, nil); err != nil {
			log.Printf("Error processing cancellation for booking %d: %s\n", booking.ID, err.Error())
			continue
		}
		log.Printf("Successfully cancelled expired booking %d and reclaimed its seats for event %d.\n", booking.ID, booking.EventID)
	}

	log.Println("Finished processing expired pending bookings.")
}

// StartBookingCleanupJob registers the sweep on the shared scheduler.
func StartBookingCleanupJob() {
	id, err := lib.CreateCronJob(CancelExpiredPendingBookings, config.BOOKING_CLEANUP_INTERVAL)
	if err != nil {
		log.Printf("Error scheduling booking cleanup job: %s\n", err.Error())
		return
	}
	log.Printf("Booking cleanup job scheduled: %s\n", *id)
}
