package mailer

import (
	"eventify/src/lib"
	"eventify/src/models"
	"fmt"
	"log"
	"os"

	"github.com/wneessen/go-mail"
)

// Notifications are fire-and-forget: callers run these in a goroutine and
// every failure is logged, never propagated back into the transaction that
// triggered it.

func SendBookingConfirmation(booking *models.Booking) {
	if booking.User == nil || booking.Event == nil {
		log.Printf("Skipping confirmation email for booking %d: user or event not loaded\n", booking.ID)
		return
	}
	subject := "Booking Confirmation - Your Eventify Ticket"
	body := fmt.Sprintf(
		"Dear %s,\n\nThank you for your booking with Eventify!\n\nHere are your booking details:\nBooking ID: %d\nEvent: %s\nVenue: %s\nDate: %s\nTotal Amount Paid: $%.2f\n\nWe look forward to seeing you there!\n\nBest regards,\nThe Eventify Team",
		booking.User.Name,
		booking.ID,
		booking.Event.Name,
		booking.Event.Venue,
		booking.Event.EventTimestamp.Format("2006-01-02"),
		booking.TotalAmount,
	)
	if err := send(booking.User.Email, subject, body); err != nil {
		log.Printf("Failed to send booking confirmation email to %s: %s\n", booking.User.Email, err.Error())
		return
	}
	log.Printf("Booking confirmation email sent to %s\n", booking.User.Email)
}

func SendPaymentFailed(booking *models.Booking) {
	if booking.User == nil || booking.Event == nil {
		log.Printf("Skipping payment failure email for booking %d: user or event not loaded\n", booking.ID)
		return
	}
	subject := "Payment Failed for Your Eventify Booking"
	body := fmt.Sprintf(
		"Dear %s,\n\nWe're sorry, but the payment for your booking for the event '%s' has failed.\n\nBooking ID: %d\nUnfortunately, your booking has been cancelled, and the seats have been released. Please try booking again.\n\nIf you believe this is an error, please contact our support team.\n\nBest regards,\nThe Eventify Team",
		booking.User.Name,
		booking.Event.Name,
		booking.ID,
	)
	if err := send(booking.User.Email, subject, body); err != nil {
		log.Printf("Failed to send payment failure email to %s: %s\n", booking.User.Email, err.Error())
		return
	}
	log.Printf("Payment failure email sent to %s\n", booking.User.Email)
}

func send(to, subject, body string) error {
	from := os.Getenv("SMTP_FROM")
	if os.Getenv("SMTP_HOST") == "" {
		return fmt.Errorf("smtp is not configured")
	}
	client, err := lib.GetSMTPClient()
	if err != nil {
		return err
	}
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	return client.DialAndSend(msg)
}
