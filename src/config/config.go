package config

import (
	"fmt"
	"os"
	"time"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

const TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"

// Booking lifecycle windows. Bookings close 15 minutes before the event
// starts; a PENDING booking holds its seats for 10 minutes before the
// cleanup job reclaims them on its 5 minute cycle.
const (
	BOOKING_CUTOFF_WINDOW      = 15 * time.Minute
	PENDING_BOOKING_EXPIRATION = 10 * time.Minute
	BOOKING_CLEANUP_INTERVAL   = 5 * time.Minute
)

var (
	API_ENV    = os.Getenv("API_ENV")
	API_HOST   = os.Getenv("API_HOST")
	JWT_SECRET = os.Getenv("JWT_SECRET")
)
