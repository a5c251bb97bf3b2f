package utils

import (
	"eventify/src/config"
	"eventify/src/models"
	"eventify/src/types"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// GenerateSeats lays out the seat grid for an event: rows are labeled
// A, B, C... with seats numbered from 1 within each row. Each seat stores
// the price of its row; rows past the end of the pricing list reuse the
// last listed price.
func GenerateSeats(totalSeats, seatsPerRow uint, pricing []float64) []models.Seat {
	if len(pricing) == 0 {
		pricing = []float64{0}
	}
	seats := make([]models.Seat, 0, totalSeats)
	currentRow := 'A'
	currentSeatInRow := uint(1)
	rowIndex := 0
	for i := uint(0); i < totalSeats; i++ {
		price := pricing[len(pricing)-1]
		if rowIndex < len(pricing) {
			price = pricing[rowIndex]
		}
		seats = append(seats, models.Seat{
			SeatNumber: fmt.Sprintf("%c%d", currentRow, currentSeatInRow),
			Price:      price,
			Status:     types.SEAT_AVAILABLE,
			Version:    1,
		})
		currentSeatInRow++
		if currentSeatInRow > seatsPerRow {
			currentSeatInRow = 1
			currentRow++
			rowIndex++
		}
	}
	return seats
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func GenerateJWT(email string, userId uint, role string) (string, error) {
	now := time.Now()
	claims := types.Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userId),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.JWT_SECRET))
}
