package common

import (
	"encoding/json"
	"eventify/src/config"
	"eventify/src/db"
	"eventify/src/lib"
	"eventify/src/models"
	"eventify/src/types"
	"eventify/src/utils"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
)

// CreateNewEvent persists the event and generates its full seat grid in
// one transaction.
func CreateNewEvent(params *types.CreateEventRequestBody) (uint, error) {
	datetime, err := time.Parse(config.TIME_PARSE_FORMAT, params.DateTime)
	if err != nil {
		return 0, types.InvalidStateError("Could not parse event date: %s", err.Error())
	}

	gdb := db.GetDb()
	var eventId uint
	err = gdb.Transaction(func(tx *gorm.DB) error {
		var imageURLs *types.JSONBArray
		if len(params.ImageURLs) > 0 {
			arr := make(types.JSONBArray, 0, len(params.ImageURLs))
			for _, u := range params.ImageURLs {
				arr = append(arr, u)
			}
			imageURLs = &arr
		}
		event := models.Event{
			Name:           params.Name,
			Description:    params.Description,
			Venue:          params.Venue,
			EventTimestamp: datetime,
			TotalSeats:     params.TotalSeats,
			SeatsPerRow:    params.SeatsPerRow,
			Category:       params.Category,
			ImageURLs:      imageURLs,
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		seats := utils.GenerateSeats(params.TotalSeats, params.SeatsPerRow, params.SeatPricing)
		for i := range seats {
			seats[i].EventID = event.ID
		}
		if err := tx.CreateInBatches(seats, 500).Error; err != nil {
			return err
		}

		eventId = event.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return eventId, nil
}

// UpdateEvent edits event details. When the seat grid changed the seats
// are rebuilt from scratch, which is refused while any booking exists
// against the event.
func UpdateEvent(eventId uint, params *types.UpdateEventRequestBody) (*models.Event, error) {
	datetime, err := time.Parse(config.TIME_PARSE_FORMAT, params.DateTime)
	if err != nil {
		return nil, types.InvalidStateError("Could not parse event date: %s", err.Error())
	}

	gdb := db.GetDb()
	var event models.Event
	err = gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&event, eventId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NotFoundError("Event not found with id: %d", eventId)
			}
			return err
		}

		rebuild := params.TotalSeats != event.TotalSeats || params.SeatsPerRow != event.SeatsPerRow
		if rebuild {
			var bookingCount int64
			if err := tx.
				Model(&models.Booking{}).
				Where("event_id = ?", event.ID).
				Count(&bookingCount).
				Error; err != nil {
				return err
			}
			if bookingCount > 0 {
				return types.InvalidStateError("Cannot rebuild the seat layout while bookings exist for this event.")
			}
		}

		event.Name = params.Name
		event.Description = params.Description
		event.Venue = params.Venue
		event.EventTimestamp = datetime
		event.TotalSeats = params.TotalSeats
		event.SeatsPerRow = params.SeatsPerRow
		if err := tx.Save(&event).Error; err != nil {
			return err
		}

		if rebuild {
			if err := tx.
				Unscoped().
				Where("event_id = ?", event.ID).
				Delete(&models.Seat{}).
				Error; err != nil {
				return err
			}
			seats := utils.GenerateSeats(params.TotalSeats, params.SeatsPerRow, params.SeatPricing)
			for i := range seats {
				seats[i].EventID = event.ID
			}
			if err := tx.CreateInBatches(seats, 500).Error; err != nil {
				return err
			}
			if err := tx.
				Model(&models.Event{}).
				Where("id = ?", event.ID).
				Update("booked_seats", 0).
				Error; err != nil {
				return err
			}
			event.BookedSeats = 0
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	lib.InvalidateEventCache(event.ID)
	return &event, nil
}

// GetEvent serves an event with its seats, going through the read cache.
func GetEvent(eventId uint) (*models.Event, error) {
	if cached := lib.GetCachedEventJSON(eventId); cached != nil {
		var event models.Event
		if err := json.Unmarshal(cached, &event); err == nil {
			return &event, nil
		}
		log.Printf("Discarding unreadable cache entry for event %d\n", eventId)
	}

	gdb := db.GetDb()
	var event models.Event
	if err := gdb.
		Preload("Seats", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("seats.id asc")
		}).
		First(&event, eventId).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFoundError("Event not found with id: %d", eventId)
		}
		return nil, err
	}
	lib.CacheEventJSON(event.ID, &event)
	return &event, nil
}

func ListEvents(pageNo, pageSize int) ([]models.Event, error) {
	if pageSize <= 0 {
		pageSize = 10
	}
	if pageNo < 0 {
		pageNo = 0
	}
	gdb := db.GetDb()
	var events []models.Event
	if err := gdb.
		Order("created_at desc").
		Limit(pageSize).
		Offset(pageNo * pageSize).
		Find(&events).
		Error; err != nil {
		return nil, err
	}
	return events, nil
}

func ListEventsByVenue(venue string, pageNo, pageSize int) ([]models.Event, error) {
	if pageSize <= 0 {
		pageSize = 10
	}
	if pageNo < 0 {
		pageNo = 0
	}
	gdb := db.GetDb()
	var events []models.Event
	if err := gdb.
		Where("venue LIKE ?", fmt.Sprintf("%%%s%%", venue)).
		Order("created_at desc").
		Limit(pageSize).
		Offset(pageNo * pageSize).
		Find(&events).
		Error; err != nil {
		return nil, err
	}
	return events, nil
}

// DeleteEvent removes the event and its seats. Bookings against the event
// go with it; their payments stay in the ledger.
func DeleteEvent(eventId uint) error {
	gdb := db.GetDb()
	err := gdb.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.First(&event, eventId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NotFoundError("Event not found with id: %d", eventId)
			}
			return err
		}
		if err := tx.
			Unscoped().
			Where("event_id = ?", event.ID).
			Delete(&models.Seat{}).
			Error; err != nil {
			return err
		}
		if err := tx.
			Unscoped().
			Where("event_id = ?", event.ID).
			Delete(&models.Booking{}).
			Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.Event{}, event.ID).Error
	})
	if err != nil {
		return err
	}
	lib.InvalidateEventCache(eventId)
	return nil
}
