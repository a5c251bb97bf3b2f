package boot

import (
	"eventify/src/common"
	"eventify/src/db"
	"eventify/src/lib"
	"eventify/src/models"
	"log"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	gdb := db.GetDb()

	err := gdb.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Seat{},
		&models.Booking{},
		&models.Payment{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return gdb
}

// InitScheduler boots the shared scheduler and registers the booking
// cleanup sweep before starting it.
func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	common.StartBookingCleanupJob()
	sched.Start()
	log.Printf("Scheduler started with %d jobs\n", len(sched.Jobs()))
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	if err := sched.Shutdown(); err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
		return
	}
}
