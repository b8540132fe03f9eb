package boot

import (
	"log"
	"time"

	"rsv/src/db"
	"rsv/src/lib"
	"rsv/src/models"
	"rsv/src/types"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.Member{},
		&models.Table{},
		&models.Reservation{},
		&models.PrivateEvent{},
		&models.VenueHour{},
		&models.ExceptionalOpen{},
		&models.ExceptionalClosure{},
		&models.Setting{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	if _, err := lib.CreateCronJob(SweepPastReservations, 30*time.Minute); err != nil {
		log.Printf("Error scheduling reservation sweep: %s\n", err.Error())
	}
	if _, err := lib.CreateCronJob(SweepPastPrivateEvents, time.Hour); err != nil {
		log.Printf("Error scheduling private event sweep: %s\n", err.Error())
	}
	log.Println("Jobs in queue:", len(sched.Jobs()))
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	if err := sched.Shutdown(); err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
	}
}

// SweepPastReservations marks confirmed reservations whose window has fully
// passed as completed. No-shows are set by staff, never inferred here.
func SweepPastReservations() {
	db := db.GetDb()
	err := db.Model(&models.Reservation{}).
		Where("status = ?", string(types.RESERVATION_CONFIRMED)).
		Where("end_time < ?", time.Now()).
		Update("status", string(types.RESERVATION_COMPLETED)).
		Error
	if err != nil {
		log.Printf("Error sweeping past reservations: %s\n", err.Error())
	}
}

func SweepPastPrivateEvents() {
	db := db.GetDb()
	err := db.Model(&models.PrivateEvent{}).
		Where("status = ?", string(types.PRIVATE_EVENT_ACTIVE)).
		Where("end_time < ?", time.Now()).
		Update("status", string(types.PRIVATE_EVENT_COMPLETED)).
		Error
	if err != nil {
		log.Printf("Error sweeping past private events: %s\n", err.Error())
	}
}
