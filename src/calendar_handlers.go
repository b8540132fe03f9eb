package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"rsv/src/common"
	"rsv/src/config"
	"rsv/src/db"
	"rsv/src/lib"
	"rsv/src/models"
	"rsv/src/types"
	"rsv/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	errMoveConflict = errors.New("the target slot is already taken")
	errMoveBlocked  = errors.New("the target slot is blocked by a private event")
)

func calendarHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/calendar", func(ctx *gin.Context) {
			db := db.GetDb()
			loc := models.VenueLocation(db)
			date := ctx.DefaultQuery("date", time.Now().In(loc).Format(config.DATE_FORMAT))
			day, err := common.DayWindow(date, loc)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			var tables []models.Table
			if err := db.Order("table_number asc").Find(&tables).Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var reservations []models.Reservation
			err = db.
				Where("end_time > ? AND start_time < ?", day.Start, day.End).
				Find(&reservations).Error
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var privateEvents []models.PrivateEvent
			err = db.
				Where("end_time > ? AND start_time < ?", day.Start, day.End).
				Find(&privateEvents).Error
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			// Attendee reservations can reference an event that started on an
			// earlier day, so resolve their events too.
			privateEvents, err = withReferencedEvents(db, privateEvents, reservations)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			hasEvent, err := common.HasActiveEventOn(date, privateEvents, loc)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			events, err := common.BuildCalendarEvents(date, loc, reservations, privateEvents, tables)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"date":      date,
				"resources": common.BuildCalendarResources(tables, hasEvent),
				"events":    events,
			})
		}).
		PATCH("/calendar/events/:id", func(ctx *gin.Context) {
			id := ctx.Params.ByName("id")
			// Synthetic private-event holds absorb no gestures; reject before
			// touching the database.
			if common.IsBlockingEventID(id) {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "blocking events cannot be moved"})
				return
			}
			resID, ok := common.ParseReservationEventID(id)
			if !ok {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "unknown calendar event"})
				return
			}
			var body types.MoveCalendarEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if body.StartTime == nil && body.EndTime == nil && body.TableID == nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
				return
			}

			db := db.GetDb()
			loc := models.VenueLocation(db)
			var reservation models.Reservation
			err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Where(&models.Reservation{ID: resID}).First(&reservation).Error; err != nil {
					return err
				}
				if reservation.Status == string(types.RESERVATION_CANCELED) {
					return errors.New("canceled reservations cannot be moved")
				}

				duration := reservation.EndTime.Sub(reservation.StartTime)
				start := reservation.StartTime
				end := reservation.EndTime
				if body.StartTime != nil {
					parsed, err := time.Parse(time.RFC3339, *body.StartTime)
					if err != nil {
						return err
					}
					start = parsed
					// A plain drag keeps the duration; a resize supplies its
					// own end below.
					end = start.Add(duration)
				}
				if body.EndTime != nil {
					parsed, err := time.Parse(time.RFC3339, *body.EndTime)
					if err != nil {
						return err
					}
					end = parsed
				}
				if !start.Before(end) {
					return errors.New("start must be before end")
				}
				slot := common.Window{Start: start, End: end}

				tableID := reservation.TableID
				if body.TableID != nil {
					tableID = body.TableID
				}
				if tableID != nil {
					date := start.In(loc).Format(config.DATE_FORMAT)
					blocked, err := utils.BlockedWindowsForDate(tx, date, loc)
					if err != nil {
						return err
					}
					for _, b := range blocked {
						if slot.Overlaps(b) {
							return errMoveBlocked
						}
					}
					free, err := utils.TableFreeForWindow(tx, *tableID, slot, reservation.ID)
					if err != nil {
						return err
					}
					if !free {
						return errMoveConflict
					}
				}

				reservation.StartTime = start
				reservation.EndTime = end
				reservation.TableID = tableID
				return tx.Save(&reservation).Error
			})
			if errors.Is(err, errMoveConflict) || errors.Is(err, errMoveBlocked) {
				// The client reverts the gesture on conflict.
				ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			if err != nil {
				log.Printf("Error moving calendar event [%s]: %s\n", id, err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			go lib.NotifyReservationsChanged()
			ctx.JSON(http.StatusOK, gin.H{"data": reservation})
		})
	return g
}

// withReferencedEvents appends the private events referenced by attendee
// reservations but not already loaded for the day.
func withReferencedEvents(tx *gorm.DB, events []models.PrivateEvent, reservations []models.Reservation) ([]models.PrivateEvent, error) {
	loaded := make(map[uint]bool, len(events))
	for _, ev := range events {
		loaded[ev.ID] = true
	}
	missing := make([]uint, 0)
	for _, res := range reservations {
		if res.PrivateEventID != nil && !loaded[*res.PrivateEventID] {
			loaded[*res.PrivateEventID] = true
			missing = append(missing, *res.PrivateEventID)
		}
	}
	if len(missing) == 0 {
		return events, nil
	}
	var extra []models.PrivateEvent
	if err := tx.Where("id IN ?", missing).Find(&extra).Error; err != nil {
		return nil, err
	}
	return append(events, extra...), nil
}
