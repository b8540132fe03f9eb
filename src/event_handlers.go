package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"rsv/src/config"
	"rsv/src/db"
	"rsv/src/lib"
	"rsv/src/models"
	"rsv/src/types"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func eventHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/events", func(ctx *gin.Context) {
			db := db.GetDb()
			model := db.Model(&models.PrivateEvent{})
			if status := ctx.Query("status"); status != "" {
				model = model.Where("status = ?", status)
			}
			var data []models.PrivateEvent
			if err := model.Order("start_time asc").Find(&data).Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": data, "count": len(data)})
		}).
		GET("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			var event models.PrivateEvent
			err := db.
				Where(&models.PrivateEvent{ID: params.ID}).
				Preload("Reservations").
				First(&event).Error
			if err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": event})
		}).
		POST("/events", func(ctx *gin.Context) {
			var body types.CreatePrivateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			start, err := time.Parse(config.TIME_PARSE_FORMAT, body.StartTime)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			end, err := time.Parse(config.TIME_PARSE_FORMAT, body.EndTime)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if !start.Before(end) {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "start must be before end"})
				return
			}
			event := models.PrivateEvent{
				Title:                 body.Title,
				EventType:             body.EventType,
				StartTime:             start,
				EndTime:               end,
				FullDay:               body.FullDay,
				MaxGuests:             body.MaxGuests,
				TotalAttendeesMaximum: body.TotalAttendeesMaximum,
				DepositRequired:       body.DepositRequired,
				RSVPEnabled:           body.RSVPEnabled,
				RequiresTimeSelection: body.RequiresTimeSelection,
				Status:                string(types.PRIVATE_EVENT_ACTIVE),
			}
			db := db.GetDb()
			if err := db.Create(&event).Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			go lib.NotifyReservationsChanged()
			ctx.JSON(http.StatusCreated, gin.H{"data": event})
		}).
		PUT("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.UpdatePrivateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var event models.PrivateEvent
			err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Where(&models.PrivateEvent{ID: params.ID}).First(&event).Error; err != nil {
					return err
				}
				if err := applyPrivateEventPatch(&event, &body); err != nil {
					return err
				}
				if !event.StartTime.Before(event.EndTime) {
					return errors.New("start must be before end")
				}
				return tx.Save(&event).Error
			})
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			go lib.NotifyReservationsChanged()
			ctx.JSON(http.StatusOK, gin.H{"data": event})
		}).
		DELETE("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			// Canceling an event also cancels its attendee reservations and
			// lifts the calendar blocking.
			err := db.Transaction(func(tx *gorm.DB) error {
				err := tx.Model(&models.PrivateEvent{}).
					Where(&models.PrivateEvent{ID: params.ID}).
					Update("status", string(types.PRIVATE_EVENT_CANCELED)).Error
				if err != nil {
					return err
				}
				return tx.Model(&models.Reservation{}).
					Where("private_event_id = ?", params.ID).
					Not("status = ?", string(types.RESERVATION_CANCELED)).
					Update("status", string(types.RESERVATION_CANCELED)).Error
			})
			if err != nil {
				log.Printf("Error canceling private event [%d]: %s\n", params.ID, err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			go lib.NotifyReservationsChanged()
			ctx.Status(http.StatusNoContent)
		})
	return g
}

func applyPrivateEventPatch(event *models.PrivateEvent, body *types.UpdatePrivateEventRequestBody) error {
	if body.Title != nil {
		event.Title = *body.Title
	}
	if body.EventType != nil {
		event.EventType = *body.EventType
	}
	if body.StartTime != nil {
		start, err := time.Parse(config.TIME_PARSE_FORMAT, *body.StartTime)
		if err != nil {
			return err
		}
		event.StartTime = start
	}
	if body.EndTime != nil {
		end, err := time.Parse(config.TIME_PARSE_FORMAT, *body.EndTime)
		if err != nil {
			return err
		}
		event.EndTime = end
	}
	if body.FullDay != nil {
		event.FullDay = *body.FullDay
	}
	if body.MaxGuests != nil {
		event.MaxGuests = *body.MaxGuests
	}
	if body.TotalAttendeesMaximum != nil {
		event.TotalAttendeesMaximum = *body.TotalAttendeesMaximum
	}
	if body.DepositRequired != nil {
		event.DepositRequired = *body.DepositRequired
	}
	if body.RSVPEnabled != nil {
		event.RSVPEnabled = *body.RSVPEnabled
	}
	if body.RequiresTimeSelection != nil {
		event.RequiresTimeSelection = *body.RequiresTimeSelection
	}
	if body.Status != nil {
		event.Status = *body.Status
	}
	return nil
}

func tableHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/tables", func(ctx *gin.Context) {
			db := db.GetDb()
			var data []models.Table
			if err := db.Order("table_number asc").Find(&data).Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": data, "count": len(data)})
		}).
		POST("/tables", func(ctx *gin.Context) {
			var body types.CreateTableRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			table := models.Table{TableNumber: body.TableNumber, Seats: body.Seats}
			db := db.GetDb()
			if err := db.Create(&table).Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": table})
		}).
		DELETE("/tables/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			var upcoming int64
			err := db.Model(&models.Reservation{}).
				Where("table_id = ?", params.ID).
				Not("status = ?", string(types.RESERVATION_CANCELED)).
				Where("end_time > ?", time.Now()).
				Count(&upcoming).Error
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if upcoming > 0 {
				ctx.JSON(http.StatusConflict, gin.H{"error": "table still has upcoming reservations"})
				return
			}
			if err := db.Delete(&models.Table{}, params.ID).Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
