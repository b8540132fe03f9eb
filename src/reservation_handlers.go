package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"rsv/src/common"
	"rsv/src/config"
	"rsv/src/db"
	"rsv/src/lib"
	"rsv/src/models"
	"rsv/src/types"
	"rsv/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"
)

var errSlotTaken = errors.New("requested time is no longer available")

// publicReservationHandlers takes website bookings from guests. Everything
// here runs without authentication.
func publicReservationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/reservations", func(ctx *gin.Context) {
			var body types.CreateReservationRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if body.MemberID == nil && (body.FirstName == "" || body.LastName == "" || body.Email == "") {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "name and email are required"})
				return
			}
			db := db.GetDb()
			loc := models.VenueLocation(db)
			window := models.GetBookingWindow(db, loc)
			if !utils.DateWithinWindow(body.Date, window) {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "date is outside the booking window"})
				return
			}
			rules, err := utils.LoadAvailabilityRules(db, window, loc)
			if err != nil {
				log.Printf("Error loading availability rules: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
				return
			}
			bookable, err := common.IsDateBookable(body.Date, rules, loc)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if !bookable {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "venue is not taking reservations on this date"})
				return
			}

			hf := models.GetHoldFeeConfig(db)
			holdStatus := types.HOLD_NONE
			if hf.Enabled && body.MemberID == nil {
				if body.PaymentIntentID == nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": "a confirmed hold fee is required"})
					return
				}
				pi, err := lib.RetrievePaymentIntent(*body.PaymentIntentID)
				if err != nil {
					log.Printf("Error retrieving payment intent [%s]: %s\n", *body.PaymentIntentID, err.Error())
					ctx.JSON(http.StatusBadRequest, gin.H{"error": "could not verify the hold fee"})
					return
				}
				if pi.Status != stripe.PaymentIntentStatusRequiresCapture {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": "hold fee has not been authorized"})
					return
				}
				holdStatus = types.HOLD_AUTHORIZED
			}

			source := body.Source
			if source == "" {
				source = string(types.SOURCE_WEBSITE)
			}
			reservation := models.Reservation{
				FirstName:       body.FirstName,
				LastName:        body.LastName,
				Phone:           body.Phone,
				Email:           body.Email,
				PartySize:       body.PartySize,
				EventType:       body.EventType,
				Notes:           body.Notes,
				MemberID:        body.MemberID,
				Status:          string(types.RESERVATION_CONFIRMED),
				Source:          source,
				HoldStatus:      string(holdStatus),
				PaymentIntentId: body.PaymentIntentID,
			}

			var alternatives types.AlternativeTimes
			err = db.Transaction(func(tx *gorm.DB) error {
				slots, err := utils.AvailableTimesForDate(tx, body.Date, body.PartySize, loc)
				if err != nil {
					return err
				}
				available := false
				for _, s := range slots {
					if s == body.Time {
						available = true
						break
					}
				}
				if !available {
					alternatives = common.AlternativeTimes(body.Time, slots)
					return errSlotTaken
				}
				start, err := common.TimeOnDate(body.Date, body.Time, loc)
				if err != nil {
					return err
				}
				reservation.StartTime = start
				reservation.EndTime = common.ReservationEnd(start, body.PartySize)
				slot := common.Window{Start: reservation.StartTime, End: reservation.EndTime}

				if body.TableID != nil {
					free, err := utils.TableFreeForWindow(tx, *body.TableID, slot, 0)
					if err != nil {
						return err
					}
					if !free {
						alternatives = common.AlternativeTimes(body.Time, slots)
						return errSlotTaken
					}
					reservation.TableID = body.TableID
				} else {
					tableID, err := utils.AssignTable(tx, slot, body.PartySize, 0, loc)
					if err != nil {
						return err
					}
					if tableID == nil {
						alternatives = common.AlternativeTimes(body.Time, slots)
						return errSlotTaken
					}
					reservation.TableID = tableID
				}
				return tx.Create(&reservation).Error
			})
			if errors.Is(err, errSlotTaken) {
				ctx.JSON(http.StatusConflict, gin.H{"error": err.Error(), "alternative_times": alternatives})
				return
			}
			if err != nil {
				log.Printf("Error creating reservation: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			go notifyReservationCreated(&reservation, loc)
			ctx.JSON(http.StatusCreated, gin.H{"data": reservation})
		})
	return g
}

// notifyReservationCreated handles the after-commit side effects. All of them
// are non-fatal; the reservation stands even when every notification fails.
func notifyReservationCreated(res *models.Reservation, loc *time.Location) {
	if res.Email != "" {
		when := res.StartTime.In(loc)
		body := fmt.Sprintf(
			"Hi %s,\n\nYour reservation for %d on %s at %s is confirmed.\n\nSee you soon!",
			res.FirstName, res.PartySize, when.Format("Monday, January 2"), when.Format(config.TIME_FORMAT),
		)
		err := lib.SendMail(&lib.SendMailInput{
			From:     os.Getenv("SMTP_FROM"),
			FromName: os.Getenv("SMTP_FROM_NAME"),
			To:       []string{res.Email},
			Subject:  "Reservation confirmed",
			Body:     body,
		})
		if err != nil {
			log.Printf("Error sending confirmation email for reservation [%d]: %s\n", res.ID, err.Error())
		}
	}
	if res.Phone != "" {
		lib.ScheduleReservationReminder(
			res.Phone,
			res.StartTime,
			fmt.Sprintf("Reminder: your reservation is at %s today.", res.StartTime.In(loc).Format(config.TIME_FORMAT)),
			2*time.Hour,
		)
	}
	lib.NotifyReservationsChanged()
}

func reservationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/reservations", func(ctx *gin.Context) {
			db := db.GetDb()
			loc := models.VenueLocation(db)
			date := ctx.Query("date")
			model := db.Model(&models.Reservation{}).
				Preload("Table").
				Preload("Member").
				Preload("PrivateEvent")
			if date != "" {
				day, err := common.DayWindow(date, loc)
				if err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				model = model.Where("end_time > ? AND start_time < ?", day.Start, day.End)
			}
			var data []models.Reservation
			if err := model.Order("start_time asc").Find(&data).Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": data, "count": len(data)})
		}).
		GET("/reservations/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			var reservation models.Reservation
			err := db.
				Model(&models.Reservation{}).
				Where(&models.Reservation{ID: params.ID}).
				Preload("Table").
				Preload("Member").
				Preload("PrivateEvent").
				First(&reservation).Error
			if err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": reservation})
		}).
		PUT("/reservations/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.UpdateReservationRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			loc := models.VenueLocation(db)

			var reservation models.Reservation
			var alternatives types.AlternativeTimes
			err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Where(&models.Reservation{ID: params.ID}).First(&reservation).Error; err != nil {
					return err
				}
				applyReservationPatch(&reservation, &body)

				reschedule := body.Date != nil || body.Time != nil || body.PartySize != nil || body.TableID != nil
				if reschedule {
					date := reservation.StartTime.In(loc).Format(config.DATE_FORMAT)
					if body.Date != nil {
						date = *body.Date
					}
					hhmm := reservation.StartTime.In(loc).Format(config.TIME_FORMAT)
					if body.Time != nil {
						hhmm = *body.Time
					}
					start, err := common.TimeOnDate(date, hhmm, loc)
					if err != nil {
						return err
					}
					reservation.StartTime = start
					reservation.EndTime = common.ReservationEnd(start, reservation.PartySize)
					slot := common.Window{Start: reservation.StartTime, End: reservation.EndTime}

					tableID := reservation.TableID
					if body.TableID != nil {
						tableID = body.TableID
					}
					if tableID != nil {
						free, err := utils.TableFreeForWindow(tx, *tableID, slot, reservation.ID)
						if err != nil {
							return err
						}
						if !free {
							slots, err := utils.AvailableTimesForDate(tx, date, reservation.PartySize, loc)
							if err != nil {
								return err
							}
							alternatives = common.AlternativeTimes(hhmm, slots)
							return errSlotTaken
						}
						reservation.TableID = tableID
					}
				}
				return tx.Save(&reservation).Error
			})
			if errors.Is(err, errSlotTaken) {
				ctx.JSON(http.StatusConflict, gin.H{"error": err.Error(), "alternative_times": alternatives})
				return
			}
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			if body.NotifySMS && reservation.Phone != "" {
				message := body.SMSMessage
				if message == "" {
					message = utils.ConfirmationSMSBody(&reservation, loc)
				}
				go func() {
					if err := lib.SendSMS(reservation.Phone, message); err != nil {
						log.Printf("Error sending update SMS for reservation [%d]: %s\n", reservation.ID, err.Error())
					}
				}()
			}
			go lib.NotifyReservationsChanged()
			ctx.JSON(http.StatusOK, gin.H{"data": reservation})
		}).
		PUT("/reservations/:id/checkin", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			err := db.Model(&models.Reservation{}).
				Where(&models.Reservation{ID: params.ID}).
				Update("checked_in", true).Error
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			go lib.NotifyReservationsChanged()
			ctx.Status(http.StatusNoContent)
		}).
		DELETE("/reservations/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			var reservation models.Reservation
			if err := db.Where(&models.Reservation{ID: params.ID}).First(&reservation).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
				return
			}
			updates := map[string]any{"status": string(types.RESERVATION_CANCELED)}
			if reservation.HoldStatus == string(types.HOLD_AUTHORIZED) && reservation.PaymentIntentId != nil {
				if err := lib.CancelHoldFeeIntent(*reservation.PaymentIntentId); err != nil {
					log.Printf("Error releasing hold for reservation [%d]: %s\n", reservation.ID, err.Error())
				} else {
					updates["hold_status"] = string(types.HOLD_RELEASED)
				}
			}
			if err := db.Model(&reservation).Updates(updates).Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			go lib.NotifyReservationsChanged()
			ctx.Status(http.StatusNoContent)
		})
	return g
}

func applyReservationPatch(res *models.Reservation, body *types.UpdateReservationRequestBody) {
	if body.FirstName != nil {
		res.FirstName = *body.FirstName
	}
	if body.LastName != nil {
		res.LastName = *body.LastName
	}
	if body.Phone != nil {
		res.Phone = *body.Phone
	}
	if body.Email != nil {
		res.Email = *body.Email
	}
	if body.PartySize != nil {
		res.PartySize = *body.PartySize
	}
	if body.EventType != nil {
		res.EventType = *body.EventType
	}
	if body.Notes != nil {
		res.Notes = *body.Notes
	}
	if body.Status != nil {
		res.Status = *body.Status
	}
}

