package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"rsv/src/common"
	"rsv/src/config"
	"rsv/src/db"
	"rsv/src/models"
	"rsv/src/types"
	"rsv/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// availabilityHandlers serves the booking form: slot computation and the
// first-bookable-date scan. These stay public so guests can book without an
// account.
func availabilityHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/availability/times", func(ctx *gin.Context) {
			var body types.AvailableTimesRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			loc := models.VenueLocation(db)
			window := models.GetBookingWindow(db, loc)
			if !utils.DateWithinWindow(body.Date, window) {
				ctx.JSON(http.StatusOK, gin.H{"date": body.Date, "slots": []string{}})
				return
			}
			slots, err := utils.AvailableTimesForDate(db, body.Date, body.PartySize, loc)
			if err != nil {
				log.Printf("Error computing available times for %s: %s\n", body.Date, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"date": body.Date, "slots": slots})
		}).
		GET("/availability/first_date", func(ctx *gin.Context) {
			db := db.GetDb()
			loc := models.VenueLocation(db)
			window := models.GetBookingWindow(db, loc)
			start := ctx.DefaultQuery("start", time.Now().In(loc).Format(config.DATE_FORMAT))
			if start < window.StartDate {
				start = window.StartDate
			}
			rules, err := utils.LoadAvailabilityRules(db, window, loc)
			if err != nil {
				log.Printf("Error loading availability rules: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
				return
			}
			date, found, err := common.FirstBookableDate(start, rules, loc, config.MAX_SCAN_DAYS)
			if errors.Is(err, common.ErrRulesNotLoaded) {
				// No hours configured yet; nothing is bookable.
				ctx.JSON(http.StatusOK, gin.H{"date": start, "found": false, "exhausted": false})
				return
			}
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"date": date, "found": found, "exhausted": !found})
		})
	return g
}

// hoursHandlers is the staff surface for the availability store: base weekly
// hours plus date exceptions.
func hoursHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/hours", func(ctx *gin.Context) {
			db := db.GetDb()
			var hours []models.VenueHour
			if err := db.Order("weekday asc").Find(&hours).Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": hours, "count": len(hours)})
		}).
		PUT("/hours", func(ctx *gin.Context) {
			var body types.SaveHoursRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := validateWeekdayHours(body.Days); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			// Saving replaces the whole weekly schedule. Disabled weekdays
			// simply have no row.
			err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Where("1 = 1").Delete(&models.VenueHour{}).Error; err != nil {
					return err
				}
				for _, day := range body.Days {
					row := models.VenueHour{Weekday: day.Weekday, Ranges: day.Ranges}
					if err := tx.Create(&row).Error; err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				log.Printf("Error saving weekly hours: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		GET("/exceptions", func(ctx *gin.Context) {
			db := db.GetDb()
			var opens []models.ExceptionalOpen
			if err := db.Order("date asc").Find(&opens).Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var closures []models.ExceptionalClosure
			if err := db.Order("date asc").Find(&closures).Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"opens": opens, "closures": closures})
		}).
		POST("/exceptions/opens", func(ctx *gin.Context) {
			var body types.CreateExceptionalOpenRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := validateRanges(body.Ranges); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			open := models.ExceptionalOpen{Date: body.Date, Ranges: body.Ranges, Label: body.Label}
			// A date cannot be an exceptional open and a closure at once;
			// the check and the insert share one transaction.
			err := db.Transaction(func(tx *gorm.DB) error {
				var count int64
				if err := tx.Model(&models.ExceptionalClosure{}).Where("date = ?", body.Date).Count(&count).Error; err != nil {
					return err
				}
				if count > 0 {
					return errDateAlreadyClosed
				}
				return tx.Create(&open).Error
			})
			if errors.Is(err, errDateAlreadyClosed) {
				ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": open})
		}).
		DELETE("/exceptions/opens/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			if err := db.Delete(&models.ExceptionalOpen{}, params.ID).Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		POST("/exceptions/closures", func(ctx *gin.Context) {
			var body types.CreateClosureRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if !body.FullDay && len(body.Ranges) == 0 {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "a partial closure needs at least one time range"})
				return
			}
			if err := validateRanges(body.Ranges); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			closure := models.ExceptionalClosure{Date: body.Date, Reason: body.Reason, FullDay: body.FullDay, Ranges: body.Ranges}
			err := db.Transaction(func(tx *gorm.DB) error {
				var count int64
				if err := tx.Model(&models.ExceptionalOpen{}).Where("date = ?", body.Date).Count(&count).Error; err != nil {
					return err
				}
				if count > 0 {
					return errDateAlreadyOpen
				}
				return tx.Create(&closure).Error
			})
			if errors.Is(err, errDateAlreadyOpen) {
				ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": closure})
		}).
		DELETE("/exceptions/closures/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			if err := db.Delete(&models.ExceptionalClosure{}, params.ID).Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}

var (
	errDateAlreadyClosed = errors.New("date already has a closure")
	errDateAlreadyOpen   = errors.New("date already has an exceptional open")
)

func validateRanges(ranges types.TimeRanges) error {
	for _, r := range ranges {
		start, err := time.Parse(config.TIME_FORMAT, r.Start)
		if err != nil {
			return err
		}
		end, err := time.Parse(config.TIME_FORMAT, r.End)
		if err != nil {
			return err
		}
		if !start.Before(end) {
			return errors.New("range start must be before range end")
		}
	}
	return nil
}

func validateWeekdayHours(days []types.WeekdayHours) error {
	seen := map[int]bool{}
	for _, day := range days {
		if seen[day.Weekday] {
			return errors.New("duplicate weekday in schedule")
		}
		seen[day.Weekday] = true
		if err := validateRanges(day.Ranges); err != nil {
			return err
		}
	}
	return nil
}
