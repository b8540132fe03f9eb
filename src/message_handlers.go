package main

import (
	"net/http"

	"rsv/src/db"
	"rsv/src/lib"
	"rsv/src/models"
	"rsv/src/types"

	"github.com/gin-gonic/gin"
)

// messageHandlers sends one-off texts to guests, either by reservation or by
// raw phone number.
func messageHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/messages", func(ctx *gin.Context) {
			var body types.SendMessageRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			phone := body.Phone
			if body.ReservationID != nil {
				db := db.GetDb()
				var reservation models.Reservation
				if err := db.Where(&models.Reservation{ID: *body.ReservationID}).First(&reservation).Error; err != nil {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
					return
				}
				phone = reservation.Phone
			}
			if phone == "" {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "no phone number to send to"})
				return
			}
			if err := lib.SendSMS(phone, body.Body); err != nil {
				ctx.JSON(http.StatusBadGateway, gin.H{"error": "message could not be sent"})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
