package main

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"

	"rsv/src/db"
	"rsv/src/lib"
	"rsv/src/models"
	"rsv/src/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// holdFeeHandlers creates the card hold the booking form confirms before
// submitting a reservation. Public, like the form itself.
func holdFeeHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/reservations/hold_fee", func(ctx *gin.Context) {
			var body types.CreateHoldFeeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			hf := models.GetHoldFeeConfig(db)
			if !hf.Enabled {
				ctx.JSON(http.StatusOK, gin.H{"required": false})
				return
			}
			requestId := uuid.NewString()
			pi, err := lib.CreateHoldFeeIntent(hf.Amount, hf.Currency, body.Email, requestId)
			if err != nil {
				log.Printf("Error creating hold fee intent: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "could not create the hold fee"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"required":      true,
				"amount":        hf.Amount,
				"currency":      hf.Currency,
				"intent_id":     pi.ID,
				"client_secret": pi.ClientSecret,
			})
		})
	return g
}

func stripeWebhookRoute(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.POST("/webhook/stripe", func(ctx *gin.Context) {
		payload, err := io.ReadAll(ctx.Request.Body)
		if err != nil {
			log.Printf("Error reading request body: %s\n", err.Error())
			ctx.Status(http.StatusServiceUnavailable)
			return
		}
		whsecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
		event, err := webhook.ConstructEvent(payload, ctx.GetHeader("Stripe-Signature"), whsecret)
		if err != nil {
			log.Printf("Error verifying webhook signature: %s\n", err.Error())
			ctx.Status(http.StatusBadRequest)
			return
		}
		log.Printf("[StripeEvent] %s\n", event.Type)
		switch event.Type {
		case "payment_intent.amount_capturable_updated":
			// The hold has been authorized on the card.
			if pi := parseIntent(event.Data.Raw); pi != nil {
				updateHoldStatus(pi.ID, types.HOLD_AUTHORIZED)
			}
		case "payment_intent.succeeded":
			if pi := parseIntent(event.Data.Raw); pi != nil {
				updateHoldStatus(pi.ID, types.HOLD_CAPTURED)
			}
		case "payment_intent.canceled":
			if pi := parseIntent(event.Data.Raw); pi != nil {
				updateHoldStatus(pi.ID, types.HOLD_RELEASED)
			}
		}
		ctx.Status(http.StatusOK)
	})
	return apiv1
}

func parseIntent(raw json.RawMessage) *stripe.PaymentIntent {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(raw, &pi); err != nil {
		log.Printf("[Stripe] Error parsing PaymentIntent: %s\n", err.Error())
		return nil
	}
	return &pi
}

func updateHoldStatus(intentId string, status types.HoldStatus) {
	db := db.GetDb()
	err := db.Model(&models.Reservation{}).
		Where("payment_intent_id = ?", intentId).
		Update("hold_status", string(status)).Error
	if err != nil {
		log.Printf("Error updating hold status for intent [%s]: %s\n", intentId, err.Error())
	}
}
