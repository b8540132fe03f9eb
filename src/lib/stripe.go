package lib

import (
	"context"
	"os"

	"github.com/stripe/stripe-go/v82"
)

var stripeClient *stripe.Client

func GetStripeClient() *stripe.Client {
	if stripeClient != nil {
		return stripeClient
	}
	apiKey := os.Getenv("STRIPE_SECRET_KEY")
	sc := stripe.NewClient(apiKey)
	stripeClient = sc

	return sc
}

func NewStripeClient(c *stripe.Client) {
	stripeClient = c
}

// CreateHoldFeeIntent authorizes a card hold without capturing it. The
// client_secret goes back to the booking form for confirmation.
func CreateHoldFeeIntent(amount int64, currency, email, requestId string) (*stripe.PaymentIntent, error) {
	sc := GetStripeClient()
	params := stripe.PaymentIntentCreateParams{
		Amount:        stripe.Int64(amount),
		Currency:      stripe.String(currency),
		CaptureMethod: stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
		ReceiptEmail:  stripe.String(email),
		Metadata: map[string]string{
			"requestId": requestId,
		},
	}
	return sc.V1PaymentIntents.Create(context.Background(), &params)
}

// RetrievePaymentIntent fetches the current state of a hold so reservation
// creation can verify the tokenization actually happened.
func RetrievePaymentIntent(id string) (*stripe.PaymentIntent, error) {
	sc := GetStripeClient()
	return sc.V1PaymentIntents.Retrieve(context.Background(), id, nil)
}

// CancelHoldFeeIntent releases an uncaptured hold, e.g. when the reservation
// is canceled or honored.
func CancelHoldFeeIntent(id string) error {
	sc := GetStripeClient()
	_, err := sc.V1PaymentIntents.Cancel(context.Background(), id, nil)
	return err
}
