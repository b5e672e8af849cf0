package payment

import (
	"context"

	"karya-backend/config"
	"karya-backend/pkg/apperror"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeGateway creates card payment intents. Amounts are minor units
// (paisa), matching Stripe's smallest-currency-unit convention.
type StripeGateway struct {
	api *client.API
}

func NewStripeGateway(cfg *config.Config) *StripeGateway {
	api := &client.API{}
	api.Init(cfg.StripeSecretKey, nil)
	return &StripeGateway{api: api}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (string, string, error) {
	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{
			Context: ctx,
		},
		Amount:   stripe.Int64(amountMinor),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return "", "", apperror.ExternalProvider("failed to create card payment intent", err)
	}
	return intent.ClientSecret, intent.ID, nil
}
