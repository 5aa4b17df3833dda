package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
)

const GatewayStripe = "Stripe"

type intentCreator interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

type setupCreator interface {
	New(params *stripe.SetupIntentParams) (*stripe.SetupIntent, error)
}

// Stripe is the gateway adapter. The client token is a SetupIntent client
// secret; the nonce is the PaymentMethod id the browser obtained with it.
type Stripe struct {
	intents intentCreator
	setups  setupCreator
	account string
}

type StripeConfig struct {
	Environment string // sandbox | production
	SecretKey   string
	AccountID   string // connected account, optional
}

func NewStripe(cfg StripeConfig) (*Stripe, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("stripe: secret key is empty")
	}
	live := strings.HasPrefix(cfg.SecretKey, "sk_live_") || strings.HasPrefix(cfg.SecretKey, "rk_live_")
	if live != (cfg.Environment == "production") {
		return nil, fmt.Errorf("stripe: key does not match %s environment", cfg.Environment)
	}

	api := client.New(cfg.SecretKey, nil)
	return &Stripe{intents: api.PaymentIntents, setups: api.SetupIntents, account: cfg.AccountID}, nil
}

func (s *Stripe) Name() string { return GatewayStripe }

func (s *Stripe) IssueClientToken(ctx context.Context) (string, error) {
	params := &stripe.SetupIntentParams{}
	params.Context = ctx
	if s.account != "" {
		params.SetStripeAccount(s.account)
	}

	si, err := s.setups.New(params)
	if err != nil {
		return "", &GatewayError{Detail: err.Error(), Raw: errRaw(stripeErr(err)), Err: err}
	}
	if si == nil || si.ClientSecret == "" {
		return "", &GatewayError{Detail: "no client token returned"}
	}
	return si.ClientSecret, nil
}

func (s *Stripe) SubmitSale(ctx context.Context, sale Sale) (Result, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(MinorUnits(sale.Amount, sale.Currency)),
		Currency:      stripe.String(strings.ToLower(sale.Currency.String())),
		Confirm:       stripe.Bool(true),
		CaptureMethod: stripe.String(string(stripe.PaymentIntentCaptureMethodAutomatic)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	if sale.Nonce != "" {
		params.PaymentMethod = stripe.String(sale.Nonce)
	}
	params.Context = ctx
	if sale.IdempotencyKey != "" {
		params.SetIdempotencyKey(sale.IdempotencyKey)
	}
	if s.account != "" {
		params.SetStripeAccount(s.account)
	}

	pi, err := s.intents.New(params)
	if err != nil {
		se := stripeErr(err)
		// card_error: the processor ran the charge and declined it
		if se != nil && se.Type == stripe.ErrorTypeCard {
			res := Result{Success: false, Raw: rawJSON(se)}
			if se.PaymentIntent != nil {
				res.TransactionID = se.PaymentIntent.ID
			}
			return res, nil
		}
		return Result{}, &GatewayError{Detail: err.Error(), Raw: errRaw(se), Err: err}
	}
	if pi == nil {
		return Result{}, &GatewayError{Detail: "no result returned"}
	}

	return Result{
		Success:       pi.Status == stripe.PaymentIntentStatusSucceeded,
		TransactionID: pi.ID,
		Raw:           rawJSON(pi),
	}, nil
}

func stripeErr(err error) *stripe.Error {
	var se *stripe.Error
	if errors.As(err, &se) {
		return se
	}
	return nil
}

func errRaw(se *stripe.Error) json.RawMessage {
	if se == nil {
		return nil
	}
	return rawJSON(se)
}
