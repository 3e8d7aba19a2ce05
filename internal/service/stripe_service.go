package service

import (
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/checkout/session"
	"github.com/stripe/stripe-go/v78/refund"

	"carshow/internal/booking"
)

const (
	defaultSuccessURL = "http://localhost:3000/reservations/confirmation/?session_id={CHECKOUT_SESSION_ID}"
	defaultCancelURL  = "http://localhost:3000/reservations/failed/?session_id={CHECKOUT_SESSION_ID}"
)

// StripeService creates hosted checkout sessions for a reservation's
// outstanding amount and refunds completed sessions. The session carries the
// reservation code and payment type in its metadata so the webhook can
// confirm the right payment.
type StripeService struct {
	store      ReservationStore
	successURL string
	cancelURL  string
}

func NewStripeService(store ReservationStore) *StripeService {
	successURL := os.Getenv("CHECKOUT_SUCCESS_URL")
	if successURL == "" {
		successURL = defaultSuccessURL
	}
	cancelURL := os.Getenv("CHECKOUT_CANCEL_URL")
	if cancelURL == "" {
		cancelURL = defaultCancelURL
	}
	return &StripeService{store: store, successURL: successURL, cancelURL: cancelURL}
}

// Checkout opens a checkout session for the amount the reservation still
// requires: the rounded-up half for a half payment, the outstanding balance
// for a full one.
func (s *StripeService) Checkout(code, paymentType string) (string, string, error) {
	res, err := s.store.GetByCode(code)
	if err != nil {
		return "", "", err
	}
	amountCents, err := booking.RequiredCents(res, paymentType)
	if err != nil {
		return "", "", err
	}
	user, err := s.store.GetUser(res.UserID)
	if err != nil {
		return "", "", err
	}
	description := fmt.Sprintf("Car rental reservation %s (%s payment)", code, paymentType)
	return s.createCheckoutSession(amountCents, "usd", description, user.Email, code, paymentType)
}

func (s *StripeService) createCheckoutSession(amountCents int64, currency, description, customerEmail, code, paymentType string) (string, string, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(description),
					},
					UnitAmount: stripe.Int64(amountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:    stripe.String(s.successURL),
		CancelURL:     stripe.String(s.cancelURL),
		CustomerEmail: stripe.String(customerEmail),
	}
	params.AddMetadata("reservation_code", code)
	params.AddMetadata("payment_type", paymentType)
	params.SetIdempotencyKey(uuid.NewString())

	sess, err := session.New(params)
	if err != nil {
		return "", "", err
	}
	log.Printf("Checkout session %s opened for reservation %s", sess.ID, code)
	return sess.URL, sess.ID, nil
}

// RefundPaymentBySessionID refunds the payment behind a checkout session.
// Used when an admin cancels a paid reservation.
func (s *StripeService) RefundPaymentBySessionID(sessionID string) error {
	sess, err := session.Get(sessionID, nil)
	if err != nil {
		return err
	}
	if sess.PaymentIntent == nil || sess.PaymentIntent.ID == "" {
		return fmt.Errorf("no payment intent found for session %s", sessionID)
	}
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(sess.PaymentIntent.ID),
	}
	params.SetIdempotencyKey(uuid.NewString())
	_, err = refund.New(params)
	return err
}
