package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/webhook"

	"carshow/internal/service"
)

// StripeWebhookHandler receives checkout events. A completed session settles
// the payment on the reservation named in the session metadata; the session
// ID becomes the payment reference used for later refunds.
type StripeWebhookHandler struct {
	WebhookSecret      string
	reservationService *service.ReservationService
}

func NewStripeWebhookHandler(webhookSecret string, reservationService *service.ReservationService) *StripeWebhookHandler {
	return &StripeWebhookHandler{
		WebhookSecret:      webhookSecret,
		reservationService: reservationService,
	}
}

func (h *StripeWebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	const maxBodyBytes = int64(65536)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("Error reading webhook body: %v", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	sigHeader := r.Header.Get("Stripe-Signature")
	event, err := webhook.ConstructEvent(payload, sigHeader, h.WebhookSecret)
	if err != nil {
		log.Printf("Webhook signature verification failed: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			log.Printf("Error parsing checkout.session: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		code := sess.Metadata["reservation_code"]
		paymentType := sess.Metadata["payment_type"]
		if sess.ID == "" || code == "" || paymentType == "" {
			log.Printf("checkout.session.completed without reservation metadata")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := h.reservationService.ConfirmCheckout(code, sess.ID, sess.AmountTotal, paymentType); err != nil {
			log.Printf("Could not settle checkout for reservation %s: %v", code, err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	default:
		log.Printf("Unhandled event type: %s", event.Type)
	}

	w.WriteHeader(http.StatusOK)
}
