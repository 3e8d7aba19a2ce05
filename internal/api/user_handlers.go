package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"carshow/internal/entities"
	"carshow/internal/service"
)

type UserReservationHandler struct {
	Service *service.ReservationService
	Cars    *service.CarService
	Stripe  *service.StripeService
}

func NewUserReservationHandler(svc *service.ReservationService, cars *service.CarService, stripe *service.StripeService) *UserReservationHandler {
	return &UserReservationHandler{Service: svc, Cars: cars, Stripe: stripe}
}

func (h *UserReservationHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req entities.AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	resp, err := h.Service.CheckAvailability(&req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *UserReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req entities.CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	resp, err := h.Service.CreateReservation(&req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *UserReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	email := r.URL.Query().Get("email")
	if email == "" {
		http.Error(w, "email required", http.StatusBadRequest)
		return
	}
	resp, err := h.Service.GetReservation(code, email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *UserReservationHandler) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	var req entities.UpdateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	resp, err := h.Service.UpdateReservation(code, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *UserReservationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	if _, err := h.Service.CancelReservation(code); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Reservation cancelled"})
}

func (h *UserReservationHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	var req entities.PaymentConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	resp, err := h.Service.ConfirmPayment(code, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *UserReservationHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	var req entities.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	url, sessionID, err := h.Stripe.Checkout(code, req.PaymentType)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.CheckoutResponse{
		Code:      code,
		URL:       url,
		SessionID: sessionID,
	})
}

// carFilterFromQuery reads the optional catalog filters off the query string.
// Unparseable values are treated as absent.
func carFilterFromQuery(r *http.Request) entities.CarFilter {
	var f entities.CarFilter
	q := r.URL.Query()
	f.CarType = q.Get("car_type")
	f.MinPrice, _ = strconv.ParseFloat(q.Get("min_price"), 64)
	f.MaxPrice, _ = strconv.ParseFloat(q.Get("max_price"), 64)
	f.MinYear, _ = strconv.Atoi(q.Get("min_year"))
	f.MaxYear, _ = strconv.Atoi(q.Get("max_year"))
	return f
}

func (h *UserReservationHandler) ListCars(w http.ResponseWriter, r *http.Request) {
	cars, err := h.Cars.ListCars(carFilterFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cars)
}

func (h *UserReservationHandler) GetCar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid car id", http.StatusBadRequest)
		return
	}
	car, err := h.Cars.GetCar(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}
