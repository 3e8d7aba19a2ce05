package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"carshow/internal/entities"
	"carshow/internal/service"
)

type AdminHandler struct {
	Service *service.AdminService
	Cars    *service.CarService
}

func NewAdminHandler(svc *service.AdminService, cars *service.CarService) *AdminHandler {
	return &AdminHandler{Service: svc, Cars: cars}
}

func (h *AdminHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	carID, _ := strconv.Atoi(q.Get("car_id"))
	list, err := h.Service.ListReservations(q.Get("date"), q.Get("status"), carID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *AdminHandler) PaymentHistory(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.PaymentHistory()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// CancelReservation cancels on behalf of an admin and refunds any payment
// taken through checkout.
func (h *AdminHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	if _, err := h.Service.CancelReservation(code); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Reservation cancelled"})
}

func (h *AdminHandler) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid reservation id", http.StatusBadRequest)
		return
	}
	if err := h.Service.DeleteReservation(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Reservation deleted"})
}

func (h *AdminHandler) CreateCar(w http.ResponseWriter, r *http.Request) {
	var req entities.SaveCarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	car, err := h.Cars.CreateCar(&req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, car)
}

func (h *AdminHandler) UpdateCar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid car id", http.StatusBadRequest)
		return
	}
	var req entities.SaveCarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	car, err := h.Cars.UpdateCar(id, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}

func (h *AdminHandler) DeleteCar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid car id", http.StatusBadRequest)
		return
	}
	if err := h.Cars.DeleteCar(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Car deleted"})
}
