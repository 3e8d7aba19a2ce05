package service

import (
	"log"

	"carshow/internal/db"
	"carshow/internal/entities"
	"carshow/internal/repository"
)

// AdminService backs the back-office dashboard: reservation listings,
// payment history, aggregate stats and forced cancellations with refund.
type AdminService struct {
	adminRepo    *repository.AdminRepository
	reservations *ReservationService
	stripe       *StripeService
}

func NewAdminService(adminRepo *repository.AdminRepository, reservations *ReservationService, stripe *StripeService) *AdminService {
	return &AdminService{
		adminRepo:    adminRepo,
		reservations: reservations,
		stripe:       stripe,
	}
}

func (s *AdminService) ListReservations(date, status string, carID int) (*entities.ReservationsList, error) {
	list, err := s.adminRepo.ListReservations(date, status, carID)
	if err != nil {
		return nil, err
	}
	return &entities.ReservationsList{Total: len(list), Reservations: list}, nil
}

func (s *AdminService) PaymentHistory() ([]entities.ReservationResponse, error) {
	return s.adminRepo.PaymentHistory()
}

func (s *AdminService) Stats() (*entities.StatsResponse, error) {
	return s.adminRepo.Stats()
}

// CancelReservation cancels on behalf of an admin. If the reservation was
// paid through a checkout session the payment is refunded; a failed refund is
// logged but does not undo the cancellation.
func (s *AdminService) CancelReservation(code string) (*db.Reservation, error) {
	res, err := s.reservations.CancelReservation(code)
	if err != nil {
		return nil, err
	}
	if res.PaymentReference != "" && res.AmountPaidCents > 0 {
		if err := s.stripe.RefundPaymentBySessionID(res.PaymentReference); err != nil {
			log.Printf("Refund for reservation %s (session %s) failed: %v", code, res.PaymentReference, err)
		}
	}
	return res, nil
}

func (s *AdminService) DeleteReservation(id int) error {
	return s.adminRepo.DeleteReservation(id)
}
