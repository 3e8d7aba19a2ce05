package service

import (
	"fmt"
	"log"
	"time"

	"carshow/internal/booking"
	"carshow/internal/db"
	"carshow/internal/entities"
	apperrors "carshow/internal/errors"
	"carshow/internal/queue"
)

// ReservationStore is the persistence surface the reservation lifecycle
// needs. repository.ReservationRepository implements it against Postgres;
// tests substitute an in-memory fake.
type ReservationStore interface {
	CountOverlapping(carID int, w booking.Window) (int, error)
	CreateReservation(res *db.Reservation) error
	UpdateReservation(res *db.Reservation) error
	GetByCode(code string) (*db.Reservation, error)
	GetDetailByCode(code, email string) (*entities.ReservationResponse, error)
	ConfirmPayment(code, reference string, amountCents int64, paymentType string) (*db.Reservation, error)
	CancelReservation(code string) (*db.Reservation, bool, error)
	NoticeFor(reservationID int) (*entities.ReservationNotice, error)
	GetUser(id int) (*db.User, error)
}

// CarStore is the slice of the car catalog the lifecycle needs.
type CarStore interface {
	GetCar(id int) (*db.Car, error)
}

type ReservationService struct {
	store  ReservationStore
	cars   CarStore
	sender *SenderService
	events *queue.Publisher
	now    func() time.Time
}

func NewReservationService(store ReservationStore, cars CarStore, sender *SenderService, events *queue.Publisher) *ReservationService {
	return &ReservationService{
		store:  store,
		cars:   cars,
		sender: sender,
		events: events,
		now:    time.Now,
	}
}

// CheckAvailability answers how many units of a car are free over the
// requested window. Malformed requests come back as available=false with a
// message rather than an error; only infrastructure failures error out.
func (s *ReservationService) CheckAvailability(req *entities.AvailabilityRequest) (*entities.AvailabilityResponse, error) {
	w, err := booking.NewWindow(req.RateType, req.Start, req.Duration)
	if err != nil {
		return &entities.AvailabilityResponse{
			Available: false,
			Message:   "invalid rate type or duration",
		}, nil
	}
	if req.Start.Before(s.now()) {
		return &entities.AvailabilityResponse{
			Available: false,
			Start:     w.Start,
			End:       w.End,
			Message:   "start time is in the past",
		}, nil
	}

	car, err := s.cars.GetCar(req.CarID)
	if err != nil {
		if err == apperrors.ErrNotFound {
			return &entities.AvailabilityResponse{
				Available: false,
				Message:   "car not found",
			}, nil
		}
		return nil, err
	}

	live, err := s.store.CountOverlapping(car.ID, w)
	if err != nil {
		return nil, err
	}
	units := booking.AvailableUnits(car.TotalUnits, live)
	resp := &entities.AvailabilityResponse{
		Available:      units > 0,
		AvailableUnits: units,
		Start:          w.Start,
		End:            w.End,
	}
	if units == 0 {
		resp.Message = fmt.Sprintf("No units of %s available for the selected dates", car.Label())
	}
	return resp, nil
}

// CreateReservation books a car for a window. The availability check and the
// insert run atomically inside the store; two concurrent requests for the
// last unit cannot both succeed.
func (s *ReservationService) CreateReservation(req *entities.CreateReservationRequest) (*entities.CreateReservationResponse, error) {
	w, err := booking.NewWindow(req.RateType, req.Start, req.Duration)
	if err != nil {
		return nil, err
	}
	if req.Start.Before(s.now()) {
		return nil, apperrors.ErrPastBooking
	}

	status := req.InitialStatus
	if status == "" {
		status = db.StatusPending
	}
	if !booking.ValidInitialStatus(status) {
		return nil, apperrors.ErrInvalidWindow
	}

	car, err := s.cars.GetCar(req.CarID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetUser(req.UserID); err != nil {
		return nil, err
	}

	total, err := booking.Quote(car, req.RateType, req.Duration)
	if err != nil {
		return nil, err
	}

	res := &db.Reservation{
		Code:            newReservationCode(),
		CarID:           req.CarID,
		UserID:          req.UserID,
		RateType:        req.RateType,
		StartTime:       w.Start,
		EndTime:         w.End,
		Status:          status,
		TotalPriceCents: total,
		AmountPaidCents: booking.AmountPaidFor(status, total),
	}
	if err := s.store.CreateReservation(res); err != nil {
		return nil, err
	}

	s.publish(res, car.Label())
	log.Printf("Reservation %s created for car %d (%s)", res.Code, res.CarID, res.Status)
	return &entities.CreateReservationResponse{
		ReservationCode: res.Code,
		TotalPrice:      float64(total) / 100,
		Status:          res.Status,
		Message:         "Reservation created successfully",
	}, nil
}

// GetReservation returns the customer-facing view; the email must match the
// reservation holder's or the lookup reports not found.
func (s *ReservationService) GetReservation(code, email string) (*entities.ReservationResponse, error) {
	return s.store.GetDetailByCode(code, email)
}

// UpdateReservation moves an existing reservation to a new car, rate type or
// window. Fields left zero in the request keep their current value; the price
// is re-quoted and the amount paid re-derived for the current status.
func (s *ReservationService) UpdateReservation(code string, req *entities.UpdateReservationRequest) (*entities.ReservationResponse, error) {
	res, err := s.store.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if booking.IsTerminal(res.Status) {
		return nil, booking.ErrAlreadyCompleted
	}

	carID := res.CarID
	if req.CarID != 0 {
		carID = req.CarID
	}
	rateType := res.RateType
	if req.RateType != "" {
		rateType = req.RateType
	}
	start := res.StartTime
	if !req.Start.IsZero() {
		start = req.Start
	}
	duration := req.Duration
	if duration == 0 {
		duration = booking.DurationUnits(res.RateType, booking.Window{Start: res.StartTime, End: res.EndTime})
	}

	w, err := booking.NewWindow(rateType, start, duration)
	if err != nil {
		return nil, err
	}
	if start.Before(s.now()) {
		return nil, apperrors.ErrPastBooking
	}

	car, err := s.cars.GetCar(carID)
	if err != nil {
		return nil, err
	}
	total, err := booking.Quote(car, rateType, duration)
	if err != nil {
		return nil, err
	}

	res.CarID = carID
	res.RateType = rateType
	res.StartTime = w.Start
	res.EndTime = w.End
	res.TotalPriceCents = total
	res.AmountPaidCents = booking.AmountPaidFor(res.Status, total)
	if err := s.store.UpdateReservation(res); err != nil {
		return nil, err
	}

	log.Printf("Reservation %s rescheduled to %s - %s", res.Code,
		w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
	return &entities.ReservationResponse{
		Code:       res.Code,
		CarID:      res.CarID,
		CarLabel:   car.Label(),
		UserID:     res.UserID,
		RateType:   res.RateType,
		StartTime:  res.StartTime,
		EndTime:    res.EndTime,
		Status:     res.Status,
		TotalPrice: float64(res.TotalPriceCents) / 100,
		AmountPaid: float64(res.AmountPaidCents) / 100,
		CreatedAt:  res.CreatedAt,
		UpdatedAt:  res.UpdatedAt,
	}, nil
}

// ConfirmPayment applies a manual payment confirmation. Half payments move
// pending to partial; full payments settle the outstanding balance and move
// the reservation to paid.
func (s *ReservationService) ConfirmPayment(code string, req *entities.PaymentConfirmRequest) (*entities.PaymentConfirmResponse, error) {
	amountCents := booking.AmountToCents(req.Amount)
	res, err := s.store.ConfirmPayment(code, req.Reference, amountCents, req.PaymentType)
	if err != nil {
		return nil, err
	}

	if n, err := s.store.NoticeFor(res.ID); err == nil {
		s.sender.NotifyStatus(*n)
		s.sender.SendReservationEmail(*n)
		s.publish(res, n.CarLabel)
	} else {
		log.Printf("Payment notice for reservation %s unavailable: %v", code, err)
	}
	return &entities.PaymentConfirmResponse{
		Code:       res.Code,
		Status:     res.Status,
		AmountPaid: float64(res.AmountPaidCents) / 100,
		Message:    "Payment confirmed",
	}, nil
}

// ConfirmCheckout settles a completed checkout session against the
// reservation named in its metadata. The amount arrives from the payment
// provider already in cents.
func (s *ReservationService) ConfirmCheckout(code, sessionID string, amountCents int64, paymentType string) error {
	res, err := s.store.ConfirmPayment(code, sessionID, amountCents, paymentType)
	if err != nil {
		return err
	}
	if n, err := s.store.NoticeFor(res.ID); err == nil {
		s.sender.NotifyStatus(*n)
		s.sender.SendReservationEmail(*n)
		s.publish(res, n.CarLabel)
	} else {
		log.Printf("Checkout notice for reservation %s unavailable: %v", code, err)
	}
	return nil
}

// CancelReservation cancels by code. Cancelling an already cancelled
// reservation succeeds silently; a completed one cannot be cancelled.
// Notifications and the queue event fire only when the status actually
// changed.
func (s *ReservationService) CancelReservation(code string) (*db.Reservation, error) {
	res, changed, err := s.store.CancelReservation(code)
	if err != nil {
		return nil, err
	}
	if !changed {
		return res, nil
	}

	if n, err := s.store.NoticeFor(res.ID); err == nil {
		s.sender.NotifyStatus(*n)
		s.sender.SendReservationEmail(*n)
		s.publish(res, n.CarLabel)
	} else {
		log.Printf("Cancel notice for reservation %s unavailable: %v", code, err)
	}
	log.Printf("Reservation %s cancelled", code)
	return res, nil
}

func (s *ReservationService) publish(res *db.Reservation, carLabel string) {
	s.events.Publish(queue.ReservationEvent{
		Code:            res.Code,
		CarID:           res.CarID,
		CarLabel:        carLabel,
		UserID:          res.UserID,
		Status:          res.Status,
		StartTime:       res.StartTime,
		EndTime:         res.EndTime,
		TotalPriceCents: res.TotalPriceCents,
		OccurredAt:      s.now(),
	})
}

func newReservationCode() string {
	return fmt.Sprintf("%08X", time.Now().UnixNano()%100000000)
}
