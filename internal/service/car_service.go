package service

import (
	"carshow/internal/booking"
	"carshow/internal/db"
	"carshow/internal/entities"
	"carshow/internal/repository"
	"carshow/internal/utils"
)

// CarService exposes the catalog: public listing and lookup plus the admin
// CRUD used to manage the fleet.
type CarService struct {
	cars *repository.CarRepository
}

func NewCarService(cars *repository.CarRepository) *CarService {
	return &CarService{cars: cars}
}

func carResponse(c *db.Car) entities.CarResponse {
	return entities.CarResponse{
		ID:         c.ID,
		Brand:      c.Brand,
		Model:      c.Model,
		Year:       c.Year,
		CarType:    c.CarType,
		TotalUnits: c.TotalUnits,
		RateHourly: float64(c.RateHourlyCents) / 100,
		RateDaily:  float64(c.RateDailyCents) / 100,
		RateWeekly: float64(c.RateWeeklyCents) / 100,
		Features:   utils.SplitFeatures(c.Features),
	}
}

func (s *CarService) ListCars(filter entities.CarFilter) ([]entities.CarResponse, error) {
	cars, err := s.cars.ListCars(filter)
	if err != nil {
		return nil, err
	}
	list := make([]entities.CarResponse, 0, len(cars))
	for i := range cars {
		list = append(list, carResponse(&cars[i]))
	}
	return list, nil
}

func (s *CarService) GetCar(id int) (*entities.CarResponse, error) {
	car, err := s.cars.GetCar(id)
	if err != nil {
		return nil, err
	}
	resp := carResponse(car)
	return &resp, nil
}

func carFromRequest(req *entities.SaveCarRequest) *db.Car {
	return &db.Car{
		Brand:           req.Brand,
		Model:           req.Model,
		Year:            req.Year,
		CarType:         req.CarType,
		TotalUnits:      req.TotalUnits,
		RateHourlyCents: booking.AmountToCents(req.RateHourly),
		RateDailyCents:  booking.AmountToCents(req.RateDaily),
		RateWeeklyCents: booking.AmountToCents(req.RateWeekly),
		Features:        req.Features,
	}
}

func (s *CarService) CreateCar(req *entities.SaveCarRequest) (*entities.CarResponse, error) {
	car := carFromRequest(req)
	if err := s.cars.CreateCar(car); err != nil {
		return nil, err
	}
	resp := carResponse(car)
	return &resp, nil
}

func (s *CarService) UpdateCar(id int, req *entities.SaveCarRequest) (*entities.CarResponse, error) {
	car := carFromRequest(req)
	car.ID = id
	if err := s.cars.UpdateCar(car); err != nil {
		return nil, err
	}
	resp := carResponse(car)
	return &resp, nil
}

func (s *CarService) DeleteCar(id int) error {
	return s.cars.DeleteCar(id)
}
