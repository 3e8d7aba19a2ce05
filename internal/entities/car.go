package entities

type CarResponse struct {
	ID         int      `json:"id"`
	Brand      string   `json:"brand"`
	Model      string   `json:"model"`
	Year       int      `json:"year"`
	CarType    string   `json:"car_type"`
	TotalUnits int      `json:"total_units"`
	RateHourly float64  `json:"rate_hourly"`
	RateDaily  float64  `json:"rate_daily"`
	RateWeekly float64  `json:"rate_weekly"`
	Features   []string `json:"features"`
}

// CarFilter narrows the public catalog listing.
type CarFilter struct {
	CarType  string
	MinPrice float64 // daily rate bounds
	MaxPrice float64
	MinYear  int
	MaxYear  int
}

type SaveCarRequest struct {
	Brand      string  `json:"brand"`
	Model      string  `json:"model"`
	Year       int     `json:"year"`
	CarType    string  `json:"car_type"`
	TotalUnits int     `json:"total_units"`
	RateHourly float64 `json:"rate_hourly"`
	RateDaily  float64 `json:"rate_daily"`
	RateWeekly float64 `json:"rate_weekly"`
	Features   string  `json:"features"`
}

type StatsResponse struct {
	TotalCars         int     `json:"total_cars"`
	TotalUsers        int     `json:"total_users"`
	TotalReservations int     `json:"total_reservations"`
	Revenue           float64 `json:"revenue"`
}
