package entities

import "time"

type AvailabilityRequest struct {
	CarID    int       `json:"car_id"`
	RateType string    `json:"rate_type"`
	Start    time.Time `json:"start"`
	Duration int       `json:"duration"`
}

type AvailabilityResponse struct {
	Available      bool      `json:"available"`
	AvailableUnits int       `json:"available_units"`
	Start          time.Time `json:"start,omitempty"`
	End            time.Time `json:"end,omitempty"`
	Message        string    `json:"message,omitempty"`
}
