package models

import "time"

type PlanStatus string

const (
	PlanPending  PlanStatus = "pending"
	PlanRunning  PlanStatus = "running"
	PlanComplete PlanStatus = "complete"
	PlanFailed   PlanStatus = "failed"
)

// TravelPlan is the outcome of one generation run.
type TravelPlan struct {
	ID          string        `json:"id"`
	Status      PlanStatus    `json:"status"`
	Request     TripRequest   `json:"request"`
	Flights     []FlightOffer `json:"flights"`
	Research    string        `json:"research,omitempty"`
	Lodging     string        `json:"lodging,omitempty"`
	Itinerary   string        `json:"itinerary,omitempty"`
	Error       string        `json:"error,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	GeneratedAt *time.Time    `json:"generatedAt,omitempty"`
}
