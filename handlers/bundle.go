// File: handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Page endpoints
	FormPage         gin.HandlerFunc
	GeneratePlanPage gin.HandlerFunc

	// Plan API endpoints
	CreatePlan      gin.HandlerFunc
	CreatePlanAsync gin.HandlerFunc
	GetPlan         gin.HandlerFunc
	SearchFlights   gin.HandlerFunc

	Health gin.HandlerFunc
}

// NewHandlerBundle wires the planner and health handlers into a bundle.
func NewHandlerBundle(ph *PlannerHandler, hh *HealthHandler) *HandlerBundle {
	return &HandlerBundle{
		FormPage:         ph.FormPage,
		GeneratePlanPage: ph.GeneratePlanPage,
		CreatePlan:       ph.CreatePlan,
		CreatePlanAsync:  ph.CreatePlanAsync,
		GetPlan:          ph.GetPlan,
		SearchFlights:    ph.SearchFlights,
		Health:           hh.Health,
	}
}
