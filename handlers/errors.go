package handlers

import (
	"errors"
	"net/http"

	"github.com/git-Adi/agenticAI-Travel/models"
	"github.com/git-Adi/agenticAI-Travel/services/flights"
	ai "github.com/git-Adi/agenticAI-Travel/services/intelligence"
	"github.com/git-Adi/agenticAI-Travel/services/planner"
)

// statusFor maps service errors onto an HTTP status and a user-facing message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrInvalidTrip):
		return http.StatusBadRequest, "Invalid trip request"
	case errors.Is(err, planner.ErrPlanNotFound):
		return http.StatusNotFound, "Travel plan not found"
	case errors.Is(err, planner.ErrAsyncUnavailable):
		return http.StatusServiceUnavailable, "Background plan generation is not available"
	case errors.Is(err, flights.ErrMissingCredential):
		return http.StatusBadGateway, "Flight search is not configured"
	case errors.Is(err, flights.ErrProvider), errors.Is(err, flights.ErrTemporary):
		return http.StatusBadGateway, "Flight search failed. Please try again later."
	case errors.Is(err, ai.ErrEmptyResponse):
		return http.StatusBadGateway, "The planning assistant returned no answer. Please try again."
	default:
		return http.StatusInternalServerError, "Failed to generate travel plan"
	}
}
