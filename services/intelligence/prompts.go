package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/git-Adi/agenticAI-Travel/models"
)

const ResearcherInstructions = `You are a travel researcher. Your tasks are:
1. Identify the travel destination specified by the user.
2. Gather detailed information on the destination, including climate, culture and safety tips.
3. Find popular attractions, landmarks, and must-visit places.
4. Search for activities that match the user's interests and travel style.
5. Prioritize information from reliable sources and official travel guides.
6. Provide well structured summaries with key insights and recommendations.`

const PlannerInstructions = `You are a travel planner. Your tasks are:
1. Gather details about the user's travel preferences and budget.
2. Create a detailed itinerary with scheduled activities and estimated costs.
3. Ensure the itinerary includes transportation options and travel time estimates.
4. Present the itinerary in a clear, structured format.`

const HotelFinderInstructions = `You are a hotel and restaurant finder. Your tasks are:
1. Identify key locations in the user's travel itinerary.
2. Search for highly rated hotels near those locations.
3. Search for top-rated restaurants based on cuisine preferences and proximity.
4. Prioritize results based on user preferences, ratings, and availability.
5. Provide direct booking links or reservation options where possible.`

func themeText(t models.Theme) string {
	return strings.ToLower(t.Label())
}

// ResearchPrompt asks for attractions and activities at the destination.
func ResearchPrompt(trip models.TripRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Research the best attractions and activities in %s for a %d-day %s trip. ",
		trip.Destination, trip.NumDays, themeText(trip.Theme))
	fmt.Fprintf(&b, "The traveler enjoys: %s. Budget: %s. Flight Class: %s. ",
		trip.Activities, trip.Budget, trip.FlightClass)
	fmt.Fprintf(&b, "Hotel Rating: %s. Visa Requirement: %t. Travel Insurance: %t.",
		trip.HotelRating.Label(), trip.VisaCheck, trip.Insurance)
	if trip.CurrencyConversion {
		b.WriteString(" Include current currency exchange rates for the destination.")
	}
	return b.String()
}

// LodgingPrompt asks for hotels and restaurants near popular attractions.
func LodgingPrompt(trip models.TripRequest) string {
	return fmt.Sprintf(
		"Find the best hotels and restaurants near popular attractions in %s for a %s trip. "+
			"Budget: %s. Hotel Rating: %s. Preferred activities: %s.",
		trip.Destination, themeText(trip.Theme), trip.Budget, trip.HotelRating.Label(), trip.Activities,
	)
}

// PlanningPrompt embeds the research and lodging answers and the selected
// flights verbatim.
func PlanningPrompt(trip models.TripRequest, research, lodging string, flights []models.FlightOffer) (string, error) {
	if flights == nil {
		flights = []models.FlightOffer{}
	}
	flightsJSON, err := json.Marshal(flights)
	if err != nil {
		return "", fmt.Errorf("encode flights for planning prompt: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Based on the following data, create a %d-day itinerary for a %s trip to %s. ",
		trip.NumDays, themeText(trip.Theme), trip.Destination)
	fmt.Fprintf(&b, "The traveler enjoys: %s. Budget: %s. Flight Class: %s. ",
		trip.Activities, trip.Budget, trip.FlightClass)
	fmt.Fprintf(&b, "Hotel Rating: %s. ", trip.HotelRating.Label())
	fmt.Fprintf(&b, "Visa Requirement: %t. Travel Insurance: %t. ", trip.VisaCheck, trip.Insurance)
	fmt.Fprintf(&b, "Research: %s. ", research)
	fmt.Fprintf(&b, "Flights: %s. ", flightsJSON)
	fmt.Fprintf(&b, "Hotels & Restaurants: %s.", lodging)
	return b.String(), nil
}
