package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ProviderTimeLayout is the timestamp format used by the flight provider.
const ProviderTimeLayout = "2006-01-02 15:04"

// CardTimeLayout renders as e.g. "Mar-06, 2025 | 06:20 PM".
const CardTimeLayout = "Jan-02, 2006 | 03:04 PM"

const (
	FallbackAirline  = "Unknown Airline"
	FallbackPrice    = "Price not available"
	FallbackValue    = "N/A"
	FallbackBooking  = "#"
	BookingURLPrefix = "https://www.google.com/travel/flights?tfs="
)

// Airport is one end of a flight segment.
type Airport struct {
	Name string `json:"name,omitempty"`
	IATA string `json:"iata,omitempty"`
	Time string `json:"time,omitempty"`
}

// UnmarshalJSON accepts the airport code under either "iata" or "id".
func (a *Airport) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name string `json:"name"`
		IATA string `json:"iata"`
		ID   string `json:"id"`
		Time string `json:"time"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.Name, a.Time, a.IATA = raw.Name, raw.Time, raw.IATA
	if a.IATA == "" {
		a.IATA = raw.ID
	}
	return nil
}

// FlightSegment is a single leg of an offer.
type FlightSegment struct {
	DepartureAirport Airport `json:"departure_airport"`
	ArrivalAirport   Airport `json:"arrival_airport"`
	Duration         *int    `json:"duration,omitempty"`
	Airline          string  `json:"airline,omitempty"`
	FlightNumber     string  `json:"flight_number,omitempty"`
	TravelClass      string  `json:"travel_class,omitempty"`
}

// FlightOffer is a provider "best_flights" record. Every field is optional.
type FlightOffer struct {
	Airline       string          `json:"airline,omitempty"`
	AirlineLogo   string          `json:"airline_logo,omitempty"`
	Price         *float64        `json:"price,omitempty"`
	Currency      string          `json:"currency,omitempty"`
	Type          string          `json:"type,omitempty"`
	TotalDuration *int            `json:"total_duration,omitempty"`
	BookingToken  string          `json:"booking_token,omitempty"`
	Flights       []FlightSegment `json:"flights,omitempty"`
}

// DisplayAirline returns the offer airline, then the first segment's airline,
// then the fallback.
func (o FlightOffer) DisplayAirline() string {
	if o.Airline != "" {
		return o.Airline
	}
	if len(o.Flights) > 0 && o.Flights[0].Airline != "" {
		return o.Flights[0].Airline
	}
	return FallbackAirline
}

// FlightCard is the display form of a FlightOffer with all fallbacks applied.
type FlightCard struct {
	Airline          string `json:"airline"`
	AirlineLogo      string `json:"airlineLogo,omitempty"`
	Price            string `json:"price"`
	DepartureTime    string `json:"departureTime"`
	DepartureAirport string `json:"departureAirport"`
	ArrivalTime      string `json:"arrivalTime"`
	ArrivalAirport   string `json:"arrivalAirport"`
	Duration         string `json:"duration"`
	BookingLink      string `json:"bookingLink"`
}

// NewFlightCard builds the card for an offer. It never fails on missing data.
func NewFlightCard(o FlightOffer) FlightCard {
	card := FlightCard{
		Airline:     o.DisplayAirline(),
		AirlineLogo: o.AirlineLogo,
		Price:       FormatPrice(o.Price, o.Currency),
		Duration:    FormatDuration(o.TotalDuration),
		BookingLink: BookingLink(o.BookingToken),
	}

	var dep, arr Airport
	if n := len(o.Flights); n > 0 {
		dep = o.Flights[0].DepartureAirport
		arr = o.Flights[n-1].ArrivalAirport
	}
	card.DepartureTime = FormatDateTime(dep.Time)
	card.ArrivalTime = FormatDateTime(arr.Time)
	card.DepartureAirport = dep.IATA
	card.ArrivalAirport = arr.IATA
	return card
}

// FormatDateTime converts a provider timestamp for display, or "N/A".
func FormatDateTime(s string) string {
	t, err := time.Parse(ProviderTimeLayout, s)
	if err != nil {
		return FallbackValue
	}
	return t.Format(CardTimeLayout)
}

func FormatPrice(price *float64, currency string) string {
	if price == nil {
		return FallbackPrice
	}
	amount := strconv.FormatFloat(*price, 'f', -1, 64)
	if currency == "" {
		return amount
	}
	return currency + " " + amount
}

func FormatDuration(minutes *int) string {
	if minutes == nil {
		return FallbackValue
	}
	m := *minutes
	if m < 60 {
		return fmt.Sprintf("%d min", m)
	}
	return fmt.Sprintf("%d hr %d min", m/60, m%60)
}

func BookingLink(token string) string {
	if token == "" {
		return FallbackBooking
	}
	return BookingURLPrefix + token
}
