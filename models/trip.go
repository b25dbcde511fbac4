package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format used by the form and the flight provider.
const DateLayout = "2006-01-02"

const (
	MinTripDays     = 1
	MaxTripDays     = 14
	DefaultTripDays = 5

	DefaultOrigin      = "BOM"
	DefaultDestination = "DEL"
	DefaultActivities  = "Relaxing on the beach, exploring historical sites"
)

var ErrInvalidTrip = errors.New("invalid trip request")

type Theme string

const (
	ThemeCouple    Theme = "couple"
	ThemeFamily    Theme = "family"
	ThemeAdventure Theme = "adventure"
	ThemeSolo      Theme = "solo"
)

var themeLabels = map[Theme]string{
	ThemeCouple:    "Couple Getaway",
	ThemeFamily:    "Family Vacation",
	ThemeAdventure: "Adventure Trip",
	ThemeSolo:      "Solo Exploration",
}

// Themes lists the selectable themes in display order.
var Themes = []Theme{ThemeCouple, ThemeFamily, ThemeAdventure, ThemeSolo}

func (t Theme) Label() string {
	if l, ok := themeLabels[t]; ok {
		return l
	}
	return string(t)
}

type Budget string

const (
	BudgetEconomy  Budget = "Economy"
	BudgetStandard Budget = "Standard"
	BudgetLuxury   Budget = "Luxury"
)

var Budgets = []Budget{BudgetEconomy, BudgetStandard, BudgetLuxury}

type FlightClass string

const (
	ClassEconomy  FlightClass = "Economy"
	ClassBusiness FlightClass = "Business"
	ClassFirst    FlightClass = "First Class"
)

var FlightClasses = []FlightClass{ClassEconomy, ClassBusiness, ClassFirst}

type HotelRating string

const (
	RatingAny   HotelRating = "Any"
	RatingThree HotelRating = "3"
	RatingFour  HotelRating = "4"
	RatingFive  HotelRating = "5"
)

var HotelRatings = []HotelRating{RatingAny, RatingThree, RatingFour, RatingFive}

func (r HotelRating) Label() string {
	if r == RatingAny || r == "" {
		return "Any"
	}
	return string(r) + "⭐"
}

// PackingItem is one entry of the packing checklist.
type PackingItem struct {
	Name    string `json:"name"`
	Checked bool   `json:"checked"`
}

// DefaultPackingList returns a fresh copy of the default checklist.
func DefaultPackingList() []PackingItem {
	return []PackingItem{
		{Name: "Clothes", Checked: true},
		{Name: "Comfortable Footwear", Checked: true},
		{Name: "Sunglasses & Sunscreen", Checked: false},
		{Name: "Travel Guidebook", Checked: false},
		{Name: "Medications & First-Aid", Checked: true},
	}
}

// TripRequest is the validated set of travel preferences for one generation run.
type TripRequest struct {
	Origin             string        `json:"origin"`
	Destination        string        `json:"destination"`
	DepartureDate      time.Time     `json:"departureDate"`
	ReturnDate         time.Time     `json:"returnDate"`
	NumDays            int           `json:"numDays"`
	Theme              Theme         `json:"theme"`
	Activities         string        `json:"activities"`
	Budget             Budget        `json:"budget"`
	FlightClass        FlightClass   `json:"flightClass"`
	HotelRating        HotelRating   `json:"hotelRating"`
	VisaCheck          bool          `json:"visaCheck"`
	Insurance          bool          `json:"insurance"`
	CurrencyConversion bool          `json:"currencyConversion"`
	Packing            []PackingItem `json:"packing,omitempty"`
}

// TripForm is the wire shape of a trip request, bound from either the HTML
// form or a JSON body.
type TripForm struct {
	Origin             string   `form:"origin" json:"origin"`
	Destination        string   `form:"destination" json:"destination"`
	DepartureDate      string   `form:"departure_date" json:"departureDate"`
	ReturnDate         string   `form:"return_date" json:"returnDate"`
	NumDays            int      `form:"num_days" json:"numDays"`
	Theme              string   `form:"theme" json:"theme"`
	Activities         string   `form:"activities" json:"activities"`
	Budget             string   `form:"budget" json:"budget"`
	FlightClass        string   `form:"flight_class" json:"flightClass"`
	HotelRating        string   `form:"hotel_rating" json:"hotelRating"`
	VisaCheck          bool     `form:"visa_check" json:"visaCheck"`
	Insurance          bool     `form:"insurance" json:"insurance"`
	CurrencyConversion bool     `form:"currency_conversion" json:"currencyConversion"`
	Packing            []string `form:"packing" json:"packing"`
}

// DefaultTripForm returns the values the form page is pre-filled with.
func DefaultTripForm(today time.Time) TripForm {
	d := today.Format(DateLayout)
	var packing []string
	for _, item := range DefaultPackingList() {
		if item.Checked {
			packing = append(packing, item.Name)
		}
	}
	return TripForm{
		Origin:        DefaultOrigin,
		Destination:   DefaultDestination,
		DepartureDate: d,
		ReturnDate:    d,
		NumDays:       DefaultTripDays,
		Theme:         string(ThemeCouple),
		Activities:    DefaultActivities,
		Budget:        string(BudgetEconomy),
		FlightClass:   string(ClassEconomy),
		HotelRating:   string(RatingAny),
		Packing:       packing,
	}
}

// Normalized returns the form with airport codes upper-cased and the theme
// lower-cased, matching the values ToTripRequest produces.
func (f TripForm) Normalized() TripForm {
	f.Origin = strings.ToUpper(strings.TrimSpace(f.Origin))
	f.Destination = strings.ToUpper(strings.TrimSpace(f.Destination))
	f.Theme = strings.ToLower(strings.TrimSpace(f.Theme))
	return f
}

// ToTripRequest validates the form and converts it into a TripRequest.
// Empty optional fields take the form defaults.
func (f TripForm) ToTripRequest() (TripRequest, error) {
	req := TripRequest{
		Origin:             strings.ToUpper(strings.TrimSpace(f.Origin)),
		Destination:        strings.ToUpper(strings.TrimSpace(f.Destination)),
		NumDays:            f.NumDays,
		Theme:              Theme(strings.ToLower(strings.TrimSpace(f.Theme))),
		Activities:         strings.TrimSpace(f.Activities),
		Budget:             Budget(strings.TrimSpace(f.Budget)),
		FlightClass:        FlightClass(strings.TrimSpace(f.FlightClass)),
		HotelRating:        HotelRating(strings.TrimSpace(f.HotelRating)),
		VisaCheck:          f.VisaCheck,
		Insurance:          f.Insurance,
		CurrencyConversion: f.CurrencyConversion,
	}
	if req.NumDays == 0 {
		req.NumDays = DefaultTripDays
	}
	if req.Theme == "" {
		req.Theme = ThemeCouple
	}
	if req.Activities == "" {
		req.Activities = DefaultActivities
	}
	if req.Budget == "" {
		req.Budget = BudgetEconomy
	}
	if req.FlightClass == "" {
		req.FlightClass = ClassEconomy
	}
	if req.HotelRating == "" {
		req.HotelRating = RatingAny
	}

	var err error
	if req.DepartureDate, err = parseDate("departure date", f.DepartureDate); err != nil {
		return TripRequest{}, err
	}
	if req.ReturnDate, err = parseDate("return date", f.ReturnDate); err != nil {
		return TripRequest{}, err
	}

	checked := make(map[string]bool, len(f.Packing))
	for _, name := range f.Packing {
		checked[strings.TrimSpace(name)] = true
	}
	for _, item := range DefaultPackingList() {
		req.Packing = append(req.Packing, PackingItem{Name: item.Name, Checked: checked[item.Name]})
	}

	if err := req.Validate(); err != nil {
		return TripRequest{}, err
	}
	return req, nil
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", ErrInvalidTrip, field)
	}
	return t, nil
}

// Validate checks codes, enum values, day count and date order.
func (r TripRequest) Validate() error {
	if !isIATACode(r.Origin) {
		return fmt.Errorf("%w: origin %q is not a 3-letter IATA code", ErrInvalidTrip, r.Origin)
	}
	if !isIATACode(r.Destination) {
		return fmt.Errorf("%w: destination %q is not a 3-letter IATA code", ErrInvalidTrip, r.Destination)
	}
	if r.NumDays < MinTripDays || r.NumDays > MaxTripDays {
		return fmt.Errorf("%w: trip duration must be between %d and %d days", ErrInvalidTrip, MinTripDays, MaxTripDays)
	}
	if _, ok := themeLabels[r.Theme]; !ok {
		return fmt.Errorf("%w: unknown theme %q", ErrInvalidTrip, r.Theme)
	}
	if !contains(Budgets, r.Budget) {
		return fmt.Errorf("%w: unknown budget %q", ErrInvalidTrip, r.Budget)
	}
	if !contains(FlightClasses, r.FlightClass) {
		return fmt.Errorf("%w: unknown flight class %q", ErrInvalidTrip, r.FlightClass)
	}
	if !contains(HotelRatings, r.HotelRating) {
		return fmt.Errorf("%w: unknown hotel rating %q", ErrInvalidTrip, r.HotelRating)
	}
	if r.DepartureDate.IsZero() || r.ReturnDate.IsZero() {
		return fmt.Errorf("%w: departure and return dates are required", ErrInvalidTrip)
	}
	if r.ReturnDate.Before(r.DepartureDate) {
		return fmt.Errorf("%w: return date is before departure date", ErrInvalidTrip)
	}
	return nil
}

func isIATACode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

func contains[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
