package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/git-Adi/agenticAI-Travel/models"
	"github.com/git-Adi/agenticAI-Travel/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const pageTemplate = "planner.tmpl"

// PlanService is the plan orchestration used by the handlers.
type PlanService interface {
	Generate(ctx context.Context, trip models.TripRequest) (*models.TravelPlan, error)
	Enqueue(ctx context.Context, trip models.TripRequest) (*models.TravelPlan, error)
	Get(ctx context.Context, id string) (*models.TravelPlan, error)
	SearchFlights(ctx context.Context, trip models.TripRequest) ([]models.FlightOffer, error)
}

// PlannerHandler serves the planner page and the plan API.
type PlannerHandler struct {
	svc          PlanService
	supportEmail string
	now          func() time.Time
}

func NewPlannerHandler(svc PlanService, supportEmail string) *PlannerHandler {
	return &PlannerHandler{svc: svc, supportEmail: supportEmail, now: time.Now}
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

type pageData struct {
	Form          models.TripForm
	Banner        string
	MinDays       int
	MaxDays       int
	Themes        []option
	Budgets       []option
	FlightClasses []option
	HotelRatings  []option
	Packing       []models.PackingItem
	Plan          *models.TravelPlan
	Cards         []cardView
	Error         string
	SupportEmail  string
}

func (h *PlannerHandler) page(form models.TripForm) pageData {
	data := pageData{
		Form:         form,
		MinDays:      models.MinTripDays,
		MaxDays:      models.MaxTripDays,
		SupportEmail: h.supportEmail,
	}
	theme := models.Theme(form.Theme)
	data.Banner = "Your " + theme.Label() + " to " + form.Destination + " is about to begin!"

	for _, t := range models.Themes {
		data.Themes = append(data.Themes, option{Value: string(t), Label: t.Label(), Selected: t == theme})
	}
	for _, b := range models.Budgets {
		data.Budgets = append(data.Budgets, option{Value: string(b), Label: string(b), Selected: string(b) == form.Budget})
	}
	for _, fc := range models.FlightClasses {
		data.FlightClasses = append(data.FlightClasses, option{Value: string(fc), Label: string(fc), Selected: string(fc) == form.FlightClass})
	}
	for _, r := range models.HotelRatings {
		data.HotelRatings = append(data.HotelRatings, option{Value: string(r), Label: r.Label(), Selected: string(r) == form.HotelRating})
	}

	checked := make(map[string]bool, len(form.Packing))
	for _, name := range form.Packing {
		checked[name] = true
	}
	for _, item := range models.DefaultPackingList() {
		data.Packing = append(data.Packing, models.PackingItem{Name: item.Name, Checked: checked[item.Name]})
	}
	return data
}

// FormPage renders the form with its default values.
func (h *PlannerHandler) FormPage(c *gin.Context) {
	c.HTML(http.StatusOK, pageTemplate, h.page(models.DefaultTripForm(h.now())))
}

// GeneratePlanPage runs the full pipeline for a submitted form and renders the results.
func (h *PlannerHandler) GeneratePlanPage(c *gin.Context) {
	logger := getLogger(c)

	form := models.DefaultTripForm(h.now())
	form.Packing = nil
	err := c.ShouldBind(&form)
	form = form.Normalized()
	if err != nil {
		logger.Warn("Invalid planner form", zap.Error(err))
		data := h.page(form)
		data.Error = "Invalid input: " + err.Error()
		c.HTML(http.StatusBadRequest, pageTemplate, data)
		return
	}
	data := h.page(form)

	trip, err := form.ToTripRequest()
	if err != nil {
		data.Error = err.Error()
		c.HTML(http.StatusBadRequest, pageTemplate, data)
		return
	}

	plan, err := h.svc.Generate(c.Request.Context(), trip)
	if plan != nil {
		data.Plan = plan
		data.Cards = buildCards(plan.Flights, logger)
	}
	if err != nil {
		status, msg := statusFor(err)
		logger.Error("Travel plan generation failed", zap.Int("status", status), zap.Error(err))
		data.Error = msg
		c.HTML(status, pageTemplate, data)
		return
	}

	logger.Info("Travel plan generated", zap.String("planID", plan.ID), zap.Int("flights", len(plan.Flights)))
	c.HTML(http.StatusOK, pageTemplate, data)
}

// PlanResponse is the JSON form of a travel plan.
type PlanResponse struct {
	*models.TravelPlan
	Cards []models.FlightCard `json:"cards"`
}

func newPlanResponse(plan *models.TravelPlan, c *gin.Context) PlanResponse {
	return PlanResponse{TravelPlan: plan, Cards: cardsOnly(buildCards(plan.Flights, getLogger(c)))}
}

func bindTrip(c *gin.Context) (models.TripRequest, bool) {
	var form models.TripForm
	if err := c.ShouldBindJSON(&form); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return models.TripRequest{}, false
	}
	trip, err := form.ToTripRequest()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid trip request", err.Error())
		return models.TripRequest{}, false
	}
	return trip, true
}

func abortWithServiceError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	utils.JSONError(c, status, msg, err.Error())
}

// CreatePlan generates a plan synchronously.
func (h *PlannerHandler) CreatePlan(c *gin.Context) {
	trip, ok := bindTrip(c)
	if !ok {
		return
	}
	plan, err := h.svc.Generate(c.Request.Context(), trip)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPlanResponse(plan, c))
}

// CreatePlanAsync queues plan generation and returns the pending plan id.
func (h *PlannerHandler) CreatePlanAsync(c *gin.Context) {
	trip, ok := bindTrip(c)
	if !ok {
		return
	}
	plan, err := h.svc.Enqueue(c.Request.Context(), trip)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Header("Location", "/api/plans/"+plan.ID)
	c.JSON(http.StatusAccepted, gin.H{"id": plan.ID, "status": plan.Status})
}

// GetPlan returns a stored plan.
func (h *PlannerHandler) GetPlan(c *gin.Context) {
	plan, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPlanResponse(plan, c))
}

// SearchFlights returns the cheapest flights for a route without running the narratives.
func (h *PlannerHandler) SearchFlights(c *gin.Context) {
	form := models.TripForm{
		Origin:        c.Query("origin"),
		Destination:   c.Query("destination"),
		DepartureDate: c.Query("outbound_date"),
		ReturnDate:    c.Query("return_date"),
	}
	if form.Origin == "" || form.Destination == "" || form.DepartureDate == "" || form.ReturnDate == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing required query parameters", "origin, destination, outbound_date, return_date")
		return
	}
	trip, err := form.ToTripRequest()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid trip request", err.Error())
		return
	}

	offers, err := h.svc.SearchFlights(c.Request.Context(), trip)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"flights": offers,
		"cards":   cardsOnly(buildCards(offers, getLogger(c))),
	})
}
