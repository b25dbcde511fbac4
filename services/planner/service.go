package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/git-Adi/agenticAI-Travel/models"
	"github.com/git-Adi/agenticAI-Travel/services/flights"
	ai "github.com/git-Adi/agenticAI-Travel/services/intelligence"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrAsyncUnavailable = errors.New("asynchronous plan generation is not configured")

// Requester turns one prompt into free text.
type Requester interface {
	Run(ctx context.Context, prompt string) (string, error)
}

// Requesters are the three narrative requesters a plan needs.
type Requesters struct {
	Research Requester
	Lodging  Requester
	Planning Requester
}

// FromAgents maps the travel agents onto the requester roles.
func FromAgents(a ai.Agents) Requesters {
	return Requesters{Research: a.Researcher, Lodging: a.HotelFinder, Planning: a.Planner}
}

// TaskEnqueuer is the subset of *asynq.Client used by the service.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type Dependency struct {
	Flights    flights.Searcher
	Requesters Requesters
	Store      PlanStore
	Queue      TaskEnqueuer
	Concurrent bool
	Logger     *zap.Logger
}

// Service runs the flights → selection → narratives pipeline.
type Service struct {
	flights    flights.Searcher
	req        Requesters
	store      PlanStore
	queue      TaskEnqueuer
	concurrent bool
	logger     *zap.Logger
	now        func() time.Time
}

func NewService(dep Dependency) *Service {
	logger := dep.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		flights:    dep.Flights,
		req:        dep.Requesters,
		store:      dep.Store,
		queue:      dep.Queue,
		concurrent: dep.Concurrent,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *Service) newPlan(trip models.TripRequest) *models.TravelPlan {
	return &models.TravelPlan{
		ID:        uuid.New().String(),
		Status:    models.PlanPending,
		Request:   trip,
		Flights:   []models.FlightOffer{},
		CreatedAt: s.now().UTC(),
	}
}

// Generate builds a complete plan synchronously and stores it.
func (s *Service) Generate(ctx context.Context, trip models.TripRequest) (*models.TravelPlan, error) {
	plan := s.newPlan(trip)
	if err := s.run(ctx, plan); err != nil {
		return plan, err
	}
	if err := s.store.Save(ctx, plan); err != nil {
		s.logger.Warn("Failed to store travel plan", zap.String("planID", plan.ID), zap.Error(err))
	}
	return plan, nil
}

// SearchFlights returns the selected cheapest flights for a trip.
func (s *Service) SearchFlights(ctx context.Context, trip models.TripRequest) ([]models.FlightOffer, error) {
	result, err := s.flights.Search(ctx, flights.RequestFromTrip(trip))
	if err != nil {
		return nil, fmt.Errorf("fetch flights: %w", err)
	}
	return flights.CheapestFlights(result), nil
}

// run fills plan in place. On failure the plan keeps whatever was produced so far.
func (s *Service) run(ctx context.Context, plan *models.TravelPlan) error {
	log := s.logger.With(zap.String("planID", plan.ID))
	plan.Status = models.PlanRunning
	trip := plan.Request

	log.Info("Fetching best flight options", zap.String("origin", trip.Origin), zap.String("destination", trip.Destination))
	selected, err := s.SearchFlights(ctx, trip)
	if err != nil {
		return s.fail(plan, err)
	}
	plan.Flights = selected

	log.Info("Researching attractions and lodging", zap.Bool("concurrent", s.concurrent), zap.Int("flights", len(selected)))
	research, lodging, err := s.narratives(ctx, trip)
	if err != nil {
		return s.fail(plan, err)
	}
	plan.Research, plan.Lodging = research, lodging

	log.Info("Creating personalized itinerary")
	prompt, err := ai.PlanningPrompt(trip, research, lodging, plan.Flights)
	if err != nil {
		return s.fail(plan, err)
	}
	itinerary, err := s.req.Planning.Run(ctx, prompt)
	if err != nil {
		return s.fail(plan, fmt.Errorf("planning: %w", err))
	}
	plan.Itinerary = itinerary

	done := s.now().UTC()
	plan.GeneratedAt = &done
	plan.Status = models.PlanComplete
	return nil
}

// narratives obtains research and lodging text; both are required before planning.
func (s *Service) narratives(ctx context.Context, trip models.TripRequest) (string, string, error) {
	var research, lodging string
	researchFn := func(ctx context.Context) error {
		out, err := s.req.Research.Run(ctx, ai.ResearchPrompt(trip))
		if err != nil {
			return fmt.Errorf("research: %w", err)
		}
		research = out
		return nil
	}
	lodgingFn := func(ctx context.Context) error {
		out, err := s.req.Lodging.Run(ctx, ai.LodgingPrompt(trip))
		if err != nil {
			return fmt.Errorf("lodging: %w", err)
		}
		lodging = out
		return nil
	}

	if !s.concurrent {
		if err := researchFn(ctx); err != nil {
			return "", "", err
		}
		if err := lodgingFn(ctx); err != nil {
			return "", "", err
		}
		return research, lodging, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return researchFn(gctx) })
	g.Go(func() error { return lodgingFn(gctx) })
	if err := g.Wait(); err != nil {
		return "", "", err
	}
	return research, lodging, nil
}

func (s *Service) fail(plan *models.TravelPlan, err error) error {
	plan.Status = models.PlanFailed
	plan.Error = err.Error()
	s.logger.Error("Travel plan generation failed", zap.String("planID", plan.ID), zap.Error(err))
	return err
}

// Get returns a stored plan.
func (s *Service) Get(ctx context.Context, id string) (*models.TravelPlan, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrPlanNotFound
	}
	return s.store.Get(ctx, id)
}

// AsyncEnabled reports whether Enqueue can schedule work.
func (s *Service) AsyncEnabled() bool {
	return s.queue != nil
}
