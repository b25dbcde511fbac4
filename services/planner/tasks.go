package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/git-Adi/agenticAI-Travel/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypePlanGenerate = "plan:generate"

// generateTimeout bounds one background generation run.
const generateTimeout = 10 * time.Minute

type GeneratePayload struct {
	PlanID string `json:"planId"`
}

// Enqueue stores a pending plan and schedules its generation.
func (s *Service) Enqueue(ctx context.Context, trip models.TripRequest) (*models.TravelPlan, error) {
	if s.queue == nil {
		return nil, ErrAsyncUnavailable
	}
	plan := s.newPlan(trip)
	if err := s.store.Save(ctx, plan); err != nil {
		return nil, fmt.Errorf("save pending plan: %w", err)
	}

	payload, err := json.Marshal(GeneratePayload{PlanID: plan.ID})
	if err != nil {
		return nil, err
	}
	task := asynq.NewTask(TypePlanGenerate, payload)
	info, err := s.queue.EnqueueContext(ctx, task,
		asynq.TaskID(plan.ID),
		asynq.MaxRetry(0),
		asynq.Timeout(generateTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("enqueue plan: %w", err)
	}
	s.logger.Info("Travel plan queued", zap.String("planID", plan.ID), zap.String("queue", info.Queue))
	return plan, nil
}

// HandleGenerateTask is the asynq handler for TypePlanGenerate.
func (s *Service) HandleGenerateTask(ctx context.Context, task *asynq.Task) error {
	var p GeneratePayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return fmt.Errorf("invalid %s payload: %v: %w", TypePlanGenerate, err, asynq.SkipRetry)
	}

	plan, err := s.store.Get(ctx, p.PlanID)
	if err != nil {
		return fmt.Errorf("load plan %s: %w", p.PlanID, err)
	}
	plan.Status = models.PlanRunning
	if err := s.store.Save(ctx, plan); err != nil {
		s.logger.Warn("Failed to mark plan running", zap.String("planID", plan.ID), zap.Error(err))
	}

	runErr := s.run(ctx, plan)
	if err := s.store.Save(ctx, plan); err != nil {
		return fmt.Errorf("save plan %s: %w", plan.ID, err)
	}
	return runErr
}
