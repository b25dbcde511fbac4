package cron

import (
	"context"
	"time"

	"github.com/git-Adi/agenticAI-Travel/config"
	"github.com/git-Adi/agenticAI-Travel/services/planner"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	maxStartAttempts = 5
	monitorInterval  = 10 * time.Second
)

// PlanWorker processes queued plan generation tasks.
type PlanWorker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	redis  *redis.Client
	logger *zap.Logger
	cancel context.CancelFunc
}

// RedisOpt returns the asynq connection shared by the worker and the enqueuing client.
func RedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	}
}

func NewPlanWorker(cfg *config.Config, svc *planner.Service, logger *zap.Logger) *PlanWorker {
	opt := RedisOpt(cfg)
	srv := asynq.NewServer(
		opt,
		asynq.Config{
			Concurrency: cfg.WorkerConcurrency,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(planner.TypePlanGenerate, handlePlanTask(svc, logger))

	return &PlanWorker{
		srv:    srv,
		mux:    mux,
		redis:  redis.NewClient(&redis.Options{Addr: opt.Addr, Password: opt.Password, DB: opt.DB}),
		logger: logger,
	}
}

// Start runs the worker in the background, retrying startup with a growing delay.
func (w *PlanWorker) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel

	go w.monitorRedisConnection(ctx)

	go func() {
		w.logger.Info("Starting plan worker")
		for attempt := 1; attempt <= maxStartAttempts; attempt++ {
			err := w.srv.Start(w.mux)
			if err == nil {
				return
			}
			w.logger.Error("Failed to start plan worker",
				zap.Int("attempt", attempt), zap.Int("maxAttempts", maxStartAttempts), zap.Error(err))
			if attempt == maxStartAttempts {
				w.logger.Error("Plan worker giving up; queued plans will not be processed")
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(attempt*2) * time.Second):
			}
		}
	}()
}

// Shutdown waits for active tasks and stops the worker.
func (w *PlanWorker) Shutdown() {
	if w.cancel != nil {
		w.cancel()
	}
	w.srv.Shutdown()
	if err := w.redis.Close(); err != nil {
		w.logger.Warn("Failed to close worker redis client", zap.Error(err))
	}
	w.logger.Info("Plan worker stopped")
}

func handlePlanTask(svc *planner.Service, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		start := time.Now()
		err := svc.HandleGenerateTask(ctx, task)
		if err != nil {
			logger.Error("Plan task failed", zap.String("type", task.Type()), zap.Duration("elapsed", time.Since(start)), zap.Error(err))
			return err
		}
		logger.Info("Plan task complete", zap.Duration("elapsed", time.Since(start)))
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func (w *PlanWorker) monitorRedisConnection(ctx context.Context) {
	ticker := time.NewTicker(monitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.redis.Ping(ctx).Err(); err != nil && ctx.Err() == nil {
				w.logger.Warn("Worker redis connection lost", zap.Error(err))
			}
		}
	}
}
