package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	leadsrepo "leadflow_backend/internal/leads/repository"
	leadstransport "leadflow_backend/internal/leads/transport"
	"leadflow_backend/platform/config"
	"leadflow_backend/platform/logger"
)

// InsightRunner is the slice of the leads service the worker drives.
type InsightRunner interface {
	RegenerateSummary(ctx context.Context, id uuid.UUID) (leadsrepo.Lead, error)
	RecalculateAllScores(ctx context.Context) (leadstransport.RecalculateScoresResult, error)
}

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	insights InsightRunner
	log      *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, insights InsightRunner, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		insights: insights,
		log:      log,
	}

	mux.HandleFunc(TaskLeadSummaryRegenerate, w.handleSummaryRegenerate)
	mux.HandleFunc(TaskLeadScoresRecalculate, w.handleScoresRecalculate)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleSummaryRegenerate(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseSummaryRegeneratePayload(task)
	if err != nil {
		return err
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return err
	}

	if _, err := w.insights.RegenerateSummary(ctx, leadID); err != nil {
		return err
	}

	w.log.Info("background summary regeneration complete", "lead_id", leadID)
	return nil
}

func (w *Worker) handleScoresRecalculate(ctx context.Context, _ *asynq.Task) error {
	result, err := w.insights.RecalculateAllScores(ctx)
	if err != nil {
		return err
	}

	w.log.Info("background score recalculation complete", "updated", result.Count)
	return nil
}
