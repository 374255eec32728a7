package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskLeadSummaryRegenerate = "leads.summary.regenerate"

const TaskLeadScoresRecalculate = "leads.scores.recalculate"

type SummaryRegeneratePayload struct {
	LeadID string `json:"leadId"`
}

func NewSummaryRegenerateTask(payload SummaryRegeneratePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadSummaryRegenerate, data), nil
}

func ParseSummaryRegeneratePayload(task *asynq.Task) (SummaryRegeneratePayload, error) {
	var payload SummaryRegeneratePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return SummaryRegeneratePayload{}, err
	}
	return payload, nil
}

func NewScoresRecalculateTask() *asynq.Task {
	return asynq.NewTask(TaskLeadScoresRecalculate, nil)
}
