package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskAuditOutboxDue = "audit.outbox.due"

type AuditOutboxDuePayload struct {
	OutboxID string `json:"outboxId"`
}

func NewAuditOutboxDueTask(payload AuditOutboxDuePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditOutboxDue, data), nil
}

func ParseAuditOutboxDuePayload(task *asynq.Task) (AuditOutboxDuePayload, error) {
	var payload AuditOutboxDuePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return AuditOutboxDuePayload{}, err
	}
	return payload, nil
}
