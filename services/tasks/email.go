package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"plinio/models"
)

const TypeEmailSend = "email:send"

// NewEmailTask wraps an outbound email into an asynq task.
func NewEmailTask(payload models.EmailPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeEmailSend, b), nil
}
