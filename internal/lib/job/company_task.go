package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskCompanyCreated fires once per successfully created company.
	TaskCompanyCreated = "company:created"
)

// CompanyCreatedPayload is stored in Redis as JSON.
type CompanyCreatedPayload struct {
	Name            string `json:"name"`
	Status          string `json:"status"`
	ApplicationLink string `json:"application_link"`
	Notes           string `json:"notes"`
}

// NewCompanyCreatedTask builds the notification task: 3 retries, default
// queue, 30 second budget.
func NewCompanyCreatedTask(p CompanyCreatedPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskCompanyCreated,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}
