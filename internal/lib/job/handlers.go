package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deppfellow/company-tracker/internal/config"
	"github.com/deppfellow/company-tracker/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Mailer sends the notification e-mails job handlers produce.
type Mailer interface {
	SendCompanyCreatedEmail(ctx context.Context, to string, data email.CompanyCreatedData) error
}

// InitHandlers wires the dependencies task handlers need. It must run
// before Start.
func (j *JobService) InitHandlers(cfg *config.Config, logger *zerolog.Logger) {
	j.mailer = email.NewClient(cfg, logger)
	j.recipient = cfg.Notifications.Recipient
}

func (j *JobService) handleCompanyCreatedTask(ctx context.Context, t *asynq.Task) error {
	var p CompanyCreatedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// a payload that can't be decoded will never succeed
		return fmt.Errorf("failed to unmarshal company created payload: %v: %w", err, asynq.SkipRetry)
	}

	log := j.logger.With().
		Str("type", TaskCompanyCreated).
		Str("company", p.Name).
		Logger()

	log.Info().Msg("Processing company created task")

	err := j.mailer.SendCompanyCreatedEmail(ctx, j.recipient, email.CompanyCreatedData{
		CompanyName:     p.Name,
		Status:          p.Status,
		ApplicationLink: p.ApplicationLink,
		Notes:           p.Notes,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to send company created email")
		return err
	}

	log.Info().Msg("Successfully sent company created email")

	return nil
}
