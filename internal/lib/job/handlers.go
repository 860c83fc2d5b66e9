package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Mailer sends the notification emails that jobs deliver.
type Mailer interface {
	SendWelcomeEmail(ctx context.Context, to, name string) error
	SendPasswordChangedEmail(ctx context.Context, to, name string) error
}

func decodeEmailPayload(t *asynq.Task) (EmailPayload, error) {
	var p EmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// retrying cannot fix a malformed payload
		return p, fmt.Errorf("failed to unmarshal %s payload: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	return p, nil
}

// emailHandler adapts a Mailer method into an asynq handler with the
// shared decode and logging steps.
func (j *JobService) emailHandler(kind string, send func(ctx context.Context, to, name string) error) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		p, err := decodeEmailPayload(t)
		if err != nil {
			j.logger.Error().Err(err).Str("type", kind).Msg("Dropping malformed email task")
			return err
		}

		j.logger.Info().
			Str("type", kind).
			Str("to", p.To).
			Msgf("Processing %s email task", kind)

		if err := send(ctx, p.To, p.Name); err != nil {
			j.logger.Error().
				Str("type", kind).
				Str("to", p.To).
				Err(err).
				Msgf("Failed to send %s email", kind)
			return err
		}

		j.logger.Info().
			Str("type", kind).
			Str("to", p.To).
			Msgf("Successfully sent %s email", kind)

		return nil
	}
}

// newMux routes every task type to its handler.
func (j *JobService) newMux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(TaskWelcome, j.emailHandler("welcome", j.mailer.SendWelcomeEmail))
	mux.Handle(TaskPasswordChanged, j.emailHandler("password_changed", j.mailer.SendPasswordChangedEmail))
	return mux
}
