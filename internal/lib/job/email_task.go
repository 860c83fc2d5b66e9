package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskWelcome is the job type name stored in Redis.
	// Asynq uses task type strings to route to handlers.
	TaskWelcome = "email:welcome"

	// TaskPasswordChanged notifies a user after a password change.
	TaskPasswordChanged = "email:password_changed"
)

// EmailPayload is the JSON payload of every user notification email task.
type EmailPayload struct {
	To   string `json:"to"`
	Name string `json:"name"`
}

func newEmailTask(taskType string, queue string, p EmailPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		taskType,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue(queue),
		asynq.Timeout(30*time.Second),
	), nil
}

// NewWelcomeEmailTask constructs the task sent after registration.
func NewWelcomeEmailTask(to, name string) (*asynq.Task, error) {
	return newEmailTask(TaskWelcome, "default", EmailPayload{To: to, Name: name})
}

// NewPasswordChangedEmailTask constructs the security notice sent after a
// password change. It goes to the critical queue.
func NewPasswordChangedEmailTask(to, name string) (*asynq.Task, error) {
	return newEmailTask(TaskPasswordChanged, "critical", EmailPayload{To: to, Name: name})
}
