package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"medischedule/models"
	"medischedule/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enqueuer is the part of *asynq.Client the queue notifier uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueNotifier hands booking events to the asynq worker.
type QueueNotifier struct {
	Client Enqueuer
}

func NewQueueNotifier(client Enqueuer) *QueueNotifier {
	return &QueueNotifier{Client: client}
}

// NewAppointmentSubmittedTask builds the task for a submitted booking.
func NewAppointmentSubmittedTask(appt models.Appointment) (*asynq.Task, error) {
	b, err := json.Marshal(PayloadFor(appt))
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeAppointmentSubmitted, b, asynq.MaxRetry(3)), nil
}

func (n *QueueNotifier) BookingSubmitted(ctx context.Context, appt models.Appointment) error {
	task, err := NewAppointmentSubmittedTask(appt)
	if err != nil {
		return fmt.Errorf("failed to build notification task: %w", err)
	}
	info, err := n.Client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue notification: %w", err)
	}
	utils.GetLogger().Debug("Booking notification queued",
		zap.String("taskId", info.ID),
		zap.String("appointmentId", appt.ID))
	return nil
}
