package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperskill-app/hyperskill-api/internal/models"
	"github.com/hyperskill-app/hyperskill-api/pkg/config"
	"github.com/hyperskill-app/hyperskill-api/pkg/jobs"
)

const jobTypeVerificationDecision = "verification_decision"

// DecisionNotification is the payload queued after an admin decides a teacher application.
type DecisionNotification struct {
	TeacherID string
	Email     string
	Name      string
	Status    models.VerificationStatus
}

// NotificationService delivers asynchronous notifications through a worker queue.
// Delivery is log backed until a mail provider is wired in.
type NotificationService struct {
	queue   *jobs.Queue
	logger  *zap.Logger
	enabled bool
}

func NewNotificationService(cfg config.NotificationsConfig, logger *zap.Logger) *NotificationService {
	s := &NotificationService{
		logger:  logger,
		enabled: cfg.Enabled,
	}
	s.queue = jobs.NewQueue("notifications", s.process, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return s
}

// Start launches the worker pool.
func (s *NotificationService) Start(ctx context.Context) {
	if !s.enabled {
		return
	}
	s.queue.Start(ctx)
}

// Stop drains the worker pool.
func (s *NotificationService) Stop() {
	if !s.enabled {
		return
	}
	s.queue.Stop()
}

// NotifyDecision queues a decision notification for a teacher. Failures
// never surface to the caller, the decision itself already committed.
func (s *NotificationService) NotifyDecision(n DecisionNotification) {
	if !s.enabled {
		return
	}
	err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    jobTypeVerificationDecision,
		Payload: n,
	})
	if err != nil {
		s.logger.Warn("failed to enqueue decision notification",
			zap.String("teacher_id", n.TeacherID),
			zap.Error(err))
	}
}

func (s *NotificationService) process(ctx context.Context, job jobs.Job) error {
	switch job.Type {
	case jobTypeVerificationDecision:
		n, ok := job.Payload.(DecisionNotification)
		if !ok {
			return fmt.Errorf("unexpected payload for job %s", job.ID)
		}
		s.logger.Info("verification decision notification",
			zap.String("teacher_id", n.TeacherID),
			zap.String("email", n.Email),
			zap.String("name", n.Name),
			zap.String("status", string(n.Status)))
		return nil
	default:
		return fmt.Errorf("unknown job type %s", job.Type)
	}
}
