package notification

import (
	"context"
	"fmt"
	"time"

	"ClubHub/club-system-backend/internal/task"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// TaskSource is the slice of the task service the reminder needs.
type TaskSource interface {
	ListDueSoon(ctx context.Context, window time.Duration) ([]task.Task, error)
	ListAssignees(ctx context.Context, taskID uuid.UUID) ([]uuid.UUID, error)
}

// Reminder runs a daily sweep over open tasks and drops a notification
// for every assignee whose task is due within the window.
type Reminder struct {
	logger  *zap.Logger
	tracer  trace.Tracer
	cron    *cron.Cron
	tasks   TaskSource
	service *Service
	window  time.Duration
}

func NewReminder(logger *zap.Logger, tasks TaskSource, service *Service) *Reminder {
	return &Reminder{
		logger:  logger,
		tracer:  otel.Tracer("notification/reminder"),
		cron:    cron.New(),
		tasks:   tasks,
		service: service,
		window:  24 * time.Hour,
	}
}

// Start schedules the sweep at 08:00 every day and returns immediately.
func (r *Reminder) Start() error {
	_, err := r.cron.AddFunc("0 8 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := r.Sweep(ctx); err != nil {
			r.logger.Error("Due-date reminder sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule reminder sweep: %w", err)
	}
	r.cron.Start()
	return nil
}

func (r *Reminder) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

// Sweep finds tasks due within the window and notifies their assignees.
func (r *Reminder) Sweep(ctx context.Context) error {
	traceCtx, span := r.tracer.Start(ctx, "Sweep")
	defer span.End()

	dueSoon, err := r.tasks.ListDueSoon(traceCtx, r.window)
	if err != nil {
		span.RecordError(err)
		return err
	}

	for _, t := range dueSoon {
		assignees, err := r.tasks.ListAssignees(traceCtx, t.ID)
		if err != nil {
			span.RecordError(err)
			return err
		}
		if len(assignees) == 0 {
			continue
		}

		message := fmt.Sprintf("The task %q is due %s.", t.Title, t.DueDate.Time.Format("Jan 2 15:04"))
		if err := r.service.CreateForUsers(traceCtx, assignees, "Task due soon", message); err != nil {
			span.RecordError(err)
			return err
		}
	}

	r.logger.Info("Completed due-date reminder sweep", zap.Int("tasks", len(dueSoon)))
	return nil
}
