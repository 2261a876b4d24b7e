package task

import (
	"ClubHub/club-system-backend/internal"
	"context"
	"errors"
	"fmt"
	"time"

	databaseutil "github.com/NYCU-SDC/summer/pkg/database"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

//go:generate mockery --name Querier
type Querier interface {
	AddAssignee(ctx context.Context, arg AddAssigneeParams) error
	Complete(ctx context.Context, id uuid.UUID) (Task, error)
	Create(ctx context.Context, arg CreateParams) (Task, error)
	GetByID(ctx context.Context, id uuid.UUID) (Task, error)
	ListAssignees(ctx context.Context, taskID uuid.UUID) ([]uuid.UUID, error)
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]Task, error)
	ListDueSoon(ctx context.Context, window pgtype.Interval) ([]Task, error)
}

// Notifier delivers task events to member inboxes.
type Notifier interface {
	CreateForUsers(ctx context.Context, userIDs []uuid.UUID, title, message string) error
}

// CreateRequest carries everything needed to open a task for a group.
type CreateRequest struct {
	GroupID     uuid.UUID
	Title       string
	Description string
	DueDate     *time.Time
	Priority    Priority
	AssignedTo  []uuid.UUID
	CreatedBy   uuid.UUID
}

type Service struct {
	logger   *zap.Logger
	tracer   trace.Tracer
	queries  Querier
	notifier Notifier
}

func NewService(logger *zap.Logger, db DBTX, notifier Notifier) *Service {
	return &Service{
		logger:   logger,
		tracer:   otel.Tracer("task/service"),
		queries:  New(db),
		notifier: notifier,
	}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Task, error) {
	traceCtx, span := s.tracer.Start(ctx, "Create")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	priority := req.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.Valid() {
		return Task{}, fmt.Errorf("%w: invalid priority %q", internal.ErrValidationFailed, req.Priority)
	}

	var dueDate pgtype.Timestamptz
	if req.DueDate != nil {
		dueDate = pgtype.Timestamptz{Time: *req.DueDate, Valid: true}
	}

	created, err := s.queries.Create(traceCtx, CreateParams{
		GroupID:     req.GroupID,
		Title:       req.Title,
		Description: pgtype.Text{String: req.Description, Valid: req.Description != ""},
		DueDate:     dueDate,
		Priority:    priority,
		CreatedBy:   req.CreatedBy,
	})
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "tasks", "title", req.Title, logger, "create task")
		span.RecordError(err)
		return Task{}, err
	}

	for _, memberID := range req.AssignedTo {
		err := s.queries.AddAssignee(traceCtx, AddAssigneeParams{TaskID: created.ID, MemberID: memberID})
		if err != nil {
			err = databaseutil.WrapDBErrorWithKeyValue(err, "task_assignees", "member_id", memberID.String(), logger, "add assignee")
			span.RecordError(err)
			return Task{}, err
		}
	}

	if s.notifier != nil && len(req.AssignedTo) > 0 {
		message := fmt.Sprintf("You have been assigned the task %q.", created.Title)
		if err := s.notifier.CreateForUsers(traceCtx, req.AssignedTo, "New task assigned", message); err != nil {
			logger.Warn("Failed to notify assignees", zap.Error(err), zap.String("task_id", created.ID.String()))
		}
	}

	logger.Info("Created task",
		zap.String("task_id", created.ID.String()),
		zap.String("group_id", created.GroupID.String()),
		zap.Int("assignees", len(req.AssignedTo)))

	return created, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (Task, error) {
	traceCtx, span := s.tracer.Start(ctx, "GetByID")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	found, err := s.queries.GetByID(traceCtx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Task{}, internal.ErrTaskNotFound
		}
		err = databaseutil.WrapDBErrorWithKeyValue(err, "tasks", "id", id.String(), logger, "get task by id")
		span.RecordError(err)
		return Task{}, err
	}
	return found, nil
}

func (s *Service) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]Task, error) {
	traceCtx, span := s.tracer.Start(ctx, "ListByGroup")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	tasks, err := s.queries.ListByGroup(traceCtx, groupID)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "tasks", "group_id", groupID.String(), logger, "list tasks by group")
		span.RecordError(err)
		return nil, err
	}
	return tasks, nil
}

func (s *Service) ListAssignees(ctx context.Context, taskID uuid.UUID) ([]uuid.UUID, error) {
	traceCtx, span := s.tracer.Start(ctx, "ListAssignees")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	assignees, err := s.queries.ListAssignees(traceCtx, taskID)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "task_assignees", "task_id", taskID.String(), logger, "list assignees")
		span.RecordError(err)
		return nil, err
	}
	return assignees, nil
}

func (s *Service) Complete(ctx context.Context, id uuid.UUID) (Task, error) {
	traceCtx, span := s.tracer.Start(ctx, "Complete")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	completed, err := s.queries.Complete(traceCtx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Task{}, internal.ErrTaskNotFound
		}
		err = databaseutil.WrapDBErrorWithKeyValue(err, "tasks", "id", id.String(), logger, "complete task")
		span.RecordError(err)
		return Task{}, err
	}

	logger.Info("Completed task", zap.String("task_id", completed.ID.String()))
	return completed, nil
}

func (s *Service) ListDueSoon(ctx context.Context, window time.Duration) ([]Task, error) {
	traceCtx, span := s.tracer.Start(ctx, "ListDueSoon")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	interval := pgtype.Interval{Microseconds: window.Microseconds(), Valid: true}
	tasks, err := s.queries.ListDueSoon(traceCtx, interval)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "list tasks due soon")
		span.RecordError(err)
		return nil, err
	}
	return tasks, nil
}
