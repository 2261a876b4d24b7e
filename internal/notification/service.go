package notification

import (
	"context"
	"errors"

	"ClubHub/club-system-backend/internal"

	databaseutil "github.com/NYCU-SDC/summer/pkg/database"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Querier interface {
	Create(ctx context.Context, arg CreateParams) (Notification, error)
	ListByUserID(ctx context.Context, arg ListByUserIDParams) ([]Notification, error)
	MarkRead(ctx context.Context, arg MarkReadParams) (Notification, error)
}

type Service struct {
	logger  *zap.Logger
	queries Querier
	tracer  trace.Tracer
}

func NewService(logger *zap.Logger, db DBTX) *Service {
	return &Service{
		logger:  logger,
		queries: New(db),
		tracer:  otel.Tracer("notification/service"),
	}
}

// CreateForUsers writes one notification per recipient. A failed write
// aborts the fan-out and reports the error to the caller.
func (s *Service) CreateForUsers(ctx context.Context, userIDs []uuid.UUID, title, message string) error {
	traceCtx, span := s.tracer.Start(ctx, "CreateForUsers")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	for _, userID := range userIDs {
		_, err := s.queries.Create(traceCtx, CreateParams{
			UserID:  userID,
			Title:   title,
			Message: message,
		})
		if err != nil {
			err = databaseutil.WrapDBErrorWithKeyValue(err, "notifications", "user_id", userID.String(), logger, "create notification")
			span.RecordError(err)
			return err
		}
	}

	logger.Debug("Created notifications", zap.Int("recipients", len(userIDs)), zap.String("title", title))
	return nil
}

func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID, filter *FilterRequest) ([]Notification, error) {
	traceCtx, span := s.tracer.Start(ctx, "ListByUser")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	arg := ListByUserIDParams{UserID: userID}
	if filter != nil {
		arg.IsRead = filter.IsRead
	}

	notifications, err := s.queries.ListByUserID(traceCtx, arg)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "list notifications by user")
		span.RecordError(err)
		return nil, err
	}

	if notifications == nil {
		return []Notification{}, nil
	}
	return notifications, nil
}

func (s *Service) MarkRead(ctx context.Context, id uuid.UUID, userID uuid.UUID) (Notification, error) {
	traceCtx, span := s.tracer.Start(ctx, "MarkRead")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	marked, err := s.queries.MarkRead(traceCtx, MarkReadParams{ID: id, UserID: userID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Notification{}, internal.ErrNotificationNotFound
		}
		err = databaseutil.WrapDBErrorWithKeyValue(err, "notifications", "id", id.String(), logger, "mark notification read")
		span.RecordError(err)
		return Notification{}, err
	}

	return marked, nil
}
