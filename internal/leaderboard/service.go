package leaderboard

import (
	"context"

	databaseutil "github.com/NYCU-SDC/summer/pkg/database"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Querier interface {
	ListCompletedCounts(ctx context.Context, groupID uuid.UUID) ([]ListCompletedCountsRow, error)
}

// Entry is one ranked row of a group leaderboard.
type Entry struct {
	Rank           int       `json:"rank"`
	MemberID       uuid.UUID `json:"memberId"`
	Name           string    `json:"name"`
	Username       string    `json:"username"`
	AvatarURL      string    `json:"avatarUrl"`
	CompletedCount int64     `json:"completedCount"`
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
		tracer:  otel.Tracer("leaderboard/service"),
	}
}

// ListByGroup ranks group members by completed tasks. Members with equal
// counts share a rank.
func (s *Service) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]Entry, error) {
	traceCtx, span := s.tracer.Start(ctx, "ListByGroup")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	rows, err := s.queries.ListCompletedCounts(traceCtx, groupID)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "tasks", "group_id", groupID.String(), logger, "list completed task counts")
		span.RecordError(err)
		return nil, err
	}

	entries := make([]Entry, 0, len(rows))
	rank := 0
	var previousCount int64 = -1
	for i, row := range rows {
		if row.CompletedCount != previousCount {
			rank = i + 1
			previousCount = row.CompletedCount
		}
		entries = append(entries, Entry{
			Rank:           rank,
			MemberID:       row.MemberID,
			Name:           row.Name.String,
			Username:       row.Username.String,
			AvatarURL:      row.AvatarUrl.String,
			CompletedCount: row.CompletedCount,
		})
	}

	return entries, nil
}
