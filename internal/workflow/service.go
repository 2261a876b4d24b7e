package workflow

import (
	"context"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"ClubHub/club-system-backend/internal"
	"ClubHub/club-system-backend/internal/group"
)

// GroupStore resolves a group and its roster for the editor, and the
// requester's role in it.
type GroupStore interface {
	GetWithMembers(ctx context.Context, id uuid.UUID) (group.Detail, error)
	GetMemberRole(ctx context.Context, groupID uuid.UUID, memberID uuid.UUID) (group.MemberRole, error)
}

// Service coordinates editor sessions with the group directory and the
// task service.
type Service struct {
	logger   *zap.Logger
	tracer   trace.Tracer
	manager  *Manager
	groups   GroupStore
	executor *Executor
}

func NewService(logger *zap.Logger, manager *Manager, groups GroupStore, tasks TaskCreator) *Service {
	return &Service{
		logger:   logger,
		tracer:   otel.Tracer("workflow/service"),
		manager:  manager,
		groups:   groups,
		executor: NewExecutor(logger, tasks),
	}
}

func (s *Service) Open(ctx context.Context, ownerID uuid.UUID) *Session {
	traceCtx, span := s.tracer.Start(ctx, "Open")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	session := s.manager.Open(ownerID)
	logger.Info("Opened workflow editor session",
		zap.String("session_id", session.ID.String()),
		zap.String("owner_id", ownerID.String()))
	return session
}

func (s *Service) Get(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) (*Session, error) {
	_, span := s.tracer.Start(ctx, "Get")
	defer span.End()

	session, err := s.manager.Get(id, requesterID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return session, nil
}

func (s *Service) Close(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) error {
	traceCtx, span := s.tracer.Start(ctx, "Close")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	if err := s.manager.Close(id, requesterID); err != nil {
		span.RecordError(err)
		return err
	}
	logger.Info("Closed workflow editor session", zap.String("session_id", id.String()))
	return nil
}

// SelectGroup points the session at a group the requester administers.
// The group's roster is fetched once and handed to the graph, which clears
// every member reference made under the previous selection.
func (s *Service) SelectGroup(ctx context.Context, sessionID uuid.UUID, requesterID uuid.UUID, groupID uuid.UUID) (Snapshot, error) {
	traceCtx, span := s.tracer.Start(ctx, "SelectGroup")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	session, err := s.manager.Get(sessionID, requesterID)
	if err != nil {
		span.RecordError(err)
		return Snapshot{}, err
	}

	role, err := s.groups.GetMemberRole(traceCtx, groupID, requesterID)
	if err != nil {
		span.RecordError(err)
		return Snapshot{}, err
	}
	if !role.IsAdministrator() {
		return Snapshot{}, internal.ErrNotGroupLeader
	}

	detail, err := s.groups.GetWithMembers(traceCtx, groupID)
	if err != nil {
		span.RecordError(err)
		return Snapshot{}, err
	}

	session.Graph.SelectGroup(detail.ID, detail.Members)
	logger.Info("Selected group for workflow session",
		zap.String("session_id", sessionID.String()),
		zap.String("group_id", groupID.String()),
		zap.Int("roster_size", len(detail.Members)))

	return session.Graph.Snapshot(), nil
}

// Run executes the session's graph on behalf of the requester.
func (s *Service) Run(ctx context.Context, sessionID uuid.UUID, requesterID uuid.UUID) (RunResult, error) {
	traceCtx, span := s.tracer.Start(ctx, "Run")
	defer span.End()

	session, err := s.manager.Get(sessionID, requesterID)
	if err != nil {
		span.RecordError(err)
		return RunResult{}, err
	}

	return s.executor.Run(traceCtx, session.Graph, requesterID)
}
