package group

import (
	"context"
	"errors"

	"ClubHub/club-system-backend/internal"

	databaseutil "github.com/NYCU-SDC/summer/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Querier interface {
	Create(ctx context.Context, arg CreateParams) (Group, error)
	GetByID(ctx context.Context, id uuid.UUID) (Group, error)
	ListAll(ctx context.Context) ([]Group, error)
	ListAdministeredByUser(ctx context.Context, memberID uuid.UUID) ([]Group, error)
	Update(ctx context.Context, arg UpdateParams) (Group, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	AddMember(ctx context.Context, arg AddMemberParams) (GroupMember, error)
	RemoveMember(ctx context.Context, arg RemoveMemberParams) (int64, error)
	UpdateMemberRole(ctx context.Context, arg UpdateMemberRoleParams) (GroupMember, error)
	ListMembers(ctx context.Context, groupID uuid.UUID) ([]ListMembersRow, error)
	GetMemberRole(ctx context.Context, arg GetMemberRoleParams) (MemberRole, error)
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
		tracer:  otel.Tracer("group/service"),
	}
}

// Create creates a group and makes the creator its owner.
func (s *Service) Create(ctx context.Context, name, description string, ownerID uuid.UUID) (Group, error) {
	traceCtx, span := s.tracer.Start(ctx, "Create")
	defer span.End()
	logger := internal.WithContext(traceCtx, s.logger)

	created, err := s.queries.Create(traceCtx, CreateParams{
		Name:        name,
		Description: pgtype.Text{String: description, Valid: description != ""},
	})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "create group")
		span.RecordError(err)
		return Group{}, err
	}

	_, err = s.queries.AddMember(traceCtx, AddMemberParams{
		GroupID:  created.ID,
		MemberID: ownerID,
		Role:     MemberRoleOwner,
	})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "add group owner")
		span.RecordError(err)
		return Group{}, err
	}

	logger.Info("Created group",
		zap.String("group_id", created.ID.String()),
		zap.String("owner_id", ownerID.String()))

	return created, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (Group, error) {
	traceCtx, span := s.tracer.Start(ctx, "GetByID")
	defer span.End()
	logger := internal.WithContext(traceCtx, s.logger)

	found, err := s.queries.GetByID(traceCtx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.RecordError(internal.ErrGroupNotFound)
			return Group{}, internal.ErrGroupNotFound
		}
		err = databaseutil.WrapDBErrorWithKeyValue(err, "groups", "id", id.String(), logger, "get group by id")
		span.RecordError(err)
		return Group{}, err
	}

	return found, nil
}

// GetWithMembers returns the group with its embedded member roster.
func (s *Service) GetWithMembers(ctx context.Context, id uuid.UUID) (Detail, error) {
	traceCtx, span := s.tracer.Start(ctx, "GetWithMembers")
	defer span.End()

	found, err := s.GetByID(traceCtx, id)
	if err != nil {
		return Detail{}, err
	}

	members, err := s.ListMembers(traceCtx, id)
	if err != nil {
		return Detail{}, err
	}

	return Detail{
		ID:          found.ID,
		Name:        found.Name,
		Description: found.Description.String,
		Members:     members,
	}, nil
}

func (s *Service) ListAll(ctx context.Context) ([]Group, error) {
	traceCtx, span := s.tracer.Start(ctx, "ListAll")
	defer span.End()
	logger := internal.WithContext(traceCtx, s.logger)

	groups, err := s.queries.ListAll(traceCtx)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "list all groups")
		span.RecordError(err)
		return nil, err
	}

	if groups == nil {
		groups = []Group{}
	}

	return groups, nil
}

// ListAdministered returns groups the user leads or owns, each with its roster.
func (s *Service) ListAdministered(ctx context.Context, userID uuid.UUID) ([]Detail, error) {
	traceCtx, span := s.tracer.Start(ctx, "ListAdministered")
	defer span.End()
	logger := internal.WithContext(traceCtx, s.logger)

	groups, err := s.queries.ListAdministeredByUser(traceCtx, userID)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "list administered groups")
		span.RecordError(err)
		return nil, err
	}

	details := make([]Detail, 0, len(groups))
	for _, g := range groups {
		members, err := s.ListMembers(traceCtx, g.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, Detail{
			ID:          g.ID,
			Name:        g.Name,
			Description: g.Description.String,
			Members:     members,
		})
	}

	return details, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, name, description string) (Group, error) {
	traceCtx, span := s.tracer.Start(ctx, "Update")
	defer span.End()
	logger := internal.WithContext(traceCtx, s.logger)

	updated, err := s.queries.Update(traceCtx, UpdateParams{
		ID:          id,
		Name:        name,
		Description: pgtype.Text{String: description, Valid: description != ""},
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.RecordError(internal.ErrGroupNotFound)
			return Group{}, internal.ErrGroupNotFound
		}
		err = databaseutil.WrapDBErrorWithKeyValue(err, "groups", "id", id.String(), logger, "update group")
		span.RecordError(err)
		return Group{}, err
	}

	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	traceCtx, span := s.tracer.Start(ctx, "Delete")
	defer span.End()
	logger := internal.WithContext(traceCtx, s.logger)

	rowsAffected, err := s.queries.Delete(traceCtx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "groups", "id", id.String(), logger, "delete group")
		span.RecordError(err)
		return err
	}
	if rowsAffected == 0 {
		return internal.ErrGroupNotFound
	}

	logger.Info("Deleted group", zap.String("group_id", id.String()))

	return nil
}
