package group

import (
	"errors"

	"ClubHub/club-system-backend/internal"

	databaseutil "github.com/NYCU-SDC/summer/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/net/context"
)

// AddMember adds a member to a group with the given roster role
func (s *Service) AddMember(ctx context.Context, groupID, memberID uuid.UUID, role MemberRole) (GroupMember, error) {
	traceCtx, span := s.tracer.Start(ctx, "AddMember")
	defer span.End()
	logger := internal.WithContext(traceCtx, s.logger)

	if !role.Valid() {
		span.RecordError(internal.ErrInvalidMemberRole)
		return GroupMember{}, internal.ErrInvalidMemberRole
	}

	member, err := s.queries.AddMember(traceCtx, AddMemberParams{
		GroupID:  groupID,
		MemberID: memberID,
		Role:     role,
	})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "add group member relationship")
		span.RecordError(err)
		return GroupMember{}, err
	}

	logger.Info("Added group member",
		zap.String("group_id", member.GroupID.String()),
		zap.String("member_id", member.MemberID.String()),
		zap.String("role", string(member.Role)))

	return member, nil
}

// ListMembers lists the member roster of a group
func (s *Service) ListMembers(ctx context.Context, groupID uuid.UUID) ([]Member, error) {
	traceCtx, span := s.tracer.Start(ctx, "ListMembers")
	defer span.End()
	logger := internal.WithContext(traceCtx, s.logger)

	rows, err := s.queries.ListMembers(traceCtx, groupID)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "list group members")
		span.RecordError(err)
		return nil, err
	}

	members := make([]Member, 0, len(rows))
	for _, row := range rows {
		members = append(members, Member{
			ID:        row.MemberID,
			Name:      row.Name.String,
			Username:  row.Username.String,
			AvatarURL: row.AvatarUrl.String,
			Role:      row.Role,
		})
	}

	return members, nil
}

// RemoveMember removes a member from a group, refusing to drop the owner
func (s *Service) RemoveMember(ctx context.Context, groupID, memberID uuid.UUID) error {
	traceCtx, span := s.tracer.Start(ctx, "RemoveMember")
	defer span.End()
	logger := internal.WithContext(traceCtx, s.logger)

	role, err := s.queries.GetMemberRole(traceCtx, GetMemberRoleParams{
		GroupID:  groupID,
		MemberID: memberID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.RecordError(internal.ErrMemberNotFound)
			return internal.ErrMemberNotFound
		}
		err = databaseutil.WrapDBError(err, logger, "get group member role")
		span.RecordError(err)
		return err
	}

	if role == MemberRoleOwner {
		span.RecordError(internal.ErrCannotRemoveOwner)
		return internal.ErrCannotRemoveOwner
	}

	_, err = s.queries.RemoveMember(traceCtx, RemoveMemberParams{
		GroupID:  groupID,
		MemberID: memberID,
	})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "remove group member")
		span.RecordError(err)
		return err
	}

	logger.Info("Removed group member",
		zap.String("group_id", groupID.String()),
		zap.String("member_id", memberID.String()))

	return nil
}

// UpdateMemberRole changes a member's roster role
func (s *Service) UpdateMemberRole(ctx context.Context, groupID, memberID uuid.UUID, role MemberRole) (GroupMember, error) {
	traceCtx, span := s.tracer.Start(ctx, "UpdateMemberRole")
	defer span.End()
	logger := internal.WithContext(traceCtx, s.logger)

	if !role.Valid() {
		span.RecordError(internal.ErrInvalidMemberRole)
		return GroupMember{}, internal.ErrInvalidMemberRole
	}

	member, err := s.queries.UpdateMemberRole(traceCtx, UpdateMemberRoleParams{
		GroupID:  groupID,
		MemberID: memberID,
		Role:     role,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.RecordError(internal.ErrMemberNotFound)
			return GroupMember{}, internal.ErrMemberNotFound
		}
		err = databaseutil.WrapDBError(err, logger, "update group member role")
		span.RecordError(err)
		return GroupMember{}, err
	}

	return member, nil
}

// GetMemberRole returns the role of a member within a group
func (s *Service) GetMemberRole(ctx context.Context, groupID, memberID uuid.UUID) (MemberRole, error) {
	traceCtx, span := s.tracer.Start(ctx, "GetMemberRole")
	defer span.End()
	logger := internal.WithContext(traceCtx, s.logger)

	role, err := s.queries.GetMemberRole(traceCtx, GetMemberRoleParams{
		GroupID:  groupID,
		MemberID: memberID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.RecordError(internal.ErrMemberNotFound)
			return "", internal.ErrMemberNotFound
		}
		err = databaseutil.WrapDBError(err, logger, "get group member role")
		span.RecordError(err)
		return "", err
	}

	return role, nil
}
