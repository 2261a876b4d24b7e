package group

import (
	"context"
	"testing"

	"ClubHub/club-system-backend/internal"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

// fakeQuerier keeps groups and roster rows in maps instead of hitting a database
type fakeQuerier struct {
	groups  map[uuid.UUID]Group
	roles   map[uuid.UUID]map[uuid.UUID]MemberRole
	removed []RemoveMemberParams
}

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{
		groups: make(map[uuid.UUID]Group),
		roles:  make(map[uuid.UUID]map[uuid.UUID]MemberRole),
	}
}

func (f *fakeQuerier) Create(ctx context.Context, arg CreateParams) (Group, error) {
	g := Group{ID: uuid.New(), Name: arg.Name, Description: arg.Description}
	f.groups[g.ID] = g
	return g, nil
}

func (f *fakeQuerier) GetByID(ctx context.Context, id uuid.UUID) (Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return Group{}, pgx.ErrNoRows
	}
	return g, nil
}

func (f *fakeQuerier) ListAll(ctx context.Context) ([]Group, error) {
	groups := make([]Group, 0, len(f.groups))
	for _, g := range f.groups {
		groups = append(groups, g)
	}
	return groups, nil
}

func (f *fakeQuerier) ListAdministeredByUser(ctx context.Context, memberID uuid.UUID) ([]Group, error) {
	var groups []Group
	for groupID, members := range f.roles {
		if members[memberID].IsAdministrator() {
			groups = append(groups, f.groups[groupID])
		}
	}
	return groups, nil
}

func (f *fakeQuerier) Update(ctx context.Context, arg UpdateParams) (Group, error) {
	g, ok := f.groups[arg.ID]
	if !ok {
		return Group{}, pgx.ErrNoRows
	}
	g.Name = arg.Name
	g.Description = arg.Description
	f.groups[arg.ID] = g
	return g, nil
}

func (f *fakeQuerier) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	if _, ok := f.groups[id]; !ok {
		return 0, nil
	}
	delete(f.groups, id)
	return 1, nil
}

func (f *fakeQuerier) AddMember(ctx context.Context, arg AddMemberParams) (GroupMember, error) {
	if f.roles[arg.GroupID] == nil {
		f.roles[arg.GroupID] = make(map[uuid.UUID]MemberRole)
	}
	f.roles[arg.GroupID][arg.MemberID] = arg.Role
	return GroupMember{GroupID: arg.GroupID, MemberID: arg.MemberID, Role: arg.Role}, nil
}

func (f *fakeQuerier) RemoveMember(ctx context.Context, arg RemoveMemberParams) (int64, error) {
	if _, ok := f.roles[arg.GroupID][arg.MemberID]; !ok {
		return 0, nil
	}
	delete(f.roles[arg.GroupID], arg.MemberID)
	f.removed = append(f.removed, arg)
	return 1, nil
}

func (f *fakeQuerier) UpdateMemberRole(ctx context.Context, arg UpdateMemberRoleParams) (GroupMember, error) {
	if _, ok := f.roles[arg.GroupID][arg.MemberID]; !ok {
		return GroupMember{}, pgx.ErrNoRows
	}
	f.roles[arg.GroupID][arg.MemberID] = arg.Role
	return GroupMember{GroupID: arg.GroupID, MemberID: arg.MemberID, Role: arg.Role}, nil
}

func (f *fakeQuerier) ListMembers(ctx context.Context, groupID uuid.UUID) ([]ListMembersRow, error) {
	var rows []ListMembersRow
	for memberID, role := range f.roles[groupID] {
		rows = append(rows, ListMembersRow{
			MemberID: memberID,
			Role:     role,
			Username: pgtype.Text{String: "member", Valid: true},
		})
	}
	return rows, nil
}

func (f *fakeQuerier) GetMemberRole(ctx context.Context, arg GetMemberRoleParams) (MemberRole, error) {
	role, ok := f.roles[arg.GroupID][arg.MemberID]
	if !ok {
		return "", pgx.ErrNoRows
	}
	return role, nil
}

func newTestService(q Querier) *Service {
	return &Service{
		logger:  zap.NewNop(),
		tracer:  otel.Tracer("group/service_test"),
		queries: q,
	}
}

func TestService_Create_MakesCreatorOwner(t *testing.T) {
	querier := newFakeQuerier()
	service := newTestService(querier)
	owner := uuid.New()

	created, err := service.Create(context.Background(), "Photography Club", "Weekly photo walks", owner)

	require.NoError(t, err)
	require.Equal(t, "Photography Club", created.Name)
	require.Equal(t, MemberRoleOwner, querier.roles[created.ID][owner])
}

func TestService_GetByID_NotFound(t *testing.T) {
	service := newTestService(newFakeQuerier())

	_, err := service.GetByID(context.Background(), uuid.New())

	require.ErrorIs(t, err, internal.ErrGroupNotFound)
}

func TestService_GetWithMembers(t *testing.T) {
	querier := newFakeQuerier()
	service := newTestService(querier)

	created, err := service.Create(context.Background(), "Chess Club", "", uuid.New())
	require.NoError(t, err)

	member := uuid.New()
	_, err = service.AddMember(context.Background(), created.ID, member, MemberRoleMember)
	require.NoError(t, err)

	detail, err := service.GetWithMembers(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, detail.ID)
	require.Len(t, detail.Members, 2)
}

func TestService_Delete_NotFound(t *testing.T) {
	service := newTestService(newFakeQuerier())

	err := service.Delete(context.Background(), uuid.New())

	require.ErrorIs(t, err, internal.ErrGroupNotFound)
}

func TestService_AddMember(t *testing.T) {
	groupID := uuid.New()

	tests := []struct {
		name    string
		role    MemberRole
		wantErr error
	}{
		{name: "Should add a plain member", role: MemberRoleMember},
		{name: "Should add a leader", role: MemberRoleLeader},
		{name: "Should reject unknown role", role: MemberRole("president"), wantErr: internal.ErrInvalidMemberRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			querier := newFakeQuerier()
			service := newTestService(querier)

			member, err := service.AddMember(context.Background(), groupID, uuid.New(), tt.role)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.role, member.Role)
		})
	}
}

func TestService_RemoveMember(t *testing.T) {
	groupID := uuid.New()
	owner := uuid.New()
	member := uuid.New()

	setup := func(t *testing.T) (*fakeQuerier, *Service) {
		querier := newFakeQuerier()
		service := newTestService(querier)
		_, err := service.AddMember(context.Background(), groupID, owner, MemberRoleOwner)
		require.NoError(t, err)
		_, err = service.AddMember(context.Background(), groupID, member, MemberRoleMember)
		require.NoError(t, err)
		return querier, service
	}

	t.Run("Should remove a plain member", func(t *testing.T) {
		querier, service := setup(t)

		err := service.RemoveMember(context.Background(), groupID, member)

		require.NoError(t, err)
		require.Len(t, querier.removed, 1)
	})

	t.Run("Should refuse to remove the owner", func(t *testing.T) {
		querier, service := setup(t)

		err := service.RemoveMember(context.Background(), groupID, owner)

		require.ErrorIs(t, err, internal.ErrCannotRemoveOwner)
		require.Empty(t, querier.removed)
	})

	t.Run("Should report unknown member", func(t *testing.T) {
		_, service := setup(t)

		err := service.RemoveMember(context.Background(), groupID, uuid.New())

		require.ErrorIs(t, err, internal.ErrMemberNotFound)
	})
}

func TestService_UpdateMemberRole(t *testing.T) {
	groupID := uuid.New()
	member := uuid.New()

	querier := newFakeQuerier()
	service := newTestService(querier)
	_, err := service.AddMember(context.Background(), groupID, member, MemberRoleMember)
	require.NoError(t, err)

	t.Run("Should promote member to leader", func(t *testing.T) {
		updated, err := service.UpdateMemberRole(context.Background(), groupID, member, MemberRoleLeader)
		require.NoError(t, err)
		require.Equal(t, MemberRoleLeader, updated.Role)
	})

	t.Run("Should reject unknown role", func(t *testing.T) {
		_, err := service.UpdateMemberRole(context.Background(), groupID, member, MemberRole("captain"))
		require.ErrorIs(t, err, internal.ErrInvalidMemberRole)
	})

	t.Run("Should report unknown member", func(t *testing.T) {
		_, err := service.UpdateMemberRole(context.Background(), groupID, uuid.New(), MemberRoleLeader)
		require.ErrorIs(t, err, internal.ErrMemberNotFound)
	})
}

func TestService_ListAdministered(t *testing.T) {
	querier := newFakeQuerier()
	service := newTestService(querier)
	leader := uuid.New()

	led, err := service.Create(context.Background(), "Debate Society", "", uuid.New())
	require.NoError(t, err)
	_, err = service.AddMember(context.Background(), led.ID, leader, MemberRoleLeader)
	require.NoError(t, err)

	joined, err := service.Create(context.Background(), "Film Club", "", uuid.New())
	require.NoError(t, err)
	_, err = service.AddMember(context.Background(), joined.ID, leader, MemberRoleMember)
	require.NoError(t, err)

	details, err := service.ListAdministered(context.Background(), leader)

	require.NoError(t, err)
	require.Len(t, details, 1)
	require.Equal(t, led.ID, details[0].ID)
}
