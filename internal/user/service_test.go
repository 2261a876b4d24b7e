package user

import (
	"context"
	"testing"

	"ClubHub/club-system-backend/internal"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

type authKey struct {
	provider    string
	oauthUserID string
}

// fakeQuerier keeps users and auth records in maps instead of hitting a database
type fakeQuerier struct {
	users map[uuid.UUID]User
	auths map[authKey]uuid.UUID
}

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{
		users: make(map[uuid.UUID]User),
		auths: make(map[authKey]uuid.UUID),
	}
}

func (f *fakeQuerier) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	u, ok := f.users[id]
	if !ok {
		return User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeQuerier) GetIDByAuth(ctx context.Context, arg GetIDByAuthParams) (uuid.UUID, error) {
	id, ok := f.auths[authKey{arg.Provider, arg.OauthUserID}]
	if !ok {
		return uuid.Nil, pgx.ErrNoRows
	}
	return id, nil
}

func (f *fakeQuerier) ExistsByAuth(ctx context.Context, arg ExistsByAuthParams) (bool, error) {
	_, ok := f.auths[authKey{arg.Provider, arg.OauthUserID}]
	return ok, nil
}

func (f *fakeQuerier) Create(ctx context.Context, arg CreateParams) (User, error) {
	u := User{
		ID:               uuid.New(),
		Name:             arg.Name,
		Username:         arg.Username,
		AvatarUrl:        arg.AvatarUrl,
		Role:             arg.Role,
		OnboardingStatus: OnboardingStatusPending,
	}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeQuerier) CreateAuth(ctx context.Context, arg CreateAuthParams) (Auth, error) {
	f.auths[authKey{arg.Provider, arg.OauthUserID}] = arg.UserID
	return Auth{ID: uuid.New(), UserID: arg.UserID, Provider: arg.Provider, OauthUserID: arg.OauthUserID}, nil
}

func (f *fakeQuerier) Update(ctx context.Context, arg UpdateParams) (User, error) {
	u, ok := f.users[arg.ID]
	if !ok {
		return User{}, pgx.ErrNoRows
	}
	u.Name = arg.Name
	u.Username = arg.Username
	u.AvatarUrl = arg.AvatarUrl
	f.users[arg.ID] = u
	return u, nil
}

func (f *fakeQuerier) ListPending(ctx context.Context) ([]User, error) {
	var pending []User
	for _, u := range f.users {
		if u.OnboardingStatus == OnboardingStatusPending {
			pending = append(pending, u)
		}
	}
	return pending, nil
}

func (f *fakeQuerier) UpdateOnboardingStatus(ctx context.Context, arg UpdateOnboardingStatusParams) (User, error) {
	u, ok := f.users[arg.ID]
	if !ok {
		return User{}, pgx.ErrNoRows
	}
	u.OnboardingStatus = arg.OnboardingStatus
	f.users[arg.ID] = u
	return u, nil
}

func newTestService(q Querier) *Service {
	return &Service{
		logger:  zap.NewNop(),
		tracer:  otel.Tracer("user/service_test"),
		queries: q,
	}
}

func TestService_FindOrCreate(t *testing.T) {
	t.Run("Should create a pending user on first login", func(t *testing.T) {
		querier := newFakeQuerier()
		service := newTestService(querier)

		created, err := service.FindOrCreate(context.Background(), "google", "oauth-123", "Alice", "alice", "", "alice@example.com")

		require.NoError(t, err)
		require.Equal(t, OnboardingStatusPending, created.OnboardingStatus)
		require.Equal(t, []string{"user"}, created.Role)
		require.Len(t, querier.auths, 1)
	})

	t.Run("Should return the existing user on repeat login", func(t *testing.T) {
		querier := newFakeQuerier()
		service := newTestService(querier)

		first, err := service.FindOrCreate(context.Background(), "google", "oauth-123", "Alice", "alice", "", "alice@example.com")
		require.NoError(t, err)

		second, err := service.FindOrCreate(context.Background(), "google", "oauth-123", "Alice", "alice", "", "alice@example.com")
		require.NoError(t, err)

		require.Equal(t, first.ID, second.ID)
		require.Len(t, querier.users, 1)
	})

	t.Run("Should fill in a fallback avatar when the provider has none", func(t *testing.T) {
		querier := newFakeQuerier()
		service := newTestService(querier)

		created, err := service.FindOrCreate(context.Background(), "google", "oauth-456", "Bob Lee", "bob", "", "bob@example.com")

		require.NoError(t, err)
		require.True(t, created.AvatarUrl.Valid)
		require.Contains(t, created.AvatarUrl.String, "ui-avatars.com")
	})
}

func TestService_ReviewOnboarding(t *testing.T) {
	newPendingUser := func(t *testing.T, service *Service) User {
		created, err := service.FindOrCreate(context.Background(), "google", uuid.NewString(), "Carol", "carol", "", "carol@example.com")
		require.NoError(t, err)
		return created
	}

	t.Run("Should approve a pending user", func(t *testing.T) {
		service := newTestService(newFakeQuerier())
		pending := newPendingUser(t, service)

		reviewed, err := service.ReviewOnboarding(context.Background(), pending.ID, OnboardingStatusApproved)

		require.NoError(t, err)
		require.Equal(t, OnboardingStatusApproved, reviewed.OnboardingStatus)
	})

	t.Run("Should reject a pending user", func(t *testing.T) {
		service := newTestService(newFakeQuerier())
		pending := newPendingUser(t, service)

		reviewed, err := service.ReviewOnboarding(context.Background(), pending.ID, OnboardingStatusRejected)

		require.NoError(t, err)
		require.Equal(t, OnboardingStatusRejected, reviewed.OnboardingStatus)
	})

	t.Run("Should refuse to review an already approved user", func(t *testing.T) {
		service := newTestService(newFakeQuerier())
		pending := newPendingUser(t, service)

		_, err := service.ReviewOnboarding(context.Background(), pending.ID, OnboardingStatusApproved)
		require.NoError(t, err)

		_, err = service.ReviewOnboarding(context.Background(), pending.ID, OnboardingStatusRejected)
		require.ErrorIs(t, err, internal.ErrUserNotPending)
	})
}

func TestService_ListPending(t *testing.T) {
	querier := newFakeQuerier()
	service := newTestService(querier)

	pending, err := service.ListPending(context.Background())
	require.NoError(t, err)
	require.NotNil(t, pending)
	require.Empty(t, pending)

	_, err = service.FindOrCreate(context.Background(), "google", "oauth-789", "Dave", "dave", "", "dave@example.com")
	require.NoError(t, err)

	pending, err = service.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
}
