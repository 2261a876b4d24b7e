package user

import (
	"context"
	"net/url"

	"ClubHub/club-system-backend/internal"

	databaseutil "github.com/NYCU-SDC/summer/pkg/database"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Querier interface {
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetIDByAuth(ctx context.Context, arg GetIDByAuthParams) (uuid.UUID, error)
	ExistsByAuth(ctx context.Context, arg ExistsByAuthParams) (bool, error)
	Create(ctx context.Context, arg CreateParams) (User, error)
	CreateAuth(ctx context.Context, arg CreateAuthParams) (Auth, error)
	Update(ctx context.Context, arg UpdateParams) (User, error)
	ListPending(ctx context.Context) ([]User, error)
	UpdateOnboardingStatus(ctx context.Context, arg UpdateOnboardingStatusParams) (User, error)
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
		tracer:  otel.Tracer("user/service"),
	}
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	traceCtx, span := s.tracer.Start(ctx, "GetByID")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	currentUser, err := s.queries.GetByID(traceCtx, id)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "get user by id")
		span.RecordError(err)
		return User{}, err
	}
	return currentUser, nil
}

// GetUserByID satisfies the jwt middleware UserStore interface.
func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	return s.GetByID(ctx, id)
}

// FindOrCreate resolves the OAuth identity to a local user, creating a new
// pending user on first login.
func (s *Service) FindOrCreate(ctx context.Context, provider, oauthUserID, name, username, avatarURL, email string) (User, error) {
	traceCtx, span := s.tracer.Start(ctx, "FindOrCreate")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	exists, err := s.queries.ExistsByAuth(traceCtx, ExistsByAuthParams{
		Provider:    provider,
		OauthUserID: oauthUserID,
	})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "check user existence by auth")
		span.RecordError(err)
		return User{}, err
	}

	if exists {
		userID, err := s.queries.GetIDByAuth(traceCtx, GetIDByAuthParams{
			Provider:    provider,
			OauthUserID: oauthUserID,
		})
		if err != nil {
			err = databaseutil.WrapDBError(err, logger, "get user id by auth")
			span.RecordError(err)
			return User{}, err
		}
		return s.GetByID(traceCtx, userID)
	}

	created, err := s.queries.Create(traceCtx, CreateParams{
		Name:      pgtype.Text{String: name, Valid: name != ""},
		Username:  pgtype.Text{String: username, Valid: username != ""},
		AvatarUrl: pgtype.Text{String: resolveAvatarUrl(name, avatarURL), Valid: true},
		Role:      []string{"user"},
	})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "create user")
		span.RecordError(err)
		return User{}, err
	}

	_, err = s.queries.CreateAuth(traceCtx, CreateAuthParams{
		UserID:      created.ID,
		Provider:    provider,
		OauthUserID: oauthUserID,
		Email:       pgtype.Text{String: email, Valid: email != ""},
	})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "create user auth record")
		span.RecordError(err)
		return User{}, err
	}

	logger.Info("Created new user from OAuth login",
		zap.String("user_id", created.ID.String()),
		zap.String("provider", provider))

	return created, nil
}

func (s *Service) ListPending(ctx context.Context) ([]User, error) {
	traceCtx, span := s.tracer.Start(ctx, "ListPending")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	pending, err := s.queries.ListPending(traceCtx)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "list pending users")
		span.RecordError(err)
		return nil, err
	}

	if pending == nil {
		pending = []User{}
	}

	return pending, nil
}

// ReviewOnboarding approves or rejects a pending user.
func (s *Service) ReviewOnboarding(ctx context.Context, id uuid.UUID, status OnboardingStatus) (User, error) {
	traceCtx, span := s.tracer.Start(ctx, "ReviewOnboarding")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	current, err := s.queries.GetByID(traceCtx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "users", "id", id.String(), logger, "get user by id")
		span.RecordError(err)
		return User{}, err
	}

	if current.OnboardingStatus != OnboardingStatusPending {
		span.RecordError(internal.ErrUserNotPending)
		return User{}, internal.ErrUserNotPending
	}

	reviewed, err := s.queries.UpdateOnboardingStatus(traceCtx, UpdateOnboardingStatusParams{
		ID:               id,
		OnboardingStatus: status,
	})
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "users", "id", id.String(), logger, "update onboarding status")
		span.RecordError(err)
		return User{}, err
	}

	logger.Info("Reviewed user onboarding",
		zap.String("user_id", id.String()),
		zap.String("status", string(status)))

	return reviewed, nil
}

func resolveAvatarUrl(name, avatarUrl string) string {
	if avatarUrl == "" {
		return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name)
	}
	return avatarUrl
}
