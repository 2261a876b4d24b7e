package user

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"ClubHub/club-system-backend/internal"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// GetFromContext extracts the authenticated user from request context
func GetFromContext(ctx context.Context) (*User, bool) {
	userData, ok := ctx.Value(internal.UserContextKey).(*User)
	return userData, ok
}

// IsAdmin reports whether the user carries the admin role.
func IsAdmin(u *User) bool {
	return slices.Contains(u.Role, "admin")
}

// MeResponse represents the response format for /users/me endpoint
type MeResponse struct {
	ID               string `json:"id"`
	Username         string `json:"username"`
	Name             string `json:"name"`
	AvatarUrl        string `json:"avatarUrl"`
	Role             string `json:"role"`
	OnboardingStatus string `json:"onboardingStatus"`
}

type Handler struct {
	logger        *zap.Logger
	validator     *validator.Validate
	problemWriter *problem.HttpWriter
	service       *Service
	tracer        trace.Tracer
}

func NewHandler(
	logger *zap.Logger,
	validator *validator.Validate,
	problemWriter *problem.HttpWriter,
	service *Service,
) *Handler {
	return &Handler{
		logger:        logger,
		validator:     validator,
		problemWriter: problemWriter,
		service:       service,
		tracer:        otel.Tracer("user/handler"),
	}
}

// GetMe handles GET /users/me - returns authenticated user information
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "GetMe")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	currentUser, ok := GetFromContext(traceCtx)
	if !ok {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrNoUserInContext, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, MeResponse{
		ID:               currentUser.ID.String(),
		Username:         currentUser.Username.String,
		Name:             currentUser.Name.String,
		AvatarUrl:        currentUser.AvatarUrl.String,
		Role:             strings.Join(currentUser.Role, ","),
		OnboardingStatus: string(currentUser.OnboardingStatus),
	})
}

type pendingUserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	AvatarUrl string `json:"avatarUrl"`
	CreatedAt string `json:"createdAt"`
}

// ListPending handles GET /users/pending - lists users awaiting onboarding review
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "ListPending")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	currentUser, ok := GetFromContext(traceCtx)
	if !ok {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrNoUserInContext, logger)
		return
	}
	if !IsAdmin(currentUser) {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrPermissionDenied, logger)
		return
	}

	pending, err := h.service.ListPending(traceCtx)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	response := make([]pendingUserResponse, 0, len(pending))
	for _, u := range pending {
		response = append(response, pendingUserResponse{
			ID:        u.ID.String(),
			Name:      u.Name.String,
			Username:  u.Username.String,
			AvatarUrl: u.AvatarUrl.String,
			CreatedAt: u.CreatedAt.Time.String(),
		})
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, response)
}

// Approve handles POST /users/{id}/approve
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, "Approve", OnboardingStatusApproved)
}

// Reject handles POST /users/{id}/reject
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, "Reject", OnboardingStatusRejected)
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request, spanName string, status OnboardingStatus) {
	traceCtx, span := h.tracer.Start(r.Context(), spanName)
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	currentUser, ok := GetFromContext(traceCtx)
	if !ok {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrNoUserInContext, logger)
		return
	}
	if !IsAdmin(currentUser) {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrPermissionDenied, logger)
		return
	}

	id, err := handlerutil.ParseUUID(r.PathValue("userId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	reviewed, err := h.service.ReviewOnboarding(traceCtx, id, status)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, MeResponse{
		ID:               reviewed.ID.String(),
		Username:         reviewed.Username.String,
		Name:             reviewed.Name.String,
		AvatarUrl:        reviewed.AvatarUrl.String,
		Role:             strings.Join(reviewed.Role, ","),
		OnboardingStatus: string(reviewed.OnboardingStatus),
	})
}
