package group

import (
	"context"
	"net/http"

	"ClubHub/club-system-backend/internal"
	"ClubHub/club-system-backend/internal/user"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Middleware resolves the {groupId} path value, checks the requester's roster
// role and stores the group id in the request context.
type Middleware struct {
	logger        *zap.Logger
	problemWriter *problem.HttpWriter
	service       *Service
	tracer        trace.Tracer
}

func NewMiddleware(logger *zap.Logger, problemWriter *problem.HttpWriter, service *Service) *Middleware {
	return &Middleware{
		logger:        logger,
		problemWriter: problemWriter,
		service:       service,
		tracer:        otel.Tracer("group/middleware"),
	}
}

// RequireMember allows any member of the group through.
func (m *Middleware) RequireMember(handler http.HandlerFunc) http.HandlerFunc {
	return m.require(handler, false)
}

// RequireAdministrator allows only leaders and owners through.
func (m *Middleware) RequireAdministrator(handler http.HandlerFunc) http.HandlerFunc {
	return m.require(handler, true)
}

func (m *Middleware) require(handler http.HandlerFunc, administrator bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		traceCtx, span := m.tracer.Start(r.Context(), "GroupMiddleware")
		defer span.End()
		logger := logutil.WithContext(traceCtx, m.logger)

		groupID, err := handlerutil.ParseUUID(r.PathValue("groupId"))
		if err != nil {
			m.problemWriter.WriteError(traceCtx, w, err, logger)
			return
		}

		currentUser, ok := user.GetFromContext(traceCtx)
		if !ok {
			m.problemWriter.WriteError(traceCtx, w, internal.ErrNoUserInContext, logger)
			return
		}

		role, err := m.service.GetMemberRole(traceCtx, groupID, currentUser.ID)
		if err != nil {
			m.problemWriter.WriteError(traceCtx, w, err, logger)
			return
		}

		if administrator && !role.IsAdministrator() {
			span.RecordError(internal.ErrNotGroupLeader)
			m.problemWriter.WriteError(traceCtx, w, internal.ErrNotGroupLeader, logger)
			return
		}

		ctxWithGroup := context.WithValue(traceCtx, internal.GroupIDContextKey, groupID)

		handler(w, r.WithContext(ctxWithGroup))
	}
}
