package leaderboard

import (
	"net/http"

	"ClubHub/club-system-backend/internal"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Handler struct {
	logger        *zap.Logger
	problemWriter *problem.HttpWriter
	service       *Service
	tracer        trace.Tracer
}

func NewHandler(logger *zap.Logger, problemWriter *problem.HttpWriter, service *Service) *Handler {
	return &Handler{
		logger:        logger,
		problemWriter: problemWriter,
		service:       service,
		tracer:        otel.Tracer("leaderboard/handler"),
	}
}

// Get handles GET /groups/{groupId}/leaderboard
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "Get")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	groupID, err := internal.GetGroupIDFromContext(traceCtx)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	entries, err := h.service.ListByGroup(traceCtx, groupID)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, entries)
}
