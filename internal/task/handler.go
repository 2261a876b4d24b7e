package task

import (
	"net/http"
	"time"

	"ClubHub/club-system-backend/internal"
	"ClubHub/club-system-backend/internal/user"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

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
		tracer:        otel.Tracer("task/handler"),
	}
}

type createRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	DueDate     string   `json:"dueDate" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Priority    string   `json:"priority" validate:"omitempty,oneof=low medium high"`
	AssignedTo  []string `json:"assignedTo" validate:"dive,uuid"`
}

func (h *Handler) toResponse(r *http.Request, t Task) Response {
	resp := Response{
		ID:          t.ID.String(),
		GroupID:     t.GroupID.String(),
		Title:       t.Title,
		Description: t.Description.String,
		Priority:    string(t.Priority),
		CreatedBy:   t.CreatedBy.String(),
		AssignedTo:  []string{},
		Completed:   t.CompletedAt.Valid,
		CreatedAt:   t.CreatedAt.Time.Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.Time.Format(time.RFC3339),
	}
	if t.DueDate.Valid {
		resp.DueDate = t.DueDate.Time.Format(time.RFC3339)
	}
	if t.CompletedAt.Valid {
		resp.CompletedAt = t.CompletedAt.Time.Format(time.RFC3339)
	}
	if assignees, err := h.service.ListAssignees(r.Context(), t.ID); err == nil {
		for _, id := range assignees {
			resp.AssignedTo = append(resp.AssignedTo, id.String())
		}
	}
	return resp
}

// Create handles POST /groups/{groupId}/tasks
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "Create")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	currentUser, ok := user.GetFromContext(traceCtx)
	if !ok {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrNoUserInContext, logger)
		return
	}

	groupID, err := internal.GetGroupIDFromContext(traceCtx)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	var req createRequest
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	serviceReq := CreateRequest{
		GroupID:     groupID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    Priority(req.Priority),
		CreatedBy:   currentUser.ID,
	}
	if req.DueDate != "" {
		dueDate, err := time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			h.problemWriter.WriteError(traceCtx, w, internal.ErrValidationFailed, logger)
			return
		}
		serviceReq.DueDate = &dueDate
	}
	for _, raw := range req.AssignedTo {
		memberID, err := handlerutil.ParseUUID(raw)
		if err != nil {
			h.problemWriter.WriteError(traceCtx, w, err, logger)
			return
		}
		serviceReq.AssignedTo = append(serviceReq.AssignedTo, memberID)
	}

	created, err := h.service.Create(traceCtx, serviceReq)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusCreated, h.toResponse(r, created))
}

// List handles GET /groups/{groupId}/tasks
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "List")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	groupID, err := internal.GetGroupIDFromContext(traceCtx)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	tasks, err := h.service.ListByGroup(traceCtx, groupID)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	response := make([]Response, 0, len(tasks))
	for _, t := range tasks {
		response = append(response, h.toResponse(r, t))
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, response)
}

// Get handles GET /groups/{groupId}/tasks/{taskId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "Get")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	taskID, err := handlerutil.ParseUUID(r.PathValue("taskId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	found, err := h.service.GetByID(traceCtx, taskID)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, h.toResponse(r, found))
}

// Complete handles POST /groups/{groupId}/tasks/{taskId}/complete
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "Complete")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	taskID, err := handlerutil.ParseUUID(r.PathValue("taskId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	completed, err := h.service.Complete(traceCtx, taskID)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, h.toResponse(r, completed))
}
