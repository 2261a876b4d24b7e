package workflow

import (
	"net/http"

	"ClubHub/club-system-backend/internal"
	"ClubHub/club-system-backend/internal/user"
	"ClubHub/club-system-backend/internal/workflow/node"

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
		tracer:        otel.Tracer("workflow/handler"),
	}
}

type sessionResponse struct {
	ID        string   `json:"id"`
	Graph     Snapshot `json:"graph"`
	CreatedAt string   `json:"createdAt"`
}

type selectGroupRequest struct {
	GroupID string `json:"groupId" validate:"required,uuid"`
}

type addNodeRequest struct {
	Kind     string        `json:"kind" validate:"required,oneof=start task condition notification approval timer"`
	Position node.Position `json:"position"`
}

type updateNodeRequest struct {
	Position *node.Position         `json:"position"`
	Payload  map[string]interface{} `json:"payload"`
}

type configureNodeRequest struct {
	Payload map[string]interface{} `json:"payload" validate:"required"`
}

type connectRequest struct {
	SourceID     string `json:"sourceId" validate:"required,uuid"`
	SourceHandle string `json:"sourceHandle"`
	TargetID     string `json:"targetId" validate:"required,uuid"`
}

func toSessionResponse(session *Session) sessionResponse {
	return sessionResponse{
		ID:        session.ID.String(),
		Graph:     session.Graph.Snapshot(),
		CreatedAt: session.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// resolveSession checks the {sessionId} path segment against the requester
// and writes the failure response itself when the session cannot be used.
func (h *Handler) resolveSession(r *http.Request, w http.ResponseWriter, logger *zap.Logger) (*Session, *user.User, bool) {
	traceCtx := r.Context()

	currentUser, ok := user.GetFromContext(traceCtx)
	if !ok {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrNoUserInContext, logger)
		return nil, nil, false
	}

	sessionID, err := handlerutil.ParseUUID(r.PathValue("sessionId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return nil, nil, false
	}

	session, err := h.service.Get(traceCtx, sessionID, currentUser.ID)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return nil, nil, false
	}

	return session, currentUser, true
}

// Open handles POST /workflows/sessions
func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "Open")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	currentUser, ok := user.GetFromContext(traceCtx)
	if !ok {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrNoUserInContext, logger)
		return
	}

	session := h.service.Open(traceCtx, currentUser.ID)
	handlerutil.WriteJSONResponse(w, http.StatusCreated, toSessionResponse(session))
}

// Get handles GET /workflows/sessions/{sessionId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "Get")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	session, _, ok := h.resolveSession(r.WithContext(traceCtx), w, logger)
	if !ok {
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, toSessionResponse(session))
}

// Close handles DELETE /workflows/sessions/{sessionId}
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "Close")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	currentUser, ok := user.GetFromContext(traceCtx)
	if !ok {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrNoUserInContext, logger)
		return
	}

	sessionID, err := handlerutil.ParseUUID(r.PathValue("sessionId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	if err := h.service.Close(traceCtx, sessionID, currentUser.ID); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusNoContent, nil)
}

// SelectGroup handles PUT /workflows/sessions/{sessionId}/group
func (h *Handler) SelectGroup(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "SelectGroup")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	currentUser, ok := user.GetFromContext(traceCtx)
	if !ok {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrNoUserInContext, logger)
		return
	}

	sessionID, err := handlerutil.ParseUUID(r.PathValue("sessionId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	var req selectGroupRequest
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	groupID, err := handlerutil.ParseUUID(req.GroupID)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	snapshot, err := h.service.SelectGroup(traceCtx, sessionID, currentUser.ID, groupID)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, snapshot)
}

// AddNode handles POST /workflows/sessions/{sessionId}/nodes
func (h *Handler) AddNode(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "AddNode")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	session, _, ok := h.resolveSession(r.WithContext(traceCtx), w, logger)
	if !ok {
		return
	}

	var req addNodeRequest
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	created, err := session.Graph.AddNode(node.Kind(req.Kind), req.Position)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusCreated, created)
}

// UpdateNode handles PATCH /workflows/sessions/{sessionId}/nodes/{nodeId}.
// It moves the node, shallow-merges payload fields, or both. The merge is
// unvalidated; the editor submit path goes through ConfigureNode.
func (h *Handler) UpdateNode(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "UpdateNode")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	session, _, ok := h.resolveSession(r.WithContext(traceCtx), w, logger)
	if !ok {
		return
	}

	nodeID, err := handlerutil.ParseUUID(r.PathValue("nodeId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	var req updateNodeRequest
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	if req.Position != nil {
		if err := session.Graph.MoveNode(nodeID, *req.Position); err != nil {
			h.problemWriter.WriteError(traceCtx, w, err, logger)
			return
		}
	}
	if req.Payload != nil {
		if err := session.Graph.UpdateNodePayload(nodeID, req.Payload); err != nil {
			h.problemWriter.WriteError(traceCtx, w, err, logger)
			return
		}
	}

	handlerutil.WriteJSONResponse(w, http.StatusNoContent, nil)
}

// ConfigureNode handles PUT /workflows/sessions/{sessionId}/nodes/{nodeId}/config.
// This is the editor submit path: the edits are validated against the
// selected group's roster before anything is committed.
func (h *Handler) ConfigureNode(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "ConfigureNode")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	session, _, ok := h.resolveSession(r.WithContext(traceCtx), w, logger)
	if !ok {
		return
	}

	nodeID, err := handlerutil.ParseUUID(r.PathValue("nodeId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	var req configureNodeRequest
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	configured, err := session.Graph.ConfigureNode(nodeID, req.Payload)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, configured)
}

// RemoveNode handles DELETE /workflows/sessions/{sessionId}/nodes/{nodeId}
func (h *Handler) RemoveNode(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "RemoveNode")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	session, _, ok := h.resolveSession(r.WithContext(traceCtx), w, logger)
	if !ok {
		return
	}

	nodeID, err := handlerutil.ParseUUID(r.PathValue("nodeId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	if err := session.Graph.RemoveNode(nodeID); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusNoContent, nil)
}

// Connect handles POST /workflows/sessions/{sessionId}/edges
func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "Connect")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	session, _, ok := h.resolveSession(r.WithContext(traceCtx), w, logger)
	if !ok {
		return
	}

	var req connectRequest
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	sourceID, err := handlerutil.ParseUUID(req.SourceID)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}
	targetID, err := handlerutil.ParseUUID(req.TargetID)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	edge, err := session.Graph.Connect(sourceID, req.SourceHandle, targetID)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusCreated, edge)
}

// RemoveEdge handles DELETE /workflows/sessions/{sessionId}/edges/{edgeId}
func (h *Handler) RemoveEdge(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "RemoveEdge")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	session, _, ok := h.resolveSession(r.WithContext(traceCtx), w, logger)
	if !ok {
		return
	}

	edgeID, err := handlerutil.ParseUUID(r.PathValue("edgeId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	if err := session.Graph.RemoveEdge(edgeID); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusNoContent, nil)
}

// Run handles POST /workflows/sessions/{sessionId}/run
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "Run")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	currentUser, ok := user.GetFromContext(traceCtx)
	if !ok {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrNoUserInContext, logger)
		return
	}

	sessionID, err := handlerutil.ParseUUID(r.PathValue("sessionId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	result, err := h.service.Run(traceCtx, sessionID, currentUser.ID)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, result)
}
