package internal

import (
	"errors"

	"github.com/NYCU-SDC/summer/pkg/problem"
)

var (
	// Auth Errors
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrProviderNotFound    = errors.New("provider not found")
	ErrOAuthError          = errors.New("failed to finish OAuth flow, OAuth error received")
	ErrInvalidCallbackInfo = errors.New("invalid callback info")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrUnauthorizedError   = errors.New("unauthorized error")
	ErrInternalServerError = errors.New("internal server error")
	ErrForbiddenError      = errors.New("forbidden error")
	ErrNotFound            = errors.New("not found")

	// JWT Authentication Errors
	ErrMissingAuthHeader       = errors.New("missing access token")
	ErrInvalidAuthHeaderFormat = errors.New("invalid access token")
	ErrInvalidJWTToken         = errors.New("invalid JWT token")
	ErrInvalidAuthUser         = errors.New("invalid authenticated user")

	// User Errors
	ErrUserNotFound    = errors.New("user not found")
	ErrNoUserInContext = errors.New("no user found in request context")
	ErrUserNotPending  = errors.New("user is not pending onboarding review")

	// Group Errors
	ErrGroupNotFound       = errors.New("group not found")
	ErrMemberNotFound      = errors.New("member not found in group")
	ErrMemberAlreadyExists = errors.New("member already exists in group")
	ErrInvalidMemberRole   = errors.New("invalid member role")
	ErrNotGroupLeader      = errors.New("requester is not a leader or owner of the group")
	ErrCannotRemoveOwner   = errors.New("cannot remove the group owner")

	// Task Errors
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskAlreadyCompleted = errors.New("task already completed")
	ErrTaskServiceFailure   = errors.New("task service request failed")

	// Notification Errors
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidIsReadParam   = errors.New("invalid isRead parameter")

	// Workflow Editor Errors
	ErrSessionNotFound   = errors.New("editor session not found")
	ErrNotSessionOwner   = errors.New("requester does not own this editor session")
	ErrNoGroupSelected   = errors.New("no group selected for this editor session")
	ErrNodeNotFound      = errors.New("node not found in graph")
	ErrEdgeNotFound      = errors.New("edge not found in graph")
	ErrNoStartNode       = errors.New("workflow has no start node")
	ErrCannotRemoveStart = errors.New("the start node cannot be removed")
	ErrUnknownNodeKind   = errors.New("unknown node kind")
	ErrValidationFailed  = errors.New("validation failed")
)

func NewProblemWriter() *problem.HttpWriter {
	return problem.NewWithMapping(ErrorHandler)
}

func ErrorHandler(err error) problem.Problem {
	switch {
	case errors.Is(err, ErrInvalidRefreshToken):
		return problem.NewNotFoundProblem("refresh token not found")
	case errors.Is(err, ErrProviderNotFound):
		return problem.NewNotFoundProblem("provider not found")
	case errors.Is(err, ErrInvalidCallbackInfo):
		return problem.NewValidateProblem("invalid callback info")
	case errors.Is(err, ErrPermissionDenied):
		return problem.NewForbiddenProblem("permission denied")
	case errors.Is(err, ErrUnauthorizedError):
		return problem.NewUnauthorizedProblem("unauthorized error")
	case errors.Is(err, ErrInternalServerError):
		return problem.NewInternalServerProblem("internal server error")
	case errors.Is(err, ErrForbiddenError):
		return problem.NewForbiddenProblem("forbidden error")
	case errors.Is(err, ErrNotFound):
		return problem.NewNotFoundProblem("not found")

	// JWT Authentication Errors
	case errors.Is(err, ErrMissingAuthHeader):
		return problem.NewUnauthorizedProblem("missing access token")
	case errors.Is(err, ErrInvalidAuthHeaderFormat):
		return problem.NewUnauthorizedProblem("invalid access token")
	case errors.Is(err, ErrInvalidJWTToken):
		return problem.NewUnauthorizedProblem("invalid JWT token")
	case errors.Is(err, ErrInvalidAuthUser):
		return problem.NewUnauthorizedProblem("invalid authenticated user")

	// User Errors
	case errors.Is(err, ErrUserNotFound):
		return problem.NewNotFoundProblem("user not found")
	case errors.Is(err, ErrNoUserInContext):
		return problem.NewUnauthorizedProblem("no user found in request context")
	case errors.Is(err, ErrUserNotPending):
		return problem.NewValidateProblem("user is not pending onboarding review")

	// Group Errors
	case errors.Is(err, ErrGroupNotFound):
		return problem.NewNotFoundProblem("group not found")
	case errors.Is(err, ErrMemberNotFound):
		return problem.NewNotFoundProblem("member not found in group")
	case errors.Is(err, ErrMemberAlreadyExists):
		return problem.NewValidateProblem("member already exists in group")
	case errors.Is(err, ErrInvalidMemberRole):
		return problem.NewValidateProblem("invalid member role")
	case errors.Is(err, ErrNotGroupLeader):
		return problem.NewForbiddenProblem("requester is not a leader or owner of the group")
	case errors.Is(err, ErrCannotRemoveOwner):
		return problem.NewValidateProblem("cannot remove the group owner")

	// Task Errors
	case errors.Is(err, ErrTaskNotFound):
		return problem.NewNotFoundProblem("task not found")
	case errors.Is(err, ErrTaskAlreadyCompleted):
		return problem.NewValidateProblem("task already completed")
	case errors.Is(err, ErrTaskServiceFailure):
		return problem.NewInternalServerProblem("task service request failed")

	// Notification Errors
	case errors.Is(err, ErrNotificationNotFound):
		return problem.NewNotFoundProblem("notification not found")
	case errors.Is(err, ErrInvalidIsReadParam):
		return problem.NewValidateProblem("invalid isRead parameter")

	// Workflow Editor Errors
	case errors.Is(err, ErrSessionNotFound):
		return problem.NewNotFoundProblem("editor session not found")
	case errors.Is(err, ErrNotSessionOwner):
		return problem.NewForbiddenProblem("requester does not own this editor session")
	case errors.Is(err, ErrNoGroupSelected):
		return problem.NewValidateProblem("no group selected for this editor session")
	case errors.Is(err, ErrNodeNotFound):
		return problem.NewNotFoundProblem("node not found in graph")
	case errors.Is(err, ErrEdgeNotFound):
		return problem.NewNotFoundProblem("edge not found in graph")
	case errors.Is(err, ErrNoStartNode):
		return problem.NewValidateProblem("workflow has no start node")
	case errors.Is(err, ErrCannotRemoveStart):
		return problem.NewValidateProblem("the start node cannot be removed")
	case errors.Is(err, ErrUnknownNodeKind):
		return problem.NewValidateProblem("unknown node kind")
	case errors.Is(err, ErrValidationFailed):
		return problem.NewValidateProblem("validation failed")
	}
	return problem.Problem{}
}
