package workflow

import (
	"context"
	"fmt"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"ClubHub/club-system-backend/internal/task"
	"ClubHub/club-system-backend/internal/workflow/node"
)

// TaskCreator is the slice of the task service a run needs. Both the
// in-process service and the remote HTTP client satisfy it.
type TaskCreator interface {
	Create(ctx context.Context, req task.CreateRequest) (task.Task, error)
}

// RunResult reports what one run did. CreatedTasks lists tasks in the
// order they were created; on failure it still holds the tasks created
// before the failing call, since nothing is rolled back.
type RunResult struct {
	CreatedTasks []task.Task `json:"createdTasks"`
	SkippedNodes int         `json:"skippedNodes"`
}

// Executor turns an authored graph into task-service calls.
//
// A run only visits the immediate targets of the start node's outgoing
// edges: each task node there becomes one create-task call, issued
// sequentially in edge-connection order, and every other kind is skipped
// without error. Deeper nodes, condition branches, notifications,
// approvals, and timers are authored but never executed. The first failed
// call aborts the run; tasks already created stay created.
type Executor struct {
	logger *zap.Logger
	tracer trace.Tracer
	tasks  TaskCreator
}

func NewExecutor(logger *zap.Logger, tasks TaskCreator) *Executor {
	return &Executor{
		logger: logger,
		tracer: otel.Tracer("workflow/executor"),
		tasks:  tasks,
	}
}

// Run executes the graph on behalf of runBy.
func (e *Executor) Run(ctx context.Context, graph *Graph, runBy uuid.UUID) (RunResult, error) {
	traceCtx, span := e.tracer.Start(ctx, "Run")
	defer span.End()
	logger := logutil.WithContext(traceCtx, e.logger)

	_, targets, err := graph.startEdges()
	if err != nil {
		span.RecordError(err)
		return RunResult{}, err
	}

	result := RunResult{CreatedTasks: []task.Task{}}
	for _, target := range targets {
		payload, ok := target.Payload.(*node.TaskPayload)
		if !ok {
			result.SkippedNodes++
			logger.Debug("Skipped non-task node during run",
				zap.String("node_id", target.ID.String()),
				zap.String("kind", string(target.Kind)))
			continue
		}

		created, err := e.tasks.Create(traceCtx, task.CreateRequest{
			GroupID:     payload.GroupID,
			Title:       payload.Title,
			Description: payload.Description,
			DueDate:     payload.DueDate,
			Priority:    payload.Priority,
			AssignedTo:  payload.AssignedTo,
			CreatedBy:   runBy,
		})
		if err != nil {
			span.RecordError(err)
			logger.Error("Run aborted on failed task creation",
				zap.Error(err),
				zap.String("node_id", target.ID.String()),
				zap.Int("tasks_created", len(result.CreatedTasks)))
			return result, fmt.Errorf("create task for node %s: %w", target.ID, err)
		}
		result.CreatedTasks = append(result.CreatedTasks, created)
	}

	logger.Info("Completed workflow run",
		zap.Int("tasks_created", len(result.CreatedTasks)),
		zap.Int("nodes_skipped", result.SkippedNodes))
	return result, nil
}
